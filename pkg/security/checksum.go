package security

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Checksum returns the hex SHA-256 digest of the reader's contents
func Checksum(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify re-hashes the reader and compares against the expected digest
func Verify(r io.Reader, want string) error {
	got, err := Checksum(r)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
	}
	return nil
}
