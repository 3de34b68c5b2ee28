package exports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// CSVOptions configures ledger CSV output
type CSVOptions struct {
	Delimiter       rune
	IncludeHeader   bool
	TimestampFormat string
	NullValue       string
}

// DefaultCSVOptions returns the standard ledger CSV settings
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:       ',',
		IncludeHeader:   true,
		TimestampFormat: time.RFC3339,
	}
}

// WriteCSV writes the shipment ledger as CSV
func WriteCSV(w io.Writer, rows []LedgerRow, options CSVOptions) error {
	writer := csv.NewWriter(w)
	writer.Comma = options.Delimiter

	if options.IncludeHeader {
		if err := writer.Write(ledgerColumns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for _, row := range rows {
		record := make([]string, 0, len(ledgerColumns))
		for _, val := range row.values() {
			record = append(record, formatCSVValue(val, options))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCSVValue(val interface{}, options CSVOptions) string {
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if v.IsZero() {
			return options.NullValue
		}
		return v.Format(options.TimestampFormat)
	default:
		return fmt.Sprintf("%v", v)
	}
}
