package documents

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocumentByID(ctx context.Context, id uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context, shipmentID *uuid.UUID, docType *DocumentType) ([]Document, error)
	UpdateDocument(ctx context.Context, doc *Document) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error

	CreateVersion(ctx context.Context, version *DocumentVersion) error
	ListVersions(ctx context.Context, documentID uuid.UUID) ([]DocumentVersion, error)
	GetVersion(ctx context.Context, documentID uuid.UUID, versionNumber int) (*DocumentVersion, error)

	LogAccess(ctx context.Context, log *DocumentAccessLog) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateDocument(ctx context.Context, doc *Document) error {
	query := `
		INSERT INTO documents (
			id, shipment_id, company_id, name, document_type, file_size,
			s3_key, s3_bucket, checksum, current_version, generated_by, generated_at, metadata
		) VALUES (
			:id, :shipment_id, :company_id, :name, :document_type, :file_size,
			:s3_key, :s3_bucket, :checksum, :current_version, :generated_by, :generated_at, :metadata
		)`
	_, err := r.db.NamedExecContext(ctx, query, doc)
	return err
}

func (r *postgresRepository) GetDocumentByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	var doc Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &doc, err
}

func (r *postgresRepository) ListDocuments(ctx context.Context, shipmentID *uuid.UUID, docType *DocumentType) ([]Document, error) {
	var docs []Document
	query := "SELECT * FROM documents WHERE 1=1"
	var args []interface{}
	argCount := 1

	if shipmentID != nil {
		query += fmt.Sprintf(" AND shipment_id = $%d", argCount)
		args = append(args, *shipmentID)
		argCount++
	}
	if docType != nil {
		query += fmt.Sprintf(" AND document_type = $%d", argCount)
		args = append(args, *docType)
		argCount++
	}
	query += " ORDER BY generated_at DESC"

	err := r.db.SelectContext(ctx, &docs, query, args...)
	return docs, err
}

func (r *postgresRepository) UpdateDocument(ctx context.Context, doc *Document) error {
	query := `
		UPDATE documents SET
			name = :name,
			file_size = :file_size,
			s3_key = :s3_key,
			checksum = :checksum,
			current_version = :current_version,
			metadata = :metadata
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, doc)
	return err
}

func (r *postgresRepository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	return err
}

func (r *postgresRepository) CreateVersion(ctx context.Context, version *DocumentVersion) error {
	query := `
		INSERT INTO document_versions (
			id, document_id, version_number, s3_key, change_summary, generated_by, generated_at
		) VALUES (
			:id, :document_id, :version_number, :s3_key, :change_summary, :generated_by, :generated_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, version)
	return err
}

func (r *postgresRepository) ListVersions(ctx context.Context, documentID uuid.UUID) ([]DocumentVersion, error) {
	var versions []DocumentVersion
	err := r.db.SelectContext(ctx, &versions, "SELECT * FROM document_versions WHERE document_id = $1 ORDER BY version_number DESC", documentID)
	return versions, err
}

func (r *postgresRepository) GetVersion(ctx context.Context, documentID uuid.UUID, versionNumber int) (*DocumentVersion, error) {
	var version DocumentVersion
	err := r.db.GetContext(ctx, &version, "SELECT * FROM document_versions WHERE document_id = $1 AND version_number = $2", documentID, versionNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &version, err
}

func (r *postgresRepository) LogAccess(ctx context.Context, log *DocumentAccessLog) error {
	query := `
		INSERT INTO document_access_logs (
			id, document_id, actor, action, ip_address, performed_at
		) VALUES (
			:id, :document_id, :actor, :action, :ip_address, :performed_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, log)
	return err
}
