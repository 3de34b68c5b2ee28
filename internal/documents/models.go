package documents

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	TypeProformaInvoice    DocumentType = "PROFORMA_INVOICE"
	TypeCommercialInvoice  DocumentType = "COMMERCIAL_INVOICE"
	TypePackingList        DocumentType = "PACKING_LIST"
	TypeBillOfLading       DocumentType = "BILL_OF_LADING"
	TypeCertificateOrigin  DocumentType = "CERTIFICATE_OF_ORIGIN"
	TypeQuotationPDF       DocumentType = "QUOTATION_PDF"
	TypeShipmentSummary    DocumentType = "SHIPMENT_SUMMARY"
)

// Document is a generated or uploaded trade document tied to a shipment
type Document struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	ShipmentID     uuid.UUID       `json:"shipment_id" db:"shipment_id"`
	CompanyID      uuid.UUID       `json:"company_id" db:"company_id"`
	Name           string          `json:"name" db:"name"`
	DocumentType   DocumentType    `json:"document_type" db:"document_type"`
	FileSize       int64           `json:"file_size" db:"file_size"`
	S3Key          string          `json:"s3_key" db:"s3_key"`
	S3Bucket       string          `json:"s3_bucket" db:"s3_bucket"`
	Checksum       string          `json:"checksum" db:"checksum"`
	CurrentVersion int             `json:"current_version" db:"current_version"`
	GeneratedBy    string          `json:"generated_by" db:"generated_by"`
	GeneratedAt    time.Time       `json:"generated_at" db:"generated_at"`
	Metadata       json.RawMessage `json:"metadata,omitempty" db:"metadata"`
}

type DocumentVersion struct {
	ID            uuid.UUID `json:"id" db:"id"`
	DocumentID    uuid.UUID `json:"document_id" db:"document_id"`
	VersionNumber int       `json:"version_number" db:"version_number"`
	S3Key         string    `json:"s3_key" db:"s3_key"`
	ChangeSummary string    `json:"change_summary" db:"change_summary"`
	GeneratedBy   string    `json:"generated_by" db:"generated_by"`
	GeneratedAt   time.Time `json:"generated_at" db:"generated_at"`
}

// DocumentAccessLog records who touched a document and how
type DocumentAccessLog struct {
	ID          uuid.UUID `json:"id" db:"id"`
	DocumentID  uuid.UUID `json:"document_id" db:"document_id"`
	Actor       string    `json:"actor" db:"actor"`
	Action      string    `json:"action" db:"action"` // 'VIEW', 'DOWNLOAD', 'GENERATE', 'DELETE'
	IPAddress   string    `json:"ip_address" db:"ip_address"`
	PerformedAt time.Time `json:"performed_at" db:"performed_at"`
}
