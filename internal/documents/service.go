package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradeflow/trade-portal/trade-portal-backend/internal/events"
	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
	"tradeflow/trade-portal/trade-portal-backend/pkg/pdf"
	"tradeflow/trade-portal/trade-portal-backend/pkg/security"
	"tradeflow/trade-portal/trade-portal-backend/pkg/storage"
)

// ErrNotFound is returned when a document id resolves to nothing
var ErrNotFound = errors.New("document not found")

// ShipmentSource resolves the shipment a document is generated for
type ShipmentSource interface {
	Get(ctx context.Context, id uuid.UUID) (*workflow.Shipment, error)
}

var titles = map[DocumentType]string{
	TypeProformaInvoice:   "Proforma Invoice",
	TypeCommercialInvoice: "Commercial Invoice",
	TypePackingList:       "Packing List",
	TypeBillOfLading:      "Bill of Lading",
	TypeCertificateOrigin: "Certificate of Origin",
	TypeQuotationPDF:      "Quotation",
	TypeShipmentSummary:   "Shipment Summary",
}

// GenerateRequest asks for a trade document rendered from a shipment
type GenerateRequest struct {
	ShipmentID   uuid.UUID      `json:"shipment_id" binding:"required"`
	DocumentType DocumentType   `json:"document_type" binding:"required"`
	Issuer       pdf.Party      `json:"issuer"`
	Counterparty pdf.Party      `json:"counterparty"`
	Lines        []pdf.LineItem `json:"lines"`
	Notes        string         `json:"notes"`
	Actor        string         `json:"actor" binding:"required"`
}

// VersionRequest regenerates an existing document as a new version
type VersionRequest struct {
	Lines         []pdf.LineItem `json:"lines"`
	Notes         string         `json:"notes"`
	ChangeSummary string         `json:"change_summary"`
	Actor         string         `json:"actor" binding:"required"`
}

// Service generates, stores and serves trade documents
type Service struct {
	repo      Repository
	shipments ShipmentSource
	generator pdf.Generator
	store     storage.S3Client
	bucket    string
	recorder  events.Recorder
	logger    *zap.Logger
}

func NewService(repo Repository, shipments ShipmentSource, generator pdf.Generator, store storage.S3Client, bucket string, recorder events.Recorder, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		shipments: shipments,
		generator: generator,
		store:     store,
		bucket:    bucket,
		recorder:  recorder,
		logger:    logger,
	}
}

func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Document, error) {
	title, ok := titles[req.DocumentType]
	if !ok {
		return nil, fmt.Errorf("unknown document type %q", req.DocumentType)
	}

	shipment, err := s.shipments.Get(ctx, req.ShipmentID)
	if err != nil {
		return nil, err
	}

	data := s.documentData(title, shipment, req.Issuer, req.Counterparty, req.Lines, req.Notes)
	reader, err := s.generator.Generate(ctx, data)
	if err != nil {
		return nil, err
	}
	size, checksum, err := inspect(reader)
	if err != nil {
		return nil, err
	}

	docID := uuid.New()
	key := s.objectKey(shipment, req.DocumentType, docID, 1)
	if err := s.store.Upload(ctx, s.bucket, key, reader); err != nil {
		return nil, err
	}

	meta, _ := json.Marshal(map[string]string{
		"shipment_reference": shipment.Reference,
		"shipment_status":    shipment.Status,
	})
	doc := &Document{
		ID:             docID,
		ShipmentID:     shipment.ID,
		CompanyID:      shipment.CompanyID,
		Name:           fmt.Sprintf("%s - %s", title, shipment.Reference),
		DocumentType:   req.DocumentType,
		FileSize:       size,
		S3Key:          key,
		S3Bucket:       s.bucket,
		Checksum:       checksum,
		CurrentVersion: 1,
		GeneratedBy:    req.Actor,
		GeneratedAt:    time.Now().UTC(),
		Metadata:       meta,
	}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	s.logAccess(ctx, doc.ID, req.Actor, "GENERATE")
	s.recordEvent(ctx, doc)
	return doc, nil
}

func (s *Service) NewVersion(ctx context.Context, id uuid.UUID, req VersionRequest) (*DocumentVersion, error) {
	doc, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	shipment, err := s.shipments.Get(ctx, doc.ShipmentID)
	if err != nil {
		return nil, err
	}

	data := s.documentData(titles[doc.DocumentType], shipment, pdf.Party{}, pdf.Party{}, req.Lines, req.Notes)
	reader, err := s.generator.Generate(ctx, data)
	if err != nil {
		return nil, err
	}
	size, checksum, err := inspect(reader)
	if err != nil {
		return nil, err
	}

	number := doc.CurrentVersion + 1
	key := s.objectKey(shipment, doc.DocumentType, doc.ID, number)
	if err := s.store.Upload(ctx, s.bucket, key, reader); err != nil {
		return nil, err
	}

	version := &DocumentVersion{
		ID:            uuid.New(),
		DocumentID:    doc.ID,
		VersionNumber: number,
		S3Key:         key,
		ChangeSummary: req.ChangeSummary,
		GeneratedBy:   req.Actor,
		GeneratedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateVersion(ctx, version); err != nil {
		return nil, err
	}

	doc.CurrentVersion = number
	doc.S3Key = key
	doc.FileSize = size
	doc.Checksum = checksum
	if err := s.repo.UpdateDocument(ctx, doc); err != nil {
		return nil, err
	}
	s.logAccess(ctx, doc.ID, req.Actor, "GENERATE")
	return version, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.getExisting(ctx, id)
}

func (s *Service) List(ctx context.Context, shipmentID *uuid.UUID, docType *DocumentType) ([]Document, error) {
	return s.repo.ListDocuments(ctx, shipmentID, docType)
}

func (s *Service) Download(ctx context.Context, id uuid.UUID, actor string) (io.ReadCloser, *Document, error) {
	doc, err := s.getExisting(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	body, err := s.store.Download(ctx, doc.S3Bucket, doc.S3Key)
	if err != nil {
		return nil, nil, err
	}
	s.logAccess(ctx, doc.ID, actor, "DOWNLOAD")
	return body, doc, nil
}

func (s *Service) PresignURL(ctx context.Context, id uuid.UUID, expiry time.Duration) (string, error) {
	doc, err := s.getExisting(ctx, id)
	if err != nil {
		return "", err
	}
	return s.store.GetPresignedURL(ctx, doc.S3Bucket, doc.S3Key, expiry)
}

func (s *Service) ListVersions(ctx context.Context, id uuid.UUID) ([]DocumentVersion, error) {
	if _, err := s.getExisting(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListVersions(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	doc, err := s.getExisting(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, doc.S3Bucket, doc.S3Key); err != nil {
		s.logger.Warn("Failed to delete stored object", zap.String("key", doc.S3Key), zap.Error(err))
	}
	if err := s.repo.DeleteDocument(ctx, id); err != nil {
		return err
	}
	s.logAccess(ctx, id, actor, "DELETE")
	return nil
}

// inspect sizes and fingerprints a rendered document, leaving the
// reader positioned at the start for upload
func inspect(r io.ReadSeeker) (int64, string, error) {
	checksum, err := security.Checksum(r)
	if err != nil {
		return 0, "", err
	}
	size, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, "", err
	}
	return size, checksum, nil
}

func (s *Service) getExisting(ctx context.Context, id uuid.UUID) (*Document, error) {
	doc, err := s.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *Service) documentData(title string, shipment *workflow.Shipment, issuer, counterparty pdf.Party, lines []pdf.LineItem, notes string) pdf.DocumentData {
	if len(lines) == 0 && shipment.Goods != "" {
		lines = []pdf.LineItem{{
			Description: shipment.Goods,
			Quantity:    1,
			Unit:        "lot",
			UnitPrice:   shipment.Value,
			Amount:      shipment.Value,
		}}
	}
	return pdf.DocumentData{
		Title:        title,
		Reference:    shipment.Reference,
		Date:         time.Now().UTC(),
		Issuer:       issuer,
		Counterparty: counterparty,
		Lines:        lines,
		Currency:     shipment.Currency,
		Meta: map[string]string{
			"Origin":      shipment.Origin,
			"Destination": shipment.Destination,
			"Incoterm":    shipment.Incoterm,
		},
		Notes: notes,
	}
}

func (s *Service) objectKey(shipment *workflow.Shipment, docType DocumentType, docID uuid.UUID, version int) string {
	return fmt.Sprintf("shipments/%s/%s/%s_v%d.pdf",
		shipment.ID, strings.ToLower(string(docType)), docID, version)
}

func (s *Service) logAccess(ctx context.Context, docID uuid.UUID, actor, action string) {
	log := &DocumentAccessLog{
		ID:          uuid.New(),
		DocumentID:  docID,
		Actor:       actor,
		Action:      action,
		PerformedAt: time.Now().UTC(),
	}
	if err := s.repo.LogAccess(ctx, log); err != nil {
		s.logger.Warn("Failed to log document access", zap.Error(err))
	}
}

func (s *Service) recordEvent(ctx context.Context, doc *Document) {
	if s.recorder == nil {
		return
	}
	event := &events.CompanyEvent{
		CompanyID:   doc.CompanyID,
		EventType:   events.EventDocumentGenerated,
		Title:       doc.Name,
		Description: fmt.Sprintf("%s generated for shipment %s", doc.DocumentType, doc.ShipmentID),
	}
	if err := s.recorder.Record(ctx, event); err != nil {
		s.logger.Warn("Failed to record company event", zap.Error(err))
	}
}
