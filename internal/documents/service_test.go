package documents

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
	"tradeflow/trade-portal/trade-portal-backend/pkg/pdf"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateDocument(ctx context.Context, doc *Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRepository) GetDocumentByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Document), args.Error(1)
}

func (m *MockRepository) ListDocuments(ctx context.Context, shipmentID *uuid.UUID, docType *DocumentType) ([]Document, error) {
	args := m.Called(ctx, shipmentID, docType)
	return args.Get(0).([]Document), args.Error(1)
}

func (m *MockRepository) UpdateDocument(ctx context.Context, doc *Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRepository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CreateVersion(ctx context.Context, version *DocumentVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockRepository) ListVersions(ctx context.Context, documentID uuid.UUID) ([]DocumentVersion, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).([]DocumentVersion), args.Error(1)
}

func (m *MockRepository) GetVersion(ctx context.Context, documentID uuid.UUID, versionNumber int) (*DocumentVersion, error) {
	args := m.Called(ctx, documentID, versionNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DocumentVersion), args.Error(1)
}

func (m *MockRepository) LogAccess(ctx context.Context, log *DocumentAccessLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

type fakeShipmentSource struct {
	shipment *workflow.Shipment
}

func (f *fakeShipmentSource) Get(_ context.Context, _ uuid.UUID) (*workflow.Shipment, error) {
	return f.shipment, nil
}

type fakeGenerator struct {
	lastData pdf.DocumentData
}

func (f *fakeGenerator) Generate(_ context.Context, data pdf.DocumentData) (io.ReadSeeker, error) {
	f.lastData = data
	return bytes.NewReader([]byte("%PDF-1.4 fake")), nil
}

type fakeObjectStore struct {
	uploads map[string][]byte
	deleted []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{uploads: make(map[string][]byte)}
}

func (f *fakeObjectStore) Upload(_ context.Context, _, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.uploads[key] = data
	return nil
}

func (f *fakeObjectStore) Download(_ context.Context, _, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.uploads[key])), nil
}

func (f *fakeObjectStore) Delete(_ context.Context, _, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjectStore) GetPresignedURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://" + bucket + ".s3.amazonaws.com/" + key, nil
}

func testShipment() *workflow.Shipment {
	return &workflow.Shipment{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		Kind:        workflow.KindExport,
		Status:      "QUOTATION_SENT",
		Reference:   "EXP-2026-0042",
		Goods:       "Ceramic tiles",
		Origin:      "Mundra",
		Destination: "Rotterdam",
		Value:       54000,
		Currency:    "USD",
		Incoterm:    "FOB",
	}
}

func TestGenerateUploadsAndPersists(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("CreateDocument", mock.Anything, mock.AnythingOfType("*documents.Document")).Return(nil)
	mockRepo.On("LogAccess", mock.Anything, mock.MatchedBy(func(l *DocumentAccessLog) bool {
		return l.Action == "GENERATE"
	})).Return(nil)

	store := newFakeObjectStore()
	gen := &fakeGenerator{}
	shipment := testShipment()

	service := NewService(mockRepo, &fakeShipmentSource{shipment: shipment}, gen, store, "trade-docs", nil, zap.NewNop())

	doc, err := service.Generate(context.Background(), GenerateRequest{
		ShipmentID:   shipment.ID,
		DocumentType: TypeProformaInvoice,
		Actor:        "finance@acme.example",
	})

	require.NoError(t, err)
	assert.Equal(t, shipment.CompanyID, doc.CompanyID)
	assert.Equal(t, 1, doc.CurrentVersion)
	assert.Equal(t, "trade-docs", doc.S3Bucket)
	assert.Contains(t, doc.Name, "Proforma Invoice")
	assert.Contains(t, doc.Name, shipment.Reference)
	assert.Len(t, store.uploads, 1)
	assert.Greater(t, doc.FileSize, int64(0))
	assert.Len(t, doc.Checksum, 64, "hex sha-256 of the rendered file")
	mockRepo.AssertExpectations(t)
}

func TestGenerateDefaultsLineFromShipmentGoods(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("CreateDocument", mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("LogAccess", mock.Anything, mock.Anything).Return(nil)

	gen := &fakeGenerator{}
	shipment := testShipment()
	service := NewService(mockRepo, &fakeShipmentSource{shipment: shipment}, gen, newFakeObjectStore(), "trade-docs", nil, zap.NewNop())

	_, err := service.Generate(context.Background(), GenerateRequest{
		ShipmentID:   shipment.ID,
		DocumentType: TypeCommercialInvoice,
		Actor:        "finance@acme.example",
	})

	require.NoError(t, err)
	require.Len(t, gen.lastData.Lines, 1)
	assert.Equal(t, "Ceramic tiles", gen.lastData.Lines[0].Description)
	assert.Equal(t, 54000.0, gen.lastData.Lines[0].Amount)
	assert.Equal(t, "USD", gen.lastData.Currency)
	assert.Equal(t, "FOB", gen.lastData.Meta["Incoterm"])
}

func TestGenerateRejectsUnknownType(t *testing.T) {
	service := NewService(new(MockRepository), &fakeShipmentSource{}, &fakeGenerator{}, newFakeObjectStore(), "trade-docs", nil, zap.NewNop())

	_, err := service.Generate(context.Background(), GenerateRequest{
		DocumentType: DocumentType("NAPKIN_SKETCH"),
		Actor:        "someone",
	})

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown document type"))
}

func TestNewVersionIncrementsAndUpdatesDocument(t *testing.T) {
	shipment := testShipment()
	doc := &Document{
		ID:             uuid.New(),
		ShipmentID:     shipment.ID,
		CompanyID:      shipment.CompanyID,
		Name:           "Packing List - EXP-2026-0042",
		DocumentType:   TypePackingList,
		CurrentVersion: 1,
		S3Bucket:       "trade-docs",
		S3Key:          "old-key",
	}

	mockRepo := new(MockRepository)
	mockRepo.On("GetDocumentByID", mock.Anything, doc.ID).Return(doc, nil)
	mockRepo.On("CreateVersion", mock.Anything, mock.MatchedBy(func(v *DocumentVersion) bool {
		return v.VersionNumber == 2 && v.DocumentID == doc.ID
	})).Return(nil)
	mockRepo.On("UpdateDocument", mock.Anything, doc).Return(nil)
	mockRepo.On("LogAccess", mock.Anything, mock.Anything).Return(nil)

	store := newFakeObjectStore()
	service := NewService(mockRepo, &fakeShipmentSource{shipment: shipment}, &fakeGenerator{}, store, "trade-docs", nil, zap.NewNop())

	version, err := service.NewVersion(context.Background(), doc.ID, VersionRequest{
		ChangeSummary: "corrected carton counts",
		Actor:         "ops@acme.example",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, version.VersionNumber)
	assert.Equal(t, 2, doc.CurrentVersion)
	assert.NotEqual(t, "old-key", doc.S3Key, "document points at the new object")
	mockRepo.AssertExpectations(t)
}

func TestGetNotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetDocumentByID", mock.Anything, mock.Anything).Return(nil, nil)

	service := NewService(mockRepo, &fakeShipmentSource{}, &fakeGenerator{}, newFakeObjectStore(), "trade-docs", nil, zap.NewNop())

	_, err := service.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesStoredObject(t *testing.T) {
	doc := &Document{ID: uuid.New(), S3Bucket: "trade-docs", S3Key: "shipments/x/doc.pdf"}

	mockRepo := new(MockRepository)
	mockRepo.On("GetDocumentByID", mock.Anything, doc.ID).Return(doc, nil)
	mockRepo.On("DeleteDocument", mock.Anything, doc.ID).Return(nil)
	mockRepo.On("LogAccess", mock.Anything, mock.MatchedBy(func(l *DocumentAccessLog) bool {
		return l.Action == "DELETE"
	})).Return(nil)

	store := newFakeObjectStore()
	service := NewService(mockRepo, &fakeShipmentSource{}, &fakeGenerator{}, store, "trade-docs", nil, zap.NewNop())

	require.NoError(t, service.Delete(context.Background(), doc.ID, "admin@acme.example"))
	assert.Equal(t, []string{"shipments/x/doc.pdf"}, store.deleted)
	mockRepo.AssertExpectations(t)
}
