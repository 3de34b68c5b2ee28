package buyers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tradeflow/trade-portal/trade-portal-backend/internal/events"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, buyer *Buyer) error {
	args := m.Called(ctx, buyer)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Buyer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Buyer), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, buyer *Buyer) error {
	args := m.Called(ctx, buyer)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, filter BuyerFilter) ([]Buyer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]Buyer), args.Error(1)
}

// MockRecorder is a mock implementation of events.Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, event *events.CompanyEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestCreateBuyerRecordsEvent(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*buyers.Buyer")).Return(nil)

	mockRecorder := new(MockRecorder)
	mockRecorder.On("Record", mock.Anything, mock.MatchedBy(func(e *events.CompanyEvent) bool {
		return e.EventType == events.EventBuyerAdded
	})).Return(nil)

	service := NewService(mockRepo, mockRecorder, zap.NewNop())

	buyer, err := service.Create(context.Background(), CreateBuyerRequest{
		CompanyID: uuid.New(),
		Name:      "Hamburg Trading GmbH",
		Country:   "Germany",
		Currency:  "EUR",
	})

	require.NoError(t, err)
	assert.Equal(t, "Hamburg Trading GmbH", buyer.Name)
	assert.NotEqual(t, uuid.Nil, buyer.ID)
	mockRepo.AssertExpectations(t)
	mockRecorder.AssertExpectations(t)
}

func TestUpdateBuyerPatchesOnlyProvidedFields(t *testing.T) {
	id := uuid.New()
	existing := &Buyer{
		ID:      id,
		Name:    "Hamburg Trading GmbH",
		Country: "Germany",
		Email:   "old@hamburg-trading.de",
	}

	mockRepo := new(MockRepository)
	mockRepo.On("GetByID", mock.Anything, id).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, existing).Return(nil)

	service := NewService(mockRepo, nil, zap.NewNop())

	email := "sales@hamburg-trading.de"
	updated, err := service.Update(context.Background(), id, UpdateBuyerRequest{Email: &email})

	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, "Hamburg Trading GmbH", updated.Name, "unset fields unchanged")
	assert.Equal(t, "Germany", updated.Country)
	mockRepo.AssertExpectations(t)
}

func TestGetBuyerNotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil)

	service := NewService(mockRepo, nil, zap.NewNop())

	_, err := service.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteBuyerRecordsEvent(t *testing.T) {
	id := uuid.New()
	existing := &Buyer{ID: id, Name: "Old Partner", Country: "France"}

	mockRepo := new(MockRepository)
	mockRepo.On("GetByID", mock.Anything, id).Return(existing, nil)
	mockRepo.On("Delete", mock.Anything, id).Return(nil)

	mockRecorder := new(MockRecorder)
	mockRecorder.On("Record", mock.Anything, mock.MatchedBy(func(e *events.CompanyEvent) bool {
		return e.EventType == events.EventBuyerRemoved
	})).Return(nil)

	service := NewService(mockRepo, mockRecorder, zap.NewNop())

	require.NoError(t, service.Delete(context.Background(), id))
	mockRepo.AssertExpectations(t)
	mockRecorder.AssertExpectations(t)
}
