package buyers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradeflow/trade-portal/trade-portal-backend/internal/events"
)

// ErrNotFound is returned when a buyer id resolves to nothing
var ErrNotFound = errors.New("buyer not found")

// Service provides buyer book business logic
type Service struct {
	repo     Repository
	recorder events.Recorder
	logger   *zap.Logger
}

// NewService creates a buyer service. recorder may be nil.
func NewService(repo Repository, recorder events.Recorder, logger *zap.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

// Create adds a buyer and records a company event
func (s *Service) Create(ctx context.Context, req CreateBuyerRequest) (*Buyer, error) {
	now := time.Now().UTC()
	buyer := &Buyer{
		ID:          uuid.New(),
		CompanyID:   req.CompanyID,
		Name:        req.Name,
		Country:     req.Country,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Currency:    req.Currency,
		Incoterm:    req.Incoterm,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, buyer); err != nil {
		return nil, fmt.Errorf("failed to create buyer: %w", err)
	}

	s.record(ctx, buyer, events.EventBuyerAdded, fmt.Sprintf("Buyer %s added", buyer.Name))
	s.logger.Info("Buyer created",
		zap.String("buyer_id", buyer.ID.String()),
		zap.String("name", buyer.Name))
	return buyer, nil
}

// Get returns a buyer by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Buyer, error) {
	buyer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if buyer == nil {
		return nil, ErrNotFound
	}
	return buyer, nil
}

// Update patches buyer fields
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateBuyerRequest) (*Buyer, error) {
	buyer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&buyer.Name, req.Name)
	apply(&buyer.Country, req.Country)
	apply(&buyer.ContactName, req.ContactName)
	apply(&buyer.Email, req.Email)
	apply(&buyer.Phone, req.Phone)
	apply(&buyer.Address, req.Address)
	apply(&buyer.Currency, req.Currency)
	apply(&buyer.Incoterm, req.Incoterm)
	apply(&buyer.Notes, req.Notes)
	buyer.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, buyer); err != nil {
		return nil, fmt.Errorf("failed to update buyer: %w", err)
	}

	s.record(ctx, buyer, events.EventBuyerUpdated, fmt.Sprintf("Buyer %s updated", buyer.Name))
	return buyer, nil
}

// Delete removes a buyer from the book
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	buyer, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete buyer: %w", err)
	}
	s.record(ctx, buyer, events.EventBuyerRemoved, fmt.Sprintf("Buyer %s removed", buyer.Name))
	return nil
}

// List returns buyers matching the filter
func (s *Service) List(ctx context.Context, filter BuyerFilter) ([]Buyer, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) record(ctx context.Context, buyer *Buyer, eventType events.EventType, title string) {
	if s.recorder == nil {
		return
	}
	event := &events.CompanyEvent{
		CompanyID:   buyer.CompanyID,
		EventType:   eventType,
		Title:       title,
		Description: fmt.Sprintf("%s (%s)", buyer.Name, buyer.Country),
	}
	if err := s.recorder.Record(ctx, event); err != nil {
		s.logger.Warn("Failed to record company event", zap.Error(err))
	}
}
