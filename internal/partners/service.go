package partners

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradeflow/trade-portal/trade-portal-backend/internal/events"
)

// ErrNotFound is returned when a partner id resolves to nothing
var ErrNotFound = errors.New("partner not found")

var knownTypes = map[PartnerType]bool{
	PartnerFreightForwarder: true,
	PartnerCustomsBroker:    true,
	PartnerShippingLine:     true,
	PartnerInspectionAgency: true,
	PartnerBank:             true,
	PartnerInsurer:          true,
}

// Service provides partner directory business logic
type Service struct {
	repo     *Repository
	recorder events.Recorder
	logger   *zap.Logger
}

func NewService(repo *Repository, recorder events.Recorder, logger *zap.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

func (s *Service) Create(ctx context.Context, req CreatePartnerRequest) (*Partner, error) {
	if !knownTypes[req.Type] {
		return nil, fmt.Errorf("unknown partner type %q", req.Type)
	}

	now := time.Now().UTC()
	partner := &Partner{
		ID:          uuid.New(),
		CompanyID:   req.CompanyID,
		Type:        req.Type,
		Name:        req.Name,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Country:     req.Country,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, partner); err != nil {
		return nil, err
	}

	if s.recorder != nil {
		event := &events.CompanyEvent{
			CompanyID:   partner.CompanyID,
			EventType:   events.EventPartnerAdded,
			Title:       fmt.Sprintf("Partner %s added", partner.Name),
			Description: fmt.Sprintf("%s (%s)", partner.Name, partner.Type),
		}
		if err := s.recorder.Record(ctx, event); err != nil {
			s.logger.Warn("Failed to record company event", zap.Error(err))
		}
	}
	return partner, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Partner, error) {
	partner, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrNotFound
	}
	return partner, nil
}

func (s *Service) List(ctx context.Context, companyID *uuid.UUID, partnerType *PartnerType) ([]Partner, error) {
	return s.repo.List(ctx, companyID, partnerType)
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, active)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
