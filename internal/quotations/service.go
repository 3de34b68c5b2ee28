package quotations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradeflow/trade-portal/trade-portal-backend/internal/events"
	"tradeflow/trade-portal/trade-portal-backend/pkg/assist"
	"tradeflow/trade-portal/trade-portal-backend/pkg/workflows"
)

// statusMachine drives the quotation lifecycle. Accepted and rejected
// have no outgoing transitions.
var statusMachine = workflows.NewStateMachine(map[string][]string{
	string(StatusDraft):    {string(StatusSent), string(StatusAccepted), string(StatusRejected)},
	string(StatusSent):     {string(StatusAccepted), string(StatusRejected)},
	string(StatusAccepted): {},
	string(StatusRejected): {},
})

// ErrNotFound is returned when a quotation id resolves to nothing
var ErrNotFound = errors.New("quotation not found")

// ErrFinalStatus rejects status changes on accepted or rejected quotations
var ErrFinalStatus = errors.New("quotation already in a final status")

// Service drafts and tracks quotations
type Service struct {
	repo     Repository
	drafter  assist.Drafter
	recorder events.Recorder
	logger   *zap.Logger
}

func NewService(repo Repository, drafter assist.Drafter, recorder events.Recorder, logger *zap.Logger) *Service {
	return &Service{repo: repo, drafter: drafter, recorder: recorder, logger: logger}
}

// Draft builds a quotation from deal details, with subject, body and
// terms suggested by the drafter
func (s *Service) Draft(ctx context.Context, req DraftQuotationRequest) (*Quotation, error) {
	suggestion, err := s.drafter.Draft(ctx, assist.DraftRequest{
		BuyerName:   req.BuyerName,
		Goods:       req.Goods,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		Currency:    req.Currency,
		Incoterm:    req.Incoterm,
		Origin:      req.Origin,
		Destination: req.Destination,
		ValidDays:   req.ValidDays,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to draft quotation: %w", err)
	}

	validDays := req.ValidDays
	if validDays <= 0 {
		validDays = 30
	}
	now := time.Now().UTC()
	quotation := &Quotation{
		ID:         uuid.New(),
		CompanyID:  req.CompanyID,
		BuyerID:    req.BuyerID,
		ShipmentID: req.ShipmentID,
		Reference:  fmt.Sprintf("QT-%s", strings.ToUpper(uuid.NewString()[:8])),
		Goods:      req.Goods,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		UnitPrice:  req.UnitPrice,
		Currency:   req.Currency,
		Incoterm:   req.Incoterm,
		Subject:    suggestion.Subject,
		Body:       suggestion.Body,
		Terms:      strings.Join(suggestion.Terms, "\n"),
		Status:     StatusDraft,
		ValidUntil: now.AddDate(0, 0, validDays),
		CreatedBy:  req.CreatedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to create quotation: %w", err)
	}

	if s.recorder != nil {
		event := &events.CompanyEvent{
			CompanyID:   quotation.CompanyID,
			EventType:   events.EventQuotationDrafted,
			Title:       fmt.Sprintf("Quotation %s drafted", quotation.Reference),
			Description: quotation.Goods,
		}
		if err := s.recorder.Record(ctx, event); err != nil {
			s.logger.Warn("Failed to record company event", zap.Error(err))
		}
	}
	s.logger.Info("Quotation drafted",
		zap.String("quotation_id", quotation.ID.String()),
		zap.String("reference", quotation.Reference))
	return quotation, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	quotation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, ErrNotFound
	}
	return quotation, nil
}

func (s *Service) List(ctx context.Context, filter QuotationFilter) ([]Quotation, error) {
	return s.repo.List(ctx, filter)
}

// SetStatus moves a quotation between draft, sent, accepted and
// rejected. Accepted and rejected are terminal.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status QuotationStatus) (*Quotation, error) {
	if !statusMachine.Known(string(status)) {
		return nil, fmt.Errorf("unknown quotation status %q", status)
	}

	quotation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if statusMachine.IsTerminal(string(quotation.Status)) {
		return nil, ErrFinalStatus
	}
	if !statusMachine.CanTransition(string(quotation.Status), string(status)) {
		return nil, fmt.Errorf("cannot move quotation from %s to %s", quotation.Status, status)
	}

	quotation.Status = status
	quotation.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}
	return quotation, nil
}
