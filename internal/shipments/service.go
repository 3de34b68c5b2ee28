package shipments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tradeflow/trade-portal/trade-portal-backend/internal/events"
	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
)

// ErrNotFound is returned when a shipment id resolves to nothing
var ErrNotFound = errors.New("shipment not found")

// Broadcaster pushes shipment updates to connected consumers. Advisory,
// like the event log: a failed push never affects the transition.
type Broadcaster interface {
	ShipmentUpdated(shipment *workflow.Shipment, entry workflow.HistoryEntry)
}

// Service orchestrates the workflow engine over the live store, with
// the repository as the durability layer and the event log as an
// advisory audit sink
type Service struct {
	store       *Store
	repo        Repository
	engine      *workflow.Engine
	recorder    events.Recorder
	broadcaster Broadcaster
	logger      *zap.Logger
}

// NewService wires the shipment service. recorder and broadcaster may
// be nil when those sinks are not deployed.
func NewService(store *Store, repo Repository, engine *workflow.Engine, recorder events.Recorder, broadcaster Broadcaster, logger *zap.Logger) *Service {
	return &Service{
		store:       store,
		repo:        repo,
		engine:      engine,
		recorder:    recorder,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Create opens a shipment file at the first step of its kind's workflow.
// History starts empty: entries are created only by the engine.
func (s *Service) Create(ctx context.Context, req CreateShipmentRequest) (*workflow.Shipment, error) {
	if req.Kind != workflow.KindExport && req.Kind != workflow.KindImport {
		return nil, fmt.Errorf("unknown shipment kind %q", req.Kind)
	}

	steps := workflow.StepsFor(req.Kind)
	now := time.Now().UTC()
	shipment := &workflow.Shipment{
		ID:          uuid.New(),
		CompanyID:   req.CompanyID,
		Kind:        req.Kind,
		Status:      steps[0].ID,
		Reference:   req.Reference,
		Goods:       req.Goods,
		Origin:      req.Origin,
		Destination: req.Destination,
		Value:       req.Value,
		Currency:    req.Currency,
		PartyID:     req.PartyID,
		Incoterm:    req.Incoterm,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.store.Put(shipment)
	if err := s.repo.SaveShipment(ctx, shipment); err != nil {
		s.store.Delete(shipment.ID)
		return nil, err
	}

	s.recordEvent(ctx, shipment, events.EventShipmentCreated,
		fmt.Sprintf("Shipment %s opened", shipment.Reference),
		fmt.Sprintf("New %s shipment for %s", shipment.Kind, shipment.Goods), "", "")

	s.logger.Info("Shipment created",
		zap.String("shipment_id", shipment.ID.String()),
		zap.String("kind", string(shipment.Kind)),
		zap.String("status", shipment.Status))
	return shipment, nil
}

// Get returns the live shipment, rehydrating from the repository when
// the store does not hold it (fresh process, old record)
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*workflow.Shipment, error) {
	if shipment, ok := s.store.Get(id); ok {
		return shipment, nil
	}
	shipment, err := s.repo.GetShipment(ctx, id)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, ErrNotFound
	}
	s.store.Put(shipment)
	return shipment, nil
}

// Hydrate loads every persisted shipment into the live store. Run once
// at startup so listings and aggregates see records from before the
// current process.
func (s *Service) Hydrate(ctx context.Context) error {
	persisted, err := s.repo.ListShipments(ctx, ShipmentFilter{})
	if err != nil {
		return err
	}
	for _, shipment := range persisted {
		s.store.Put(shipment)
	}
	s.logger.Info("Shipment store hydrated", zap.Int("count", len(persisted)))
	return nil
}

// List returns shipments matching the filter from the store
func (s *Service) List(_ context.Context, filter ShipmentFilter) []*workflow.Shipment {
	var out []*workflow.Shipment
	for _, shipment := range s.store.List() {
		if filter.CompanyID != nil && shipment.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.Kind != nil && shipment.Kind != *filter.Kind {
			continue
		}
		if filter.Status != nil && shipment.Status != *filter.Status {
			continue
		}
		out = append(out, shipment)
	}
	return out
}

// Transition applies a workflow transition and persists the result.
// The engine's in-memory mutation is the transaction; a repository
// failure after a successful transition surfaces to the caller so the
// calling layer can retry the persistence, but it never rolls back the
// applied transition.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, req TransitionRequest) (*workflow.Shipment, error) {
	shipment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.engine.ApplyTransition(shipment, req.TargetState, req.Actor, req.Role, req.Action); err != nil {
		return nil, err
	}
	entry := shipment.History[len(shipment.History)-1]

	if err := s.repo.SaveShipment(ctx, shipment); err != nil {
		return shipment, err
	}
	if err := s.repo.AppendHistory(ctx, shipment.ID, entry); err != nil {
		return shipment, err
	}

	s.recordEvent(ctx, shipment, events.EventShipmentStatusChanged,
		fmt.Sprintf("Shipment %s moved to %s", shipment.Reference, shipment.Status),
		req.Action, req.Actor, string(req.Role))

	if s.broadcaster != nil {
		s.broadcaster.ShipmentUpdated(shipment, entry)
	}

	s.logger.Info("Shipment transitioned",
		zap.String("shipment_id", shipment.ID.String()),
		zap.String("status", shipment.Status),
		zap.String("role", string(req.Role)))
	return shipment, nil
}

// Timeline returns the progress projection, permitted next actors and
// the audit history for a shipment
func (s *Service) Timeline(ctx context.Context, id uuid.UUID) (*TimelineResponse, error) {
	shipment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	proj, err := workflow.Project(shipment)
	if err != nil {
		return nil, err
	}
	roles, err := s.engine.PermittedRoles(shipment)
	if err != nil {
		return nil, err
	}

	return &TimelineResponse{
		ShipmentID:     shipment.ID,
		Status:         shipment.Status,
		Color:          workflow.ColorFor(shipment.Status),
		Projection:     proj,
		PermittedRoles: roles,
		History:        shipment.History,
	}, nil
}

// Delete removes a shipment from the store and the repository
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteShipment(ctx, id); err != nil {
		return err
	}
	s.store.Delete(id)
	return nil
}

func (s *Service) recordEvent(ctx context.Context, shipment *workflow.Shipment, eventType events.EventType, title, description, actor, role string) {
	if s.recorder == nil {
		return
	}
	meta, _ := json.Marshal(map[string]string{
		"shipment_id": shipment.ID.String(),
		"status":      shipment.Status,
	})
	event := &events.CompanyEvent{
		CompanyID:   shipment.CompanyID,
		EventType:   eventType,
		Title:       title,
		Description: description,
		Actor:       actor,
		Role:        role,
		Metadata:    datatypes.JSON(meta),
	}
	if err := s.recorder.Record(ctx, event); err != nil {
		s.logger.Warn("Failed to record company event", zap.Error(err))
	}
}
