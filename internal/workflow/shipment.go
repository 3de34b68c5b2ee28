package workflow

import (
	"time"

	"github.com/google/uuid"
)

// Shipment is the mutable record tracked through a workflow. Status
// always points into the step table matching Kind; History is the
// append-only audit trail owned exclusively by this shipment.
type Shipment struct {
	ID        uuid.UUID      `json:"id"`
	CompanyID uuid.UUID      `json:"company_id"`
	Kind      Kind           `json:"kind"`
	Status    string         `json:"status"`
	History   []HistoryEntry `json:"history"`

	// Business payload, opaque to the engine
	Reference   string    `json:"reference"`
	Goods       string    `json:"goods"`
	Destination string    `json:"destination"`
	Origin      string    `json:"origin"`
	Value       float64   `json:"value"`
	Currency    string    `json:"currency"`
	PartyID     uuid.UUID `json:"party_id"`
	Incoterm    string    `json:"incoterm"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HistoryEntry is an immutable audit record created by the engine at
// the moment a transition is applied
type HistoryEntry struct {
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Role      Role      `json:"role"`
	Action    string    `json:"action"`
}

// ResolveKind returns the step table kind governing s. The explicit
// Kind field wins; records migrated without one fall back to the
// IMPORT_ status prefix convention. The resolved kind's table must own
// the current status or the shipment is unclassifiable.
func (s *Shipment) ResolveKind() (Kind, error) {
	kind := s.Kind
	if kind != KindExport && kind != KindImport {
		kind = KindOfStatus(s.Status)
	}
	if StepIndex(kind, s.Status) < 0 {
		return "", ErrUnknownShipmentKind
	}
	return kind, nil
}

// CurrentStep returns the step definition for the shipment's status
func (s *Shipment) CurrentStep() (Step, error) {
	kind, err := s.ResolveKind()
	if err != nil {
		return Step{}, err
	}
	step, _ := StepFor(kind, s.Status)
	return step, nil
}
