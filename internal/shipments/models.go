package shipments

import (
	"time"

	"github.com/google/uuid"

	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
)

// CreateShipmentRequest opens a new shipment file at the first step of
// its kind's workflow
type CreateShipmentRequest struct {
	CompanyID   uuid.UUID     `json:"company_id" binding:"required"`
	Kind        workflow.Kind `json:"kind" binding:"required"`
	Reference   string        `json:"reference"`
	Goods       string        `json:"goods" binding:"required"`
	Origin      string        `json:"origin"`
	Destination string        `json:"destination"`
	Value       float64       `json:"value"`
	Currency    string        `json:"currency"`
	PartyID     uuid.UUID     `json:"party_id"`
	Incoterm    string        `json:"incoterm"`
}

// TransitionRequest asks the engine to move a shipment to a target state
type TransitionRequest struct {
	TargetState string        `json:"target_state" binding:"required"`
	Actor       string        `json:"actor" binding:"required"`
	Role        workflow.Role `json:"role" binding:"required"`
	Action      string        `json:"action" binding:"required"`
}

// ShipmentFilter narrows shipment listings
type ShipmentFilter struct {
	CompanyID *uuid.UUID
	Kind      *workflow.Kind
	Status    *string
}

// TimelineResponse is the progress projection plus the actions the
// caller may take next
type TimelineResponse struct {
	ShipmentID     uuid.UUID            `json:"shipment_id"`
	Status         string               `json:"status"`
	Color          string               `json:"color"`
	Projection     *workflow.Projection `json:"projection"`
	PermittedRoles workflow.RoleSet     `json:"permitted_roles"`
	History        []workflow.HistoryEntry `json:"history"`
}

// shipmentRow is the flat persistence shape of a workflow shipment
type shipmentRow struct {
	ID          uuid.UUID `db:"id"`
	CompanyID   uuid.UUID `db:"company_id"`
	Kind        string    `db:"kind"`
	Status      string    `db:"status"`
	Reference   string    `db:"reference"`
	Goods       string    `db:"goods"`
	Origin      string    `db:"origin"`
	Destination string    `db:"destination"`
	Value       float64   `db:"value"`
	Currency    string    `db:"currency"`
	PartyID     uuid.UUID `db:"party_id"`
	Incoterm    string    `db:"incoterm"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// historyRow is the persistence shape of one history entry
type historyRow struct {
	ID         int64     `db:"id"`
	ShipmentID uuid.UUID `db:"shipment_id"`
	State      string    `db:"state"`
	OccurredAt time.Time `db:"occurred_at"`
	Actor      string    `db:"actor"`
	Role       string    `db:"role"`
	Action     string    `db:"action"`
}

func toRow(s *workflow.Shipment) *shipmentRow {
	return &shipmentRow{
		ID:          s.ID,
		CompanyID:   s.CompanyID,
		Kind:        string(s.Kind),
		Status:      s.Status,
		Reference:   s.Reference,
		Goods:       s.Goods,
		Origin:      s.Origin,
		Destination: s.Destination,
		Value:       s.Value,
		Currency:    s.Currency,
		PartyID:     s.PartyID,
		Incoterm:    s.Incoterm,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func fromRow(r *shipmentRow, history []workflow.HistoryEntry) *workflow.Shipment {
	return &workflow.Shipment{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		Kind:        workflow.Kind(r.Kind),
		Status:      r.Status,
		History:     history,
		Reference:   r.Reference,
		Goods:       r.Goods,
		Origin:      r.Origin,
		Destination: r.Destination,
		Value:       r.Value,
		Currency:    r.Currency,
		PartyID:     r.PartyID,
		Incoterm:    r.Incoterm,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func fromHistoryRow(r historyRow) workflow.HistoryEntry {
	return workflow.HistoryEntry{
		State:     r.State,
		Timestamp: r.OccurredAt,
		Actor:     r.Actor,
		Role:      workflow.Role(r.Role),
		Action:    r.Action,
	}
}
