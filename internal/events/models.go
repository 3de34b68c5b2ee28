package events

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EventType tags a company-level audit event
type EventType string

const (
	EventShipmentStatusChanged EventType = "SHIPMENT_STATUS_CHANGED"
	EventShipmentCreated       EventType = "SHIPMENT_CREATED"
	EventBuyerAdded            EventType = "BUYER_ADDED"
	EventBuyerUpdated          EventType = "BUYER_UPDATED"
	EventBuyerRemoved          EventType = "BUYER_REMOVED"
	EventPartnerAdded          EventType = "PARTNER_ADDED"
	EventDocumentGenerated     EventType = "DOCUMENT_GENERATED"
	EventQuotationDrafted      EventType = "QUOTATION_DRAFTED"
	EventSettingsChanged       EventType = "SETTINGS_CHANGED"
)

// CompanyEvent is an audit record for company-level actions. It is
// advisory: writers treat a failed insert as a logging problem, never
// as a reason to roll back the action that produced it.
type CompanyEvent struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
	EventType   EventType      `gorm:"not null;index" json:"event_type"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Actor       string         `json:"actor"`
	Role        string         `json:"role"`
	Metadata    datatypes.JSON `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
}

// EventFilter narrows event listings
type EventFilter struct {
	CompanyID *uuid.UUID
	EventType *EventType
	Since     *time.Time
	Limit     int
}
