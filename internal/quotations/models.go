package quotations

import (
	"time"

	"github.com/google/uuid"
)

type QuotationStatus string

const (
	StatusDraft    QuotationStatus = "draft"
	StatusSent     QuotationStatus = "sent"
	StatusAccepted QuotationStatus = "accepted"
	StatusRejected QuotationStatus = "rejected"
)

// Quotation is a priced offer prepared for a buyer, usually ahead of a
// shipment reaching its quotation step
type Quotation struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID       `json:"company_id" gorm:"type:uuid;index;not null"`
	BuyerID    *uuid.UUID      `json:"buyer_id,omitempty" gorm:"type:uuid;index"`
	ShipmentID *uuid.UUID      `json:"shipment_id,omitempty" gorm:"type:uuid;index"`
	Reference  string          `json:"reference" gorm:"size:64;index"`
	Goods      string          `json:"goods" gorm:"size:512"`
	Quantity   float64         `json:"quantity"`
	Unit       string          `json:"unit" gorm:"size:32"`
	UnitPrice  float64         `json:"unit_price"`
	Currency   string          `json:"currency" gorm:"size:8"`
	Incoterm   string          `json:"incoterm" gorm:"size:8"`
	Subject    string          `json:"subject" gorm:"size:256"`
	Body       string          `json:"body" gorm:"type:text"`
	Terms      string          `json:"terms" gorm:"type:text"`
	Status     QuotationStatus `json:"status" gorm:"size:16;index"`
	ValidUntil time.Time       `json:"valid_until"`
	CreatedBy  string          `json:"created_by" gorm:"size:128"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DraftQuotationRequest asks for an assisted quotation draft
type DraftQuotationRequest struct {
	CompanyID  uuid.UUID  `json:"company_id" binding:"required"`
	BuyerID    *uuid.UUID `json:"buyer_id"`
	ShipmentID *uuid.UUID `json:"shipment_id"`
	BuyerName  string     `json:"buyer_name"`
	Goods      string     `json:"goods" binding:"required"`
	Quantity   float64    `json:"quantity"`
	Unit       string     `json:"unit"`
	UnitPrice  float64    `json:"unit_price"`
	Currency   string     `json:"currency"`
	Incoterm   string     `json:"incoterm"`
	Origin     string     `json:"origin"`
	Destination string    `json:"destination"`
	ValidDays  int        `json:"valid_days"`
	CreatedBy  string     `json:"created_by" binding:"required"`
}

// QuotationFilter narrows quotation listings
type QuotationFilter struct {
	CompanyID *uuid.UUID
	BuyerID   *uuid.UUID
	Status    *QuotationStatus
}
