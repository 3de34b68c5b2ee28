package partners

import (
	"time"

	"github.com/google/uuid"
)

// PartnerType classifies a service partner
type PartnerType string

const (
	PartnerFreightForwarder PartnerType = "FREIGHT_FORWARDER"
	PartnerCustomsBroker    PartnerType = "CUSTOMS_BROKER"
	PartnerShippingLine     PartnerType = "SHIPPING_LINE"
	PartnerInspectionAgency PartnerType = "INSPECTION_AGENCY"
	PartnerBank             PartnerType = "BANK"
	PartnerInsurer          PartnerType = "INSURER"
)

// Partner is a logistics or trade-finance service provider the company
// works with on shipments
type Partner struct {
	ID          uuid.UUID   `json:"id"`
	CompanyID   uuid.UUID   `json:"company_id"`
	Type        PartnerType `json:"type"`
	Name        string      `json:"name"`
	ContactName string      `json:"contact_name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Country     string      `json:"country"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CreatePartnerRequest registers a service partner
type CreatePartnerRequest struct {
	CompanyID   uuid.UUID   `json:"company_id" binding:"required"`
	Type        PartnerType `json:"type" binding:"required"`
	Name        string      `json:"name" binding:"required"`
	ContactName string      `json:"contact_name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Country     string      `json:"country"`
}
