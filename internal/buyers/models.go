package buyers

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Buyer represents an overseas buyer (or supplier, for import files)
// in the company's partner book
type Buyer struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
	Name        string         `gorm:"not null" json:"name"`
	Country     string         `gorm:"not null" json:"country"`
	ContactName string         `json:"contact_name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Address     string         `json:"address"`
	Currency    string         `json:"currency"`
	Incoterm    string         `json:"incoterm"`
	Tags        datatypes.JSON `json:"tags"`
	Notes       string         `json:"notes"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreateBuyerRequest adds a buyer to the partner book
type CreateBuyerRequest struct {
	CompanyID   uuid.UUID `json:"company_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Country     string    `json:"country" binding:"required"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Currency    string    `json:"currency"`
	Incoterm    string    `json:"incoterm"`
	Notes       string    `json:"notes"`
}

// UpdateBuyerRequest patches buyer fields; nil means unchanged
type UpdateBuyerRequest struct {
	Name        *string `json:"name"`
	Country     *string `json:"country"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Currency    *string `json:"currency"`
	Incoterm    *string `json:"incoterm"`
	Notes       *string `json:"notes"`
}

// BuyerFilter narrows buyer listings
type BuyerFilter struct {
	CompanyID *uuid.UUID
	Country   *string
	Search    *string
}
