package quotations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines quotation data access
type Repository interface {
	Create(ctx context.Context, quotation *Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Quotation, error)
	Update(ctx context.Context, quotation *Quotation) error
	List(ctx context.Context, filter QuotationFilter) ([]Quotation, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed quotation repository and migrates
// its table
func NewRepository(db *gorm.DB) (Repository, error) {
	if err := db.AutoMigrate(&Quotation{}); err != nil {
		return nil, fmt.Errorf("failed to migrate quotations: %w", err)
	}
	return &gormRepository{db: db}, nil
}

func (r *gormRepository) Create(ctx context.Context, quotation *Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	var quotation Quotation
	err := r.db.WithContext(ctx).First(&quotation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *gormRepository) Update(ctx context.Context, quotation *Quotation) error {
	return r.db.WithContext(ctx).Save(quotation).Error
}

func (r *gormRepository) List(ctx context.Context, filter QuotationFilter) ([]Quotation, error) {
	q := r.db.WithContext(ctx).Model(&Quotation{}).Order("created_at DESC")
	if filter.CompanyID != nil {
		q = q.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.BuyerID != nil {
		q = q.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	var out []Quotation
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
