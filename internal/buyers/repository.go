package buyers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines buyer data access
type Repository interface {
	Create(ctx context.Context, buyer *Buyer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Buyer, error)
	Update(ctx context.Context, buyer *Buyer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter BuyerFilter) ([]Buyer, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed buyer repository and migrates
// its table
func NewRepository(db *gorm.DB) (Repository, error) {
	if err := db.AutoMigrate(&Buyer{}); err != nil {
		return nil, fmt.Errorf("failed to migrate buyers: %w", err)
	}
	return &gormRepository{db: db}, nil
}

func (r *gormRepository) Create(ctx context.Context, buyer *Buyer) error {
	return r.db.WithContext(ctx).Create(buyer).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Buyer, error) {
	var buyer Buyer
	err := r.db.WithContext(ctx).First(&buyer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (r *gormRepository) Update(ctx context.Context, buyer *Buyer) error {
	return r.db.WithContext(ctx).Save(buyer).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Buyer{}, "id = ?", id).Error
}

func (r *gormRepository) List(ctx context.Context, filter BuyerFilter) ([]Buyer, error) {
	q := r.db.WithContext(ctx).Model(&Buyer{}).Order("name ASC")
	if filter.CompanyID != nil {
		q = q.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.Country != nil {
		q = q.Where("country = ?", *filter.Country)
	}
	if filter.Search != nil {
		q = q.Where("name ILIKE ?", "%"+*filter.Search+"%")
	}
	var out []Buyer
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
