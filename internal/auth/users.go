package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
)

// User is a portal account holder
type User struct {
	ID           uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID     `json:"company_id" gorm:"type:uuid;index;not null"`
	Email        string        `json:"email" gorm:"size:256;uniqueIndex;not null"`
	Name         string        `json:"name" gorm:"size:256"`
	Role         workflow.Role `json:"role" gorm:"size:32;not null"`
	PasswordHash string        `json:"-" gorm:"size:128;not null"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// UserRepository defines user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Update(ctx context.Context, user *User) error
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a gorm-backed user repository and migrates
// its table
func NewUserRepository(db *gorm.DB) (UserRepository, error) {
	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate users: %w", err)
	}
	return &gormUserRepository{db: db}, nil
}

func (r *gormUserRepository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Save(user).Error
}
