package partners

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Repository handles all database operations for partners
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new partner repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, p *Partner) error {
	query := `
		INSERT INTO partners (
			id, company_id, type, name, contact_name, email, phone,
			country, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.CompanyID, p.Type, p.Name, p.ContactName, p.Email, p.Phone,
		p.Country, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create partner: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Partner, error) {
	query := `
		SELECT id, company_id, type, name, contact_name, email, phone,
		       country, is_active, created_at, updated_at
		FROM partners WHERE id = $1`
	var p Partner
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.CompanyID, &p.Type, &p.Name, &p.ContactName, &p.Email,
		&p.Phone, &p.Country, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}
	return &p, nil
}

func (r *Repository) List(ctx context.Context, companyID *uuid.UUID, partnerType *PartnerType) ([]Partner, error) {
	query := `
		SELECT id, company_id, type, name, contact_name, email, phone,
		       country, is_active, created_at, updated_at
		FROM partners WHERE 1=1`
	var args []interface{}
	argCount := 1

	if companyID != nil {
		query += fmt.Sprintf(" AND company_id = $%d", argCount)
		args = append(args, *companyID)
		argCount++
	}
	if partnerType != nil {
		query += fmt.Sprintf(" AND type = $%d", argCount)
		args = append(args, *partnerType)
		argCount++
	}
	query += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	var out []Partner
	for rows.Next() {
		var p Partner
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.Type, &p.Name, &p.ContactName, &p.Email,
			&p.Phone, &p.Country, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE partners SET is_active = $1, updated_at = NOW() WHERE id = $2", active, id)
	if err != nil {
		return fmt.Errorf("failed to update partner: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM partners WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete partner: %w", err)
	}
	return nil
}
