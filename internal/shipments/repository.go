package shipments

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
)

// Repository persists shipments and their transition history. The
// in-memory store remains the system of record for live entities; the
// repository is the durability layer behind it.
type Repository interface {
	SaveShipment(ctx context.Context, shipment *workflow.Shipment) error
	AppendHistory(ctx context.Context, shipmentID uuid.UUID, entry workflow.HistoryEntry) error
	GetShipment(ctx context.Context, id uuid.UUID) (*workflow.Shipment, error)
	ListShipments(ctx context.Context, filter ShipmentFilter) ([]*workflow.Shipment, error)
	DeleteShipment(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed shipment repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) SaveShipment(ctx context.Context, shipment *workflow.Shipment) error {
	query := `
		INSERT INTO shipments (
			id, company_id, kind, status, reference, goods, origin,
			destination, value, currency, party_id, incoterm, created_at, updated_at
		) VALUES (
			:id, :company_id, :kind, :status, :reference, :goods, :origin,
			:destination, :value, :currency, :party_id, :incoterm, :created_at, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			reference = EXCLUDED.reference,
			goods = EXCLUDED.goods,
			origin = EXCLUDED.origin,
			destination = EXCLUDED.destination,
			value = EXCLUDED.value,
			currency = EXCLUDED.currency,
			party_id = EXCLUDED.party_id,
			incoterm = EXCLUDED.incoterm,
			updated_at = EXCLUDED.updated_at`
	_, err := r.db.NamedExecContext(ctx, query, toRow(shipment))
	if err != nil {
		return fmt.Errorf("failed to save shipment: %w", err)
	}
	return nil
}

func (r *postgresRepository) AppendHistory(ctx context.Context, shipmentID uuid.UUID, entry workflow.HistoryEntry) error {
	query := `
		INSERT INTO shipment_history (shipment_id, state, occurred_at, actor, role, action)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		shipmentID, entry.State, entry.Timestamp, entry.Actor, string(entry.Role), entry.Action)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetShipment(ctx context.Context, id uuid.UUID) (*workflow.Shipment, error) {
	var row shipmentRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM shipments WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load shipment: %w", err)
	}

	history, err := r.loadHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromRow(&row, history), nil
}

func (r *postgresRepository) loadHistory(ctx context.Context, id uuid.UUID) ([]workflow.HistoryEntry, error) {
	var rows []historyRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM shipment_history WHERE shipment_id = $1 ORDER BY id ASC", id)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	history := make([]workflow.HistoryEntry, len(rows))
	for i, hr := range rows {
		history[i] = fromHistoryRow(hr)
	}
	return history, nil
}

func (r *postgresRepository) ListShipments(ctx context.Context, filter ShipmentFilter) ([]*workflow.Shipment, error) {
	query := "SELECT * FROM shipments WHERE 1=1"
	var args []interface{}
	argCount := 1

	if filter.CompanyID != nil {
		query += fmt.Sprintf(" AND company_id = $%d", argCount)
		args = append(args, *filter.CompanyID)
		argCount++
	}
	if filter.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", argCount)
		args = append(args, string(*filter.Kind))
		argCount++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, *filter.Status)
		argCount++
	}
	query += " ORDER BY created_at DESC"

	var rows []shipmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}

	out := make([]*workflow.Shipment, len(rows))
	for i := range rows {
		history, err := r.loadHistory(ctx, rows[i].ID)
		if err != nil {
			return nil, err
		}
		out[i] = fromRow(&rows[i], history)
	}
	return out, nil
}

func (r *postgresRepository) DeleteShipment(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM shipment_history WHERE shipment_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM shipments WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete shipment: %w", err)
	}
	return nil
}
