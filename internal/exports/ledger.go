package exports

import (
	"context"
	"time"

	"tradeflow/trade-portal/trade-portal-backend/internal/shipments"
	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
)

// ledgerColumns is the column order shared by every ledger format
var ledgerColumns = []string{
	"Reference", "Kind", "Status", "Step", "Progress", "Goods",
	"Origin", "Destination", "Value", "Currency", "Incoterm", "Updated",
}

// LedgerRow is one shipment flattened for export
type LedgerRow struct {
	Reference   string
	Kind        string
	Status      string
	StepLabel   string
	Progress    float64
	Goods       string
	Origin      string
	Destination string
	Value       float64
	Currency    string
	Incoterm    string
	UpdatedAt   time.Time
}

// ShipmentLister provides the shipments a ledger is built from
type ShipmentLister interface {
	List(ctx context.Context, filter shipments.ShipmentFilter) []*workflow.Shipment
}

// BuildLedger flattens shipments into export rows. Shipments whose
// status matches no workflow table are exported with an empty step
// label and zero progress rather than dropped.
func BuildLedger(ctx context.Context, lister ShipmentLister, filter shipments.ShipmentFilter) []LedgerRow {
	list := lister.List(ctx, filter)
	rows := make([]LedgerRow, 0, len(list))
	for _, shipment := range list {
		row := LedgerRow{
			Reference:   shipment.Reference,
			Status:      shipment.Status,
			Goods:       shipment.Goods,
			Origin:      shipment.Origin,
			Destination: shipment.Destination,
			Value:       shipment.Value,
			Currency:    shipment.Currency,
			Incoterm:    shipment.Incoterm,
			UpdatedAt:   shipment.UpdatedAt,
		}
		if projection, err := workflow.Project(shipment); err == nil {
			row.Kind = string(projection.Kind)
			row.Progress = projection.Fraction
			if step, ok := workflow.StepFor(projection.Kind, shipment.Status); ok {
				row.StepLabel = step.Label
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (r LedgerRow) values() []interface{} {
	return []interface{}{
		r.Reference, r.Kind, r.Status, r.StepLabel, r.Progress, r.Goods,
		r.Origin, r.Destination, r.Value, r.Currency, r.Incoterm, r.UpdatedAt,
	}
}
