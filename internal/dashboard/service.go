package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradeflow/trade-portal/trade-portal-backend/internal/shipments"
	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
)

// ShipmentLister provides the shipment set summaries are computed over
type ShipmentLister interface {
	List(ctx context.Context, filter shipments.ShipmentFilter) []*workflow.Shipment
}

// Summary is a point-in-time aggregation of the shipment book
type Summary struct {
	TotalShipments   int                `json:"total_shipments"`
	ByKind           map[string]int     `json:"by_kind"`
	ByStatus         map[string]int     `json:"by_status"`
	ByColor          map[string]int     `json:"by_color"`
	InFlight         int                `json:"in_flight"`
	Completed        int                `json:"completed"`
	AverageProgress  float64            `json:"average_progress"`
	TotalValue       map[string]float64 `json:"total_value_by_currency"`
	ComputedAt       time.Time          `json:"computed_at"`
}

// Aggregator computes dashboard summaries with a small TTL cache in
// front
type Aggregator struct {
	lister ShipmentLister
	cache  *summaryCache
	logger *zap.Logger
}

func NewAggregator(lister ShipmentLister, cacheTTL time.Duration, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		lister: lister,
		cache:  newSummaryCache(cacheTTL),
		logger: logger,
	}
}

// Summary returns the dashboard summary for a company (or the whole
// book when companyID is nil), serving from cache inside the TTL
func (a *Aggregator) Summary(ctx context.Context, companyID *uuid.UUID) (*Summary, error) {
	key := cacheKey(companyID)
	if cached, ok := a.cache.Get(key); ok {
		return cached, nil
	}

	summary := a.compute(ctx, companyID)
	a.cache.Set(key, summary)
	return summary, nil
}

// Invalidate drops the cached summary for a company after a mutation
func (a *Aggregator) Invalidate(companyID *uuid.UUID) {
	a.cache.Delete(cacheKey(companyID))
}

// Stop releases the cache cleanup goroutine
func (a *Aggregator) Stop() {
	a.cache.Stop()
}

func (a *Aggregator) compute(ctx context.Context, companyID *uuid.UUID) *Summary {
	list := a.lister.List(ctx, shipments.ShipmentFilter{CompanyID: companyID})

	summary := &Summary{
		TotalShipments: len(list),
		ByKind:         make(map[string]int),
		ByStatus:       make(map[string]int),
		ByColor:        make(map[string]int),
		TotalValue:     make(map[string]float64),
		ComputedAt:     time.Now().UTC(),
	}

	var progressSum float64
	var projected int
	for _, shipment := range list {
		summary.ByStatus[shipment.Status]++
		summary.ByColor[workflow.ColorFor(shipment.Status)]++
		if shipment.Currency != "" {
			summary.TotalValue[shipment.Currency] += shipment.Value
		}

		projection, err := workflow.Project(shipment)
		if err != nil {
			a.logger.Warn("Skipping shipment with unknown status",
				zap.String("shipment_id", shipment.ID.String()),
				zap.String("status", shipment.Status))
			continue
		}
		summary.ByKind[string(projection.Kind)]++
		progressSum += projection.Fraction
		projected++
		if projection.Fraction >= 1 {
			summary.Completed++
		} else {
			summary.InFlight++
		}
	}
	if projected > 0 {
		summary.AverageProgress = progressSum / float64(projected)
	}
	return summary
}

func cacheKey(companyID *uuid.UUID) string {
	if companyID == nil {
		return "summary_all"
	}
	return "summary_company_" + companyID.String()
}
