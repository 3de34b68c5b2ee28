package exports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradeflow/trade-portal/trade-portal-backend/internal/shipments"
	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
)

// Handler serves shipment ledger downloads
type Handler struct {
	lister ShipmentLister
	logger *zap.Logger
}

func NewHandler(lister ShipmentLister, logger *zap.Logger) *Handler {
	return &Handler{lister: lister, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	exports := rg.Group("/exports")
	{
		exports.GET("/shipments.csv", h.csv)
		exports.GET("/shipments.xlsx", h.excel)
	}
}

func (h *Handler) csv(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	rows := BuildLedger(c.Request.Context(), h.lister, filter)

	c.Header("Content-Disposition", attachment("csv"))
	c.Header("Content-Type", "text/csv")
	if err := WriteCSV(c.Writer, rows, DefaultCSVOptions()); err != nil {
		h.logger.Error("Failed to stream CSV ledger", zap.Error(err))
	}
}

func (h *Handler) excel(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	rows := BuildLedger(c.Request.Context(), h.lister, filter)

	c.Header("Content-Disposition", attachment("xlsx"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := WriteExcel(c.Writer, rows, DefaultExcelOptions()); err != nil {
		h.logger.Error("Failed to stream Excel ledger", zap.Error(err))
	}
}

func (h *Handler) parseFilter(c *gin.Context) (shipments.ShipmentFilter, bool) {
	var filter shipments.ShipmentFilter
	if raw := c.Query("company_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company_id"})
			return filter, false
		}
		filter.CompanyID = &id
	}
	if raw := c.Query("kind"); raw != "" {
		kind := workflow.Kind(raw)
		filter.Kind = &kind
	}
	if raw := c.Query("status"); raw != "" {
		filter.Status = &raw
	}
	return filter, true
}

func attachment(ext string) string {
	return fmt.Sprintf(`attachment; filename="shipments_%s.%s"`,
		time.Now().UTC().Format("20060102"), ext)
}
