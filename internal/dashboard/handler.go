package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	aggregator *Aggregator
	logger     *zap.Logger
}

func NewHandler(aggregator *Aggregator, logger *zap.Logger) *Handler {
	return &Handler{aggregator: aggregator, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/summary", h.summary)
	}
}

func (h *Handler) summary(c *gin.Context) {
	var companyID *uuid.UUID
	if raw := c.Query("company_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company_id"})
			return
		}
		companyID = &id
	}

	if c.Query("refresh") == "true" {
		h.aggregator.Invalidate(companyID)
	}

	summary, err := h.aggregator.Summary(c.Request.Context(), companyID)
	if err != nil {
		h.logger.Error("Failed to compute dashboard summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
