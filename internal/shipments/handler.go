package shipments

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradeflow/trade-portal/trade-portal-backend/internal/workflow"
)

// Handler handles HTTP requests for shipment operations
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new shipments handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers shipment routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	shipments := rg.Group("/shipments")
	{
		shipments.POST("", h.createShipment)
		shipments.GET("", h.listShipments)
		shipments.GET("/:id", h.getShipment)
		shipments.DELETE("/:id", h.deleteShipment)
		shipments.POST("/:id/transition", h.transition)
		shipments.GET("/:id/timeline", h.timeline)
		shipments.GET("/workflow/:kind", h.workflowDefinition)
	}
}

func (h *Handler) createShipment(c *gin.Context) {
	var req CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shipment, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Failed to create shipment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, shipment)
}

func (h *Handler) listShipments(c *gin.Context) {
	filter := ShipmentFilter{}
	if raw := c.Query("company_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company_id"})
			return
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

	list := h.service.List(c.Request.Context(), filter)
	c.JSON(http.StatusOK, gin.H{"shipments": list, "count": len(list)})
}

func (h *Handler) getShipment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shipment id"})
		return
	}

	shipment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

func (h *Handler) deleteShipment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shipment id"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// transition handles POST /api/v1/shipments/:id/transition
func (h *Handler) transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shipment id"})
		return
	}
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shipment, err := h.service.Transition(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

// timeline handles GET /api/v1/shipments/:id/timeline
func (h *Handler) timeline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shipment id"})
		return
	}

	resp, err := h.service.Timeline(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// workflowDefinition handles GET /api/v1/shipments/workflow/:kind
func (h *Handler) workflowDefinition(c *gin.Context) {
	kind := workflow.Kind(c.Param("kind"))
	if kind != workflow.KindExport && kind != workflow.KindImport {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be export or import"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "steps": workflow.StepsFor(kind)})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "shipment not found"})
	case errors.Is(err, workflow.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrUnknownShipmentKind):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Shipment request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
