package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// ServiceHandler handles the service catalog and service order HTTP requests
type ServiceHandler struct {
	catalog *services.CatalogService
	logger  *logrus.Logger
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(catalog *services.CatalogService, logger *logrus.Logger) *ServiceHandler {
	return &ServiceHandler{catalog: catalog, logger: logger}
}

// ===================================================================
// CATALOG
// ===================================================================

// ListServices handles GET /api/v1/services?category=&available=true
func (h *ServiceHandler) ListServices(c *gin.Context) {
	availableOnly, _ := strconv.ParseBool(c.Query("available"))

	list, err := h.catalog.ListServices(c.Request.Context(), actorFrom(c), c.Query("category"), availableOnly)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": list, "total": len(list)})
}

// CreateService handles POST /api/v1/services
func (h *ServiceHandler) CreateService(c *gin.Context) {
	var req models.CreateHotelServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	svc, err := h.catalog.CreateService(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// UpdateService handles PUT /api/v1/services/:id
func (h *ServiceHandler) UpdateService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateHotelServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	svc, err := h.catalog.UpdateService(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// DeleteService handles DELETE /api/v1/services/:id
func (h *ServiceHandler) DeleteService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.catalog.DeleteService(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

// ===================================================================
// ORDERS
// ===================================================================

// PlaceOrder handles POST /api/v1/service-orders
func (h *ServiceHandler) PlaceOrder(c *gin.Context) {
	var req models.CreateServiceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.catalog.PlaceOrder(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/service-orders?reservation_id=&status=
func (h *ServiceHandler) ListOrders(c *gin.Context) {
	var reservationID *uuid.UUID
	if raw := c.Query("reservation_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "Invalid reservation_id format",
				Field:   "reservation_id",
			})
			return
		}
		reservationID = &id
	}

	orders, err := h.catalog.ListOrders(c.Request.Context(), reservationID, c.Query("status"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

// ChangeOrderStatus handles POST /api/v1/service-orders/:id/status
func (h *ServiceHandler) ChangeOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.ChangeServiceOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.catalog.ChangeOrderStatus(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
