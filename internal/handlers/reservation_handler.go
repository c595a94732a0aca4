package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// ReservationHandler handles reservation HTTP requests
type ReservationHandler struct {
	reservations *services.ReservationService
	analytics    *services.AnalyticsService
	logger       *logrus.Logger
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(
	reservations *services.ReservationService,
	analytics *services.AnalyticsService,
	logger *logrus.Logger,
) *ReservationHandler {
	return &ReservationHandler{
		reservations: reservations,
		analytics:    analytics,
		logger:       logger,
	}
}

// ===================================================================
// BOOKING
// ===================================================================

// CreateReservation handles POST /api/v1/reservations
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.reservations.Create(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateDashboard(c, h.analytics)
	c.JSON(http.StatusCreated, res)
}

// UpdateReservation handles PUT /api/v1/reservations/:id
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.reservations.Update(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateDashboard(c, h.analytics)
	c.JSON(http.StatusOK, res)
}

// ChangeStatus handles POST /api/v1/reservations/:id/status
func (h *ReservationHandler) ChangeStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.reservations.ChangeStatus(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateDashboard(c, h.analytics)
	c.JSON(http.StatusOK, res)
}

// ===================================================================
// QUERIES
// ===================================================================

// Quote handles POST /api/v1/reservations/quote
func (h *ReservationHandler) Quote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	quote, err := h.reservations.Quote(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// ListReservations handles GET /api/v1/reservations
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	var filter models.ReservationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}

	reservations, err := h.reservations.List(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations, "total": len(reservations)})
}

// GetReservation handles GET /api/v1/reservations/:id
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res, err := h.reservations.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Today handles GET /api/v1/reservations/today
func (h *ReservationHandler) Today(c *gin.Context) {
	movements, err := h.reservations.Today(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, movements)
}
