package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// GuestHandler handles guest profile HTTP requests
type GuestHandler struct {
	guests *services.GuestService
	logger *logrus.Logger
}

// NewGuestHandler creates a new guest handler
func NewGuestHandler(guests *services.GuestService, logger *logrus.Logger) *GuestHandler {
	return &GuestHandler{guests: guests, logger: logger}
}

// ListGuests handles GET /api/v1/guests
func (h *GuestHandler) ListGuests(c *gin.Context) {
	var filter models.GuestFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}

	guests, err := h.guests.List(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guests": guests, "total": len(guests)})
}

// GetGuest handles GET /api/v1/guests/:id
func (h *GuestHandler) GetGuest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	guest, err := h.guests.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, guest)
}

// UpdateGuest handles PUT /api/v1/guests/:id
func (h *GuestHandler) UpdateGuest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	guest, err := h.guests.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, guest)
}

// GetGuestReservations handles GET /api/v1/guests/:id/reservations
func (h *GuestHandler) GetGuestReservations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	reservations, err := h.guests.Reservations(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations, "total": len(reservations)})
}
