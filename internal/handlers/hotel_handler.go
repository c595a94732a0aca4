package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotelsuite/pms-backend/internal/middleware"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// HotelHandler serves the profile of the caller's hotel and its dashboard
type HotelHandler struct {
	hotels    *services.HotelProfileService
	analytics *services.AnalyticsService
	logger    *logrus.Logger
}

// NewHotelHandler creates a new hotel handler
func NewHotelHandler(hotels *services.HotelProfileService, analytics *services.AnalyticsService, logger *logrus.Logger) *HotelHandler {
	return &HotelHandler{hotels: hotels, analytics: analytics, logger: logger}
}

// GetHotel handles GET /api/v1/hotel (requires RequireHotel)
func (h *HotelHandler) GetHotel(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	hotel, err := h.hotels.Get(c.Request.Context(), *userCtx.HotelID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, hotel)
}

// UpdateHotel handles PUT /api/v1/hotel (requires RequireHotel)
func (h *HotelHandler) UpdateHotel(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	hotel, err := h.hotels.Update(c.Request.Context(), *userCtx.HotelID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, hotel)
}

// Dashboard handles GET /api/v1/analytics/dashboard
func (h *HotelHandler) Dashboard(c *gin.Context) {
	stats, err := h.analytics.Dashboard(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
