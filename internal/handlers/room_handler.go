package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// RoomHandler handles room inventory HTTP requests
type RoomHandler struct {
	rooms        *services.RoomService
	reservations *services.ReservationService
	analytics    *services.AnalyticsService
	logger       *logrus.Logger
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(
	rooms *services.RoomService,
	reservations *services.ReservationService,
	analytics *services.AnalyticsService,
	logger *logrus.Logger,
) *RoomHandler {
	return &RoomHandler{
		rooms:        rooms,
		reservations: reservations,
		analytics:    analytics,
		logger:       logger,
	}
}

// invalidateDashboard drops cached dashboard figures after a write
func invalidateDashboard(c *gin.Context, analytics *services.AnalyticsService) {
	if analytics != nil {
		analytics.Invalidate(c.Request.Context(), actorFrom(c))
	}
}

// ListRooms handles GET /api/v1/rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	var filter models.RoomFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}

	rooms, err := h.rooms.List(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms, "total": len(rooms)})
}

// GetRoom handles GET /api/v1/rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	room, err := h.rooms.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// CreateRoom handles POST /api/v1/rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	room, err := h.rooms.Create(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateDashboard(c, h.analytics)
	c.JSON(http.StatusCreated, room)
}

// UpdateRoom handles PUT /api/v1/rooms/:id
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	room, err := h.rooms.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateDashboard(c, h.analytics)
	c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /api/v1/rooms/:id
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.rooms.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateDashboard(c, h.analytics)
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}

// AvailableRoomsQuery represents the query of the availability search
type AvailableRoomsQuery struct {
	CheckIn  string `form:"check_in" binding:"required,isodate"`
	CheckOut string `form:"check_out" binding:"required,isodate"`
	models.RoomFilter
}

// AvailableRooms handles GET /api/v1/rooms/available
func (h *RoomHandler) AvailableRooms(c *gin.Context) {
	var query AvailableRoomsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	rooms, err := h.reservations.AvailableRooms(c.Request.Context(), actorFrom(c), query.CheckIn, query.CheckOut, query.RoomFilter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"check_in":  query.CheckIn,
		"check_out": query.CheckOut,
		"rooms":     rooms,
		"total":     len(rooms),
	})
}

// GetRoomCalendar handles GET /api/v1/rooms/:id/calendar?from=&to=
func (h *RoomHandler) GetRoomCalendar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	calendar, err := h.reservations.Calendar(c.Request.Context(), id, c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, calendar)
}

// GetRoomReservations handles GET /api/v1/rooms/:id/reservations
func (h *RoomHandler) GetRoomReservations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	reservations, err := h.reservations.ByRoom(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations, "total": len(reservations)})
}
