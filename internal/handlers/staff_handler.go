package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// StaffHandler handles staff directory HTTP requests
type StaffHandler struct {
	staff  *services.StaffService
	logger *logrus.Logger
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(staff *services.StaffService, logger *logrus.Logger) *StaffHandler {
	return &StaffHandler{staff: staff, logger: logger}
}

// ListStaff handles GET /api/v1/staff
func (h *StaffHandler) ListStaff(c *gin.Context) {
	var filter models.StaffFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}

	members, err := h.staff.List(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": members, "total": len(members)})
}

// GetStaff handles GET /api/v1/staff/:id
func (h *StaffHandler) GetStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	member, err := h.staff.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// CreateStaff handles POST /api/v1/staff
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req models.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	member, err := h.staff.Create(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// UpdateStaff handles PUT /api/v1/staff/:id
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	member, err := h.staff.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// DeleteStaff handles DELETE /api/v1/staff/:id
func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.staff.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff member removed"})
}
