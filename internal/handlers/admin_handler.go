package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// AdminHandler handles admin-only maintenance HTTP requests
type AdminHandler struct {
	cron   *services.CronService
	logger *logrus.Logger
}

// NewAdminHandler creates a new admin handler. cron may be nil when the
// scheduler is disabled.
func NewAdminHandler(cron *services.CronService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{cron: cron, logger: logger}
}

func (h *AdminHandler) cronDisabled(c *gin.Context) bool {
	if h.cron != nil {
		return false
	}
	c.JSON(http.StatusServiceUnavailable, ErrorResponse{
		Error:   "cron_disabled",
		Message: "Scheduled jobs are disabled on this instance",
	})
	return true
}

// GetCronStatus handles GET /api/v1/admin/cron/status
func (h *AdminHandler) GetCronStatus(c *gin.Context) {
	if h.cronDisabled(c) {
		return
	}
	c.JSON(http.StatusOK, h.cron.GetJobStatus())
}

// RunCronJob handles POST /api/v1/admin/cron/:job
func (h *AdminHandler) RunCronJob(c *gin.Context) {
	if h.cronDisabled(c) {
		return
	}

	name := c.Param("job")
	result, err := h.cron.RunJob(name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"job":      name,
		"affected": result.Affected,
		"user_id":  actorFrom(c).UserID,
	}).Info("Cron job triggered manually")

	c.JSON(http.StatusOK, result)
}
