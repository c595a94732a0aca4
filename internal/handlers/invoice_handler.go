package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// InvoiceHandler handles billing HTTP requests
type InvoiceHandler struct {
	invoices  *services.InvoiceService
	analytics *services.AnalyticsService
	logger    *logrus.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoices *services.InvoiceService, analytics *services.AnalyticsService, logger *logrus.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, analytics: analytics, logger: logger}
}

// GenerateInvoice handles POST /api/v1/reservations/:id/invoice
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	reservationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.GenerateInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	inv, err := h.invoices.Generate(c.Request.Context(), actorFrom(c), reservationID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// ListInvoices handles GET /api/v1/invoices
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	var filter models.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}

	invoices, err := h.invoices.List(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices, "total": len(invoices)})
}

// GetInvoice handles GET /api/v1/invoices/:id
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.invoices.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// AddItem handles POST /api/v1/invoices/:id/items
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.AddInvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	inv, err := h.invoices.AddItem(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// RecordPayment handles POST /api/v1/invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	inv, err := h.invoices.RecordPayment(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	// Paid invoices feed the revenue chart
	invalidateDashboard(c, h.analytics)
	c.JSON(http.StatusOK, inv)
}

// CancelInvoice handles POST /api/v1/invoices/:id/cancel
func (h *InvoiceHandler) CancelInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.invoices.Cancel(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
