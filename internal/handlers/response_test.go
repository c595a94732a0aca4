package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/booking"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	start := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		err    error
		status int
		errKey string
	}{
		{"validation", &booking.ValidationError{Field: "guest_phone", Message: "Phone number is required"}, http.StatusBadRequest, "validation_error"},
		{"conflict", &booking.ConflictError{RoomID: uuid.New(), ReservationID: uuid.New(), Interval: booking.NewInterval(start, start.AddDate(0, 0, 2))}, http.StatusConflict, "room_unavailable"},
		{"transition", &booking.StateTransitionError{From: models.ReservationStatusCheckedOut, To: models.ReservationStatusConfirmed}, http.StatusConflict, "invalid_transition"},
		{"order transition", &services.OrderTransitionError{From: models.ServiceOrderCompleted, To: models.ServiceOrderPending}, http.StatusConflict, "invalid_transition"},
		{"wrapped not found", fmt.Errorf("failed to get room: %w", database.ErrNotFound), http.StatusNotFound, "not_found"},
		{"duplicate", database.ErrDuplicate, http.StatusConflict, "duplicate"},
		{"in use", database.ErrInUse, http.StatusConflict, "in_use"},
		{"overlap", database.ErrOverlap, http.StatusConflict, "room_unavailable"},
		{"invoice exists", services.ErrInvoiceExists, http.StatusConflict, "invoice_exists"},
		{"invoice closed", services.ErrInvoiceClosed, http.StatusConflict, "invoice_closed"},
		{"not in house", services.ErrNotInHouse, http.StatusUnprocessableEntity, "not_in_house"},
		{"service unavailable", services.ErrServiceUnavailable, http.StatusUnprocessableEntity, "service_unavailable"},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"refresh token", services.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
		{"disabled", services.ErrAccountDisabled, http.StatusForbidden, "account_disabled"},
		{"rate limited", &services.RateLimitError{Message: "Too many failed logins", RetryAfter: time.Now().Add(time.Minute), Type: "email"}, http.StatusTooManyRequests, "too_many_requests"},
		{"unknown job", fmt.Errorf("%w: reindex", services.ErrUnknownJob), http.StatusNotFound, "not_found"},
		{"unexpected", errors.New("connection reset by peer"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)

			respondError(c, testLogger(), tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.errKey, resp.Error)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, resp.Message, "connection reset")
			}
		})
	}
}

func TestActorFrom(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	c.Request.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
	c.Request.Header.Set("X-Real-IP", "203.0.113.7")

	anonymous := actorFrom(c)
	assert.Equal(t, uuid.Nil, anonymous.UserID)
	assert.Equal(t, "203.0.113.7", anonymous.IPAddress)

	withUser("manager")(c)
	actor := actorFrom(c)
	assert.Equal(t, testUserID, actor.UserID)
	assert.Equal(t, "manager", actor.Role)
	if assert.NotNil(t, actor.HotelID) {
		assert.Equal(t, testHotelID, *actor.HotelID)
	}
	assert.Contains(t, actor.UserAgent, "Windows")
}
