package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/booking"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/middleware"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/hotelsuite/pms-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Details any    `json:"details,omitempty"`
}

// respondError maps a service error onto an HTTP status and error body.
// Unrecognised errors are logged and reported as 500 without leaking detail.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var (
		validation *booking.ValidationError
		conflict   *booking.ConflictError
		transition *booking.StateTransitionError
		order      *services.OrderTransitionError
		limited    *services.RateLimitError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: validation.Message,
			Field:   validation.Field,
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "room_unavailable",
			Message: conflict.Error(),
			Code:    "BOOKING_CONFLICT",
			Details: conflict.Detail(),
		})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "invalid_transition",
			Message: transition.Error(),
			Code:    "INVALID_STATUS_TRANSITION",
		})
	case errors.As(err, &order):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "invalid_transition",
			Message: order.Error(),
			Code:    "INVALID_STATUS_TRANSITION",
		})
	case errors.As(err, &limited):
		retry := int(time.Until(limited.RetryAfter).Seconds()) + 1
		if retry < 1 {
			retry = 1
		}
		c.Header("Retry-After", strconv.Itoa(retry))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error:   "too_many_requests",
			Message: limited.Message,
			Code:    "RATE_LIMITED",
			Details: gin.H{"type": limited.Type, "retry_after": limited.RetryAfter},
		})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Resource not found"})
	case errors.Is(err, database.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "duplicate", Message: "A record with the same key already exists"})
	case errors.Is(err, database.ErrInUse):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "in_use", Message: "The record is still referenced and cannot be deleted"})
	case errors.Is(err, database.ErrOverlap):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "room_unavailable",
			Message: "Room is already booked for the selected dates",
			Code:    "BOOKING_CONFLICT",
		})
	case errors.Is(err, services.ErrInvoiceExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "invoice_exists", Message: err.Error()})
	case errors.Is(err, services.ErrInvoiceClosed):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "invoice_closed", Message: err.Error()})
	case errors.Is(err, services.ErrNotInHouse):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "not_in_house", Message: err.Error()})
	case errors.Is(err, services.ErrServiceUnavailable):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "service_unavailable", Message: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid_credentials", Message: err.Error(), Code: "INVALID_CREDENTIALS"})
	case errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid_token", Message: err.Error(), Code: "INVALID_REFRESH_TOKEN"})
	case errors.Is(err, services.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "account_disabled", Message: err.Error(), Code: "ACCOUNT_DISABLED"})
	case errors.Is(err, services.ErrUnknownJob):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: err.Error()})
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
		})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request: " + err.Error(),
	})
}

// pathID parses a UUID route parameter, writing a 400 on failure
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid " + name + " format",
			Field:   name,
		})
		return uuid.Nil, false
	}
	return id, true
}

// actorFrom builds the service actor from the authenticated user and request metadata
func actorFrom(c *gin.Context) services.Actor {
	actor := services.Actor{
		IPAddress: utils.GetRealIP(c),
		UserAgent: utils.GetUserAgent(c),
	}
	if userCtx, ok := middleware.GetUserContext(c); ok {
		actor.UserID = userCtx.UserID
		actor.Email = userCtx.Email
		actor.Role = userCtx.Role
		actor.HotelID = userCtx.HotelID
	}
	return actor
}
