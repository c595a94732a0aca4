package booking

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
)

// ValidationError reports the first failed check of a reservation candidate
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports the existing reservation that blocks the requested interval
type ConflictError struct {
	RoomID        uuid.UUID
	ReservationID uuid.UUID
	Interval      Interval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room is already booked from %s to %s",
		FormatDate(e.Interval.Start), FormatDate(e.Interval.End))
}

// Detail converts the error into its API representation
func (e *ConflictError) Detail() *models.ConflictDetail {
	return &models.ConflictDetail{
		ReservationID: e.ReservationID,
		RoomID:        e.RoomID,
		CheckIn:       FormatDate(e.Interval.Start),
		CheckOut:      FormatDate(e.Interval.End),
	}
}

// StateTransitionError reports a status change the lifecycle does not allow
type StateTransitionError struct {
	From models.ReservationStatus
	To   models.ReservationStatus
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot change reservation status from %s to %s", e.From, e.To)
}
