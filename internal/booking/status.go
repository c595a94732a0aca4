package booking

import (
	"fmt"

	"github.com/hotelsuite/pms-backend/internal/models"
)

var baseTransitions = map[models.ReservationStatus][]models.ReservationStatus{
	models.ReservationStatusConfirmed:  {models.ReservationStatusCheckedIn, models.ReservationStatusCancelled},
	models.ReservationStatusCheckedIn:  {models.ReservationStatusCheckedOut},
	models.ReservationStatusCheckedOut: {},
	models.ReservationStatusCancelled:  {},
}

// StatusMachine validates reservation lifecycle changes.
// AllowCancelAfterCheckIn additionally permits checked-in -> cancelled.
type StatusMachine struct {
	AllowCancelAfterCheckIn bool
}

// ParseStatus converts a string, rejecting unknown values
func ParseStatus(s string) (models.ReservationStatus, error) {
	status := models.ReservationStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid reservation status: %s", s)
	}
	return status, nil
}

// InitialStatus is confirmed for bookings and checked-in for walk-ins
func InitialStatus(walkIn bool) models.ReservationStatus {
	if walkIn {
		return models.ReservationStatusCheckedIn
	}
	return models.ReservationStatusConfirmed
}

// IsTerminal reports whether no transition leaves s
func IsTerminal(s models.ReservationStatus) bool {
	return s == models.ReservationStatusCheckedOut || s == models.ReservationStatusCancelled
}

// CanTransition reports whether from -> to is allowed
func (m StatusMachine) CanTransition(from, to models.ReservationStatus) bool {
	if m.AllowCancelAfterCheckIn &&
		from == models.ReservationStatusCheckedIn && to == models.ReservationStatusCancelled {
		return true
	}
	for _, t := range baseTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Transition returns the new status or a *StateTransitionError
func (m StatusMachine) Transition(from, to models.ReservationStatus) (models.ReservationStatus, error) {
	if !m.CanTransition(from, to) {
		return from, &StateTransitionError{From: from, To: to}
	}
	return to, nil
}

// Allowed lists the statuses reachable from s
func (m StatusMachine) Allowed(s models.ReservationStatus) []models.ReservationStatus {
	next := append([]models.ReservationStatus{}, baseTransitions[s]...)
	if m.AllowCancelAfterCheckIn && s == models.ReservationStatusCheckedIn {
		next = append(next, models.ReservationStatusCancelled)
	}
	return next
}

// Field names an editable part of a reservation
type Field string

const (
	FieldRoom            Field = "room"
	FieldCheckIn         Field = "check_in"
	FieldCheckOut        Field = "check_out"
	FieldGuest           Field = "guest"
	FieldGuests          Field = "guests"
	FieldTotal           Field = "total_amount"
	FieldAdvance         Field = "advance_amount"
	FieldSpecialRequests Field = "special_requests"
)

var editableFields = map[models.ReservationStatus][]Field{
	models.ReservationStatusConfirmed: {
		FieldRoom, FieldCheckIn, FieldCheckOut, FieldGuest, FieldGuests,
		FieldTotal, FieldAdvance, FieldSpecialRequests,
	},
	// in-house guests may extend or shorten the stay, nothing about the arrival changes
	models.ReservationStatusCheckedIn: {
		FieldCheckOut, FieldTotal, FieldAdvance, FieldSpecialRequests,
	},
}

// CanEdit reports whether field may change while a reservation is in status s
func CanEdit(s models.ReservationStatus, field Field) bool {
	for _, f := range editableFields[s] {
		if f == field {
			return true
		}
	}
	return false
}
