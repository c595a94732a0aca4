package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
)

// stayOf returns the interval a reservation holds
func stayOf(r *models.Reservation) Interval {
	return NewInterval(r.CheckIn, r.CheckOut)
}

// blocks reports whether r holds roomID's nights. Cancelled and checked-out
// reservations, the reservation being edited and degenerate intervals never block.
func blocks(r *models.Reservation, roomID, exclude uuid.UUID) bool {
	if r.RoomID != roomID || !r.Status.Blocks() {
		return false
	}
	if exclude != uuid.Nil && r.ID == exclude {
		return false
	}
	return !stayOf(r).IsEmpty()
}

// FindConflict returns the first blocking reservation of roomID that overlaps [start, end).
// Pass the id of a reservation being edited as exclude, or uuid.Nil.
func FindConflict(roomID uuid.UUID, start, end time.Time, existing []models.Reservation, exclude uuid.UUID) (*models.Reservation, bool) {
	want := NewInterval(start, end)
	for i := range existing {
		r := &existing[i]
		if !blocks(r, roomID, exclude) {
			continue
		}
		if want.Overlaps(stayOf(r)) {
			return r, true
		}
	}
	return nil, false
}

// HasConflict reports whether [start, end) collides with a blocking reservation of roomID
func HasConflict(roomID uuid.UUID, start, end time.Time, existing []models.Reservation, exclude uuid.UUID) bool {
	_, found := FindConflict(roomID, start, end, existing, exclude)
	return found
}

// ConflictFor builds the typed error for a blocking reservation
func ConflictFor(r *models.Reservation) *ConflictError {
	return &ConflictError{
		RoomID:        r.RoomID,
		ReservationID: r.ID,
		Interval:      stayOf(r),
	}
}

// IsDateBooked reports whether day falls inside a blocking reservation of roomID
func IsDateBooked(roomID uuid.UUID, day time.Time, existing []models.Reservation) bool {
	for i := range existing {
		r := &existing[i]
		if blocks(r, roomID, uuid.Nil) && stayOf(r).Contains(day) {
			return true
		}
	}
	return false
}

// BookedDays lists every booked day of roomID in [from, to)
func BookedDays(roomID uuid.UUID, from, to time.Time, existing []models.Reservation) []time.Time {
	window := NewInterval(from, to)
	days := make([]time.Time, 0)
	for d := window.Start; d.Before(window.End); d = d.AddDate(0, 0, 1) {
		if IsDateBooked(roomID, d, existing) {
			days = append(days, d)
		}
	}
	return days
}
