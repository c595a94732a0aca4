package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
)

// Candidate is a reservation proposal as entered at the front desk
type Candidate struct {
	// ReservationID is set when an existing reservation is being edited
	ReservationID   uuid.UUID
	Room            *models.Room
	GuestName       string
	GuestPhone      string
	GuestEmail      string
	IDType          string
	IDNumber        string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	SpecialRequests string
	WalkIn          bool
}

// Validator runs the ordered reservation checks. The first failure wins:
// room, guest name, phone, ID number, dates, availability.
type Validator struct {
	// NormalizePhone optionally checks and canonicalises the phone number
	NormalizePhone func(string) (string, error)
}

// Validate checks c against the existing reservations and, on success,
// returns a priced reservation in its initial status.
func (v Validator) Validate(c Candidate, existing []models.Reservation) (*models.Reservation, error) {
	if c.Room == nil || c.Room.ID == uuid.Nil {
		return nil, newValidationError("room_id", "Please select a room")
	}

	name := strings.TrimSpace(c.GuestName)
	if name == "" {
		return nil, newValidationError("guest_name", "Guest name is required")
	}

	phone := strings.TrimSpace(c.GuestPhone)
	if phone == "" {
		return nil, newValidationError("guest_phone", "Phone number is required")
	}
	if v.NormalizePhone != nil {
		normalized, err := v.NormalizePhone(phone)
		if err != nil {
			return nil, newValidationError("guest_phone", "Invalid phone number: "+err.Error())
		}
		phone = normalized
	}

	idNumber := strings.TrimSpace(c.IDNumber)
	if idNumber == "" {
		return nil, newValidationError("id_number", "ID number is required")
	}

	if c.CheckIn.IsZero() || c.CheckOut.IsZero() {
		return nil, newValidationError("dates", "Check-in and check-out dates are required")
	}
	stay := NewInterval(c.CheckIn, c.CheckOut)
	if stay.IsEmpty() {
		return nil, newValidationError("check_out", "Check-out date must be after check-in date")
	}

	if conflict, found := FindConflict(c.Room.ID, stay.Start, stay.End, existing, c.ReservationID); found {
		return nil, ConflictFor(conflict)
	}

	price := ComputePrice(c.Room.Price, stay.Start, stay.End)
	guests := c.Guests
	if guests < 1 {
		guests = 1
	}

	return &models.Reservation{
		ID:              c.ReservationID,
		HotelID:         c.Room.HotelID,
		RoomID:          c.Room.ID,
		RoomNumber:      c.Room.RoomNumber,
		GuestName:       name,
		GuestEmail:      strings.TrimSpace(c.GuestEmail),
		GuestPhone:      phone,
		IDType:          c.IDType,
		IDNumber:        idNumber,
		CheckIn:         stay.Start,
		CheckOut:        stay.End,
		Guests:          guests,
		Status:          InitialStatus(c.WalkIn),
		TotalAmount:     price.Total,
		AdvanceAmount:   price.Advance,
		WalkIn:          c.WalkIn,
		SpecialRequests: c.SpecialRequests,
	}, nil
}
