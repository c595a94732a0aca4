package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// RESERVATION STATUS
// ============================================================================

// ReservationStatus is the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationStatusConfirmed  ReservationStatus = "confirmed"
	ReservationStatusCheckedIn  ReservationStatus = "checked-in"
	ReservationStatusCheckedOut ReservationStatus = "checked-out"
	ReservationStatusCancelled  ReservationStatus = "cancelled"
)

// BlockingStatuses are the statuses that hold a room's nights
var BlockingStatuses = []ReservationStatus{
	ReservationStatusConfirmed,
	ReservationStatusCheckedIn,
}

// IsValid reports whether s is a known status
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusConfirmed, ReservationStatusCheckedIn,
		ReservationStatusCheckedOut, ReservationStatusCancelled:
		return true
	}
	return false
}

// Blocks reports whether a reservation in this status occupies its interval
func (s ReservationStatus) Blocks() bool {
	return s == ReservationStatusConfirmed || s == ReservationStatusCheckedIn
}

// ============================================================================
// RESERVATION
// ============================================================================

// Reservation is a booking of one room for the half-open interval [CheckIn, CheckOut).
// Guest fields are a snapshot taken at booking time.
type Reservation struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	HotelID         *uuid.UUID        `db:"hotel_id" json:"hotel_id,omitempty"`
	RoomID          uuid.UUID         `db:"room_id" json:"room_id"`
	GuestID         *uuid.UUID        `db:"guest_id" json:"guest_id,omitempty"`
	GuestName       string            `db:"guest_name" json:"guest_name"`
	GuestEmail      string            `db:"guest_email" json:"guest_email"`
	GuestPhone      string            `db:"guest_phone" json:"guest_phone"`
	IDType          string            `db:"id_type" json:"id_type"`
	IDNumber        string            `db:"id_number" json:"id_number"`
	CheckIn         time.Time         `db:"check_in" json:"check_in"`
	CheckOut        time.Time         `db:"check_out" json:"check_out"`
	Guests          int               `db:"guests" json:"guests"`
	Status          ReservationStatus `db:"status" json:"status"`
	TotalAmount     float64           `db:"total_amount" json:"total_amount"`
	AdvanceAmount   float64           `db:"advance_amount" json:"advance_amount"`
	TotalOverridden bool              `db:"total_overridden" json:"total_overridden"`
	WalkIn          bool              `db:"walk_in" json:"walk_in"`
	SpecialRequests string            `db:"special_requests" json:"special_requests"`
	CreatedBy       *uuid.UUID        `db:"created_by" json:"created_by,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`

	// Joined from rooms for listings
	RoomNumber string `db:"room_number" json:"room_number,omitempty"`
}

// CreateReservationRequest is the payload for POST /reservations.
// Required-field checks happen in the booking validator so that they are
// reported in a fixed order with their own messages.
type CreateReservationRequest struct {
	RoomID          string   `json:"room_id" binding:"omitempty,uuid"`
	GuestName       string   `json:"guest_name" binding:"max=100"`
	GuestEmail      string   `json:"guest_email" binding:"omitempty,email"`
	GuestPhone      string   `json:"guest_phone"`
	IDType          string   `json:"id_type" binding:"omitempty,idtype"`
	IDNumber        string   `json:"id_number" binding:"max=50"`
	CheckIn         string   `json:"check_in" binding:"omitempty,isodate"`
	CheckOut        string   `json:"check_out" binding:"omitempty,isodate"`
	Guests          int      `json:"guests" binding:"omitempty,min=1,max=20"`
	TotalAmount     *float64 `json:"total_amount" binding:"omitempty,gte=0"`
	SpecialRequests string   `json:"special_requests" binding:"max=1000"`
	WalkIn          bool     `json:"walk_in"`
}

// UpdateReservationRequest edits a reservation (nil = unchanged).
// Which fields may change depends on the current status.
type UpdateReservationRequest struct {
	RoomID          *string  `json:"room_id" binding:"omitempty,uuid"`
	GuestName       *string  `json:"guest_name" binding:"omitempty,max=100"`
	GuestEmail      *string  `json:"guest_email" binding:"omitempty,email"`
	GuestPhone      *string  `json:"guest_phone"`
	IDType          *string  `json:"id_type" binding:"omitempty,idtype"`
	IDNumber        *string  `json:"id_number" binding:"omitempty,max=50"`
	CheckIn         *string  `json:"check_in" binding:"omitempty,isodate"`
	CheckOut        *string  `json:"check_out" binding:"omitempty,isodate"`
	Guests          *int     `json:"guests" binding:"omitempty,min=1,max=20"`
	TotalAmount     *float64 `json:"total_amount" binding:"omitempty,gte=0"`
	AdvanceAmount   *float64 `json:"advance_amount" binding:"omitempty,gte=0"`
	SpecialRequests *string  `json:"special_requests" binding:"omitempty,max=1000"`
}

// ChangeStatusRequest is the payload for POST /reservations/:id/status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,resstatus"`
	Reason string `json:"reason" binding:"max=500"`
}

// QuoteRequest asks for a price and availability without booking
type QuoteRequest struct {
	RoomID    string `json:"room_id" binding:"required,uuid"`
	CheckIn   string `json:"check_in" binding:"required,isodate"`
	CheckOut  string `json:"check_out" binding:"required,isodate"`
	ExcludeID string `json:"exclude_id" binding:"omitempty,uuid"`
}

// Quote is the computed stay price for a room and interval
type Quote struct {
	RoomID    uuid.UUID       `json:"room_id"`
	CheckIn   string          `json:"check_in"`
	CheckOut  string          `json:"check_out"`
	Nights    int             `json:"nights"`
	Rate      float64         `json:"rate"`
	Total     float64         `json:"total"`
	Advance   float64         `json:"advance"`
	Available bool            `json:"available"`
	Conflict  *ConflictDetail `json:"conflict,omitempty"`
}

// ConflictDetail describes the reservation that blocks an interval
type ConflictDetail struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	RoomID        uuid.UUID `json:"room_id"`
	CheckIn       string    `json:"check_in"`
	CheckOut      string    `json:"check_out"`
}

// ReservationFilter narrows reservation listings
type ReservationFilter struct {
	Status string `form:"status" binding:"omitempty,resstatus"`
	RoomID string `form:"room_id" binding:"omitempty,uuid"`
	From   string `form:"from" binding:"omitempty,isodate"`
	To     string `form:"to" binding:"omitempty,isodate"`
	Search string `form:"search"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// TodayMovements lists the arrivals and departures of a day
type TodayMovements struct {
	Date      string        `json:"date"`
	CheckIns  []Reservation `json:"check_ins"`
	CheckOuts []Reservation `json:"check_outs"`
}
