package models

import (
	"time"

	"github.com/google/uuid"
)

// RoomType represents the category of a room
type RoomType string

const (
	RoomTypeStandard  RoomType = "Standard"
	RoomTypeDeluxe    RoomType = "Deluxe"
	RoomTypeSuite     RoomType = "Suite"
	RoomTypeExecutive RoomType = "Executive"
)

// RoomStatus is the housekeeping/display status of a room.
// It is informational only; booking availability is decided by reservations.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "Available"
	RoomStatusOccupied    RoomStatus = "Occupied"
	RoomStatusMaintenance RoomStatus = "Maintenance"
	RoomStatusReserved    RoomStatus = "Reserved"
)

// IsValid reports whether t is a known room type
func (t RoomType) IsValid() bool {
	switch t {
	case RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite, RoomTypeExecutive:
		return true
	}
	return false
}

// IsValid reports whether s is a known room status
func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance, RoomStatusReserved:
		return true
	}
	return false
}

// Room represents a bookable room
type Room struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	HotelID     *uuid.UUID  `db:"hotel_id" json:"hotel_id,omitempty"`
	RoomNumber  string      `db:"room_number" json:"room_number"`
	RoomType    RoomType    `db:"room_type" json:"room_type"`
	Floor       int         `db:"floor" json:"floor"`
	Capacity    int         `db:"capacity" json:"capacity"`
	Price       float64     `db:"price" json:"price"`
	Status      RoomStatus  `db:"status" json:"status"`
	Amenities   StringArray `db:"amenities" json:"amenities"`
	Description string      `db:"description" json:"description"`
	Image       string      `db:"image" json:"image"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// CreateRoomRequest is the payload for POST /rooms
type CreateRoomRequest struct {
	RoomNumber  string   `json:"room_number" binding:"required,max=20"`
	RoomType    string   `json:"room_type" binding:"required,roomtype"`
	Floor       int      `json:"floor" binding:"min=0"`
	Capacity    int      `json:"capacity" binding:"required,min=1"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Status      string   `json:"status" binding:"omitempty,roomstatus"`
	Amenities   []string `json:"amenities"`
	Description string   `json:"description"`
	Image       string   `json:"image" binding:"omitempty,url"`
}

// ToRoom builds a Room from the request, defaulting status to Available
func (r *CreateRoomRequest) ToRoom(hotelID *uuid.UUID) *Room {
	status := RoomStatus(r.Status)
	if status == "" {
		status = RoomStatusAvailable
	}
	return &Room{
		HotelID:     hotelID,
		RoomNumber:  r.RoomNumber,
		RoomType:    RoomType(r.RoomType),
		Floor:       r.Floor,
		Capacity:    r.Capacity,
		Price:       *r.Price,
		Status:      status,
		Amenities:   StringArray(r.Amenities),
		Description: r.Description,
		Image:       r.Image,
	}
}

// UpdateRoomRequest is a partial update; nil fields keep their stored value
type UpdateRoomRequest struct {
	RoomNumber  *string   `json:"room_number" binding:"omitempty,max=20"`
	RoomType    *string   `json:"room_type" binding:"omitempty,roomtype"`
	Floor       *int      `json:"floor" binding:"omitempty,min=0"`
	Capacity    *int      `json:"capacity" binding:"omitempty,min=1"`
	Price       *float64  `json:"price" binding:"omitempty,gte=0"`
	Status      *string   `json:"status" binding:"omitempty,roomstatus"`
	Amenities   *[]string `json:"amenities"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
}

// ApplyTo merges the non-nil fields into room
func (r *UpdateRoomRequest) ApplyTo(room *Room) {
	if r.RoomNumber != nil {
		room.RoomNumber = *r.RoomNumber
	}
	if r.RoomType != nil {
		room.RoomType = RoomType(*r.RoomType)
	}
	if r.Floor != nil {
		room.Floor = *r.Floor
	}
	if r.Capacity != nil {
		room.Capacity = *r.Capacity
	}
	if r.Price != nil {
		room.Price = *r.Price
	}
	if r.Status != nil {
		room.Status = RoomStatus(*r.Status)
	}
	if r.Amenities != nil {
		room.Amenities = StringArray(*r.Amenities)
	}
	if r.Description != nil {
		room.Description = *r.Description
	}
	if r.Image != nil {
		room.Image = *r.Image
	}
}

// RoomFilter narrows room listings
type RoomFilter struct {
	RoomType string `form:"type" binding:"omitempty,roomtype"`
	Status   string `form:"status" binding:"omitempty,roomstatus"`
	Floor    *int   `form:"floor" binding:"omitempty,min=0"`
}

// RoomCalendar lists the booked days of a room inside a window
type RoomCalendar struct {
	RoomID     uuid.UUID `json:"room_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	BookedDays []string  `json:"booked_days"`
}
