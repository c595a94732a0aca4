package models

import (
	"time"

	"github.com/google/uuid"
)

// IDType is the kind of identity document a guest presents
type IDType string

const (
	IDTypeAadhar         IDType = "Aadhar"
	IDTypePAN            IDType = "PAN"
	IDTypeDrivingLicense IDType = "Driving License"
	IDTypePassport       IDType = "Passport"
)

// IsValid reports whether t is an accepted document type
func (t IDType) IsValid() bool {
	switch t {
	case IDTypeAadhar, IDTypePAN, IDTypeDrivingLicense, IDTypePassport:
		return true
	}
	return false
}

// Guest is a person who stays or has stayed at the hotel
type Guest struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	HotelID     *uuid.UUID `db:"hotel_id" json:"hotel_id,omitempty"`
	Name        string     `db:"name" json:"name"`
	Email       string     `db:"email" json:"email"`
	Phone       string     `db:"phone" json:"phone"`
	Address     string     `db:"address" json:"address"`
	IDType      string     `db:"id_type" json:"id_type"`
	IDNumber    string     `db:"id_number" json:"id_number"`
	Nationality string     `db:"nationality" json:"nationality"`
	Visits      int        `db:"visits" json:"visits"`
	TotalSpent  float64    `db:"total_spent" json:"total_spent"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	LastVisit   *time.Time `db:"last_visit" json:"last_visit,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// GuestIdentity is the set of keys used to recognise a returning guest
type GuestIdentity struct {
	Name     string
	Email    string
	Phone    string
	IDType   string
	IDNumber string
}

// UpdateGuestRequest updates guest contact details (nil = unchanged)
type UpdateGuestRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	IDType      *string `json:"id_type" binding:"omitempty,idtype"`
	IDNumber    *string `json:"id_number"`
	Nationality *string `json:"nationality"`
}

// ApplyTo merges the non-nil fields into g
func (r *UpdateGuestRequest) ApplyTo(g *Guest) {
	if r.Name != nil {
		g.Name = *r.Name
	}
	if r.Email != nil {
		g.Email = *r.Email
	}
	if r.Phone != nil {
		g.Phone = *r.Phone
	}
	if r.Address != nil {
		g.Address = *r.Address
	}
	if r.IDType != nil {
		g.IDType = *r.IDType
	}
	if r.IDNumber != nil {
		g.IDNumber = *r.IDNumber
	}
	if r.Nationality != nil {
		g.Nationality = *r.Nationality
	}
}

// GuestFilter narrows guest listings
type GuestFilter struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=500"`
}
