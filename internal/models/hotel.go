package models

import (
	"time"

	"github.com/google/uuid"
)

// Hotel is the property the data belongs to
type Hotel struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email"`
	Rating    float64   `db:"rating" json:"rating"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UpdateHotelRequest edits the hotel profile
type UpdateHotelRequest struct {
	Name    *string  `json:"name" binding:"omitempty,max=100"`
	Address *string  `json:"address" binding:"omitempty,max=255"`
	Phone   *string  `json:"phone"`
	Email   *string  `json:"email" binding:"omitempty,email"`
	Rating  *float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
}
