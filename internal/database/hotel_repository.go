package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// HotelRepository handles the hotel profile
type HotelRepository struct {
	db *sqlx.DB
}

// NewHotelRepository creates a new hotel repository
func NewHotelRepository(db *sqlx.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

// Create inserts a hotel
func (r *HotelRepository) Create(ctx context.Context, h *models.Hotel) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	query := `
		INSERT INTO hotels (id, name, address, phone, email, rating)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		h.ID, h.Name, h.Address, h.Phone, h.Email, h.Rating,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return wrap(err, "failed to create hotel")
	}
	return nil
}

// GetByID returns a hotel or ErrNotFound
func (r *HotelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Hotel, error) {
	var h models.Hotel
	query := `SELECT id, name, address, phone, email, rating, created_at, updated_at FROM hotels WHERE id = $1`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &h, query, id); err != nil {
		return nil, wrap(err, "failed to get hotel")
	}
	return &h, nil
}

// Update writes the hotel profile
func (r *HotelRepository) Update(ctx context.Context, h *models.Hotel) error {
	query := `
		UPDATE hotels
		SET name = $2, address = $3, phone = $4, email = $5, rating = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		h.ID, h.Name, h.Address, h.Phone, h.Email, h.Rating,
	).Scan(&h.UpdatedAt)
	if err != nil {
		return wrap(err, "failed to update hotel")
	}
	return nil
}
