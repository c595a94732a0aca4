package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

const guestColumns = `
	id, hotel_id, name, email, phone, address, id_type, id_number, nationality,
	visits, total_spent, is_active, last_visit, created_at, updated_at`

// GuestRepository handles guest database operations
type GuestRepository struct {
	db *sqlx.DB
}

// NewGuestRepository creates a new guest repository
func NewGuestRepository(db *sqlx.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

// FindByIdentity looks up a returning guest by phone OR email OR ID number.
// Empty keys never match. When several guests match, a phone match beats an
// email match, which beats an ID match; ties go to the oldest record.
func (r *GuestRepository) FindByIdentity(ctx context.Context, hotelID *uuid.UUID, id models.GuestIdentity) (*models.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests
		WHERE ($4::uuid IS NULL OR hotel_id = $4)
		  AND ((phone = $1 AND $1 <> '')
		    OR (email = $2 AND $2 <> '')
		    OR (id_number = $3 AND $3 <> ''))
		ORDER BY CASE
		           WHEN phone = $1 AND $1 <> '' THEN 0
		           WHEN email = $2 AND $2 <> '' THEN 1
		           ELSE 2
		         END,
		         created_at
		LIMIT 1`

	var guest models.Guest
	err := sqlx.GetContext(ctx, conn(ctx, r.db), &guest, query, id.Phone, id.Email, id.IDNumber, hotelID)
	if err != nil {
		return nil, wrap(err, "failed to find guest")
	}
	return &guest, nil
}

// Create inserts a guest
func (r *GuestRepository) Create(ctx context.Context, g *models.Guest) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	query := `
		INSERT INTO guests (
			id, hotel_id, name, email, phone, address, id_type, id_number, nationality,
			visits, total_spent, is_active, last_visit
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		g.ID, g.HotelID, g.Name, g.Email, g.Phone, g.Address, g.IDType, g.IDNumber, g.Nationality,
		g.Visits, g.TotalSpent, g.IsActive, g.LastVisit,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return wrap(err, "failed to create guest")
	}
	return nil
}

// GetByID returns a guest or ErrNotFound
func (r *GuestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Guest, error) {
	var guest models.Guest
	query := `SELECT ` + guestColumns + ` FROM guests WHERE id = $1`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &guest, query, id); err != nil {
		return nil, wrap(err, "failed to get guest")
	}
	return &guest, nil
}

// List returns guests, in-house guests first, then by name
func (r *GuestRepository) List(ctx context.Context, hotelID *uuid.UUID, filter models.GuestFilter) ([]models.Guest, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	query := `SELECT ` + guestColumns + ` FROM guests
		WHERE ($1::uuid IS NULL OR hotel_id = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR phone ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
		  AND (NOT $3 OR is_active)
		ORDER BY is_active DESC, name
		LIMIT $4`

	guests := []models.Guest{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &guests, query, hotelID, filter.Search, filter.ActiveOnly, limit); err != nil {
		return nil, wrap(err, "failed to list guests")
	}
	return guests, nil
}

// Update writes a guest's contact and document fields
func (r *GuestRepository) Update(ctx context.Context, g *models.Guest) error {
	query := `
		UPDATE guests
		SET name = $2, email = $3, phone = $4, address = $5, id_type = $6,
		    id_number = $7, nationality = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		g.ID, g.Name, g.Email, g.Phone, g.Address, g.IDType, g.IDNumber, g.Nationality,
	).Scan(&g.UpdatedAt)
	if err != nil {
		return wrap(err, "failed to update guest")
	}
	return nil
}

// RecordVisit bumps the visit counter of a returning guest
func (r *GuestRepository) RecordVisit(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE guests
		SET visits = visits + 1, last_visit = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, at)
	if err != nil {
		return wrap(err, "failed to record guest visit")
	}
	return expectRow(result, "guest")
}

// SetActive marks a guest as in-house or not
func (r *GuestRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE guests SET is_active = $2, updated_at = NOW() WHERE id = $1`
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, id, active); err != nil {
		return wrap(err, "failed to set guest activity")
	}
	return nil
}

// AddSpend adds a settled amount to the guest's lifetime spend
func (r *GuestRepository) AddSpend(ctx context.Context, id uuid.UUID, amount float64) error {
	query := `UPDATE guests SET total_spent = total_spent + $2, updated_at = NOW() WHERE id = $1`
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, id, amount); err != nil {
		return wrap(err, fmt.Sprintf("failed to add spend for guest %s", id))
	}
	return nil
}
