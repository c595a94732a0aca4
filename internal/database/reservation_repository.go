package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

const reservationColumns = `
	r.id, r.hotel_id, r.room_id, r.guest_id, r.guest_name, r.guest_email, r.guest_phone,
	r.id_type, r.id_number, r.check_in, r.check_out, r.guests, r.status,
	r.total_amount, r.advance_amount, r.total_overridden, r.walk_in, r.special_requests,
	r.created_by, r.created_at, r.updated_at, rm.room_number`

const reservationFrom = ` FROM reservations r JOIN rooms rm ON rm.id = r.room_id`

// ReservationRepository handles reservation database operations
type ReservationRepository struct {
	db *sqlx.DB
	*Transactor
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db, Transactor: NewTransactor(db)}
}

// FindByRoom returns every reservation of a room, oldest arrival first
func (r *ReservationRepository) FindByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
		WHERE r.room_id = $1
		ORDER BY r.check_in`

	reservations := []models.Reservation{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &reservations, query, roomID); err != nil {
		return nil, wrap(err, "failed to find reservations by room")
	}
	return reservations, nil
}

// FindBlockingByRoom returns the confirmed and checked-in reservations of a room
func (r *ReservationRepository) FindBlockingByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
		WHERE r.room_id = $1 AND r.status IN ('confirmed', 'checked-in')
		ORDER BY r.check_in`

	reservations := []models.Reservation{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &reservations, query, roomID); err != nil {
		return nil, wrap(err, "failed to find blocking reservations")
	}
	return reservations, nil
}

// ListBlockingBetween returns blocking reservations that touch [from, to)
func (r *ReservationRepository) ListBlockingBetween(ctx context.Context, hotelID *uuid.UUID, from, to time.Time) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
		WHERE r.status IN ('confirmed', 'checked-in')
		  AND r.check_in < $2 AND $1 < r.check_out
		  AND ($3::uuid IS NULL OR r.hotel_id = $3)
		ORDER BY r.room_id, r.check_in`

	reservations := []models.Reservation{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &reservations, query, from, to, hotelID); err != nil {
		return nil, wrap(err, "failed to list blocking reservations")
	}
	return reservations, nil
}

// Insert stores a new reservation and returns its id.
// A write that the exclusion constraint rejects returns ErrOverlap.
func (r *ReservationRepository) Insert(ctx context.Context, res *models.Reservation) (uuid.UUID, error) {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}

	query := `
		INSERT INTO reservations (
			id, hotel_id, room_id, guest_id, guest_name, guest_email, guest_phone,
			id_type, id_number, check_in, check_out, guests, status,
			total_amount, advance_amount, total_overridden, walk_in, special_requests, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING created_at, updated_at
	`

	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		res.ID, res.HotelID, res.RoomID, res.GuestID, res.GuestName, res.GuestEmail, res.GuestPhone,
		res.IDType, res.IDNumber, res.CheckIn, res.CheckOut, res.Guests, res.Status,
		res.TotalAmount, res.AdvanceAmount, res.TotalOverridden, res.WalkIn, res.SpecialRequests, res.CreatedBy,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return uuid.Nil, wrap(err, "failed to insert reservation")
	}
	return res.ID, nil
}

// Update rewrites the editable columns of a reservation
func (r *ReservationRepository) Update(ctx context.Context, res *models.Reservation) error {
	query := `
		UPDATE reservations
		SET room_id = $2, guest_name = $3, guest_email = $4, guest_phone = $5,
		    id_type = $6, id_number = $7, check_in = $8, check_out = $9, guests = $10,
		    total_amount = $11, advance_amount = $12, total_overridden = $13,
		    special_requests = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		res.ID, res.RoomID, res.GuestName, res.GuestEmail, res.GuestPhone,
		res.IDType, res.IDNumber, res.CheckIn, res.CheckOut, res.Guests,
		res.TotalAmount, res.AdvanceAmount, res.TotalOverridden, res.SpecialRequests,
	).Scan(&res.UpdatedAt)
	if err != nil {
		return wrap(err, "failed to update reservation")
	}
	return nil
}

// UpdateStatus writes a new lifecycle status
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) error {
	query := `UPDATE reservations SET status = $2, updated_at = NOW() WHERE id = $1`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, status)
	if err != nil {
		return wrap(err, "failed to update reservation status")
	}
	return expectRow(result, "reservation")
}

// GetByID returns a reservation or ErrNotFound
func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var res models.Reservation
	query := `SELECT ` + reservationColumns + reservationFrom + ` WHERE r.id = $1`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &res, query, id); err != nil {
		return nil, wrap(err, "failed to get reservation")
	}
	return &res, nil
}

// GetForUpdate locks a reservation row for the transaction in ctx
func (r *ReservationRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var res models.Reservation
	query := `SELECT ` + reservationColumns + reservationFrom + ` WHERE r.id = $1 FOR UPDATE OF r`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &res, query, id); err != nil {
		return nil, wrap(err, "failed to lock reservation")
	}
	return &res, nil
}

// List returns reservations matching filter, newest arrival first
func (r *ReservationRepository) List(ctx context.Context, hotelID *uuid.UUID, filter models.ReservationFilter) ([]models.Reservation, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(args))))
	}

	if hotelID != nil {
		add("r.hotel_id = ?", *hotelID)
	}
	if filter.Status != "" {
		add("r.status = ?", filter.Status)
	}
	if filter.RoomID != "" {
		add("r.room_id = ?", filter.RoomID)
	}
	// date window keeps stays that overlap [from, to)
	if filter.From != "" {
		add("r.check_out > ?", filter.From)
	}
	if filter.To != "" {
		add("r.check_in < ?", filter.To)
	}
	if filter.Search != "" {
		add("(r.guest_name ILIKE ? OR r.guest_phone ILIKE ? OR rm.room_number ILIKE ?)", "%"+filter.Search+"%")
	}

	query := `SELECT ` + reservationColumns + reservationFrom
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY r.check_in DESC, r.created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	reservations := []models.Reservation{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &reservations, query, args...); err != nil {
		return nil, wrap(err, "failed to list reservations")
	}
	return reservations, nil
}

// ListByGuest returns a guest's reservation history
func (r *ReservationRepository) ListByGuest(ctx context.Context, guestID uuid.UUID) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
		WHERE r.guest_id = $1
		ORDER BY r.check_in DESC`

	reservations := []models.Reservation{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &reservations, query, guestID); err != nil {
		return nil, wrap(err, "failed to list guest reservations")
	}
	return reservations, nil
}

// ListArrivals returns confirmed reservations arriving on day
func (r *ReservationRepository) ListArrivals(ctx context.Context, hotelID *uuid.UUID, day time.Time) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
		WHERE r.check_in = $1 AND r.status = 'confirmed'
		  AND ($2::uuid IS NULL OR r.hotel_id = $2)
		ORDER BY rm.room_number`

	reservations := []models.Reservation{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &reservations, query, day, hotelID); err != nil {
		return nil, wrap(err, "failed to list arrivals")
	}
	return reservations, nil
}

// ListDepartures returns in-house reservations leaving on day
func (r *ReservationRepository) ListDepartures(ctx context.Context, hotelID *uuid.UUID, day time.Time) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
		WHERE r.check_out = $1 AND r.status = 'checked-in'
		  AND ($2::uuid IS NULL OR r.hotel_id = $2)
		ORDER BY rm.room_number`

	reservations := []models.Reservation{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &reservations, query, day, hotelID); err != nil {
		return nil, wrap(err, "failed to list departures")
	}
	return reservations, nil
}

// Latest returns the most recently created reservations
func (r *ReservationRepository) Latest(ctx context.Context, hotelID *uuid.UUID, limit int) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
		WHERE ($1::uuid IS NULL OR r.hotel_id = $1)
		ORDER BY r.created_at DESC
		LIMIT $2`

	reservations := []models.Reservation{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &reservations, query, hotelID, limit); err != nil {
		return nil, wrap(err, "failed to list latest reservations")
	}
	return reservations, nil
}
