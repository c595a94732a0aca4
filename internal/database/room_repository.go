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

const roomColumns = `
	id, hotel_id, room_number, room_type, floor, capacity, price, status,
	amenities, description, image, created_at, updated_at`

// RoomRepository handles room database operations
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create inserts a room and fills its generated fields
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.Amenities == nil {
		room.Amenities = models.StringArray{}
	}

	query := `
		INSERT INTO rooms (
			id, hotel_id, room_number, room_type, floor, capacity, price, status,
			amenities, description, image
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		room.ID, room.HotelID, room.RoomNumber, room.RoomType, room.Floor, room.Capacity,
		room.Price, room.Status, room.Amenities, room.Description, room.Image,
	).Scan(&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return wrap(err, "failed to create room")
	}
	return nil
}

// GetByID returns a room or ErrNotFound
func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &room, query, id); err != nil {
		return nil, wrap(err, "failed to get room")
	}
	return &room, nil
}

// GetForUpdate locks the room row for the rest of the transaction in ctx.
// Bookings for the same room serialize on this lock.
func (r *RoomRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 FOR UPDATE`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &room, query, id); err != nil {
		return nil, wrap(err, "failed to lock room")
	}
	return &room, nil
}

// List returns the rooms matching filter ordered by room number
func (r *RoomRepository) List(ctx context.Context, hotelID *uuid.UUID, filter models.RoomFilter) ([]models.Room, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if hotelID != nil {
		add("hotel_id = $%d", *hotelID)
	}
	if filter.RoomType != "" {
		add("room_type = $%d", filter.RoomType)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Floor != nil {
		add("floor = $%d", *filter.Floor)
	}

	query := `SELECT ` + roomColumns + ` FROM rooms`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY room_number"

	rooms := []models.Room{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rooms, query, args...); err != nil {
		return nil, wrap(err, "failed to list rooms")
	}
	return rooms, nil
}

// Update writes every editable column of room
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	query := `
		UPDATE rooms
		SET room_number = $2, room_type = $3, floor = $4, capacity = $5, price = $6,
		    status = $7, amenities = $8, description = $9, image = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		room.ID, room.RoomNumber, room.RoomType, room.Floor, room.Capacity, room.Price,
		room.Status, room.Amenities, room.Description, room.Image,
	).Scan(&room.UpdatedAt)
	if err != nil {
		return wrap(err, "failed to update room")
	}
	return nil
}

// UpdateStatus sets the display status of a room
func (r *RoomRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.RoomStatus) error {
	query := `UPDATE rooms SET status = $2, updated_at = NOW() WHERE id = $1`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, status)
	if err != nil {
		return wrap(err, "failed to update room status")
	}
	return expectRow(result, "room")
}

// Delete removes a room that no reservation references
func (r *RoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return wrap(err, "failed to delete room")
	}
	return expectRow(result, "room")
}

// SyncDisplayStatus derives each room's display status from today's reservations.
// Rooms under maintenance are left alone.
func (r *RoomRepository) SyncDisplayStatus(ctx context.Context, today time.Time) (int64, error) {
	query := `
		UPDATE rooms AS rm
		SET status = s.next_status, updated_at = NOW()
		FROM (
			SELECT r.id,
			       CASE
			           WHEN EXISTS (
			               SELECT 1 FROM reservations x
			               WHERE x.room_id = r.id AND x.status = 'checked-in'
			           ) THEN 'Occupied'
			           WHEN EXISTS (
			               SELECT 1 FROM reservations x
			               WHERE x.room_id = r.id AND x.status = 'confirmed' AND x.check_in = $1
			           ) THEN 'Reserved'
			           ELSE 'Available'
			       END AS next_status
			FROM rooms r
			WHERE r.status <> 'Maintenance'
		) s
		WHERE rm.id = s.id AND rm.status <> s.next_status
	`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, today)
	if err != nil {
		return 0, wrap(err, "failed to sync room status")
	}
	return result.RowsAffected()
}
