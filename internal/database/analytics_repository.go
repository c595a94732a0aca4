package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// AnalyticsRepository runs the dashboard aggregates
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// RoomStatusCounts returns the number of rooms per display status
func (r *AnalyticsRepository) RoomStatusCounts(ctx context.Context, hotelID *uuid.UUID) (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	query := `
		SELECT status, COUNT(*) AS count
		FROM rooms
		WHERE ($1::uuid IS NULL OR hotel_id = $1)
		GROUP BY status
	`
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rows, query, hotelID); err != nil {
		return nil, wrap(err, "failed to count rooms by status")
	}

	counts := map[string]int{
		string(models.RoomStatusAvailable):   0,
		string(models.RoomStatusOccupied):    0,
		string(models.RoomStatusMaintenance): 0,
		string(models.RoomStatusReserved):    0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// ReservationsByDay counts reservations by check-in day in [from, to)
func (r *AnalyticsRepository) ReservationsByDay(ctx context.Context, hotelID *uuid.UUID, from, to time.Time) ([]models.DailyCount, error) {
	query := `
		SELECT to_char(check_in, 'YYYY-MM-DD') AS date, COUNT(*) AS count
		FROM reservations
		WHERE check_in >= $1 AND check_in < $2
		  AND ($3::uuid IS NULL OR hotel_id = $3)
		GROUP BY check_in
		ORDER BY check_in
	`
	out := []models.DailyCount{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &out, query, from, to, hotelID); err != nil {
		return nil, wrap(err, "failed to count reservations by day")
	}
	return out, nil
}

// RevenueByDay sums non-cancelled invoice amounts by issue day in [from, to)
func (r *AnalyticsRepository) RevenueByDay(ctx context.Context, hotelID *uuid.UUID, from, to time.Time) ([]models.DailyAmount, error) {
	query := `
		SELECT to_char(issue_date, 'YYYY-MM-DD') AS date, COALESCE(SUM(amount), 0) AS amount
		FROM invoices
		WHERE issue_date >= $1 AND issue_date < $2 AND status <> 'cancelled'
		  AND ($3::uuid IS NULL OR hotel_id = $3)
		GROUP BY issue_date
		ORDER BY issue_date
	`
	out := []models.DailyAmount{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &out, query, from, to, hotelID); err != nil {
		return nil, wrap(err, "failed to sum revenue by day")
	}
	return out, nil
}

// ActiveGuests counts guests currently in house
func (r *AnalyticsRepository) ActiveGuests(ctx context.Context, hotelID *uuid.UUID) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM guests WHERE is_active AND ($1::uuid IS NULL OR hotel_id = $1)`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &n, query, hotelID); err != nil {
		return 0, wrap(err, "failed to count active guests")
	}
	return n, nil
}
