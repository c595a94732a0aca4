package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reservationRowColumns = []string{
	"id", "hotel_id", "room_id", "guest_id", "guest_name", "guest_email", "guest_phone",
	"id_type", "id_number", "check_in", "check_out", "guests", "status",
	"total_amount", "advance_amount", "total_overridden", "walk_in", "special_requests",
	"created_by", "created_at", "updated_at", "room_number",
}

func reservationRow(rows *sqlmock.Rows, id, roomID uuid.UUID, checkIn, checkOut time.Time, status string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id.String(), nil, roomID.String(), nil, "Asha Rao", "", "9876543210",
		"Aadhar", "1234", checkIn, checkOut, 2, status,
		7495.0, 2249.0, false, false, "",
		nil, now, now, "101",
	)
}

func TestReservationRepository_FindBlockingByRoom(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)
	roomID := uuid.New()
	checkIn := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(reservationRowColumns)
	reservationRow(rows, uuid.New(), roomID, checkIn, checkIn.AddDate(0, 0, 2), "confirmed")
	mock.ExpectQuery(`FROM reservations r JOIN rooms rm (.+) WHERE r.room_id = \$1 AND r.status IN`).
		WithArgs(roomID).
		WillReturnRows(rows)

	res, err := repo.FindBlockingByRoom(context.Background(), roomID)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, roomID, res[0].RoomID)
	assert.Equal(t, models.ReservationStatusConfirmed, res[0].Status)
	assert.Equal(t, "101", res[0].RoomNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()
	now := time.Now()

	res := &models.Reservation{
		RoomID:   uuid.New(),
		CheckIn:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
		Status:   models.ReservationStatusConfirmed,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO reservations`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		id, err := repo.Insert(ctx, res)
		require.NoError(t, err)
		assert.Equal(t, res.ID, id)
		assert.NotEqual(t, uuid.Nil, id)
	})

	t.Run("Exclusion constraint", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO reservations`).
			WillReturnError(&pgconn.PgError{Code: "23P01", ConstraintName: "reservations_no_overlap"})

		_, err := repo.Insert(ctx, &models.Reservation{RoomID: res.RoomID, CheckIn: res.CheckIn, CheckOut: res.CheckOut})
		assert.ErrorIs(t, err, ErrOverlap)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_WithTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)
	rooms := NewRoomRepository(db)
	ctx := context.Background()
	roomID := uuid.New()

	t.Run("Commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM rooms WHERE id = \$1 FOR UPDATE`).
			WithArgs(roomID).
			WillReturnRows(sqlmock.NewRows(roomRowColumns).AddRow(
				roomID.String(), nil, "101", "Deluxe", 1, 2, 2500.0, "Available", []byte(`{}`), "", "", time.Now(), time.Now(),
			))
		mock.ExpectQuery(`FROM reservations r JOIN rooms rm`).
			WithArgs(roomID).
			WillReturnRows(sqlmock.NewRows(reservationRowColumns))
		mock.ExpectCommit()

		err := repo.WithTx(ctx, func(ctx context.Context) error {
			if _, err := rooms.GetForUpdate(ctx, roomID); err != nil {
				return err
			}
			_, err := repo.FindBlockingByRoom(ctx, roomID)
			return err
		})
		require.NoError(t, err)
	})

	t.Run("Rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := repo.WithTx(ctx, func(ctx context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)

	mock.ExpectQuery(`WHERE r.status = \$1 AND \(r.guest_name ILIKE \$2 OR r.guest_phone ILIKE \$2 OR rm.room_number ILIKE \$2\) ORDER BY (.+) LIMIT \$3`).
		WithArgs("confirmed", "%asha%", 100).
		WillReturnRows(sqlmock.NewRows(reservationRowColumns))

	res, err := repo.List(context.Background(), nil, models.ReservationFilter{Status: "confirmed", Search: "asha"})
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_UpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)

	mock.ExpectExec(`UPDATE reservations SET status`).
		WithArgs(sqlmock.AnyArg(), models.ReservationStatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), uuid.New(), models.ReservationStatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
