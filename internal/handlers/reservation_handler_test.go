package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reservationRowColumns = []string{
	"id", "hotel_id", "room_id", "guest_id", "guest_name", "guest_email", "guest_phone",
	"id_type", "id_number", "check_in", "check_out", "guests", "status",
	"total_amount", "advance_amount", "total_overridden", "walk_in", "special_requests",
	"created_by", "created_at", "updated_at", "room_number",
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func addReservationRow(rows *sqlmock.Rows, id, roomID uuid.UUID, checkIn, checkOut time.Time, status string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id.String(), testHotelID.String(), roomID.String(), nil, "Asha Rao", "", "9876543210",
		"Aadhar", "1234-5678-9012", checkIn, checkOut, 2, status,
		7500.0, 2250.0, false, false, "",
		nil, now, now, "101",
	)
}

func setupReservationRouter(t *testing.T, db *sqlx.DB) *gin.Engine {
	h := NewReservationHandler(newReservationService(t, db), nil, testLogger())

	r := gin.New()
	api := r.Group("/api/v1", withUser("receptionist"))
	api.GET("/reservations", h.ListReservations)
	api.POST("/reservations", h.CreateReservation)
	api.POST("/reservations/quote", h.Quote)
	api.GET("/reservations/today", h.Today)
	api.GET("/reservations/:id", h.GetReservation)
	api.PUT("/reservations/:id", h.UpdateReservation)
	api.POST("/reservations/:id/status", h.ChangeStatus)
	return r
}

func bookingBody(roomID string) map[string]interface{} {
	return map[string]interface{}{
		"room_id":     roomID,
		"guest_name":  "Neha Sharma",
		"guest_phone": "+91 98765 43210",
		"id_type":     "Aadhar",
		"id_number":   "1234-5678-9012",
		"check_in":    "2025-03-12",
		"check_out":   "2025-03-15",
		"guests":      2,
	}
}

func TestReservationHandler_Create_Validation(t *testing.T) {
	db, _ := setupTestDB(t)
	r := setupReservationRouter(t, db)

	t.Run("Missing room", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/v1/reservations", bookingBody(""))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "validation_error", resp.Error)
		assert.Equal(t, "room_id", resp.Field)
	})

	t.Run("Malformed date", func(t *testing.T) {
		body := bookingBody("")
		body["check_in"] = "12/03/2025"
		w := performRequest(r, http.MethodPost, "/api/v1/reservations", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/v1/reservations", `{"room_id":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReservationHandler_Create_Conflict(t *testing.T) {
	db, mock := setupTestDB(t)
	r := setupReservationRouter(t, db)
	roomID := uuid.New()
	blockingID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM rooms WHERE id = \$1`).
		WithArgs(roomID).
		WillReturnRows(sqlmock.NewRows(roomRowColumns).AddRow(
			roomID.String(), testHotelID.String(), "101", "Deluxe", 1, 2, 2500.0, "Available",
			[]byte(`{}`), "", "", now, now,
		))
	rows := sqlmock.NewRows(reservationRowColumns)
	addReservationRow(rows, blockingID, roomID, day(t, "2025-03-14"), day(t, "2025-03-16"), "confirmed")
	mock.ExpectQuery(`FROM reservations r JOIN rooms rm (.+) WHERE r.room_id = \$1 AND r.status IN`).
		WithArgs(roomID).
		WillReturnRows(rows)

	w := performRequest(r, http.MethodPost, "/api/v1/reservations", bookingBody(roomID.String()))
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var resp struct {
		Code    string `json:"code"`
		Details struct {
			ReservationID string `json:"reservation_id"`
			CheckIn       string `json:"check_in"`
			CheckOut      string `json:"check_out"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "BOOKING_CONFLICT", resp.Code)
	assert.Equal(t, blockingID.String(), resp.Details.ReservationID)
	assert.Equal(t, "2025-03-14", resp.Details.CheckIn)
	assert.Equal(t, "2025-03-16", resp.Details.CheckOut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationHandler_ChangeStatus(t *testing.T) {
	db, mock := setupTestDB(t)
	r := setupReservationRouter(t, db)

	t.Run("Unknown status", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/v1/reservations/"+uuid.NewString()+"/status",
			map[string]string{"status": "archived"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Terminal status", func(t *testing.T) {
		id := uuid.New()
		rows := sqlmock.NewRows(reservationRowColumns)
		addReservationRow(rows, id, uuid.New(), day(t, "2025-03-01"), day(t, "2025-03-04"), "checked-out")

		mock.ExpectBegin()
		mock.ExpectQuery(`WHERE r.id = \$1 FOR UPDATE OF r`).
			WithArgs(id).
			WillReturnRows(rows)
		mock.ExpectRollback()

		w := performRequest(r, http.MethodPost, "/api/v1/reservations/"+id.String()+"/status",
			map[string]string{"status": "confirmed"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "INVALID_STATUS_TRANSITION", decodeError(t, w).Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationHandler_GetReservation_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	r := setupReservationRouter(t, db)

	mock.ExpectQuery(`FROM reservations r JOIN rooms rm (.+) WHERE r.id = \$1`).
		WillReturnError(sql.ErrNoRows)

	w := performRequest(r, http.MethodGet, "/api/v1/reservations/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationHandler_Quote_RequiresFields(t *testing.T) {
	db, _ := setupTestDB(t)
	r := setupReservationRouter(t, db)

	w := performRequest(r, http.MethodPost, "/api/v1/reservations/quote",
		map[string]string{"check_in": "2025-03-12", "check_out": "2025-03-15"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReservationHandler_Today(t *testing.T) {
	db, mock := setupTestDB(t)
	r := setupReservationRouter(t, db)

	arrivals := sqlmock.NewRows(reservationRowColumns)
	addReservationRow(arrivals, uuid.New(), uuid.New(), day(t, "2025-03-10"), day(t, "2025-03-12"), "confirmed")
	mock.ExpectQuery(`WHERE r.check_in = \$1 AND r.status = 'confirmed'`).
		WithArgs(day(t, "2025-03-10"), sqlmock.AnyArg()).
		WillReturnRows(arrivals)
	mock.ExpectQuery(`WHERE r.check_out = \$1 AND r.status = 'checked-in'`).
		WithArgs(day(t, "2025-03-10"), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(reservationRowColumns))

	w := performRequest(r, http.MethodGet, "/api/v1/reservations/today", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Date      string            `json:"date"`
		CheckIns  []json.RawMessage `json:"check_ins"`
		CheckOuts []json.RawMessage `json:"check_outs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Len(t, resp.CheckIns, 1)
	assert.Empty(t, resp.CheckOuts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
