package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/clock"
	"github.com/hotelsuite/pms-backend/internal/config"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/middleware"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/hotelsuite/pms-backend/pkg/validator"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validator.RegisterGinBindings(); err != nil {
		panic(err)
	}
}

var (
	testHotelID = uuid.MustParse("6f1c2b8e-3d4a-4e5f-8a9b-0c1d2e3f4a5b")
	testUserID  = uuid.MustParse("0b7e4c1a-9f2d-4a3b-8c5d-6e7f8a9b0c1d")
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "pgx"), mock
}

// withUser stands in for AuthMiddleware
func withUser(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		hotelID := testHotelID
		c.Set(middleware.UserContextKey, middleware.UserContext{
			UserID:  testUserID,
			Email:   "frontdesk@hotel.test",
			Role:    role,
			HotelID: &hotelID,
		})
		c.Next()
	}
}

func fixedClock(t *testing.T) clock.Clock {
	t.Helper()
	now, err := time.Parse(time.RFC3339, "2025-03-10T10:00:00Z")
	require.NoError(t, err)
	return clock.NewFixed(now)
}

// newReservationService wires the reservation service over repositories on db
func newReservationService(t *testing.T, db *sqlx.DB) *services.ReservationService {
	logger := testLogger()
	clk := fixedClock(t)
	cfg := config.BookingConfig{TaxRatePercent: 12, InvoiceDueDays: 7, ConflictRetries: 1}

	rooms := database.NewRoomRepository(db)
	reservations := database.NewReservationRepository(db)
	invoices := services.NewInvoiceService(
		database.NewInvoiceRepository(db), reservations, database.NewServiceRepository(db), nil, clk, cfg, logger,
	)
	return services.NewReservationService(
		rooms, reservations, database.NewGuestRepository(db), invoices, nil, nil, clk, cfg, logger,
	)
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			payload, _ := json.Marshal(b)
			reader = bytes.NewBuffer(payload)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
