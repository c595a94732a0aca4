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
	"github.com/hotelsuite/pms-backend/internal/clock"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/hotelsuite/pms-backend/pkg/jwt"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userRowColumns = []string{
	"id", "hotel_id", "email", "password_hash", "full_name", "role", "is_active",
	"last_login_at", "created_at", "updated_at",
}

var tokenRowColumns = []string{
	"id", "user_id", "token_hash", "ip_address", "user_agent", "created_at", "expires_at",
	"last_used_at", "revoked", "revoked_at",
}

const testPassword = "front-desk-2025"

func setupAuthRouter(t *testing.T, db *sqlx.DB) (*gin.Engine, *jwt.Service) {
	jwtService := jwt.NewService("test-secret", "test-refresh-secret", time.Hour, 7*24*time.Hour)
	auth := services.NewAuthService(
		database.NewUserRepository(db),
		database.NewRefreshTokenRepository(db),
		jwtService,
		nil,
		clock.NewFixed(time.Now()),
		testLogger(),
	)
	h := NewAuthHandler(auth, testLogger())

	r := gin.New()
	r.POST("/api/v1/auth/login", h.Login)
	r.POST("/api/v1/auth/refresh", h.RefreshToken)
	protected := r.Group("/api/v1/auth", withUser("manager"))
	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.GetMe)
	return r, jwtService
}

func userRow(t *testing.T, id uuid.UUID, active bool) *sqlmock.Rows {
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	return sqlmock.NewRows(userRowColumns).AddRow(
		id.String(), testHotelID.String(), "frontdesk@hotel.test", string(hash), "Front Desk", "manager", active,
		nil, now, now,
	)
}

func TestAuthHandler_Login(t *testing.T) {
	db, mock := setupTestDB(t)
	r, jwtService := setupAuthRouter(t, db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WithArgs("frontdesk@hotel.test").
			WillReturnRows(userRow(t, testUserID, true))
		mock.ExpectExec(`INSERT INTO refresh_tokens`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`UPDATE users SET last_login_at`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		w := performRequest(r, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{
			Email: "FrontDesk@Hotel.test", Password: testPassword,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, int64(3600), resp.ExpiresIn)

		claims, err := jwtService.ValidateAccessToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, testUserID, claims.UserID)
		require.NotNil(t, claims.HotelID)
		assert.Equal(t, testHotelID, *claims.HotelID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown email", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WillReturnError(sql.ErrNoRows)

		w := performRequest(r, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{
			Email: "nobody@hotel.test", Password: testPassword,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, w).Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Wrong password", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WillReturnRows(userRow(t, testUserID, true))

		w := performRequest(r, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{
			Email: "frontdesk@hotel.test", Password: "not-the-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Disabled account", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
			WillReturnRows(userRow(t, testUserID, false))

		w := performRequest(r, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{
			Email: "frontdesk@hotel.test", Password: testPassword,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "ACCOUNT_DISABLED", decodeError(t, w).Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid body", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_error", decodeError(t, w).Error)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	db, mock := setupTestDB(t)
	r, jwtService := setupAuthRouter(t, db)

	t.Run("Malformed token", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/v1/auth/refresh", models.RefreshTokenRequest{RefreshToken: "garbage"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_REFRESH_TOKEN", decodeError(t, w).Code)
	})

	t.Run("Revoked token", func(t *testing.T) {
		token, err := jwtService.GenerateRefreshToken(jwt.Identity{UserID: testUserID, Email: "frontdesk@hotel.test", Role: "manager"})
		require.NoError(t, err)

		now := time.Now()
		mock.ExpectQuery(`FROM refresh_tokens\s+WHERE token_hash = \$1`).
			WithArgs(database.HashToken(token)).
			WillReturnRows(sqlmock.NewRows(tokenRowColumns).AddRow(
				uuid.NewString(), testUserID.String(), database.HashToken(token), nil, nil,
				now.Add(-time.Hour), now.Add(24*time.Hour), nil, true, now,
			))

		w := performRequest(r, http.MethodPost, "/api/v1/auth/refresh", models.RefreshTokenRequest{RefreshToken: token})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Access token is not a refresh token", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(jwt.Identity{UserID: testUserID, Role: "manager"})
		require.NoError(t, err)

		w := performRequest(r, http.MethodPost, "/api/v1/auth/refresh", models.RefreshTokenRequest{RefreshToken: token})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	db, mock := setupTestDB(t)
	r, _ := setupAuthRouter(t, db)

	t.Run("Requires a token unless logging out everywhere", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/api/v1/auth/logout", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "refresh_token", decodeError(t, w).Field)
	})

	t.Run("Logout all", func(t *testing.T) {
		mock.ExpectExec(`UPDATE refresh_tokens`).
			WithArgs(sqlmock.AnyArg(), testUserID).
			WillReturnResult(sqlmock.NewResult(0, 3))

		w := performRequest(r, http.MethodPost, "/api/v1/auth/logout", LogoutRequest{LogoutAll: true})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown token still logs out", func(t *testing.T) {
		mock.ExpectExec(`UPDATE refresh_tokens`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		w := performRequest(r, http.MethodPost, "/api/v1/auth/logout", LogoutRequest{RefreshToken: "stale"})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuthHandler_GetMe(t *testing.T) {
	db, mock := setupTestDB(t)
	r, _ := setupAuthRouter(t, db)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs(testUserID).
		WillReturnRows(userRow(t, testUserID, true))

	w := performRequest(r, http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "frontdesk@hotel.test", resp["email"])
	assert.NotContains(t, resp, "password_hash")
	assert.NoError(t, mock.ExpectationsWereMet())
}
