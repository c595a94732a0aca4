package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role values carried in access tokens
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleRestaurant = "restaurant"
)

// User is a staff login account
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	HotelID      *uuid.UUID `db:"hotel_id" json:"hotel_id,omitempty"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         string     `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// RefreshToken is a stored (hashed) refresh token
type RefreshToken struct {
	ID         uuid.UUID      `db:"id"`
	UserID     uuid.UUID      `db:"user_id"`
	TokenHash  string         `db:"token_hash"`
	IPAddress  sql.NullString `db:"ip_address"`
	UserAgent  sql.NullString `db:"user_agent"`
	CreatedAt  time.Time      `db:"created_at"`
	ExpiresAt  time.Time      `db:"expires_at"`
	LastUsedAt sql.NullTime   `db:"last_used_at"`
	Revoked    bool           `db:"revoked"`
	RevokedAt  sql.NullTime   `db:"revoked_at"`
}

// LoginRequest is the payload for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RefreshTokenRequest carries a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResponse is returned by login and refresh
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user"`
}
