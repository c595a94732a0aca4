package database

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

const userColumns = `
	id, hotel_id, email, password_hash, full_name, role, is_active, last_login_at,
	created_at, updated_at`

// UserRepository handles staff login accounts
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. Emails are stored lower-cased.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	query := `
		INSERT INTO users (id, hotel_id, email, password_hash, full_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		u.ID, u.HotelID, u.Email, u.PasswordHash, u.FullName, u.Role, u.IsActive,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return wrap(err, "failed to create user")
	}
	return nil
}

// GetByEmail returns the account for email or ErrNotFound
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &u, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		return nil, wrap(err, "failed to get user by email")
	}
	return &u, nil
}

// GetByID returns an account or ErrNotFound
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &u, query, id); err != nil {
		return nil, wrap(err, "failed to get user")
	}
	return &u, nil
}

// UpdateLastLogin stamps a successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE users SET last_login_at = $2, updated_at = NOW() WHERE id = $1`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, at)
	if err != nil {
		return wrap(err, "failed to update last login")
	}
	return expectRow(result, "user")
}

// Count returns the number of accounts
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, wrap(err, "failed to count users")
	}
	return n, nil
}
