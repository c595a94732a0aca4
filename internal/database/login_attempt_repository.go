package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// LoginAttemptRepository records failed logins for throttling
type LoginAttemptRepository struct {
	db *sqlx.DB
}

// NewLoginAttemptRepository creates a new login attempt repository
func NewLoginAttemptRepository(db *sqlx.DB) *LoginAttemptRepository {
	return &LoginAttemptRepository{db: db}
}

// Count returns the attempts for identifier since the given time and the newest one
func (r *LoginAttemptRepository) Count(ctx context.Context, identifier, kind string, since time.Time) (int, time.Time, error) {
	query := `
		SELECT COUNT(*), COALESCE(MAX(created_at), NOW())
		FROM login_attempts
		WHERE identifier = $1
		  AND identifier_type = $2
		  AND created_at > $3
	`

	var count int
	var last time.Time
	err := conn(ctx, r.db).QueryRowxContext(ctx, query, identifier, kind, since).Scan(&count, &last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, time.Time{}, wrap(err, "failed to count login attempts")
	}
	return count, last, nil
}

// Record inserts one failed attempt
func (r *LoginAttemptRepository) Record(ctx context.Context, identifier, kind string, at time.Time) error {
	query := `INSERT INTO login_attempts (identifier, identifier_type, created_at) VALUES ($1, $2, $3)`
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, identifier, kind, at); err != nil {
		return wrap(err, "failed to record login attempt")
	}
	return nil
}

// Clear forgets the attempts for identifier, used after a successful login
func (r *LoginAttemptRepository) Clear(ctx context.Context, identifier, kind string) error {
	query := `DELETE FROM login_attempts WHERE identifier = $1 AND identifier_type = $2`
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, identifier, kind); err != nil {
		return wrap(err, "failed to clear login attempts")
	}
	return nil
}

// DeleteBefore removes attempts older than cutoff
func (r *LoginAttemptRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM login_attempts WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, wrap(err, "failed to cleanup login attempts")
	}
	return result.RowsAffected()
}
