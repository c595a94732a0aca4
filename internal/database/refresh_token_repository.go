package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// RefreshTokenRepository stores refresh tokens by their SHA-256 hash
type RefreshTokenRepository struct {
	db *sqlx.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *sqlx.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// HashToken creates a SHA-256 hash of the token for storage
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Store saves a refresh token
func (r *RefreshTokenRepository) Store(ctx context.Context, userID uuid.UUID, token, ipAddress, userAgent string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, ip_address, user_agent, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		uuid.New(), userID, HashToken(token), nullable(ipAddress), nullable(userAgent), expiresAt,
	)
	if err != nil {
		return wrap(err, "failed to store refresh token")
	}
	return nil
}

// Get returns the stored token or ErrNotFound
func (r *RefreshTokenRepository) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, ip_address, user_agent, created_at, expires_at,
		       last_used_at, revoked, revoked_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`
	var rt models.RefreshToken
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &rt, query, HashToken(token)); err != nil {
		return nil, wrap(err, "failed to get refresh token")
	}
	return &rt, nil
}

// Revoke revokes one token. Revoking an unknown or revoked token returns ErrNotFound.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string, at time.Time) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, revoked_at = $1
		WHERE token_hash = $2 AND revoked = FALSE
	`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, at, HashToken(token))
	if err != nil {
		return wrap(err, "failed to revoke refresh token")
	}
	return expectRow(result, "refresh token")
}

// RevokeAllForUser revokes every live token of a user
func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID, at time.Time) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, revoked_at = $1
		WHERE user_id = $2 AND revoked = FALSE
	`
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, at, userID); err != nil {
		return wrap(err, "failed to revoke user tokens")
	}
	return nil
}

// Touch updates last_used_at
func (r *RefreshTokenRepository) Touch(ctx context.Context, token string, at time.Time) error {
	query := `UPDATE refresh_tokens SET last_used_at = $1 WHERE token_hash = $2`
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, at, HashToken(token)); err != nil {
		return wrap(err, "failed to update refresh token")
	}
	return nil
}

// DeleteExpired removes tokens that expired before cutoff
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, wrap(err, "failed to delete expired tokens")
	}
	return result.RowsAffected()
}
