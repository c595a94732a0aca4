package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AuditEntry is one row of audit_logs
type AuditEntry struct {
	ID         uuid.UUID              `db:"id" json:"id"`
	UserID     *uuid.UUID             `db:"user_id" json:"user_id,omitempty"`
	Action     string                 `db:"action" json:"action"`
	EntityType string                 `db:"entity_type" json:"entity_type"`
	EntityID   *uuid.UUID             `db:"entity_id" json:"entity_id,omitempty"`
	IPAddress  string                 `db:"ip_address" json:"ip_address"`
	UserAgent  string                 `db:"user_agent" json:"user_agent"`
	Details    map[string]interface{} `db:"-" json:"details"`
	CreatedAt  time.Time              `db:"created_at" json:"created_at"`
}

// AuditRepository writes and prunes audit_logs
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert writes an entry; details are stored as JSONB
func (r *AuditRepository) Insert(ctx context.Context, e *AuditEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	details, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	query := `
		INSERT INTO audit_logs (id, user_id, action, entity_type, entity_id, ip_address, user_agent, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err = conn(ctx, r.db).QueryRowxContext(ctx, query,
		e.ID, e.UserID, e.Action, e.EntityType, e.EntityID, e.IPAddress, e.UserAgent, string(details),
	).Scan(&e.CreatedAt)
	if err != nil {
		return wrap(err, "failed to log audit event")
	}
	return nil
}

// DeleteBefore removes entries created before cutoff
func (r *AuditRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, wrap(err, "failed to cleanup old audit logs")
	}
	return result.RowsAffected()
}
