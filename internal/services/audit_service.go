package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/clock"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// Audit actions
const (
	AuditLogin              = "login"
	AuditLoginFailed        = "login_failed"
	AuditLogout             = "logout"
	AuditTokenRefresh       = "token_refresh"
	AuditReservationCreate  = "reservation_create"
	AuditReservationUpdate  = "reservation_update"
	AuditReservationStatus  = "reservation_status_change"
	AuditInvoiceGenerate    = "invoice_generate"
	AuditInvoicePayment     = "invoice_payment"
	AuditInvoiceCancel      = "invoice_cancel"
	AuditRoomDelete         = "room_delete"
	AuditStaffDelete        = "staff_delete"
	AuditManualJobTriggered = "cron_manual_run"
)

// AuditService handles audit logging for security and booking events
type AuditService struct {
	store   AuditStore
	enabled bool
	clock   clock.Clock
	logger  *logrus.Logger
}

// NewAuditService creates a new audit service. When disabled every call is a no-op.
func NewAuditService(store AuditStore, enabled bool, clk clock.Clock, logger *logrus.Logger) *AuditService {
	return &AuditService{store: store, enabled: enabled, clock: clk, logger: logger}
}

// AuditEvent represents an event to be logged
type AuditEvent struct {
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	Details    map[string]interface{}
}

// Record writes an event for actor. Failures are logged and swallowed so that
// auditing never fails the operation being audited.
func (s *AuditService) Record(ctx context.Context, actor Actor, event AuditEvent) {
	if s == nil || !s.enabled {
		return
	}

	details := event.Details
	if details == nil {
		details = make(map[string]interface{})
	}
	if actor.UserAgent != "" {
		details["device_info"] = utils.ParseUserAgent(actor.UserAgent)
	}
	if actor.Email != "" {
		details["actor_email"] = actor.Email
	}

	entry := &database.AuditEntry{
		UserID:     actor.userID(),
		Action:     event.Action,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		Details:    details,
	}
	if err := s.store.Insert(ctx, entry); err != nil {
		s.logger.WithError(err).WithField("action", event.Action).Warn("Failed to write audit log")
	}
}

// LogLogin logs a login attempt
func (s *AuditService) LogLogin(ctx context.Context, actor Actor, success bool, reason string) {
	action := AuditLogin
	details := map[string]interface{}{"email": actor.Email}
	if !success {
		action = AuditLoginFailed
		details["reason"] = reason
	}
	s.Record(ctx, actor, AuditEvent{
		Action:     action,
		EntityType: "user",
		EntityID:   actor.userID(),
		Details:    details,
	})
}

// LogLogout logs a logout event
func (s *AuditService) LogLogout(ctx context.Context, actor Actor, logoutAll bool) {
	s.Record(ctx, actor, AuditEvent{
		Action:     AuditLogout,
		EntityType: "user",
		EntityID:   actor.userID(),
		Details:    map[string]interface{}{"logout_all": logoutAll},
	})
}

// CleanupOldAuditLogs removes audit logs older than the specified duration
func (s *AuditService) CleanupOldAuditLogs(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.clock.Now().Add(-olderThan)
	deleted, err := s.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old audit logs: %w", err)
	}
	return deleted, nil
}
