package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hotelsuite/pms-backend/internal/clock"
	"github.com/hotelsuite/pms-backend/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	attemptByEmail = "email"
	attemptByIP    = "ip"
)

// RateLimitConfig holds login throttling limits
type RateLimitConfig struct {
	MaxEmailAttempts int           // failed logins per email
	EmailWindow      time.Duration // window for the email limit
	MaxIPAttempts    int           // failed logins per client IP
	IPWindow         time.Duration // window for the IP limit
}

// DefaultRateLimitConfig returns the default login throttling limits
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxEmailAttempts: 5,
		EmailWindow:      15 * time.Minute,
		MaxIPAttempts:    20,
		IPWindow:         time.Hour,
	}
}

// RateLimitConfigFrom reads limits from the security settings, falling back to
// the defaults for unset values
func RateLimitConfigFrom(cfg config.SecurityConfig) RateLimitConfig {
	out := DefaultRateLimitConfig()
	if cfg.LoginMaxAttempts > 0 {
		out.MaxEmailAttempts = cfg.LoginMaxAttempts
	}
	if cfg.LoginWindow > 0 {
		out.EmailWindow = cfg.LoginWindow
	}
	if cfg.LoginMaxIPAttempts > 0 {
		out.MaxIPAttempts = cfg.LoginMaxIPAttempts
	}
	if cfg.LoginIPWindow > 0 {
		out.IPWindow = cfg.LoginIPWindow
	}
	return out
}

// RateLimitError is returned when an email or IP has too many failed logins
type RateLimitError struct {
	Message    string
	RetryAfter time.Time
	Type       string // "email" or "ip"
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// LoginThrottle limits repeated failed logins. A nil throttle allows everything.
type LoginThrottle struct {
	attempts LoginAttemptStore
	cfg      RateLimitConfig
	clock    clock.Clock
	logger   *logrus.Logger
}

// NewLoginThrottle creates a login throttle over attempts
func NewLoginThrottle(attempts LoginAttemptStore, cfg RateLimitConfig, clk clock.Clock, logger *logrus.Logger) *LoginThrottle {
	return &LoginThrottle{attempts: attempts, cfg: cfg, clock: clk, logger: logger}
}

// Check returns a *RateLimitError when email or ip is over its limit
func (t *LoginThrottle) Check(ctx context.Context, email, ip string) error {
	if t == nil {
		return nil
	}
	email = normalizeEmail(email)

	if email != "" {
		if err := t.check(ctx, email, attemptByEmail, t.cfg.MaxEmailAttempts, t.cfg.EmailWindow,
			"Too many failed logins for this account"); err != nil {
			return err
		}
	}
	if ip != "" {
		if err := t.check(ctx, ip, attemptByIP, t.cfg.MaxIPAttempts, t.cfg.IPWindow,
			"Too many failed logins from this IP address"); err != nil {
			return err
		}
	}
	return nil
}

func (t *LoginThrottle) check(ctx context.Context, identifier, kind string, max int, window time.Duration, msg string) error {
	count, last, err := t.attempts.Count(ctx, identifier, kind, t.clock.Now().Add(-window))
	if err != nil {
		return fmt.Errorf("failed to check %s rate limit: %w", kind, err)
	}
	if count < max {
		return nil
	}
	retryAfter := last.Add(window)
	return &RateLimitError{
		Message:    fmt.Sprintf("%s. Please try again after %s", msg, retryAfter.Format("15:04:05")),
		RetryAfter: retryAfter,
		Type:       kind,
	}
}

// RecordFailure counts a failed login against email and ip. Errors are logged only.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email, ip string) {
	if t == nil {
		return
	}
	now := t.clock.Now()
	if email = normalizeEmail(email); email != "" {
		if err := t.attempts.Record(ctx, email, attemptByEmail, now); err != nil {
			t.logger.WithError(err).Warn("Failed to record login attempt")
		}
	}
	if ip != "" {
		if err := t.attempts.Record(ctx, ip, attemptByIP, now); err != nil {
			t.logger.WithError(err).Warn("Failed to record login attempt")
		}
	}
}

// Reset clears the email counter after a successful login. The IP counter is kept.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if t == nil {
		return
	}
	if err := t.attempts.Clear(ctx, normalizeEmail(email), attemptByEmail); err != nil {
		t.logger.WithError(err).Warn("Failed to clear login attempts")
	}
}

// Cleanup removes attempts older than the longest window
func (t *LoginThrottle) Cleanup(ctx context.Context) (int64, error) {
	if t == nil {
		return 0, nil
	}
	window := t.cfg.IPWindow
	if t.cfg.EmailWindow > window {
		window = t.cfg.EmailWindow
	}
	return t.attempts.DeleteBefore(ctx, t.clock.Now().Add(-window))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
