package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/clock"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles staff authentication
type AuthService struct {
	users      UserStore
	tokens     TokenStore
	jwtService *jwt.Service
	audit      *AuditService
	throttle   *LoginThrottle
	clock      clock.Clock
	logger     *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	users UserStore,
	tokens TokenStore,
	jwtService *jwt.Service,
	audit *AuditService,
	clk clock.Clock,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwtService: jwtService,
		audit:      audit,
		clock:      clk,
		logger:     logger,
	}
}

// WithThrottle enables failed-login throttling
func (s *AuthService) WithThrottle(t *LoginThrottle) *AuthService {
	s.throttle = t
	return s
}

// HashPassword hashes a password with bcrypt at cost
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func identityOf(u *models.User) jwt.Identity {
	return jwt.Identity{UserID: u.ID, Email: u.Email, Role: u.Role, HotelID: u.HotelID}
}

// Login authenticates a staff account and returns a token pair
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest, ipAddress, userAgent string) (*models.LoginResponse, error) {
	actor := Actor{Email: req.Email, IPAddress: ipAddress, UserAgent: userAgent}

	if err := s.throttle.Check(ctx, req.Email, ipAddress); err != nil {
		s.audit.LogLogin(ctx, actor, false, "rate limited")
		return nil, err
	}

	// Get user by email
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, database.ErrNotFound) {
		s.throttle.RecordFailure(ctx, req.Email, ipAddress)
		s.audit.LogLogin(ctx, actor, false, "unknown email")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	actor.UserID = user.ID

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.throttle.RecordFailure(ctx, req.Email, ipAddress)
		s.audit.LogLogin(ctx, actor, false, "wrong password")
		return nil, ErrInvalidCredentials
	}

	// Check if account is active
	if !user.IsActive {
		s.audit.LogLogin(ctx, actor, false, "account disabled")
		return nil, ErrAccountDisabled
	}

	resp, err := s.issue(ctx, user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	// Update last login; failure does not fail the login
	now := s.clock.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	} else {
		user.LastLoginAt = &now
	}

	s.throttle.Reset(ctx, req.Email)
	s.audit.LogLogin(ctx, actor, true, "")
	return resp, nil
}

// Refresh exchanges a live refresh token for a new pair. The presented token is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, ipAddress, userAgent string) (*models.LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	stored, err := s.tokens.Get(ctx, refreshToken)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if stored.Revoked || now.After(stored.ExpiresAt) || stored.UserID != claims.UserID {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := s.tokens.Revoke(ctx, refreshToken, now); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	resp, err := s.issue(ctx, user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, Actor{UserID: user.ID, Email: user.Email, IPAddress: ipAddress, UserAgent: userAgent},
		AuditEvent{Action: AuditTokenRefresh, EntityType: "token", EntityID: &user.ID})
	return resp, nil
}

// Logout revokes one refresh token, or every token of the user when all is set
func (s *AuthService) Logout(ctx context.Context, actor Actor, refreshToken string, all bool) error {
	now := s.clock.Now()
	if all {
		if err := s.tokens.RevokeAllForUser(ctx, actor.UserID, now); err != nil {
			return err
		}
	} else if refreshToken != "" {
		err := s.tokens.Revoke(ctx, refreshToken, now)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return err
		}
	}
	s.audit.LogLogout(ctx, actor, all)
	return nil
}

// Me returns the account of the authenticated user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// CleanupExpiredTokens deletes refresh tokens past their expiry and stale login attempts
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	deleted, err := s.tokens.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	attempts, err := s.throttle.Cleanup(ctx)
	if err != nil {
		return deleted, fmt.Errorf("failed to cleanup login attempts: %w", err)
	}
	return deleted + attempts, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User, ipAddress, userAgent string) (*models.LoginResponse, error) {
	id := identityOf(user)

	accessToken, err := s.jwtService.GenerateAccessToken(id)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(id)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := s.clock.Now().Add(s.jwtService.RefreshTokenExpiry())
	if err := s.tokens.Store(ctx, user.ID, refreshToken, ipAddress, userAgent, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtService.AccessTokenExpiry().Seconds()),
		User:         user,
	}, nil
}
