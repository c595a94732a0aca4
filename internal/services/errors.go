package services

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned when email or password do not match
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDisabled is returned when a deactivated account logs in
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrInvalidToken is returned for unknown, revoked or expired refresh tokens
	ErrInvalidToken = errors.New("invalid or expired refresh token")

	// ErrInvoiceClosed is returned when a paid or cancelled invoice is modified
	ErrInvoiceClosed = errors.New("invoice is closed")

	// ErrInvoiceExists is returned when a reservation already has a live invoice
	ErrInvoiceExists = errors.New("reservation already has an invoice")

	// ErrNotInHouse is returned when a service is ordered for a guest who is not checked in
	ErrNotInHouse = errors.New("reservation is not checked in")

	// ErrServiceUnavailable is returned when an unavailable catalog entry is ordered
	ErrServiceUnavailable = errors.New("service is not available")
)

// Actor is the authenticated staff member performing an operation, plus the
// request metadata recorded in the audit log.
type Actor struct {
	UserID    uuid.UUID
	Email     string
	Role      string
	HotelID   *uuid.UUID
	IPAddress string
	UserAgent string
}

func (a Actor) userID() *uuid.UUID {
	if a.UserID == uuid.Nil {
		return nil
	}
	id := a.UserID
	return &id
}
