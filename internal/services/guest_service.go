package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/pkg/validator"
)

// GuestService manages guest profiles
type GuestService struct {
	guests       GuestStore
	reservations ReservationStore
	phone        *validator.PhoneValidator
}

// NewGuestService creates a new guest service
func NewGuestService(guests GuestStore, reservations ReservationStore) *GuestService {
	return &GuestService{guests: guests, reservations: reservations, phone: validator.NewPhoneValidator()}
}

// List returns guests, in-house guests first
func (s *GuestService) List(ctx context.Context, actor Actor, filter models.GuestFilter) ([]models.Guest, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.guests.List(ctx, actor.HotelID, filter)
}

// Get returns one guest
func (s *GuestService) Get(ctx context.Context, id uuid.UUID) (*models.Guest, error) {
	return s.guests.GetByID(ctx, id)
}

// Update changes contact details. Indian mobile numbers are stored in 10 digit form,
// other numbers as entered.
func (s *GuestService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateGuestRequest) (*models.Guest, error) {
	if req.Phone != nil {
		normalized, err := s.phone.Normalize(*req.Phone)
		if err != nil {
			return nil, invalid("phone", "Invalid phone number: "+err.Error())
		}
		req.Phone = &normalized
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, invalid("name", "Guest name is required")
	}

	guest, err := s.guests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.ApplyTo(guest)
	if err := s.guests.Update(ctx, guest); err != nil {
		return nil, err
	}
	return guest, nil
}

// Reservations returns the stay history of a guest, newest first
func (s *GuestService) Reservations(ctx context.Context, id uuid.UUID) ([]models.Reservation, error) {
	if _, err := s.guests.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.reservations.ListByGuest(ctx, id)
}
