package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/pkg/validator"
)

// HotelProfileService reads and edits the hotel's own profile
type HotelProfileService struct {
	hotels HotelStore
	phone  *validator.PhoneValidator
}

// NewHotelProfileService creates a new hotel profile service
func NewHotelProfileService(hotels HotelStore) *HotelProfileService {
	return &HotelProfileService{hotels: hotels, phone: validator.NewPhoneValidator()}
}

// Get returns the hotel of the actor
func (s *HotelProfileService) Get(ctx context.Context, hotelID uuid.UUID) (*models.Hotel, error) {
	return s.hotels.GetByID(ctx, hotelID)
}

// Update applies the non-nil fields of req
func (s *HotelProfileService) Update(ctx context.Context, hotelID uuid.UUID, req *models.UpdateHotelRequest) (*models.Hotel, error) {
	hotel, err := s.hotels.GetByID(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		hotel.Name = *req.Name
	}
	if req.Address != nil {
		hotel.Address = *req.Address
	}
	if req.Phone != nil {
		formatted, err := s.phone.Format(*req.Phone)
		if err != nil {
			return nil, invalid("phone", "Invalid phone number: "+err.Error())
		}
		hotel.Phone = formatted
	}
	if req.Email != nil {
		hotel.Email = *req.Email
	}
	if req.Rating != nil {
		hotel.Rating = *req.Rating
	}
	if err := s.hotels.Update(ctx, hotel); err != nil {
		return nil, err
	}
	return hotel, nil
}
