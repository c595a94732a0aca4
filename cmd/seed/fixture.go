package main

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed fixture.yaml
var defaultFixture []byte

type fixture struct {
	Hotel struct {
		Name    string  `yaml:"name"`
		Address string  `yaml:"address"`
		Phone   string  `yaml:"phone"`
		Email   string  `yaml:"email"`
		Rating  float64 `yaml:"rating"`
	} `yaml:"hotel"`
	Users []struct {
		Email    string `yaml:"email"`
		FullName string `yaml:"full_name"`
		Role     string `yaml:"role"`
	} `yaml:"users"`
	Rooms []struct {
		Number    string   `yaml:"number"`
		Type      string   `yaml:"type"`
		Floor     int      `yaml:"floor"`
		Capacity  int      `yaml:"capacity"`
		Price     float64  `yaml:"price"`
		Amenities []string `yaml:"amenities"`
	} `yaml:"rooms"`
	Staff []struct {
		Name       string  `yaml:"name"`
		Email      string  `yaml:"email"`
		Phone      string  `yaml:"phone"`
		Position   string  `yaml:"position"`
		Department string  `yaml:"department"`
		Salary     float64 `yaml:"salary"`
	} `yaml:"staff"`
	Services []struct {
		Name        string  `yaml:"name"`
		Category    string  `yaml:"category"`
		Price       float64 `yaml:"price"`
		Description string  `yaml:"description"`
	} `yaml:"services"`
}

// parseFixture decodes and checks a seed file. Enum values are validated here so a
// bad fixture fails before anything is written.
func parseFixture(data []byte) (*fixture, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if f.Hotel.Name == "" {
		return nil, fmt.Errorf("fixture: hotel.name is required")
	}
	for _, u := range f.Users {
		switch u.Role {
		case models.RoleAdmin, models.RoleManager, models.RoleRestaurant:
		default:
			return nil, fmt.Errorf("fixture: user %s has unknown role %q", u.Email, u.Role)
		}
	}
	seen := make(map[string]bool, len(f.Rooms))
	for _, r := range f.Rooms {
		if !models.RoomType(r.Type).IsValid() {
			return nil, fmt.Errorf("fixture: room %s has unknown type %q", r.Number, r.Type)
		}
		if seen[r.Number] {
			return nil, fmt.Errorf("fixture: room %s listed twice", r.Number)
		}
		seen[r.Number] = true
	}
	for _, s := range f.Staff {
		if !models.Department(s.Department).IsValid() {
			return nil, fmt.Errorf("fixture: staff %s has unknown department %q", s.Name, s.Department)
		}
	}
	for _, s := range f.Services {
		if !models.ServiceCategory(s.Category).IsValid() {
			return nil, fmt.Errorf("fixture: service %s has unknown category %q", s.Name, s.Category)
		}
	}
	return &f, nil
}

func (f *fixture) hotel() *models.Hotel {
	return &models.Hotel{
		Name:    f.Hotel.Name,
		Address: f.Hotel.Address,
		Phone:   f.Hotel.Phone,
		Email:   f.Hotel.Email,
		Rating:  f.Hotel.Rating,
	}
}

func (f *fixture) rooms(hotelID uuid.UUID) []models.Room {
	out := make([]models.Room, 0, len(f.Rooms))
	for _, r := range f.Rooms {
		out = append(out, models.Room{
			HotelID:    &hotelID,
			RoomNumber: r.Number,
			RoomType:   models.RoomType(r.Type),
			Floor:      r.Floor,
			Capacity:   r.Capacity,
			Price:      r.Price,
			Status:     models.RoomStatusAvailable,
			Amenities:  models.StringArray(r.Amenities),
		})
	}
	return out
}

func (f *fixture) staff(hotelID uuid.UUID, joined time.Time) []models.Staff {
	out := make([]models.Staff, 0, len(f.Staff))
	for _, s := range f.Staff {
		out = append(out, models.Staff{
			HotelID:    &hotelID,
			Name:       s.Name,
			Email:      s.Email,
			Phone:      s.Phone,
			Position:   s.Position,
			Department: models.Department(s.Department),
			Status:     models.StaffStatusActive,
			JoinDate:   joined,
			Salary:     s.Salary,
		})
	}
	return out
}

func (f *fixture) services(hotelID uuid.UUID) []models.HotelService {
	out := make([]models.HotelService, 0, len(f.Services))
	for _, s := range f.Services {
		out = append(out, models.HotelService{
			HotelID:     &hotelID,
			Name:        s.Name,
			Description: s.Description,
			Category:    models.ServiceCategory(s.Category),
			Price:       s.Price,
			Available:   true,
		})
	}
	return out
}
