package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFixture_Default(t *testing.T) {
	fx, err := parseFixture(defaultFixture)
	require.NoError(t, err)

	assert.Equal(t, "Harbour View Hotel", fx.Hotel.Name)
	assert.Len(t, fx.Users, 3)
	assert.NotEmpty(t, fx.Services)

	hotelID := uuid.New()
	rooms := fx.rooms(hotelID)
	require.Len(t, rooms, len(fx.Rooms))
	for _, r := range rooms {
		assert.Equal(t, hotelID, *r.HotelID)
		assert.Equal(t, models.RoomStatusAvailable, r.Status)
		assert.True(t, r.RoomType.IsValid())
	}
}

func TestParseFixture_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing hotel", "rooms: []", "hotel.name"},
		{"bad role", "hotel: {name: X}\nusers: [{email: a@b.c, role: owner}]", "unknown role"},
		{"bad room type", "hotel: {name: X}\nrooms: [{number: '1', type: Penthouse}]", "unknown type"},
		{"duplicate room", "hotel: {name: X}\nrooms: [{number: '1', type: Suite}, {number: '1', type: Deluxe}]", "listed twice"},
		{"bad department", "hotel: {name: X}\nstaff: [{name: A, department: kitchen}]", "unknown department"},
		{"bad category", "hotel: {name: X}\nservices: [{name: Spa, category: wellness}]", "unknown category"},
		{"not yaml", "hotel: [", "parse fixture"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFixture([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
