package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// RoomService manages the room inventory
type RoomService struct {
	rooms  RoomStore
	audit  *AuditService
	logger *logrus.Logger
}

// NewRoomService creates a new room service
func NewRoomService(rooms RoomStore, audit *AuditService, logger *logrus.Logger) *RoomService {
	return &RoomService{rooms: rooms, audit: audit, logger: logger}
}

// Create adds a room. Room numbers are unique per hotel.
func (s *RoomService) Create(ctx context.Context, actor Actor, req *models.CreateRoomRequest) (*models.Room, error) {
	room := req.ToRoom(actor.HotelID)
	if err := s.rooms.Create(ctx, room); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, invalid("room_number", "Room "+room.RoomNumber+" already exists")
		}
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"room_id": room.ID, "room_number": room.RoomNumber}).Info("Room created")
	return room, nil
}

// Get returns one room
func (s *RoomService) Get(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

// List returns rooms matching filter
func (s *RoomService) List(ctx context.Context, actor Actor, filter models.RoomFilter) ([]models.Room, error) {
	return s.rooms.List(ctx, actor.HotelID, filter)
}

// Update applies a partial update; absent fields keep their stored values
func (s *RoomService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateRoomRequest) (*models.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.ApplyTo(room)
	if err := s.rooms.Update(ctx, room); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, invalid("room_number", "Room "+room.RoomNumber+" already exists")
		}
		return nil, err
	}
	return room, nil
}

// Delete removes a room that no reservation references. Rooms with history
// return database.ErrInUse.
func (s *RoomService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, AuditEvent{Action: AuditRoomDelete, EntityType: "room", EntityID: &id})
	return nil
}
