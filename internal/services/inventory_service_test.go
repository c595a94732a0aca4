package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/booking"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStaff struct {
	members map[uuid.UUID]*models.Staff
}

func (f *fakeStaff) Create(_ context.Context, s *models.Staff) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	copied := *s
	f.members[s.ID] = &copied
	return nil
}

func (f *fakeStaff) GetByID(_ context.Context, id uuid.UUID) (*models.Staff, error) {
	s, ok := f.members[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStaff) List(context.Context, *uuid.UUID, models.StaffFilter) ([]models.Staff, error) {
	out := []models.Staff{}
	for _, s := range f.members {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStaff) Update(_ context.Context, s *models.Staff) error {
	copied := *s
	f.members[s.ID] = &copied
	return nil
}

func (f *fakeStaff) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.members[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.members, id)
	return nil
}

func TestRoomService(t *testing.T) {
	ctx := context.Background()
	rooms := newFakeRooms()
	audit := &fakeAudit{}
	svc := NewRoomService(rooms, NewAuditService(audit, true, fixedAt(t, "2025-03-10"), quietLogger()), quietLogger())

	rate := 6500.0
	req := &models.CreateRoomRequest{RoomNumber: "201", RoomType: "Suite", Capacity: 3, Price: &rate}
	room, err := svc.Create(ctx, testActor, req)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, room.Status)

	_, err = svc.Create(ctx, testActor, req)
	var verr *booking.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "room_number", verr.Field)

	price := 7000.0
	status := "Maintenance"
	updated, err := svc.Update(ctx, room.ID, &models.UpdateRoomRequest{Price: &price, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, 7000.0, updated.Price)
	assert.Equal(t, models.RoomStatusMaintenance, updated.Status)
	assert.Equal(t, "201", updated.RoomNumber)

	require.NoError(t, svc.Delete(ctx, testActor, room.ID))
	assert.Equal(t, []string{AuditRoomDelete}, audit.actions())
	assert.ErrorIs(t, svc.Delete(ctx, testActor, room.ID), database.ErrNotFound)
}

func TestGuestService(t *testing.T) {
	ctx := context.Background()
	guests := &fakeGuests{}
	reservations := &fakeReservations{}
	svc := NewGuestService(guests, reservations)

	guest := &models.Guest{Name: "Ravi Kumar", Phone: "9812345670"}
	require.NoError(t, guests.Create(ctx, guest))
	reservations.add(models.Reservation{GuestID: &guest.ID, Status: models.ReservationStatusCheckedOut})

	phone := "+91 70123 45678"
	updated, err := svc.Update(ctx, guest.ID, &models.UpdateGuestRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "7012345678", updated.Phone)

	foreign := "+44 20 7946 0958"
	updated, err = svc.Update(ctx, guest.ID, &models.UpdateGuestRequest{Phone: &foreign})
	require.NoError(t, err)
	assert.Equal(t, "+44 20 7946 0958", updated.Phone)

	bad := "+44 20 7946 0958 ext 1234"
	_, err = svc.Update(ctx, guest.ID, &models.UpdateGuestRequest{Phone: &bad})
	var verr *booking.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phone", verr.Field)

	blank := " "
	_, err = svc.Update(ctx, guest.ID, &models.UpdateGuestRequest{Name: &blank})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	history, err := svc.Reservations(ctx, guest.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = svc.Reservations(ctx, uuid.New())
	assert.ErrorIs(t, err, database.ErrNotFound)

	list, err := svc.List(ctx, testActor, models.GuestFilter{Search: "  ravi "})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStaffService(t *testing.T) {
	ctx := context.Background()
	store := &fakeStaff{members: map[uuid.UUID]*models.Staff{}}
	svc := NewStaffService(store, nil)

	manager, err := svc.Create(ctx, testActor, &models.CreateStaffRequest{
		Name: "Meera Iyer", Email: "meera@hotel.test", Phone: "98450 12345",
		Position: "Front Office Manager", Department: "management", JoinDate: "2022-06-01", Salary: 85000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StaffStatusActive, manager.Status)
	assert.Equal(t, "9845012345", manager.Phone)

	clerk, err := svc.Create(ctx, testActor, &models.CreateStaffRequest{
		Name: "Arjun Das", Email: "arjun@hotel.test", Phone: "9845054321",
		Position: "Receptionist", Department: "reception", JoinDate: "2024-01-15",
		ReportTo: manager.ID.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, clerk.ReportTo)
	assert.Equal(t, manager.ID, *clerk.ReportTo)

	self := clerk.ID.String()
	_, err = svc.Update(ctx, clerk.ID, &models.UpdateStaffRequest{ReportTo: &self})
	var verr *booking.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "report_to", verr.Field)

	_, err = svc.Create(ctx, testActor, &models.CreateStaffRequest{
		Name: "Ghost", Email: "g@hotel.test", Phone: "9845054321",
		Position: "Porter", Department: "housekeeping", JoinDate: "2024-01-15",
		ReportTo: uuid.NewString(),
	})
	assert.ErrorIs(t, err, database.ErrNotFound)

	leave := "on-leave"
	updated, err := svc.Update(ctx, clerk.ID, &models.UpdateStaffRequest{Status: &leave})
	require.NoError(t, err)
	assert.Equal(t, models.StaffStatus("on-leave"), updated.Status)

	require.NoError(t, svc.Delete(ctx, testActor, clerk.ID))
}
