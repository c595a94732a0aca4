package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/models"
)

// The store interfaces below are satisfied by the repositories in
// internal/database and by in-memory fakes in tests.

// TxRunner runs fn inside a transaction carried by ctx
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RoomStore persists rooms
type RoomStore interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Room, error)
	List(ctx context.Context, hotelID *uuid.UUID, filter models.RoomFilter) ([]models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.RoomStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	SyncDisplayStatus(ctx context.Context, today time.Time) (int64, error)
}

// ReservationStore persists reservations
type ReservationStore interface {
	TxRunner
	FindByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Reservation, error)
	FindBlockingByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Reservation, error)
	ListBlockingBetween(ctx context.Context, hotelID *uuid.UUID, from, to time.Time) ([]models.Reservation, error)
	Insert(ctx context.Context, res *models.Reservation) (uuid.UUID, error)
	Update(ctx context.Context, res *models.Reservation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	List(ctx context.Context, hotelID *uuid.UUID, filter models.ReservationFilter) ([]models.Reservation, error)
	ListByGuest(ctx context.Context, guestID uuid.UUID) ([]models.Reservation, error)
	ListArrivals(ctx context.Context, hotelID *uuid.UUID, day time.Time) ([]models.Reservation, error)
	ListDepartures(ctx context.Context, hotelID *uuid.UUID, day time.Time) ([]models.Reservation, error)
	Latest(ctx context.Context, hotelID *uuid.UUID, limit int) ([]models.Reservation, error)
}

// GuestStore persists guests
type GuestStore interface {
	FindByIdentity(ctx context.Context, hotelID *uuid.UUID, id models.GuestIdentity) (*models.Guest, error)
	Create(ctx context.Context, g *models.Guest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Guest, error)
	List(ctx context.Context, hotelID *uuid.UUID, filter models.GuestFilter) ([]models.Guest, error)
	Update(ctx context.Context, g *models.Guest) error
	RecordVisit(ctx context.Context, id uuid.UUID, at time.Time) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	AddSpend(ctx context.Context, id uuid.UUID, amount float64) error
}

// InvoiceStore persists invoices and their items
type InvoiceStore interface {
	TxRunner
	Create(ctx context.Context, inv *models.Invoice) error
	AddItem(ctx context.Context, invoiceID uuid.UUID, item *models.InvoiceItem) (float64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	GetByReservation(ctx context.Context, reservationID uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, hotelID *uuid.UUID, filter models.InvoiceFilter) ([]models.Invoice, error)
	MarkPaid(ctx context.Context, id uuid.UUID, method models.PaymentMethod, paidAt time.Time) error
	Cancel(ctx context.Context, id uuid.UUID) error
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}

// ServiceStore persists the service catalog and orders
type ServiceStore interface {
	CreateService(ctx context.Context, s *models.HotelService) error
	GetService(ctx context.Context, id uuid.UUID) (*models.HotelService, error)
	ListServices(ctx context.Context, hotelID *uuid.UUID, category string, availableOnly bool) ([]models.HotelService, error)
	UpdateService(ctx context.Context, s *models.HotelService) error
	DeleteService(ctx context.Context, id uuid.UUID) error
	CreateOrder(ctx context.Context, o *models.ServiceOrder) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.ServiceOrder, error)
	ListOrders(ctx context.Context, reservationID *uuid.UUID, status string) ([]models.ServiceOrder, error)
	ListCompletedByReservation(ctx context.Context, reservationID uuid.UUID) ([]models.ServiceOrder, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.ServiceOrderStatus, at time.Time) error
}

// StaffStore persists staff records
type StaffStore interface {
	Create(ctx context.Context, s *models.Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Staff, error)
	List(ctx context.Context, hotelID *uuid.UUID, filter models.StaffFilter) ([]models.Staff, error)
	Update(ctx context.Context, s *models.Staff) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserStore persists login accounts
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// LoginAttemptStore counts failed logins per email or IP
type LoginAttemptStore interface {
	Count(ctx context.Context, identifier, kind string, since time.Time) (int, time.Time, error)
	Record(ctx context.Context, identifier, kind string, at time.Time) error
	Clear(ctx context.Context, identifier, kind string) error
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// TokenStore persists hashed refresh tokens
type TokenStore interface {
	Store(ctx context.Context, userID uuid.UUID, token, ipAddress, userAgent string, expiresAt time.Time) error
	Get(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string, at time.Time) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, at time.Time) error
	Touch(ctx context.Context, token string, at time.Time) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditStore persists audit entries
type AuditStore interface {
	Insert(ctx context.Context, e *database.AuditEntry) error
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AnalyticsStore runs dashboard aggregates
type AnalyticsStore interface {
	RoomStatusCounts(ctx context.Context, hotelID *uuid.UUID) (map[string]int, error)
	ReservationsByDay(ctx context.Context, hotelID *uuid.UUID, from, to time.Time) ([]models.DailyCount, error)
	RevenueByDay(ctx context.Context, hotelID *uuid.UUID, from, to time.Time) ([]models.DailyAmount, error)
	ActiveGuests(ctx context.Context, hotelID *uuid.UUID) (int, error)
}

// HotelStore persists the hotel profile
type HotelStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hotel, error)
	Update(ctx context.Context, h *models.Hotel) error
}
