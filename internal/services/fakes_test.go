package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/booking"
	"github.com/hotelsuite/pms-backend/internal/clock"
	"github.com/hotelsuite/pms-backend/internal/config"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := booking.ParseDate(s)
	require.NoError(t, err)
	return d
}

func fixedAt(t *testing.T, day string) clock.Clock {
	t.Helper()
	return clock.NewFixed(mustDay(t, day).Add(10 * time.Hour))
}

// ---------------------------------------------------------------------------
// rooms

type fakeRooms struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*models.Room
	locks []uuid.UUID
}

func newFakeRooms(rooms ...*models.Room) *fakeRooms {
	f := &fakeRooms{rooms: make(map[uuid.UUID]*models.Room)}
	for _, r := range rooms {
		f.rooms[r.ID] = r
	}
	return f
}

func (f *fakeRooms) Create(_ context.Context, room *models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rooms {
		if r.RoomNumber == room.RoomNumber {
			return fmt.Errorf("failed to create room: %w", database.ErrDuplicate)
		}
	}
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	copied := *room
	f.rooms[room.ID] = &copied
	return nil
}

func (f *fakeRooms) GetByID(_ context.Context, id uuid.UUID) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, fmt.Errorf("failed to get room: %w", database.ErrNotFound)
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRooms) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	f.mu.Lock()
	f.locks = append(f.locks, id)
	f.mu.Unlock()
	return f.GetByID(ctx, id)
}

func (f *fakeRooms) List(_ context.Context, _ *uuid.UUID, filter models.RoomFilter) ([]models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Room{}
	for _, r := range f.rooms {
		if filter.RoomType != "" && string(r.RoomType) != filter.RoomType {
			continue
		}
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (f *fakeRooms) Update(_ context.Context, room *models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *room
	f.rooms[room.ID] = &copied
	return nil
}

func (f *fakeRooms) UpdateStatus(_ context.Context, id uuid.UUID, status models.RoomStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return database.ErrNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeRooms) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.rooms, id)
	return nil
}

func (f *fakeRooms) SyncDisplayStatus(context.Context, time.Time) (int64, error) { return 0, nil }

func (f *fakeRooms) status(id uuid.UUID) models.RoomStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rooms[id].Status
}

// ---------------------------------------------------------------------------
// reservations

type fakeReservations struct {
	mu           sync.Mutex
	items        []models.Reservation
	insertErrors []error
	inserts      int
	txCount      int
}

func (f *fakeReservations) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	f.txCount++
	f.mu.Unlock()
	return fn(ctx)
}

func (f *fakeReservations) add(r models.Reservation) models.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.items = append(f.items, r)
	return r
}

func (f *fakeReservations) filter(keep func(r *models.Reservation) bool) []models.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Reservation{}
	for i := range f.items {
		if keep(&f.items[i]) {
			out = append(out, f.items[i])
		}
	}
	return out
}

func (f *fakeReservations) FindByRoom(_ context.Context, roomID uuid.UUID) ([]models.Reservation, error) {
	return f.filter(func(r *models.Reservation) bool { return r.RoomID == roomID }), nil
}

func (f *fakeReservations) FindBlockingByRoom(_ context.Context, roomID uuid.UUID) ([]models.Reservation, error) {
	return f.filter(func(r *models.Reservation) bool { return r.RoomID == roomID && r.Status.Blocks() }), nil
}

func (f *fakeReservations) ListBlockingBetween(_ context.Context, _ *uuid.UUID, from, to time.Time) ([]models.Reservation, error) {
	return f.filter(func(r *models.Reservation) bool {
		return r.Status.Blocks() && r.CheckIn.Before(to) && from.Before(r.CheckOut)
	}), nil
}

func (f *fakeReservations) Insert(_ context.Context, res *models.Reservation) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if len(f.insertErrors) > 0 {
		err := f.insertErrors[0]
		f.insertErrors = f.insertErrors[1:]
		if err != nil {
			return uuid.Nil, err
		}
	}
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	f.items = append(f.items, *res)
	return res.ID, nil
}

func (f *fakeReservations) Update(_ context.Context, res *models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == res.ID {
			f.items[i] = *res
			return nil
		}
	}
	return database.ErrNotFound
}

func (f *fakeReservations) UpdateStatus(_ context.Context, id uuid.UUID, status models.ReservationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Status = status
			return nil
		}
	}
	return database.ErrNotFound
}

func (f *fakeReservations) GetByID(_ context.Context, id uuid.UUID) (*models.Reservation, error) {
	found := f.filter(func(r *models.Reservation) bool { return r.ID == id })
	if len(found) == 0 {
		return nil, fmt.Errorf("failed to get reservation: %w", database.ErrNotFound)
	}
	return &found[0], nil
}

func (f *fakeReservations) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeReservations) List(_ context.Context, _ *uuid.UUID, filter models.ReservationFilter) ([]models.Reservation, error) {
	return f.filter(func(r *models.Reservation) bool {
		return filter.Status == "" || string(r.Status) == filter.Status
	}), nil
}

func (f *fakeReservations) ListByGuest(_ context.Context, guestID uuid.UUID) ([]models.Reservation, error) {
	return f.filter(func(r *models.Reservation) bool { return r.GuestID != nil && *r.GuestID == guestID }), nil
}

func (f *fakeReservations) ListArrivals(_ context.Context, _ *uuid.UUID, day time.Time) ([]models.Reservation, error) {
	return f.filter(func(r *models.Reservation) bool {
		return r.Status == models.ReservationStatusConfirmed && r.CheckIn.Equal(day)
	}), nil
}

func (f *fakeReservations) ListDepartures(_ context.Context, _ *uuid.UUID, day time.Time) ([]models.Reservation, error) {
	return f.filter(func(r *models.Reservation) bool {
		return r.Status == models.ReservationStatusCheckedIn && r.CheckOut.Equal(day)
	}), nil
}

func (f *fakeReservations) Latest(_ context.Context, _ *uuid.UUID, limit int) ([]models.Reservation, error) {
	all := f.filter(func(*models.Reservation) bool { return true })
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (f *fakeReservations) get(id uuid.UUID) models.Reservation {
	found := f.filter(func(r *models.Reservation) bool { return r.ID == id })
	return found[0]
}

// ---------------------------------------------------------------------------
// guests

type fakeGuests struct {
	mu     sync.Mutex
	guests []*models.Guest
}

func (f *fakeGuests) FindByIdentity(_ context.Context, _ *uuid.UUID, id models.GuestIdentity) (*models.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	match := func(pred func(g *models.Guest) bool) *models.Guest {
		for _, g := range f.guests {
			if pred(g) {
				return g
			}
		}
		return nil
	}
	if g := match(func(g *models.Guest) bool { return id.Phone != "" && g.Phone == id.Phone }); g != nil {
		return g, nil
	}
	if g := match(func(g *models.Guest) bool { return id.Email != "" && g.Email == id.Email }); g != nil {
		return g, nil
	}
	if g := match(func(g *models.Guest) bool { return id.IDNumber != "" && g.IDNumber == id.IDNumber }); g != nil {
		return g, nil
	}
	return nil, fmt.Errorf("failed to find guest: %w", database.ErrNotFound)
}

func (f *fakeGuests) Create(_ context.Context, g *models.Guest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	f.guests = append(f.guests, g)
	return nil
}

func (f *fakeGuests) byID(id uuid.UUID) *models.Guest {
	for _, g := range f.guests {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (f *fakeGuests) GetByID(_ context.Context, id uuid.UUID) (*models.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g := f.byID(id); g != nil {
		copied := *g
		return &copied, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeGuests) List(_ context.Context, _ *uuid.UUID, filter models.GuestFilter) ([]models.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Guest{}
	for _, g := range f.guests {
		if filter.Search == "" || strings.Contains(strings.ToLower(g.Name), strings.ToLower(filter.Search)) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGuests) Update(_ context.Context, g *models.Guest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing := f.byID(g.ID); existing != nil {
		*existing = *g
		return nil
	}
	return database.ErrNotFound
}

func (f *fakeGuests) RecordVisit(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := f.byID(id)
	if g == nil {
		return database.ErrNotFound
	}
	g.Visits++
	g.LastVisit = &at
	return nil
}

func (f *fakeGuests) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g := f.byID(id); g != nil {
		g.IsActive = active
	}
	return nil
}

func (f *fakeGuests) AddSpend(_ context.Context, id uuid.UUID, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g := f.byID(id); g != nil {
		g.TotalSpent += amount
	}
	return nil
}

// ---------------------------------------------------------------------------
// invoices

type fakeInvoices struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*models.Invoice
	seq      int64
}

func newFakeInvoices() *fakeInvoices {
	return &fakeInvoices{invoices: make(map[uuid.UUID]*models.Invoice)}
}

func (f *fakeInvoices) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeInvoices) Create(_ context.Context, inv *models.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.invoices {
		if existing.ReservationID == inv.ReservationID && existing.Status != models.InvoiceStatusCancelled {
			return database.ErrDuplicate
		}
	}
	f.seq++
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = database.FormatInvoiceNumber(inv.IssueDate.Year(), f.seq)
	}
	inv.Amount = models.SumItems(inv.Items)
	copied := *inv
	copied.Items = append([]models.InvoiceItem{}, inv.Items...)
	f.invoices[inv.ID] = &copied
	return nil
}

func (f *fakeInvoices) AddItem(_ context.Context, invoiceID uuid.UUID, item *models.InvoiceItem) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[invoiceID]
	if !ok {
		return 0, database.ErrNotFound
	}
	inv.Items = append(inv.Items, *item)
	inv.Amount = models.SumItems(inv.Items)
	return inv.Amount, nil
}

func (f *fakeInvoices) GetByID(_ context.Context, id uuid.UUID) (*models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok {
		return nil, fmt.Errorf("failed to get invoice: %w", database.ErrNotFound)
	}
	copied := *inv
	copied.Items = append([]models.InvoiceItem{}, inv.Items...)
	return &copied, nil
}

func (f *fakeInvoices) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeInvoices) GetByReservation(ctx context.Context, reservationID uuid.UUID) (*models.Invoice, error) {
	f.mu.Lock()
	var id uuid.UUID
	for _, inv := range f.invoices {
		if inv.ReservationID == reservationID && inv.Status != models.InvoiceStatusCancelled {
			id = inv.ID
		}
	}
	f.mu.Unlock()
	if id == uuid.Nil {
		return nil, fmt.Errorf("failed to get invoice: %w", database.ErrNotFound)
	}
	return f.GetByID(ctx, id)
}

func (f *fakeInvoices) List(context.Context, *uuid.UUID, models.InvoiceFilter) ([]models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Invoice{}
	for _, inv := range f.invoices {
		out = append(out, *inv)
	}
	return out, nil
}

func (f *fakeInvoices) setStatus(id uuid.UUID, status models.InvoiceStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok || !inv.Status.IsOpen() {
		return fmt.Errorf("open invoice: %w", database.ErrNotFound)
	}
	inv.Status = status
	return nil
}

func (f *fakeInvoices) MarkPaid(_ context.Context, id uuid.UUID, method models.PaymentMethod, paidAt time.Time) error {
	if err := f.setStatus(id, models.InvoiceStatusPaid); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m := string(method)
	f.invoices[id].PaymentMethod = &m
	f.invoices[id].PaidAt = &paidAt
	return nil
}

func (f *fakeInvoices) Cancel(_ context.Context, id uuid.UUID) error {
	return f.setStatus(id, models.InvoiceStatusCancelled)
}

func (f *fakeInvoices) MarkOverdue(_ context.Context, today time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, inv := range f.invoices {
		if inv.Status == models.InvoiceStatusPending && inv.DueDate.Before(today) {
			inv.Status = models.InvoiceStatusOverdue
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// service catalog

type fakeCatalog struct {
	mu       sync.Mutex
	services map[uuid.UUID]*models.HotelService
	orders   map[uuid.UUID]*models.ServiceOrder
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		services: make(map[uuid.UUID]*models.HotelService),
		orders:   make(map[uuid.UUID]*models.ServiceOrder),
	}
}

func (f *fakeCatalog) CreateService(_ context.Context, s *models.HotelService) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	copied := *s
	f.services[s.ID] = &copied
	return nil
}

func (f *fakeCatalog) GetService(_ context.Context, id uuid.UUID) (*models.HotelService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeCatalog) ListServices(_ context.Context, _ *uuid.UUID, category string, availableOnly bool) ([]models.HotelService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.HotelService{}
	for _, s := range f.services {
		if (category == "" || string(s.Category) == category) && (!availableOnly || s.Available) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeCatalog) UpdateService(_ context.Context, s *models.HotelService) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *s
	f.services[s.ID] = &copied
	return nil
}

func (f *fakeCatalog) DeleteService(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.services, id)
	return nil
}

func (f *fakeCatalog) CreateOrder(_ context.Context, o *models.ServiceOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	copied := *o
	f.orders[o.ID] = &copied
	return nil
}

func (f *fakeCatalog) GetOrder(_ context.Context, id uuid.UUID) (*models.ServiceOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeCatalog) ListOrders(_ context.Context, reservationID *uuid.UUID, status string) ([]models.ServiceOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ServiceOrder{}
	for _, o := range f.orders {
		if (reservationID == nil || o.ReservationID == *reservationID) && (status == "" || string(o.Status) == status) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListCompletedByReservation(ctx context.Context, reservationID uuid.UUID) ([]models.ServiceOrder, error) {
	return f.ListOrders(ctx, &reservationID, string(models.ServiceOrderCompleted))
}

func (f *fakeCatalog) UpdateOrderStatus(_ context.Context, id uuid.UUID, status models.ServiceOrderStatus, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return database.ErrNotFound
	}
	o.Status = status
	if status == models.ServiceOrderCompleted {
		o.CompletedAt = &at
	}
	return nil
}

// ---------------------------------------------------------------------------
// audit

type fakeAudit struct {
	mu      sync.Mutex
	entries []database.AuditEntry
}

func (f *fakeAudit) Insert(_ context.Context, e *database.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeAudit) DeleteBefore(context.Context, time.Time) (int64, error) { return 0, nil }

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.Action
	}
	return out
}

// ---------------------------------------------------------------------------
// notifier

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.Reservation
}

func (f *fakeNotifier) ReservationConfirmed(_ context.Context, res models.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, res)
}

// ---------------------------------------------------------------------------
// wiring

type fixture struct {
	rooms        *fakeRooms
	reservations *fakeReservations
	guests       *fakeGuests
	invoices     *fakeInvoices
	catalog      *fakeCatalog
	audit        *fakeAudit
	notifier     *fakeNotifier
	clock        clock.Clock
	cfg          config.BookingConfig

	invoiceSvc     *InvoiceService
	reservationSvc *ReservationService
	catalogSvc     *CatalogService
}

var testActor = Actor{UserID: uuid.New(), Email: "desk@example.com", Role: models.RoleManager, IPAddress: "10.0.0.8"}

func newFixture(t *testing.T, today string, rooms ...*models.Room) *fixture {
	t.Helper()
	f := &fixture{
		rooms:        newFakeRooms(rooms...),
		reservations: &fakeReservations{},
		guests:       &fakeGuests{},
		invoices:     newFakeInvoices(),
		catalog:      newFakeCatalog(),
		audit:        &fakeAudit{},
		notifier:     &fakeNotifier{},
		clock:        fixedAt(t, today),
		cfg: config.BookingConfig{
			Timezone:        "UTC",
			TaxRatePercent:  12,
			InvoiceDueDays:  7,
			ConflictRetries: 1,
		},
	}
	f.rebuild()
	return f
}

// rebuild re-creates the services after a cfg change
func (f *fixture) rebuild() {
	logger := quietLogger()
	audit := NewAuditService(f.audit, true, f.clock, logger)
	f.invoiceSvc = NewInvoiceService(f.invoices, f.reservations, f.catalog, audit, f.clock, f.cfg, logger)
	f.reservationSvc = NewReservationService(f.rooms, f.reservations, f.guests, f.invoiceSvc, f.notifier, audit, f.clock, f.cfg, logger)
	f.catalogSvc = NewCatalogService(f.catalog, f.reservations, f.clock, logger)
}

func testRoom(number string, price float64) *models.Room {
	return &models.Room{
		ID:         uuid.New(),
		RoomNumber: number,
		RoomType:   models.RoomTypeDeluxe,
		Capacity:   2,
		Price:      price,
		Status:     models.RoomStatusAvailable,
	}
}

func bookingRequest(room *models.Room, in, out string) *models.CreateReservationRequest {
	return &models.CreateReservationRequest{
		RoomID:     room.ID.String(),
		GuestName:  "Asha Verma",
		GuestEmail: "asha@example.com",
		GuestPhone: "+91 98765 43210",
		IDType:     "Aadhar",
		IDNumber:   "1234-5678-9012",
		CheckIn:    in,
		CheckOut:   out,
		Guests:     2,
	}
}
