package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/booking"
	"github.com/hotelsuite/pms-backend/internal/clock"
	"github.com/hotelsuite/pms-backend/internal/config"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

const (
	defaultCalendarDays = 30
	maxCalendarDays     = 366
)

// ReservationService composes the booking engine with persistence.
// Every write locks the room row before re-reading its blocking reservations,
// so two bookings of the same room are serialized.
type ReservationService struct {
	rooms        RoomStore
	reservations ReservationStore
	guests       GuestStore
	invoices     *InvoiceService
	notifier     Notifier
	audit        *AuditService
	clock        clock.Clock
	cfg          config.BookingConfig
	machine      booking.StatusMachine
	validator    booking.Validator
	logger       *logrus.Logger
}

// NewReservationService creates a new reservation service
func NewReservationService(
	rooms RoomStore,
	reservations ReservationStore,
	guests GuestStore,
	invoices *InvoiceService,
	notifier Notifier,
	audit *AuditService,
	clk clock.Clock,
	cfg config.BookingConfig,
	logger *logrus.Logger,
) *ReservationService {
	phone := validator.NewPhoneValidator()
	return &ReservationService{
		rooms:        rooms,
		reservations: reservations,
		guests:       guests,
		invoices:     invoices,
		notifier:     notifier,
		audit:        audit,
		clock:        clk,
		cfg:          cfg,
		machine:      booking.StatusMachine{AllowCancelAfterCheckIn: cfg.AllowCancelAfterCheckIn},
		validator:    booking.Validator{NormalizePhone: phone.Normalize},
		logger:       logger,
	}
}

func invalid(field, message string) *booking.ValidationError {
	return &booking.ValidationError{Field: field, Message: message}
}

// parseOptionalDate returns the zero time for an empty string
func parseOptionalDate(field, s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	d, err := booking.ParseDate(s)
	if err != nil {
		return time.Time{}, invalid(field, err.Error())
	}
	return d, nil
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := parseOptionalDate("check_in", checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := parseOptionalDate("check_out", checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}

func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, invalid(field, "Invalid "+field)
	}
	return id, nil
}

// ============================================================================
// CREATE
// ============================================================================

// Create validates, prices and stores a reservation, finding or creating the guest.
// Walk-ins must arrive today and start checked in.
func (s *ReservationService) Create(ctx context.Context, actor Actor, req *models.CreateReservationRequest) (*models.Reservation, error) {
	// 1. Resolve the room; an empty id is reported by the validator
	var room *models.Room
	if strings.TrimSpace(req.RoomID) != "" {
		roomID, err := parseID("room_id", req.RoomID)
		if err != nil {
			return nil, err
		}
		room, err = s.rooms.GetByID(ctx, roomID)
		if err != nil {
			return nil, err
		}
	}

	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	// 2. Run the ordered checks against what is stored now
	var existing []models.Reservation
	if room != nil {
		if existing, err = s.reservations.FindBlockingByRoom(ctx, room.ID); err != nil {
			return nil, err
		}
	}
	res, err := s.validator.Validate(booking.Candidate{
		Room:            room,
		GuestName:       req.GuestName,
		GuestPhone:      req.GuestPhone,
		GuestEmail:      req.GuestEmail,
		IDType:          req.IDType,
		IDNumber:        req.IDNumber,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		SpecialRequests: req.SpecialRequests,
		WalkIn:          req.WalkIn,
	}, existing)
	if err != nil {
		return nil, err
	}

	if res.WalkIn && !res.CheckIn.Equal(clock.Today(s.clock)) {
		return nil, invalid("check_in", "Walk-in check-in date must be today")
	}
	if req.TotalAmount != nil {
		res.TotalAmount = models.RoundMoney(*req.TotalAmount)
		res.TotalOverridden = true
	}
	res.CreatedBy = actor.userID()

	// 3. Store under the room lock, retrying when the exclusion constraint fires
	for attempt := 0; ; attempt++ {
		err = s.reservations.WithTx(ctx, func(ctx context.Context) error {
			return s.insertLocked(ctx, res)
		})
		if !errors.Is(err, database.ErrOverlap) || attempt >= s.cfg.ConflictRetries {
			break
		}
		s.logger.WithFields(logrus.Fields{"room_id": res.RoomID, "attempt": attempt + 1}).
			Warn("Reservation rejected by overlap constraint, retrying")
	}
	if errors.Is(err, database.ErrOverlap) {
		return nil, s.conflictAfterOverlap(ctx, res, uuid.Nil)
	}
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"room_id":        res.RoomID,
		"check_in":       booking.FormatDate(res.CheckIn),
		"check_out":      booking.FormatDate(res.CheckOut),
		"walk_in":        res.WalkIn,
	}).Info("Reservation created")

	s.audit.Record(ctx, actor, AuditEvent{
		Action:     AuditReservationCreate,
		EntityType: "reservation",
		EntityID:   &res.ID,
		Details: map[string]interface{}{
			"room_id":   res.RoomID,
			"check_in":  booking.FormatDate(res.CheckIn),
			"check_out": booking.FormatDate(res.CheckOut),
			"total":     res.TotalAmount,
			"walk_in":   res.WalkIn,
		},
	})
	if s.notifier != nil {
		s.notifier.ReservationConfirmed(ctx, *res)
	}
	return res, nil
}

// insertLocked runs inside the transaction
func (s *ReservationService) insertLocked(ctx context.Context, res *models.Reservation) error {
	room, err := s.rooms.GetForUpdate(ctx, res.RoomID)
	if err != nil {
		return err
	}
	existing, err := s.reservations.FindBlockingByRoom(ctx, room.ID)
	if err != nil {
		return err
	}
	if conflict, found := booking.FindConflict(room.ID, res.CheckIn, res.CheckOut, existing, uuid.Nil); found {
		return booking.ConflictFor(conflict)
	}

	guest, err := s.resolveGuest(ctx, res)
	if err != nil {
		return err
	}
	res.GuestID = &guest.ID

	if _, err := s.reservations.Insert(ctx, res); err != nil {
		return err
	}

	if res.Status == models.ReservationStatusCheckedIn {
		if err := s.rooms.UpdateStatus(ctx, room.ID, models.RoomStatusOccupied); err != nil {
			return err
		}
		return s.guests.SetActive(ctx, guest.ID, true)
	}
	return nil
}

// resolveGuest finds a returning guest by phone, email or ID number and
// records the visit, or creates a new guest.
func (s *ReservationService) resolveGuest(ctx context.Context, res *models.Reservation) (*models.Guest, error) {
	now := s.clock.Now()
	guest, err := s.guests.FindByIdentity(ctx, res.HotelID, models.GuestIdentity{
		Name:     res.GuestName,
		Email:    res.GuestEmail,
		Phone:    res.GuestPhone,
		IDType:   res.IDType,
		IDNumber: res.IDNumber,
	})
	if err == nil {
		if err := s.guests.RecordVisit(ctx, guest.ID, now); err != nil {
			return nil, err
		}
		return guest, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	guest = &models.Guest{
		HotelID:   res.HotelID,
		Name:      res.GuestName,
		Email:     res.GuestEmail,
		Phone:     res.GuestPhone,
		IDType:    res.IDType,
		IDNumber:  res.IDNumber,
		Visits:    1,
		IsActive:  res.Status == models.ReservationStatusCheckedIn,
		LastVisit: &now,
	}
	if err := s.guests.Create(ctx, guest); err != nil {
		return nil, err
	}
	return guest, nil
}

// conflictAfterOverlap turns a constraint rejection into a ConflictError naming
// the stay that won the race.
func (s *ReservationService) conflictAfterOverlap(ctx context.Context, res *models.Reservation, exclude uuid.UUID) error {
	existing, err := s.reservations.FindBlockingByRoom(ctx, res.RoomID)
	if err == nil {
		if conflict, found := booking.FindConflict(res.RoomID, res.CheckIn, res.CheckOut, existing, exclude); found {
			return booking.ConflictFor(conflict)
		}
	}
	return &booking.ConflictError{
		RoomID:   res.RoomID,
		Interval: booking.NewInterval(res.CheckIn, res.CheckOut),
	}
}

// ============================================================================
// UPDATE
// ============================================================================

// Update edits a reservation. The fields that may change depend on its status;
// a room or date change reprices the stay unless the total was set by hand.
func (s *ReservationService) Update(ctx context.Context, actor Actor, id uuid.UUID, req *models.UpdateReservationRequest) (*models.Reservation, error) {
	var (
		updated *models.Reservation
		changed []booking.Field
	)
	err := s.reservations.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.reservations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		next, fields, err := applyEdit(current, req)
		if err != nil {
			return err
		}
		for _, f := range fields {
			if !booking.CanEdit(current.Status, f) {
				return invalid(string(f), "Cannot change "+strings.ReplaceAll(string(f), "_", " ")+
					" of a "+string(current.Status)+" reservation")
			}
		}
		changed = fields
		if len(fields) == 0 {
			updated = current
			return nil
		}

		room, err := s.rooms.GetForUpdate(ctx, next.RoomID)
		if err != nil {
			return err
		}
		existing, err := s.reservations.FindBlockingByRoom(ctx, room.ID)
		if err != nil {
			return err
		}
		priced, err := s.validator.Validate(booking.Candidate{
			ReservationID:   current.ID,
			Room:            room,
			GuestName:       next.GuestName,
			GuestPhone:      next.GuestPhone,
			GuestEmail:      next.GuestEmail,
			IDType:          next.IDType,
			IDNumber:        next.IDNumber,
			CheckIn:         next.CheckIn,
			CheckOut:        next.CheckOut,
			Guests:          next.Guests,
			SpecialRequests: next.SpecialRequests,
		}, existing)
		if err != nil {
			return err
		}
		next.GuestName = priced.GuestName
		next.GuestPhone = priced.GuestPhone
		next.GuestEmail = priced.GuestEmail
		next.IDNumber = priced.IDNumber
		next.RoomNumber = room.RoomNumber

		stayChanged := containsField(fields, booking.FieldRoom, booking.FieldCheckIn, booking.FieldCheckOut)
		switch {
		case req.TotalAmount != nil:
			next.TotalAmount = models.RoundMoney(*req.TotalAmount)
			next.TotalOverridden = true
		case stayChanged:
			next.TotalAmount = priced.TotalAmount
			next.TotalOverridden = false
		}
		// The advance only follows the nightly rate; a stored advance survives
		// date changes and moves to a room at the same rate.
		if req.AdvanceAmount == nil && next.RoomID != current.RoomID {
			previous, err := s.rooms.GetByID(ctx, current.RoomID)
			if err != nil {
				return err
			}
			if previous.Price != room.Price {
				next.AdvanceAmount = priced.AdvanceAmount
			}
		}

		updated = next
		return s.reservations.Update(ctx, next)
	})
	if errors.Is(err, database.ErrOverlap) && updated != nil {
		return nil, s.conflictAfterOverlap(ctx, updated, id)
	}
	if err != nil {
		return nil, err
	}

	if len(changed) > 0 {
		fields := make([]string, len(changed))
		for i, f := range changed {
			fields[i] = string(f)
		}
		s.audit.Record(ctx, actor, AuditEvent{
			Action:     AuditReservationUpdate,
			EntityType: "reservation",
			EntityID:   &updated.ID,
			Details:    map[string]interface{}{"fields": fields},
		})
	}
	return updated, nil
}

// applyEdit copies current, applies the non-nil request fields and reports
// which editable fields actually differ. Values equal to the stored ones are no-ops.
func applyEdit(current *models.Reservation, req *models.UpdateReservationRequest) (*models.Reservation, []booking.Field, error) {
	next := *current
	var fields []booking.Field
	mark := func(f booking.Field) {
		if !containsField(fields, f) {
			fields = append(fields, f)
		}
	}

	if req.RoomID != nil {
		roomID, err := parseID("room_id", *req.RoomID)
		if err != nil {
			return nil, nil, err
		}
		if roomID != current.RoomID {
			next.RoomID = roomID
			mark(booking.FieldRoom)
		}
	}
	if req.CheckIn != nil {
		d, err := booking.ParseDate(*req.CheckIn)
		if err != nil {
			return nil, nil, invalid("check_in", err.Error())
		}
		if !d.Equal(booking.Day(current.CheckIn)) {
			next.CheckIn = d
			mark(booking.FieldCheckIn)
		}
	}
	if req.CheckOut != nil {
		d, err := booking.ParseDate(*req.CheckOut)
		if err != nil {
			return nil, nil, invalid("check_out", err.Error())
		}
		if !d.Equal(booking.Day(current.CheckOut)) {
			next.CheckOut = d
			mark(booking.FieldCheckOut)
		}
	}

	guestText := []struct {
		in  *string
		dst *string
	}{
		{req.GuestName, &next.GuestName},
		{req.GuestEmail, &next.GuestEmail},
		{req.GuestPhone, &next.GuestPhone},
		{req.IDType, &next.IDType},
		{req.IDNumber, &next.IDNumber},
	}
	for _, g := range guestText {
		if g.in != nil && strings.TrimSpace(*g.in) != *g.dst {
			*g.dst = strings.TrimSpace(*g.in)
			mark(booking.FieldGuest)
		}
	}

	if req.Guests != nil && *req.Guests != current.Guests {
		next.Guests = *req.Guests
		mark(booking.FieldGuests)
	}
	if req.TotalAmount != nil && models.RoundMoney(*req.TotalAmount) != current.TotalAmount {
		mark(booking.FieldTotal)
	}
	if req.AdvanceAmount != nil && *req.AdvanceAmount != current.AdvanceAmount {
		next.AdvanceAmount = models.RoundMoney(*req.AdvanceAmount)
		mark(booking.FieldAdvance)
	}
	if req.SpecialRequests != nil && *req.SpecialRequests != current.SpecialRequests {
		next.SpecialRequests = *req.SpecialRequests
		mark(booking.FieldSpecialRequests)
	}
	return &next, fields, nil
}

func containsField(fields []booking.Field, want ...booking.Field) bool {
	for _, f := range fields {
		for _, w := range want {
			if f == w {
				return true
			}
		}
	}
	return false
}

// ============================================================================
// STATUS
// ============================================================================

// ChangeStatus moves a reservation through its lifecycle and applies the side
// effects on the room, the guest and billing in the same transaction.
func (s *ReservationService) ChangeStatus(ctx context.Context, actor Actor, id uuid.UUID, req *models.ChangeStatusRequest) (*models.Reservation, error) {
	target, err := booking.ParseStatus(req.Status)
	if err != nil {
		return nil, invalid("status", err.Error())
	}

	var (
		res  *models.Reservation
		from models.ReservationStatus
		inv  *models.Invoice
	)
	err = s.reservations.WithTx(ctx, func(ctx context.Context) error {
		res, err = s.reservations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = res.Status

		next, err := s.machine.Transition(from, target)
		if err != nil {
			return err
		}
		if err := s.reservations.UpdateStatus(ctx, res.ID, next); err != nil {
			return err
		}
		res.Status = next

		switch next {
		case models.ReservationStatusCheckedIn:
			if err := s.rooms.UpdateStatus(ctx, res.RoomID, models.RoomStatusOccupied); err != nil {
				return err
			}
			return s.setGuestActive(ctx, res, true)

		case models.ReservationStatusCheckedOut:
			if err := s.rooms.UpdateStatus(ctx, res.RoomID, models.RoomStatusAvailable); err != nil {
				return err
			}
			if err := s.setGuestActive(ctx, res, false); err != nil {
				return err
			}
			if inv, err = s.invoices.EnsureForCheckout(ctx, res); err != nil {
				return err
			}
			if res.GuestID != nil {
				return s.guests.AddSpend(ctx, *res.GuestID, inv.Amount)
			}

		case models.ReservationStatusCancelled:
			if from == models.ReservationStatusCheckedIn {
				if err := s.rooms.UpdateStatus(ctx, res.RoomID, models.RoomStatusAvailable); err != nil {
					return err
				}
				return s.setGuestActive(ctx, res, false)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"from":           from,
		"to":             res.Status,
	}).Info("Reservation status changed")

	details := map[string]interface{}{"from": from, "to": res.Status}
	if req.Reason != "" {
		details["reason"] = req.Reason
	}
	if inv != nil {
		details["invoice_number"] = inv.InvoiceNumber
	}
	s.audit.Record(ctx, actor, AuditEvent{
		Action:     AuditReservationStatus,
		EntityType: "reservation",
		EntityID:   &res.ID,
		Details:    details,
	})
	return res, nil
}

func (s *ReservationService) setGuestActive(ctx context.Context, res *models.Reservation, active bool) error {
	if res.GuestID == nil {
		return nil
	}
	return s.guests.SetActive(ctx, *res.GuestID, active)
}

// ============================================================================
// QUERIES
// ============================================================================

// Quote prices a stay and reports whether the room is free, without booking
func (s *ReservationService) Quote(ctx context.Context, req *models.QuoteRequest) (*models.Quote, error) {
	roomID, err := parseID("room_id", req.RoomID)
	if err != nil {
		return nil, err
	}
	exclude := uuid.Nil
	if req.ExcludeID != "" {
		if exclude, err = parseID("exclude_id", req.ExcludeID); err != nil {
			return nil, err
		}
	}
	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if booking.NewInterval(checkIn, checkOut).IsEmpty() {
		return nil, invalid("check_out", "Check-out date must be after check-in date")
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	existing, err := s.reservations.FindBlockingByRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	price := booking.ComputePrice(room.Price, checkIn, checkOut)
	quote := &models.Quote{
		RoomID:    room.ID,
		CheckIn:   booking.FormatDate(checkIn),
		CheckOut:  booking.FormatDate(checkOut),
		Nights:    price.Nights,
		Rate:      room.Price,
		Total:     price.Total,
		Advance:   price.Advance,
		Available: true,
	}
	if conflict, found := booking.FindConflict(room.ID, checkIn, checkOut, existing, exclude); found {
		quote.Available = false
		quote.Conflict = booking.ConflictFor(conflict).Detail()
	}
	return quote, nil
}

// Get returns one reservation
func (s *ReservationService) Get(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

// List returns reservations matching filter
func (s *ReservationService) List(ctx context.Context, actor Actor, filter models.ReservationFilter) ([]models.Reservation, error) {
	return s.reservations.List(ctx, actor.HotelID, filter)
}

// ByRoom returns every reservation of a room, in any status
func (s *ReservationService) ByRoom(ctx context.Context, roomID uuid.UUID) ([]models.Reservation, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.reservations.FindByRoom(ctx, roomID)
}

// Today lists today's expected arrivals and departures in the hotel timezone
func (s *ReservationService) Today(ctx context.Context, actor Actor) (*models.TodayMovements, error) {
	today := clock.Today(s.clock)
	arrivals, err := s.reservations.ListArrivals(ctx, actor.HotelID, today)
	if err != nil {
		return nil, err
	}
	departures, err := s.reservations.ListDepartures(ctx, actor.HotelID, today)
	if err != nil {
		return nil, err
	}
	return &models.TodayMovements{
		Date:      booking.FormatDate(today),
		CheckIns:  arrivals,
		CheckOuts: departures,
	}, nil
}

// Calendar lists the booked days of a room in [from, to). Empty bounds default
// to a 30 day window starting today.
func (s *ReservationService) Calendar(ctx context.Context, roomID uuid.UUID, from, to string) (*models.RoomCalendar, error) {
	start, end, err := parseStay(from, to)
	if err != nil {
		return nil, err
	}
	if start.IsZero() {
		start = clock.Today(s.clock)
	}
	if end.IsZero() {
		end = start.AddDate(0, 0, defaultCalendarDays)
	}
	if !start.Before(end) {
		return nil, invalid("to", "Calendar end must be after its start")
	}
	if end.Sub(start) > maxCalendarDays*24*time.Hour {
		return nil, invalid("to", "Calendar window cannot exceed one year")
	}

	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	existing, err := s.reservations.FindBlockingByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	days := booking.BookedDays(roomID, start, end, existing)
	booked := make([]string, len(days))
	for i, d := range days {
		booked[i] = booking.FormatDate(d)
	}
	return &models.RoomCalendar{
		RoomID:     roomID,
		From:       booking.FormatDate(start),
		To:         booking.FormatDate(end),
		BookedDays: booked,
	}, nil
}

// AvailableRooms returns the rooms matching filter that are free for the whole
// stay. Rooms under maintenance are never offered.
func (s *ReservationService) AvailableRooms(ctx context.Context, actor Actor, checkIn, checkOut string, filter models.RoomFilter) ([]models.Room, error) {
	start, end, err := parseStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if start.IsZero() || end.IsZero() {
		return nil, invalid("dates", "Check-in and check-out dates are required")
	}
	if booking.NewInterval(start, end).IsEmpty() {
		return nil, invalid("check_out", "Check-out date must be after check-in date")
	}

	rooms, err := s.rooms.List(ctx, actor.HotelID, filter)
	if err != nil {
		return nil, err
	}
	blocking, err := s.reservations.ListBlockingBetween(ctx, actor.HotelID, start, end)
	if err != nil {
		return nil, err
	}

	free := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Status == models.RoomStatusMaintenance {
			continue
		}
		if !booking.HasConflict(room.ID, start, end, blocking, uuid.Nil) {
			free = append(free, room)
		}
	}
	return free, nil
}
