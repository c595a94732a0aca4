package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/booking"
	"github.com/hotelsuite/pms-backend/internal/clock"
	"github.com/hotelsuite/pms-backend/internal/config"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// InvoiceService builds and settles reservation invoices
type InvoiceService struct {
	invoices     InvoiceStore
	reservations ReservationStore
	orders       ServiceStore
	audit        *AuditService
	clock        clock.Clock
	cfg          config.BookingConfig
	logger       *logrus.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoices InvoiceStore,
	reservations ReservationStore,
	orders ServiceStore,
	audit *AuditService,
	clk clock.Clock,
	cfg config.BookingConfig,
	logger *logrus.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices:     invoices,
		reservations: reservations,
		orders:       orders,
		audit:        audit,
		clock:        clk,
		cfg:          cfg,
		logger:       logger,
	}
}

// ============================================================================
// GENERATION
// ============================================================================

// Generate creates the invoice of a reservation. A reservation has at most
// one invoice that is not cancelled.
func (s *InvoiceService) Generate(ctx context.Context, actor Actor, reservationID uuid.UUID, req *models.GenerateInvoiceRequest) (*models.Invoice, error) {
	var inv *models.Invoice
	err := s.invoices.WithTx(ctx, func(ctx context.Context) error {
		res, err := s.reservations.GetForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if res.Status == models.ReservationStatusCancelled {
			return &booking.ValidationError{Field: "reservation_id", Message: "Cannot invoice a cancelled reservation"}
		}

		if _, err := s.invoices.GetByReservation(ctx, res.ID); err == nil {
			return ErrInvoiceExists
		} else if !errors.Is(err, database.ErrNotFound) {
			return err
		}

		inv, err = s.build(ctx, res, req.DiscountPercent, req.Notes)
		if err != nil {
			return err
		}
		return s.create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, AuditEvent{
		Action:     AuditInvoiceGenerate,
		EntityType: "invoice",
		EntityID:   &inv.ID,
		Details: map[string]interface{}{
			"invoice_number": inv.InvoiceNumber,
			"reservation_id": reservationID,
			"amount":         inv.Amount,
		},
	})
	return inv, nil
}

// EnsureForCheckout returns the live invoice of res, generating one when none
// exists. It joins the transaction carried by ctx.
func (s *InvoiceService) EnsureForCheckout(ctx context.Context, res *models.Reservation) (*models.Invoice, error) {
	existing, err := s.invoices.GetByReservation(ctx, res.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	inv, err := s.build(ctx, res, 0, "Generated at check-out")
	if err != nil {
		return nil, err
	}
	if err := s.create(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"invoice_number": inv.InvoiceNumber,
	}).Info("Invoice generated at check-out")
	return inv, nil
}

func (s *InvoiceService) create(ctx context.Context, inv *models.Invoice) error {
	err := s.invoices.Create(ctx, inv)
	if errors.Is(err, database.ErrDuplicate) {
		return ErrInvoiceExists
	}
	return err
}

// build assembles the lines: room, completed services, discount, then tax on
// the discounted subtotal.
func (s *InvoiceService) build(ctx context.Context, res *models.Reservation, discountPercent float64, notes string) (*models.Invoice, error) {
	items := []models.InvoiceItem{roomLine(res)}

	orders, err := s.orders.ListCompletedByReservation(ctx, res.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service orders: %w", err)
	}
	for _, o := range orders {
		items = append(items, models.NewInvoiceItem(models.InvoiceItemService, o.ServiceName, o.Quantity, o.UnitPrice))
	}

	subtotal := models.SumItems(items)
	if discountPercent > 0 {
		discount := models.RoundMoney(subtotal * discountPercent / 100)
		items = append(items, models.NewInvoiceItem(models.InvoiceItemDiscount,
			fmt.Sprintf("Discount (%g%%)", discountPercent), 1, discount))
	}

	if s.cfg.TaxRatePercent > 0 {
		taxable := models.SumItems(items)
		if taxable > 0 {
			tax := models.RoundMoney(taxable * s.cfg.TaxRatePercent / 100)
			items = append(items, models.NewInvoiceItem(models.InvoiceItemTax,
				fmt.Sprintf("Tax (%g%%)", s.cfg.TaxRatePercent), 1, tax))
		}
	}

	today := clock.Today(s.clock)
	return &models.Invoice{
		HotelID:       res.HotelID,
		ReservationID: res.ID,
		GuestID:       res.GuestID,
		GuestName:     res.GuestName,
		RoomNumber:    res.RoomNumber,
		IssueDate:     today,
		DueDate:       today.AddDate(0, 0, s.cfg.InvoiceDueDays),
		AdvancePaid:   res.AdvanceAmount,
		Status:        models.InvoiceStatusPending,
		Notes:         notes,
		Items:         items,
	}, nil
}

// roomLine bills nights x rate, or the whole stay as one line when the total
// was set by hand and does not divide evenly.
func roomLine(res *models.Reservation) models.InvoiceItem {
	nights := booking.Nights(res.CheckIn, res.CheckOut)
	desc := fmt.Sprintf("Room %s, %s to %s", res.RoomNumber,
		booking.FormatDate(res.CheckIn), booking.FormatDate(res.CheckOut))

	rate := models.RoundMoney(res.TotalAmount / float64(nights))
	if models.RoundMoney(rate*float64(nights)) == res.TotalAmount {
		return models.NewInvoiceItem(models.InvoiceItemRoom, desc, nights, rate)
	}
	return models.NewInvoiceItem(models.InvoiceItemRoom, desc+" (agreed rate)", 1, res.TotalAmount)
}

// ============================================================================
// CHANGES
// ============================================================================

// AddItem appends a line to an open invoice and returns the updated invoice
func (s *InvoiceService) AddItem(ctx context.Context, invoiceID uuid.UUID, req *models.AddInvoiceItemRequest) (*models.Invoice, error) {
	err := s.invoices.WithTx(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !inv.Status.IsOpen() {
			return ErrInvoiceClosed
		}
		item := models.NewInvoiceItem(models.InvoiceItemType(req.ItemType), req.Description, req.Quantity, req.UnitPrice)
		_, err = s.invoices.AddItem(ctx, inv.ID, &item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.invoices.GetByID(ctx, invoiceID)
}

// RecordPayment marks an open invoice as paid. No money moves here.
func (s *InvoiceService) RecordPayment(ctx context.Context, actor Actor, invoiceID uuid.UUID, req *models.RecordPaymentRequest) (*models.Invoice, error) {
	paidAt := s.clock.Now()
	if req.PaidAt != "" {
		day, err := booking.ParseDate(req.PaidAt)
		if err != nil {
			return nil, &booking.ValidationError{Field: "paid_at", Message: err.Error()}
		}
		paidAt = day
	}

	var amount float64
	err := s.invoices.WithTx(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !inv.Status.IsOpen() {
			return ErrInvoiceClosed
		}
		amount = inv.Amount
		return s.invoices.MarkPaid(ctx, inv.ID, models.PaymentMethod(req.Method), paidAt)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, AuditEvent{
		Action:     AuditInvoicePayment,
		EntityType: "invoice",
		EntityID:   &invoiceID,
		Details:    map[string]interface{}{"method": req.Method, "amount": amount},
	})
	return s.invoices.GetByID(ctx, invoiceID)
}

// Cancel voids an open invoice so a new one can be generated
func (s *InvoiceService) Cancel(ctx context.Context, actor Actor, invoiceID uuid.UUID) (*models.Invoice, error) {
	err := s.invoices.WithTx(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !inv.Status.IsOpen() {
			return ErrInvoiceClosed
		}
		return s.invoices.Cancel(ctx, inv.ID)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, AuditEvent{Action: AuditInvoiceCancel, EntityType: "invoice", EntityID: &invoiceID})
	return s.invoices.GetByID(ctx, invoiceID)
}

// ============================================================================
// QUERIES
// ============================================================================

// Get returns an invoice with its items
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

// List returns invoices visible to actor
func (s *InvoiceService) List(ctx context.Context, actor Actor, filter models.InvoiceFilter) ([]models.Invoice, error) {
	return s.invoices.List(ctx, actor.HotelID, filter)
}

// MarkOverdue flags pending invoices whose due date has passed
func (s *InvoiceService) MarkOverdue(ctx context.Context) (int64, error) {
	return s.invoices.MarkOverdue(ctx, clock.Today(s.clock))
}
