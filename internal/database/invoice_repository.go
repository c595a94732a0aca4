package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

const invoiceColumns = `
	id, hotel_id, invoice_number, reservation_id, guest_id, guest_name, room_number,
	issue_date, due_date, amount, advance_paid, status, payment_method, paid_at, notes,
	created_at, updated_at`

const invoiceItemColumns = `id, invoice_id, description, item_type, quantity, unit_price, amount, created_at`

// InvoiceRepository handles invoice and invoice item database operations
type InvoiceRepository struct {
	db *sqlx.DB
	*Transactor
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db, Transactor: NewTransactor(db)}
}

// FormatInvoiceNumber renders a sequence value as INV-YYYY-000123
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%06d", year, seq)
}

// NextInvoiceNumber draws the next number from invoice_number_seq
func (r *InvoiceRepository) NextInvoiceNumber(ctx context.Context, issued time.Time) (string, error) {
	var seq int64
	if err := conn(ctx, r.db).QueryRowxContext(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&seq); err != nil {
		return "", wrap(err, "failed to allocate invoice number")
	}
	return FormatInvoiceNumber(issued.Year(), seq), nil
}

// Create inserts an invoice together with its items. Amount is taken from the items.
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	return r.WithTx(ctx, func(ctx context.Context) error {
		if inv.ID == uuid.Nil {
			inv.ID = uuid.New()
		}
		if inv.InvoiceNumber == "" {
			number, err := r.NextInvoiceNumber(ctx, inv.IssueDate)
			if err != nil {
				return err
			}
			inv.InvoiceNumber = number
		}
		inv.Amount = models.SumItems(inv.Items)

		query := `
			INSERT INTO invoices (
				id, hotel_id, invoice_number, reservation_id, guest_id, guest_name, room_number,
				issue_date, due_date, amount, advance_paid, status, notes
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING created_at, updated_at
		`
		err := conn(ctx, r.db).QueryRowxContext(ctx, query,
			inv.ID, inv.HotelID, inv.InvoiceNumber, inv.ReservationID, inv.GuestID, inv.GuestName,
			inv.RoomNumber, inv.IssueDate, inv.DueDate, inv.Amount, inv.AdvancePaid, inv.Status, inv.Notes,
		).Scan(&inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return wrap(err, "failed to create invoice")
		}

		for i := range inv.Items {
			if err := r.insertItem(ctx, inv.ID, &inv.Items[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *InvoiceRepository) insertItem(ctx context.Context, invoiceID uuid.UUID, item *models.InvoiceItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.InvoiceID = invoiceID

	query := `
		INSERT INTO invoice_items (id, invoice_id, description, item_type, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		item.ID, item.InvoiceID, item.Description, item.ItemType, item.Quantity, item.UnitPrice, item.Amount,
	).Scan(&item.CreatedAt)
	if err != nil {
		return wrap(err, "failed to insert invoice item")
	}
	return nil
}

// AddItem appends a line and recomputes the invoice amount from its items
func (r *InvoiceRepository) AddItem(ctx context.Context, invoiceID uuid.UUID, item *models.InvoiceItem) (float64, error) {
	var amount float64
	err := r.WithTx(ctx, func(ctx context.Context) error {
		if err := r.insertItem(ctx, invoiceID, item); err != nil {
			return err
		}

		query := `
			UPDATE invoices
			SET amount = (SELECT COALESCE(SUM(amount), 0) FROM invoice_items WHERE invoice_id = $1),
			    updated_at = NOW()
			WHERE id = $1
			RETURNING amount
		`
		if err := conn(ctx, r.db).QueryRowxContext(ctx, query, invoiceID).Scan(&amount); err != nil {
			return wrap(err, "failed to recompute invoice amount")
		}
		return nil
	})
	return amount, err
}

// Items returns the lines of an invoice in insertion order
func (r *InvoiceRepository) Items(ctx context.Context, invoiceID uuid.UUID) ([]models.InvoiceItem, error) {
	query := `SELECT ` + invoiceItemColumns + ` FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	items := []models.InvoiceItem{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &items, query, invoiceID); err != nil {
		return nil, wrap(err, "failed to list invoice items")
	}
	return items, nil
}

func (r *InvoiceRepository) getOne(ctx context.Context, where string, arg interface{}, lock bool) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ` + where
	if lock {
		query += ` FOR UPDATE`
	}

	var inv models.Invoice
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &inv, query, arg); err != nil {
		return nil, wrap(err, "failed to get invoice")
	}

	items, err := r.Items(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

// GetByID returns an invoice with its items
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return r.getOne(ctx, "id = $1", id, false)
}

// GetForUpdate locks an invoice row for the transaction in ctx
func (r *InvoiceRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return r.getOne(ctx, "id = $1", id, true)
}

// GetByReservation returns the live (not cancelled) invoice of a reservation
func (r *InvoiceRepository) GetByReservation(ctx context.Context, reservationID uuid.UUID) (*models.Invoice, error) {
	return r.getOne(ctx, "reservation_id = $1 AND status <> 'cancelled'", reservationID, false)
}

// List returns invoices matching filter, newest first. Items are not loaded.
func (r *InvoiceRepository) List(ctx context.Context, hotelID *uuid.UUID, filter models.InvoiceFilter) ([]models.Invoice, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if hotelID != nil {
		add("hotel_id = $%d", *hotelID)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.ReservationID != "" {
		add("reservation_id = $%d", filter.ReservationID)
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY issue_date DESC, invoice_number DESC LIMIT $%d", len(args))

	invoices := []models.Invoice{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &invoices, query, args...); err != nil {
		return nil, wrap(err, "failed to list invoices")
	}
	return invoices, nil
}

// MarkPaid settles an open invoice
func (r *InvoiceRepository) MarkPaid(ctx context.Context, id uuid.UUID, method models.PaymentMethod, paidAt time.Time) error {
	query := `
		UPDATE invoices
		SET status = 'paid', payment_method = $2, paid_at = $3, updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'overdue')
	`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, string(method), paidAt)
	if err != nil {
		return wrap(err, "failed to mark invoice paid")
	}
	return expectRow(result, "open invoice")
}

// Cancel voids an open invoice
func (r *InvoiceRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE invoices
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'overdue')
	`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return wrap(err, "failed to cancel invoice")
	}
	return expectRow(result, "open invoice")
}

// MarkOverdue flips pending invoices whose due date has passed
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	query := `
		UPDATE invoices
		SET status = 'overdue', updated_at = NOW()
		WHERE status = 'pending' AND due_date < $1
	`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, today)
	if err != nil {
		return 0, wrap(err, "failed to mark overdue invoices")
	}
	return result.RowsAffected()
}
