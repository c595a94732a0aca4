package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsOpen reports whether the invoice still accepts items and payments
func (s InvoiceStatus) IsOpen() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusOverdue
}

// InvoiceItemType categorises an invoice line
type InvoiceItemType string

const (
	InvoiceItemRoom     InvoiceItemType = "room"
	InvoiceItemService  InvoiceItemType = "service"
	InvoiceItemTax      InvoiceItemType = "tax"
	InvoiceItemDiscount InvoiceItemType = "discount"
	InvoiceItemOther    InvoiceItemType = "other"
)

// PaymentMethod is how an invoice was settled
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodBank PaymentMethod = "bank"
	PaymentMethodUPI  PaymentMethod = "upi"
)

// Invoice is the bill for a reservation. Amount always equals the sum of its items.
type Invoice struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	HotelID       *uuid.UUID    `db:"hotel_id" json:"hotel_id,omitempty"`
	InvoiceNumber string        `db:"invoice_number" json:"invoice_number"`
	ReservationID uuid.UUID     `db:"reservation_id" json:"reservation_id"`
	GuestID       *uuid.UUID    `db:"guest_id" json:"guest_id,omitempty"`
	GuestName     string        `db:"guest_name" json:"guest_name"`
	RoomNumber    string        `db:"room_number" json:"room_number"`
	IssueDate     time.Time     `db:"issue_date" json:"issue_date"`
	DueDate       time.Time     `db:"due_date" json:"due_date"`
	Amount        float64       `db:"amount" json:"amount"`
	AdvancePaid   float64       `db:"advance_paid" json:"advance_paid"`
	Status        InvoiceStatus `db:"status" json:"status"`
	PaymentMethod *string       `db:"payment_method" json:"payment_method,omitempty"`
	PaidAt        *time.Time    `db:"paid_at" json:"paid_at,omitempty"`
	Notes         string        `db:"notes" json:"notes"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`

	Items []InvoiceItem `db:"-" json:"items"`
}

// BalanceDue is the amount still owed after the advance
func (i *Invoice) BalanceDue() float64 {
	return RoundMoney(i.Amount - i.AdvancePaid)
}

// InvoiceItem is one line of an invoice. Discounts carry a negative amount.
type InvoiceItem struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	InvoiceID   uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	Description string          `db:"description" json:"description"`
	ItemType    InvoiceItemType `db:"item_type" json:"item_type"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   float64         `db:"unit_price" json:"unit_price"`
	Amount      float64         `db:"amount" json:"amount"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// NewInvoiceItem builds a line, computing its amount. Discount lines are stored negative.
func NewInvoiceItem(itemType InvoiceItemType, description string, quantity int, unitPrice float64) InvoiceItem {
	amount := RoundMoney(float64(quantity) * unitPrice)
	if itemType == InvoiceItemDiscount && amount > 0 {
		amount = -amount
	}
	return InvoiceItem{
		Description: description,
		ItemType:    itemType,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      amount,
	}
}

// SumItems totals invoice lines
func SumItems(items []InvoiceItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Amount
	}
	return RoundMoney(total)
}

// RoundMoney rounds to two decimal places
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// AddInvoiceItemRequest appends a line to an open invoice
type AddInvoiceItemRequest struct {
	Description string  `json:"description" binding:"required,max=255"`
	ItemType    string  `json:"item_type" binding:"required,oneof=room service tax discount other"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	UnitPrice   float64 `json:"unit_price" binding:"required,gt=0"`
}

// GenerateInvoiceRequest controls invoice generation for a reservation
type GenerateInvoiceRequest struct {
	DiscountPercent float64 `json:"discount_percent" binding:"omitempty,gte=0,lte=100"`
	Notes           string  `json:"notes" binding:"max=1000"`
}

// RecordPaymentRequest marks an invoice as paid
type RecordPaymentRequest struct {
	Method string `json:"method" binding:"required,oneof=cash card bank upi"`
	PaidAt string `json:"paid_at" binding:"omitempty,isodate"`
}

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	Status        string `form:"status" binding:"omitempty,oneof=pending paid overdue cancelled"`
	ReservationID string `form:"reservation_id" binding:"omitempty,uuid"`
	Limit         int    `form:"limit" binding:"omitempty,min=1,max=500"`
}
