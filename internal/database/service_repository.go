package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

const hotelServiceColumns = `id, hotel_id, name, description, category, price, available, created_at, updated_at`

const serviceOrderColumns = `
	o.id, o.reservation_id, o.service_id, s.name AS service_name, o.quantity, o.unit_price,
	o.total, o.status, o.notes, o.ordered_by, o.completed_at, o.created_at, o.updated_at`

const serviceOrderFrom = ` FROM service_orders o JOIN hotel_services s ON s.id = o.service_id`

// ServiceRepository handles the service catalog and service orders
type ServiceRepository struct {
	db *sqlx.DB
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// CreateService inserts a catalog entry
func (r *ServiceRepository) CreateService(ctx context.Context, s *models.HotelService) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	query := `
		INSERT INTO hotel_services (id, hotel_id, name, description, category, price, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		s.ID, s.HotelID, s.Name, s.Description, s.Category, s.Price, s.Available,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return wrap(err, "failed to create service")
	}
	return nil
}

// GetService returns a catalog entry or ErrNotFound
func (r *ServiceRepository) GetService(ctx context.Context, id uuid.UUID) (*models.HotelService, error) {
	var s models.HotelService
	query := `SELECT ` + hotelServiceColumns + ` FROM hotel_services WHERE id = $1`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &s, query, id); err != nil {
		return nil, wrap(err, "failed to get service")
	}
	return &s, nil
}

// ListServices returns the catalog, optionally only available entries
func (r *ServiceRepository) ListServices(ctx context.Context, hotelID *uuid.UUID, category string, availableOnly bool) ([]models.HotelService, error) {
	query := `SELECT ` + hotelServiceColumns + ` FROM hotel_services
		WHERE ($1::uuid IS NULL OR hotel_id = $1)
		  AND ($2 = '' OR category = $2)
		  AND (NOT $3 OR available)
		ORDER BY category, name`

	services := []models.HotelService{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &services, query, hotelID, category, availableOnly); err != nil {
		return nil, wrap(err, "failed to list services")
	}
	return services, nil
}

// UpdateService writes a catalog entry
func (r *ServiceRepository) UpdateService(ctx context.Context, s *models.HotelService) error {
	query := `
		UPDATE hotel_services
		SET name = $2, description = $3, category = $4, price = $5, available = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		s.ID, s.Name, s.Description, s.Category, s.Price, s.Available,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return wrap(err, "failed to update service")
	}
	return nil
}

// DeleteService removes a catalog entry that no order references
func (r *ServiceRepository) DeleteService(ctx context.Context, id uuid.UUID) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM hotel_services WHERE id = $1`, id)
	if err != nil {
		return wrap(err, "failed to delete service")
	}
	return expectRow(result, "service")
}

// CreateOrder inserts a service order
func (r *ServiceRepository) CreateOrder(ctx context.Context, o *models.ServiceOrder) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	query := `
		INSERT INTO service_orders (
			id, reservation_id, service_id, quantity, unit_price, total, status, notes, ordered_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := conn(ctx, r.db).QueryRowxContext(ctx, query,
		o.ID, o.ReservationID, o.ServiceID, o.Quantity, o.UnitPrice, o.Total, o.Status, o.Notes, o.OrderedBy,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return wrap(err, "failed to create service order")
	}
	return nil
}

// GetOrder returns a service order or ErrNotFound
func (r *ServiceRepository) GetOrder(ctx context.Context, id uuid.UUID) (*models.ServiceOrder, error) {
	var o models.ServiceOrder
	query := `SELECT ` + serviceOrderColumns + serviceOrderFrom + ` WHERE o.id = $1`
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &o, query, id); err != nil {
		return nil, wrap(err, "failed to get service order")
	}
	return &o, nil
}

// ListOrders returns orders, optionally for one reservation or status
func (r *ServiceRepository) ListOrders(ctx context.Context, reservationID *uuid.UUID, status string) ([]models.ServiceOrder, error) {
	query := `SELECT ` + serviceOrderColumns + serviceOrderFrom + `
		WHERE ($1::uuid IS NULL OR o.reservation_id = $1)
		  AND ($2 = '' OR o.status = $2)
		ORDER BY o.created_at DESC`

	orders := []models.ServiceOrder{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &orders, query, reservationID, status); err != nil {
		return nil, wrap(err, "failed to list service orders")
	}
	return orders, nil
}

// ListCompletedByReservation returns the completed orders to bill for a stay
func (r *ServiceRepository) ListCompletedByReservation(ctx context.Context, reservationID uuid.UUID) ([]models.ServiceOrder, error) {
	query := `SELECT ` + serviceOrderColumns + serviceOrderFrom + `
		WHERE o.reservation_id = $1 AND o.status = 'completed'
		ORDER BY o.completed_at, o.created_at`

	orders := []models.ServiceOrder{}
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &orders, query, reservationID); err != nil {
		return nil, wrap(err, "failed to list completed service orders")
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to status, stamping completion time
func (r *ServiceRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.ServiceOrderStatus, at time.Time) error {
	query := `
		UPDATE service_orders
		SET status = $2,
		    completed_at = CASE WHEN $2 = 'completed' THEN $3::timestamptz ELSE completed_at END,
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, string(status), at)
	if err != nil {
		return wrap(err, "failed to update service order status")
	}
	return expectRow(result, "service order")
}
