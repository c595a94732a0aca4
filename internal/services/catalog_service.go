package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hotelsuite/pms-backend/internal/clock"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// CatalogService manages the hotel service catalog and the orders charged
// to in-house reservations.
type CatalogService struct {
	catalog      ServiceStore
	reservations ReservationStore
	clock        clock.Clock
	logger       *logrus.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalog ServiceStore, reservations ReservationStore, clk clock.Clock, logger *logrus.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, reservations: reservations, clock: clk, logger: logger}
}

// ============================================================================
// CATALOG
// ============================================================================

// CreateService adds a catalog entry; it is available unless stated otherwise
func (s *CatalogService) CreateService(ctx context.Context, actor Actor, req *models.CreateHotelServiceRequest) (*models.HotelService, error) {
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	svc := &models.HotelService{
		HotelID:     actor.HotelID,
		Name:        req.Name,
		Description: req.Description,
		Category:    models.ServiceCategory(req.Category),
		Price:       models.RoundMoney(req.Price),
		Available:   available,
	}
	if err := s.catalog.CreateService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// ListServices returns the catalog, optionally narrowed to a category or available entries
func (s *CatalogService) ListServices(ctx context.Context, actor Actor, category string, availableOnly bool) ([]models.HotelService, error) {
	return s.catalog.ListServices(ctx, actor.HotelID, category, availableOnly)
}

// UpdateService applies a partial update to a catalog entry
func (s *CatalogService) UpdateService(ctx context.Context, id uuid.UUID, req *models.UpdateHotelServiceRequest) (*models.HotelService, error) {
	svc, err := s.catalog.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Category != nil {
		svc.Category = models.ServiceCategory(*req.Category)
	}
	if req.Price != nil {
		svc.Price = models.RoundMoney(*req.Price)
	}
	if req.Available != nil {
		svc.Available = *req.Available
	}
	if err := s.catalog.UpdateService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// DeleteService removes a catalog entry that was never ordered
func (s *CatalogService) DeleteService(ctx context.Context, id uuid.UUID) error {
	return s.catalog.DeleteService(ctx, id)
}

// ============================================================================
// ORDERS
// ============================================================================

// PlaceOrder charges a service to a checked-in reservation at the current catalog price
func (s *CatalogService) PlaceOrder(ctx context.Context, actor Actor, req *models.CreateServiceOrderRequest) (*models.ServiceOrder, error) {
	reservationID, err := parseID("reservation_id", req.ReservationID)
	if err != nil {
		return nil, err
	}
	serviceID, err := parseID("service_id", req.ServiceID)
	if err != nil {
		return nil, err
	}

	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.Status != models.ReservationStatusCheckedIn {
		return nil, ErrNotInHouse
	}

	svc, err := s.catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.Available {
		return nil, ErrServiceUnavailable
	}

	order := &models.ServiceOrder{
		ReservationID: res.ID,
		ServiceID:     svc.ID,
		ServiceName:   svc.Name,
		Quantity:      req.Quantity,
		UnitPrice:     svc.Price,
		Total:         models.RoundMoney(float64(req.Quantity) * svc.Price),
		Status:        models.ServiceOrderPending,
		Notes:         req.Notes,
		OrderedBy:     actor.userID(),
	}
	if err := s.catalog.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"service":        svc.Name,
		"total":          order.Total,
	}).Info("Service order placed")
	return order, nil
}

// ListOrders returns orders, optionally for one reservation or status
func (s *CatalogService) ListOrders(ctx context.Context, reservationID *uuid.UUID, status string) ([]models.ServiceOrder, error) {
	return s.catalog.ListOrders(ctx, reservationID, status)
}

// ChangeOrderStatus moves an order along pending, in-progress, completed or cancelled
func (s *CatalogService) ChangeOrderStatus(ctx context.Context, id uuid.UUID, req *models.ChangeServiceOrderStatusRequest) (*models.ServiceOrder, error) {
	target, err := models.ParseServiceOrderStatus(req.Status)
	if err != nil {
		return nil, invalid("status", err.Error())
	}

	order, err := s.catalog.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, &OrderTransitionError{From: order.Status, To: target}
	}

	now := s.clock.Now()
	if err := s.catalog.UpdateOrderStatus(ctx, id, target, now); err != nil {
		return nil, err
	}
	order.Status = target
	if target == models.ServiceOrderCompleted {
		order.CompletedAt = &now
	}
	return order, nil
}

// OrderTransitionError reports a service order status change that is not allowed
type OrderTransitionError struct {
	From models.ServiceOrderStatus
	To   models.ServiceOrderStatus
}

func (e *OrderTransitionError) Error() string {
	return "cannot change service order status from " + string(e.From) + " to " + string(e.To)
}

// IsOrderTransitionError reports whether err is an *OrderTransitionError
func IsOrderTransitionError(err error) bool {
	var target *OrderTransitionError
	return errors.As(err, &target)
}
