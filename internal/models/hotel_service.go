package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ServiceCategory groups the services a hotel sells
type ServiceCategory string

const (
	ServiceCategoryRestaurant  ServiceCategory = "restaurant"
	ServiceCategoryRoomService ServiceCategory = "roomService"
	ServiceCategoryActivity    ServiceCategory = "activity"
	ServiceCategoryOther       ServiceCategory = "other"
)

func (c ServiceCategory) IsValid() bool {
	switch c {
	case ServiceCategoryRestaurant, ServiceCategoryRoomService, ServiceCategoryActivity, ServiceCategoryOther:
		return true
	}
	return false
}

// HotelService is a chargeable catalog entry (meal, spa, laundry...)
type HotelService struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	HotelID     *uuid.UUID      `db:"hotel_id" json:"hotel_id,omitempty"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Category    ServiceCategory `db:"category" json:"category"`
	Price       float64         `db:"price" json:"price"`
	Available   bool            `db:"available" json:"available"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// CreateHotelServiceRequest is the payload for POST /services
type CreateHotelServiceRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description" binding:"max=1000"`
	Category    string  `json:"category" binding:"required,oneof=restaurant roomService activity other"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Available   *bool   `json:"available"`
}

// UpdateHotelServiceRequest is a partial update of a catalog entry
type UpdateHotelServiceRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=100"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	Category    *string  `json:"category" binding:"omitempty,oneof=restaurant roomService activity other"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Available   *bool    `json:"available"`
}

// ============================================================================
// SERVICE ORDERS
// ============================================================================

// ServiceOrderStatus is the fulfilment state of a service order
type ServiceOrderStatus string

const (
	ServiceOrderPending    ServiceOrderStatus = "pending"
	ServiceOrderInProgress ServiceOrderStatus = "in-progress"
	ServiceOrderCompleted  ServiceOrderStatus = "completed"
	ServiceOrderCancelled  ServiceOrderStatus = "cancelled"
)

var serviceOrderTransitions = map[ServiceOrderStatus][]ServiceOrderStatus{
	ServiceOrderPending:    {ServiceOrderInProgress, ServiceOrderCompleted, ServiceOrderCancelled},
	ServiceOrderInProgress: {ServiceOrderCompleted, ServiceOrderCancelled},
	ServiceOrderCompleted:  {},
	ServiceOrderCancelled:  {},
}

// IsValid reports whether s is a known order status
func (s ServiceOrderStatus) IsValid() bool {
	_, ok := serviceOrderTransitions[s]
	return ok
}

// CanTransitionTo reports whether the order may move from s to target
func (s ServiceOrderStatus) CanTransitionTo(target ServiceOrderStatus) bool {
	for _, t := range serviceOrderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ParseServiceOrderStatus converts a string, rejecting unknown values
func ParseServiceOrderStatus(s string) (ServiceOrderStatus, error) {
	status := ServiceOrderStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid service order status: %s", s)
	}
	return status, nil
}

// ServiceOrder is a service charged to an in-house reservation
type ServiceOrder struct {
	ID            uuid.UUID          `db:"id" json:"id"`
	ReservationID uuid.UUID          `db:"reservation_id" json:"reservation_id"`
	ServiceID     uuid.UUID          `db:"service_id" json:"service_id"`
	ServiceName   string             `db:"service_name" json:"service_name"`
	Quantity      int                `db:"quantity" json:"quantity"`
	UnitPrice     float64            `db:"unit_price" json:"unit_price"`
	Total         float64            `db:"total" json:"total"`
	Status        ServiceOrderStatus `db:"status" json:"status"`
	Notes         string             `db:"notes" json:"notes"`
	OrderedBy     *uuid.UUID         `db:"ordered_by" json:"ordered_by,omitempty"`
	CompletedAt   *time.Time         `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at" json:"updated_at"`
}

// CreateServiceOrderRequest is the payload for POST /service-orders
type CreateServiceOrderRequest struct {
	ReservationID string `json:"reservation_id" binding:"required,uuid"`
	ServiceID     string `json:"service_id" binding:"required,uuid"`
	Quantity      int    `json:"quantity" binding:"required,min=1,max=100"`
	Notes         string `json:"notes" binding:"max=500"`
}

// ChangeServiceOrderStatusRequest moves an order through its lifecycle
type ChangeServiceOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in-progress completed cancelled"`
}
