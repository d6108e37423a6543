// Package events defines the wire payloads exchanged over the food_orders
// topic exchange. Producers publish after their own write is committed, so
// every event references state that already exists in the store.
package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/chowline/chowline/internal/domain/model"
)

// Exchange is the single topic exchange the platform publishes to.
const Exchange = "food_orders"

// Routing keys for lifecycle transitions.
const (
	KeyOrderPlaced    = "order.placed"
	KeyOrderAssigned  = "order.assigned"
	KeyDeliveryUpdate = "delivery.update"
	KeyOrderDelivered = "order.delivered"
)

// Queue names consumed by in-process subscribers.
const (
	QueueAssignments   = "delivery_assignments"
	QueueNotifications = "notifications"
)

// OrderPlaced is emitted by the order service once an order is persisted.
// It carries everything the delivery tracker needs to open an assignment.
type OrderPlaced struct {
	OrderID       string           `json:"order_id"`
	UserID        int64            `json:"user_id"`
	RestaurantID  int64            `json:"restaurant_id"`
	Total         decimal.Decimal  `json:"total"`
	StartLocation model.Coordinate `json:"start_location"`
	DestLocation  model.Coordinate `json:"dest_location"`
	CreatedAt     time.Time        `json:"created_at"`
}

// OrderAssigned is emitted when a rider is bound to an assignment.
type OrderAssigned struct {
	OrderID string `json:"order_id"`
	UserID  int64  `json:"user_id"`
	RiderID string `json:"rider_id"`
}

// DeliveryUpdate is emitted on every movement tick of an assignment.
type DeliveryUpdate struct {
	OrderID  string                 `json:"order_id"`
	UserID   int64                  `json:"user_id"`
	RiderID  string                 `json:"rider_id"`
	Status   model.AssignmentStatus `json:"status"`
	Location model.Coordinate       `json:"location"`
	Progress int                    `json:"progress"`
}

// OrderDelivered is emitted once when the assignment reaches its terminal state.
type OrderDelivered struct {
	OrderID string `json:"order_id"`
	UserID  int64  `json:"user_id"`
	RiderID string `json:"rider_id"`
}
