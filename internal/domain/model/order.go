package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus mirrors delivery progress on the order record. The stored
// value is informational; the delivery assignment is the source of truth.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusAssigned  OrderStatus = "ASSIGNED"
	OrderStatusInTransit OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// Order is an immutable record of a placed order. Only Status changes after
// creation. Total is the server-computed authoritative amount and is never
// recomputed, even if catalog pricing changes later.
type Order struct {
	ID             string
	UserID         int64
	RestaurantID   int64
	Items          []OrderItem
	Total          decimal.Decimal
	Status         OrderStatus
	IdempotencyKey string
	CreatedAt      time.Time
}

// OrderItem captures the unit price at the time of order.
type OrderItem struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}
