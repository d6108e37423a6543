package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest is one cart line. Any price a client sends alongside is
// dropped here: pricing is always recomputed server-side.
type OrderItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// PlaceOrderRequest describes order placement.
type PlaceOrderRequest struct {
	RestaurantID int64              `json:"restaurant_id"`
	Items        []OrderItemRequest `json:"items"`
}

// OrderItemResponse is a priced order line.
type OrderItemResponse struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// OrderResponse is the canonical order projection.
type OrderResponse struct {
	ID           string              `json:"id"`
	RestaurantID int64               `json:"restaurant_id"`
	Items        []OrderItemResponse `json:"items"`
	Total        decimal.Decimal     `json:"total"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
}
