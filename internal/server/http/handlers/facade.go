package handlers

import (
	"context"

	"github.com/chowline/chowline/internal/domain/model"
	"github.com/chowline/chowline/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (int64, error)
	Profile(ctx context.Context, userID int64) (*model.User, error)
	AddAddress(ctx context.Context, userID int64, addr model.Address) (*model.Address, error)
}

// CatalogFacade exposes restaurant browsing and administration.
type CatalogFacade interface {
	Restaurants(ctx context.Context) ([]model.Restaurant, error)
	Restaurant(ctx context.Context, id int64) (*model.Restaurant, []model.MenuEntry, error)
	CreateRestaurant(ctx context.Context, rest model.Restaurant) (*model.Restaurant, error)
	AddMenuItem(ctx context.Context, restaurantID int64, item model.MenuItem) (*model.MenuItem, error)
	SetPricingRules(ctx context.Context, restaurantID int64, rules []model.PricingRule) error
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, userID, restaurantID int64, items []usecase.CartItem, idempotencyKey string) (*model.Order, error)
	Order(ctx context.Context, userID int64, orderID string) (*model.Order, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
}

// DeliveryFacade exposes owner-scoped delivery tracking.
type DeliveryFacade interface {
	Delivery(ctx context.Context, userID int64, orderID string) (*model.DeliveryAssignment, error)
}

// NotificationFacade exposes the per-user notification feed.
type NotificationFacade interface {
	Notifications(ctx context.Context, userID int64) ([]model.Notification, error)
}

// PlatformFacade aggregates the full set of operations used across handlers.
type PlatformFacade interface {
	AuthFacade
	CatalogFacade
	OrderFacade
	DeliveryFacade
	NotificationFacade
}
