package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
	"github.com/chowline/chowline/internal/domain/repository"
	"github.com/chowline/chowline/internal/events"
	"github.com/chowline/chowline/internal/pricing"
)

// EventPublisher emits lifecycle events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// CartItem is a client-submitted order line. Deliberately carries no price:
// the effective unit price is always derived server-side from the catalog.
type CartItem struct {
	Name     string
	Quantity int
}

// fallbackDest is used when the user has no stored delivery address.
var fallbackDest = model.Coordinate{Lat: 10, Lng: 10}

// OrderUseCase encapsulates order placement and history.
type OrderUseCase struct {
	orders      repository.OrderRepository
	users       repository.UserRepository
	restaurants repository.RestaurantRepository
	publisher   EventPublisher
	logger      *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	users repository.UserRepository,
	restaurants repository.RestaurantRepository,
	publisher EventPublisher,
	logger *slog.Logger,
) *OrderUseCase {
	return &OrderUseCase{orders: orders, users: users, restaurants: restaurants, publisher: publisher, logger: logger}
}

// Place validates the cart against the current catalog, recomputes every
// unit price through the pricing engine, persists the order atomically and
// publishes order.placed after the write is committed. Identical repeat
// submissions are not deduplicated; the idempotency key is stored for
// later use.
func (u *OrderUseCase) Place(ctx context.Context, userID, restaurantID int64, items []CartItem, idempotencyKey string) (*model.Order, error) {
	if len(items) == 0 {
		return nil, domainErrors.ErrValidation
	}

	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rest, err := u.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrValidation
		}
		return nil, err
	}

	menu := make(map[string]model.MenuItem, len(rest.Menu))
	for _, item := range rest.Menu {
		menu[item.Name] = item
	}

	order := model.Order{
		ID:             uuid.NewString(),
		UserID:         userID,
		RestaurantID:   restaurantID,
		Status:         model.OrderStatusCreated,
		IdempotencyKey: idempotencyKey,
		Total:          decimal.Zero,
	}

	for _, cart := range items {
		name := strings.TrimSpace(cart.Name)
		if name == "" || cart.Quantity <= 0 {
			return nil, domainErrors.ErrValidation
		}
		menuItem, ok := menu[name]
		if !ok {
			return nil, domainErrors.ErrValidation
		}

		unit := pricing.FinalPrice(menuItem.BasePrice, rest.PricingRules)
		order.Items = append(order.Items, model.OrderItem{
			Name:      name,
			UnitPrice: unit,
			Quantity:  cart.Quantity,
		})
		order.Total = order.Total.Add(pricing.LineTotal(unit, cart.Quantity))
	}

	created, err := u.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	u.publishPlaced(ctx, created, rest.Location, destinationFor(user))
	return created, nil
}

// publishPlaced emits order.placed. The order stands even if the publish
// fails: the two records are only eventually consistent, and the order
// must exist before any assignment referencing it.
func (u *OrderUseCase) publishPlaced(ctx context.Context, order *model.Order, start, dest model.Coordinate) {
	ev := events.OrderPlaced{
		OrderID:       order.ID,
		UserID:        order.UserID,
		RestaurantID:  order.RestaurantID,
		Total:         order.Total,
		StartLocation: start,
		DestLocation:  dest,
		CreatedAt:     order.CreatedAt,
	}
	if err := u.publisher.Publish(ctx, events.KeyOrderPlaced, ev); err != nil {
		u.logger.Error("order.placed publish failed",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}

func destinationFor(user *model.User) model.Coordinate {
	if len(user.Addresses) > 0 {
		return user.Addresses[0].Location
	}
	return fallbackDest
}

// Get returns an order snapshot scoped to its owner.
func (u *OrderUseCase) Get(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		// A foreign order is indistinguishable from a missing one.
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// ListByUser returns the user's orders, most recent first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// SyncStatus mirrors delivery progress onto the informational order status.
func (u *OrderUseCase) SyncStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	return u.orders.UpdateStatus(ctx, orderID, status)
}
