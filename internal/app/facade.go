package app

import (
	"context"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
	"github.com/chowline/chowline/internal/events"
	"github.com/chowline/chowline/internal/usecase"
)

// OrderingFacade aggregates the platform's use cases behind a single
// surface consumed by the HTTP layer, the courier worker and the queue
// consumers.
type OrderingFacade struct {
	auth          *usecase.AuthUseCase
	catalog       *usecase.CatalogUseCase
	orders        *usecase.OrderUseCase
	delivery      *usecase.DeliveryUseCase
	notifications *usecase.NotificationUseCase
}

// NewOrderingFacade constructs the facade.
func NewOrderingFacade(
	auth *usecase.AuthUseCase,
	catalog *usecase.CatalogUseCase,
	orders *usecase.OrderUseCase,
	delivery *usecase.DeliveryUseCase,
	notifications *usecase.NotificationUseCase,
) *OrderingFacade {
	return &OrderingFacade{
		auth:          auth,
		catalog:       catalog,
		orders:        orders,
		delivery:      delivery,
		notifications: notifications,
	}
}

func (f *OrderingFacade) Register(ctx context.Context, name, email, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, name, email, password)
	return token, err
}

func (f *OrderingFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *OrderingFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *OrderingFacade) Profile(ctx context.Context, userID int64) (*model.User, error) {
	return f.auth.Profile(ctx, userID)
}

func (f *OrderingFacade) AddAddress(ctx context.Context, userID int64, addr model.Address) (*model.Address, error) {
	return f.auth.AddAddress(ctx, userID, addr)
}

func (f *OrderingFacade) Restaurants(ctx context.Context) ([]model.Restaurant, error) {
	return f.catalog.List(ctx)
}

func (f *OrderingFacade) Restaurant(ctx context.Context, id int64) (*model.Restaurant, []model.MenuEntry, error) {
	return f.catalog.Get(ctx, id)
}

func (f *OrderingFacade) CreateRestaurant(ctx context.Context, rest model.Restaurant) (*model.Restaurant, error) {
	return f.catalog.CreateRestaurant(ctx, rest)
}

func (f *OrderingFacade) AddMenuItem(ctx context.Context, restaurantID int64, item model.MenuItem) (*model.MenuItem, error) {
	return f.catalog.AddMenuItem(ctx, restaurantID, item)
}

func (f *OrderingFacade) SetPricingRules(ctx context.Context, restaurantID int64, rules []model.PricingRule) error {
	return f.catalog.SetPricingRules(ctx, restaurantID, rules)
}

func (f *OrderingFacade) PlaceOrder(ctx context.Context, userID, restaurantID int64, items []usecase.CartItem, idempotencyKey string) (*model.Order, error) {
	return f.orders.Place(ctx, userID, restaurantID, items, idempotencyKey)
}

func (f *OrderingFacade) Order(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	return f.orders.Get(ctx, userID, orderID)
}

func (f *OrderingFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

// Delivery returns the assignment for an order, scoped to its owner the
// same way order reads are.
func (f *OrderingFacade) Delivery(ctx context.Context, userID int64, orderID string) (*model.DeliveryAssignment, error) {
	a, err := f.delivery.Snapshot(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return a, nil
}

func (f *OrderingFacade) Notifications(ctx context.Context, userID int64) ([]model.Notification, error) {
	return f.notifications.ListByUser(ctx, userID)
}

// AssignmentsForAdvance feeds the courier worker pool.
func (f *OrderingFacade) AssignmentsForAdvance(ctx context.Context, limit int) ([]model.DeliveryAssignment, error) {
	return f.delivery.ActiveBatch(ctx, limit)
}

func (f *OrderingFacade) AssignRider(ctx context.Context, a model.DeliveryAssignment) (*model.DeliveryAssignment, error) {
	return f.delivery.Assign(ctx, a)
}

func (f *OrderingFacade) AdvanceDelivery(ctx context.Context, a model.DeliveryAssignment, step int) (*model.DeliveryAssignment, error) {
	return f.delivery.Step(ctx, a, step)
}

// OpenAssignment is the order.placed consumer entry point.
func (f *OrderingFacade) OpenAssignment(ctx context.Context, ev events.OrderPlaced) error {
	return f.delivery.Open(ctx, ev)
}

// RecordNotification is the notifications consumer entry point.
func (f *OrderingFacade) RecordNotification(ctx context.Context, routingKey string, body []byte) error {
	return f.notifications.RecordFromEvent(ctx, routingKey, body)
}
