package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chowline/chowline/internal/domain/model"
	"github.com/chowline/chowline/internal/usecase"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (int64, error)
	ProfileFn      func(context.Context, int64) (*model.User, error)
	AddAddressFn   func(context.Context, int64, model.Address) (*model.Address, error)
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, name, email, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, name, email, password)
	}
	return "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return "token", nil
}

// ParseToken returns stored identifier for authenticated user.
func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// Profile returns the configured user profile.
func (s AuthFacadeStub) Profile(ctx context.Context, userID int64) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, userID)
	}
	return &model.User{ID: userID, Name: "Test", Email: "test@example.com"}, nil
}

// AddAddress delegates or echoes the address back with an id.
func (s AuthFacadeStub) AddAddress(ctx context.Context, userID int64, addr model.Address) (*model.Address, error) {
	if s.AddAddressFn != nil {
		return s.AddAddressFn(ctx, userID, addr)
	}
	addr.ID = 1
	addr.UserID = userID
	return &addr, nil
}

// CatalogFacadeStub simulates catalog browsing and administration.
type CatalogFacadeStub struct {
	RestaurantsFn       func(context.Context) ([]model.Restaurant, error)
	RestaurantFn        func(context.Context, int64) (*model.Restaurant, []model.MenuEntry, error)
	CreateRestaurantFn  func(context.Context, model.Restaurant) (*model.Restaurant, error)
	AddMenuItemFn       func(context.Context, int64, model.MenuItem) (*model.MenuItem, error)
	SetPricingRulesFn   func(context.Context, int64, []model.PricingRule) error
}

// Restaurants returns the configured listing.
func (s CatalogFacadeStub) Restaurants(ctx context.Context) ([]model.Restaurant, error) {
	if s.RestaurantsFn != nil {
		return s.RestaurantsFn(ctx)
	}
	return []model.Restaurant{{ID: 1, Name: "Test Kitchen"}}, nil
}

// Restaurant returns the configured detail view.
func (s CatalogFacadeStub) Restaurant(ctx context.Context, id int64) (*model.Restaurant, []model.MenuEntry, error) {
	if s.RestaurantFn != nil {
		return s.RestaurantFn(ctx, id)
	}
	return &model.Restaurant{ID: id, Name: "Test Kitchen"}, nil, nil
}

// CreateRestaurant echoes the restaurant back with an id.
func (s CatalogFacadeStub) CreateRestaurant(ctx context.Context, rest model.Restaurant) (*model.Restaurant, error) {
	if s.CreateRestaurantFn != nil {
		return s.CreateRestaurantFn(ctx, rest)
	}
	rest.ID = 1
	return &rest, nil
}

// AddMenuItem echoes the item back with identifiers set.
func (s CatalogFacadeStub) AddMenuItem(ctx context.Context, restaurantID int64, item model.MenuItem) (*model.MenuItem, error) {
	if s.AddMenuItemFn != nil {
		return s.AddMenuItemFn(ctx, restaurantID, item)
	}
	item.ID = 1
	item.RestaurantID = restaurantID
	return &item, nil
}

// SetPricingRules delegates to the override when present.
func (s CatalogFacadeStub) SetPricingRules(ctx context.Context, restaurantID int64, rules []model.PricingRule) error {
	if s.SetPricingRulesFn != nil {
		return s.SetPricingRulesFn(ctx, restaurantID, rules)
	}
	return nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn  func(context.Context, int64, int64, []usecase.CartItem, string) (*model.Order, error)
	OrderFn  func(context.Context, int64, string) (*model.Order, error)
	OrdersFn func(context.Context, int64) ([]model.Order, error)
}

// PlaceOrder delegates to provided function or returns a default order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, userID, restaurantID int64, items []usecase.CartItem, idempotencyKey string) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, userID, restaurantID, items, idempotencyKey)
	}
	return &model.Order{ID: "ord-1", UserID: userID, RestaurantID: restaurantID, Status: model.OrderStatusCreated}, nil
}

// Order returns the configured order.
func (s OrderFacadeStub) Order(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, userID, orderID)
	}
	return &model.Order{ID: orderID, UserID: userID}, nil
}

// Orders returns predefined orders for given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{ID: "ord-1", UserID: userID}}, nil
}

// DeliveryFacadeStub serves delivery tracking reads.
type DeliveryFacadeStub struct {
	DeliveryFn func(context.Context, int64, string) (*model.DeliveryAssignment, error)
}

// Delivery returns the configured assignment snapshot.
func (s DeliveryFacadeStub) Delivery(ctx context.Context, userID int64, orderID string) (*model.DeliveryAssignment, error) {
	if s.DeliveryFn != nil {
		return s.DeliveryFn(ctx, userID, orderID)
	}
	return &model.DeliveryAssignment{OrderID: orderID, UserID: userID, Status: model.AssignmentStatusCreated}, nil
}

// NotificationFacadeStub serves the notification feed.
type NotificationFacadeStub struct {
	NotificationsFn func(context.Context, int64) ([]model.Notification, error)
}

// Notifications returns the configured feed.
func (s NotificationFacadeStub) Notifications(ctx context.Context, userID int64) ([]model.Notification, error) {
	if s.NotificationsFn != nil {
		return s.NotificationsFn(ctx, userID)
	}
	return []model.Notification{{ID: 1, UserID: userID, Title: "Order received"}}, nil
}

// PlatformFacadeStub aggregates facade dependencies for HTTP layer tests.
type PlatformFacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	OrderFacadeStub
	DeliveryFacadeStub
	NotificationFacadeStub
}

// AdvanceCall records a courier interaction with an assignment.
type AdvanceCall struct {
	OrderID string
	Status  model.AssignmentStatus
	Step    int
}

// CourierFacadeStub mimics courier interactions with the delivery facade.
type CourierFacadeStub struct {
	Batches   [][]model.DeliveryAssignment
	BatchFn   func(context.Context, int) ([]model.DeliveryAssignment, error)
	AssignFn  func(context.Context, model.DeliveryAssignment) (*model.DeliveryAssignment, error)
	AdvanceFn func(context.Context, model.DeliveryAssignment, int) (*model.DeliveryAssignment, error)

	Assigned       []AdvanceCall
	Advanced       []AdvanceCall
	mu             sync.Mutex
	batchCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *CourierFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *CourierFacadeStub) Unlock() { s.mu.Unlock() }

// AssignmentsForAdvance returns batches from the configured queue.
func (s *CourierFacadeStub) AssignmentsForAdvance(ctx context.Context, limit int) ([]model.DeliveryAssignment, error) {
	if s.BatchFn != nil {
		return s.BatchFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchCallCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// AssignRider records assignment requests.
func (s *CourierFacadeStub) AssignRider(ctx context.Context, a model.DeliveryAssignment) (*model.DeliveryAssignment, error) {
	if s.AssignFn != nil {
		return s.AssignFn(ctx, a)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Assigned = append(s.Assigned, AdvanceCall{OrderID: a.OrderID, Status: a.Status})
	rider := "rider-test"
	a.Status = model.AssignmentStatusAssigned
	a.RiderID = &rider
	return &a, nil
}

// AdvanceDelivery records advancement requests.
func (s *CourierFacadeStub) AdvanceDelivery(ctx context.Context, a model.DeliveryAssignment, step int) (*model.DeliveryAssignment, error) {
	if s.AdvanceFn != nil {
		return s.AdvanceFn(ctx, a, step)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Advanced = append(s.Advanced, AdvanceCall{OrderID: a.OrderID, Status: a.Status, Step: step})
	a.Progress += step
	if a.Progress >= 100 {
		a.Progress = 100
		a.Status = model.AssignmentStatusDelivered
	} else {
		a.Status = model.AssignmentStatusInTransit
	}
	return &a, nil
}
