package test

import (
	"context"
	"sync"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
	"github.com/chowline/chowline/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users  map[string]*model.User
	ByID   map[int64]*model.User
	Next   int64
	NextAd int64
	Err    error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users:  make(map[string]*model.User),
		ByID:   make(map[int64]*model.User),
		Next:   1,
		NextAd: 1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Users[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Name: name, Email: email, PasswordHash: passwordHash}
	s.Next++
	s.Users[email] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// AddAddress appends an address to an existing user.
func (s *UserRepositoryStub) AddAddress(ctx context.Context, userID int64, addr model.Address) (*model.Address, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.ByID[userID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if s.NextAd == 0 {
		s.NextAd = 1
	}
	addr.ID = s.NextAd
	addr.UserID = userID
	s.NextAd++
	user.Addresses = append(user.Addresses, addr)
	return &addr, nil
}

// ListAddresses returns the user's stored addresses.
func (s *UserRepositoryStub) ListAddresses(ctx context.Context, userID int64) ([]model.Address, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.ByID[userID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return user.Addresses, nil
}

// RestaurantRepositoryStub serves catalog data from configured slices.
type RestaurantRepositoryStub struct {
	CreateFn      func(context.Context, model.Restaurant) (*model.Restaurant, error)
	GetByIDFn     func(context.Context, int64) (*model.Restaurant, error)
	ListFn        func(context.Context, int) ([]model.Restaurant, error)
	AddMenuItemFn func(context.Context, int64, model.MenuItem) (*model.MenuItem, error)

	Restaurants   []model.Restaurant
	ReplacedRules map[int64][]model.PricingRule
	Next          int64
}

// Create stores the restaurant either via override or in the slice.
func (s *RestaurantRepositoryStub) Create(ctx context.Context, r model.Restaurant) (*model.Restaurant, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, r)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	r.ID = s.Next
	s.Next++
	s.Restaurants = append(s.Restaurants, r)
	stored := r
	return &stored, nil
}

// GetByID returns the matching restaurant or not found.
func (s *RestaurantRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Restaurant, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, r := range s.Restaurants {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// List returns up to limit restaurants from the configured slice.
func (s *RestaurantRepositoryStub) List(ctx context.Context, limit int) ([]model.Restaurant, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, limit)
	}
	if limit > 0 && limit < len(s.Restaurants) {
		return s.Restaurants[:limit], nil
	}
	return s.Restaurants, nil
}

// AddMenuItem appends an item to the matching restaurant's menu.
func (s *RestaurantRepositoryStub) AddMenuItem(ctx context.Context, restaurantID int64, item model.MenuItem) (*model.MenuItem, error) {
	if s.AddMenuItemFn != nil {
		return s.AddMenuItemFn(ctx, restaurantID, item)
	}
	for i := range s.Restaurants {
		if s.Restaurants[i].ID == restaurantID {
			item.RestaurantID = restaurantID
			item.ID = int64(len(s.Restaurants[i].Menu) + 1)
			s.Restaurants[i].Menu = append(s.Restaurants[i].Menu, item)
			stored := item
			return &stored, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ReplacePricingRules records the new rule set for a restaurant.
func (s *RestaurantRepositoryStub) ReplacePricingRules(ctx context.Context, restaurantID int64, rules []model.PricingRule) error {
	for i := range s.Restaurants {
		if s.Restaurants[i].ID == restaurantID {
			s.Restaurants[i].PricingRules = rules
			if s.ReplacedRules == nil {
				s.ReplacedRules = make(map[int64][]model.PricingRule)
			}
			s.ReplacedRules[restaurantID] = rules
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn       func(context.Context, model.Order) (*model.Order, error)
	GetByIDFn      func(context.Context, string) (*model.Order, error)
	ListByUserFn   func(context.Context, int64) ([]model.Order, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus) error

	Orders      []model.Order
	UpdateCalls []OrderStatusCall
}

// OrderStatusCall records a single UpdateStatus invocation.
type OrderStatusCall struct {
	OrderID string
	Status  model.OrderStatus
}

// Create tracks the order and returns configured responses.
func (s *OrderRepositoryStub) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.Orders = append(s.Orders, order)
	stored := order
	return &stored, nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns orders from the configured slice.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	var out []model.Order
	for _, o := range s.Orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// UpdateStatus records the call and mutates the stored order if present.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	s.UpdateCalls = append(s.UpdateCalls, OrderStatusCall{OrderID: id, Status: status})
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status)
	}
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			s.Orders[i].Status = status
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// AssignmentRepositoryStub keeps assignments in-memory and enforces the
// same monotonic guards as the real store.
type AssignmentRepositoryStub struct {
	mu          sync.Mutex
	Assignments map[string]*model.DeliveryAssignment

	AdvanceFn func(context.Context, string, repository.AssignmentUpdate) (*model.DeliveryAssignment, error)
}

// NewAssignmentRepositoryStub constructs the stub with an initialized map.
func NewAssignmentRepositoryStub() *AssignmentRepositoryStub {
	return &AssignmentRepositoryStub{Assignments: make(map[string]*model.DeliveryAssignment)}
}

// Create opens an assignment unless its order already has one.
func (s *AssignmentRepositoryStub) Create(ctx context.Context, a model.DeliveryAssignment) (*model.DeliveryAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Assignments[a.OrderID]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	stored := a
	s.Assignments[a.OrderID] = &stored
	out := stored
	return &out, nil
}

// GetByOrderID returns a copy of the stored assignment.
func (s *AssignmentRepositoryStub) GetByOrderID(ctx context.Context, orderID string) (*model.DeliveryAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Assignments[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *a
	return &out, nil
}

// ClaimActive returns up to limit non-terminal assignments.
func (s *AssignmentRepositoryStub) ClaimActive(ctx context.Context, limit int) ([]model.DeliveryAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.DeliveryAssignment
	for _, a := range s.Assignments {
		if a.Status.Terminal() {
			continue
		}
		out = append(out, *a)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Advance applies an update with the store's monotonic semantics: status
// never moves backwards, progress never decreases, terminal rows reject
// further updates and the rider is set at most once.
func (s *AssignmentRepositoryStub) Advance(ctx context.Context, orderID string, upd repository.AssignmentUpdate) (*model.DeliveryAssignment, error) {
	if s.AdvanceFn != nil {
		return s.AdvanceFn(ctx, orderID, upd)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Assignments[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if a.Status.Terminal() {
		return nil, domainErrors.ErrAssignmentComplete
	}
	if a.Status.CanAdvanceTo(upd.Status) {
		a.Status = upd.Status
	}
	if a.RiderID == nil && upd.RiderID != nil {
		a.RiderID = upd.RiderID
	}
	if upd.Progress > a.Progress {
		a.Progress = upd.Progress
	}
	a.CurrentLocation = upd.Location
	out := *a
	return &out, nil
}

// NotificationRepositoryStub appends notifications to a slice.
type NotificationRepositoryStub struct {
	Notifications []model.Notification
	Err           error
	Next          int64
}

// Append stores the notification and assigns an identifier.
func (s *NotificationRepositoryStub) Append(ctx context.Context, n model.Notification) (*model.Notification, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Next == 0 {
		s.Next = 1
	}
	n.ID = s.Next
	s.Next++
	s.Notifications = append(s.Notifications, n)
	stored := n
	return &stored, nil
}

// ListByUser filters stored notifications by user.
func (s *NotificationRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Notification
	for _, n := range s.Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

var (
	_ repository.UserRepository         = (*UserRepositoryStub)(nil)
	_ repository.RestaurantRepository   = (*RestaurantRepositoryStub)(nil)
	_ repository.OrderRepository        = (*OrderRepositoryStub)(nil)
	_ repository.AssignmentRepository   = (*AssignmentRepositoryStub)(nil)
	_ repository.NotificationRepository = (*NotificationRepositoryStub)(nil)
)
