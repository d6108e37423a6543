package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
	"github.com/chowline/chowline/internal/events"
	testhelpers "github.com/chowline/chowline/internal/test"
	"github.com/chowline/chowline/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type orderFixture struct {
	users       *testhelpers.UserRepositoryStub
	restaurants *testhelpers.RestaurantRepositoryStub
	orders      *testhelpers.OrderRepositoryStub
	publisher   *testhelpers.PublisherStub
	uc          *usecase.OrderUseCase
	userID      int64
	restID      int64
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	users := testhelpers.NewUserRepositoryStub()
	user, err := users.Create(context.Background(), "Alice", "alice@example.com", "hash:pw")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := users.AddAddress(context.Background(), user.ID, model.Address{
		Street: "1 Main St", City: "Springfield", Location: model.Coordinate{Lat: 20, Lng: 20},
	}); err != nil {
		t.Fatalf("seed address: %v", err)
	}

	restaurants := &testhelpers.RestaurantRepositoryStub{}
	rest, err := restaurants.Create(context.Background(), model.Restaurant{
		Name:     "Mama Mia",
		Location: model.Coordinate{Lat: 1, Lng: 1},
		Menu: []model.MenuItem{
			{Name: "Margherita", BasePrice: decimal.NewFromInt(10)},
		},
		PricingRules: []model.PricingRule{
			{Type: model.RuleTypeTax, Strategy: model.RuleStrategyPercentage, Value: decimal.NewFromInt(8)},
		},
	})
	if err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}

	orders := &testhelpers.OrderRepositoryStub{}
	publisher := &testhelpers.PublisherStub{}
	uc := usecase.NewOrderUseCase(orders, users, restaurants, publisher, discardLogger())
	return &orderFixture{
		users: users, restaurants: restaurants, orders: orders, publisher: publisher,
		uc: uc, userID: user.ID, restID: rest.ID,
	}
}

func TestOrderUseCasePlaceRecomputesPrices(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.uc.Place(context.Background(), f.userID, f.restID, []usecase.CartItem{
		{Name: "Margherita", Quantity: 3},
	}, "idem-1")
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}

	if order.ID == "" {
		t.Fatalf("expected generated order id")
	}
	if order.Status != model.OrderStatusCreated {
		t.Fatalf("unexpected status %s", order.Status)
	}
	if got := order.Items[0].UnitPrice.StringFixed(2); got != "10.80" {
		t.Fatalf("unit price not recomputed: %s", got)
	}
	if got := order.Total.StringFixed(2); got != "32.40" {
		t.Fatalf("unexpected total %s", got)
	}
	if order.IdempotencyKey != "idem-1" {
		t.Fatalf("idempotency key not stored")
	}
}

func TestOrderUseCasePlacePublishesAfterCreate(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.uc.Place(context.Background(), f.userID, f.restID, []usecase.CartItem{{Name: "Margherita", Quantity: 1}}, "")
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}

	published := f.publisher.Published()
	if len(published) != 1 || published[0].RoutingKey != events.KeyOrderPlaced {
		t.Fatalf("expected a single order.placed event, got %+v", published)
	}
	ev, ok := published[0].Payload.(events.OrderPlaced)
	if !ok {
		t.Fatalf("unexpected payload type %T", published[0].Payload)
	}
	if ev.OrderID != order.ID || ev.UserID != f.userID {
		t.Fatalf("event does not reference the order: %+v", ev)
	}
	if ev.StartLocation != (model.Coordinate{Lat: 1, Lng: 1}) {
		t.Fatalf("start must be the restaurant location: %+v", ev.StartLocation)
	}
	if ev.DestLocation != (model.Coordinate{Lat: 20, Lng: 20}) {
		t.Fatalf("destination must be the stored address: %+v", ev.DestLocation)
	}
}

func TestOrderUseCasePlaceSurvivesPublishFailure(t *testing.T) {
	f := newOrderFixture(t)
	f.publisher.Err = context.DeadlineExceeded

	order, err := f.uc.Place(context.Background(), f.userID, f.restID, []usecase.CartItem{{Name: "Margherita", Quantity: 1}}, "")
	if err != nil {
		t.Fatalf("order must stand despite publish failure: %v", err)
	}
	if _, err := f.orders.GetByID(context.Background(), order.ID); err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
}

func TestOrderUseCasePlaceValidation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Place(ctx, f.userID, f.restID, nil, ""); err != domainErrors.ErrValidation {
		t.Fatalf("empty cart: expected ErrValidation, got %v", err)
	}
	if _, err := f.uc.Place(ctx, f.userID, f.restID, []usecase.CartItem{{Name: "Margherita", Quantity: 0}}, ""); err != domainErrors.ErrValidation {
		t.Fatalf("zero quantity: expected ErrValidation, got %v", err)
	}
	if _, err := f.uc.Place(ctx, f.userID, f.restID, []usecase.CartItem{{Name: "Sushi", Quantity: 1}}, ""); err != domainErrors.ErrValidation {
		t.Fatalf("item off the menu: expected ErrValidation, got %v", err)
	}
	if _, err := f.uc.Place(ctx, f.userID, 999, []usecase.CartItem{{Name: "Margherita", Quantity: 1}}, ""); err != domainErrors.ErrValidation {
		t.Fatalf("unknown restaurant: expected ErrValidation, got %v", err)
	}
	if _, err := f.uc.Place(ctx, 999, f.restID, []usecase.CartItem{{Name: "Margherita", Quantity: 1}}, ""); err != domainErrors.ErrNotFound {
		t.Fatalf("unknown user: expected ErrNotFound, got %v", err)
	}
	if got := len(f.publisher.Published()); got != 0 {
		t.Fatalf("rejected orders must not publish, got %d events", got)
	}
}

func TestOrderUseCaseGetScopedToOwner(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.uc.Place(ctx, f.userID, f.restID, []usecase.CartItem{{Name: "Margherita", Quantity: 1}}, "")
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}

	if _, err := f.uc.Get(ctx, f.userID, order.ID); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if _, err := f.uc.Get(ctx, f.userID+1, order.ID); err != domainErrors.ErrNotFound {
		t.Fatalf("foreign order must read as missing, got %v", err)
	}
}
