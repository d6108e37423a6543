package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
	testhelpers "github.com/chowline/chowline/internal/test"
	"github.com/chowline/chowline/internal/usecase"
)

func seedRestaurant() model.Restaurant {
	return model.Restaurant{
		Name:     "Mama Mia",
		Category: "italian",
		Location: model.Coordinate{Lat: 1, Lng: 1},
		Menu: []model.MenuItem{
			{Name: "Margherita", BasePrice: decimal.NewFromInt(10), Currency: "USD"},
		},
		PricingRules: []model.PricingRule{
			{Type: model.RuleTypeTax, Strategy: model.RuleStrategyPercentage, Value: decimal.NewFromInt(8)},
		},
	}
}

func TestCatalogUseCaseGetDecoratesMenu(t *testing.T) {
	repo := &testhelpers.RestaurantRepositoryStub{}
	uc := usecase.NewCatalogUseCase(repo)

	ctx := context.Background()
	created, err := uc.CreateRestaurant(ctx, seedRestaurant())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, entries, err := uc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one menu entry, got %d", len(entries))
	}
	if got := entries[0].FinalPrice.StringFixed(2); got != "10.80" {
		t.Fatalf("expected 10.80 effective price, got %s", got)
	}
	if got := entries[0].BasePrice.StringFixed(2); got != "10.00" {
		t.Fatalf("base price must stay untouched, got %s", got)
	}
}

func TestCatalogUseCaseCreateValidation(t *testing.T) {
	uc := usecase.NewCatalogUseCase(&testhelpers.RestaurantRepositoryStub{})

	if _, err := uc.CreateRestaurant(context.Background(), model.Restaurant{Name: "  "}); err != domainErrors.ErrValidation {
		t.Fatalf("expected ErrValidation for blank name, got %v", err)
	}

	bad := seedRestaurant()
	bad.Menu[0].BasePrice = decimal.NewFromInt(-1)
	if _, err := uc.CreateRestaurant(context.Background(), bad); err != domainErrors.ErrValidation {
		t.Fatalf("expected ErrValidation for negative base price, got %v", err)
	}
}

func TestCatalogUseCaseAddMenuItem(t *testing.T) {
	repo := &testhelpers.RestaurantRepositoryStub{}
	uc := usecase.NewCatalogUseCase(repo)

	ctx := context.Background()
	created, err := uc.CreateRestaurant(ctx, seedRestaurant())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := uc.AddMenuItem(ctx, created.ID, model.MenuItem{Name: ""}); err != domainErrors.ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	item, err := uc.AddMenuItem(ctx, created.ID, model.MenuItem{Name: "Calzone", BasePrice: decimal.NewFromInt(12)})
	if err != nil {
		t.Fatalf("add menu item failed: %v", err)
	}
	if item.RestaurantID != created.ID {
		t.Fatalf("item not bound to restaurant: %+v", item)
	}
}

func TestCatalogUseCaseSetPricingRules(t *testing.T) {
	repo := &testhelpers.RestaurantRepositoryStub{}
	uc := usecase.NewCatalogUseCase(repo)

	ctx := context.Background()
	created, err := uc.CreateRestaurant(ctx, seedRestaurant())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := uc.SetPricingRules(ctx, created.ID, []model.PricingRule{{Type: "", Strategy: model.RuleStrategyFixed}}); err != domainErrors.ErrValidation {
		t.Fatalf("expected ErrValidation for empty type, got %v", err)
	}

	// Unknown combinations pass through; the engine ignores them at pricing time.
	rules := []model.PricingRule{
		{Type: model.RuleTypeDiscount, Strategy: "mystery", Value: decimal.NewFromInt(5)},
	}
	if err := uc.SetPricingRules(ctx, created.ID, rules); err != nil {
		t.Fatalf("unknown combination must be accepted, got %v", err)
	}
	if got := repo.ReplacedRules[created.ID]; len(got) != 1 {
		t.Fatalf("rules not stored: %+v", got)
	}
}
