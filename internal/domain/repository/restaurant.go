package repository

import (
	"context"

	"github.com/chowline/chowline/internal/domain/model"
)

// RestaurantRepository owns catalog data: restaurants, menus, pricing rules.
type RestaurantRepository interface {
	Create(ctx context.Context, r model.Restaurant) (*model.Restaurant, error)
	GetByID(ctx context.Context, id int64) (*model.Restaurant, error)
	List(ctx context.Context, limit int) ([]model.Restaurant, error)
	AddMenuItem(ctx context.Context, restaurantID int64, item model.MenuItem) (*model.MenuItem, error)
	ReplacePricingRules(ctx context.Context, restaurantID int64, rules []model.PricingRule) error
}
