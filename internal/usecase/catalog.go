package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/chowline/chowline/internal/domain/errors"
	"github.com/chowline/chowline/internal/domain/model"
	"github.com/chowline/chowline/internal/domain/repository"
	"github.com/chowline/chowline/internal/pricing"
)

const listRestaurantsLimit = 100

// CatalogUseCase owns restaurant, menu and pricing-rule administration and
// the read path that decorates menus with effective prices.
type CatalogUseCase struct {
	restaurants repository.RestaurantRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(restaurants repository.RestaurantRepository) *CatalogUseCase {
	return &CatalogUseCase{restaurants: restaurants}
}

// List returns known restaurants without their menus.
func (u *CatalogUseCase) List(ctx context.Context) ([]model.Restaurant, error) {
	return u.restaurants.List(ctx, listRestaurantsLimit)
}

// Get returns a restaurant along with its menu priced through the current
// rule set.
func (u *CatalogUseCase) Get(ctx context.Context, id int64) (*model.Restaurant, []model.MenuEntry, error) {
	rest, err := u.restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]model.MenuEntry, 0, len(rest.Menu))
	for _, item := range rest.Menu {
		entries = append(entries, model.MenuEntry{
			MenuItem:   item,
			FinalPrice: pricing.FinalPrice(item.BasePrice, rest.PricingRules),
		})
	}
	return rest, entries, nil
}

// CreateRestaurant registers a restaurant with an optional initial menu and
// rule set. Operator-only; the transport layer enforces the credential.
func (u *CatalogUseCase) CreateRestaurant(ctx context.Context, rest model.Restaurant) (*model.Restaurant, error) {
	if strings.TrimSpace(rest.Name) == "" {
		return nil, domainErrors.ErrValidation
	}
	for _, item := range rest.Menu {
		if err := validateMenuItem(item); err != nil {
			return nil, err
		}
	}
	return u.restaurants.Create(ctx, rest)
}

// AddMenuItem appends a dish to a restaurant's menu. Operator-only.
func (u *CatalogUseCase) AddMenuItem(ctx context.Context, restaurantID int64, item model.MenuItem) (*model.MenuItem, error) {
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}
	return u.restaurants.AddMenuItem(ctx, restaurantID, item)
}

// SetPricingRules replaces the restaurant's rule set. Operator-only.
// Unknown type/strategy combinations are accepted: the pricing engine
// skips them, and rejecting here would break older operator tooling.
func (u *CatalogUseCase) SetPricingRules(ctx context.Context, restaurantID int64, rules []model.PricingRule) error {
	for _, rule := range rules {
		if rule.Type == "" || rule.Strategy == "" {
			return domainErrors.ErrValidation
		}
	}
	return u.restaurants.ReplacePricingRules(ctx, restaurantID, rules)
}

func validateMenuItem(item model.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" || item.BasePrice.IsNegative() {
		return domainErrors.ErrValidation
	}
	return nil
}
