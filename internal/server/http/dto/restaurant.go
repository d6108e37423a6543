package dto

import "github.com/shopspring/decimal"

// CoordinatePayload is a latitude/longitude pair on the wire.
type CoordinatePayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MenuItemPayload describes a dish in create/update requests.
type MenuItemPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Currency    string          `json:"currency,omitempty"`
}

// PricingRulePayload describes a pricing rule on the wire. Type/strategy
// combinations the pricing engine does not know are stored and ignored.
type PricingRulePayload struct {
	Type     string          `json:"type"`
	Strategy string          `json:"strategy"`
	Value    decimal.Decimal `json:"value"`
}

// CreateRestaurantRequest registers a restaurant with an optional initial
// menu and rule set.
type CreateRestaurantRequest struct {
	Name         string               `json:"name"`
	Category     string               `json:"category,omitempty"`
	Location     CoordinatePayload    `json:"location"`
	Menu         []MenuItemPayload    `json:"menu,omitempty"`
	PricingRules []PricingRulePayload `json:"pricing_rules,omitempty"`
}

// SetPricingRulesRequest replaces a restaurant's rule set.
type SetPricingRulesRequest struct {
	Rules []PricingRulePayload `json:"rules"`
}

// RestaurantResponse is the list-view projection of a restaurant.
type RestaurantResponse struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Category string            `json:"category,omitempty"`
	Location CoordinatePayload `json:"location"`
}

// MenuEntryResponse pairs a dish with its effective price.
type MenuEntryResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
	FinalPrice  decimal.Decimal `json:"final_price"`
	Currency    string          `json:"currency,omitempty"`
}

// RestaurantDetailResponse is the detail view with a priced menu.
type RestaurantDetailResponse struct {
	RestaurantResponse
	Menu []MenuEntryResponse `json:"menu"`
}
