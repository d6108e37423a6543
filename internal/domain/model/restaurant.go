package model

import "github.com/shopspring/decimal"

// Coordinate is a latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Restaurant aggregates a menu and the pricing rules applied to it.
type Restaurant struct {
	ID           int64
	Name         string
	Category     string
	Location     Coordinate
	Menu         []MenuItem
	PricingRules []PricingRule
}

// MenuItem is a sellable dish. The name is unique within a restaurant and
// the base price is immutable from the point of view of order placement.
type MenuItem struct {
	ID           int64
	RestaurantID int64
	Name         string
	Description  string
	BasePrice    decimal.Decimal
	Currency     string
}

// RuleType partitions pricing rules into taxes and discounts.
type RuleType string

// RuleStrategy selects how a rule's value is applied.
type RuleStrategy string

const (
	RuleTypeTax      RuleType = "tax"
	RuleTypeDiscount RuleType = "discount"

	RuleStrategyPercentage RuleStrategy = "percentage"
	RuleStrategyFixed      RuleStrategy = "fixed"
)

// PricingRule adjusts a menu item's base price. Rules are stored unordered;
// application order is all taxes first, then all discounts, each group in
// list order (Position).
type PricingRule struct {
	ID           int64
	RestaurantID int64
	Type         RuleType
	Strategy     RuleStrategy
	Value        decimal.Decimal
	Position     int
}

// MenuEntry pairs a menu item with its currently effective price.
type MenuEntry struct {
	MenuItem
	FinalPrice decimal.Decimal
}
