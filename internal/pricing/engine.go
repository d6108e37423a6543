// Package pricing computes effective menu prices from tax/discount rules.
// It is pure: no storage, no clock, deterministic for a given input.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/chowline/chowline/internal/domain/model"
)

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)

// adjustment maps a known {type, strategy} pair to its price transformation.
// Unknown pairs are deliberately absent: such rules are skipped without
// error, matching the permissive policy the catalog has always had.
type adjustment func(price, value decimal.Decimal) decimal.Decimal

var adjustments = map[model.RuleType]map[model.RuleStrategy]adjustment{
	model.RuleTypeTax: {
		model.RuleStrategyPercentage: func(price, value decimal.Decimal) decimal.Decimal {
			return price.Add(price.Mul(value).Div(hundred))
		},
		model.RuleStrategyFixed: func(price, value decimal.Decimal) decimal.Decimal {
			return price.Add(value)
		},
	},
	model.RuleTypeDiscount: {
		model.RuleStrategyPercentage: func(price, value decimal.Decimal) decimal.Decimal {
			return price.Sub(price.Mul(value).Div(hundred))
		},
		model.RuleStrategyFixed: func(price, value decimal.Decimal) decimal.Decimal {
			return price.Sub(value)
		},
	},
}

// FinalPrice applies pricing rules to a base price. Taxes are folded over
// the price before discounts regardless of input order; within each group
// rules apply in list order. The result is clamped at zero and rounded to
// two decimal places (half away from zero).
func FinalPrice(base decimal.Decimal, rules []model.PricingRule) decimal.Decimal {
	price := base
	for _, group := range [...]model.RuleType{model.RuleTypeTax, model.RuleTypeDiscount} {
		for _, rule := range rules {
			if rule.Type != group {
				continue
			}
			if apply, ok := adjustments[rule.Type][rule.Strategy]; ok {
				price = apply(price, rule.Value)
			}
		}
	}
	if price.IsNegative() {
		price = zero
	}
	return price.Round(2)
}

// LineTotal returns the order-line amount for a unit price and quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
