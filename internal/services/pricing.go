package services

import (
	"tyrezone/internal/config"
	"tyrezone/internal/models"

	"github.com/shopspring/decimal"
)

// PricingRules holds the shipping and tax parameters of checkout.
type PricingRules struct {
	FreeShippingThreshold decimal.Decimal
	StandardRate          decimal.Decimal
	ExpressRate           decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultPricingRules are the storefront's published rates.
func DefaultPricingRules() PricingRules {
	return PricingRules{
		FreeShippingThreshold: decimal.NewFromInt(500),
		StandardRate:          decimal.RequireFromString("29.99"),
		ExpressRate:           decimal.RequireFromString("49.99"),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

// PricingRulesFromConfig converts the configured rates.
func PricingRulesFromConfig(cfg config.CheckoutConfig) PricingRules {
	return PricingRules{
		FreeShippingThreshold: decimal.NewFromFloat(cfg.FreeShippingThreshold),
		StandardRate:          decimal.NewFromFloat(cfg.StandardRate),
		ExpressRate:           decimal.NewFromFloat(cfg.ExpressRate),
		TaxRate:               decimal.NewFromFloat(cfg.TaxRate),
	}
}

// Quote is the price breakdown of an order.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ShippingCost returns the express rate for express delivery. Standard delivery
// is free from the threshold upwards.
func (r PricingRules) ShippingCost(method models.ShippingMethod, subtotal decimal.Decimal) decimal.Decimal {
	if method == models.ShippingExpress {
		return r.ExpressRate
	}
	if subtotal.GreaterThanOrEqual(r.FreeShippingThreshold) {
		return decimal.Zero
	}
	return r.StandardRate
}

// QuoteOrder prices subtotal for the given shipping method. Tax applies to the
// subtotal only and is rounded to cents.
func (r PricingRules) QuoteOrder(method models.ShippingMethod, subtotal decimal.Decimal) Quote {
	shipping := r.ShippingCost(method, subtotal)
	tax := subtotal.Mul(r.TaxRate).Round(2)
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// Estimate is the cart page preview: standard shipping, no tax.
func (r PricingRules) Estimate(subtotal decimal.Decimal) Quote {
	shipping := r.ShippingCost(models.ShippingStandard, subtotal)
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      decimal.Zero,
		Total:    subtotal.Add(shipping),
	}
}
