package pricing

import (
	"math"

	"renewals-authorization/models"
)

// DefaultTaxRate is the flat tax rate applied to renewal subtotals
const DefaultTaxRate = 0.08

// Engine computes renewal totals from an imported cart and additional line items.
// Amounts are plain float64 currency values; no rounding is applied.
type Engine struct {
	taxRate float64
}

// NewEngine creates a pricing engine with the given flat tax rate
func NewEngine(taxRate float64) *Engine {
	return &Engine{taxRate: taxRate}
}

// TaxRate returns the flat tax rate used by the engine
func (e *Engine) TaxRate() float64 {
	return e.taxRate
}

// CalculateTotals recomputes the renewal totals wholesale.
// cart may be nil, in which case only the additional items contribute.
func (e *Engine) CalculateTotals(cart *models.CartData, items []models.AdditionalLineItem) models.RenewalTotals {
	subtotal := 0.0
	if cart != nil {
		subtotal = cart.Totals.Subtotal
	}
	subtotal += AdditionalItemsTotal(items)

	discount := e.discount()
	tax := subtotal * e.taxRate

	return models.RenewalTotals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    subtotal - discount + tax,
	}
}

// discount is always zero. Discount codes are recorded on the order but not evaluated.
func (e *Engine) discount() float64 {
	return 0
}

// AdditionalItemsTotal sums price * quantity over the given items
func AdditionalItemsTotal(items []models.AdditionalLineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Finite reports whether every amount of t is a finite number.
// Totals that overflow float64 cannot be stored or displayed.
func Finite(t models.RenewalTotals) bool {
	for _, v := range []float64{t.Subtotal, t.Discount, t.Tax, t.Total} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
