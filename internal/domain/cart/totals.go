// Package cart holds the in-progress sale: its lines, the tenders offered
// against it and the pure arithmetic that settles one into the other.
package cart

import "github.com/sangkips/posgo-api/pkg/money"

// Totals aggregates the computed pricing components of a cart.
type Totals struct {
	Gross    float64 `json:"gross"`
	Discount float64 `json:"discount"`
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals prices the lines under the store's tax rules.
//
// With pricesIncludeTax the discounted amount is the total and the tax is
// extracted from it; otherwise the discounted amount is the subtotal and the
// tax is added on top. Discounts can never push the total below zero.
func ComputeTotals(lines []Line, taxRate float64, pricesIncludeTax bool) Totals {
	var gross, discount float64
	for _, l := range lines {
		gross += l.Gross()
		discount += l.DiscountTotal()
	}
	net := money.FloorZero(gross - discount)

	t := Totals{Gross: gross, Discount: discount}
	if pricesIncludeTax {
		t.Total = net
		t.Subtotal = t.Total / (1 + taxRate)
		t.Tax = t.Total - t.Subtotal
	} else {
		t.Subtotal = net
		t.Tax = t.Subtotal * taxRate
		t.Total = t.Subtotal + t.Tax
	}
	return t
}

// CostTotal is the summed unit cost of every line.
func CostTotal(lines []Line) float64 {
	var cost float64
	for _, l := range lines {
		cost += l.CostTotal()
	}
	return cost
}

// Profit is revenue net of tax minus the cost of goods. It is not floored:
// a sale below cost reports a negative profit.
func Profit(t Totals, lines []Line) float64 {
	return t.Total - t.Tax - CostTotal(lines)
}
