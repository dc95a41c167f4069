// Package money holds the register's arithmetic on float64 currency amounts.
// All settlement and reconciliation math goes through these helpers so the
// rounding and tolerance rules live in one place.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance used when deciding whether tenders cover a total.
const Epsilon = 0.01

// DefaultCurrency is the ISO code used when settings carry none.
const DefaultCurrency = "PEN"

// Sum adds the given amounts.
func Sum(values ...float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// FloorZero clamps negative amounts to zero.
func FloorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Covers reports whether an outstanding balance is within tolerance of zero.
func Covers(remaining float64) bool {
	return remaining <= Epsilon
}

// Round2 rounds an amount half away from zero to two decimals.
// It is only used for display and printed tickets; stored values keep full precision.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Format renders an amount with the currency's symbol, separators and fraction digits.
func Format(amount float64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	cur := gomoney.New(0, currency).Currency()
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

// Plain renders an amount with two decimals and no symbol, e.g. for 32-column tickets.
func Plain(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
