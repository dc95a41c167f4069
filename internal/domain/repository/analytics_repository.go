package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/enum"
)

// DateRange bounds an aggregation. Nil ends are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the range (From inclusive, To exclusive)
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && !t.Before(*r.To) {
		return false
	}
	return true
}

// SalesSummaryResult aggregates the sales in a period
type SalesSummaryResult struct {
	TotalSales       float64
	TotalProfit      float64
	TotalTax         float64
	TransactionCount int64
}

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	QuantitySold int
	Revenue      float64
}

// PaymentMethodResult is the tendered amount for one payment method
type PaymentMethodResult struct {
	Method enum.PaymentMethod
	Amount float64
	Count  int64
}

// AnalyticsRepository defines interface for analytics/aggregation queries
type AnalyticsRepository interface {
	// GetSalesSummary returns totals over every sale in the range
	GetSalesSummary(ctx context.Context, period DateRange) (*SalesSummaryResult, error)

	// GetTopProducts returns products ordered by units sold, best first
	GetTopProducts(ctx context.Context, period DateRange, limit int) ([]TopProductResult, error)

	// GetSalesByPaymentMethod sums tenders per method
	GetSalesByPaymentMethod(ctx context.Context, period DateRange) ([]PaymentMethodResult, error)

	// GetUnitsSold returns units sold per product over all time
	GetUnitsSold(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error)
}
