package repository

import (
	"context"

	"github.com/google/uuid"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// periodScope filters on a created_at column of the given table alias
func periodScope(column string, period domainRepo.DateRange) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if period.From != nil {
			db = db.Where(column+" >= ?", *period.From)
		}
		if period.To != nil {
			db = db.Where(column+" < ?", *period.To)
		}
		return db
	}
}

func (r *analyticsRepository) GetSalesSummary(ctx context.Context, period domainRepo.DateRange) (*domainRepo.SalesSummaryResult, error) {
	var result domainRepo.SalesSummaryResult

	err := conn(ctx, r.db).
		Table("transactions").
		Select(`COALESCE(SUM(total), 0) as total_sales,
			COALESCE(SUM(profit), 0) as total_profit,
			COALESCE(SUM(tax), 0) as total_tax,
			COUNT(*) as transaction_count`).
		Scopes(periodScope("created_at", period)).
		Scan(&result).Error

	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, period domainRepo.DateRange, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := conn(ctx, r.db).
		Table("transaction_items ti").
		Select(`ti.product_id as product_id,
			MAX(ti.name) as product_name,
			COALESCE(SUM(ti.quantity), 0) as quantity_sold,
			COALESCE(SUM(ti.line_total), 0) as revenue`).
		Joins("JOIN transactions t ON t.id = ti.transaction_id").
		Scopes(periodScope("t.created_at", period)).
		Group("ti.product_id").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetSalesByPaymentMethod(ctx context.Context, period domainRepo.DateRange) ([]domainRepo.PaymentMethodResult, error) {
	var results []domainRepo.PaymentMethodResult

	err := conn(ctx, r.db).
		Table("transaction_payments tp").
		Select(`tp.method as method,
			COALESCE(SUM(tp.amount), 0) as amount,
			COUNT(*) as count`).
		Joins("JOIN transactions t ON t.id = tp.transaction_id").
		Scopes(periodScope("t.created_at", period)).
		Group("tp.method").
		Order("tp.method ASC").
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetUnitsSold(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	sold := make(map[uuid.UUID]int, len(productIDs))
	if len(productIDs) == 0 {
		return sold, nil
	}

	var rows []struct {
		ProductID uuid.UUID
		Quantity  int
	}
	err := conn(ctx, r.db).
		Table("transaction_items").
		Select("product_id, COALESCE(SUM(quantity), 0) as quantity").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		sold[row.ProductID] = row.Quantity
	}
	return sold, nil
}
