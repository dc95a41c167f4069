package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/sangkips/posgo-api/pkg/pagination"
)

// DashboardService provides sales reports and inventory insight
type DashboardService struct {
	analyticsRepo     repository.AnalyticsRepository
	txnRepo           repository.TransactionRepository
	purchaseRepo      repository.PurchaseRepository
	productRepo       repository.ProductRepository
	customerRepo      repository.CustomerRepository
	lowStockThreshold int
	now               func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	txnRepo repository.TransactionRepository,
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	lowStockThreshold int,
) *DashboardService {
	return &DashboardService{
		analyticsRepo:     analyticsRepo,
		txnRepo:           txnRepo,
		purchaseRepo:      purchaseRepo,
		productRepo:       productRepo,
		customerRepo:      customerRepo,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// MethodTotal is the amount tendered with one payment method
type MethodTotal struct {
	Method enum.PaymentMethod `json:"method"`
	Amount float64            `json:"amount"`
	Count  int64              `json:"count"`
}

// TopProduct represents a product's sales performance
type TopProduct struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	QuantitySold int       `json:"quantity_sold"`
	Revenue      float64   `json:"revenue"`
}

// SalesSummary aggregates the sales in a period
type SalesSummary struct {
	From             *time.Time    `json:"from,omitempty"`
	To               *time.Time    `json:"to,omitempty"`
	TotalSales       float64       `json:"total_sales"`
	TotalProfit      float64       `json:"total_profit"`
	TotalTax         float64       `json:"total_tax"`
	TransactionCount int64         `json:"transaction_count"`
	AverageTicket    float64       `json:"average_ticket"`
	TopProduct       *TopProduct   `json:"top_product,omitempty"`
	ByPaymentMethod  []MethodTotal `json:"by_payment_method"`
}

// GetSalesSummary returns totals, the best selling product and per-method
// tender totals over the period
func (s *DashboardService) GetSalesSummary(ctx context.Context, period repository.DateRange) (*SalesSummary, error) {
	result, err := s.analyticsRepo.GetSalesSummary(ctx, period)
	if err != nil {
		return nil, err
	}

	summary := &SalesSummary{
		From:             period.From,
		To:               period.To,
		TotalSales:       result.TotalSales,
		TotalProfit:      result.TotalProfit,
		TotalTax:         result.TotalTax,
		TransactionCount: result.TransactionCount,
		ByPaymentMethod:  make([]MethodTotal, 0, len(enum.PaymentMethods)),
	}
	if result.TransactionCount > 0 {
		summary.AverageTicket = result.TotalSales / float64(result.TransactionCount)
	}

	top, err := s.GetTopProducts(ctx, period, 1)
	if err != nil {
		return nil, err
	}
	if len(top) > 0 {
		summary.TopProduct = &top[0]
	}

	byMethod, err := s.analyticsRepo.GetSalesByPaymentMethod(ctx, period)
	if err != nil {
		return nil, err
	}
	totals := make(map[enum.PaymentMethod]repository.PaymentMethodResult, len(byMethod))
	for _, r := range byMethod {
		totals[r.Method] = r
	}
	for _, m := range enum.PaymentMethods {
		r := totals[m]
		summary.ByPaymentMethod = append(summary.ByPaymentMethod, MethodTotal{Method: m, Amount: r.Amount, Count: r.Count})
	}

	return summary, nil
}

// GetTopProducts returns the best selling products in the period
func (s *DashboardService) GetTopProducts(ctx context.Context, period repository.DateRange, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	results, err := s.analyticsRepo.GetTopProducts(ctx, period, limit)
	if err != nil {
		return nil, err
	}

	top := make([]TopProduct, 0, len(results))
	for _, r := range results {
		top = append(top, TopProduct{
			ProductID:    r.ProductID,
			Name:         r.ProductName,
			QuantitySold: r.QuantitySold,
			Revenue:      r.Revenue,
		})
	}
	return top, nil
}

// DailySalesPoint represents one day of sales
type DailySalesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
	Count   int     `json:"count"`
}

// DashboardStats is the landing page overview
type DashboardStats struct {
	TotalProducts  int64             `json:"total_products"`
	TotalCustomers int64             `json:"total_customers"`
	LowStockCount  int               `json:"low_stock_count"`
	Today          *SalesSummary     `json:"today"`
	DailySalesData []DailySalesPoint `json:"daily_sales_data"`
}

// GetDashboardStats returns catalog counts, today's summary and the last seven days of sales
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	// We only need the counts
	countOnly := &pagination.PaginationParams{Page: 1, PerPage: 1}

	_, productCount, err := s.productRepo.List(ctx, &repository.ProductFilterParams{Pagination: countOnly})
	if err != nil {
		return nil, err
	}
	stats.TotalProducts = productCount

	_, customerCount, err := s.customerRepo.List(ctx, countOnly, "")
	if err != nil {
		return nil, err
	}
	stats.TotalCustomers = customerCount

	lowStock, err := s.productRepo.GetLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = len(lowStock)

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	stats.Today, err = s.GetSalesSummary(ctx, repository.DateRange{From: &today, To: &tomorrow})
	if err != nil {
		return nil, err
	}

	weekStart := today.AddDate(0, 0, -6)
	txns, _, err := s.txnRepo.List(ctx, &repository.TransactionFilterParams{StartDate: &weekStart, EndDate: &tomorrow})
	if err != nil {
		return nil, err
	}

	stats.DailySalesData = make([]DailySalesPoint, 0, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		point := DailySalesPoint{Date: day.Format("2006-01-02")}
		for _, t := range txns {
			if t.CreatedAt.In(now.Location()).Format("2006-01-02") == point.Date {
				point.Revenue += t.Total
				point.Profit += t.Profit
				point.Count++
			}
		}
		stats.DailySalesData = append(stats.DailySalesData, point)
	}

	return stats, nil
}

// HistoryEntry is one movement of a product's stock: a sale or a purchase
type HistoryEntry struct {
	Type      string    `json:"type"` // "sale" or "purchase"
	Date      time.Time `json:"date"`
	Reference string    `json:"reference"`
	Party     string    `json:"party,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Total     float64   `json:"total"`
}

// GetProductHistory returns the sales and purchases of a product, newest first
func (s *DashboardService) GetProductHistory(ctx context.Context, productID uuid.UUID) ([]HistoryEntry, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	txns, _, err := s.txnRepo.List(ctx, &repository.TransactionFilterParams{ProductID: &productID})
	if err != nil {
		return nil, err
	}
	purchases, _, err := s.purchaseRepo.List(ctx, &repository.PurchaseFilterParams{ProductID: &productID})
	if err != nil {
		return nil, err
	}

	history := make([]HistoryEntry, 0, len(txns)+len(purchases))
	for _, t := range txns {
		for _, item := range t.Items {
			if item.ProductID != productID {
				continue
			}
			history = append(history, HistoryEntry{
				Type:      "sale",
				Date:      t.CreatedAt,
				Reference: t.TicketNo,
				Party:     t.CustomerName,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Total:     item.LineTotal,
			})
		}
	}
	for _, p := range purchases {
		for _, item := range p.Items {
			if item.ProductID != productID {
				continue
			}
			history = append(history, HistoryEntry{
				Type:      "purchase",
				Date:      p.CreatedAt,
				Reference: p.InvoiceNumber,
				Party:     p.SupplierName,
				Quantity:  item.Quantity,
				UnitPrice: item.Cost,
				Total:     item.LineCost(),
			})
		}
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})
	return history, nil
}

// RestockSuggestion is a low stock product with its sales velocity
type RestockSuggestion struct {
	Product   entity.Product `json:"product"`
	UnitsSold int            `json:"units_sold"`
}

// GetRestockSuggestions returns low stock products, best sellers first
func (s *DashboardService) GetRestockSuggestions(ctx context.Context, threshold int) ([]RestockSuggestion, error) {
	if threshold <= 0 {
		threshold = s.lowStockThreshold
	}
	products, err := s.productRepo.GetLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	sold, err := s.analyticsRepo.GetUnitsSold(ctx, ids)
	if err != nil {
		return nil, err
	}

	suggestions := make([]RestockSuggestion, 0, len(products))
	for _, p := range products {
		suggestions = append(suggestions, RestockSuggestion{Product: p, UnitsSold: sold[p.ID]})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].UnitsSold != suggestions[j].UnitsSold {
			return suggestions[i].UnitsSold > suggestions[j].UnitsSold
		}
		return suggestions[i].Product.Stock < suggestions[j].Product.Stock
	})
	return suggestions, nil
}

// ListTransactions lists sales newest first
func (s *DashboardService) ListTransactions(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	txns, total, err := s.txnRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(txns, pag), nil
}
