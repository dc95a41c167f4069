package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
)

type transactionRepository struct{ s *Store }

// Transactions returns the store's sale repository
func (s *Store) Transactions() domainRepo.TransactionRepository {
	return &transactionRepository{s: s}
}

func cloneTransaction(t entity.Transaction) entity.Transaction {
	t.Items = append([]entity.TransactionItem(nil), t.Items...)
	t.Payments = append([]entity.TransactionPayment(nil), t.Payments...)
	return t
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	for i := range txn.Items {
		if txn.Items[i].ID == uuid.Nil {
			txn.Items[i].ID = uuid.New()
		}
		txn.Items[i].TransactionID = txn.ID
	}
	for i := range txn.Payments {
		if txn.Payments[i].ID == uuid.Nil {
			txn.Payments[i].ID = uuid.New()
		}
		txn.Payments[i].TransactionID = txn.ID
	}

	defer r.s.write(ctx)()
	r.s.data.transactions = append(r.s.data.transactions, cloneTransaction(*txn))
	return nil
}

func (r *transactionRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.data.transactions {
		if t.ID == id {
			out := cloneTransaction(t)
			return &out, nil
		}
	}
	return nil, nil
}

// List walks the append-only log backwards so the newest sale comes first
func (r *transactionRepository) List(_ context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	period := domainRepo.DateRange{From: params.StartDate, To: params.EndDate}
	txns := make([]entity.Transaction, 0)
	for i := len(r.s.data.transactions) - 1; i >= 0; i-- {
		t := r.s.data.transactions[i]
		if params.ShiftID != nil && t.ShiftID != *params.ShiftID {
			continue
		}
		if params.CustomerID != nil && (t.CustomerID == nil || *t.CustomerID != *params.CustomerID) {
			continue
		}
		if params.ProductID != nil && !t.HasProduct(*params.ProductID) {
			continue
		}
		if !period.Contains(t.CreatedAt) {
			continue
		}
		txns = append(txns, cloneTransaction(t))
	}
	sort.SliceStable(txns, func(i, j int) bool { return txns[i].CreatedAt.After(txns[j].CreatedAt) })

	return page(txns, params.Pagination), int64(len(txns)), nil
}

type analyticsRepository struct{ s *Store }

// Analytics returns aggregations computed over the in-memory sales log
func (s *Store) Analytics() domainRepo.AnalyticsRepository {
	return &analyticsRepository{s: s}
}

func (r *analyticsRepository) each(period domainRepo.DateRange, fn func(t *entity.Transaction)) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := range r.s.data.transactions {
		if period.Contains(r.s.data.transactions[i].CreatedAt) {
			fn(&r.s.data.transactions[i])
		}
	}
}

func (r *analyticsRepository) GetSalesSummary(_ context.Context, period domainRepo.DateRange) (*domainRepo.SalesSummaryResult, error) {
	var result domainRepo.SalesSummaryResult
	r.each(period, func(t *entity.Transaction) {
		result.TotalSales += t.Total
		result.TotalProfit += t.Profit
		result.TotalTax += t.Tax
		result.TransactionCount++
	})
	return &result, nil
}

func (r *analyticsRepository) GetTopProducts(_ context.Context, period domainRepo.DateRange, limit int) ([]domainRepo.TopProductResult, error) {
	byID := make(map[uuid.UUID]*domainRepo.TopProductResult)
	var order []uuid.UUID
	r.each(period, func(t *entity.Transaction) {
		for _, item := range t.Items {
			res, ok := byID[item.ProductID]
			if !ok {
				res = &domainRepo.TopProductResult{ProductID: item.ProductID, ProductName: item.Name}
				byID[item.ProductID] = res
				order = append(order, item.ProductID)
			}
			res.QuantitySold += item.Quantity
			res.Revenue += item.LineTotal
		}
	})

	results := make([]domainRepo.TopProductResult, 0, len(order))
	for _, id := range order {
		results = append(results, *byID[id])
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].QuantitySold > results[j].QuantitySold })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *analyticsRepository) GetSalesByPaymentMethod(_ context.Context, period domainRepo.DateRange) ([]domainRepo.PaymentMethodResult, error) {
	var results []domainRepo.PaymentMethodResult
	index := make(map[int]int)
	r.each(period, func(t *entity.Transaction) {
		for _, p := range t.Payments {
			i, ok := index[int(p.Method)]
			if !ok {
				i = len(results)
				index[int(p.Method)] = i
				results = append(results, domainRepo.PaymentMethodResult{Method: p.Method})
			}
			results[i].Amount += p.Amount
			results[i].Count++
		}
	})
	sort.Slice(results, func(i, j int) bool { return results[i].Method < results[j].Method })
	return results, nil
}

func (r *analyticsRepository) GetUnitsSold(_ context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	wanted := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	sold := make(map[uuid.UUID]int, len(productIDs))
	r.each(domainRepo.DateRange{}, func(t *entity.Transaction) {
		for _, item := range t.Items {
			if wanted[item.ProductID] {
				sold[item.ProductID] += item.Quantity
			}
		}
	})
	return sold, nil
}
