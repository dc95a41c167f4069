package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedVariantProduct(t *testing.T, s *Store) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:  "T-Shirt",
		Price: 20,
		Cost:  8,
		Variants: []entity.ProductVariant{
			{Name: "S", Price: 20, Stock: 3},
			{Name: "M", Price: 22, Stock: 5},
		},
	}
	require.NoError(t, s.Products().Create(context.Background(), p))
	return p
}

func TestProductStockAdjustments(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := seedVariantProduct(t, s)
	assert.Equal(t, 8, p.Stock)

	medium := p.Variants[1].ID
	require.NoError(t, s.Products().DecrementStock(ctx, p.ID, &medium, 2))

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Variant(medium).Stock)
	assert.Equal(t, 6, got.Stock)

	cost := 9.5
	require.NoError(t, s.Products().IncrementStock(ctx, p.ID, &medium, 4, &cost))
	got, err = s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)
	assert.Equal(t, 9.5, got.UnitCost(got.Variant(medium)))

	missing := uuid.New()
	assert.ErrorIs(t, s.Products().DecrementStock(ctx, p.ID, &missing, 1), domainRepo.ErrVariantNotFound)
	assert.ErrorIs(t, s.Products().DecrementStock(ctx, uuid.New(), nil, 1), domainRepo.ErrProductNotFound)
}

func TestReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := seedVariantProduct(t, s)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Variants[0].Stock = 100

	again, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Variants[0].Stock)
}

func TestWithinTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := seedVariantProduct(t, s)
	small := p.Variants[0].ID
	boom := errors.New("boom")

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Transactions().Create(ctx, &entity.Transaction{TicketNo: "T-1", Total: 20}))
		require.NoError(t, s.Products().DecrementStock(ctx, p.ID, &small, 1))
		id := uuid.New()
		require.NoError(t, s.ActiveShift().SetActiveShiftID(ctx, &id))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	txns, total, err := s.Transactions().List(ctx, &domainRepo.TransactionFilterParams{})
	require.NoError(t, err)
	assert.Empty(t, txns)
	assert.Zero(t, total)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Variant(small).Stock)

	active, err := s.ActiveShift().GetActiveShiftID(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestRollbackKeepsWritesMadeOutsideTheTransaction(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("customer not found")

	started := make(chan struct{})
	rolledBack := make(chan error, 1)
	go func() {
		rolledBack <- s.WithinTransaction(ctx, func(ctx context.Context) error {
			close(started)
			time.Sleep(20 * time.Millisecond)
			return boom
		})
	}()
	<-started

	bread := &entity.Product{Name: "Bread", Price: 1, Stock: 30}
	created := make(chan error, 1)
	go func() { created <- s.Products().Create(ctx, bread) }()

	assert.ErrorIs(t, <-rolledBack, boom)
	require.NoError(t, <-created)

	got, err := s.Products().GetByID(ctx, bread.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 30, got.Stock)
}

func TestAfterCommitHooks(t *testing.T) {
	ctx := context.Background()
	s := New()
	var ran []string

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		domainRepo.AfterCommit(ctx, func(context.Context) { ran = append(ran, "committed") })
		assert.Empty(t, ran)
		return nil
	})
	require.NoError(t, err)

	_ = s.WithinTransaction(ctx, func(ctx context.Context) error {
		domainRepo.AfterCommit(ctx, func(context.Context) { ran = append(ran, "rolled back") })
		return errors.New("boom")
	})

	domainRepo.AfterCommit(ctx, func(context.Context) { ran = append(ran, "immediate") })
	assert.Equal(t, []string{"committed", "immediate"}, ran)
}

func TestWithinTransactionCommits(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.Transactions().Create(ctx, &entity.Transaction{TicketNo: "T-1", Total: 20})
	})
	require.NoError(t, err)

	_, total, err := s.Transactions().List(ctx, &domainRepo.TransactionFilterParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestTransactionListFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	shiftA, shiftB := uuid.New(), uuid.New()
	product := uuid.New()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Transactions().Create(ctx, &entity.Transaction{TicketNo: "1", ShiftID: shiftA, CreatedAt: base}))
	require.NoError(t, s.Transactions().Create(ctx, &entity.Transaction{
		TicketNo: "2", ShiftID: shiftA, CreatedAt: base.Add(time.Hour),
		Items: []entity.TransactionItem{{ProductID: product, Quantity: 2}},
	}))
	require.NoError(t, s.Transactions().Create(ctx, &entity.Transaction{TicketNo: "3", ShiftID: shiftB, CreatedAt: base.Add(2 * time.Hour)}))

	txns, total, err := s.Transactions().List(ctx, &domainRepo.TransactionFilterParams{ShiftID: &shiftA})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "2", txns[0].TicketNo, "newest first")

	txns, _, err = s.Transactions().List(ctx, &domainRepo.TransactionFilterParams{ProductID: &product})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "2", txns[0].TicketNo)

	from := base.Add(30 * time.Minute)
	txns, total, err = s.Transactions().List(ctx, &domainRepo.TransactionFilterParams{
		StartDate:  &from,
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, txns, 1)
	assert.Equal(t, "3", txns[0].TicketNo)
}

func TestAnalytics(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, b := uuid.New(), uuid.New()

	require.NoError(t, s.Transactions().Create(ctx, &entity.Transaction{
		Total: 30, Profit: 10, Tax: 4,
		Items: []entity.TransactionItem{
			{ProductID: a, Name: "A", Quantity: 1, LineTotal: 10},
			{ProductID: b, Name: "B", Quantity: 4, LineTotal: 20},
		},
		Payments: []entity.TransactionPayment{
			{Method: enum.PaymentMethodCash, Amount: 10},
			{Method: enum.PaymentMethodYape, Amount: 20},
		},
	}))
	require.NoError(t, s.Transactions().Create(ctx, &entity.Transaction{
		Total: 15, Profit: 5, Tax: 2,
		Items:    []entity.TransactionItem{{ProductID: a, Name: "A", Quantity: 2, LineTotal: 15}},
		Payments: []entity.TransactionPayment{{Method: enum.PaymentMethodCash, Amount: 15}},
	}))

	summary, err := s.Analytics().GetSalesSummary(ctx, domainRepo.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, 45.0, summary.TotalSales)
	assert.Equal(t, 15.0, summary.TotalProfit)
	assert.Equal(t, int64(2), summary.TransactionCount)

	top, err := s.Analytics().GetTopProducts(ctx, domainRepo.DateRange{}, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, b, top[0].ProductID)
	assert.Equal(t, 4, top[0].QuantitySold)

	methods, err := s.Analytics().GetSalesByPaymentMethod(ctx, domainRepo.DateRange{})
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, enum.PaymentMethodCash, methods[0].Method)
	assert.Equal(t, 25.0, methods[0].Amount)
	assert.Equal(t, int64(2), methods[0].Count)

	sold, err := s.Analytics().GetUnitsSold(ctx, []uuid.UUID{a})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int{a: 3}, sold)
}

func TestCustomerRecordPurchase(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := &entity.Customer{Name: "Ana"}
	require.NoError(t, s.Customers().Create(ctx, c))

	at := time.Now()
	require.NoError(t, s.Customers().RecordPurchase(ctx, c.ID, at))
	require.NoError(t, s.Customers().RecordPurchase(ctx, c.ID, at))

	got, err := s.Customers().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalPurchases)
	require.NotNil(t, got.LastPurchaseDate)
	assert.True(t, got.LastPurchaseDate.Equal(at))
}
