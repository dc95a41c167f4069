package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/posgo-api/internal/domain/cart"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.open(t, 0)
	cola := env.product(t, "Cola", 11.80, 5, 20)
	chips := env.product(t, "Chips", 2.36, 1, 20)

	sale := func(p cart.Line, tenders ...cart.Tender) {
		_, err := env.settlement.FinalizeSale(ctx, &SaleInput{Lines: []cart.Line{p}, Tenders: tenders})
		require.NoError(t, err)
	}
	sale(cart.Line{ProductID: cola.ID, Name: "Cola", UnitPrice: 11.80, UnitCost: 5, Quantity: 1},
		cart.Tender{Method: enum.PaymentMethodCash, Amount: 11.80})
	sale(cart.Line{ProductID: chips.ID, Name: "Chips", UnitPrice: 2.36, UnitCost: 1, Quantity: 5},
		cart.Tender{Method: enum.PaymentMethodYape, Amount: 5}, cart.Tender{Method: enum.PaymentMethodCash, Amount: 6.80})

	summary, err := env.dashboard.GetSalesSummary(ctx, repository.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TransactionCount)
	assert.InDelta(t, 23.60, summary.TotalSales, 1e-6)
	assert.InDelta(t, 3.60, summary.TotalTax, 1e-6)
	assert.InDelta(t, 10.0, summary.TotalProfit, 1e-6)
	assert.InDelta(t, 11.80, summary.AverageTicket, 1e-6)
	require.NotNil(t, summary.TopProduct)
	assert.Equal(t, "Chips", summary.TopProduct.Name)
	assert.Equal(t, 5, summary.TopProduct.QuantitySold)

	require.Len(t, summary.ByPaymentMethod, len(enum.PaymentMethods))
	byMethod := map[enum.PaymentMethod]float64{}
	for _, m := range summary.ByPaymentMethod {
		byMethod[m.Method] = m.Amount
	}
	assert.InDelta(t, 18.60, byMethod[enum.PaymentMethodCash], 1e-6)
	assert.InDelta(t, 5.0, byMethod[enum.PaymentMethodYape], 1e-6)
	assert.Equal(t, 0.0, byMethod[enum.PaymentMethodCard])

	future := time.Now().Add(time.Hour)
	empty, err := env.dashboard.GetSalesSummary(ctx, repository.DateRange{From: &future})
	require.NoError(t, err)
	assert.Zero(t, empty.TransactionCount)
	assert.Nil(t, empty.TopProduct)

	stats, err := env.dashboard.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.Today.TransactionCount)
	require.Len(t, stats.DailySalesData, 7)
	assert.Equal(t, 2, stats.DailySalesData[6].Count)

	list, err := env.dashboard.ListTransactions(ctx, &repository.TransactionFilterParams{
		Pagination: pagination.DefaultPagination(),
		ProductID:  &chips.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Pagination.Total)
}

func TestProductHistoryAndRestock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.open(t, 0)
	flour := env.product(t, "Flour", 6, 4, 3)
	sugar := env.product(t, "Sugar", 5, 3, 4)
	env.product(t, "Salt", 2, 1, 40)

	env.purchases.now = clock()
	env.settlement.now = func() time.Time { return time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC) }

	_, err := env.purchases.ReceivePurchase(ctx, &ReceivePurchaseInput{
		SupplierName:  "Molino SAC",
		InvoiceNumber: "F-77",
		Items:         []PurchaseItemInput{{ProductID: flour.ID, Quantity: 2, UnitCost: 4}},
	})
	require.NoError(t, err)
	_, err = env.settlement.FinalizeSale(ctx, &SaleInput{
		Lines:   []cart.Line{{ProductID: flour.ID, Name: "Flour", UnitPrice: 6, Quantity: 4}},
		Tenders: []cart.Tender{{Method: enum.PaymentMethodCash, Amount: 24}},
	})
	require.NoError(t, err)

	history, err := env.dashboard.GetProductHistory(ctx, flour.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "sale", history[0].Type)
	assert.Equal(t, 4, history[0].Quantity)
	assert.Equal(t, "purchase", history[1].Type)
	assert.Equal(t, "F-77", history[1].Reference)

	suggestions, err := env.dashboard.GetRestockSuggestions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, flour.ID, suggestions[0].Product.ID)
	assert.Equal(t, 4, suggestions[0].UnitsSold)
	assert.Equal(t, sugar.ID, suggestions[1].Product.ID)
}
