package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/cart"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const register = "register-1"

func TestCheckoutTaxInclusive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.open(t, 0)
	p := env.product(t, "Soda", 11.80, 6, 10)

	_, err := env.carts.AddItem(ctx, register, &AddItemInput{ProductID: &p.ID, Quantity: 1})
	require.NoError(t, err)
	view, err := env.carts.AddTender(ctx, register, enum.PaymentMethodCash, 11.80)
	require.NoError(t, err)
	assert.InDelta(t, 10.00, view.Subtotal, eps)
	assert.InDelta(t, 1.80, view.Tax, eps)
	assert.InDelta(t, 11.80, view.Total, eps)
	assert.True(t, view.Covered)

	txn, err := env.settlement.Checkout(ctx, register, nil)
	require.NoError(t, err)
	assert.InDelta(t, 10.00, txn.Subtotal, eps)
	assert.InDelta(t, 1.80, txn.Tax, eps)
	assert.InDelta(t, 11.80, txn.Total, eps)
	assert.InDelta(t, 4.00, txn.Profit, eps)
	assert.Contains(t, txn.TicketNo, TicketPrefix+"-")

	after, err := env.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, after.Stock)

	view, err = env.carts.GetCart(ctx, register)
	require.NoError(t, err)
	assert.Empty(t, view.Lines, "cart is cleared after checkout")
	assert.Empty(t, view.Tenders)
}

func TestCheckoutTaxExclusive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.setExclusiveTax(t)
	env.open(t, 0)
	p := env.product(t, "Soda", 10.00, 6, 10)

	_, err := env.carts.AddItem(ctx, register, &AddItemInput{ProductID: &p.ID})
	require.NoError(t, err)
	_, err = env.carts.AddTender(ctx, register, enum.PaymentMethodCard, 11.80)
	require.NoError(t, err)

	txn, err := env.settlement.Checkout(ctx, register, nil)
	require.NoError(t, err)
	assert.InDelta(t, 10.00, txn.Subtotal, eps)
	assert.InDelta(t, 1.80, txn.Tax, eps)
	assert.InDelta(t, 11.80, txn.Total, eps)
	assert.Equal(t, enum.PaymentMethodCard, txn.PaymentMethod)
}

func TestCheckoutWithoutShiftChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Soda", 5, 2, 10)

	_, err := env.carts.AddItem(ctx, register, &AddItemInput{ProductID: &p.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = env.carts.AddTender(ctx, register, enum.PaymentMethodCash, 10)
	require.NoError(t, err)

	_, err = env.settlement.Checkout(ctx, register, nil)
	assert.ErrorIs(t, err, apperror.ErrNoActiveShift)

	_, total, err := env.store.Transactions().List(ctx, &repository.TransactionFilterParams{})
	require.NoError(t, err)
	assert.Zero(t, total)

	after, err := env.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, after.Stock)

	view, err := env.carts.GetCart(ctx, register)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1, "cart survives a rejected checkout")
}

func TestCheckoutSplitTender(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.open(t, 0)
	p := env.product(t, "Blender", 45, 30, 3)

	_, err := env.carts.AddItem(ctx, register, &AddItemInput{ProductID: &p.ID})
	require.NoError(t, err)

	view, err := env.carts.AddTender(ctx, register, enum.PaymentMethodCash, 20)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, view.Remaining, eps)
	assert.False(t, view.Covered)

	_, err = env.settlement.Checkout(ctx, register, nil)
	assert.ErrorIs(t, err, apperror.ErrInsufficientTender)

	view, err = env.carts.AddTender(ctx, register, enum.PaymentMethodCard, 25)
	require.NoError(t, err)
	assert.Equal(t, 0.0, view.Remaining)
	assert.Equal(t, 0.0, view.Change)
	assert.True(t, view.Covered)

	txn, err := env.settlement.Checkout(ctx, register, nil)
	require.NoError(t, err)
	require.Len(t, txn.Payments, 2)
	assert.Equal(t, enum.PaymentMethodCash, txn.PaymentMethod)
	assert.Equal(t, 0, txn.Payments[0].Position)
	assert.Equal(t, enum.PaymentMethodCard, txn.Payments[1].Method)
	assert.InDelta(t, 45.0, txn.AmountPaid, eps)
	assert.Equal(t, 0.0, txn.Change)
}

func TestFinalizeSaleRejectsEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	env.open(t, 0)

	_, err := env.settlement.Checkout(context.Background(), "nothing-here", nil)
	assert.ErrorIs(t, err, apperror.ErrEmptyCart)
}

func TestFinalizeSaleDecrementsVariantStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.open(t, 0)
	cost := 4.0
	p := env.variantProduct(t, "T-shirt",
		VariantInput{Name: "S", Price: 20, Cost: &cost, Stock: 5},
		VariantInput{Name: "M", Price: 22, Stock: 3},
	)
	require.Equal(t, 8, p.Stock)
	small := p.Variants[0]

	_, err := env.carts.AddItem(ctx, register, &AddItemInput{ProductID: &p.ID})
	assert.True(t, apperror.IsAppError(err), "a variant must be chosen")

	view, err := env.carts.AddItem(ctx, register, &AddItemInput{ProductID: &p.ID, VariantID: &small.ID, Quantity: 2})
	require.NoError(t, err)
	assert.InDelta(t, 40.0, view.Total, eps)
	_, err = env.carts.AddTender(ctx, register, enum.PaymentMethodYape, 40)
	require.NoError(t, err)

	txn, err := env.settlement.Checkout(ctx, register, nil)
	require.NoError(t, err)
	assert.Equal(t, "S", txn.Items[0].VariantName)
	assert.InDelta(t, 4.0, txn.Items[0].UnitCost, eps)

	after, err := env.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, after.Variant(small.ID).Stock)
	assert.Equal(t, 6, after.Stock)
}

func TestFinalizeSaleSkipsMissingProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.open(t, 0)
	p := env.product(t, "Gum", 1, 0.5, 10)

	txn, err := env.settlement.FinalizeSale(ctx, &SaleInput{
		Lines: []cart.Line{
			{ProductID: p.ID, Name: "Gum", UnitPrice: 1, Quantity: 2},
			{ProductID: uuid.New(), Name: "Deleted", UnitPrice: 3, Quantity: 1},
		},
		Tenders: []cart.Tender{{Method: enum.PaymentMethodCash, Amount: 5}},
	})
	require.NoError(t, err)
	assert.Len(t, txn.Items, 2)

	after, err := env.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, after.Stock)
}

func TestFinalizeSaleOversellGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.open(t, 0)
	p := env.product(t, "Milk", 4, 3, 1)
	line := cart.Line{ProductID: p.ID, Name: "Milk", UnitPrice: 4, Quantity: 2}
	tenders := []cart.Tender{{Method: enum.PaymentMethodCash, Amount: 8}}

	// oversell allowed by default: stock goes negative
	_, err := env.settlement.FinalizeSale(ctx, &SaleInput{Lines: []cart.Line{line}, Tenders: tenders})
	require.NoError(t, err)
	after, err := env.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, after.Stock)

	allow := false
	_, err = env.settings.UpdateSettings(ctx, &UpdateSettingsInput{AllowOversell: &allow})
	require.NoError(t, err)

	_, err = env.settlement.FinalizeSale(ctx, &SaleInput{Lines: []cart.Line{line}, Tenders: tenders})
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)

	_, total, err := env.store.Transactions().List(ctx, &repository.TransactionFilterParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestFinalizeSaleRecordsCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.open(t, 0)
	p := env.product(t, "Coffee", 12, 7, 10)
	dni := "45678912"
	customer, err := env.customers.CreateCustomer(ctx, &CreateCustomerInput{Name: "Rosa Quispe", DNI: &dni})
	require.NoError(t, err)

	_, err = env.carts.AddItem(ctx, register, &AddItemInput{ProductID: &p.ID})
	require.NoError(t, err)
	_, err = env.carts.SetCustomer(ctx, register, &customer.ID)
	require.NoError(t, err)
	_, err = env.carts.AddTender(ctx, register, enum.PaymentMethodPlin, 12)
	require.NoError(t, err)

	txn, err := env.settlement.Checkout(ctx, register, nil)
	require.NoError(t, err)
	assert.Equal(t, "Rosa Quispe", txn.CustomerName)
	require.NotNil(t, txn.CustomerID)

	updated, err := env.customers.GetCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TotalPurchases)
	require.NotNil(t, updated.LastPurchaseDate)
}

type failingStock struct {
	repository.ProductRepository
}

func (f *failingStock) DecrementStock(context.Context, uuid.UUID, *uuid.UUID, int) error {
	return errors.New("connection reset")
}

func TestFinalizeSaleIsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.open(t, 0)
	p := env.product(t, "Tea", 3, 1, 10)
	env.settlement.productRepo = &failingStock{ProductRepository: env.store.Products()}

	_, err := env.settlement.FinalizeSale(ctx, &SaleInput{
		Lines:   []cart.Line{{ProductID: p.ID, Name: "Tea", UnitPrice: 3, Quantity: 1}},
		Tenders: []cart.Tender{{Method: enum.PaymentMethodCash, Amount: 3}},
	})
	require.Error(t, err)

	_, total, err := env.store.Transactions().List(ctx, &repository.TransactionFilterParams{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestFinalizeSaleProfitCanBeNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.open(t, 0)
	p := env.product(t, "Promo", 5, 8, 10)

	txn, err := env.settlement.FinalizeSale(ctx, &SaleInput{
		Lines:   []cart.Line{{ProductID: p.ID, Name: "Promo", UnitPrice: 5, UnitCost: 8, Quantity: 1, Discount: 1}},
		Tenders: []cart.Tender{{Method: enum.PaymentMethodCash, Amount: 4}},
	})
	require.NoError(t, err)
	assert.Less(t, txn.Profit, 0.0)
	assert.InDelta(t, 4.0, txn.Items[0].LineTotal, eps)
	assert.InDelta(t, 1.0, txn.Discount, eps)
}

// slowCarts delays cart reads like a remote cart store would
type slowCarts struct {
	repository.CartStore
}

func (s *slowCarts) Get(ctx context.Context, id string) (*cart.Cart, error) {
	time.Sleep(5 * time.Millisecond)
	return s.CartStore.Get(ctx, id)
}

func TestCheckoutSellsACartOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.open(t, 0)
	p := env.product(t, "Soda", 2.5, 1, 10)

	_, err := env.carts.AddItem(ctx, register, &AddItemInput{ProductID: &p.ID})
	require.NoError(t, err)
	_, err = env.carts.AddTender(ctx, register, enum.PaymentMethodCash, 5)
	require.NoError(t, err)
	env.settlement.carts = &slowCarts{CartStore: env.store.Carts()}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.settlement.Checkout(ctx, register, nil)
		}(i)
	}
	wg.Wait()

	sold := 0
	for _, err := range errs {
		if err == nil {
			sold++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrEmptyCart)
	}
	assert.Equal(t, 1, sold)

	txns, _, err := env.store.Transactions().List(ctx, &repository.TransactionFilterParams{})
	require.NoError(t, err)
	assert.Len(t, txns, 1)

	after, err := env.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, after.Stock)
}

// failingCartDelete cannot clear carts
type failingCartDelete struct {
	repository.CartStore
}

func (f *failingCartDelete) Delete(context.Context, string) error {
	return errors.New("connection refused")
}

func TestCheckoutRollsBackWhenCartCannotBeCleared(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.open(t, 0)
	p := env.product(t, "Soda", 2.5, 1, 10)

	_, err := env.carts.AddItem(ctx, register, &AddItemInput{ProductID: &p.ID})
	require.NoError(t, err)
	_, err = env.carts.AddTender(ctx, register, enum.PaymentMethodCash, 5)
	require.NoError(t, err)
	env.settlement.carts = &failingCartDelete{CartStore: env.store.Carts()}

	_, err = env.settlement.Checkout(ctx, register, nil)
	require.Error(t, err)

	_, total, err := env.store.Transactions().List(ctx, &repository.TransactionFilterParams{})
	require.NoError(t, err)
	assert.Zero(t, total)

	after, err := env.products.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, after.Stock)
}

func TestFinalizeSaleRejectsUnsellableLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.open(t, 0)
	gum := env.product(t, "Gum", 1, 0.5, 10)
	shirt := env.variantProduct(t, "T-shirt",
		VariantInput{Name: "S", Price: 20, Stock: 5},
		VariantInput{Name: "M", Price: 22, Stock: 3},
	)
	tenders := []cart.Tender{{Method: enum.PaymentMethodCash, Amount: 50}}

	tests := []struct {
		name string
		line cart.Line
	}{
		{name: "zero quantity", line: cart.Line{ProductID: gum.ID, Name: "Gum", UnitPrice: 1, Quantity: 0}},
		{name: "negative quantity", line: cart.Line{ProductID: gum.ID, Name: "Gum", UnitPrice: 1, Quantity: -2}},
		{name: "variant product without variant", line: cart.Line{ProductID: shirt.ID, Name: "T-shirt", UnitPrice: 20, Quantity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.settlement.FinalizeSale(ctx, &SaleInput{Lines: []cart.Line{tt.line}, Tenders: tenders})
			require.Error(t, err)
			assert.Equal(t, 422, apperror.GetAppError(err).Code)
		})
	}

	_, total, err := env.store.Transactions().List(ctx, &repository.TransactionFilterParams{})
	require.NoError(t, err)
	assert.Zero(t, total)

	after, err := env.products.GetProduct(ctx, shirt.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, after.Stock)
	after, err = env.products.GetProduct(ctx, gum.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, after.Stock)
}
