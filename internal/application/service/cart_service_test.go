package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/cart"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddByBarcodeSelectsVariant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	small, large := "775000111", "775000222"
	p := env.variantProduct(t, "Yogurt",
		VariantInput{Name: "250g", Price: 3, Stock: 10, Barcode: &small},
		VariantInput{Name: "1kg", Price: 9, Stock: 4, Barcode: &large},
	)

	view, err := env.carts.AddItem(ctx, register, &AddItemInput{Barcode: large})
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "1kg", view.Lines[0].VariantName)
	assert.Equal(t, p.Variants[1].ID, *view.Lines[0].VariantID)
	assert.InDelta(t, 9.0, view.Total, eps)

	view, err = env.carts.AddItem(ctx, register, &AddItemInput{Barcode: large, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, view.Lines, 1, "same variant merges into one line")
	assert.Equal(t, 3, view.ItemCount)
}

func TestCartEditing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Apple", 2, 1, 50)
	key := cart.LineKey(p.ID, nil)

	_, err := env.carts.AddItem(ctx, register, &AddItemInput{ProductID: &p.ID, Quantity: 5})
	require.NoError(t, err)

	down := -10
	view, err := env.carts.UpdateItem(ctx, register, key, &UpdateItemInput{QuantityDelta: &down})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Lines[0].Quantity)

	up := 3
	discount := 0.5
	view, err = env.carts.UpdateItem(ctx, register, key, &UpdateItemInput{QuantityDelta: &up, Discount: &discount})
	require.NoError(t, err)
	assert.Equal(t, 4, view.Lines[0].Quantity)
	assert.InDelta(t, 2.0, view.Discount, eps)
	assert.InDelta(t, 6.0, view.Total, eps)

	negative := -1.0
	_, err = env.carts.UpdateItem(ctx, register, key, &UpdateItemInput{Discount: &negative})
	assert.ErrorIs(t, err, cart.ErrNegativeDiscount)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	_, err = env.carts.RemoveItem(ctx, register, "missing")
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	_, err = env.carts.AddTender(ctx, register, enum.PaymentMethodCash, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidTenderAmount)

	view, err = env.carts.AddTender(ctx, register, enum.PaymentMethodCash, 10)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, view.Change, eps)

	view, err = env.carts.RemoveTender(ctx, register, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Tenders)

	view, err = env.carts.RemoveItem(ctx, register, key)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestCartLookups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	missing := uuid.New()
	_, err := env.carts.AddItem(ctx, register, &AddItemInput{ProductID: &missing})
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	_, err = env.carts.AddItem(ctx, register, &AddItemInput{})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	_, err = env.carts.SetCustomer(ctx, register, &missing)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	_, err = env.carts.GetCart(ctx, " ")
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestCartClear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Pear", 2, 1, 50)

	_, err := env.carts.AddItem(ctx, register, &AddItemInput{ProductID: &p.ID})
	require.NoError(t, err)
	require.NoError(t, env.carts.ClearCart(ctx, register))

	view, err := env.carts.GetCart(ctx, register)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Equal(t, register, view.ID)
}
