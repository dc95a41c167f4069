package entity

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestProductRecomputeStock(t *testing.T) {
	p := Product{Stock: 99}
	p.RecomputeStock()
	assert.Equal(t, 99, p.Stock, "products without variants keep their own stock")

	p.Variants = []ProductVariant{{ID: uuid.New(), Stock: 4}, {ID: uuid.New(), Stock: 6}}
	p.RecomputeStock()
	assert.Equal(t, 10, p.Stock)
}

func TestProductVariantPricing(t *testing.T) {
	withCost := ProductVariant{ID: uuid.New(), Price: 12, Cost: ptr(7.0)}
	noCost := ProductVariant{ID: uuid.New(), Price: 15}
	p := Product{Price: 10, Cost: 5, Variants: []ProductVariant{withCost, noCost}}

	assert.Equal(t, 10.0, p.UnitPrice(nil))
	assert.Equal(t, 12.0, p.UnitPrice(p.Variant(withCost.ID)))
	assert.Equal(t, 7.0, p.UnitCost(p.Variant(withCost.ID)))
	assert.Equal(t, 5.0, p.UnitCost(p.Variant(noCost.ID)), "variant cost falls back to product cost")
	assert.Nil(t, p.Variant(uuid.New()))
}

func TestCashShiftDiscrepancy(t *testing.T) {
	s := CashShift{Status: enum.ShiftStatusOpen, StartAmount: 100}
	assert.True(t, s.IsOpen())
	assert.Nil(t, s.Discrepancy())

	s.Status = enum.ShiftStatusClosed
	s.ExpectedAmount = ptr(140.0)
	s.EndAmount = ptr(135.0)
	require.NotNil(t, s.Discrepancy())
	assert.InDelta(t, -5.0, *s.Discrepancy(), 1e-9)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"discrepancy":-5`)
	assert.Contains(t, string(data), `"status":"CLOSED"`)

	var back CashShift
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 135.0, *back.EndAmount)
	assert.Equal(t, enum.ShiftStatusClosed, back.Status)
}

func TestTransactionTenderSplit(t *testing.T) {
	tx := Transaction{Payments: []TransactionPayment{
		{Method: enum.PaymentMethodCash, Amount: 20},
		{Method: enum.PaymentMethodYape, Amount: 30},
		{Method: enum.PaymentMethodCard, Amount: 10},
	}}
	assert.Equal(t, 20.0, tx.CashAmount())
	assert.Equal(t, 40.0, tx.DigitalAmount())
}
