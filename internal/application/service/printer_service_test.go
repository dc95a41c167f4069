package service

import (
	"context"
	"strings"
	"testing"

	"github.com/sangkips/posgo-api/internal/domain/cart"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintReceipt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.open(t, 0)
	p := env.product(t, "Queso fresco", 15, 9, 10)

	txn, err := env.settlement.FinalizeSale(ctx, &SaleInput{
		Lines:   []cart.Line{{ProductID: p.ID, Name: p.Name, UnitPrice: 15, Quantity: 2, Discount: 1}},
		Tenders: []cart.Tender{{Method: enum.PaymentMethodCash, Amount: 30}},
	})
	require.NoError(t, err)

	receipt, err := env.printing.PrintReceipt(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bodega Test", receipt.Header.StoreName)
	assert.Equal(t, txn.TicketNo, receipt.TicketNo)
	require.Len(t, receipt.Tenders, 1)
	assert.Equal(t, "CASH", receipt.Tenders[0].Method)
	assert.InDelta(t, 2.0, receipt.Change, eps)

	jobs := env.printer.Jobs()
	require.Len(t, jobs, 1)
	ticket := string(jobs[0])
	assert.Contains(t, ticket, "Queso fresco")
	assert.Contains(t, ticket, txn.TicketNo)
	assert.Contains(t, ticket, "28.00")
	assert.Contains(t, ticket, "-2.00")
}

func TestPrintShiftReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	shift := env.open(t, 100)
	_, err := env.shifts.RecordMovement(ctx, &RecordMovementInput{Type: enum.MovementTypeOut, Amount: 20, Description: "restock change"})
	require.NoError(t, err)
	_, err = env.shifts.CloseShift(ctx, &CloseShiftInput{CountedAmount: 80})
	require.NoError(t, err)

	report, err := env.printing.PrintShiftReport(ctx, shift.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, *report.Discrepancy, eps)

	ticket := string(env.printer.Jobs()[0])
	assert.Contains(t, ticket, "SHIFT REPORT")
	assert.Contains(t, ticket, "restock change")

	md := ShiftReportMarkdown(report, "PEN")
	assert.True(t, strings.HasPrefix(md, "# Shift "))
	assert.Contains(t, md, "| Cash out |")
	assert.Contains(t, md, "| CLOSE |")
}

func TestPrinterStatusAndTestPrint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	status := env.printing.GetStatus(ctx)
	assert.Equal(t, "memory", status.Kind)
	assert.True(t, status.Connected)

	receipt, err := env.printing.TestPrint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TEST-001", receipt.TicketNo)
	assert.Len(t, env.printer.Jobs(), 1)
}
