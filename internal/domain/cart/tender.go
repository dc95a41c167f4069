package cart

import (
	"errors"

	"github.com/sangkips/posgo-api/internal/domain/enum"
	"github.com/sangkips/posgo-api/pkg/money"
)

var (
	ErrInvalidTenderAmount  = errors.New("tender amount must be greater than zero")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrTenderNotFound       = errors.New("tender not found")
)

// Tender is one payment offered against a sale.
type Tender struct {
	Method enum.PaymentMethod `json:"method"`
	Amount float64            `json:"amount"`
}

// AddTender appends a tender after validating it. The input slice is not modified.
func AddTender(tenders []Tender, method enum.PaymentMethod, amount float64) ([]Tender, error) {
	if !method.IsValid() {
		return tenders, ErrUnknownPaymentMethod
	}
	if amount <= 0 {
		return tenders, ErrInvalidTenderAmount
	}
	out := make([]Tender, len(tenders), len(tenders)+1)
	copy(out, tenders)
	return append(out, Tender{Method: method, Amount: amount}), nil
}

// RemoveTender drops the tender at index i. The input slice is not modified.
func RemoveTender(tenders []Tender, i int) ([]Tender, error) {
	if i < 0 || i >= len(tenders) {
		return tenders, ErrTenderNotFound
	}
	out := make([]Tender, 0, len(tenders)-1)
	out = append(out, tenders[:i]...)
	return append(out, tenders[i+1:]...), nil
}

// Paid is the sum of all tenders.
func Paid(tenders []Tender) float64 {
	var total float64
	for _, t := range tenders {
		total += t.Amount
	}
	return total
}

// Remaining is how much of the total is still unpaid, never negative.
func Remaining(total float64, tenders []Tender) float64 {
	return money.FloorZero(total - Paid(tenders))
}

// Change is the overpayment returned to the customer, never negative.
func Change(total float64, tenders []Tender) float64 {
	return money.FloorZero(Paid(tenders) - total)
}

// Covers reports whether the tenders pay the total within a cent.
func Covers(total float64, tenders []Tender) bool {
	return money.Covers(Remaining(total, tenders))
}

// PrimaryMethod is the method of the first tender, or unknown when there are none.
func PrimaryMethod(tenders []Tender) enum.PaymentMethod {
	if len(tenders) == 0 {
		return enum.PaymentMethodUnknown
	}
	return tenders[0].Method
}

// CashTotal sums the cash tenders.
func CashTotal(tenders []Tender) float64 {
	var total float64
	for _, t := range tenders {
		if t.Method.IsCash() {
			total += t.Amount
		}
	}
	return total
}
