package entity

// ShiftReport is the reconciliation of one shift: the shift record, its
// ledger and every sale rung up while it was open.
type ShiftReport struct {
	Shift        CashShift      `json:"shift"`
	Movements    []CashMovement `json:"movements"`
	Transactions []Transaction  `json:"transactions"`
	CashIn       float64        `json:"cash_in"`
	CashOut      float64        `json:"cash_out"`
	ExpectedCash float64        `json:"expected_cash"`
	DigitalTotal float64        `json:"digital_total"`
	CountedCash  *float64       `json:"counted_cash,omitempty"`
	Discrepancy  *float64       `json:"discrepancy,omitempty"`
}

// SalesCount is the number of sales in the shift
func (r *ShiftReport) SalesCount() int {
	return len(r.Transactions)
}
