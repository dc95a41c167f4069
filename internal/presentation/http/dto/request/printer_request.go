package request

// PrintReceiptRequest is the request body for printing a receipt.
type PrintReceiptRequest struct {
	TransactionID string `json:"transaction_id" binding:"required,uuid"`
}

// PrintShiftReportRequest is the request body for printing a shift report.
type PrintShiftReportRequest struct {
	ShiftID string `json:"shift_id" binding:"required,uuid"`
}
