package request

// ReportRangeRequest bounds a report by date (YYYY-MM-DD, end inclusive)
type ReportRangeRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Limit     int    `form:"limit"`
}

// TransactionFilterRequest represents sale history filter parameters
type TransactionFilterRequest struct {
	ShiftID    string `form:"shift_id"`
	CustomerID string `form:"customer_id"`
	ProductID  string `form:"product_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
