package entity

// ReceiptHeader holds the store header printed at the top of a ticket.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line on a sale ticket.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount,omitempty"`
	Total     float64 `json:"total"`
}

// ReceiptTender is one payment line on a sale ticket.
type ReceiptTender struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// Receipt is a value object representing a printable sale ticket.
// It is composed from a Transaction and the store settings at print time.
type Receipt struct {
	Header   ReceiptHeader   `json:"header"`
	TicketNo string          `json:"ticket_no"`
	Date     string          `json:"date"`
	Cashier  string          `json:"cashier,omitempty"`
	Customer string          `json:"customer,omitempty"`
	Currency string          `json:"currency"`
	Items    []ReceiptItem   `json:"items"`
	Tenders  []ReceiptTender `json:"tenders"`
	SubTotal float64         `json:"sub_total"`
	Discount float64         `json:"discount"`
	Tax      float64         `json:"tax"`
	TaxRate  float64         `json:"tax_rate"`
	Total    float64         `json:"total"`
	Paid     float64         `json:"paid"`
	Change   float64         `json:"change"`
}
