package request

import "github.com/google/uuid"

// PurchaseItemRequest is one received line of a supplier invoice
type PurchaseItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity"`
	UnitCost  float64    `json:"unit_cost"`
}

// ReceivePurchaseRequest records stock received from a supplier
type ReceivePurchaseRequest struct {
	SupplierID    *uuid.UUID            `json:"supplier_id"`
	SupplierName  string                `json:"supplier_name"`
	InvoiceNumber string                `json:"invoice_number"`
	Items         []PurchaseItemRequest `json:"items"`
}

// PurchaseFilterRequest represents purchase filter parameters
type PurchaseFilterRequest struct {
	SupplierID string `form:"supplier_id"`
	ProductID  string `form:"product_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
