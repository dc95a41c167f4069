package request

import "github.com/google/uuid"

// OpenShiftRequest opens the cash drawer with a starting float
type OpenShiftRequest struct {
	StartAmount float64 `json:"start_amount" binding:"gte=0"`
}

// CashMovementRequest records money put into or taken out of the drawer
type CashMovementRequest struct {
	Type        string  `json:"type" binding:"required,oneof=IN OUT in out"`
	Amount      float64 `json:"amount" binding:"gt=0"`
	Description string  `json:"description" binding:"max=255"`
}

// CloseShiftRequest closes the drawer with the counted cash
type CloseShiftRequest struct {
	CountedAmount float64 `json:"counted_amount" binding:"gte=0"`
}

// AddCartItemRequest adds a product by id or barcode
type AddCartItemRequest struct {
	ProductID *uuid.UUID `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id"`
	Barcode   string     `json:"barcode" binding:"omitempty,max=100"`
	Quantity  int        `json:"quantity" binding:"omitempty,gte=1"`
}

// UpdateCartItemRequest changes a line's quantity or per-unit discount
type UpdateCartItemRequest struct {
	QuantityDelta *int     `json:"quantity_delta"`
	Discount      *float64 `json:"discount" binding:"omitempty,gte=0"`
}

// AddTenderRequest adds a payment against the cart
type AddTenderRequest struct {
	Method string  `json:"method" binding:"required"`
	Amount float64 `json:"amount" binding:"gt=0"`
}

// SetCartCustomerRequest attaches a customer; a null id detaches it
type SetCartCustomerRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
}

// ShiftFilterRequest paginates the shift history
type ShiftFilterRequest struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}
