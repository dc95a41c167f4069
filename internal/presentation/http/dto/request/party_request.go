package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name  string  `json:"name" binding:"required,min=2,max=255"`
	DNI   *string `json:"dni" binding:"omitempty,max=20"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=255"`
	DNI   *string `json:"dni" binding:"omitempty,max=20"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
}

// CreateSupplierRequest represents a supplier creation request
type CreateSupplierRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=255"`
	RUC         *string `json:"ruc" binding:"omitempty,max=20"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=255"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Address     *string `json:"address" binding:"omitempty,max=255"`
}

// UpdateSupplierRequest represents a supplier update request
type UpdateSupplierRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=255"`
	RUC         *string `json:"ruc" binding:"omitempty,max=20"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=255"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Address     *string `json:"address" binding:"omitempty,max=255"`
}

// ListRequest is the common page and search query
type ListRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
