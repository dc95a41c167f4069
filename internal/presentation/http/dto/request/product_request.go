package request

import "github.com/google/uuid"

// VariantRequest describes one sellable variant of a product
type VariantRequest struct {
	ID      *uuid.UUID `json:"id"`
	Name    string     `json:"name" binding:"required,max=255"`
	Price   float64    `json:"price" binding:"gte=0"`
	Cost    *float64   `json:"cost" binding:"omitempty,gte=0"`
	Stock   int        `json:"stock" binding:"gte=0"`
	Barcode *string    `json:"barcode" binding:"omitempty,max=100"`
}

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=2,max=255"`
	Category    string           `json:"category" binding:"omitempty,max=100"`
	Barcode     *string          `json:"barcode" binding:"omitempty,max=100"`
	Description *string          `json:"description"`
	Price       float64          `json:"price" binding:"gte=0"`
	Cost        float64          `json:"cost" binding:"gte=0"`
	Stock       int              `json:"stock" binding:"gte=0"`
	Variants    []VariantRequest `json:"variants" binding:"omitempty,dive"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name        *string           `json:"name" binding:"omitempty,min=2,max=255"`
	Category    *string           `json:"category" binding:"omitempty,max=100"`
	Barcode     *string           `json:"barcode" binding:"omitempty,max=100"`
	Description *string           `json:"description"`
	Price       *float64          `json:"price" binding:"omitempty,gte=0"`
	Cost        *float64          `json:"cost" binding:"omitempty,gte=0"`
	Stock       *int              `json:"stock" binding:"omitempty,gte=0"`
	Variants    *[]VariantRequest `json:"variants" binding:"omitempty,dive"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	LowStock  bool   `form:"low_stock"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
