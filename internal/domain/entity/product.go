package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a sellable item in the inventory
type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Category    string         `gorm:"size:100;index" json:"category"`
	Barcode     *string        `gorm:"size:100;index" json:"barcode,omitempty"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	Price       float64        `gorm:"not null;default:0" json:"price"`
	Cost        float64        `gorm:"not null;default:0" json:"cost"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// HasVariants reports whether stock is tracked per variant
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// Variant returns the variant with the given ID, or nil
func (p *Product) Variant(id uuid.UUID) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// RecomputeStock sets the aggregate stock to the sum of the variant stocks.
// Products without variants keep their own stock.
func (p *Product) RecomputeStock() {
	if !p.HasVariants() {
		return
	}
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	p.Stock = total
}

// UnitPrice returns the price charged for one unit, preferring the variant price
func (p *Product) UnitPrice(variant *ProductVariant) float64 {
	if variant != nil {
		return variant.Price
	}
	return p.Price
}

// UnitCost returns the cost of one unit; variants without a cost fall back to the product cost
func (p *Product) UnitCost(variant *ProductVariant) float64 {
	if variant != nil && variant.Cost != nil {
		return *variant.Cost
	}
	return p.Cost
}

// Available returns the sellable stock for the product or one of its variants
func (p *Product) Available(variant *ProductVariant) int {
	if variant != nil {
		return variant.Stock
	}
	return p.Stock
}

// ProductVariant is a sellable presentation of a product (size, colour, pack)
type ProductVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Price     float64   `gorm:"not null;default:0" json:"price"`
	Cost      *float64  `json:"cost,omitempty"`
	Stock     int       `gorm:"not null;default:0" json:"stock"`
	Barcode   *string   `gorm:"size:100;index" json:"barcode,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new variant
func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductVariant model
func (ProductVariant) TableName() string {
	return "product_variants"
}
