package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchase is a received supplier invoice that restocks inventory
type Purchase struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SupplierID    *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	SupplierName  string     `gorm:"size:255;not null" json:"supplier"`
	InvoiceNumber string     `gorm:"size:100;not null" json:"invoice_number"`
	ReceivedBy    *uuid.UUID `gorm:"type:uuid" json:"received_by,omitempty"`
	TotalCost     float64    `gorm:"not null;default:0" json:"total_cost"`
	CreatedAt     time.Time  `gorm:"index" json:"date"`

	// Relationships
	Items []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items"`
}

// BeforeCreate generates a UUID before creating a new purchase
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}

// HasProduct reports whether any line of the purchase refers to the product
func (p *Purchase) HasProduct(productID uuid.UUID) bool {
	for _, item := range p.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// PurchaseItem is one received line
type PurchaseItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"purchase_id"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID   *uuid.UUID `gorm:"type:uuid" json:"variant_id,omitempty"`
	ProductName string     `gorm:"size:255;not null" json:"product_name"`
	Quantity    int        `gorm:"not null" json:"quantity"`
	Cost        float64    `gorm:"not null" json:"cost"` // per unit
}

// BeforeCreate generates a UUID before creating a new purchase item
func (i *PurchaseItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseItem model
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// LineCost is quantity times unit cost
func (i PurchaseItem) LineCost() float64 {
	return float64(i.Quantity) * i.Cost
}
