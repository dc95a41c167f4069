package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a registered shopper
type Customer struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name             string         `gorm:"size:255;not null" json:"name"`
	DNI              *string        `gorm:"size:20;column:dni;index" json:"dni,omitempty"`
	Email            *string        `gorm:"size:255" json:"email,omitempty"`
	Phone            *string        `gorm:"size:50" json:"phone,omitempty"`
	TotalPurchases   int            `gorm:"not null;default:0" json:"total_purchases"`
	LastPurchaseDate *time.Time     `json:"last_purchase_date,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
