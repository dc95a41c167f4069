package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Transaction is a finalized sale. It is written once at checkout and never updated.
type Transaction struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TicketNo      string             `gorm:"size:50;uniqueIndex;not null" json:"ticket_no"`
	ShiftID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"shift_id"`
	CashierID     *uuid.UUID         `gorm:"type:uuid;index" json:"cashier_id,omitempty"`
	CustomerID    *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName  string             `gorm:"size:255" json:"customer_name,omitempty"`
	Subtotal      float64            `gorm:"not null" json:"subtotal"`
	Tax           float64            `gorm:"not null" json:"tax"`
	Discount      float64            `gorm:"not null" json:"discount"`
	Total         float64            `gorm:"not null" json:"total"`
	PaymentMethod enum.PaymentMethod `gorm:"not null" json:"payment_method"`
	AmountPaid    float64            `gorm:"not null" json:"amount_paid"`
	Change        float64            `gorm:"not null" json:"change"`
	Profit        float64            `gorm:"not null" json:"profit"`
	CreatedAt     time.Time          `gorm:"index" json:"date"`

	// Relationships
	Items    []TransactionItem    `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items"`
	Payments []TransactionPayment `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"payments"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// CashAmount is the sum of the cash tenders on this sale
func (t *Transaction) CashAmount() float64 {
	var total float64
	for _, p := range t.Payments {
		if p.Method.IsCash() {
			total += p.Amount
		}
	}
	return total
}

// DigitalAmount is the sum of the non-cash tenders on this sale
func (t *Transaction) DigitalAmount() float64 {
	var total float64
	for _, p := range t.Payments {
		if !p.Method.IsCash() {
			total += p.Amount
		}
	}
	return total
}

// HasProduct reports whether any line of the sale refers to the product
func (t *Transaction) HasProduct(productID uuid.UUID) bool {
	for _, item := range t.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// TransactionItem is a frozen copy of a cart line at the moment of sale
type TransactionItem struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID     *uuid.UUID `gorm:"type:uuid" json:"variant_id,omitempty"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	VariantName   string     `gorm:"size:255" json:"variant_name,omitempty"`
	Quantity      int        `gorm:"not null" json:"quantity"`
	UnitPrice     float64    `gorm:"not null" json:"unit_price"`
	UnitCost      float64    `gorm:"not null" json:"unit_cost"`
	Discount      float64    `gorm:"not null;default:0" json:"discount"` // per unit
	LineTotal     float64    `gorm:"not null" json:"line_total"`
}

// BeforeCreate generates a UUID before creating a new transaction item
func (i *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionItem model
func (TransactionItem) TableName() string {
	return "transaction_items"
}

// TransactionPayment is one tender attached to a sale
type TransactionPayment struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"-"`
	TransactionID uuid.UUID          `gorm:"type:uuid;not null;index" json:"-"`
	Position      int                `gorm:"not null" json:"-"`
	Method        enum.PaymentMethod `gorm:"not null" json:"method"`
	Amount        float64            `gorm:"not null" json:"amount"`
}

// BeforeCreate generates a UUID before creating a new payment row
func (p *TransactionPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionPayment model
func (TransactionPayment) TableName() string {
	return "transaction_payments"
}
