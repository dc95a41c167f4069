package cart

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/enum"
)

var (
	ErrLineNotFound     = errors.New("cart line not found")
	ErrNegativeDiscount = errors.New("discount cannot be negative")
)

// Line is a product (or one of its variants) in the cart, priced at the moment it was added.
type Line struct {
	ProductID   uuid.UUID  `json:"product_id"`
	VariantID   *uuid.UUID `json:"variant_id,omitempty"`
	Name        string     `json:"name"`
	VariantName string     `json:"variant_name,omitempty"`
	UnitPrice   float64    `json:"unit_price"`
	UnitCost    float64    `json:"unit_cost"`
	Quantity    int        `json:"quantity"`
	Discount    float64    `json:"discount"` // per unit
}

// LineKey identifies a line by product and optional variant.
func LineKey(productID uuid.UUID, variantID *uuid.UUID) string {
	if variantID == nil {
		return productID.String()
	}
	return productID.String() + "/" + variantID.String()
}

// Key identifies the line inside its cart.
func (l Line) Key() string {
	return LineKey(l.ProductID, l.VariantID)
}

// Gross is unit price times quantity.
func (l Line) Gross() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// DiscountTotal is the per-unit discount times quantity.
func (l Line) DiscountTotal() float64 {
	return l.Discount * float64(l.Quantity)
}

// Net is the line amount after its discount.
func (l Line) Net() float64 {
	return l.Gross() - l.DiscountTotal()
}

// CostTotal is unit cost times quantity.
func (l Line) CostTotal() float64 {
	return l.UnitCost * float64(l.Quantity)
}

// Cart is the sale being rung up at the register.
type Cart struct {
	ID         string     `json:"id"`
	Lines      []Line     `json:"lines"`
	Tenders    []Tender   `json:"tenders"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// New returns an empty cart for the given session key.
func New(id string) *Cart {
	return &Cart{ID: id, Lines: []Line{}, Tenders: []Tender{}, UpdatedAt: time.Now()}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Line returns the line with the given key, or nil.
func (c *Cart) Line(key string) *Line {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			return &c.Lines[i]
		}
	}
	return nil
}

// AddLine adds a line, merging quantities when the same product and variant are already present.
func (c *Cart) AddLine(l Line) {
	if l.Quantity < 1 {
		l.Quantity = 1
	}
	if l.Discount < 0 {
		l.Discount = 0
	}
	if existing := c.Line(l.Key()); existing != nil {
		existing.Quantity += l.Quantity
	} else {
		c.Lines = append(c.Lines, l)
	}
	c.touch()
}

// ChangeQuantity adjusts a line's quantity by delta. Quantity never drops below one;
// use RemoveLine to take a product out of the cart.
func (c *Cart) ChangeQuantity(key string, delta int) error {
	l := c.Line(key)
	if l == nil {
		return ErrLineNotFound
	}
	l.Quantity += delta
	if l.Quantity < 1 {
		l.Quantity = 1
	}
	c.touch()
	return nil
}

// SetDiscount sets the per-unit discount of a line.
func (c *Cart) SetDiscount(key string, discount float64) error {
	if discount < 0 {
		return ErrNegativeDiscount
	}
	l := c.Line(key)
	if l == nil {
		return ErrLineNotFound
	}
	l.Discount = discount
	c.touch()
	return nil
}

// RemoveLine takes a line out of the cart.
func (c *Cart) RemoveLine(key string) error {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.touch()
			return nil
		}
	}
	return ErrLineNotFound
}

// AddTender records a payment against the cart.
func (c *Cart) AddTender(method enum.PaymentMethod, amount float64) error {
	tenders, err := AddTender(c.Tenders, method, amount)
	if err != nil {
		return err
	}
	c.Tenders = tenders
	c.touch()
	return nil
}

// RemoveTender drops the tender at index i.
func (c *Cart) RemoveTender(i int) error {
	tenders, err := RemoveTender(c.Tenders, i)
	if err != nil {
		return err
	}
	c.Tenders = tenders
	c.touch()
	return nil
}

// SetCustomer attaches (or with nil detaches) a customer.
func (c *Cart) SetCustomer(id *uuid.UUID) {
	c.CustomerID = id
	c.touch()
}

// Clear empties the cart after a sale or on cancel.
func (c *Cart) Clear() {
	c.Lines = []Line{}
	c.Tenders = []Tender{}
	c.CustomerID = nil
	c.touch()
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}

// Quote is the priced state of a cart and its tenders.
type Quote struct {
	Totals
	Lines     []Line   `json:"lines"`
	Tenders   []Tender `json:"tenders"`
	Paid      float64  `json:"paid"`
	Remaining float64  `json:"remaining"`
	Change    float64  `json:"change"`
	Covered   bool     `json:"covered"`
}

// Quote prices the cart under the given tax rules.
func (c *Cart) Quote(taxRate float64, pricesIncludeTax bool) Quote {
	t := ComputeTotals(c.Lines, taxRate, pricesIncludeTax)
	return Quote{
		Totals:    t,
		Lines:     c.Lines,
		Tenders:   c.Tenders,
		Paid:      Paid(c.Tenders),
		Remaining: Remaining(t.Total, c.Tenders),
		Change:    Change(t.Total, c.Tenders),
		Covered:   !c.IsEmpty() && Covers(t.Total, c.Tenders),
	}
}
