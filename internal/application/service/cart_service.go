package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/cart"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/apperror"
)

// CartService edits the in-progress sale of a register session
type CartService struct {
	carts        repository.CartStore
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	settings     *SettingsService
}

// NewCartService creates a new cart service
func NewCartService(
	carts repository.CartStore,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	settings *SettingsService,
) *CartService {
	return &CartService{
		carts:        carts,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		settings:     settings,
	}
}

// CartView is a cart priced under the current store settings
type CartView struct {
	ID         string     `json:"id"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	ItemCount  int        `json:"item_count"`
	cart.Quote
}

// GetCart returns the priced cart, empty when nothing is stored yet
func (s *CartService) GetCart(ctx context.Context, cartID string) (*CartView, error) {
	c, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// AddItemInput selects a product by ID or barcode
type AddItemInput struct {
	ProductID *uuid.UUID
	VariantID *uuid.UUID
	Barcode   string
	Quantity  int
}

// AddItem adds a product or variant to the cart, merging with an existing line
func (s *CartService) AddItem(ctx context.Context, cartID string, input *AddItemInput) (*CartView, error) {
	product, variantID, err := s.resolveProduct(ctx, input)
	if err != nil {
		return nil, err
	}

	var variant *entity.ProductVariant
	if variantID != nil {
		if variant = product.Variant(*variantID); variant == nil {
			return nil, apperror.NewNotFoundError("Product variant")
		}
	} else if product.HasVariants() {
		return nil, apperror.NewFieldError("variant_id", "is required for products with variants")
	}

	line := cart.Line{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.UnitPrice(variant),
		UnitCost:  product.UnitCost(variant),
		Quantity:  input.Quantity,
	}
	if variant != nil {
		line.VariantID = &variant.ID
		line.VariantName = variant.Name
	}

	return s.mutate(ctx, cartID, func(c *cart.Cart) error {
		c.AddLine(line)
		return nil
	})
}

func (s *CartService) resolveProduct(ctx context.Context, input *AddItemInput) (*entity.Product, *uuid.UUID, error) {
	var (
		product *entity.Product
		err     error
	)
	variantID := input.VariantID

	switch {
	case input.ProductID != nil:
		product, err = s.productRepo.GetByID(ctx, *input.ProductID)
	case strings.TrimSpace(input.Barcode) != "":
		barcode := strings.TrimSpace(input.Barcode)
		product, err = s.productRepo.GetByBarcode(ctx, barcode)
		if product != nil && variantID == nil {
			for i := range product.Variants {
				if v := product.Variants[i]; v.Barcode != nil && *v.Barcode == barcode {
					variantID = &product.Variants[i].ID
					break
				}
			}
		}
	default:
		return nil, nil, apperror.NewFieldError("product_id", "product_id or barcode is required")
	}
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, apperror.NewNotFoundError("Product")
	}
	return product, variantID, nil
}

// UpdateItemInput changes a line. Nil fields are left unchanged.
type UpdateItemInput struct {
	QuantityDelta *int
	Discount      *float64
}

// UpdateItem adjusts the quantity or per-unit discount of a line
func (s *CartService) UpdateItem(ctx context.Context, cartID, lineKey string, input *UpdateItemInput) (*CartView, error) {
	return s.mutate(ctx, cartID, func(c *cart.Cart) error {
		if input.QuantityDelta != nil {
			if err := c.ChangeQuantity(lineKey, *input.QuantityDelta); err != nil {
				return err
			}
		}
		if input.Discount != nil {
			return c.SetDiscount(lineKey, *input.Discount)
		}
		return nil
	})
}

// RemoveItem takes a line out of the cart
func (s *CartService) RemoveItem(ctx context.Context, cartID, lineKey string) (*CartView, error) {
	return s.mutate(ctx, cartID, func(c *cart.Cart) error {
		return c.RemoveLine(lineKey)
	})
}

// AddTender records a payment against the cart
func (s *CartService) AddTender(ctx context.Context, cartID string, method enum.PaymentMethod, amount float64) (*CartView, error) {
	return s.mutate(ctx, cartID, func(c *cart.Cart) error {
		return c.AddTender(method, amount)
	})
}

// RemoveTender drops the tender at index
func (s *CartService) RemoveTender(ctx context.Context, cartID string, index int) (*CartView, error) {
	return s.mutate(ctx, cartID, func(c *cart.Cart) error {
		return c.RemoveTender(index)
	})
}

// SetCustomer attaches a customer to the sale, or detaches it when customerID is nil
func (s *CartService) SetCustomer(ctx context.Context, cartID string, customerID *uuid.UUID) (*CartView, error) {
	if customerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *customerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}
	return s.mutate(ctx, cartID, func(c *cart.Cart) error {
		c.SetCustomer(customerID)
		return nil
	})
}

// ClearCart discards the cart
func (s *CartService) ClearCart(ctx context.Context, cartID string) error {
	return s.carts.Delete(ctx, cartID)
}

func (s *CartService) load(ctx context.Context, cartID string) (*cart.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, apperror.NewBadRequestError("Cart ID is required")
	}
	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = cart.New(cartID)
	}
	return c, nil
}

func (s *CartService) mutate(ctx context.Context, cartID string, fn func(c *cart.Cart) error) (*CartView, error) {
	c, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, cartError(err)
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

func (s *CartService) view(ctx context.Context, c *cart.Cart) (*CartView, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &CartView{
		ID:         c.ID,
		CustomerID: c.CustomerID,
		ItemCount:  c.ItemCount(),
		Quote:      c.Quote(settings.TaxRate, settings.PricesIncludeTax()),
	}, nil
}

// cartError maps cart rule violations to HTTP-aware errors
func cartError(err error) error {
	switch {
	case errors.Is(err, cart.ErrLineNotFound), errors.Is(err, cart.ErrTenderNotFound):
		return apperror.Wrap(http.StatusNotFound, err)
	case errors.Is(err, cart.ErrNegativeDiscount),
		errors.Is(err, cart.ErrInvalidTenderAmount),
		errors.Is(err, cart.ErrUnknownPaymentMethod):
		return apperror.Wrap(http.StatusUnprocessableEntity, err)
	}
	return err
}
