package repository

import (
	"context"

	"github.com/sangkips/posgo-api/internal/domain/cart"
)

// CartStore keeps in-progress carts keyed by register session
type CartStore interface {
	// Get returns (nil, nil) when no cart is stored under id
	Get(ctx context.Context, id string) (*cart.Cart, error)
	Save(ctx context.Context, c *cart.Cart) error
	Delete(ctx context.Context, id string) error
}
