package memory

import (
	"context"

	"github.com/sangkips/posgo-api/internal/domain/cart"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
)

type cartStore struct{ s *Store }

// Carts returns a cart store kept alongside the rest of the register data.
// Carts saved here are rolled back with a failed transaction.
func (s *Store) Carts() domainRepo.CartStore { return &cartStore{s: s} }

func cloneCart(c cart.Cart) cart.Cart {
	c.Lines = append([]cart.Line{}, c.Lines...)
	c.Tenders = append([]cart.Tender{}, c.Tenders...)
	return c
}

func (c *cartStore) Get(_ context.Context, id string) (*cart.Cart, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	stored, ok := c.s.data.carts[id]
	if !ok {
		return nil, nil
	}
	out := cloneCart(stored)
	return &out, nil
}

func (c *cartStore) Save(ctx context.Context, crt *cart.Cart) error {
	defer c.s.write(ctx)()
	c.s.data.carts[crt.ID] = cloneCart(*crt)
	return nil
}

func (c *cartStore) Delete(ctx context.Context, id string) error {
	defer c.s.write(ctx)()
	delete(c.s.data.carts, id)
	return nil
}
