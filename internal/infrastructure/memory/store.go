// Package memory is a process-local implementation of every repository,
// used for a single register running without Postgres and by the tests.
//
// Stored values are never mutated in place: every write replaces the map
// entry with a fresh copy. That keeps snapshots cheap, since a transaction
// only has to copy the maps, not the entities.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/cart"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/pagination"
)

// Store holds all register data in memory
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data state
}

type state struct {
	products      map[uuid.UUID]entity.Product
	transactions  []entity.Transaction
	shifts        map[uuid.UUID]entity.CashShift
	movements     []entity.CashMovement
	activeShiftID *uuid.UUID
	customers     map[uuid.UUID]entity.Customer
	suppliers     map[uuid.UUID]entity.Supplier
	purchases     []entity.Purchase
	settings      *entity.StoreSettings
	idempotency   map[string]entity.IdempotencyKey
	carts         map[string]cart.Cart
}

// New creates an empty store
func New() *Store {
	return &Store{data: state{
		products:    make(map[uuid.UUID]entity.Product),
		shifts:      make(map[uuid.UUID]entity.CashShift),
		customers:   make(map[uuid.UUID]entity.Customer),
		suppliers:   make(map[uuid.UUID]entity.Supplier),
		idempotency: make(map[string]entity.IdempotencyKey),
		carts:       make(map[string]cart.Cart),
	}}
}

// snapshot copies the containers. Entities are immutable once stored, so
// copying the maps and slices is enough.
func (d state) snapshot() state {
	out := d
	out.products = copyMap(d.products)
	out.transactions = append([]entity.Transaction(nil), d.transactions...)
	out.shifts = copyMap(d.shifts)
	out.movements = append([]entity.CashMovement(nil), d.movements...)
	out.customers = copyMap(d.customers)
	out.suppliers = copyMap(d.suppliers)
	out.purchases = append([]entity.Purchase(nil), d.purchases...)
	out.idempotency = copyMap(d.idempotency)
	out.carts = copyMap(d.carts)
	if d.activeShiftID != nil {
		id := *d.activeShiftID
		out.activeShiftID = &id
	}
	if d.settings != nil {
		s := *d.settings
		out.settings = &s
	}
	return out
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// write takes the write lock for a repository mutation and returns its
// release. Outside a transaction it first waits for any open transaction,
// so a rollback never discards another caller's committed write.
func (s *Store) write(ctx context.Context) func() {
	if domainRepo.InTransaction(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// WithinTransaction runs fn and restores the previous state if it fails.
// Transactions and writers outside them are serialized on txMu; reads are
// not isolated from an open transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if domainRepo.InTransaction(ctx) {
		return fn(ctx)
	}

	txCtx := domainRepo.MarkInTransaction(ctx)
	if err := s.apply(txCtx, fn); err != nil {
		return err
	}
	domainRepo.RunAfterCommit(txCtx, ctx)
	return nil
}

// apply runs fn holding txMu and rolls the state back when it fails
func (s *Store) apply(txCtx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	saved := s.data.snapshot()
	s.mu.RUnlock()

	if err := fn(txCtx); err != nil {
		s.mu.Lock()
		s.data = saved
		s.mu.Unlock()
		return err
	}
	return nil
}

// Transactor exposes the store as a domain Transactor
func (s *Store) Transactor() domainRepo.Transactor { return s }

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func strPtrContains(p *string, needle string) bool {
	return p != nil && containsFold(*p, needle)
}

// page slices items for the requested page. A nil params returns everything.
func page[T any](items []T, params *pagination.PaginationParams) []T {
	if params == nil {
		return items
	}
	params.Validate()
	start := params.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + params.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
