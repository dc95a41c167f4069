package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/pagination"
)

type customerRepository struct{ s *Store }

// Customers returns the store's customer repository
func (s *Store) Customers() domainRepo.CustomerRepository { return &customerRepository{s: s} }

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	now := time.Now()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	customer.CreatedAt = now
	customer.UpdatedAt = now
	defer r.s.write(ctx)()
	r.s.data.customers[customer.ID] = *customer
	return nil
}

func (r *customerRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.data.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *customerRepository) GetByDNI(_ context.Context, dni string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.data.customers {
		if c.DNI != nil && *c.DNI == dni {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	defer r.s.write(ctx)()
	customer.UpdatedAt = time.Now()
	r.s.data.customers[customer.ID] = *customer
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.write(ctx)()
	delete(r.s.data.customers, id)
	return nil
}

func (r *customerRepository) List(_ context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	customers := make([]entity.Customer, 0, len(r.s.data.customers))
	for _, c := range r.s.data.customers {
		if search != "" && !containsFold(c.Name, search) && !strPtrContains(c.DNI, search) && !strPtrContains(c.Phone, search) {
			continue
		}
		customers = append(customers, c)
	}
	sort.SliceStable(customers, func(i, j int) bool { return customers[i].Name < customers[j].Name })
	return page(customers, params), int64(len(customers)), nil
}

func (r *customerRepository) RecordPurchase(ctx context.Context, id uuid.UUID, at time.Time) error {
	defer r.s.write(ctx)()
	c, ok := r.s.data.customers[id]
	if !ok {
		return nil
	}
	c.TotalPurchases++
	c.LastPurchaseDate = &at
	c.UpdatedAt = time.Now()
	r.s.data.customers[id] = c
	return nil
}

type supplierRepository struct{ s *Store }

// Suppliers returns the store's supplier repository
func (s *Store) Suppliers() domainRepo.SupplierRepository { return &supplierRepository{s: s} }

func (r *supplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	now := time.Now()
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	supplier.CreatedAt = now
	supplier.UpdatedAt = now
	defer r.s.write(ctx)()
	r.s.data.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *supplierRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.data.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *supplierRepository) Update(ctx context.Context, supplier *entity.Supplier) error {
	defer r.s.write(ctx)()
	supplier.UpdatedAt = time.Now()
	r.s.data.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *supplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.write(ctx)()
	delete(r.s.data.suppliers, id)
	return nil
}

func (r *supplierRepository) List(_ context.Context, params *pagination.PaginationParams, search string) ([]entity.Supplier, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	suppliers := make([]entity.Supplier, 0, len(r.s.data.suppliers))
	for _, s := range r.s.data.suppliers {
		if search != "" && !containsFold(s.Name, search) && !strPtrContains(s.RUC, search) {
			continue
		}
		suppliers = append(suppliers, s)
	}
	sort.SliceStable(suppliers, func(i, j int) bool { return suppliers[i].Name < suppliers[j].Name })
	return page(suppliers, params), int64(len(suppliers)), nil
}
