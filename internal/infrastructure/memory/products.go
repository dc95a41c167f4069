package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
)

type productRepository struct{ s *Store }

// Products returns the store's product repository
func (s *Store) Products() domainRepo.ProductRepository { return &productRepository{s: s} }

func cloneProduct(p entity.Product) entity.Product {
	p.Variants = append([]entity.ProductVariant(nil), p.Variants...)
	return p
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	now := time.Now()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	for i := range product.Variants {
		if product.Variants[i].ID == uuid.Nil {
			product.Variants[i].ID = uuid.New()
		}
		product.Variants[i].ProductID = product.ID
		product.Variants[i].CreatedAt = now
		product.Variants[i].UpdatedAt = now
	}
	product.RecomputeStock()
	product.CreatedAt = now
	product.UpdatedAt = now

	defer r.s.write(ctx)()
	r.s.data.products[product.ID] = cloneProduct(*product)
	return nil
}

func (r *productRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, nil
	}
	out := cloneProduct(p)
	return &out, nil
}

func (r *productRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	products := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.data.products[id]; ok {
			products = append(products, cloneProduct(p))
		}
	}
	return products, nil
}

func (r *productRepository) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.data.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			out := cloneProduct(p)
			return &out, nil
		}
		for _, v := range p.Variants {
			if v.Barcode != nil && *v.Barcode == barcode {
				out := cloneProduct(p)
				return &out, nil
			}
		}
	}
	return nil, nil
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	defer r.s.write(ctx)()
	existing, ok := r.s.data.products[product.ID]
	if !ok {
		return domainRepo.ErrProductNotFound
	}
	now := time.Now()
	for i := range product.Variants {
		if product.Variants[i].ID == uuid.Nil {
			product.Variants[i].ID = uuid.New()
			product.Variants[i].CreatedAt = now
		}
		product.Variants[i].ProductID = product.ID
		product.Variants[i].UpdatedAt = now
	}
	product.RecomputeStock()
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = now
	r.s.data.products[product.ID] = cloneProduct(*product)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.write(ctx)()
	delete(r.s.data.products, id)
	return nil
}

func (r *productRepository) List(_ context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := make([]entity.Product, 0, len(r.s.data.products))
	for _, p := range r.s.data.products {
		if params.Search != "" && !containsFold(p.Name, params.Search) && !strPtrContains(p.Barcode, params.Search) {
			continue
		}
		if params.Category != "" && p.Category != params.Category {
			continue
		}
		if params.LowStock && p.Stock > params.Threshold {
			continue
		}
		products = append(products, cloneProduct(p))
	}

	less := productLess(params.SortBy)
	if strings.EqualFold(params.SortOrder, "asc") {
		sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
	} else {
		sort.SliceStable(products, func(i, j int) bool { return less(products[j], products[i]) })
	}

	return page(products, params.Pagination), int64(len(products)), nil
}

func productLess(sortBy string) func(a, b entity.Product) bool {
	switch sortBy {
	case "name":
		return func(a, b entity.Product) bool { return a.Name < b.Name }
	case "price":
		return func(a, b entity.Product) bool { return a.Price < b.Price }
	case "stock":
		return func(a, b entity.Product) bool { return a.Stock < b.Stock }
	case "category":
		return func(a, b entity.Product) bool { return a.Category < b.Category }
	default:
		return func(a, b entity.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

func (r *productRepository) GetLowStock(_ context.Context, threshold int) ([]entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var products []entity.Product
	for _, p := range r.s.data.products {
		if p.Stock <= threshold {
			products = append(products, cloneProduct(p))
		}
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].Stock < products[j].Stock })
	return products, nil
}

func (r *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, variantID *uuid.UUID, qty int) error {
	return r.adjust(ctx, id, variantID, -qty, nil)
}

func (r *productRepository) IncrementStock(ctx context.Context, id uuid.UUID, variantID *uuid.UUID, qty int, unitCost *float64) error {
	return r.adjust(ctx, id, variantID, qty, unitCost)
}

func (r *productRepository) adjust(ctx context.Context, id uuid.UUID, variantID *uuid.UUID, delta int, unitCost *float64) error {
	defer r.s.write(ctx)()

	stored, ok := r.s.data.products[id]
	if !ok {
		return domainRepo.ErrProductNotFound
	}
	p := cloneProduct(stored)

	if variantID == nil {
		p.Stock += delta
		if unitCost != nil {
			p.Cost = *unitCost
		}
	} else {
		v := p.Variant(*variantID)
		if v == nil {
			return domainRepo.ErrVariantNotFound
		}
		v.Stock += delta
		if unitCost != nil {
			cost := *unitCost
			v.Cost = &cost
		}
		v.UpdatedAt = time.Now()
		p.RecomputeStock()
	}

	p.UpdatedAt = time.Now()
	r.s.data.products[id] = p
	return nil
}
