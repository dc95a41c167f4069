package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
)

type purchaseRepository struct{ s *Store }

// Purchases returns the store's purchase repository
func (s *Store) Purchases() domainRepo.PurchaseRepository { return &purchaseRepository{s: s} }

func clonePurchase(p entity.Purchase) entity.Purchase {
	p.Items = append([]entity.PurchaseItem(nil), p.Items...)
	return p
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = time.Now()
	}
	for i := range purchase.Items {
		if purchase.Items[i].ID == uuid.Nil {
			purchase.Items[i].ID = uuid.New()
		}
		purchase.Items[i].PurchaseID = purchase.ID
	}
	defer r.s.write(ctx)()
	r.s.data.purchases = append(r.s.data.purchases, clonePurchase(*purchase))
	return nil
}

func (r *purchaseRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Purchase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.data.purchases {
		if p.ID == id {
			out := clonePurchase(p)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *purchaseRepository) List(_ context.Context, params *domainRepo.PurchaseFilterParams) ([]entity.Purchase, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	period := domainRepo.DateRange{From: params.StartDate, To: params.EndDate}
	purchases := make([]entity.Purchase, 0)
	for i := len(r.s.data.purchases) - 1; i >= 0; i-- {
		p := r.s.data.purchases[i]
		if params.SupplierID != nil && (p.SupplierID == nil || *p.SupplierID != *params.SupplierID) {
			continue
		}
		if params.ProductID != nil && !p.HasProduct(*params.ProductID) {
			continue
		}
		if !period.Contains(p.CreatedAt) {
			continue
		}
		purchases = append(purchases, clonePurchase(p))
	}
	sort.SliceStable(purchases, func(i, j int) bool { return purchases[i].CreatedAt.After(purchases[j].CreatedAt) })

	return page(purchases, params.Pagination), int64(len(purchases)), nil
}
