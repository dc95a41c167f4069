package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID loads a product with its variants. Returns (nil, nil) when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	// GetLowStock returns products whose aggregate stock is at or below threshold
	GetLowStock(ctx context.Context, threshold int) ([]entity.Product, error)
	// DecrementStock subtracts qty from the variant (when given) or the product and
	// keeps the product's aggregate stock equal to the sum of its variants.
	// Stock may go negative; the oversell guard lives in the service.
	DecrementStock(ctx context.Context, id uuid.UUID, variantID *uuid.UUID, qty int) error
	// IncrementStock adds qty and, when unitCost is set, records it as the new cost.
	IncrementStock(ctx context.Context, id uuid.UUID, variantID *uuid.UUID, qty int, unitCost *float64) error
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
	LowStock   bool
	Threshold  int
	SortBy     string
	SortOrder  string
}
