package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/pkg/pagination"
)

// PurchaseRepository defines the interface for received supplier invoices
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)
	// List returns purchases newest first. A nil Pagination returns every match.
	List(ctx context.Context, params *PurchaseFilterParams) ([]entity.Purchase, int64, error)
}

// PurchaseFilterParams contains filtering parameters for purchase queries
type PurchaseFilterParams struct {
	Pagination *pagination.PaginationParams
	SupplierID *uuid.UUID
	ProductID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
