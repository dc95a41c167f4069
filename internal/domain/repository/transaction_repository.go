package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/pkg/pagination"
)

// TransactionRepository defines the interface for sale records. Sales are
// append-only: there is no Update or Delete.
type TransactionRepository interface {
	// Create stores the transaction with its items and payments
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	// List returns sales newest first. A nil Pagination returns every match.
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	ShiftID    *uuid.UUID
	CustomerID *uuid.UUID
	ProductID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
