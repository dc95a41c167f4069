package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/pkg/pagination"
)

// ShiftRepository defines the interface for cash shift records
type ShiftRepository interface {
	// Save inserts or replaces the shift
	Save(ctx context.Context, shift *entity.CashShift) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashShift, error)
	// List returns shifts newest first
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.CashShift, int64, error)
}

// MovementRepository defines the interface for the append-only cash ledger
type MovementRepository interface {
	Append(ctx context.Context, movement *entity.CashMovement) error
	// ListByShift returns the shift's movements oldest first
	ListByShift(ctx context.Context, shiftID uuid.UUID) ([]entity.CashMovement, error)
}

// ActiveShiftStore holds the pointer to the single OPEN shift.
// Only the shift service reads or writes it.
type ActiveShiftStore interface {
	// GetActiveShiftID returns nil when no shift is open
	GetActiveShiftID(ctx context.Context) (*uuid.UUID, error)
	SetActiveShiftID(ctx context.Context, id *uuid.UUID) error
}
