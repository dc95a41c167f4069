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

type shiftRepository struct{ s *Store }

// Shifts returns the store's cash shift repository
func (s *Store) Shifts() domainRepo.ShiftRepository { return &shiftRepository{s: s} }

func (r *shiftRepository) Save(ctx context.Context, shift *entity.CashShift) error {
	now := time.Now()
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	defer r.s.write(ctx)()
	if existing, ok := r.s.data.shifts[shift.ID]; ok {
		shift.CreatedAt = existing.CreatedAt
	} else if shift.CreatedAt.IsZero() {
		shift.CreatedAt = now
	}
	shift.UpdatedAt = now
	r.s.data.shifts[shift.ID] = *shift
	return nil
}

func (r *shiftRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.CashShift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	shift, ok := r.s.data.shifts[id]
	if !ok {
		return nil, nil
	}
	return &shift, nil
}

func (r *shiftRepository) List(_ context.Context, params *pagination.PaginationParams) ([]entity.CashShift, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	shifts := make([]entity.CashShift, 0, len(r.s.data.shifts))
	for _, shift := range r.s.data.shifts {
		shifts = append(shifts, shift)
	}
	sort.SliceStable(shifts, func(i, j int) bool { return shifts[i].StartTime.After(shifts[j].StartTime) })
	return page(shifts, params), int64(len(shifts)), nil
}

type movementRepository struct{ s *Store }

// Movements returns the store's cash ledger
func (s *Store) Movements() domainRepo.MovementRepository { return &movementRepository{s: s} }

func (r *movementRepository) Append(ctx context.Context, movement *entity.CashMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	defer r.s.write(ctx)()
	r.s.data.movements = append(r.s.data.movements, *movement)
	return nil
}

func (r *movementRepository) ListByShift(_ context.Context, shiftID uuid.UUID) ([]entity.CashMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	movements := make([]entity.CashMovement, 0)
	for _, m := range r.s.data.movements {
		if m.ShiftID == shiftID {
			movements = append(movements, m)
		}
	}
	return movements, nil
}

type activeShiftStore struct{ s *Store }

// ActiveShift returns the active shift pointer
func (s *Store) ActiveShift() domainRepo.ActiveShiftStore { return &activeShiftStore{s: s} }

func (a *activeShiftStore) GetActiveShiftID(_ context.Context) (*uuid.UUID, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	if a.s.data.activeShiftID == nil {
		return nil, nil
	}
	id := *a.s.data.activeShiftID
	return &id, nil
}

func (a *activeShiftStore) SetActiveShiftID(ctx context.Context, id *uuid.UUID) error {
	defer a.s.write(ctx)()
	if id == nil {
		a.s.data.activeShiftID = nil
		return nil
	}
	v := *id
	a.s.data.activeShiftID = &v
	return nil
}
