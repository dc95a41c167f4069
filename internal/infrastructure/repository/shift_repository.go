package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type shiftRepository struct {
	db *gorm.DB
}

// NewShiftRepository creates a new cash shift repository
func NewShiftRepository(db *gorm.DB) domainRepo.ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) Save(ctx context.Context, shift *entity.CashShift) error {
	return conn(ctx, r.db).Save(shift).Error
}

func (r *shiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashShift, error) {
	var shift entity.CashShift
	err := conn(ctx, r.db).First(&shift, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shift, err
}

func (r *shiftRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.CashShift, int64, error) {
	var shifts []entity.CashShift
	var total int64

	query := conn(ctx, r.db).Model(&entity.CashShift{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("start_time DESC").
		Find(&shifts).Error

	return shifts, total, err
}

type movementRepository struct {
	db *gorm.DB
}

// NewMovementRepository creates a new cash movement repository
func NewMovementRepository(db *gorm.DB) domainRepo.MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) Append(ctx context.Context, movement *entity.CashMovement) error {
	return conn(ctx, r.db).Create(movement).Error
}

func (r *movementRepository) ListByShift(ctx context.Context, shiftID uuid.UUID) ([]entity.CashMovement, error) {
	var movements []entity.CashMovement
	err := conn(ctx, r.db).
		Where("shift_id = ?", shiftID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}

type activeShiftStore struct {
	db *gorm.DB
}

// NewActiveShiftStore creates the register_state backed active shift pointer
func NewActiveShiftStore(db *gorm.DB) domainRepo.ActiveShiftStore {
	return &activeShiftStore{db: db}
}

func (s *activeShiftStore) GetActiveShiftID(ctx context.Context) (*uuid.UUID, error) {
	var state entity.RegisterState
	err := conn(ctx, s.db).First(&state, "id = ?", entity.RegisterStateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return state.ActiveShiftID, nil
}

// SetActiveShiftID upserts the single register_state row
func (s *activeShiftStore) SetActiveShiftID(ctx context.Context, id *uuid.UUID) error {
	state := entity.RegisterState{
		ID:            entity.RegisterStateID,
		ActiveShiftID: id,
		UpdatedAt:     time.Now(),
	}
	return conn(ctx, s.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"active_shift_id", "updated_at"}),
	}).Create(&state).Error
}
