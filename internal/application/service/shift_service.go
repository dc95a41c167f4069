package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/sangkips/posgo-api/pkg/pagination"
	"go.uber.org/zap"
)

const (
	openDescription  = "Shift opened"
	closeDescription = "Shift closed"
)

// ShiftService owns the cash drawer lifecycle and the active shift pointer.
// Every mutation holds the register lock and commits through the transactor.
type ShiftService struct {
	lock         *sync.Mutex
	transactor   repository.Transactor
	shiftRepo    repository.ShiftRepository
	movementRepo repository.MovementRepository
	activeShift  repository.ActiveShiftStore
	txnRepo      repository.TransactionRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewShiftService creates a new shift service
func NewShiftService(
	lock *sync.Mutex,
	transactor repository.Transactor,
	shiftRepo repository.ShiftRepository,
	movementRepo repository.MovementRepository,
	activeShift repository.ActiveShiftStore,
	txnRepo repository.TransactionRepository,
	logger *zap.Logger,
) *ShiftService {
	return &ShiftService{
		lock:         lock,
		transactor:   transactor,
		shiftRepo:    shiftRepo,
		movementRepo: movementRepo,
		activeShift:  activeShift,
		txnRepo:      txnRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// OpenShiftInput represents the opening float of a new shift
type OpenShiftInput struct {
	StartAmount float64
	OpenedBy    *uuid.UUID
}

// OpenShift starts a new shift. Only one shift may be open at a time.
func (s *ShiftService) OpenShift(ctx context.Context, input *OpenShiftInput) (*entity.CashShift, error) {
	if input.StartAmount < 0 {
		return nil, apperror.NewFieldError("start_amount", "must be at least 0")
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	var shift *entity.CashShift
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		active, err := s.current(ctx)
		if err != nil {
			return err
		}
		if active != nil {
			return apperror.ErrShiftAlreadyOpen
		}

		now := s.now()
		shift = &entity.CashShift{
			ID:          uuid.New(),
			Status:      enum.ShiftStatusOpen,
			OpenedBy:    input.OpenedBy,
			StartTime:   now,
			StartAmount: input.StartAmount,
		}
		if err := s.shiftRepo.Save(ctx, shift); err != nil {
			return err
		}
		if err := s.movementRepo.Append(ctx, &entity.CashMovement{
			ShiftID:     shift.ID,
			Type:        enum.MovementTypeOpen,
			Amount:      input.StartAmount,
			Description: openDescription,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		return s.activeShift.SetActiveShiftID(ctx, &shift.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("shift opened",
		zap.String("shift_id", shift.ID.String()),
		zap.Float64("start_amount", shift.StartAmount),
	)
	return shift, nil
}

// RecordMovementInput represents a manual cash drawer adjustment
type RecordMovementInput struct {
	Type        enum.MovementType
	Amount      float64
	Description string
}

// RecordMovement adds an IN or OUT entry to the open shift's ledger
func (s *ShiftService) RecordMovement(ctx context.Context, input *RecordMovementInput) (*entity.CashMovement, error) {
	if !input.Type.IsManual() {
		return nil, apperror.NewFieldError("type", "must be one of: IN OUT")
	}
	if input.Amount <= 0 {
		return nil, apperror.NewFieldError("amount", "must be greater than 0")
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	shift, err := s.RequireActive(ctx)
	if err != nil {
		return nil, err
	}

	movement := &entity.CashMovement{
		ShiftID:     shift.ID,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   s.now(),
	}
	if err := s.movementRepo.Append(ctx, movement); err != nil {
		return nil, err
	}

	s.logger.Info("cash movement recorded",
		zap.String("shift_id", shift.ID.String()),
		zap.String("type", movement.Type.String()),
		zap.Float64("amount", movement.Amount),
	)
	return movement, nil
}

// CloseShiftInput represents the counted cash at the end of a shift
type CloseShiftInput struct {
	CountedAmount float64
}

// CloseShift reconciles and closes the open shift, returning its report
func (s *ShiftService) CloseShift(ctx context.Context, input *CloseShiftInput) (*entity.ShiftReport, error) {
	if input.CountedAmount < 0 {
		return nil, apperror.NewFieldError("counted_amount", "must be at least 0")
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	var report *entity.ShiftReport
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		shift, err := s.RequireActive(ctx)
		if err != nil {
			return err
		}

		live, err := s.buildReport(ctx, shift)
		if err != nil {
			return err
		}

		now := s.now()
		counted := input.CountedAmount
		expected := live.ExpectedCash
		shift.Status = enum.ShiftStatusClosed
		shift.EndTime = &now
		shift.EndAmount = &counted
		shift.ExpectedAmount = &expected
		shift.TotalSalesCash = CashSales(live.Transactions)
		shift.TotalSalesDigital = live.DigitalTotal

		if err := s.shiftRepo.Save(ctx, shift); err != nil {
			return err
		}
		if err := s.movementRepo.Append(ctx, &entity.CashMovement{
			ShiftID:     shift.ID,
			Type:        enum.MovementTypeClose,
			Amount:      counted,
			Description: closeDescription,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		if err := s.activeShift.SetActiveShiftID(ctx, nil); err != nil {
			return err
		}

		report, err = s.buildReport(ctx, shift)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("shift closed",
		zap.String("shift_id", report.Shift.ID.String()),
		zap.Float64("expected", report.ExpectedCash),
		zap.Float64("counted", input.CountedAmount),
		zap.Float64("discrepancy", *report.Discrepancy),
	)
	return report, nil
}

// ActiveShift returns the open shift, or nil when the drawer is closed
func (s *ShiftService) ActiveShift(ctx context.Context) (*entity.CashShift, error) {
	return s.current(ctx)
}

// RequireActive returns the open shift or ErrNoActiveShift
func (s *ShiftService) RequireActive(ctx context.Context) (*entity.CashShift, error) {
	shift, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.ErrNoActiveShift
	}
	return shift, nil
}

// current resolves the active pointer. A pointer to a missing or closed
// shift is treated as no active shift.
func (s *ShiftService) current(ctx context.Context) (*entity.CashShift, error) {
	id, err := s.activeShift.GetActiveShiftID(ctx)
	if err != nil || id == nil {
		return nil, err
	}
	shift, err := s.shiftRepo.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if shift == nil || !shift.IsOpen() {
		s.logger.Warn("active shift pointer is stale", zap.String("shift_id", id.String()))
		return nil, nil
	}
	return shift, nil
}

// Status returns the live report of the open shift
func (s *ShiftService) Status(ctx context.Context) (*entity.ShiftReport, error) {
	shift, err := s.RequireActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildReport(ctx, shift)
}

// GetReport returns the report of any shift, open or closed
func (s *ShiftService) GetReport(ctx context.Context, id uuid.UUID) (*entity.ShiftReport, error) {
	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	return s.buildReport(ctx, shift)
}

// ListShifts lists shifts newest first
func (s *ShiftService) ListShifts(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.CashShift], error) {
	shifts, total, err := s.shiftRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(shifts, pag), nil
}

func (s *ShiftService) buildReport(ctx context.Context, shift *entity.CashShift) (*entity.ShiftReport, error) {
	movements, err := s.movementRepo.ListByShift(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	txns, _, err := s.txnRepo.List(ctx, &repository.TransactionFilterParams{ShiftID: &shift.ID})
	if err != nil {
		return nil, err
	}

	cashIn, cashOut := MovementTotals(movements)
	report := &entity.ShiftReport{
		Shift:        *shift,
		Movements:    movements,
		Transactions: txns,
		CashIn:       cashIn,
		CashOut:      cashOut,
		ExpectedCash: ExpectedCash(shift.StartAmount, txns, movements),
		DigitalTotal: DigitalSales(txns),
	}
	if shift.ExpectedAmount != nil {
		report.ExpectedCash = *shift.ExpectedAmount
	}
	if shift.EndAmount != nil {
		report.CountedCash = shift.EndAmount
		report.Discrepancy = shift.Discrepancy()
	}
	return report, nil
}

// ExpectedCash is the opening float plus cash tenders plus IN minus OUT movements.
// Cash tenders count in full, including any change handed back.
func ExpectedCash(startAmount float64, txns []entity.Transaction, movements []entity.CashMovement) float64 {
	in, out := MovementTotals(movements)
	return startAmount + CashSales(txns) + in - out
}

// CashSales sums the cash tenders across the sales
func CashSales(txns []entity.Transaction) float64 {
	var total float64
	for i := range txns {
		total += txns[i].CashAmount()
	}
	return total
}

// DigitalSales sums the non-cash tenders across the sales
func DigitalSales(txns []entity.Transaction) float64 {
	var total float64
	for i := range txns {
		total += txns[i].DigitalAmount()
	}
	return total
}

// MovementTotals sums the manual IN and OUT movements
func MovementTotals(movements []entity.CashMovement) (in, out float64) {
	for _, m := range movements {
		switch m.Type {
		case enum.MovementTypeIn:
			in += m.Amount
		case enum.MovementTypeOut:
			out += m.Amount
		case enum.MovementTypeOpen, enum.MovementTypeClose:
		}
	}
	return in, out
}
