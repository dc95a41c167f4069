package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/cart"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/sangkips/posgo-api/pkg/money"
	"github.com/sangkips/posgo-api/pkg/utils"
	"go.uber.org/zap"
)

// TicketPrefix is the series printed before every sale ticket number
const TicketPrefix = "B001"

// SettlementService turns a priced cart and its tenders into a finalized sale
type SettlementService struct {
	lock         *sync.Mutex
	transactor   repository.Transactor
	shifts       *ShiftService
	settings     *SettingsService
	productRepo  repository.ProductRepository
	txnRepo      repository.TransactionRepository
	customerRepo repository.CustomerRepository
	carts        repository.CartStore
	logger       *zap.Logger
	now          func() time.Time
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	lock *sync.Mutex,
	transactor repository.Transactor,
	shifts *ShiftService,
	settings *SettingsService,
	productRepo repository.ProductRepository,
	txnRepo repository.TransactionRepository,
	customerRepo repository.CustomerRepository,
	carts repository.CartStore,
	logger *zap.Logger,
) *SettlementService {
	return &SettlementService{
		lock:         lock,
		transactor:   transactor,
		shifts:       shifts,
		settings:     settings,
		productRepo:  productRepo,
		txnRepo:      txnRepo,
		customerRepo: customerRepo,
		carts:        carts,
		logger:       logger,
		now:          time.Now,
	}
}

// SaleInput is everything needed to finalize a sale
type SaleInput struct {
	Lines      []cart.Line
	Tenders    []cart.Tender
	CustomerID *uuid.UUID
	CashierID  *uuid.UUID
}

// Checkout finalizes the stored cart and clears it. The cart is read and
// deleted under the register lock and inside the sale's transaction, so a
// repeated checkout of the same cart finds it empty.
func (s *SettlementService) Checkout(ctx context.Context, cartID string, cashierID *uuid.UUID) (*entity.Transaction, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = cart.New(cartID)
	}

	return s.finalize(ctx, &SaleInput{
		Lines:      c.Lines,
		Tenders:    c.Tenders,
		CustomerID: c.CustomerID,
		CashierID:  cashierID,
	}, func(ctx context.Context) error {
		return s.carts.Delete(ctx, cartID)
	})
}

// FinalizeSale records the sale, decrements stock and updates the customer,
// all in one transaction. Nothing changes when it returns an error.
func (s *SettlementService) FinalizeSale(ctx context.Context, input *SaleInput) (*entity.Transaction, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.finalize(ctx, input, nil)
}

// finalize does the work of FinalizeSale with the register lock held.
// onCommit, when set, runs last inside the transaction.
func (s *SettlementService) finalize(ctx context.Context, input *SaleInput, onCommit func(ctx context.Context) error) (*entity.Transaction, error) {
	shift, err := s.shifts.RequireActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(input.Lines) == 0 {
		return nil, apperror.ErrEmptyCart
	}
	if err := s.validateLines(ctx, input.Lines); err != nil {
		return nil, err
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	totals := cart.ComputeTotals(input.Lines, settings.TaxRate, settings.PricesIncludeTax())
	if !cart.Covers(totals.Total, input.Tenders) {
		return nil, apperror.ErrInsufficientTender
	}

	var txn *entity.Transaction
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if !settings.AllowOversell {
			if err := s.checkStock(ctx, input.Lines); err != nil {
				return err
			}
		}

		now := s.now()
		txn = &entity.Transaction{
			ID:            uuid.New(),
			TicketNo:      utils.GenerateTicketNo(TicketPrefix, now),
			ShiftID:       shift.ID,
			CashierID:     input.CashierID,
			CustomerID:    input.CustomerID,
			Subtotal:      totals.Subtotal,
			Tax:           totals.Tax,
			Discount:      totals.Discount,
			Total:         totals.Total,
			PaymentMethod: cart.PrimaryMethod(input.Tenders),
			AmountPaid:    cart.Paid(input.Tenders),
			Change:        cart.Change(totals.Total, input.Tenders),
			Profit:        cart.Profit(totals, input.Lines),
			CreatedAt:     now,
			Items:         make([]entity.TransactionItem, 0, len(input.Lines)),
			Payments:      make([]entity.TransactionPayment, 0, len(input.Tenders)),
		}

		if input.CustomerID != nil {
			customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return apperror.NewNotFoundError("Customer")
			}
			txn.CustomerName = customer.Name
		}

		for _, l := range input.Lines {
			txn.Items = append(txn.Items, entity.TransactionItem{
				ProductID:   l.ProductID,
				VariantID:   l.VariantID,
				Name:        l.Name,
				VariantName: l.VariantName,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				UnitCost:    l.UnitCost,
				Discount:    l.Discount,
				LineTotal:   money.FloorZero(l.Net()),
			})
		}
		for i, t := range input.Tenders {
			txn.Payments = append(txn.Payments, entity.TransactionPayment{
				Position: i,
				Method:   t.Method,
				Amount:   t.Amount,
			})
		}

		if err := s.txnRepo.Create(ctx, txn); err != nil {
			return err
		}

		for _, l := range input.Lines {
			err := s.productRepo.DecrementStock(ctx, l.ProductID, l.VariantID, l.Quantity)
			if errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, repository.ErrVariantNotFound) {
				s.logger.Warn("skipping stock update for sold line",
					zap.String("product_id", l.ProductID.String()),
					zap.Error(err),
				)
				continue
			}
			if err != nil {
				return err
			}
		}

		if input.CustomerID != nil {
			if err := s.customerRepo.RecordPurchase(ctx, *input.CustomerID, now); err != nil {
				return err
			}
		}

		if onCommit != nil {
			return onCommit(ctx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale finalized",
		zap.String("ticket_no", txn.TicketNo),
		zap.String("shift_id", shift.ID.String()),
		zap.Float64("total", txn.Total),
		zap.String("payment_method", txn.PaymentMethod.String()),
		zap.Int("payments", len(txn.Payments)),
	)
	return txn, nil
}

// validateLines rejects lines that cannot be sold as given: a quantity below
// one, or a product with variants sold without naming one.
func (s *SettlementService) validateLines(ctx context.Context, lines []cart.Line) error {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return apperror.NewFieldError("quantity", fmt.Sprintf("must be at least 1 for %s", l.Name))
		}
		if l.VariantID == nil {
			ids = append(ids, l.ProductID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].HasVariants() {
			return apperror.NewFieldError("variant_id", fmt.Sprintf("is required for %s", products[i].Name))
		}
	}
	return nil
}

// checkStock rejects lines asking for more units than the product or variant holds
func (s *SettlementService) checkStock(ctx context.Context, lines []cart.Line) error {
	wanted := make(map[string]int, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		wanted[l.Key()] += l.Quantity
		ids = append(ids, l.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			continue
		}
		var variant *entity.ProductVariant
		if l.VariantID != nil {
			if variant = p.Variant(*l.VariantID); variant == nil {
				continue
			}
		}
		if available := p.Available(variant); wanted[l.Key()] > available {
			return apperror.WithMessage(apperror.ErrInsufficientStock,
				fmt.Sprintf("Not enough stock for %s: %d available", l.Name, available))
		}
	}
	return nil
}

// GetTransaction retrieves a sale by ID
func (s *SettlementService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}
