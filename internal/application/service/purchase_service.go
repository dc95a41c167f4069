package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/sangkips/posgo-api/pkg/pagination"
	"go.uber.org/zap"
)

// PurchaseService receives supplier invoices into stock
type PurchaseService struct {
	lock         *sync.Mutex
	transactor   repository.Transactor
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	lock *sync.Mutex,
	transactor repository.Transactor,
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	logger *zap.Logger,
) *PurchaseService {
	return &PurchaseService{
		lock:         lock,
		transactor:   transactor,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// PurchaseItemInput represents an item in a purchase
type PurchaseItemInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	UnitCost  float64
}

// ReceivePurchaseInput represents a received supplier invoice.
// Either SupplierID or SupplierName identifies the supplier.
type ReceivePurchaseInput struct {
	SupplierID    *uuid.UUID
	SupplierName  string
	InvoiceNumber string
	ReceivedBy    *uuid.UUID
	Items         []PurchaseItemInput
}

// ReceivePurchase records the invoice, adds the received units to stock and
// takes each line's unit cost as the new product or variant cost.
func (s *PurchaseService) ReceivePurchase(ctx context.Context, input *ReceivePurchaseInput) (*entity.Purchase, error) {
	if err := validatePurchase(input); err != nil {
		return nil, err
	}

	supplierName := strings.TrimSpace(input.SupplierName)
	if input.SupplierID != nil {
		supplier, err := s.supplierRepo.GetByID(ctx, *input.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, apperror.NewNotFoundError("Supplier")
		}
		supplierName = supplier.Name
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	purchase := &entity.Purchase{
		ID:            uuid.New(),
		SupplierID:    input.SupplierID,
		SupplierName:  supplierName,
		InvoiceNumber: strings.TrimSpace(input.InvoiceNumber),
		ReceivedBy:    input.ReceivedBy,
		CreatedAt:     s.now(),
		Items:         make([]entity.PurchaseItem, 0, len(input.Items)),
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		for i, item := range input.Items {
			product, err := s.productRepo.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return apperror.NewNotFoundError(fmt.Sprintf("Product in item %d", i+1))
			}

			name := product.Name
			if item.VariantID != nil {
				variant := product.Variant(*item.VariantID)
				if variant == nil {
					return apperror.NewNotFoundError(fmt.Sprintf("Variant in item %d", i+1))
				}
				name += " " + variant.Name
			}

			line := entity.PurchaseItem{
				ProductID:   product.ID,
				VariantID:   item.VariantID,
				ProductName: name,
				Quantity:    item.Quantity,
				Cost:        item.UnitCost,
			}
			purchase.Items = append(purchase.Items, line)
			purchase.TotalCost += line.LineCost()
		}

		if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
			return err
		}

		for _, item := range purchase.Items {
			cost := item.Cost
			if err := s.productRepo.IncrementStock(ctx, item.ProductID, item.VariantID, item.Quantity, &cost); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase received",
		zap.String("invoice_number", purchase.InvoiceNumber),
		zap.String("supplier", purchase.SupplierName),
		zap.Int("items", len(purchase.Items)),
		zap.Float64("total_cost", purchase.TotalCost),
	)
	return purchase, nil
}

func validatePurchase(input *ReceivePurchaseInput) error {
	var fieldErrors []apperror.FieldError
	if input.SupplierID == nil && strings.TrimSpace(input.SupplierName) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "supplier", Message: "is required"})
	}
	if strings.TrimSpace(input.InvoiceNumber) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "invoice_number", Message: "is required"})
	}
	if len(input.Items) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "items", Message: "must have at least 1 item(s)"})
	}
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "must be greater than 0",
			})
		}
		if item.UnitCost < 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].unit_cost", i),
				Message: "must be at least 0",
			})
		}
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// GetPurchase retrieves a purchase by ID
func (s *PurchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	return purchase, nil
}

// ListPurchases lists purchases newest first
func (s *PurchaseService) ListPurchases(ctx context.Context, params *repository.PurchaseFilterParams) (*pagination.PaginatedResult[entity.Purchase], error) {
	purchases, total, err := s.purchaseRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(purchases, pag), nil
}
