package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/sangkips/posgo-api/pkg/pagination"
)

// ProductService handles catalog operations
type ProductService struct {
	productRepo       repository.ProductRepository
	lowStockThreshold int
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, lowStockThreshold int) *ProductService {
	return &ProductService{
		productRepo:       productRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

// VariantInput describes one variant of a product. A nil ID creates a new variant.
type VariantInput struct {
	ID      *uuid.UUID
	Name    string
	Price   float64
	Cost    *float64
	Stock   int
	Barcode *string
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name        string
	Category    string
	Barcode     *string
	Description *string
	Price       float64
	Cost        float64
	Stock       int
	Variants    []VariantInput
}

// CreateProduct creates a new product. Products with variants take their
// stock from the variants.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if err := validateProduct(input.Name, input.Price, input.Cost, input.Variants); err != nil {
		return nil, err
	}

	product := &entity.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Category:    strings.TrimSpace(input.Category),
		Barcode:     trimmed(input.Barcode),
		Description: input.Description,
		Price:       input.Price,
		Cost:        input.Cost,
		Stock:       input.Stock,
		Variants:    buildVariants(input.Variants),
	}
	product.RecomputeStock()

	if err := s.ensureBarcodesFree(ctx, product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByBarcode retrieves a product by its own or one of its variants' barcode
func (s *ProductService) GetProductByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	product, err := s.productRepo.GetByBarcode(ctx, strings.TrimSpace(barcode))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.LowStock && params.Threshold <= 0 {
		params.Threshold = s.lowStockThreshold
	}

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input. Nil fields are left
// unchanged; a non-nil Variants replaces the whole variant list.
type UpdateProductInput struct {
	ID          uuid.UUID
	Name        *string
	Category    *string
	Barcode     *string
	Description *string
	Price       *float64
	Cost        *float64
	Stock       *int
	Variants    *[]VariantInput
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Barcode != nil {
		product.Barcode = trimmed(input.Barcode)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Cost != nil {
		product.Cost = *input.Cost
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}

	var variants []VariantInput
	if input.Variants != nil {
		variants = *input.Variants
	}
	if err := validateProduct(product.Name, product.Price, product.Cost, variants); err != nil {
		return nil, err
	}
	if input.Variants != nil {
		product.Variants = buildVariants(variants)
		for i := range product.Variants {
			product.Variants[i].ProductID = product.ID
		}
	}
	product.RecomputeStock()

	if err := s.ensureBarcodesFree(ctx, product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct deletes a product. Past sales keep their frozen line names.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// GetLowStockProducts returns products at or below the threshold, or the
// configured default when threshold is not positive
func (s *ProductService) GetLowStockProducts(ctx context.Context, threshold int) ([]entity.Product, error) {
	if threshold <= 0 {
		threshold = s.lowStockThreshold
	}
	return s.productRepo.GetLowStock(ctx, threshold)
}

// ensureBarcodesFree rejects barcodes already used by another product
func (s *ProductService) ensureBarcodesFree(ctx context.Context, product *entity.Product) error {
	barcodes := make([]string, 0, len(product.Variants)+1)
	if product.Barcode != nil {
		barcodes = append(barcodes, *product.Barcode)
	}
	for _, v := range product.Variants {
		if v.Barcode != nil {
			barcodes = append(barcodes, *v.Barcode)
		}
	}

	for _, code := range barcodes {
		existing, err := s.productRepo.GetByBarcode(ctx, code)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != product.ID {
			return apperror.NewConflictError(fmt.Sprintf("Barcode %s is already used by %s", code, existing.Name))
		}
	}
	return nil
}

func validateProduct(name string, price, cost float64, variants []VariantInput) error {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if price < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "must be at least 0"})
	}
	if cost < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "cost", Message: "must be at least 0"})
	}
	for i, v := range variants {
		if strings.TrimSpace(v.Name) == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("variants[%d].name", i), Message: "is required"})
		}
		if v.Price < 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("variants[%d].price", i), Message: "must be at least 0"})
		}
		if v.Cost != nil && *v.Cost < 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("variants[%d].cost", i), Message: "must be at least 0"})
		}
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func buildVariants(inputs []VariantInput) []entity.ProductVariant {
	variants := make([]entity.ProductVariant, 0, len(inputs))
	for _, in := range inputs {
		v := entity.ProductVariant{
			Name:    strings.TrimSpace(in.Name),
			Price:   in.Price,
			Cost:    in.Cost,
			Stock:   in.Stock,
			Barcode: trimmed(in.Barcode),
		}
		if in.ID != nil {
			v.ID = *in.ID
		} else {
			v.ID = uuid.New()
		}
		variants = append(variants, v)
	}
	return variants
}
