package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

var productSortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"category":   "category",
	"created_at": "created_at",
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	product.RecomputeStock()
	return conn(ctx, r.db).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).
		Preload("Variants").
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := conn(ctx, r.db).
		Preload("Variants").
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

// GetByBarcode matches the product barcode or any of its variant barcodes
func (r *productRepository) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).
		Preload("Variants").
		Where("barcode = ?", barcode).
		Or("id IN (?)", r.db.Model(&entity.ProductVariant{}).Select("product_id").Where("barcode = ?", barcode)).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// Update saves the product and replaces its variant set
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	product.RecomputeStock()
	db := conn(ctx, r.db)
	return db.Transaction(func(tx *gorm.DB) error {
		keep := make([]uuid.UUID, 0, len(product.Variants))
		for _, v := range product.Variants {
			if v.ID != uuid.Nil {
				keep = append(keep, v.ID)
			}
		}
		stale := tx.Where("product_id = ?", product.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&entity.ProductVariant{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error
	})
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := conn(ctx, r.db).Model(&entity.Product{})

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR barcode ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.LowStock {
		query = query.Where("stock <= ?", params.Threshold)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if col, ok := productSortColumns[params.SortBy]; ok {
		sortBy = col
	}
	if strings.EqualFold(params.SortOrder, "asc") {
		sortOrder = "ASC"
	}
	query = query.Preload("Variants").Order(sortBy + " " + sortOrder)

	if params.Pagination != nil {
		params.Pagination.Validate()
		query = query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage)
	}

	err := query.Find(&products).Error
	return products, total, err
}

func (r *productRepository) GetLowStock(ctx context.Context, threshold int) ([]entity.Product, error) {
	var products []entity.Product
	err := conn(ctx, r.db).
		Where("stock <= ?", threshold).
		Preload("Variants").
		Order("stock ASC").
		Find(&products).Error
	return products, err
}

// DecrementStock subtracts qty from the product or variant row.
// Uses: UPDATE product_variants SET stock = stock - qty WHERE id = ? AND product_id = ?
func (r *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, variantID *uuid.UUID, qty int) error {
	return r.adjustStock(ctx, id, variantID, -qty, nil)
}

// IncrementStock adds qty to the product or variant row and optionally records a new unit cost
func (r *productRepository) IncrementStock(ctx context.Context, id uuid.UUID, variantID *uuid.UUID, qty int, unitCost *float64) error {
	return r.adjustStock(ctx, id, variantID, qty, unitCost)
}

func (r *productRepository) adjustStock(ctx context.Context, id uuid.UUID, variantID *uuid.UUID, delta int, unitCost *float64) error {
	db := conn(ctx, r.db)

	if variantID == nil {
		updates := map[string]interface{}{"stock": gorm.Expr("stock + ?", delta)}
		if unitCost != nil {
			updates["cost"] = *unitCost
		}
		result := db.Model(&entity.Product{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainRepo.ErrProductNotFound
		}
		return nil
	}

	updates := map[string]interface{}{"stock": gorm.Expr("stock + ?", delta)}
	if unitCost != nil {
		updates["cost"] = *unitCost
	}
	result := db.Model(&entity.ProductVariant{}).
		Where("id = ? AND product_id = ?", *variantID, id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrVariantNotFound
	}

	// Keep the aggregate equal to the sum of the variants
	var sum int64
	if err := db.Model(&entity.ProductVariant{}).
		Select("COALESCE(SUM(stock), 0)").
		Where("product_id = ?", id).
		Scan(&sum).Error; err != nil {
		return err
	}
	result = db.Model(&entity.Product{}).Where("id = ?", id).Update("stock", sum)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrProductNotFound
	}
	return nil
}
