package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
	"go.uber.org/zap"
)

const notFoundMarker = "notfound"

// CachedProductRepository is a cache-aside decorator for product lookups.
// Every mutation drops the product's key once it commits; reads made inside
// a transaction go straight to the underlying repository.
type CachedProductRepository struct {
	domainRepo.ProductRepository
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProductRepository wraps repo with a Redis cache
func NewCachedProductRepository(repo domainRepo.ProductRepository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedProductRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProductRepository{
		ProductRepository: repo,
		redis:             rdb,
		ttl:               ttl,
		logger:            logger,
	}
}

func productKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id)
}

func (c *CachedProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	if domainRepo.InTransaction(ctx) {
		return c.ProductRepository.GetByID(ctx, id)
	}

	key := productKey(id)
	data, err := c.redis.Get(ctx, key).Bytes()

	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, nil
		}
		var product entity.Product
		if err := json.Unmarshal(data, &product); err != nil {
			c.logger.Warn("failed to unmarshal cached product", zap.String("key", key), zap.Error(err))
			break
		}
		return &product, nil

	case errors.Is(err, redis.Nil):

	default:
		c.logger.Warn("redis error, falling back to store", zap.String("key", key), zap.Error(err))
	}

	product, err := c.ProductRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product == nil {
		if err := c.redis.Set(ctx, key, notFoundMarker, time.Minute).Err(); err != nil {
			c.logger.Warn("failed to cache missing product", zap.String("key", key), zap.Error(err))
		}
		return nil, nil
	}

	payload, err := json.Marshal(product)
	if err != nil {
		c.logger.Warn("failed to marshal product", zap.Error(err))
		return product, nil
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache product", zap.String("key", key), zap.Error(err))
	}

	return product, nil
}

// invalidate drops the cached copy once the write is visible to other
// readers: right away outside a transaction, after commit inside one.
func (c *CachedProductRepository) invalidate(ctx context.Context, id uuid.UUID) {
	domainRepo.AfterCommit(ctx, func(ctx context.Context) {
		if err := c.redis.Del(ctx, productKey(id)).Err(); err != nil {
			c.logger.Warn("failed to invalidate product cache", zap.String("product_id", id.String()), zap.Error(err))
		}
	})
}

func (c *CachedProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if err := c.ProductRepository.Create(ctx, product); err != nil {
		return err
	}
	c.invalidate(ctx, product.ID)
	return nil
}

func (c *CachedProductRepository) Update(ctx context.Context, product *entity.Product) error {
	if err := c.ProductRepository.Update(ctx, product); err != nil {
		return err
	}
	c.invalidate(ctx, product.ID)
	return nil
}

func (c *CachedProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.ProductRepository.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, variantID *uuid.UUID, qty int) error {
	if err := c.ProductRepository.DecrementStock(ctx, id, variantID, qty); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, variantID *uuid.UUID, qty int, unitCost *float64) error {
	if err := c.ProductRepository.IncrementStock(ctx, id, variantID, qty, unitCost); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}
