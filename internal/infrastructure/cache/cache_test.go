package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/posgo-api/internal/domain/cart"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestRedis creates a miniredis instance and a client pointed at it
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

// countingRepo counts lookups that reach the underlying store
type countingRepo struct {
	domainRepo.ProductRepository
	gets int
}

func (c *countingRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	c.gets++
	return c.ProductRepository.GetByID(ctx, id)
}

func TestCachedProductRepository(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	store := memory.New()
	inner := &countingRepo{ProductRepository: store.Products()}
	repo := NewCachedProductRepository(inner, client, time.Minute, zap.NewNop())

	p := &entity.Product{Name: "Coffee", Price: 12, Stock: 10}
	require.NoError(t, repo.Create(ctx, p))

	first, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, mr.Exists(productKey(p.ID)))

	second, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coffee", second.Name)
	assert.Equal(t, 1, inner.gets, "second read is served from redis")

	require.NoError(t, repo.DecrementStock(ctx, p.ID, nil, 3))
	assert.False(t, mr.Exists(productKey(p.ID)), "stock change drops the cached copy")

	third, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, third.Stock)
	assert.Equal(t, 2, inner.gets)
}

func TestCachedProductRepositoryMissing(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	inner := &countingRepo{ProductRepository: memory.New().Products()}
	repo := NewCachedProductRepository(inner, client, time.Minute, zap.NewNop())

	id := uuid.New()
	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	value, err := mr.Get(productKey(id))
	require.NoError(t, err)
	assert.Equal(t, notFoundMarker, value)

	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, inner.gets)
}

func TestCachedProductRepositorySkipsTransactions(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := memory.New()
	repo := NewCachedProductRepository(store.Products(), client, time.Minute, zap.NewNop())

	p := &entity.Product{Name: "Tea", Price: 4, Stock: 2}
	require.NoError(t, repo.Create(context.Background(), p))

	err := store.WithinTransaction(context.Background(), func(ctx context.Context) error {
		_, err := repo.GetByID(ctx, p.ID)
		return err
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(productKey(p.ID)))
}

func TestCachedProductRepositoryInvalidatesAfterCommit(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	store := memory.New()
	repo := NewCachedProductRepository(store.Products(), client, time.Minute, zap.NewNop())

	p := &entity.Product{Name: "Bread", Price: 1, Stock: 10}
	require.NoError(t, repo.Create(ctx, p))
	_, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	key := productKey(p.ID)
	stale, err := mr.Get(key)
	require.NoError(t, err)

	err = store.WithinTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, repo.DecrementStock(txCtx, p.ID, nil, 4))
		assert.True(t, mr.Exists(key), "the cached copy stays until commit")

		// A reader outside the transaction caches the pre-sale stock again
		require.NoError(t, mr.Set(key, stale))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(key), "commit drops the re-cached copy")

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Stock)
}

func TestCachedProductRepositoryKeepsCacheOnRollback(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	store := memory.New()
	repo := NewCachedProductRepository(store.Products(), client, time.Minute, zap.NewNop())

	p := &entity.Product{Name: "Milk", Price: 4, Stock: 5}
	require.NoError(t, repo.Create(ctx, p))
	_, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.WithinTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, repo.DecrementStock(txCtx, p.ID, nil, 1))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.True(t, mr.Exists(productKey(p.ID)))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestRedisCartStore(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	store := NewRedisCartStore(client, time.Hour)

	missing, err := store.Get(ctx, "register-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	c := cart.New("register-1")
	variant := uuid.New()
	c.AddLine(cart.Line{ProductID: uuid.New(), VariantID: &variant, Name: "Shirt", UnitPrice: 20, Quantity: 2})
	require.NoError(t, c.AddTender(enum.PaymentMethodYape, 15))
	require.NoError(t, store.Save(ctx, c))
	assert.Equal(t, time.Hour, mr.TTL(cartKey("register-1")))

	got, err := store.Get(ctx, "register-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, variant, *got.Lines[0].VariantID)
	assert.Equal(t, enum.PaymentMethodYape, got.Tenders[0].Method)

	mr.FastForward(2 * time.Hour)
	expired, err := store.Get(ctx, "register-1")
	require.NoError(t, err)
	assert.Nil(t, expired)

	require.NoError(t, store.Save(ctx, c))
	require.NoError(t, store.Delete(ctx, "register-1"))
	assert.False(t, mr.Exists(cartKey("register-1")))
}
