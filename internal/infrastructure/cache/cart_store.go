package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/posgo-api/internal/domain/cart"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
)

// RedisCartStore keeps cart sessions in Redis. Each save refreshes the TTL,
// so an abandoned cart expires on its own.
type RedisCartStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisCartStore creates a cart store with the given session TTL
func NewRedisCartStore(rdb *redis.Client, ttl time.Duration) domainRepo.CartStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisCartStore{redis: rdb, ttl: ttl}
}

func cartKey(id string) string {
	return "cart:" + id
}

func (s *RedisCartStore) Get(ctx context.Context, id string) (*cart.Cart, error) {
	data, err := s.redis.Get(ctx, cartKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *RedisCartStore) Save(ctx context.Context, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, cartKey(c.ID), data, s.ttl).Err()
}

func (s *RedisCartStore) Delete(ctx context.Context, id string) error {
	return s.redis.Del(ctx, cartKey(id)).Err()
}
