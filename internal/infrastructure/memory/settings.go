package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
)

type settingsRepository struct{ s *Store }

// Settings returns the store settings repository
func (s *Store) Settings() domainRepo.SettingsRepository { return &settingsRepository{s: s} }

func (r *settingsRepository) Get(_ context.Context) (*entity.StoreSettings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.data.settings == nil {
		return nil, nil
	}
	out := *r.s.data.settings
	return &out, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings *entity.StoreSettings) error {
	settings.ID = entity.StoreSettingsID
	settings.UpdatedAt = time.Now()
	stored := *settings
	defer r.s.write(ctx)()
	r.s.data.settings = &stored
	return nil
}

type idempotencyRepository struct{ s *Store }

// Idempotency returns the store's idempotency key repository
func (s *Store) Idempotency() domainRepo.IdempotencyRepository {
	return &idempotencyRepository{s: s}
}

func idempotencyKey(key string, cashierID uuid.UUID) string {
	return cashierID.String() + ":" + key
}

func (r *idempotencyRepository) GetByKey(_ context.Context, key string, cashierID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ikey, ok := r.s.data.idempotency[idempotencyKey(key, cashierID)]
	if !ok {
		return nil, nil
	}
	return &ikey, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now()
	}
	defer r.s.write(ctx)()
	r.s.data.idempotency[idempotencyKey(ikey.Key, ikey.CashierID)] = *ikey
	return nil
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) error {
	defer r.s.write(ctx)()
	for k, v := range r.s.data.idempotency {
		if v.IsExpired() {
			delete(r.s.data.idempotency, k)
		}
	}
	return nil
}
