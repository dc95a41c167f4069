package repository

import (
	"context"

	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves the store settings row
func (r *settingsRepository) Get(ctx context.Context) (*entity.StoreSettings, error) {
	var settings entity.StoreSettings
	err := conn(ctx, r.db).First(&settings, "id = ?", entity.StoreSettingsID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Save creates or updates the store settings row
func (r *settingsRepository) Save(ctx context.Context, settings *entity.StoreSettings) error {
	settings.ID = entity.StoreSettingsID
	return conn(ctx, r.db).Save(settings).Error
}
