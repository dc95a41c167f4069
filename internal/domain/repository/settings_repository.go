package repository

import (
	"context"

	"github.com/sangkips/posgo-api/internal/domain/entity"
)

// SettingsRepository defines the interface for store settings data access
type SettingsRepository interface {
	// Get returns (nil, nil) before the settings row has been saved
	Get(ctx context.Context) (*entity.StoreSettings, error)
	Save(ctx context.Context, settings *entity.StoreSettings) error
}
