package service

import (
	"context"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/sangkips/posgo-api/internal/config"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/sangkips/posgo-api/pkg/money"
)

// SettingsService handles the store settings row
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	defaults     config.StoreConfig
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, defaults config.StoreConfig) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// GetSettings retrieves the store settings, creating them from the configured defaults if absent
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.StoreSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		settings = s.defaultSettings()
		if err := s.settingsRepo.Save(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

func (s *SettingsService) defaultSettings() *entity.StoreSettings {
	currency := s.defaults.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}
	return &entity.StoreSettings{
		ID:            entity.StoreSettingsID,
		StoreName:     s.defaults.Name,
		TaxRate:       s.defaults.TaxRate,
		TaxType:       enum.TaxTypeFromInclusive(s.defaults.PricesIncludeTax),
		Currency:      currency,
		AllowOversell: s.defaults.AllowOversell,
	}
}

// UpdateSettingsInput represents the input for updating settings. Nil fields are left unchanged.
type UpdateSettingsInput struct {
	StoreName        *string
	RUC              *string
	Address          *string
	Phone            *string
	TaxRate          *float64
	PricesIncludeTax *bool
	Currency         *string
	AllowOversell    *bool
}

// UpdateSettings applies the given changes to the store settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.StoreSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if input.StoreName != nil {
		name := strings.TrimSpace(*input.StoreName)
		if name == "" {
			return nil, apperror.NewFieldError("store_name", "is required")
		}
		settings.StoreName = name
	}
	if input.RUC != nil {
		settings.RUC = strings.TrimSpace(*input.RUC)
	}
	if input.Address != nil {
		settings.Address = *input.Address
	}
	if input.Phone != nil {
		settings.Phone = *input.Phone
	}
	if input.TaxRate != nil {
		if *input.TaxRate < 0 || *input.TaxRate > 1 {
			return nil, apperror.NewFieldError("tax_rate", "must be between 0 and 1")
		}
		settings.TaxRate = *input.TaxRate
	}
	if input.PricesIncludeTax != nil {
		settings.TaxType = enum.TaxTypeFromInclusive(*input.PricesIncludeTax)
	}
	if input.Currency != nil {
		code := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if gomoney.GetCurrency(code) == nil {
			return nil, apperror.NewFieldError("currency", "is not a known ISO 4217 code")
		}
		settings.Currency = code
	}
	if input.AllowOversell != nil {
		settings.AllowOversell = *input.AllowOversell
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
