package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/sangkips/posgo-api/internal/config"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// A single register does not need a large pool
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("connected to PostgreSQL", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		// Catalog
		&entity.Product{},
		&entity.ProductVariant{},

		// Parties
		&entity.Customer{},
		&entity.Supplier{},

		// Sales and the cash drawer
		&entity.CashShift{},
		&entity.CashMovement{},
		&entity.RegisterState{},
		&entity.Transaction{},
		&entity.TransactionItem{},
		&entity.TransactionPayment{},

		// Stock receiving
		&entity.Purchase{},
		&entity.PurchaseItem{},

		// System
		&entity.StoreSettings{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultData creates the store settings row and the register state row when missing
func SeedDefaultData(db *gorm.DB, store *config.StoreConfig, log *zap.Logger) error {
	log.Info("seeding default data")

	var settings entity.StoreSettings
	err := db.First(&settings, entity.StoreSettingsID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		settings = entity.StoreSettings{
			ID:            entity.StoreSettingsID,
			StoreName:     store.Name,
			TaxRate:       store.TaxRate,
			TaxType:       enum.TaxTypeFromInclusive(store.PricesIncludeTax),
			Currency:      store.Currency,
			AllowOversell: store.AllowOversell,
		}
		if err := db.Create(&settings).Error; err != nil {
			return fmt.Errorf("failed to seed store settings: %w", err)
		}
		log.Info("store settings created", zap.String("store", store.Name), zap.Float64("tax_rate", store.TaxRate))
	case err != nil:
		return fmt.Errorf("failed to read store settings: %w", err)
	default:
		log.Info("store settings already exist", zap.String("store", settings.StoreName))
	}

	state := entity.RegisterState{ID: entity.RegisterStateID}
	if err := db.FirstOrCreate(&state, entity.RegisterState{ID: entity.RegisterStateID}).Error; err != nil {
		return fmt.Errorf("failed to seed register state: %w", err)
	}

	log.Info("default data seeding completed")
	return nil
}
