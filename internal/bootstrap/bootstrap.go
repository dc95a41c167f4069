// Package bootstrap wires stores, services and HTTP handlers from configuration.
package bootstrap

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/posgo-api/internal/application/service"
	"github.com/sangkips/posgo-api/internal/config"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/internal/infrastructure/cache"
	"github.com/sangkips/posgo-api/internal/infrastructure/database"
	"github.com/sangkips/posgo-api/internal/infrastructure/memory"
	"github.com/sangkips/posgo-api/internal/infrastructure/repository"
	"github.com/sangkips/posgo-api/internal/presentation/http/handler"
	"github.com/sangkips/posgo-api/internal/presentation/http/routes"
	"github.com/sangkips/posgo-api/pkg/printer"
	"github.com/sangkips/posgo-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Stores is every repository the register needs, from one backend
type Stores struct {
	Transactor   domainRepo.Transactor
	Products     domainRepo.ProductRepository
	Customers    domainRepo.CustomerRepository
	Suppliers    domainRepo.SupplierRepository
	Purchases    domainRepo.PurchaseRepository
	Transactions domainRepo.TransactionRepository
	Shifts       domainRepo.ShiftRepository
	Movements    domainRepo.MovementRepository
	ActiveShift  domainRepo.ActiveShiftStore
	Settings     domainRepo.SettingsRepository
	Idempotency  domainRepo.IdempotencyRepository
	Analytics    domainRepo.AnalyticsRepository
	Carts        domainRepo.CartStore

	closers []func() error
}

// Close releases the database and Redis connections
func (s *Stores) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// MemoryStores keeps everything in process
func MemoryStores() *Stores {
	m := memory.New()
	return &Stores{
		Transactor:   m.Transactor(),
		Products:     m.Products(),
		Customers:    m.Customers(),
		Suppliers:    m.Suppliers(),
		Purchases:    m.Purchases(),
		Transactions: m.Transactions(),
		Shifts:       m.Shifts(),
		Movements:    m.Movements(),
		ActiveShift:  m.ActiveShift(),
		Settings:     m.Settings(),
		Idempotency:  m.Idempotency(),
		Analytics:    m.Analytics(),
		Carts:        m.Carts(),
	}
}

// PostgresStores builds the GORM repositories over db
func PostgresStores(db *gorm.DB) *Stores {
	return &Stores{
		Transactor:   repository.NewTransactor(db),
		Products:     repository.NewProductRepository(db),
		Customers:    repository.NewCustomerRepository(db),
		Suppliers:    repository.NewSupplierRepository(db),
		Purchases:    repository.NewPurchaseRepository(db),
		Transactions: repository.NewTransactionRepository(db),
		Shifts:       repository.NewShiftRepository(db),
		Movements:    repository.NewMovementRepository(db),
		ActiveShift:  repository.NewActiveShiftStore(db),
		Settings:     repository.NewSettingsRepository(db),
		Idempotency:  repository.NewIdempotencyRepository(db),
		Analytics:    repository.NewAnalyticsRepository(db),
		// Carts are session state; without Redis they live in process
		Carts: memory.New().Carts(),
	}
}

// WithRedis moves carts into Redis and puts a cache in front of product lookups
func (s *Stores) WithRedis(rdb *redis.Client, cfg *config.RedisConfig, logger *zap.Logger) *Stores {
	s.Carts = cache.NewRedisCartStore(rdb, cfg.CartTTL)
	s.Products = cache.NewCachedProductRepository(s.Products, rdb, cfg.ProductTTL, logger)
	s.closers = append(s.closers, rdb.Close)
	return s
}

// OpenStores connects the backend selected by cfg.Storage.Driver. With
// migrate set, the schema is migrated and seeded first.
func OpenStores(cfg *config.Config, migrate bool, logger *zap.Logger) (*Stores, error) {
	var stores *Stores

	switch cfg.Storage.Driver {
	case DriverMemory:
		stores = MemoryStores()
	case DriverPostgres, "":
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, logger)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := database.AutoMigrate(db, logger); err != nil {
				return nil, err
			}
			if err := database.SeedDefaultData(db, &cfg.Store, logger); err != nil {
				return nil, err
			}
		}
		stores = PostgresStores(db)
		if sqlDB, err := db.DB(); err == nil {
			stores.closers = append(stores.closers, sqlDB.Close)
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			_ = stores.Close()
			return nil, err
		}
		stores.WithRedis(rdb, &cfg.Redis, logger)
		logger.Info("redis enabled", zap.String("addr", cfg.Redis.Addr))
	}

	return stores, nil
}

// Services is the application layer built over one set of stores
type Services struct {
	Auth       *service.AuthService
	Settings   *service.SettingsService
	Shifts     *service.ShiftService
	Settlement *service.SettlementService
	Carts      *service.CartService
	Products   *service.ProductService
	Customers  *service.CustomerService
	Suppliers  *service.SupplierService
	Purchases  *service.PurchaseService
	Dashboard  *service.DashboardService
	Printing   *service.PrinterService
}

// NewServices wires the services. The shift, settlement and purchase
// services share one register lock.
func NewServices(st *Stores, cfg *config.Config, p printer.Printer, logger *zap.Logger) *Services {
	lock := &sync.Mutex{}
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.App.Name)

	settings := service.NewSettingsService(st.Settings, cfg.Store)
	shifts := service.NewShiftService(lock, st.Transactor, st.Shifts, st.Movements, st.ActiveShift, st.Transactions, logger)

	return &Services{
		Auth:       service.NewAuthService(jwtManager, cfg.JWT.ExpiryHours),
		Settings:   settings,
		Shifts:     shifts,
		Settlement: service.NewSettlementService(lock, st.Transactor, shifts, settings, st.Products, st.Transactions, st.Customers, st.Carts, logger),
		Carts:      service.NewCartService(st.Carts, st.Products, st.Customers, settings),
		Products:   service.NewProductService(st.Products, cfg.Store.LowStockThreshold),
		Customers:  service.NewCustomerService(st.Customers),
		Suppliers:  service.NewSupplierService(st.Suppliers),
		Purchases:  service.NewPurchaseService(lock, st.Transactor, st.Purchases, st.Products, st.Suppliers, logger),
		Dashboard:  service.NewDashboardService(st.Analytics, st.Transactions, st.Purchases, st.Products, st.Customers, cfg.Store.LowStockThreshold),
		Printing:   service.NewPrinterService(p, st.Transactions, shifts, settings, cfg.Printer.Width, logger),
	}
}

// NewPrinter builds the configured printer, falling back to the null printer
func NewPrinter(cfg *config.PrinterConfig, logger *zap.Logger) printer.Printer {
	p, err := printer.NewPrinterFromConfig(cfg.Type, cfg.USBPath, cfg.Address)
	if err != nil {
		logger.Warn("failed to initialize printer, printing disabled", zap.String("type", cfg.Type), zap.Error(err))
		return printer.NewNullPrinter()
	}
	return p
}

// NewHandlers builds the HTTP handlers over svc
func NewHandlers(svc *Services, cfg *config.Config) *routes.Handlers {
	return &routes.Handlers{
		Auth:      handler.NewAuthHandler(svc.Auth),
		Shift:     handler.NewShiftHandler(svc.Shifts),
		Cart:      handler.NewCartHandler(svc.Carts, svc.Settlement),
		Product:   handler.NewProductHandler(svc.Products, svc.Dashboard, cfg.Store.LowStockThreshold),
		Customer:  handler.NewCustomerHandler(svc.Customers),
		Supplier:  handler.NewSupplierHandler(svc.Suppliers),
		Purchase:  handler.NewPurchaseHandler(svc.Purchases),
		Dashboard: handler.NewDashboardHandler(svc.Dashboard, svc.Settlement, cfg.Store.LowStockThreshold),
		Settings:  handler.NewSettingsHandler(svc.Settings),
		Printer:   handler.NewPrinterHandler(svc.Printing),
	}
}

// NewRouter builds the Gin engine serving the register API
func NewRouter(svc *Services, st *Stores, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	return routes.Setup(NewHandlers(svc, cfg), &routes.Deps{
		AuthService:     svc.Auth,
		Cfg:             cfg,
		IdempotencyRepo: st.Idempotency,
		Logger:          logger,
	})
}
