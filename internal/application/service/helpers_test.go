package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/config"
	"github.com/sangkips/posgo-api/internal/domain/entity"
	"github.com/sangkips/posgo-api/internal/infrastructure/memory"
	"github.com/sangkips/posgo-api/pkg/printer"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const eps = 1e-9

type testEnv struct {
	store      *memory.Store
	settings   *SettingsService
	shifts     *ShiftService
	settlement *SettlementService
	carts      *CartService
	products   *ProductService
	customers  *CustomerService
	suppliers  *SupplierService
	purchases  *PurchaseService
	dashboard  *DashboardService
	printer    *printer.MemoryPrinter
	printing   *PrinterService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	logger := zap.NewNop()
	lock := &sync.Mutex{}
	defaults := config.StoreConfig{
		Name:              "Bodega Test",
		TaxRate:           0.18,
		PricesIncludeTax:  true,
		Currency:          "PEN",
		AllowOversell:     true,
		LowStockThreshold: 5,
	}

	settings := NewSettingsService(store.Settings(), defaults)
	shifts := NewShiftService(lock, store.Transactor(), store.Shifts(), store.Movements(), store.ActiveShift(), store.Transactions(), logger)
	mp := printer.NewMemoryPrinter()

	return &testEnv{
		store:      store,
		settings:   settings,
		shifts:     shifts,
		settlement: NewSettlementService(lock, store.Transactor(), shifts, settings, store.Products(), store.Transactions(), store.Customers(), store.Carts(), logger),
		carts:      NewCartService(store.Carts(), store.Products(), store.Customers(), settings),
		products:   NewProductService(store.Products(), defaults.LowStockThreshold),
		customers:  NewCustomerService(store.Customers()),
		suppliers:  NewSupplierService(store.Suppliers()),
		purchases:  NewPurchaseService(lock, store.Transactor(), store.Purchases(), store.Products(), store.Suppliers(), logger),
		dashboard:  NewDashboardService(store.Analytics(), store.Transactions(), store.Purchases(), store.Products(), store.Customers(), defaults.LowStockThreshold),
		printer:    mp,
		printing:   NewPrinterService(mp, store.Transactions(), shifts, settings, 32, logger),
	}
}

func (e *testEnv) product(t *testing.T, name string, price, cost float64, stock int) *entity.Product {
	t.Helper()
	p, err := e.products.CreateProduct(context.Background(), &CreateProductInput{
		Name:     name,
		Category: "General",
		Price:    price,
		Cost:     cost,
		Stock:    stock,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) variantProduct(t *testing.T, name string, variants ...VariantInput) *entity.Product {
	t.Helper()
	p, err := e.products.CreateProduct(context.Background(), &CreateProductInput{
		Name:     name,
		Category: "General",
		Variants: variants,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) open(t *testing.T, start float64) *entity.CashShift {
	t.Helper()
	shift, err := e.shifts.OpenShift(context.Background(), &OpenShiftInput{StartAmount: start})
	require.NoError(t, err)
	return shift
}

func (e *testEnv) setExclusiveTax(t *testing.T) {
	t.Helper()
	inclusive := false
	_, err := e.settings.UpdateSettings(context.Background(), &UpdateSettingsInput{PricesIncludeTax: &inclusive})
	require.NoError(t, err)
}

// clock returns a now func that advances one second per call
func clock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }
