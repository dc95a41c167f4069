package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/posgo-api/internal/domain/enum"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/sangkips/posgo-api/pkg/pagination"
	"github.com/sangkips/posgo-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	settings, err := env.settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bodega Test", settings.StoreName)
	assert.InDelta(t, 0.18, settings.TaxRate, eps)
	assert.Equal(t, enum.TaxTypeInclusive, settings.TaxType)
	assert.Equal(t, "PEN", settings.Currency)
	assert.True(t, settings.AllowOversell)

	rate := 0.10
	currency := "usd"
	ruc := " 20123456789 "
	settings, err = env.settings.UpdateSettings(ctx, &UpdateSettingsInput{TaxRate: &rate, Currency: &currency, RUC: &ruc})
	require.NoError(t, err)
	assert.InDelta(t, 0.10, settings.TaxRate, eps)
	assert.Equal(t, "USD", settings.Currency)
	assert.Equal(t, "20123456789", settings.RUC)

	bad := 1.5
	_, err = env.settings.UpdateSettings(ctx, &UpdateSettingsInput{TaxRate: &bad})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	unknown := "XXQ"
	_, err = env.settings.UpdateSettings(ctx, &UpdateSettingsInput{Currency: &unknown})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	stored, err := env.settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.10, stored.TaxRate, eps, "rejected updates are not saved")
}

func TestProductLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	barcode := "7751234567890"

	p, err := env.products.CreateProduct(ctx, &CreateProductInput{Name: " Inca Kola ", Category: "Drinks", Barcode: &barcode, Price: 3.5, Cost: 2, Stock: 24})
	require.NoError(t, err)
	assert.Equal(t, "Inca Kola", p.Name)

	_, err = env.products.CreateProduct(ctx, &CreateProductInput{Name: "Copy", Barcode: &barcode})
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	_, err = env.products.CreateProduct(ctx, &CreateProductInput{Name: "", Price: -1})
	assert.Len(t, apperror.GetAppError(err).Errors, 2)

	found, err := env.products.GetProductByBarcode(ctx, barcode)
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	price := 4.0
	variants := []VariantInput{{Name: "500ml", Price: 3.5, Stock: 10}, {Name: "1L", Price: 5, Stock: 2}}
	updated, err := env.products.UpdateProduct(ctx, &UpdateProductInput{ID: p.ID, Price: &price, Variants: &variants})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, updated.Price, eps)
	assert.Equal(t, 12, updated.Stock)
	require.Len(t, updated.Variants, 2)

	list, err := env.products.ListProducts(ctx, &repository.ProductFilterParams{Pagination: pagination.DefaultPagination(), Search: "inca"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Pagination.Total)

	low, err := env.products.GetLowStockProducts(ctx, 20)
	require.NoError(t, err)
	assert.Len(t, low, 1)

	require.NoError(t, env.products.DeleteProduct(ctx, p.ID))
	_, err = env.products.GetProduct(ctx, p.ID)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestCustomersAndSuppliers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dni := "12345678"

	c, err := env.customers.CreateCustomer(ctx, &CreateCustomerInput{Name: "Luis", DNI: &dni})
	require.NoError(t, err)
	_, err = env.customers.CreateCustomer(ctx, &CreateCustomerInput{Name: "Other", DNI: &dni})
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	byDNI, err := env.customers.GetCustomerByDNI(ctx, " 12345678 ")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byDNI.ID)

	name := "Luis Torres"
	updated, err := env.customers.UpdateCustomer(ctx, &UpdateCustomerInput{ID: c.ID, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Luis Torres", updated.Name)

	list, err := env.customers.ListCustomers(ctx, pagination.DefaultPagination(), "torres")
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Pagination.Total)

	require.NoError(t, env.customers.DeleteCustomer(ctx, c.ID))
	assert.Error(t, env.customers.DeleteCustomer(ctx, c.ID))

	_, err = env.suppliers.CreateSupplier(ctx, &CreateSupplierInput{Name: "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	s, err := env.suppliers.CreateSupplier(ctx, &CreateSupplierInput{Name: "Alicorp"})
	require.NoError(t, err)
	phone := "01-555-0000"
	s, err = env.suppliers.UpdateSupplier(ctx, &UpdateSupplierInput{ID: s.ID, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, *s.Phone)

	suppliers, err := env.suppliers.ListSuppliers(ctx, pagination.DefaultPagination(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), suppliers.Pagination.Total)
}

func TestAuthIssueAndAuthenticate(t *testing.T) {
	auth := NewAuthService(utils.NewJWTManager("secret", time.Hour, "posgo-api"), time.Hour)

	_, err := auth.IssueToken(&IssueTokenInput{Name: " "})
	assert.Error(t, err)
	_, err = auth.IssueToken(&IssueTokenInput{Name: "Ana", Role: "owner"})
	assert.Error(t, err)

	out, err := auth.IssueToken(&IssueTokenInput{Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", out.TokenType)

	claims, err := auth.Authenticate(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.CashierID, claims.CashierID)
	assert.Equal(t, RoleCashier, claims.Role)

	_, err = auth.Authenticate("garbage")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	expired := NewAuthService(utils.NewJWTManager("secret", -time.Minute, "posgo-api"), -time.Minute)
	old, err := expired.IssueToken(&IssueTokenInput{Name: "Ana"})
	require.NoError(t, err)
	_, err = auth.Authenticate(old.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrTokenExpired)
}
