package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/posgo-api/internal/application/service"
	"github.com/sangkips/posgo-api/internal/bootstrap"
	"github.com/sangkips/posgo-api/internal/config"
	"github.com/sangkips/posgo-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	svc     *bootstrap.Services
	printer *printer.MemoryPrinter
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "posgo-api", Env: "test"},
		JWT: config.JWTConfig{Secret: "test-secret", ExpiryHours: time.Hour},
		Storage: config.StorageConfig{
			Driver: bootstrap.DriverMemory,
		},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
		Printer:   config.PrinterConfig{Type: "none", Width: 42},
		Store: config.StoreConfig{
			Name:              "Bodega Central",
			TaxRate:           0.18,
			PricesIncludeTax:  true,
			Currency:          "PEN",
			LowStockThreshold: 5,
			IdempotencyTTL:    time.Hour,
		},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	stores := bootstrap.MemoryStores()
	p := printer.NewMemoryPrinter()
	svc := bootstrap.NewServices(stores, cfg, p, zap.NewNop())

	return &testServer{
		t:       t,
		router:  bootstrap.NewRouter(svc, stores, cfg, zap.NewNop()),
		svc:     svc,
		printer: p,
	}
}

func (s *testServer) token(role string) string {
	s.t.Helper()
	out, err := s.svc.Auth.IssueToken(&service.IssueTokenInput{Name: "Rosa", Role: role})
	require.NoError(s.t, err)
	return out.AccessToken
}

func (s *testServer) do(method, path, token string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.True(t, env.Success, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func (s *testServer) createProduct(token, name string, price float64, stock int) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name":     name,
		"category": "Abarrotes",
		"price":    price,
		"cost":     price / 2,
		"stock":    stock,
	}, nil)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var product struct {
		ID string `json:"id"`
	}
	decodeData(s.t, w, &product)
	return product.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "posgo-api")
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/registers", "", nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "/api/v1/registers")
}

func TestInvalidBodyListsFieldErrors(t *testing.T) {
	s := newTestServer(t)
	manager := s.token(service.RoleManager)

	w := s.do(http.MethodPost, "/api/v1/customers", manager, map[string]interface{}{"name": "R"}, nil)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	var body struct {
		Success bool `json:"success"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotEmpty(t, body.Errors)
	assert.Equal(t, "name", body.Errors[0].Field)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/cart", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/cart", "not-a-jwt", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestManagerRoutesRejectCashiers(t *testing.T) {
	s := newTestServer(t)
	cashier := s.token(service.RoleCashier)

	w := s.do(http.MethodPost, "/api/v1/products", cashier, map[string]interface{}{"name": "Soda", "price": 2.5}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/reports/sales", cashier, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/products", cashier, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckoutWithoutShiftIsRejected(t *testing.T) {
	s := newTestServer(t)
	manager := s.token(service.RoleManager)
	productID := s.createProduct(manager, "Soda", 2.5, 10)

	w := s.do(http.MethodPost, "/api/v1/cart/items", manager, map[string]interface{}{"product_id": productID, "quantity": 1}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/api/v1/cart/tenders", manager, map[string]interface{}{"method": "cash", "amount": 5}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/checkout", manager, nil, map[string]string{"Idempotency-Key": "no-shift-1"})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// The failed attempt is not stored, so a retry is evaluated again
	w = s.do(http.MethodPost, "/api/v1/checkout", manager, nil, map[string]string{"Idempotency-Key": "no-shift-1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
}

func TestCheckoutRequiresIdempotencyKey(t *testing.T) {
	s := newTestServer(t)
	cashier := s.token(service.RoleCashier)

	w := s.do(http.MethodPost, "/api/v1/checkout", cashier, nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaleFlow(t *testing.T) {
	s := newTestServer(t)
	manager := s.token(service.RoleManager)
	productID := s.createProduct(manager, "Inca Kola 1L", 11.80, 20)

	w := s.do(http.MethodPost, "/api/v1/shifts/open", manager, map[string]interface{}{"start_amount": 100}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/cart/items", manager, map[string]interface{}{"product_id": productID, "quantity": 1}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cart struct {
		Subtotal float64 `json:"subtotal"`
		Tax      float64 `json:"tax"`
		Total    float64 `json:"total"`
	}
	decodeData(t, w, &cart)
	assert.InDelta(t, 10.00, cart.Subtotal, 0.005)
	assert.InDelta(t, 1.80, cart.Tax, 0.005)
	assert.InDelta(t, 11.80, cart.Total, 0.005)

	w = s.do(http.MethodPost, "/api/v1/cart/tenders", manager, map[string]interface{}{"method": "cash", "amount": 20}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	headers := map[string]string{"Idempotency-Key": "sale-1"}
	w = s.do(http.MethodPost, "/api/v1/checkout", manager, nil, headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sale struct {
		ID       string  `json:"id"`
		TicketNo string  `json:"ticket_no"`
		Change   float64 `json:"change"`
	}
	decodeData(t, w, &sale)
	assert.NotEmpty(t, sale.TicketNo)
	assert.InDelta(t, 8.20, sale.Change, 0.005)
	first := w.Body.String()

	// A retried checkout replays the stored response instead of selling again
	w = s.do(http.MethodPost, "/api/v1/checkout", manager, nil, headers)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, first, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/products/"+productID, manager, nil, nil)
	var product struct {
		Stock int `json:"stock"`
	}
	decodeData(t, w, &product)
	assert.Equal(t, 19, product.Stock)

	w = s.do(http.MethodPost, "/api/v1/shifts/current/movements", manager, map[string]interface{}{"type": "OUT", "amount": 10, "description": "Bolsas"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/shifts/current", manager, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		ExpectedCash float64 `json:"expected_cash"`
	}
	decodeData(t, w, &status)
	assert.InDelta(t, 110.0, status.ExpectedCash, 0.005)

	w = s.do(http.MethodPost, "/api/v1/printer/receipt", manager, map[string]interface{}{"transaction_id": sale.ID}, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, s.printer.Jobs(), 1)

	w = s.do(http.MethodPost, "/api/v1/shifts/close", manager, map[string]interface{}{"counted_amount": 110}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report struct {
		Discrepancy *float64 `json:"discrepancy"`
	}
	decodeData(t, w, &report)
	require.NotNil(t, report.Discrepancy)
	assert.InDelta(t, 0.0, *report.Discrepancy, 0.005)

	w = s.do(http.MethodGet, "/api/v1/shifts/current", manager, nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestIssueTokenAsManager(t *testing.T) {
	s := newTestServer(t)
	manager := s.token(service.RoleManager)

	w := s.do(http.MethodPost, "/api/v1/auth/tokens", manager, map[string]interface{}{"name": "Luis", "role": "cashier"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, w, &out)
	require.NotEmpty(t, out.AccessToken)

	w = s.do(http.MethodGet, "/api/v1/auth/me", out.AccessToken, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Luis")
}
