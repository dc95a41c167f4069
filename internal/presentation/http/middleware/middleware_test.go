package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/infrastructure/memory"
	"github.com/sangkips/posgo-api/internal/presentation/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withCashier(id uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(handler.CashierIDKey, id)
		c.Set(handler.CashierRoleKey, role)
		c.Next()
	}
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{name: "manager allowed", role: "manager", want: http.StatusOK},
		{name: "cashier forbidden", role: "cashier", want: http.StatusForbidden},
		{name: "missing role forbidden", role: "", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", withCashier(uuid.New(), tt.role), RequireRole("manager"), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := serve(r, http.MethodGet, "/x", nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCashierRateLimiter(t *testing.T) {
	rl := NewCashierRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})

	alice, bob := uuid.New(), uuid.New()
	r := gin.New()
	r.GET("/alice", withCashier(alice, "cashier"), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bob", withCashier(bob, "cashier"), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/alice", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/alice", nil).Code)

	w := serve(r, http.MethodGet, "/alice", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// Each cashier has its own bucket
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/bob", nil).Code)
	assert.Equal(t, 2, rl.Stats()["active_keys"])
}

func TestCashierRateLimiterCleanup(t *testing.T) {
	rl := NewCashierRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, EntryTTL: time.Minute})
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("cashier:a")
	now = now.Add(2 * time.Minute)
	rl.getLimiter("cashier:b")

	rl.cleanup()

	assert.Equal(t, 1, rl.Stats()["active_keys"])
}

func TestIdempotencyRequired(t *testing.T) {
	store := memory.New()
	cashier := uuid.New()
	calls := 0

	r := gin.New()
	r.POST("/checkout", withCashier(cashier, "cashier"), IdempotencyRequired(IdempotencyConfig{
		Repo: store.Idempotency(),
		TTL:  time.Hour,
	}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"ticket_no": calls})
	})

	w := serve(r, http.MethodPost, "/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, calls)

	headers := map[string]string{IdempotencyKeyHeader: "k-1"}
	first := serve(r, http.MethodPost, "/checkout", headers)
	require.Equal(t, http.StatusCreated, first.Code)

	replay := serve(r, http.MethodPost, "/checkout", headers)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())
	assert.Equal(t, 1, calls)

	other := serve(r, http.MethodPost, "/checkout", map[string]string{IdempotencyKeyHeader: "k-2"})
	assert.Equal(t, http.StatusCreated, other.Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	store := memory.New()
	calls := 0

	r := gin.New()
	r.POST("/checkout", withCashier(uuid.New(), "cashier"), IdempotencyRequired(IdempotencyConfig{
		Repo: store.Idempotency(),
	}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusConflict, gin.H{"message": "No cash shift is open"})
	})

	headers := map[string]string{IdempotencyKeyHeader: "k-1"}
	serve(r, http.MethodPost, "/checkout", headers)
	w := serve(r, http.MethodPost, "/checkout", headers)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 2, calls)
}
