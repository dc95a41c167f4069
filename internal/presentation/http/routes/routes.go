package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/posgo-api/internal/application/service"
	"github.com/sangkips/posgo-api/internal/config"
	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/internal/presentation/http/dto/response"
	"github.com/sangkips/posgo-api/internal/presentation/http/handler"
	"github.com/sangkips/posgo-api/internal/presentation/http/middleware"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Shift     *handler.ShiftHandler
	Cart      *handler.CartHandler
	Product   *handler.ProductHandler
	Customer  *handler.CustomerHandler
	Supplier  *handler.SupplierHandler
	Purchase  *handler.PurchaseHandler
	Dashboard *handler.DashboardHandler
	Settings  *handler.SettingsHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	AuthService     *service.AuthService
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	router.NoRoute(response.NotFound)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.AuthService))

		// Per-cashier rate limiter
		rateLimiter := middleware.NewCashierRateLimiter(rateLimiterConfig(&deps.Cfg.RateLimit))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func rateLimiterConfig(cfg *config.RateLimitConfig) middleware.RateLimiterConfig {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	return rl
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/auth/me", h.Auth.Me)
	protected.POST("/auth/tokens", middleware.RequireRole(service.RoleManager), h.Auth.IssueToken)

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", middleware.RequireRole(service.RoleManager), h.Settings.UpdateSettings)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.GetStats)

	registerShiftRoutes(protected, h)
	registerCartRoutes(protected, h, deps)
	registerProductRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerSupplierRoutes(protected, h)
	registerPurchaseRoutes(protected, h)
	registerReportRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerShiftRoutes(protected *gin.RouterGroup, h *Handlers) {
	shifts := protected.Group("/shifts")
	{
		shifts.GET("", h.Shift.List)
		shifts.POST("/open", h.Shift.Open)
		shifts.GET("/current", h.Shift.Current)
		shifts.POST("/current/movements", h.Shift.RecordMovement)
		shifts.POST("/close", h.Shift.Close)
		shifts.GET("/:id", h.Shift.Get)
	}
}

func registerCartRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	cart := protected.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.PATCH("/items/:key", h.Cart.UpdateItem)
		cart.DELETE("/items/:key", h.Cart.RemoveItem)
		cart.POST("/tenders", h.Cart.AddTender)
		cart.DELETE("/tenders/:index", h.Cart.RemoveTender)
		cart.PUT("/customer", h.Cart.SetCustomer)
	}

	// Checkout uses idempotency middleware so a retried request cannot sell twice
	protected.POST("/checkout", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
		Repo:   deps.IdempotencyRepo,
		TTL:    deps.Cfg.Store.IdempotencyTTL,
		Logger: deps.Logger,
	}), h.Cart.Checkout)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/barcode/:barcode", h.Product.GetByBarcode)
		products.GET("/:id", h.Product.Get)
		products.GET("/:id/history", h.Product.GetHistory)
	}

	manage := protected.Group("/products")
	manage.Use(middleware.RequireRole(service.RoleManager))
	{
		manage.POST("", h.Product.Create)
		manage.PUT("/:id", h.Product.Update)
		manage.DELETE("/:id", h.Product.Delete)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/dni/:dni", h.Customer.GetByDNI)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", middleware.RequireRole(service.RoleManager), h.Customer.Delete)
	}
}

func registerSupplierRoutes(protected *gin.RouterGroup, h *Handlers) {
	suppliers := protected.Group("/suppliers")
	suppliers.Use(middleware.RequireRole(service.RoleManager))
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
	}
}

func registerPurchaseRoutes(protected *gin.RouterGroup, h *Handlers) {
	purchases := protected.Group("/purchases")
	purchases.Use(middleware.RequireRole(service.RoleManager))
	{
		purchases.GET("", h.Purchase.List)
		purchases.POST("", h.Purchase.Create)
		purchases.GET("/:id", h.Purchase.Get)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/transactions", h.Dashboard.ListTransactions)
	protected.GET("/transactions/:id", h.Dashboard.GetTransaction)

	reports := protected.Group("/reports")
	reports.Use(middleware.RequireRole(service.RoleManager))
	{
		reports.GET("/sales", h.Dashboard.GetSalesSummary)
		reports.GET("/top-products", h.Dashboard.GetTopProducts)
		reports.GET("/restock", h.Dashboard.GetRestockSuggestions)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/receipt", h.Printer.PrintReceipt)
		printerGroup.POST("/shift-report", h.Printer.PrintShiftReport)
	}
}
