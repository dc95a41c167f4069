package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/posgo-api/internal/application/service"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/internal/presentation/http/dto/request"
	"github.com/sangkips/posgo-api/internal/presentation/http/dto/response"
	"github.com/sangkips/posgo-api/pkg/pagination"
)

const defaultTopProducts = 10

// DashboardHandler handles dashboard and report HTTP requests
type DashboardHandler struct {
	dashboardService  *service.DashboardService
	settlementService *service.SettlementService
	lowStockThreshold int
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService, settlementService *service.SettlementService, lowStockThreshold int) *DashboardHandler {
	return &DashboardHandler{
		dashboardService:  dashboardService,
		settlementService: settlementService,
		lowStockThreshold: lowStockThreshold,
	}
}

// GetStats handles getting dashboard statistics
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}

// GetSalesSummary handles the sales report over a date range
func (h *DashboardHandler) GetSalesSummary(c *gin.Context) {
	var req request.ReportRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	period, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.dashboardService.GetSalesSummary(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales summary retrieved successfully", summary)
}

// GetTopProducts handles the best sellers over a date range
func (h *DashboardHandler) GetTopProducts(c *gin.Context) {
	var req request.ReportRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	period, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultTopProducts
	}

	products, err := h.dashboardService.GetTopProducts(c.Request.Context(), period, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Top products retrieved successfully", products)
}

// GetRestockSuggestions handles low stock products ranked by demand
func (h *DashboardHandler) GetRestockSuggestions(c *gin.Context) {
	suggestions, err := h.dashboardService.GetRestockSuggestions(c.Request.Context(), h.lowStockThreshold)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Restock suggestions retrieved successfully", suggestions)
}

// ListTransactions handles the sale history
func (h *DashboardHandler) ListTransactions(c *gin.Context) {
	var req request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
	}
	var err error
	if params.ShiftID, err = optionalUUID(req.ShiftID, "shift_id"); err != nil {
		response.Error(c, err)
		return
	}
	if params.CustomerID, err = optionalUUID(req.CustomerID, "customer_id"); err != nil {
		response.Error(c, err)
		return
	}
	if params.ProductID, err = optionalUUID(req.ProductID, "product_id"); err != nil {
		response.Error(c, err)
		return
	}
	period, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	params.StartDate, params.EndDate = period.From, period.To

	result, err := h.dashboardService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

// GetTransaction handles getting a single sale
func (h *DashboardHandler) GetTransaction(c *gin.Context) {
	id, err := paramUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.settlementService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", txn)
}
