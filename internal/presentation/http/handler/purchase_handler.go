package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/posgo-api/internal/application/service"
	"github.com/sangkips/posgo-api/internal/domain/repository"
	"github.com/sangkips/posgo-api/internal/presentation/http/dto/request"
	"github.com/sangkips/posgo-api/internal/presentation/http/dto/response"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/sangkips/posgo-api/pkg/pagination"
)

// PurchaseHandler handles stock receiving HTTP requests
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// List handles listing received purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	var req request.PurchaseFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	supplierID, err := optionalUUID(req.SupplierID, "supplier_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	productID, err := optionalUUID(req.ProductID, "product_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	period, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.purchaseService.ListPurchases(c.Request.Context(), &repository.PurchaseFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		SupplierID: supplierID,
		ProductID:  productID,
		StartDate:  period.From,
		EndDate:    period.To,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Purchases retrieved successfully", result)
}

// Create handles receiving a supplier invoice into stock
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req request.ReceivePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromValidation(err))
		return
	}

	items := make([]service.PurchaseItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.PurchaseItemInput{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		})
	}

	purchase, err := h.purchaseService.ReceivePurchase(c.Request.Context(), &service.ReceivePurchaseInput{
		SupplierID:    req.SupplierID,
		SupplierName:  req.SupplierName,
		InvoiceNumber: req.InvoiceNumber,
		ReceivedBy:    GetCashierID(c),
		Items:         items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Purchase received successfully", purchase)
}

// Get handles getting a single purchase
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, err := paramUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	purchase, err := h.purchaseService.GetPurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase retrieved successfully", purchase)
}
