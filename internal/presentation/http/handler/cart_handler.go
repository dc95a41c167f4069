package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/posgo-api/internal/application/service"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	"github.com/sangkips/posgo-api/internal/presentation/http/dto/request"
	"github.com/sangkips/posgo-api/internal/presentation/http/dto/response"
	"github.com/sangkips/posgo-api/pkg/apperror"
)

// CartHandler handles the cashier's cart and checkout
type CartHandler struct {
	cartService       *service.CartService
	settlementService *service.SettlementService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService, settlementService *service.SettlementService) *CartHandler {
	return &CartHandler{
		cartService:       cartService,
		settlementService: settlementService,
	}
}

// Get handles reading the priced cart
func (h *CartHandler) Get(c *gin.Context) {
	view, err := h.cartService.GetCart(c.Request.Context(), cartKey(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", view)
}

// AddItem handles adding a product by id or barcode
func (h *CartHandler) AddItem(c *gin.Context) {
	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromValidation(err))
		return
	}

	view, err := h.cartService.AddItem(c.Request.Context(), cartKey(c), &service.AddItemInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Barcode:   req.Barcode,
		Quantity:  req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", view)
}

// UpdateItem handles quantity and discount changes on a line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req request.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromValidation(err))
		return
	}

	view, err := h.cartService.UpdateItem(c.Request.Context(), cartKey(c), c.Param("key"), &service.UpdateItemInput{
		QuantityDelta: req.QuantityDelta,
		Discount:      req.Discount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart item updated", view)
}

// RemoveItem handles taking a line out of the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	view, err := h.cartService.RemoveItem(c.Request.Context(), cartKey(c), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart item removed", view)
}

// AddTender handles a payment offered against the cart
func (h *CartHandler) AddTender(c *gin.Context) {
	var req request.AddTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromValidation(err))
		return
	}

	method, err := enum.ParsePaymentMethod(req.Method)
	if err != nil {
		response.Error(c, apperror.NewFieldError("method", "must be one of: cash card yape plin"))
		return
	}

	view, err := h.cartService.AddTender(c.Request.Context(), cartKey(c), method, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment added", view)
}

// RemoveTender handles dropping a payment by its position
func (h *CartHandler) RemoveTender(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "Invalid payment index")
		return
	}

	view, err := h.cartService.RemoveTender(c.Request.Context(), cartKey(c), index)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment removed", view)
}

// SetCustomer handles attaching or detaching the customer
func (h *CartHandler) SetCustomer(c *gin.Context) {
	var req request.SetCartCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromValidation(err))
		return
	}

	view, err := h.cartService.SetCustomer(c.Request.Context(), cartKey(c), req.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart customer updated", view)
}

// Clear handles cancelling the sale in progress
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cartService.ClearCart(c.Request.Context(), cartKey(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Checkout handles finalizing the cart into a sale
// @Summary Checkout
// @Description Settles the cart against the open shift. Requires an Idempotency-Key header.
// @Tags checkout
// @Produce json
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	txn, err := h.settlementService.Checkout(c.Request.Context(), cartKey(c), GetCashierID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed successfully", txn)
}
