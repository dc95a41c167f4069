package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/posgo-api/internal/application/service"
	"github.com/sangkips/posgo-api/internal/domain/enum"
	"github.com/sangkips/posgo-api/internal/presentation/http/dto/request"
	"github.com/sangkips/posgo-api/internal/presentation/http/dto/response"
	"github.com/sangkips/posgo-api/pkg/apperror"
	"github.com/sangkips/posgo-api/pkg/pagination"
)

// ShiftHandler handles cash shift HTTP requests
type ShiftHandler struct {
	shiftService *service.ShiftService
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(shiftService *service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

// Open handles opening a shift with a starting float
// @Summary Open shift
// @Tags shifts
// @Accept json
// @Produce json
// @Param request body request.OpenShiftRequest true "Opening float"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /shifts/open [post]
func (h *ShiftHandler) Open(c *gin.Context) {
	var req request.OpenShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromValidation(err))
		return
	}

	shift, err := h.shiftService.OpenShift(c.Request.Context(), &service.OpenShiftInput{
		StartAmount: req.StartAmount,
		OpenedBy:    GetCashierID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Shift opened successfully", shift)
}

// Current handles reading the live state of the open shift
func (h *ShiftHandler) Current(c *gin.Context) {
	report, err := h.shiftService.Status(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift retrieved successfully", report)
}

// RecordMovement handles cash put into or taken out of the drawer
func (h *ShiftHandler) RecordMovement(c *gin.Context) {
	var req request.CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromValidation(err))
		return
	}

	movementType, err := enum.ParseMovementType(req.Type)
	if err != nil {
		response.Error(c, apperror.NewFieldError("type", "must be IN or OUT"))
		return
	}

	movement, err := h.shiftService.RecordMovement(c.Request.Context(), &service.RecordMovementInput{
		Type:        movementType,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cash movement recorded successfully", movement)
}

// Close handles closing the shift with the counted cash
// @Summary Close shift
// @Tags shifts
// @Accept json
// @Produce json
// @Param request body request.CloseShiftRequest true "Counted cash"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /shifts/close [post]
func (h *ShiftHandler) Close(c *gin.Context) {
	var req request.CloseShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromValidation(err))
		return
	}

	report, err := h.shiftService.CloseShift(c.Request.Context(), &service.CloseShiftInput{
		CountedAmount: req.CountedAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift closed successfully", report)
}

// List handles the shift history
func (h *ShiftHandler) List(c *gin.Context) {
	var req request.ShiftFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.shiftService.ListShifts(c.Request.Context(), &pagination.PaginationParams{
		Page:    req.Page,
		PerPage: req.PerPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Shifts retrieved successfully", result)
}

// Get handles the reconciliation report of one shift
func (h *ShiftHandler) Get(c *gin.Context) {
	id, err := paramUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.shiftService.GetReport(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift report retrieved successfully", report)
}
