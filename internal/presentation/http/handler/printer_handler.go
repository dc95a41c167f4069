package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/posgo-api/internal/application/service"
	"github.com/sangkips/posgo-api/internal/presentation/http/dto/request"
	"github.com/sangkips/posgo-api/internal/presentation/http/dto/response"
	"github.com/sangkips/posgo-api/pkg/apperror"
)

// PrinterHandler handles thermal printer HTTP requests
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the printer connection status
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus(c.Request.Context()))
}

// TestPrint sends a sample ticket to the printer
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		response.Error(c, apperror.Wrap(500, err))
		return
	}

	response.OK(c, "Test page printed successfully", gin.H{"receipt": receipt})
}

// PrintReceipt prints the ticket of a sale.
// When the printer fails the receipt is still returned with a warning.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	var req request.PrintReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromValidation(err))
		return
	}

	receipt, err := h.printerService.PrintReceipt(c.Request.Context(), uuid.MustParse(req.TransactionID))
	if err != nil {
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{"receipt": receipt})
}

// PrintShiftReport prints the reconciliation of a shift
func (h *PrinterHandler) PrintShiftReport(c *gin.Context) {
	var req request.PrintShiftReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromValidation(err))
		return
	}

	report, err := h.printerService.PrintShiftReport(c.Request.Context(), uuid.MustParse(req.ShiftID))
	if err != nil {
		if report != nil {
			response.OK(c, "Shift report generated but printing failed", gin.H{
				"report":  report,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift report printed successfully", gin.H{"report": report})
}
