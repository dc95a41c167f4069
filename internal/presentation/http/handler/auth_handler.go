package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/posgo-api/internal/application/service"
	"github.com/sangkips/posgo-api/internal/presentation/http/dto/request"
	"github.com/sangkips/posgo-api/internal/presentation/http/dto/response"
	"github.com/sangkips/posgo-api/pkg/apperror"
)

// AuthHandler handles register token HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// IssueToken lets a manager issue a register token for a cashier
// @Summary Issue token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.IssueTokenRequest true "Cashier"
// @Success 201 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /auth/tokens [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req request.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.FromValidation(err))
		return
	}

	output, err := h.authService.IssueToken(&service.IssueTokenInput{
		CashierID: req.CashierID,
		Name:      req.Name,
		Role:      req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Token issued successfully", output)
}

// Me returns the identity carried by the caller's token
func (h *AuthHandler) Me(c *gin.Context) {
	name, _ := c.Get(CashierNameKey)
	response.OK(c, "Cashier retrieved successfully", gin.H{
		"cashier_id": GetCashierID(c),
		"name":       name,
		"role":       GetCashierRole(c),
	})
}
