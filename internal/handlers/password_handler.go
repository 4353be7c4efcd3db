package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TMS-2025/proposal-service/internal/services"
	"github.com/TMS-2025/proposal-service/internal/utils"
)

// forgotResponseMessage is returned for every well-formed forgot request so
// the endpoint cannot be used to probe which emails are registered.
const forgotResponseMessage = "Se o email existir, enviámos instruções de recuperação."

// PasswordHandler serves the password recovery endpoints.
type PasswordHandler struct {
	BaseHandler
	passwordService services.PasswordService
}

func NewPasswordHandler(passwordService services.PasswordService, logger utils.Logger) *PasswordHandler {
	return &PasswordHandler{
		BaseHandler:     NewBaseHandler(logger),
		passwordService: passwordService,
	}
}

// Forgot handles POST /api/auth/forgot-password.
func (h *PasswordHandler) Forgot(c *gin.Context) {
	var req services.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Dados inválidos", Details: err.Error()})
		return
	}

	if err := h.passwordService.Forgot(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": forgotResponseMessage})
}

// Reset handles POST /api/auth/reset-password.
func (h *PasswordHandler) Reset(c *gin.Context) {
	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Dados inválidos", Details: err.Error()})
		return
	}

	if err := h.passwordService.Reset(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "password reset completed")
	c.JSON(http.StatusOK, gin.H{"message": "Palavra-passe atualizada com sucesso."})
}
