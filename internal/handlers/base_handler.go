package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TMS-2025/proposal-service/internal/services"
	"github.com/TMS-2025/proposal-service/internal/utils"
	"github.com/TMS-2025/proposal-service/internal/validator"
)

// BaseHandler carries the logging helpers and the shared error mapping every
// HTTP handler uses.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// ErrorResponse is the JSON body of every non-2xx answer.
type ErrorResponse struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	logger := utils.FromContext(c.Request.Context(), h.logger)
	fields := append([]any{"method", c.Request.Method, "path", c.Request.URL.Path}, args...)
	logger.Info(msg, fields...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	logger := utils.FromContext(c.Request.Context(), h.logger)
	fields := append([]any{"error", err, "method", c.Request.Method, "path", c.Request.URL.Path}, args...)
	logger.Error(msg, fields...)
}

// handleServiceError translates service layer errors into HTTP answers. Every
// handler funnels non-validation errors through here so status codes stay
// consistent across resources.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	var permissionErr *services.PermissionError
	var conflictErr *services.ConflictError
	var businessErr *services.BusinessRuleError

	switch {
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Dados inválidos",
			Details: validationErrs,
		})
	case errors.As(err, &businessErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: businessErr.Message})
	case errors.Is(err, services.ErrResetTokenInvalid):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Token inválido ou expirado"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Credenciais inválidas"})
	case errors.As(err, &permissionErr):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Sem permissões"})
	case errors.Is(err, services.ErrPropostaNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Proposta não encontrada"})
	case errors.Is(err, services.ErrDocenteNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Docente não encontrado"})
	case errors.Is(err, services.ErrAlunoNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Aluno não encontrado"})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, ErrorResponse{Message: conflictErr.Message})
	default:
		h.LogError(c, err, "unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Erro interno do servidor"})
	}
}

// parsePagination reads page/limit query parameters, clamping limit to the
// configured ceiling. Page numbering is 1-based.
func parsePagination(c *gin.Context, defaultLimit, maxLimit int) (page, limit int) {
	page = 1
	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}

	limit = defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
