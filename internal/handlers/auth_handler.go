package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/services"
	"github.com/TMS-2025/proposal-service/internal/utils"
)

// AuthHandler serves registration, login and the authenticated profile.
type AuthHandler struct {
	BaseHandler
	authService     services.AuthService
	lecturerService services.LecturerService
	studentService  services.StudentService
}

func NewAuthHandler(
	authService services.AuthService,
	lecturerService services.LecturerService,
	studentService services.StudentService,
	logger utils.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:     NewBaseHandler(logger),
		authService:     authService,
		lecturerService: lecturerService,
		studentService:  studentService,
	}
}

// RegisterDocente handles POST /api/auth/register/docente.
func (h *AuthHandler) RegisterDocente(c *gin.Context) {
	var req services.RegisterDocenteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Dados inválidos", Details: err.Error()})
		return
	}

	result, err := h.authService.RegisterDocente(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "docente registered", "docente_id", result.ID)
	c.JSON(http.StatusCreated, result)
}

// RegisterAluno handles POST /api/auth/register/aluno.
func (h *AuthHandler) RegisterAluno(c *gin.Context) {
	var req services.RegisterAlunoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Dados inválidos", Details: err.Error()})
		return
	}

	result, err := h.authService.RegisterAluno(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "aluno registered", "aluno_id", result.ID)
	c.JSON(http.StatusCreated, result)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Dados inválidos", Details: err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "login", "subject_id", result.User.ID, "tipo", result.User.Type)
	c.JSON(http.StatusOK, result)
}

// Me handles GET /api/me: the current principal's profile, resolved from the
// token claims against the matching store.
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Token em falta"})
		return
	}

	switch actor.Kind {
	case models.KindDocente:
		view, err := h.lecturerService.GetByID(c.Request.Context(), actor.ID)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":    view.ID,
			"nome":  view.Nome,
			"email": view.Email,
			"type":  string(models.KindDocente),
			"roles": actor.Roles,
		})
	case models.KindAluno:
		view, err := h.studentService.GetByID(c.Request.Context(), actor.ID)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":               view.ID,
			"nome":             view.Nome,
			"email":            view.Email,
			"type":             string(models.KindAluno),
			"numero_estudante": view.NumeroEstudante,
		})
	default:
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Token inválido"})
	}
}
