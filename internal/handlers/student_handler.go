package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/TMS-2025/proposal-service/internal/repositories"
	"github.com/TMS-2025/proposal-service/internal/services"
	"github.com/TMS-2025/proposal-service/internal/utils"
	"github.com/TMS-2025/proposal-service/internal/validator"
)

// StudentHandler serves the aluno directory endpoints.
type StudentHandler struct {
	BaseHandler
	studentService services.StudentService
	defaultLimit   int
	maxLimit       int
}

func NewStudentHandler(studentService services.StudentService, defaultLimit, maxLimit int, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    NewBaseHandler(logger),
		studentService: studentService,
		defaultLimit:   defaultLimit,
		maxLimit:       maxLimit,
	}
}

// List handles GET /api/alunos.
func (h *StudentHandler) List(c *gin.Context) {
	page, limit := parsePagination(c, h.defaultLimit, h.maxLimit)
	filters := repositories.StudentFilters{
		Query: c.Query("q"),
	}

	result, err := h.studentService.List(c.Request.Context(), filters, page, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/alunos/:id.
func (h *StudentHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "ID inválido"})
		return
	}

	view, err := h.studentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Update handles PUT /api/alunos/:id. An aluno may edit their own profile;
// admins may edit anyone's.
func (h *StudentHandler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Token em falta"})
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "ID inválido"})
		return
	}

	var req validator.AlunoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Dados inválidos", Details: err.Error()})
		return
	}

	view, err := h.studentService.Update(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "aluno updated", "aluno_id", id)
	c.JSON(http.StatusOK, view)
}
