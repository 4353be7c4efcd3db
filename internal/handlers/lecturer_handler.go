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

// LecturerHandler serves the docente directory endpoints.
type LecturerHandler struct {
	BaseHandler
	lecturerService services.LecturerService
	defaultLimit    int
	maxLimit        int
}

func NewLecturerHandler(lecturerService services.LecturerService, defaultLimit, maxLimit int, logger utils.Logger) *LecturerHandler {
	return &LecturerHandler{
		BaseHandler:     NewBaseHandler(logger),
		lecturerService: lecturerService,
		defaultLimit:    defaultLimit,
		maxLimit:        maxLimit,
	}
}

// List handles GET /api/docentes. With all=true (or paginate=false) it skips
// pagination and answers a bare array, which the proposal form uses to fill
// its supervisor pickers.
func (h *LecturerHandler) List(c *gin.Context) {
	filters := repositories.LecturerFilters{
		Nome:         c.Query("nome"),
		Email:        c.Query("email"),
		Departamento: c.Query("departamento"),
		Query:        c.Query("q"),
	}

	if c.Query("all") == "true" || c.Query("paginate") == "false" {
		views, err := h.lecturerService.ListAll(c.Request.Context(), filters)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
		return
	}

	page, limit := parsePagination(c, h.defaultLimit, h.maxLimit)
	result, err := h.lecturerService.List(c.Request.Context(), filters, page, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/docentes/:id.
func (h *LecturerHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "ID inválido"})
		return
	}

	view, err := h.lecturerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Update handles PUT /api/docentes/:id. A docente may edit their own profile;
// admins may edit anyone's.
func (h *LecturerHandler) Update(c *gin.Context) {
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

	var req validator.DocenteUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Dados inválidos", Details: err.Error()})
		return
	}

	view, err := h.lecturerService.Update(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "docente updated", "docente_id", id)
	c.JSON(http.StatusOK, view)
}
