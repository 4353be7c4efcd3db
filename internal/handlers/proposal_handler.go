package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/TMS-2025/proposal-service/internal/repositories"
	"github.com/TMS-2025/proposal-service/internal/services"
	"github.com/TMS-2025/proposal-service/internal/utils"
)

// ProposalHandler serves the proposal CRUD, listing and export endpoints.
type ProposalHandler struct {
	BaseHandler
	proposalService services.ProposalService
	defaultLimit    int
	maxLimit        int
}

func NewProposalHandler(proposalService services.ProposalService, defaultLimit, maxLimit int, logger utils.Logger) *ProposalHandler {
	return &ProposalHandler{
		BaseHandler:     NewBaseHandler(logger),
		proposalService: proposalService,
		defaultLimit:    defaultLimit,
		maxLimit:        maxLimit,
	}
}

// List handles GET /api/propostas. Results are scoped to what the caller may
// see; the envelope carries page metadata.
func (h *ProposalHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Token em falta"})
		return
	}

	page, limit := parsePagination(c, h.defaultLimit, h.maxLimit)
	filters := repositories.ProposalFilters{
		Titulo:     c.Query("titulo"),
		Autor:      c.Query("autor"),
		Orientador: c.Query("orientador"),
		Query:      c.Query("q"),
	}

	result, err := h.proposalService.List(c.Request.Context(), filters, page, limit, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/propostas/:id.
func (h *ProposalHandler) Get(c *gin.Context) {
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

	view, err := h.proposalService.GetByID(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Create handles POST /api/propostas. Route guards restrict it to docentes.
func (h *ProposalHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Token em falta"})
		return
	}

	var req services.ProposalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Dados inválidos", Details: err.Error()})
		return
	}

	view, err := h.proposalService.Create(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "proposal created", "proposta_id", view.ID, "orientador_id", view.Orientador.ID)
	c.JSON(http.StatusCreated, view)
}

// Update handles PUT /api/propostas/:id. Only the orientador or an admin may
// change a proposal.
func (h *ProposalHandler) Update(c *gin.Context) {
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

	var req services.ProposalUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Dados inválidos", Details: err.Error()})
		return
	}

	view, err := h.proposalService.Update(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "proposal updated", "proposta_id", view.ID)
	c.JSON(http.StatusOK, view)
}

// Delete handles DELETE /api/propostas/:id.
func (h *ProposalHandler) Delete(c *gin.Context) {
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

	if err := h.proposalService.Delete(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "proposal deleted", "proposta_id", id)
	c.Status(http.StatusNoContent)
}

// Export handles GET /api/propostas/export: the caller's visible proposals as
// an xlsx workbook.
func (h *ProposalHandler) Export(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Token em falta"})
		return
	}

	filters := repositories.ProposalFilters{
		Titulo:     c.Query("titulo"),
		Autor:      c.Query("autor"),
		Orientador: c.Query("orientador"),
		Query:      c.Query("q"),
	}

	data, err := h.proposalService.Export(c.Request.Context(), filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("propostas-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
