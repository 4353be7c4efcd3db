package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/repositories"
	"github.com/TMS-2025/proposal-service/internal/services"
)

func TestGetProposalRejectsMalformedID(t *testing.T) {
	sm := newFakeServiceManager()
	router, _ := newTestRouter(sm, testConfig(), time.Hour)

	token := docenteToken(t, time.Hour, uuid.New().String())
	w := doJSON(router, http.MethodGet, "/api/propostas/not-a-uuid", token, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ID inválido") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestGetProposalNotFound(t *testing.T) {
	sm := newFakeServiceManager()
	sm.proposal.getByIDFn = func(id string, actor services.Actor) (*models.ProposalView, error) {
		return nil, services.ErrPropostaNotFound
	}
	router, _ := newTestRouter(sm, testConfig(), time.Hour)

	token := docenteToken(t, time.Hour, uuid.New().String())
	w := doJSON(router, http.MethodGet, "/api/propostas/"+uuid.New().String(), token, nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Proposta não encontrada") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestUpdateProposalPermissionDenied(t *testing.T) {
	sm := newFakeServiceManager()
	sm.proposal.updateFn = func(id string, req *services.ProposalUpdateRequest, actor services.Actor) (*models.ProposalView, error) {
		return nil, services.NewPermissionError(actor.ID, id, "proposta", "update", "not orientador")
	}
	router, _ := newTestRouter(sm, testConfig(), time.Hour)

	token := docenteToken(t, time.Hour, uuid.New().String())
	w := doJSON(router, http.MethodPut, "/api/propostas/"+uuid.New().String(), token, map[string]any{
		"titulo": "Novo título da proposta",
	})

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Sem permissões") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestDeleteProposalNoContent(t *testing.T) {
	sm := newFakeServiceManager()
	var deletedID string
	sm.proposal.deleteFn = func(id string, actor services.Actor) error {
		deletedID = id
		return nil
	}
	router, _ := newTestRouter(sm, testConfig(), time.Hour)

	id := uuid.New().String()
	token := docenteToken(t, time.Hour, uuid.New().String())
	w := doJSON(router, http.MethodDelete, "/api/propostas/"+id, token, nil)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if deletedID != id {
		t.Errorf("expected delete of %s, got %s", id, deletedID)
	}
}

func TestListProposalsPassesPaginationAndFilters(t *testing.T) {
	sm := newFakeServiceManager()
	var gotFilters repositories.ProposalFilters
	var gotPage, gotLimit int
	sm.proposal.listFn = func(filters repositories.ProposalFilters, page, limit int, actor services.Actor) (*services.ProposalListResponse, error) {
		gotFilters, gotPage, gotLimit = filters, page, limit
		return &services.ProposalListResponse{
			Page: page, Limit: limit, Total: 0, TotalPages: 1,
			Items: []*models.ProposalView{},
		}, nil
	}
	router, _ := newTestRouter(sm, testConfig(), time.Hour)

	token := docenteToken(t, time.Hour, uuid.New().String())
	w := doJSON(router, http.MethodGet, "/api/propostas?page=3&limit=999&q=redes", token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotPage != 3 {
		t.Errorf("expected page 3, got %d", gotPage)
	}
	if gotLimit != 50 {
		t.Errorf("expected limit clamped to 50, got %d", gotLimit)
	}
	if gotFilters.Query != "redes" {
		t.Errorf("expected query filter, got %+v", gotFilters)
	}
	if !strings.Contains(w.Body.String(), `"items":[]`) {
		t.Errorf("expected empty items array, got %s", w.Body.String())
	}
}

func TestExportProposals(t *testing.T) {
	sm := newFakeServiceManager()
	sm.proposal.exportFn = func(filters repositories.ProposalFilters, actor services.Actor) ([]byte, error) {
		return []byte("PK\x03\x04workbook-bytes"), nil
	}
	router, _ := newTestRouter(sm, testConfig(), time.Hour)

	aluno := alunoToken(t, time.Hour, uuid.New().String())
	w := doJSON(router, http.MethodGet, "/api/propostas/export", aluno, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("aluno export: expected 403, got %d", w.Code)
	}

	docente := docenteToken(t, time.Hour, uuid.New().String())
	w = doJSON(router, http.MethodGet, "/api/propostas/export", docente, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("docente export: expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); !strings.Contains(got, "spreadsheetml") {
		t.Errorf("unexpected content type %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, ".xlsx") {
		t.Errorf("unexpected content disposition %q", got)
	}
	if !strings.HasPrefix(w.Body.String(), "PK") {
		t.Errorf("expected xlsx payload, got %q", w.Body.String()[:4])
	}
}

func TestListDocentesAllReturnsBareArray(t *testing.T) {
	sm := newFakeServiceManager()
	sm.lecturer.listAllFn = func(filters repositories.LecturerFilters) ([]models.LecturerView, error) {
		return []models.LecturerView{
			{ID: uuid.New().String(), Nome: "Maria Santos", Email: "maria@uni.pt"},
			{ID: uuid.New().String(), Nome: "Rui Costa", Email: "rui@uni.pt"},
		}, nil
	}
	router, _ := newTestRouter(sm, testConfig(), time.Hour)

	token := alunoToken(t, time.Hour, uuid.New().String())
	w := doJSON(router, http.MethodGet, "/api/docentes?all=true", token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := strings.TrimSpace(w.Body.String())
	if !strings.HasPrefix(body, "[") {
		t.Errorf("expected bare array, got %s", body)
	}
	if strings.Contains(body, "totalPages") {
		t.Errorf("expected no page envelope, got %s", body)
	}
}
