package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ===== REFERENCE NORMALIZATION =====

// normalizeCoorientadores dedupes, strips the orientador from the list and
// checks every remaining id references a stored docente.
func (s *proposalService) normalizeCoorientadores(ctx context.Context, ids []string, orientadorID string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range models.UniqueTrimmed(ids) {
		if id != orientadorID {
			out = append(out, id)
		}
	}

	ok, err := s.repo.Lecturer().ExistsAll(ctx, out)
	if err != nil {
		return nil, fmt.Errorf("failed to check coorientadores: %w", err)
	}
	if !ok {
		return nil, NewBusinessRuleError("coorientadores_exist", "Um ou mais coorientadores não existem")
	}

	return out, nil
}

func (s *proposalService) normalizeAlunos(ctx context.Context, ids []string) ([]string, error) {
	out := models.UniqueTrimmed(ids)

	ok, err := s.repo.Student().ExistsAll(ctx, out)
	if err != nil {
		return nil, fmt.Errorf("failed to check alunos: %w", err)
	}
	if !ok {
		return nil, NewBusinessRuleError("alunos_exist", "Um ou mais alunos não existem")
	}

	return out, nil
}

// ===== VIEW BUILDING =====

func (s *proposalService) buildProposalView(ctx context.Context, proposta *models.Proposal) (*models.ProposalView, error) {
	views, err := s.buildProposalViews(ctx, []*models.Proposal{proposta})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// buildProposalViews resolves referenced docentes and alunos to names with
// one batch lookup per kind across the whole page.
func (s *proposalService) buildProposalViews(ctx context.Context, propostas []*models.Proposal) ([]*models.ProposalView, error) {
	docenteIDs := make([]string, 0, len(propostas)*2)
	alunoIDs := make([]string, 0, len(propostas))
	for _, p := range propostas {
		docenteIDs = append(docenteIDs, p.OrientadorID)
		docenteIDs = append(docenteIDs, p.CoorientadorIDs()...)
		alunoIDs = append(alunoIDs, p.AlunoIDs()...)
	}

	docentes, err := s.lecturerRefs(ctx, docenteIDs)
	if err != nil {
		return nil, err
	}
	alunos, err := s.studentRefs(ctx, alunoIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*models.ProposalView, 0, len(propostas))
	for _, p := range propostas {
		view := &models.ProposalView{
			ID:                 p.ID,
			Titulo:             p.Titulo,
			DescricaoObjetivos: p.DescricaoObjetivos,
			Orientador:         docentes[p.OrientadorID],
			Coorientadores:     make([]models.LecturerRef, 0, len(p.CoorientadorIDs())),
			Alunos:             make([]models.StudentRef, 0, len(p.AlunoIDs())),
			PalavrasChave:      p.Keywords(),
			Status:             p.Status,
			CreatedAt:          p.CreatedAt,
			UpdatedAt:          p.UpdatedAt,
		}
		if view.PalavrasChave == nil {
			view.PalavrasChave = []string{}
		}
		for _, id := range p.CoorientadorIDs() {
			if ref, found := docentes[id]; found {
				view.Coorientadores = append(view.Coorientadores, ref)
			}
		}
		for _, id := range p.AlunoIDs() {
			if ref, found := alunos[id]; found {
				view.Alunos = append(view.Alunos, ref)
			}
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *proposalService) lecturerRefs(ctx context.Context, ids []string) (map[string]models.LecturerRef, error) {
	refs := make(map[string]models.LecturerRef)
	ids = models.UniqueTrimmed(ids)
	if len(ids) == 0 {
		return refs, nil
	}

	docentes, err := s.repo.Lecturer().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve docentes: %w", err)
	}
	for _, d := range docentes {
		refs[d.ID] = d.Ref()
	}
	return refs, nil
}

func (s *proposalService) studentRefs(ctx context.Context, ids []string) (map[string]models.StudentRef, error) {
	refs := make(map[string]models.StudentRef)
	ids = models.UniqueTrimmed(ids)
	if len(ids) == 0 {
		return refs, nil
	}

	alunos, err := s.repo.Student().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve alunos: %w", err)
	}
	for _, a := range alunos {
		refs[a.ID] = a.Ref()
	}
	return refs, nil
}

// ===== XLSX EXPORT =====

var exportHeaders = []string{"Título", "Orientador", "Coorientadores", "Alunos", "Palavras-chave", "Estado", "Criada em"}

func (s *proposalService) Export(ctx context.Context, filters repositories.ProposalFilters, actor Actor) ([]byte, error) {
	if actor.Kind != models.KindDocente {
		return nil, NewPermissionError(actor.ID, "", "proposta", "export", "only docentes export proposals")
	}

	scope, err := s.scopeFor(actor, true)
	if err != nil {
		return nil, err
	}

	propostas, err := s.repo.Proposal().ListAll(ctx, scope, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list propostas for export: %w", err)
	}

	views, err := s.buildProposalViews(ctx, propostas)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Propostas"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create export sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write export header: %w", err)
		}
	}

	for row, view := range views {
		values := []interface{}{
			view.Titulo,
			view.Orientador.Nome,
			joinLecturerNames(view.Coorientadores),
			joinStudentNames(view.Alunos),
			strings.Join(view.PalavrasChave, ", "),
			string(view.Status),
			view.CreatedAt.Format(time.DateOnly),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write export row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render export workbook: %w", err)
	}

	s.logger.Info("Propostas exported", "actor_id", actor.ID, "count", len(views))
	return buf.Bytes(), nil
}

func joinLecturerNames(refs []models.LecturerRef) string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Nome)
	}
	return strings.Join(names, ", ")
}

func joinStudentNames(refs []models.StudentRef) string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Nome)
	}
	return strings.Join(names, ", ")
}
