package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/repositories"
	"github.com/TMS-2025/proposal-service/internal/validator"
)

type studentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) StudentService {
	return &studentService{repo: repo, logger: logger, validator: validator}
}

func (s *studentService) GetByID(ctx context.Context, id string) (*models.StudentView, error) {
	aluno, err := s.repo.Student().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAlunoNotFound
		}
		return nil, fmt.Errorf("failed to get aluno: %w", err)
	}

	view := aluno.View()
	return &view, nil
}

func (s *studentService) List(ctx context.Context, filters repositories.StudentFilters, page, limit int) (*StudentListResponse, error) {
	filters.Limit = limit
	filters.Offset = (page - 1) * limit

	alunos, total, err := s.repo.Student().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list alunos: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}

	views := make([]models.StudentView, 0, len(alunos))
	for _, a := range alunos {
		views = append(views, a.View())
	}

	return &StudentListResponse{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		Items:      views,
	}, nil
}

func (s *studentService) Update(ctx context.Context, id string, req *validator.AlunoUpdateRequest, actor Actor) (*models.StudentView, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	// Alunos edit themselves; docentes holding admin may edit anyone.
	owner := actor.Kind == models.KindAluno && actor.ID == id
	if !owner && !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, id, "aluno", "update", "not the account owner")
	}

	aluno, err := s.repo.Student().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAlunoNotFound
		}
		return nil, fmt.Errorf("failed to get aluno: %w", err)
	}

	if req.Nome != nil {
		aluno.Nome = strings.TrimSpace(*req.Nome)
	}

	if err := s.repo.Student().Update(ctx, aluno); err != nil {
		return nil, fmt.Errorf("failed to update aluno: %w", err)
	}

	s.logger.Info("Aluno updated", "aluno_id", id, "actor_id", actor.ID)

	view := aluno.View()
	return &view, nil
}
