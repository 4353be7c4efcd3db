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

type lecturerService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewLecturerService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) LecturerService {
	return &lecturerService{repo: repo, logger: logger, validator: validator}
}

func (s *lecturerService) GetByID(ctx context.Context, id string) (*models.LecturerView, error) {
	docente, err := s.repo.Lecturer().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDocenteNotFound
		}
		return nil, fmt.Errorf("failed to get docente: %w", err)
	}

	view := docente.View()
	return &view, nil
}

func (s *lecturerService) List(ctx context.Context, filters repositories.LecturerFilters, page, limit int) (*LecturerListResponse, error) {
	filters.Limit = limit
	filters.Offset = (page - 1) * limit
	filters.NoPagination = false

	docentes, total, err := s.repo.Lecturer().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list docentes: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}

	return &LecturerListResponse{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		Items:      lecturerViews(docentes),
	}, nil
}

// ListAll backs the `all=true` query and returns the unpaginated set.
func (s *lecturerService) ListAll(ctx context.Context, filters repositories.LecturerFilters) ([]models.LecturerView, error) {
	filters.NoPagination = true

	docentes, _, err := s.repo.Lecturer().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list docentes: %w", err)
	}

	return lecturerViews(docentes), nil
}

func (s *lecturerService) Update(ctx context.Context, id string, req *validator.DocenteUpdateRequest, actor Actor) (*models.LecturerView, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	if actor.ID != id && !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, id, "docente", "update", "not the account owner")
	}

	docente, err := s.repo.Lecturer().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDocenteNotFound
		}
		return nil, fmt.Errorf("failed to get docente: %w", err)
	}

	if req.Nome != nil {
		docente.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.Departamento != nil {
		docente.Departamento = strings.TrimSpace(*req.Departamento)
	}

	if err := s.repo.Lecturer().Update(ctx, docente); err != nil {
		return nil, fmt.Errorf("failed to update docente: %w", err)
	}

	s.logger.Info("Docente updated", "docente_id", id, "actor_id", actor.ID)

	view := docente.View()
	return &view, nil
}

func lecturerViews(docentes []*models.Lecturer) []models.LecturerView {
	views := make([]models.LecturerView, 0, len(docentes))
	for _, d := range docentes {
		views = append(views, d.View())
	}
	return views
}
