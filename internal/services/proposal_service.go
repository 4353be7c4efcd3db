package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/TMS-2025/proposal-service/internal/events"
	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/repositories"
	"github.com/TMS-2025/proposal-service/internal/validator"
	"github.com/google/uuid"
)

type proposalService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewProposalService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) ProposalService {
	return &proposalService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *proposalService) Create(ctx context.Context, req *ProposalCreateRequest, actor Actor) (*models.ProposalView, error) {
	s.logger.Info("Creating proposta", "actor_id", actor.ID, "titulo", req.Titulo)

	if actor.Kind != models.KindDocente {
		return nil, NewPermissionError(actor.ID, "", "proposta", "create", "only docentes create proposals")
	}

	if errors := s.validator.GetBusinessValidator().ValidateProposalCreate(req); len(errors) > 0 {
		return nil, errors
	}

	orientadorID := actor.ID
	if actor.IsAdmin() && strings.TrimSpace(req.Orientador) != "" {
		orientadorID = strings.TrimSpace(req.Orientador)
	}

	if _, err := s.repo.Lecturer().GetByID(ctx, orientadorID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewBusinessRuleError("orientador_exists", "orientador não existe")
		}
		return nil, fmt.Errorf("failed to check orientador: %w", err)
	}

	coorientadores, err := s.normalizeCoorientadores(ctx, req.Coorientadores, orientadorID)
	if err != nil {
		return nil, err
	}

	alunos, err := s.normalizeAlunos(ctx, req.Alunos)
	if err != nil {
		return nil, err
	}

	status := models.ProposalPublica
	if req.Status != "" {
		status = models.ProposalStatus(req.Status)
	}

	proposta := &models.Proposal{
		ID:                 uuid.New().String(),
		Titulo:             strings.TrimSpace(req.Titulo),
		DescricaoObjetivos: strings.TrimSpace(req.DescricaoObjetivos),
		OrientadorID:       orientadorID,
		Coorientadores:     models.EncodeList(coorientadores),
		Alunos:             models.EncodeList(alunos),
		PalavrasChave:      models.EncodeList(models.UniqueTrimmed(req.PalavrasChave)),
		Status:             status,
	}

	if err := s.repo.Proposal().Create(ctx, proposta); err != nil {
		return nil, fmt.Errorf("failed to create proposta: %w", err)
	}

	s.logger.Info("Proposta created", "proposta_id", proposta.ID)
	s.publishEvent(ctx, events.TypeProposalCreated, proposta, actor)

	return s.buildProposalView(ctx, proposta)
}

func (s *proposalService) GetByID(ctx context.Context, id string, actor Actor) (*models.ProposalView, error) {
	proposta, err := s.repo.Proposal().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPropostaNotFound
		}
		return nil, fmt.Errorf("failed to get proposta: %w", err)
	}

	return s.buildProposalView(ctx, proposta)
}

func (s *proposalService) Update(ctx context.Context, id string, req *ProposalUpdateRequest, actor Actor) (*models.ProposalView, error) {
	s.logger.Info("Updating proposta", "proposta_id", id, "actor_id", actor.ID)

	if actor.Kind != models.KindDocente {
		return nil, NewPermissionError(actor.ID, id, "proposta", "update", "only docentes edit proposals")
	}

	if errors := s.validator.GetBusinessValidator().ValidateProposalUpdate(req); len(errors) > 0 {
		return nil, errors
	}

	proposta, err := s.repo.Proposal().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPropostaNotFound
		}
		return nil, fmt.Errorf("failed to get proposta: %w", err)
	}

	if !proposta.IsOwner(actor.ID) && !actor.IsAdmin() {
		return nil, NewPermissionError(actor.ID, id, "proposta", "update", "not orientador")
	}

	if req.Titulo != nil {
		proposta.Titulo = strings.TrimSpace(*req.Titulo)
	}
	if req.DescricaoObjetivos != nil {
		proposta.DescricaoObjetivos = strings.TrimSpace(*req.DescricaoObjetivos)
	}
	if req.Status != nil {
		proposta.Status = models.ProposalStatus(*req.Status)
	}
	if req.PalavrasChave != nil {
		proposta.PalavrasChave = models.EncodeList(models.UniqueTrimmed(*req.PalavrasChave))
	}
	if req.Coorientadores != nil {
		coorientadores, err := s.normalizeCoorientadores(ctx, *req.Coorientadores, proposta.OrientadorID)
		if err != nil {
			return nil, err
		}
		proposta.Coorientadores = models.EncodeList(coorientadores)
	}
	if req.Alunos != nil {
		alunos, err := s.normalizeAlunos(ctx, *req.Alunos)
		if err != nil {
			return nil, err
		}
		proposta.Alunos = models.EncodeList(alunos)
	}

	if err := s.repo.Proposal().Update(ctx, proposta); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPropostaNotFound
		}
		return nil, fmt.Errorf("failed to update proposta: %w", err)
	}

	s.logger.Info("Proposta updated", "proposta_id", id)
	s.publishEvent(ctx, events.TypeProposalUpdated, proposta, actor)

	return s.buildProposalView(ctx, proposta)
}

func (s *proposalService) Delete(ctx context.Context, id string, actor Actor) error {
	s.logger.Info("Deleting proposta", "proposta_id", id, "actor_id", actor.ID)

	if actor.Kind != models.KindDocente {
		return NewPermissionError(actor.ID, id, "proposta", "delete", "only docentes delete proposals")
	}

	proposta, err := s.repo.Proposal().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPropostaNotFound
		}
		return fmt.Errorf("failed to get proposta: %w", err)
	}

	if !proposta.IsOwner(actor.ID) && !actor.IsAdmin() {
		return NewPermissionError(actor.ID, id, "proposta", "delete", "not orientador")
	}

	if err := s.repo.Proposal().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPropostaNotFound
		}
		return fmt.Errorf("failed to delete proposta: %w", err)
	}

	s.logger.Info("Proposta deleted", "proposta_id", id)
	s.publishEvent(ctx, events.TypeProposalDeleted, proposta, actor)

	return nil
}

// ===== LIST AND EXPORT =====

func (s *proposalService) List(ctx context.Context, filters repositories.ProposalFilters, page, limit int, actor Actor) (*ProposalListResponse, error) {
	scope, err := s.scopeFor(actor, false)
	if err != nil {
		return nil, err
	}

	filters.Limit = limit
	filters.Offset = (page - 1) * limit

	propostas, total, err := s.repo.Proposal().List(ctx, scope, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list propostas: %w", err)
	}

	items, err := s.buildProposalViews(ctx, propostas)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}

	return &ProposalListResponse{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		Items:      items,
	}, nil
}

// scopeFor derives the visibility scope from claims. Listing always stays
// subject-scoped; only export widens to everything for admins.
func (s *proposalService) scopeFor(actor Actor, adminSeesAll bool) (repositories.ProposalScope, error) {
	if !actor.Kind.Valid() {
		return repositories.ProposalScope{}, NewPermissionError(actor.ID, "", "proposta", "list", "unknown principal kind")
	}

	return repositories.ProposalScope{
		Kind:      actor.Kind,
		SubjectID: actor.ID,
		Admin:     adminSeesAll && actor.IsAdmin(),
	}, nil
}

func (s *proposalService) publishEvent(ctx context.Context, eventType string, proposta *models.Proposal, actor Actor) {
	err := s.publisher.Publish(ctx, events.NewEvent(eventType, map[string]string{
		"proposta_id":   proposta.ID,
		"orientador_id": proposta.OrientadorID,
		"actor_id":      actor.ID,
	}))
	if err != nil {
		s.logger.Error("Failed to publish proposta event", "type", eventType, "error", err)
	}
}
