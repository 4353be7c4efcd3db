package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/TMS-2025/proposal-service/internal/auth"
	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/repositories"
	"github.com/TMS-2025/proposal-service/internal/validator"
	"github.com/google/uuid"
)

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	signer    *auth.TokenSigner
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, signer *auth.TokenSigner) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		signer:    signer,
	}
}

func (s *authService) RegisterDocente(ctx context.Context, req *RegisterDocenteRequest) (*RegisterDocenteResult, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	email := models.NormalizeEmail(req.Email)

	if existing, err := s.repo.Lecturer().GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, NewConflictError("email", "Email já registado")
	} else if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check docente email: %w", err)
	}

	senhaHash, err := auth.HashPassword(req.Senha)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Self-registration never grants more than the baseline role.
	roles := []string{string(models.RoleDocente)}

	docente := &models.Lecturer{
		ID:           uuid.New().String(),
		Nome:         strings.TrimSpace(req.Nome),
		Email:        email,
		Departamento: strings.TrimSpace(req.Departamento),
		SenhaHash:    senhaHash,
		Roles:        models.EncodeList(roles),
	}

	if err := s.repo.Lecturer().Create(ctx, docente); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("email", "Email já registado")
		}
		return nil, fmt.Errorf("failed to create docente: %w", err)
	}

	s.logger.Info("Docente registered", "docente_id", docente.ID)

	return &RegisterDocenteResult{
		ID:    docente.ID,
		Nome:  docente.Nome,
		Email: docente.Email,
		Roles: roles,
	}, nil
}

func (s *authService) RegisterAluno(ctx context.Context, req *RegisterAlunoRequest) (*RegisterAlunoResult, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	email := models.NormalizeEmail(req.Email)
	numero := strings.TrimSpace(req.NumeroEstudante)

	if existing, err := s.repo.Student().GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, NewConflictError("email", "Email já registado")
	} else if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check aluno email: %w", err)
	}

	if existing, err := s.repo.Student().GetByNumeroEstudante(ctx, numero); err == nil && existing != nil {
		return nil, NewConflictError("numero_estudante", "Número de estudante já registado")
	} else if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check numero_estudante: %w", err)
	}

	senhaHash, err := auth.HashPassword(req.Senha)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	aluno := &models.Student{
		ID:              uuid.New().String(),
		Nome:            strings.TrimSpace(req.Nome),
		Email:           email,
		NumeroEstudante: numero,
		SenhaHash:       senhaHash,
	}

	if err := s.repo.Student().Create(ctx, aluno); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("email", "Email já registado")
		}
		return nil, fmt.Errorf("failed to create aluno: %w", err)
	}

	s.logger.Info("Aluno registered", "aluno_id", aluno.ID)

	return &RegisterAlunoResult{
		ID:              aluno.ID,
		Nome:            aluno.Nome,
		Email:           aluno.Email,
		NumeroEstudante: aluno.NumeroEstudante,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	email := models.NormalizeEmail(req.Email)

	switch models.PrincipalKind(req.Tipo) {
	case models.KindDocente:
		return s.loginDocente(ctx, email, req.Senha)
	case models.KindAluno:
		return s.loginAluno(ctx, email, req.Senha)
	default:
		return nil, ErrInvalidCredentials
	}
}

func (s *authService) loginDocente(ctx context.Context, email, senha string) (*LoginResult, error) {
	docente, err := s.repo.Lecturer().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			auth.BurnComparison(senha)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up docente: %w", err)
	}

	if !auth.CheckPassword(docente.SenhaHash, senha) {
		return nil, ErrInvalidCredentials
	}

	roles := docente.RoleList()
	token, err := s.signer.Sign(docente.ID, models.KindDocente, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResult{
		Token: token,
		User: AuthUser{
			ID:    docente.ID,
			Nome:  docente.Nome,
			Email: docente.Email,
			Type:  string(models.KindDocente),
			Roles: roles,
		},
	}, nil
}

func (s *authService) loginAluno(ctx context.Context, email, senha string) (*LoginResult, error) {
	aluno, err := s.repo.Student().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			auth.BurnComparison(senha)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up aluno: %w", err)
	}

	if !auth.CheckPassword(aluno.SenhaHash, senha) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.signer.Sign(aluno.ID, models.KindAluno, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResult{
		Token: token,
		User: AuthUser{
			ID:    aluno.ID,
			Nome:  aluno.Nome,
			Email: aluno.Email,
			Type:  string(models.KindAluno),
		},
	}, nil
}
