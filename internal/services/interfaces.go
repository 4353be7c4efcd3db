package services

import (
	"context"

	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/repositories"
	"github.com/TMS-2025/proposal-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterDocenteRequest = validator.RegisterDocenteRequest
type RegisterAlunoRequest = validator.RegisterAlunoRequest
type LoginRequest = validator.LoginRequest
type ForgotPasswordRequest = validator.ForgotPasswordRequest
type ResetPasswordRequest = validator.ResetPasswordRequest
type ProposalCreateRequest = validator.ProposalCreateRequest
type ProposalUpdateRequest = validator.ProposalUpdateRequest

// Actor is the authenticated principal acting on a request, built from
// verified token claims. Claims are the only authorization input.
type Actor struct {
	ID    string
	Kind  models.PrincipalKind
	Roles []string
}

func (a Actor) IsAdmin() bool {
	for _, r := range a.Roles {
		if r == string(models.RoleAdmin) {
			return true
		}
	}
	return false
}

type AuthUser struct {
	ID    string   `json:"id"`
	Nome  string   `json:"nome"`
	Email string   `json:"email"`
	Type  string   `json:"type"`
	Roles []string `json:"roles,omitempty"`
}

type LoginResult struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

type RegisterDocenteResult struct {
	ID    string   `json:"id"`
	Nome  string   `json:"nome"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type RegisterAlunoResult struct {
	ID              string `json:"id"`
	Nome            string `json:"nome"`
	Email           string `json:"email"`
	NumeroEstudante string `json:"numero_estudante"`
}

// Paged response envelopes mirror the original API's list shape.

type ProposalListResponse struct {
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	Total      int64                  `json:"total"`
	TotalPages int                    `json:"totalPages"`
	Items      []*models.ProposalView `json:"items"`
}

type LecturerListResponse struct {
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	Total      int64                 `json:"total"`
	TotalPages int                   `json:"totalPages"`
	Items      []models.LecturerView `json:"items"`
}

type StudentListResponse struct {
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	Total      int64                `json:"total"`
	TotalPages int                  `json:"totalPages"`
	Items      []models.StudentView `json:"items"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	RegisterDocente(ctx context.Context, req *RegisterDocenteRequest) (*RegisterDocenteResult, error)
	RegisterAluno(ctx context.Context, req *RegisterAlunoRequest) (*RegisterAlunoResult, error)

	// Login authenticates either principal kind; every failure cause is
	// ErrInvalidCredentials.
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
}

type PasswordService interface {
	// Forgot issues a reset token and emails it. It returns nil whether or
	// not the account exists; only malformed requests error.
	Forgot(ctx context.Context, req *ForgotPasswordRequest) error

	// Reset consumes a token and installs the new password. Every failure
	// cause is ErrResetTokenInvalid.
	Reset(ctx context.Context, req *ResetPasswordRequest) error
}

type ProposalService interface {
	Create(ctx context.Context, req *ProposalCreateRequest, actor Actor) (*models.ProposalView, error)
	GetByID(ctx context.Context, id string, actor Actor) (*models.ProposalView, error)
	Update(ctx context.Context, id string, req *ProposalUpdateRequest, actor Actor) (*models.ProposalView, error)
	Delete(ctx context.Context, id string, actor Actor) error

	List(ctx context.Context, filters repositories.ProposalFilters, page, limit int, actor Actor) (*ProposalListResponse, error)

	// Export renders every proposal visible to the actor as an xlsx workbook.
	Export(ctx context.Context, filters repositories.ProposalFilters, actor Actor) ([]byte, error)
}

type LecturerService interface {
	GetByID(ctx context.Context, id string) (*models.LecturerView, error)
	List(ctx context.Context, filters repositories.LecturerFilters, page, limit int) (*LecturerListResponse, error)
	ListAll(ctx context.Context, filters repositories.LecturerFilters) ([]models.LecturerView, error)
	Update(ctx context.Context, id string, req *validator.DocenteUpdateRequest, actor Actor) (*models.LecturerView, error)
}

type StudentService interface {
	GetByID(ctx context.Context, id string) (*models.StudentView, error)
	List(ctx context.Context, filters repositories.StudentFilters, page, limit int) (*StudentListResponse, error)
	Update(ctx context.Context, id string, req *validator.AlunoUpdateRequest, actor Actor) (*models.StudentView, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Password() PasswordService
	Proposal() ProposalService
	Lecturer() LecturerService
	Student() StudentService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
