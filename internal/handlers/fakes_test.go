package handlers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/TMS-2025/proposal-service/internal/auth"
	"github.com/TMS-2025/proposal-service/internal/config"
	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/repositories"
	"github.com/TMS-2025/proposal-service/internal/services"
	"github.com/TMS-2025/proposal-service/internal/utils"
	"github.com/TMS-2025/proposal-service/internal/validator"
)

// Handler tests exercise routing, guards and error mapping against stub
// services; the service behavior itself is covered in the services package.

type fakeAuthService struct {
	registerDocenteFn func(req *services.RegisterDocenteRequest) (*services.RegisterDocenteResult, error)
	registerAlunoFn   func(req *services.RegisterAlunoRequest) (*services.RegisterAlunoResult, error)
	loginFn           func(req *services.LoginRequest) (*services.LoginResult, error)
}

func (f *fakeAuthService) RegisterDocente(_ context.Context, req *services.RegisterDocenteRequest) (*services.RegisterDocenteResult, error) {
	return f.registerDocenteFn(req)
}

func (f *fakeAuthService) RegisterAluno(_ context.Context, req *services.RegisterAlunoRequest) (*services.RegisterAlunoResult, error) {
	return f.registerAlunoFn(req)
}

func (f *fakeAuthService) Login(_ context.Context, req *services.LoginRequest) (*services.LoginResult, error) {
	return f.loginFn(req)
}

type fakePasswordService struct {
	forgotCalls []services.ForgotPasswordRequest
	resetFn     func(req *services.ResetPasswordRequest) error
}

func (f *fakePasswordService) Forgot(_ context.Context, req *services.ForgotPasswordRequest) error {
	f.forgotCalls = append(f.forgotCalls, *req)
	return nil
}

func (f *fakePasswordService) Reset(_ context.Context, req *services.ResetPasswordRequest) error {
	if f.resetFn != nil {
		return f.resetFn(req)
	}
	return nil
}

type fakeProposalService struct {
	createFn  func(req *services.ProposalCreateRequest, actor services.Actor) (*models.ProposalView, error)
	getByIDFn func(id string, actor services.Actor) (*models.ProposalView, error)
	updateFn  func(id string, req *services.ProposalUpdateRequest, actor services.Actor) (*models.ProposalView, error)
	deleteFn  func(id string, actor services.Actor) error
	listFn    func(filters repositories.ProposalFilters, page, limit int, actor services.Actor) (*services.ProposalListResponse, error)
	exportFn  func(filters repositories.ProposalFilters, actor services.Actor) ([]byte, error)
}

func (f *fakeProposalService) Create(_ context.Context, req *services.ProposalCreateRequest, actor services.Actor) (*models.ProposalView, error) {
	return f.createFn(req, actor)
}

func (f *fakeProposalService) GetByID(_ context.Context, id string, actor services.Actor) (*models.ProposalView, error) {
	return f.getByIDFn(id, actor)
}

func (f *fakeProposalService) Update(_ context.Context, id string, req *services.ProposalUpdateRequest, actor services.Actor) (*models.ProposalView, error) {
	return f.updateFn(id, req, actor)
}

func (f *fakeProposalService) Delete(_ context.Context, id string, actor services.Actor) error {
	return f.deleteFn(id, actor)
}

func (f *fakeProposalService) List(_ context.Context, filters repositories.ProposalFilters, page, limit int, actor services.Actor) (*services.ProposalListResponse, error) {
	return f.listFn(filters, page, limit, actor)
}

func (f *fakeProposalService) Export(_ context.Context, filters repositories.ProposalFilters, actor services.Actor) ([]byte, error) {
	return f.exportFn(filters, actor)
}

type fakeLecturerService struct {
	getByIDFn func(id string) (*models.LecturerView, error)
	listFn    func(filters repositories.LecturerFilters, page, limit int) (*services.LecturerListResponse, error)
	listAllFn func(filters repositories.LecturerFilters) ([]models.LecturerView, error)
	updateFn  func(id string, req *validator.DocenteUpdateRequest, actor services.Actor) (*models.LecturerView, error)
}

func (f *fakeLecturerService) GetByID(_ context.Context, id string) (*models.LecturerView, error) {
	return f.getByIDFn(id)
}

func (f *fakeLecturerService) List(_ context.Context, filters repositories.LecturerFilters, page, limit int) (*services.LecturerListResponse, error) {
	return f.listFn(filters, page, limit)
}

func (f *fakeLecturerService) ListAll(_ context.Context, filters repositories.LecturerFilters) ([]models.LecturerView, error) {
	return f.listAllFn(filters)
}

func (f *fakeLecturerService) Update(_ context.Context, id string, req *validator.DocenteUpdateRequest, actor services.Actor) (*models.LecturerView, error) {
	return f.updateFn(id, req, actor)
}

type fakeStudentService struct {
	getByIDFn func(id string) (*models.StudentView, error)
	listFn    func(filters repositories.StudentFilters, page, limit int) (*services.StudentListResponse, error)
	updateFn  func(id string, req *validator.AlunoUpdateRequest, actor services.Actor) (*models.StudentView, error)
}

func (f *fakeStudentService) GetByID(_ context.Context, id string) (*models.StudentView, error) {
	return f.getByIDFn(id)
}

func (f *fakeStudentService) List(_ context.Context, filters repositories.StudentFilters, page, limit int) (*services.StudentListResponse, error) {
	return f.listFn(filters, page, limit)
}

func (f *fakeStudentService) Update(_ context.Context, id string, req *validator.AlunoUpdateRequest, actor services.Actor) (*models.StudentView, error) {
	return f.updateFn(id, req, actor)
}

type fakeServiceManager struct {
	auth     *fakeAuthService
	password *fakePasswordService
	proposal *fakeProposalService
	lecturer *fakeLecturerService
	student  *fakeStudentService

	healthErr error
}

func newFakeServiceManager() *fakeServiceManager {
	return &fakeServiceManager{
		auth:     &fakeAuthService{},
		password: &fakePasswordService{},
		proposal: &fakeProposalService{},
		lecturer: &fakeLecturerService{},
		student:  &fakeStudentService{},
	}
}

func (f *fakeServiceManager) Auth() services.AuthService         { return f.auth }
func (f *fakeServiceManager) Password() services.PasswordService { return f.password }
func (f *fakeServiceManager) Proposal() services.ProposalService { return f.proposal }
func (f *fakeServiceManager) Lecturer() services.LecturerService { return f.lecturer }
func (f *fakeServiceManager) Student() services.StudentService   { return f.student }

func (f *fakeServiceManager) Initialize(context.Context) error  { return nil }
func (f *fakeServiceManager) HealthCheck(context.Context) error { return f.healthErr }
func (f *fakeServiceManager) Shutdown(context.Context) error    { return nil }

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	return &config.Config{
		PaginationDefaultLimit: 10,
		PaginationMaxLimit:     50,
		RateLimitLogin:         config.RateLimitPolicy{Window: time.Minute, Max: 5},
		RateLimitForgot:        config.RateLimitPolicy{Window: time.Minute, Max: 3},
		RateLimitAPI:           config.RateLimitPolicy{Window: time.Minute, Max: 1000},
	}
}

func testSigner(ttl time.Duration) *auth.TokenSigner {
	signer, err := auth.NewTokenSigner("handler-test-secret", ttl)
	if err != nil {
		panic(err)
	}
	return signer
}
