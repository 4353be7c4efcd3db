package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/TMS-2025/proposal-service/internal/auth"
	"github.com/TMS-2025/proposal-service/internal/events"
	"github.com/TMS-2025/proposal-service/internal/mailer"
	"github.com/TMS-2025/proposal-service/internal/repositories"
	"github.com/TMS-2025/proposal-service/internal/validator"
)

// ServiceManagerConfig carries the cross-service dependencies that are not
// repositories: token signing, outbound mail and the event publisher.
type ServiceManagerConfig struct {
	Signer    *auth.TokenSigner
	Sender    mailer.Sender
	Publisher events.EventPublisher
	AppURL    string
}

// serviceManager implements ServiceManager
type serviceManager struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	authService     AuthService
	passwordService PasswordService
	proposalService ProposalService
	lecturerService LecturerService
	studentService  StudentService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: validator,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if sm.config.Signer == nil {
		return fmt.Errorf("token signer is required")
	}
	if sm.config.Sender == nil {
		sm.config.Sender = mailer.NoopSender{}
	}
	if sm.config.Publisher == nil {
		sm.config.Publisher = events.NewMockEventPublisher(sm.logger)
	}

	sm.authService = NewAuthService(sm.repo, sm.logger, sm.validator, sm.config.Signer)
	sm.passwordService = NewPasswordService(sm.repo, sm.logger, sm.validator, sm.config.Sender, sm.config.Publisher, sm.config.AppURL)
	sm.proposalService = NewProposalService(sm.repo, sm.logger, sm.validator, sm.config.Publisher)
	sm.lecturerService = NewLecturerService(sm.repo, sm.logger, sm.validator)
	sm.studentService = NewStudentService(sm.repo, sm.logger, sm.validator)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) Password() PasswordService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.passwordService
}

func (sm *serviceManager) Proposal() ProposalService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.proposalService
}

func (sm *serviceManager) Lecturer() LecturerService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.lecturerService
}

func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.studentService
}

// Health and lifecycle

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.config.Publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
