package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/TMS-2025/proposal-service/internal/cache"
	"github.com/TMS-2025/proposal-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	lecturer repositories.LecturerRepository
	student  repositories.StudentRepository
	proposal repositories.ProposalRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a repository manager with all
// sub-repositories wired against the same gorm handle.
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.lecturer = NewLecturerPostgreSQL(config.DB, cacheManager)
	repo.student = NewStudentPostgreSQL(config.DB, cacheManager)
	repo.proposal = NewProposalPostgreSQL(config.DB, cacheManager)

	return repo
}

func (r *PostgreSQLRepository) Lecturer() repositories.LecturerRepository {
	return r.lecturer
}

func (r *PostgreSQLRepository) Student() repositories.StudentRepository {
	return r.student
}

func (r *PostgreSQLRepository) Proposal() repositories.ProposalRepository {
	return r.proposal
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}
		txRepo.lecturer = NewLecturerPostgreSQL(tx, r.cacheManager)
		txRepo.student = NewStudentPostgreSQL(tx, r.cacheManager)
		txRepo.proposal = NewProposalPostgreSQL(tx, r.cacheManager)
		return fn(txRepo)
	})
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ===== MANAGER =====

type Manager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) *Manager {
	return &Manager{config: config}
}

func (m *Manager) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("database handle is required")
	}
	m.repo = NewPostgreSQLRepository(m.config)
	return nil
}

func (m *Manager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *Manager) HealthCheck(ctx context.Context) error {
	return m.repo.Ping(ctx)
}

func (m *Manager) Shutdown(_ context.Context) error {
	return m.repo.Close()
}
