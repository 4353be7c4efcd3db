package repositories

import (
	"context"
	"time"

	"github.com/TMS-2025/proposal-service/internal/models"
)

// StudentRepository persists aluno credential records. Duplicate email or
// student number surfaces as gorm.ErrDuplicatedKey from Create.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	GetByNumeroEstudante(ctx context.Context, numero string) (*models.Student, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Student, error)
	List(ctx context.Context, filters StudentFilters) ([]*models.Student, int64, error)

	ExistsAll(ctx context.Context, ids []string) (bool, error)

	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, id, tokenHash, newSenhaHash string, now time.Time) (bool, error)
}
