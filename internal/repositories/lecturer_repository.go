package repositories

import (
	"context"
	"time"

	"github.com/TMS-2025/proposal-service/internal/models"
)

// LecturerRepository persists docente credential records. Duplicate emails
// surface as gorm.ErrDuplicatedKey from Create.
type LecturerRepository interface {
	Create(ctx context.Context, lecturer *models.Lecturer) error
	Update(ctx context.Context, lecturer *models.Lecturer) error
	GetByID(ctx context.Context, id string) (*models.Lecturer, error)
	GetByEmail(ctx context.Context, email string) (*models.Lecturer, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Lecturer, error)
	List(ctx context.Context, filters LecturerFilters) ([]*models.Lecturer, int64, error)

	// ExistsAll reports whether every id references a stored docente.
	ExistsAll(ctx context.Context, ids []string) (bool, error)

	// SetResetToken stores a new reset hash and expiry, unconditionally
	// replacing any prior reset state.
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error

	// ConsumeResetToken atomically swaps the password hash and clears reset
	// state, but only while the stored hash matches and the expiry has not
	// passed. Returns false when no row qualified, so concurrent consumers
	// cannot both succeed.
	ConsumeResetToken(ctx context.Context, id, tokenHash, newSenhaHash string, now time.Time) (bool, error)
}
