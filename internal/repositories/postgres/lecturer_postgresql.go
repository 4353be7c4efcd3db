package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/TMS-2025/proposal-service/internal/cache"
	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/repositories"
)

type lecturerPostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewLecturerPostgreSQL(db *gorm.DB, cm *cache.CacheManager) repositories.LecturerRepository {
	return &lecturerPostgreSQL{db: db, cache: cm}
}

func (r *lecturerPostgreSQL) Create(ctx context.Context, lecturer *models.Lecturer) error {
	return r.db.WithContext(ctx).Create(lecturer).Error
}

func (r *lecturerPostgreSQL) GetByID(ctx context.Context, id string) (*models.Lecturer, error) {
	var cached models.Lecturer
	if err := r.cache.Docente.Get(ctx, "id:"+id, &cached); err == nil {
		return &cached, nil
	}

	var lecturer models.Lecturer
	if err := r.db.WithContext(ctx).First(&lecturer, "id = ?", id).Error; err != nil {
		return nil, err
	}

	// A failed cache write only costs the next read a trip to the database.
	_ = r.cache.Docente.Set(ctx, "id:"+id, &lecturer, cache.PrincipalTTL)
	return &lecturer, nil
}

func (r *lecturerPostgreSQL) Update(ctx context.Context, lecturer *models.Lecturer) error {
	err := r.db.WithContext(ctx).Save(lecturer).Error
	if err == nil {
		r.cache.InvalidateDocente(ctx, lecturer.ID)
	}
	return err
}

func (r *lecturerPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.Lecturer, error) {
	var lecturer models.Lecturer
	err := r.db.WithContext(ctx).
		First(&lecturer, "email = ?", models.NormalizeEmail(email)).Error
	if err != nil {
		return nil, err
	}
	return &lecturer, nil
}

func (r *lecturerPostgreSQL) GetByIDs(ctx context.Context, ids []string) ([]*models.Lecturer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var lecturers []*models.Lecturer
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&lecturers).Error
	return lecturers, err
}

func (r *lecturerPostgreSQL) List(ctx context.Context, filters repositories.LecturerFilters) ([]*models.Lecturer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Lecturer{})

	if filters.Nome != "" {
		query = query.Where("nome ILIKE ?", "%"+filters.Nome+"%")
	}
	if filters.Email != "" {
		query = query.Where("email ILIKE ?", "%"+filters.Email+"%")
	}
	if filters.Departamento != "" {
		query = query.Where("departamento ILIKE ?", "%"+filters.Departamento+"%")
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("nome ILIKE ? OR email ILIKE ? OR departamento ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("nome ASC")
	if !filters.NoPagination {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var lecturers []*models.Lecturer
	if err := query.Find(&lecturers).Error; err != nil {
		return nil, 0, err
	}
	return lecturers, total, nil
}

func (r *lecturerPostgreSQL) ExistsAll(ctx context.Context, ids []string) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Lecturer{}).
		Where("id IN ?", ids).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == int64(len(ids)), nil
}

func (r *lecturerPostgreSQL) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.Lecturer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_reset_token_hash": tokenHash,
			"password_reset_expires_at": expiresAt,
		}).Error
	if err == nil {
		r.cache.InvalidateDocente(ctx, id)
	}
	return err
}

// ConsumeResetToken is a single conditional update: the row must still carry
// the expected hash and an unexpired window. RowsAffected==0 covers every
// failure mode (no state, mismatch, expired, replay) indistinguishably, and
// two concurrent consumers cannot both match.
func (r *lecturerPostgreSQL) ConsumeResetToken(ctx context.Context, id, tokenHash, newSenhaHash string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Lecturer{}).
		Where("id = ? AND password_reset_token_hash = ? AND password_reset_expires_at > ?", id, tokenHash, now).
		Updates(map[string]interface{}{
			"senha_hash":                newSenhaHash,
			"password_reset_token_hash": nil,
			"password_reset_expires_at": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		r.cache.InvalidateDocente(ctx, id)
		return true, nil
	}
	return false, nil
}
