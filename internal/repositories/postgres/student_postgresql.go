package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/TMS-2025/proposal-service/internal/cache"
	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/repositories"
)

type studentPostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewStudentPostgreSQL(db *gorm.DB, cm *cache.CacheManager) repositories.StudentRepository {
	return &studentPostgreSQL{db: db, cache: cm}
}

func (r *studentPostgreSQL) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentPostgreSQL) GetByID(ctx context.Context, id string) (*models.Student, error) {
	var cached models.Student
	if err := r.cache.Aluno.Get(ctx, "id:"+id, &cached); err == nil {
		return &cached, nil
	}

	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		return nil, err
	}

	_ = r.cache.Aluno.Set(ctx, "id:"+id, &student, cache.PrincipalTTL)
	return &student, nil
}

func (r *studentPostgreSQL) Update(ctx context.Context, student *models.Student) error {
	err := r.db.WithContext(ctx).Save(student).Error
	if err == nil {
		r.cache.InvalidateAluno(ctx, student.ID)
	}
	return err
}

func (r *studentPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		First(&student, "email = ?", models.NormalizeEmail(email)).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentPostgreSQL) GetByNumeroEstudante(ctx context.Context, numero string) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		First(&student, "numero_estudante = ?", numero).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentPostgreSQL) GetByIDs(ctx context.Context, ids []string) ([]*models.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var students []*models.Student
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&students).Error
	return students, err
}

func (r *studentPostgreSQL) List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("nome ILIKE ? OR email ILIKE ? OR numero_estudante ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var students []*models.Student
	if err := query.Order("nome ASC").Find(&students).Error; err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

func (r *studentPostgreSQL) ExistsAll(ctx context.Context, ids []string) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id IN ?", ids).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == int64(len(ids)), nil
}

func (r *studentPostgreSQL) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_reset_token_hash": tokenHash,
			"password_reset_expires_at": expiresAt,
		}).Error
	if err == nil {
		r.cache.InvalidateAluno(ctx, id)
	}
	return err
}

func (r *studentPostgreSQL) ConsumeResetToken(ctx context.Context, id, tokenHash, newSenhaHash string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Student{}).
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
		r.cache.InvalidateAluno(ctx, id)
		return true, nil
	}
	return false, nil
}
