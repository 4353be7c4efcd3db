package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/TMS-2025/proposal-service/internal/cache"
	"github.com/TMS-2025/proposal-service/internal/models"
	"github.com/TMS-2025/proposal-service/internal/repositories"
)

type proposalPostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewProposalPostgreSQL(db *gorm.DB, cm *cache.CacheManager) repositories.ProposalRepository {
	return &proposalPostgreSQL{db: db, cache: cm}
}

func (r *proposalPostgreSQL) Create(ctx context.Context, proposal *models.Proposal) error {
	if err := r.db.WithContext(ctx).Create(proposal).Error; err != nil {
		return err
	}
	r.cache.InvalidateProposta(ctx, proposal.ID)
	return nil
}

func (r *proposalPostgreSQL) GetByID(ctx context.Context, id string) (*models.Proposal, error) {
	var cached models.Proposal
	if err := r.cache.Proposta.Get(ctx, "id:"+id, &cached); err == nil {
		return &cached, nil
	}

	var proposal models.Proposal
	if err := r.db.WithContext(ctx).First(&proposal, "id = ?", id).Error; err != nil {
		return nil, err
	}

	_ = r.cache.Proposta.Set(ctx, "id:"+id, &proposal, cache.ProposalTTL)
	return &proposal, nil
}

func (r *proposalPostgreSQL) Update(ctx context.Context, proposal *models.Proposal) error {
	if err := r.db.WithContext(ctx).Save(proposal).Error; err != nil {
		return err
	}
	r.cache.InvalidateProposta(ctx, proposal.ID)
	return nil
}

func (r *proposalPostgreSQL) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Proposal{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.cache.InvalidateProposta(ctx, id)
	return nil
}

func (r *proposalPostgreSQL) List(ctx context.Context, scope repositories.ProposalScope, filters repositories.ProposalFilters) ([]*models.Proposal, int64, error) {
	query := r.scopedQuery(ctx, scope, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var proposals []*models.Proposal
	err := query.
		Order("created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&proposals).Error
	if err != nil {
		return nil, 0, err
	}
	return proposals, total, nil
}

func (r *proposalPostgreSQL) ListAll(ctx context.Context, scope repositories.ProposalScope, filters repositories.ProposalFilters) ([]*models.Proposal, error) {
	var proposals []*models.Proposal
	err := r.scopedQuery(ctx, scope, filters).
		Order("created_at DESC").
		Find(&proposals).Error
	return proposals, err
}

// scopedQuery narrows the listing to the caller's visibility and applies the
// name filters. Associated ids live in jsonb arrays, so membership checks go
// through the @> containment operator.
func (r *proposalPostgreSQL) scopedQuery(ctx context.Context, scope repositories.ProposalScope, filters repositories.ProposalFilters) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Proposal{})

	if !scope.Admin {
		switch scope.Kind {
		case models.KindDocente:
			query = query.Where(
				"orientador_id = ? OR coorientadores @> to_jsonb(?::text)",
				scope.SubjectID, scope.SubjectID,
			)
		case models.KindAluno:
			query = query.Where("alunos @> to_jsonb(?::text)", scope.SubjectID)
		}
	}

	if filters.Titulo != "" {
		query = query.Where("titulo ILIKE ?", "%"+filters.Titulo+"%")
	}
	if filters.Autor != "" {
		query = query.Where(alunoNameMatch, "%"+filters.Autor+"%")
	}
	if filters.Orientador != "" {
		query = query.Where(orientadorNameMatch, "%"+filters.Orientador+"%")
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where(
			"titulo ILIKE ? OR "+orientadorNameMatch+" OR "+alunoNameMatch,
			pattern, pattern, pattern,
		)
	}

	return query
}

const (
	orientadorNameMatch = "EXISTS (SELECT 1 FROM docentes d WHERE d.id = propostas.orientador_id AND d.nome ILIKE ?)"
	alunoNameMatch      = "EXISTS (SELECT 1 FROM alunos a WHERE propostas.alunos @> to_jsonb(a.id) AND a.nome ILIKE ?)"
)
