package repositories

import (
	"context"

	"github.com/TMS-2025/proposal-service/internal/models"
)

type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, id string) (*models.Proposal, error)
	Update(ctx context.Context, proposal *models.Proposal) error
	Delete(ctx context.Context, id string) error

	// List returns proposals visible under the scope, filtered and paginated,
	// newest first.
	List(ctx context.Context, scope ProposalScope, filters ProposalFilters) ([]*models.Proposal, int64, error)

	// ListAll ignores pagination for export; same scoping rules as List.
	ListAll(ctx context.Context, scope ProposalScope, filters ProposalFilters) ([]*models.Proposal, error)
}
