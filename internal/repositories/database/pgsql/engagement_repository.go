package pgsql

import (
	"context"
	"errors"

	"github.com/complianceos/cos_backend/internal/apperrors"
	"github.com/complianceos/cos_backend/internal/core/domain"
	portsrepo "github.com/complianceos/cos_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEngagementRepository struct {
	BaseRepository
}

// newPgxEngagementRepository creates a new repository for engagement data.
func newPgxEngagementRepository(pool *pgxpool.Pool) portsrepo.EngagementRepositoryFacade {
	return &PgxEngagementRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.EngagementRepositoryFacade = (*PgxEngagementRepository)(nil)

var FULL_ENGAGEMENT_SELECT_QUERY = `
SELECT
	e.engagement_id, e.tenant_id, e.name, e.framework, e.stage, e.progress,
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
FROM engagements e
`

func (r *PgxEngagementRepository) getEngagements(ctx context.Context, filterQuery string, args ...any) ([]domain.Engagement, error) {
	query := FULL_ENGAGEMENT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query engagements", err)
	}
	defer rows.Close()
	engagements, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Engagement])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Engagement{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect engagement rows", err)
	}
	return engagements, nil
}

func (r *PgxEngagementRepository) SaveEngagement(ctx context.Context, engagement domain.Engagement) error {
	query := `
		INSERT INTO engagements (
			engagement_id, tenant_id, name, framework, stage, progress,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		engagement.EngagementID,
		engagement.TenantID,
		engagement.Name,
		engagement.Framework,
		engagement.Stage,
		engagement.Progress,
		engagement.CreatedAt,
		engagement.CreatedBy,
		engagement.LastUpdatedAt,
		engagement.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewDuplicateError("engagement ID " + engagement.EngagementID + " already exists")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("tenant does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save engagement "+engagement.EngagementID, err)
	}
	return nil
}

func (r *PgxEngagementRepository) FindEngagementByID(ctx context.Context, tenantID, engagementID string) (*domain.Engagement, error) {
	query := `WHERE e.tenant_id = $1 AND e.engagement_id = $2`
	engagements, err := r.getEngagements(ctx, query, tenantID, engagementID)
	if err != nil {
		return nil, err
	}
	if len(engagements) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &engagements[0], nil
}

func (r *PgxEngagementRepository) ListEngagements(ctx context.Context, tenantID string) ([]domain.Engagement, error) {
	query := `WHERE e.tenant_id = $1 ORDER BY e.created_at DESC;`
	return r.getEngagements(ctx, query, tenantID)
}

func (r *PgxEngagementRepository) UpdateEngagement(ctx context.Context, engagement domain.Engagement) error {
	query := `
		UPDATE engagements
		SET stage = $1, progress = $2, last_updated_at = $3, last_updated_by = $4
		WHERE tenant_id = $5 AND engagement_id = $6;
	`
	result, err := r.Pool.Exec(ctx, query,
		engagement.Stage,
		engagement.Progress,
		engagement.LastUpdatedAt,
		engagement.LastUpdatedBy,
		engagement.TenantID,
		engagement.EngagementID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update engagement "+engagement.EngagementID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("engagement " + engagement.EngagementID + " not found")
	}
	return nil
}
