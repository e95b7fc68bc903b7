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

type PgxGapRepository struct {
	BaseRepository
}

// newPgxGapRepository creates a new repository for gap analysis responses.
func newPgxGapRepository(pool *pgxpool.Pool) portsrepo.GapRepositoryFacade {
	return &PgxGapRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.GapRepositoryFacade = (*PgxGapRepository)(nil)

var FULL_GAP_RESPONSE_SELECT_QUERY = `
SELECT
	g.response_id, g.tenant_id, g.assessment_id, g.control_id, g.status,
	g.criticality, g.exposure, g.effort, g.notes,
	g.created_at, g.created_by, g.last_updated_at, g.last_updated_by
FROM gap_responses g
`

func (r *PgxGapRepository) getGapResponses(ctx context.Context, filterQuery string, args ...any) ([]domain.GapResponse, error) {
	query := FULL_GAP_RESPONSE_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query gap responses", err)
	}
	defer rows.Close()
	responses, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.GapResponse])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.GapResponse{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect gap response rows", err)
	}
	return responses, nil
}

func (r *PgxGapRepository) FindGapResponse(ctx context.Context, tenantID, assessmentID, controlID string) (*domain.GapResponse, error) {
	query := `WHERE g.tenant_id = $1 AND g.assessment_id = $2 AND g.control_id = $3`
	responses, err := r.getGapResponses(ctx, query, tenantID, assessmentID, controlID)
	if err != nil {
		return nil, err
	}
	if len(responses) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &responses[0], nil
}

func (r *PgxGapRepository) ListGapResponses(ctx context.Context, tenantID, assessmentID string) ([]domain.GapResponse, error) {
	query := `WHERE g.tenant_id = $1 AND g.assessment_id = $2 ORDER BY g.control_id;`
	return r.getGapResponses(ctx, query, tenantID, assessmentID)
}

func (r *PgxGapRepository) ListOpenGapResponses(ctx context.Context, tenantID, assessmentID string) ([]domain.GapResponse, error) {
	query := `
		WHERE g.tenant_id = $1 AND g.assessment_id = $2
		AND g.status IN ('not_implemented', 'in_progress')
		ORDER BY g.control_id;
	`
	return r.getGapResponses(ctx, query, tenantID, assessmentID)
}

// UpsertGapResponse inserts or updates the (assessment, control) response.
// The RETURNING clause yields the row as stored, so the update path keeps
// the existing response_id and creation audit fields. xmax = 0 distinguishes
// an insert from an update on the conflict path.
func (r *PgxGapRepository) UpsertGapResponse(ctx context.Context, response domain.GapResponse) (*domain.GapResponse, bool, error) {
	query := `
		INSERT INTO gap_responses (
			response_id, tenant_id, assessment_id, control_id, status,
			criticality, exposure, effort, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (tenant_id, assessment_id, control_id) DO UPDATE
		SET status = EXCLUDED.status,
			criticality = EXCLUDED.criticality,
			exposure = EXCLUDED.exposure,
			effort = EXCLUDED.effort,
			notes = EXCLUDED.notes,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		RETURNING response_id, tenant_id, assessment_id, control_id, status,
			criticality, exposure, effort, notes,
			created_at, created_by, last_updated_at, last_updated_by,
			(xmax = 0) AS inserted;
	`
	var stored domain.GapResponse
	var inserted bool
	err := r.Pool.QueryRow(ctx, query,
		response.ResponseID,
		response.TenantID,
		response.AssessmentID,
		response.ControlID,
		response.Status,
		response.Criticality,
		response.Exposure,
		response.Effort,
		response.Notes,
		response.CreatedAt,
		response.CreatedBy,
		response.LastUpdatedAt,
		response.LastUpdatedBy,
	).Scan(
		&stored.ResponseID,
		&stored.TenantID,
		&stored.AssessmentID,
		&stored.ControlID,
		&stored.Status,
		&stored.Criticality,
		&stored.Exposure,
		&stored.Effort,
		&stored.Notes,
		&stored.CreatedAt,
		&stored.CreatedBy,
		&stored.LastUpdatedAt,
		&stored.LastUpdatedBy,
		&inserted,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return nil, false, apperrors.NewValidationFailedError("tenant does not exist")
		}
		return nil, false, apperrors.NewAppError(500, "failed to upsert gap response for control "+response.ControlID, err)
	}
	return &stored, inserted, nil
}
