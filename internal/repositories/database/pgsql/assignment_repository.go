package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/complianceos/cos_backend/internal/apperrors"
	"github.com/complianceos/cos_backend/internal/core/domain"
	portsrepo "github.com/complianceos/cos_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAssignmentRepository struct {
	BaseRepository
}

// newPgxAssignmentRepository creates a new repository for the governed item
// catalog and RACI assignments.
func newPgxAssignmentRepository(pool *pgxpool.Pool) portsrepo.AssignmentRepositoryFacade {
	return &PgxAssignmentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AssignmentRepositoryFacade = (*PgxAssignmentRepository)(nil)

var FULL_ASSIGNMENT_SELECT_QUERY = `
SELECT
	a.assignment_id, a.tenant_id, a.user_id, a.item_kind, a.item_id, a.role,
	a.created_at, a.created_by, a.last_updated_at, a.last_updated_by
FROM assignments a
`

func (r *PgxAssignmentRepository) getAssignments(ctx context.Context, filterQuery string, args ...any) ([]domain.Assignment, error) {
	query := FULL_ASSIGNMENT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query assignments", err)
	}
	defer rows.Close()
	assignments, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Assignment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Assignment{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect assignment rows", err)
	}
	return assignments, nil
}

func (r *PgxAssignmentRepository) SaveGovernanceItem(ctx context.Context, item domain.GovernanceItem) error {
	query := `
		INSERT INTO governance_items (
			item_id, tenant_id, kind, name,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		item.ItemID,
		item.TenantID,
		item.Kind,
		item.Name,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewDuplicateError("governance item ID " + item.ItemID + " already exists")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("tenant does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save governance item "+item.ItemID, err)
	}
	return nil
}

func (r *PgxAssignmentRepository) FindGovernanceItemByID(ctx context.Context, tenantID, itemID string) (*domain.GovernanceItem, error) {
	query := `
		SELECT item_id, tenant_id, kind, name,
			created_at, created_by, last_updated_at, last_updated_by
		FROM governance_items
		WHERE tenant_id = $1 AND item_id = $2;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, itemID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query governance item", err)
	}
	defer rows.Close()
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.GovernanceItem])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect governance item rows", err)
	}
	if len(items) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &items[0], nil
}

func (r *PgxAssignmentRepository) ListGovernanceItems(ctx context.Context, tenantID string, kind *domain.ItemKind) ([]domain.GovernanceItem, error) {
	query := `
		SELECT item_id, tenant_id, kind, name,
			created_at, created_by, last_updated_at, last_updated_by
		FROM governance_items
		WHERE tenant_id = $1
	`
	args := []any{tenantID}
	if kind != nil {
		query += ` AND kind = $2`
		args = append(args, *kind)
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query governance items", err)
	}
	defer rows.Close()
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.GovernanceItem])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.GovernanceItem{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect governance item rows", err)
	}
	return items, nil
}

func (r *PgxAssignmentRepository) CountGovernanceItems(ctx context.Context, tenantID string, kind domain.ItemKind) (int64, error) {
	query := `SELECT COUNT(*) FROM governance_items WHERE tenant_id = $1 AND kind = $2;`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, tenantID, kind).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count governance items", err)
	}
	return count, nil
}

func (r *PgxAssignmentRepository) ListAssignments(ctx context.Context, tenantID string, kind *domain.ItemKind, itemID, userID *string) ([]domain.Assignment, error) {
	filterQuery := `WHERE a.tenant_id = $1`
	args := []any{tenantID}
	next := 2

	if kind != nil {
		filterQuery += fmt.Sprintf(" AND a.item_kind = $%d", next)
		args = append(args, *kind)
		next++
	}
	if itemID != nil {
		filterQuery += fmt.Sprintf(" AND a.item_id = $%d", next)
		args = append(args, *itemID)
		next++
	}
	if userID != nil {
		filterQuery += fmt.Sprintf(" AND a.user_id = $%d", next)
		args = append(args, *userID)
		next++
	}
	filterQuery += ` ORDER BY a.created_at DESC;`

	return r.getAssignments(ctx, filterQuery, args...)
}

func (r *PgxAssignmentRepository) FindAccountableAssignment(ctx context.Context, tenantID string, kind domain.ItemKind, itemID string) (*domain.Assignment, error) {
	query := `WHERE a.tenant_id = $1 AND a.item_kind = $2 AND a.item_id = $3 AND a.role = $4`
	assignments, err := r.getAssignments(ctx, query, tenantID, kind, itemID, domain.RACIAccountable)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &assignments[0], nil
}

func (r *PgxAssignmentRepository) CountItemsWithOwningAssignment(ctx context.Context, tenantID string, kind domain.ItemKind) (int64, error) {
	query := `
		SELECT COUNT(DISTINCT a.item_id)
		FROM assignments a
		JOIN governance_items g ON g.tenant_id = a.tenant_id AND g.item_id = a.item_id
		WHERE a.tenant_id = $1 AND a.item_kind = $2 AND a.role IN ($3, $4);
	`
	var count int64
	err := r.Pool.QueryRow(ctx, query, tenantID, kind, domain.RACIResponsible, domain.RACIAccountable).Scan(&count)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count items with owning assignment", err)
	}
	return count, nil
}

// UpsertAssignment inserts the assignment or refreshes the existing row for
// the (user, item, role) triple. RETURNING yields the row as stored, so a
// repeat upsert keeps the existing assignment_id and creation audit fields.
func (r *PgxAssignmentRepository) UpsertAssignment(ctx context.Context, assignment domain.Assignment) (*domain.Assignment, error) {
	query := `
		INSERT INTO assignments (
			assignment_id, tenant_id, user_id, item_kind, item_id, role,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (tenant_id, user_id, item_kind, item_id, role) DO UPDATE
		SET last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by
		RETURNING assignment_id, tenant_id, user_id, item_kind, item_id, role,
			created_at, created_by, last_updated_at, last_updated_by;
	`
	var stored domain.Assignment
	err := r.Pool.QueryRow(ctx, query,
		assignment.AssignmentID,
		assignment.TenantID,
		assignment.UserID,
		assignment.ItemKind,
		assignment.ItemID,
		assignment.Role,
		assignment.CreatedAt,
		assignment.CreatedBy,
		assignment.LastUpdatedAt,
		assignment.LastUpdatedBy,
	).Scan(
		&stored.AssignmentID,
		&stored.TenantID,
		&stored.UserID,
		&stored.ItemKind,
		&stored.ItemID,
		&stored.Role,
		&stored.CreatedAt,
		&stored.CreatedBy,
		&stored.LastUpdatedAt,
		&stored.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// The partial unique index on accountable assignments backs up the
			// service-level check under concurrency.
			if pgErr.Code == "23505" {
				return nil, apperrors.NewConflictError("item already has an accountable assignee")
			}
			if pgErr.Code == "23503" {
				return nil, apperrors.NewValidationFailedError("user, tenant or item does not exist")
			}
		}
		return nil, apperrors.NewAppError(500, "failed to upsert assignment "+assignment.AssignmentID, err)
	}
	return &stored, nil
}

func (r *PgxAssignmentRepository) DeleteAssignment(ctx context.Context, tenantID, assignmentID string) error {
	query := `DELETE FROM assignments WHERE tenant_id = $1 AND assignment_id = $2;`
	result, err := r.Pool.Exec(ctx, query, tenantID, assignmentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete assignment "+assignmentID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("assignment " + assignmentID + " not found")
	}
	return nil
}
