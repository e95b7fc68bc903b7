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

type PgxTenantRepository struct {
	BaseRepository
}

// newPgxTenantRepository creates a new repository for tenant data.
func newPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantRepositoryFacade {
	return &PgxTenantRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TenantRepositoryFacade = (*PgxTenantRepository)(nil)

var FULL_TENANT_SELECT_QUERY = `
SELECT
	t.tenant_id, t.name, t.is_active,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
FROM tenants t
`

func (r *PgxTenantRepository) getTenants(ctx context.Context, filterQuery string, args ...any) ([]domain.Tenant, error) {
	query := FULL_TENANT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tenants", err)
	}
	defer rows.Close()
	tenants, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Tenant])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Tenant{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect tenant rows", err)
	}
	return tenants, nil
}

func (r *PgxTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	query := `
		INSERT INTO tenants (
			tenant_id, name, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		tenant.TenantID,
		tenant.Name,
		tenant.IsActive,
		tenant.CreatedAt,
		tenant.CreatedBy,
		tenant.LastUpdatedAt,
		tenant.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewDuplicateError("tenant ID " + tenant.TenantID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save tenant "+tenant.TenantID, err)
	}
	return nil
}

func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `WHERE t.tenant_id = $1`
	tenants, err := r.getTenants(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &tenants[0], nil
}

func (r *PgxTenantRepository) ListTenantsByUserID(ctx context.Context, userID string) ([]domain.Tenant, error) {
	query := `
		JOIN tenant_memberships tm ON t.tenant_id = tm.tenant_id
		WHERE tm.user_id = $1 AND t.is_active = true
		ORDER BY t.name;
	`
	return r.getTenants(ctx, query, userID)
}

func (r *PgxTenantRepository) SetModuleFlag(ctx context.Context, flag domain.ModuleFlag) error {
	query := `
		INSERT INTO tenant_module_flags (tenant_id, module, enabled, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, module) DO UPDATE
		SET enabled = EXCLUDED.enabled, updated_at = EXCLUDED.updated_at, updated_by = EXCLUDED.updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		flag.TenantID,
		flag.Module,
		flag.Enabled,
		flag.UpdatedAt,
		flag.UpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return apperrors.NewNotFoundError("tenant " + flag.TenantID + " not found")
		}
		return apperrors.NewAppError(500, "failed to set module flag for tenant "+flag.TenantID, err)
	}
	return nil
}

func (r *PgxTenantRepository) ListModuleFlags(ctx context.Context, tenantID string) ([]domain.ModuleFlag, error) {
	query := `
		SELECT tenant_id, module, enabled, updated_at, updated_by
		FROM tenant_module_flags
		WHERE tenant_id = $1
		ORDER BY module;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query module flags", err)
	}
	defer rows.Close()
	flags, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.ModuleFlag])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.ModuleFlag{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect module flag rows", err)
	}
	return flags, nil
}

func (r *PgxTenantRepository) IsModuleEnabled(ctx context.Context, tenantID string, module domain.ModuleName) (bool, error) {
	query := `
		SELECT enabled FROM tenant_module_flags
		WHERE tenant_id = $1 AND module = $2;
	`
	var enabled bool
	err := r.Pool.QueryRow(ctx, query, tenantID, module).Scan(&enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No recorded flag means disabled.
			return false, nil
		}
		return false, apperrors.NewAppError(500, "failed to check module flag for tenant "+tenantID, err)
	}
	return enabled, nil
}

func (r *PgxTenantRepository) AddMembership(ctx context.Context, membership domain.TenantMembership) error {
	query := `
		INSERT INTO tenant_memberships (user_id, tenant_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, tenant_id) DO UPDATE SET role = EXCLUDED.role;
	`
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.TenantID,
		membership.Role,
		membership.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return apperrors.NewValidationFailedError("user or tenant does not exist")
		}
		return apperrors.NewAppError(500, "failed to add user "+membership.UserID+" to tenant "+membership.TenantID, err)
	}
	return nil
}

func (r *PgxTenantRepository) FindMembership(ctx context.Context, userID, tenantID string) (*domain.TenantMembership, error) {
	query := `
		SELECT user_id, tenant_id, role, joined_at
		FROM tenant_memberships
		WHERE user_id = $1 AND tenant_id = $2;
	`
	var tm domain.TenantMembership
	err := r.Pool.QueryRow(ctx, query, userID, tenantID).Scan(
		&tm.UserID,
		&tm.TenantID,
		&tm.Role,
		&tm.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find membership of user "+userID+" in tenant "+tenantID, err)
	}
	return &tm, nil
}
