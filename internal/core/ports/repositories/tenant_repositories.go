package repositories

import (
	"context"

	"github.com/complianceos/cos_backend/internal/core/domain"
)

// TenantReader defines read operations for tenant data.
type TenantReader interface {
	// FindTenantByID retrieves a specific tenant by its ID.
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// ListTenantsByUserID retrieves all tenants a user belongs to.
	ListTenantsByUserID(ctx context.Context, userID string) ([]domain.Tenant, error)
}

// TenantWriter defines write operations for tenant data.
type TenantWriter interface {
	// SaveTenant persists a new tenant.
	SaveTenant(ctx context.Context, tenant domain.Tenant) error
}

// ModuleFlagManager defines operations on per-tenant module flags.
type ModuleFlagManager interface {
	// SetModuleFlag enables or disables a module for a tenant (upsert).
	SetModuleFlag(ctx context.Context, flag domain.ModuleFlag) error

	// ListModuleFlags retrieves all module flags recorded for a tenant.
	ListModuleFlags(ctx context.Context, tenantID string) ([]domain.ModuleFlag, error)

	// IsModuleEnabled reports whether a module is enabled for a tenant.
	// A module with no recorded flag is disabled.
	IsModuleEnabled(ctx context.Context, tenantID string, module domain.ModuleName) (bool, error)
}

// TenantMembershipManager defines operations for managing tenant memberships.
type TenantMembershipManager interface {
	// AddMembership adds a user to a tenant with a specific role (upsert).
	AddMembership(ctx context.Context, membership domain.TenantMembership) error

	// FindMembership retrieves the role of a user in a tenant.
	FindMembership(ctx context.Context, userID, tenantID string) (*domain.TenantMembership, error)
}

// TenantRepositoryFacade combines all tenant-related repository interfaces.
type TenantRepositoryFacade interface {
	TenantReader
	TenantWriter
	ModuleFlagManager
	TenantMembershipManager
}
