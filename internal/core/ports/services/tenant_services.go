package services

import (
	"context"

	"github.com/complianceos/cos_backend/internal/core/domain"
	"github.com/complianceos/cos_backend/internal/dto"
)

// TenantAuthorizerSvc checks whether a user may act within a tenant.
type TenantAuthorizerSvc interface {
	// AuthorizeUserAction returns ErrForbidden when the user is not a member
	// of the tenant or the user's role does not meet the required role.
	AuthorizeUserAction(ctx context.Context, userID, tenantID string, requiredRole domain.TenantRole) error
}

// ModuleGateSvc enforces module enablement before module-scoped operations.
type ModuleGateSvc interface {
	// EnsureModuleEnabled returns ErrForbidden when the module is disabled
	// for the tenant. It must be called before any store access.
	EnsureModuleEnabled(ctx context.Context, tenantID string, module domain.ModuleName) error
}

// TenantSvcFacade exposes tenant management operations.
type TenantSvcFacade interface {
	TenantAuthorizerSvc
	ModuleGateSvc

	// CreateTenant creates a tenant and adds the creator as tenant admin.
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error)

	// GetTenant retrieves a tenant the requesting user is a member of.
	GetTenant(ctx context.Context, tenantID, userID string) (*domain.Tenant, error)

	// ListUserTenants retrieves all tenants the user belongs to.
	ListUserTenants(ctx context.Context, userID string) ([]domain.Tenant, error)

	// SetModuleFlag enables or disables a module (tenant admin only).
	SetModuleFlag(ctx context.Context, tenantID string, req dto.SetModuleFlagRequest, actorUserID string) (*domain.ModuleFlag, error)

	// ListModuleFlags lists the tenant's module flags (member only).
	ListModuleFlags(ctx context.Context, tenantID, userID string) ([]domain.ModuleFlag, error)

	// AddMember adds a user to the tenant with a role (tenant admin only,
	// except self-enrollment of the tenant creator).
	AddMember(ctx context.Context, tenantID string, req dto.AddMemberRequest, actingUserID string) error
}
