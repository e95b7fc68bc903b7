package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/complianceos/cos_backend/internal/apperrors"
	"github.com/complianceos/cos_backend/internal/core/domain"
	portsrepo "github.com/complianceos/cos_backend/internal/core/ports/repositories"
	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/complianceos/cos_backend/internal/dto"
	"github.com/google/uuid"
)

// tenantService implements the TenantSvcFacade interface.
type tenantService struct {
	BaseService
	tenantRepo portsrepo.TenantRepositoryFacade
	userRepo   portsrepo.UserReader
}

// NewTenantService creates a new tenant service with the provided dependencies.
func NewTenantService(tenantRepo portsrepo.TenantRepositoryFacade, userRepo portsrepo.UserReader) portssvc.TenantSvcFacade {
	return &tenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
	}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

// CreateTenant creates a tenant, enables the governance module and adds the
// creator as tenant admin.
func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error) {
	now := time.Now()
	tenant := domain.Tenant{
		TenantID: uuid.NewString(),
		Name:     req.Name,
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.tenantRepo.SaveTenant(ctx, tenant); err != nil {
		s.LogError(ctx, err, "Failed to save tenant", slog.String("tenant_id", tenant.TenantID))
		return nil, err
	}

	membership := domain.TenantMembership{
		UserID:   creatorUserID,
		TenantID: tenant.TenantID,
		Role:     domain.TenantRoleAdmin,
		JoinedAt: now,
	}
	if err := s.tenantRepo.AddMembership(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add creator as admin to new tenant",
			slog.String("tenant_id", tenant.TenantID),
			slog.String("user_id", creatorUserID))
		return nil, err
	}

	// Governance is the platform baseline; everything else is opt-in.
	flag := domain.ModuleFlag{
		TenantID:  tenant.TenantID,
		Module:    domain.ModuleGovernance,
		Enabled:   true,
		UpdatedAt: now,
		UpdatedBy: creatorUserID,
	}
	if err := s.tenantRepo.SetModuleFlag(ctx, flag); err != nil {
		s.LogError(ctx, err, "Failed to enable governance module for new tenant",
			slog.String("tenant_id", tenant.TenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Tenant created successfully",
		slog.String("tenant_id", tenant.TenantID),
		slog.String("creator_id", creatorUserID))
	return &tenant, nil
}

// GetTenant retrieves a tenant the requesting user is a member of.
func (s *tenantService) GetTenant(ctx context.Context, tenantID, userID string) (*domain.Tenant, error) {
	if err := s.AuthorizeUserAction(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}
	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find tenant by ID", slog.String("tenant_id", tenantID))
		}
		return nil, err
	}
	return tenant, nil
}

// ListUserTenants retrieves all tenants a user belongs to.
func (s *tenantService) ListUserTenants(ctx context.Context, userID string) ([]domain.Tenant, error) {
	tenants, err := s.tenantRepo.ListTenantsByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tenants for user", slog.String("user_id", userID))
		return nil, err
	}
	if tenants == nil {
		return []domain.Tenant{}, nil
	}
	return tenants, nil
}

// SetModuleFlag enables or disables a module for a tenant. Requires the
// tenant admin role.
func (s *tenantService) SetModuleFlag(ctx context.Context, tenantID string, req dto.SetModuleFlagRequest, actorUserID string) (*domain.ModuleFlag, error) {
	if err := s.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.TenantRoleAdmin); err != nil {
		return nil, err
	}
	if !req.Module.Valid() {
		return nil, apperrors.NewValidationFailedError("unknown module: " + string(req.Module))
	}

	flag := domain.ModuleFlag{
		TenantID:  tenantID,
		Module:    req.Module,
		Enabled:   *req.Enabled,
		UpdatedAt: time.Now(),
		UpdatedBy: actorUserID,
	}
	if err := s.tenantRepo.SetModuleFlag(ctx, flag); err != nil {
		s.LogError(ctx, err, "Failed to set module flag",
			slog.String("tenant_id", tenantID),
			slog.String("module", string(req.Module)))
		return nil, err
	}

	s.LogInfo(ctx, "Module flag updated",
		slog.String("tenant_id", tenantID),
		slog.String("module", string(req.Module)),
		slog.Bool("enabled", flag.Enabled))
	return &flag, nil
}

// ListModuleFlags lists the tenant's module flags. Requires membership.
func (s *tenantService) ListModuleFlags(ctx context.Context, tenantID, userID string) ([]domain.ModuleFlag, error) {
	if err := s.AuthorizeUserAction(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}
	flags, err := s.tenantRepo.ListModuleFlags(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list module flags", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if flags == nil {
		return []domain.ModuleFlag{}, nil
	}
	return flags, nil
}

// AddMember adds a user to the tenant with a role. Requires tenant admin.
func (s *tenantService) AddMember(ctx context.Context, tenantID string, req dto.AddMemberRequest, actingUserID string) error {
	if err := s.AuthorizeUserAction(ctx, actingUserID, tenantID, domain.TenantRoleAdmin); err != nil {
		s.LogWarn(ctx, "User not authorized to add members to tenant",
			slog.String("acting_user_id", actingUserID),
			slog.String("tenant_id", tenantID))
		return err
	}

	// Reject unknown users up front so the membership table never references
	// a user that does not exist.
	if _, err := s.userRepo.FindUserByID(ctx, req.UserID); err != nil {
		return err
	}

	membership := domain.TenantMembership{
		UserID:   req.UserID,
		TenantID: tenantID,
		Role:     req.Role,
		JoinedAt: time.Now(),
	}
	if err := s.tenantRepo.AddMembership(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to tenant",
			slog.String("target_user_id", req.UserID),
			slog.String("tenant_id", tenantID))
		return err
	}

	s.LogInfo(ctx, "User added to tenant successfully",
		slog.String("target_user_id", req.UserID),
		slog.String("tenant_id", tenantID),
		slog.String("role", string(req.Role)))
	return nil
}

// AuthorizeUserAction checks if a user has the required role for a tenant.
// A non-member gets ErrForbidden, not ErrNotFound, because the caller has
// already proven knowledge of the tenant ID.
func (s *tenantService) AuthorizeUserAction(ctx context.Context, userID, tenantID string, requiredRole domain.TenantRole) error {
	membership, err := s.tenantRepo.FindMembership(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User not a member of tenant",
				slog.String("user_id", userID),
				slog.String("tenant_id", tenantID))
			return apperrors.NewForbiddenError("not a member of this tenant")
		}
		s.LogError(ctx, err, "Failed to find tenant membership",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID))
		return err
	}

	if !membership.Role.Meets(requiredRole) {
		s.LogDebug(ctx, "User does not have required role",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID),
			slog.String("user_role", string(membership.Role)),
			slog.String("required_role", string(requiredRole)))
		return apperrors.NewForbiddenError("insufficient tenant role")
	}
	return nil
}

// EnsureModuleEnabled fails with ErrForbidden before any store access when
// the module is disabled for the tenant.
func (s *tenantService) EnsureModuleEnabled(ctx context.Context, tenantID string, module domain.ModuleName) error {
	enabled, err := s.tenantRepo.IsModuleEnabled(ctx, tenantID, module)
	if err != nil {
		s.LogError(ctx, err, "Failed to check module flag",
			slog.String("tenant_id", tenantID),
			slog.String("module", string(module)))
		return err
	}
	if !enabled {
		s.LogDebug(ctx, "Module disabled for tenant",
			slog.String("tenant_id", tenantID),
			slog.String("module", string(module)))
		return apperrors.NewForbiddenError("module " + string(module) + " is not enabled for this tenant")
	}
	return nil
}
