package dto

import (
	"time"

	"github.com/complianceos/cos_backend/internal/core/domain"
)

// --- Tenant DTOs ---

// CreateTenantRequest defines data for creating a new tenant.
type CreateTenantRequest struct {
	Name string `json:"name" binding:"required"`
}

// TenantResponse defines data returned for a tenant.
type TenantResponse struct {
	TenantID      string    `json:"tenantID"`
	Name          string    `json:"name"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToTenantResponse converts domain.Tenant to DTO.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:      t.TenantID,
		Name:          t.Name,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
		LastUpdatedAt: t.LastUpdatedAt,
		LastUpdatedBy: t.LastUpdatedBy,
	}
}

// ListTenantsResponse wraps a list of tenants.
type ListTenantsResponse struct {
	Tenants []TenantResponse `json:"tenants"`
}

// ToListTenantsResponse converts a slice of domain.Tenant to DTO.
func ToListTenantsResponse(ts []domain.Tenant) ListTenantsResponse {
	list := make([]TenantResponse, len(ts))
	for i, t := range ts {
		list[i] = ToTenantResponse(&t)
	}
	return ListTenantsResponse{Tenants: list}
}

// SetModuleFlagRequest enables or disables a module for a tenant.
type SetModuleFlagRequest struct {
	Module  domain.ModuleName `json:"module" binding:"required,oneof=governance crm tprm bcp audit"`
	Enabled *bool             `json:"enabled" binding:"required"`
}

// ModuleFlagResponse defines data returned for a module flag.
type ModuleFlagResponse struct {
	Module    domain.ModuleName `json:"module"`
	Enabled   bool              `json:"enabled"`
	UpdatedAt time.Time         `json:"updatedAt"`
	UpdatedBy string            `json:"updatedBy"`
}

// ToModuleFlagResponse converts domain.ModuleFlag to DTO.
func ToModuleFlagResponse(f *domain.ModuleFlag) ModuleFlagResponse {
	return ModuleFlagResponse{
		Module:    f.Module,
		Enabled:   f.Enabled,
		UpdatedAt: f.UpdatedAt,
		UpdatedBy: f.UpdatedBy,
	}
}

// ListModuleFlagsResponse wraps a tenant's module flags.
type ListModuleFlagsResponse struct {
	TenantID string               `json:"tenantID"`
	Modules  []ModuleFlagResponse `json:"modules"`
}

// AddMemberRequest defines data for adding a user to a tenant.
type AddMemberRequest struct {
	UserID string            `json:"userID" binding:"required"`
	Role   domain.TenantRole `json:"role" binding:"required,oneof=ADMIN OPERATOR VIEWER"`
}
