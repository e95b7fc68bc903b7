package domain

import "time"

// Tenant represents an isolated client organization. Every module-scoped
// entity carries a tenant ID; nothing is visible across tenants.
type Tenant struct {
	TenantID string `json:"tenantID" db:"tenant_id"`
	Name     string `json:"name" db:"name"`
	IsActive bool   `json:"isActive" db:"is_active"`
	AuditFields
}

// ModuleName identifies a capability that can be enabled per tenant.
type ModuleName string

const (
	ModuleGovernance ModuleName = "governance"
	ModuleCRM        ModuleName = "crm"
	ModuleTPRM       ModuleName = "tprm"
	ModuleBCP        ModuleName = "bcp"
	ModuleAudit      ModuleName = "audit"
)

// KnownModules lists every module the platform understands.
var KnownModules = []ModuleName{ModuleGovernance, ModuleCRM, ModuleTPRM, ModuleBCP, ModuleAudit}

// Valid reports whether the module name is one the platform understands.
func (m ModuleName) Valid() bool {
	for _, known := range KnownModules {
		if m == known {
			return true
		}
	}
	return false
}

// ModuleFlag records whether a module is enabled for a tenant.
type ModuleFlag struct {
	TenantID  string     `json:"tenantID" db:"tenant_id"`
	Module    ModuleName `json:"module" db:"module"`
	Enabled   bool       `json:"enabled" db:"enabled"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	UpdatedBy string     `json:"updatedBy" db:"updated_by"`
}

// TenantRole defines the possible roles a user can have within a tenant.
type TenantRole string

const (
	TenantRoleAdmin    TenantRole = "ADMIN"
	TenantRoleOperator TenantRole = "OPERATOR"
	TenantRoleViewer   TenantRole = "VIEWER"
)

// TenantMembership represents the membership of a User in a Tenant.
type TenantMembership struct {
	UserID   string     `json:"userID" db:"user_id"`
	TenantID string     `json:"tenantID" db:"tenant_id"`
	Role     TenantRole `json:"role" db:"role"`
	JoinedAt time.Time  `json:"joinedAt" db:"joined_at"`
}

// Meets reports whether the role satisfies the required role.
// ADMIN > OPERATOR > VIEWER.
func (r TenantRole) Meets(required TenantRole) bool {
	rank := map[TenantRole]int{
		TenantRoleViewer:   1,
		TenantRoleOperator: 2,
		TenantRoleAdmin:    3,
	}
	have, ok := rank[r]
	if !ok {
		return false
	}
	want, ok := rank[required]
	if !ok {
		return false
	}
	return have >= want
}
