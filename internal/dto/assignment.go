package dto

import (
	"time"

	"github.com/complianceos/cos_backend/internal/core/domain"
)

// --- Governance item / RACI assignment DTOs ---

// CreateGovernanceItemRequest defines data for cataloging a governed item.
type CreateGovernanceItemRequest struct {
	Kind domain.ItemKind `json:"kind" binding:"required,oneof=control policy evidence task"`
	Name string          `json:"name" binding:"required,max=200"`
}

// GovernanceItemResponse defines data returned for a governed item.
type GovernanceItemResponse struct {
	ItemID    string          `json:"itemID"`
	TenantID  string          `json:"tenantID"`
	Kind      domain.ItemKind `json:"kind"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ToGovernanceItemResponse converts domain.GovernanceItem to DTO.
func ToGovernanceItemResponse(g *domain.GovernanceItem) GovernanceItemResponse {
	return GovernanceItemResponse{
		ItemID:    g.ItemID,
		TenantID:  g.TenantID,
		Kind:      g.Kind,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
	}
}

// UpsertAssignmentRequest defines data for assigning a person to an item.
type UpsertAssignmentRequest struct {
	UserID   string          `json:"userID" binding:"required"`
	ItemKind domain.ItemKind `json:"itemKind" binding:"required,oneof=control policy evidence task"`
	ItemID   string          `json:"itemID" binding:"required"`
	Role     domain.RACIRole `json:"role" binding:"required,oneof=responsible accountable consulted informed"`
}

// ListAssignmentsParams captures assignment list filters.
type ListAssignmentsParams struct {
	ItemKind *domain.ItemKind `form:"itemKind" binding:"omitempty,oneof=control policy evidence task"`
	ItemID   *string          `form:"itemID"`
	UserID   *string          `form:"userID"`
}

// AssignmentResponse defines data returned for an assignment.
type AssignmentResponse struct {
	AssignmentID string          `json:"assignmentID"`
	TenantID     string          `json:"tenantID"`
	UserID       string          `json:"userID"`
	ItemKind     domain.ItemKind `json:"itemKind"`
	ItemID       string          `json:"itemID"`
	Role         domain.RACIRole `json:"role"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ToAssignmentResponse converts domain.Assignment to DTO.
func ToAssignmentResponse(a *domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		AssignmentID: a.AssignmentID,
		TenantID:     a.TenantID,
		UserID:       a.UserID,
		ItemKind:     a.ItemKind,
		ItemID:       a.ItemID,
		Role:         a.Role,
		CreatedAt:    a.CreatedAt,
	}
}

// ListAssignmentsResponse wraps a list of assignments.
type ListAssignmentsResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
}

// ToListAssignmentsResponse converts a slice of domain.Assignment to DTO.
func ToListAssignmentsResponse(as []domain.Assignment) ListAssignmentsResponse {
	list := make([]AssignmentResponse, len(as))
	for i, a := range as {
		list[i] = ToAssignmentResponse(&a)
	}
	return ListAssignmentsResponse{Assignments: list}
}
