package services

import (
	"context"

	"github.com/complianceos/cos_backend/internal/core/domain"
	"github.com/complianceos/cos_backend/internal/dto"
)

// AssignmentSvcFacade exposes governed-item catalog and RACI assignment
// operations.
type AssignmentSvcFacade interface {
	// CreateGovernanceItem catalogs a governed item for the tenant.
	CreateGovernanceItem(ctx context.Context, tenantID string, req dto.CreateGovernanceItemRequest, creatorUserID string) (*domain.GovernanceItem, error)

	// ListGovernanceItems lists the tenant's governed items, optionally by kind.
	ListGovernanceItems(ctx context.Context, tenantID, userID string, kind *domain.ItemKind) ([]domain.GovernanceItem, error)

	// UpsertAssignment assigns a person to an item with a RACI role. At most
	// one Accountable assignee may exist per item; a second one fails with
	// ErrConflict.
	UpsertAssignment(ctx context.Context, tenantID string, req dto.UpsertAssignmentRequest, actorUserID string) (*domain.Assignment, error)

	// ListAssignments lists assignments matching the optional filters.
	ListAssignments(ctx context.Context, tenantID, userID string, params dto.ListAssignmentsParams) ([]domain.Assignment, error)

	// DeleteAssignment removes an assignment.
	DeleteAssignment(ctx context.Context, tenantID, assignmentID, actorUserID string) error
}
