package repositories

import (
	"context"

	"github.com/complianceos/cos_backend/internal/core/domain"
)

// GovernanceItemManager defines operations on the tenant's catalog of
// governed items (controls, policies, evidence, tasks).
type GovernanceItemManager interface {
	// SaveGovernanceItem persists a new governed item.
	SaveGovernanceItem(ctx context.Context, item domain.GovernanceItem) error

	// FindGovernanceItemByID retrieves a governed item within a tenant.
	FindGovernanceItemByID(ctx context.Context, tenantID, itemID string) (*domain.GovernanceItem, error)

	// ListGovernanceItems retrieves governed items, optionally by kind.
	ListGovernanceItems(ctx context.Context, tenantID string, kind *domain.ItemKind) ([]domain.GovernanceItem, error)

	// CountGovernanceItems counts governed items of one kind.
	CountGovernanceItems(ctx context.Context, tenantID string, kind domain.ItemKind) (int64, error)
}

// AssignmentReader defines read operations for RACI assignments.
type AssignmentReader interface {
	// ListAssignments retrieves assignments matching the optional filters.
	ListAssignments(ctx context.Context, tenantID string, kind *domain.ItemKind, itemID, userID *string) ([]domain.Assignment, error)

	// FindAccountableAssignment retrieves the item's Accountable assignment,
	// if one exists.
	FindAccountableAssignment(ctx context.Context, tenantID string, kind domain.ItemKind, itemID string) (*domain.Assignment, error)

	// CountItemsWithOwningAssignment counts distinct governed items of one
	// kind that have at least one Responsible or Accountable assignee.
	CountItemsWithOwningAssignment(ctx context.Context, tenantID string, kind domain.ItemKind) (int64, error)
}

// AssignmentWriter defines write operations for RACI assignments.
type AssignmentWriter interface {
	// UpsertAssignment persists an assignment and returns the row as stored.
	// A repeat upsert for the same (user, item, role) triple keeps the
	// existing assignment ID and creation audit fields.
	UpsertAssignment(ctx context.Context, assignment domain.Assignment) (*domain.Assignment, error)

	// DeleteAssignment removes an assignment within a tenant.
	DeleteAssignment(ctx context.Context, tenantID, assignmentID string) error
}

// AssignmentRepositoryFacade combines catalog and assignment interfaces.
type AssignmentRepositoryFacade interface {
	GovernanceItemManager
	AssignmentReader
	AssignmentWriter
}
