package services

import (
	"context"

	"github.com/complianceos/cos_backend/internal/core/domain"
	"github.com/complianceos/cos_backend/internal/dto"
)

// WorkItemSvcFacade is the query façade over the work item store. It is the
// only entry point presentation code may call; it enforces tenant scoping,
// module enablement and status-machine rules.
type WorkItemSvcFacade interface {
	// CreateWorkItem creates a work item in status pending. The module
	// gating the item's type must be enabled for the tenant.
	CreateWorkItem(ctx context.Context, tenantID string, req dto.CreateWorkItemRequest, creatorUserID string) (*domain.WorkItem, error)

	// GetWorkItem retrieves a work item; a tenant mismatch is NotFound.
	GetWorkItem(ctx context.Context, tenantID, workItemID, userID string) (*domain.WorkItem, error)

	// ListWorkItems returns a filtered page plus the total match count.
	// The assignedToMe filter resolves against the calling user.
	ListWorkItems(ctx context.Context, tenantID, userID string, params dto.ListWorkItemsParams) (*dto.ListWorkItemsResponse, error)

	// UpdateWorkItemStatus applies a status transition, appending a timeline
	// event in the same transaction. Unreachable transitions fail with
	// ErrInvalidTransition; stale versions fail with ErrConflict.
	UpdateWorkItemStatus(ctx context.Context, tenantID, workItemID string, req dto.UpdateWorkItemStatusRequest, userID string) (*domain.WorkItem, error)

	// EscalateWorkItem moves a non-terminal item to escalated and opens an
	// escalation episode. Called by the external SLA rule engine.
	EscalateWorkItem(ctx context.Context, tenantID, workItemID string, req dto.EscalateWorkItemRequest, actorUserID string) (*domain.WorkItem, error)

	// RespondToEscalation acknowledges or resolves the open escalation
	// episode. Acknowledge is idempotent; resolve completes the item.
	RespondToEscalation(ctx context.Context, tenantID, workItemID string, action domain.EscalationAction, userID string) (*domain.WorkItem, error)

	// ListWorkItemEvents returns the item's timeline newest-first with
	// keyset pagination.
	ListWorkItemEvents(ctx context.Context, tenantID, workItemID, userID string, params dto.ListWorkItemEventsParams) (*dto.ListWorkItemEventsResponse, error)
}
