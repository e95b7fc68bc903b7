package repositories

import (
	"context"
	"time"

	"github.com/complianceos/cos_backend/internal/core/domain"
)

// WorkItemFilters captures the list filters of the work-item store.
// All populated filters combine with AND semantics.
type WorkItemFilters struct {
	Statuses   []domain.WorkItemStatus
	Types      []domain.WorkItemType
	Priorities []domain.WorkItemPriority
	AssigneeID *string
	DueAfter   *time.Time
	DueBefore  *time.Time
	Escalated  *bool
}

// WorkItemReader defines read operations for work item data. Tenant scoping
// is mandatory on every method and is enforced in SQL, never in callers.
type WorkItemReader interface {
	// FindWorkItemByID retrieves a work item by ID within a tenant.
	// A tenant mismatch surfaces as not-found, never as forbidden.
	FindWorkItemByID(ctx context.Context, tenantID, workItemID string) (*domain.WorkItem, error)

	// ListWorkItems returns a page of matching items plus the total match count.
	ListWorkItems(ctx context.Context, tenantID string, filters WorkItemFilters, limit, offset int) ([]domain.WorkItem, int64, error)

	// ListOpenWorkItems returns every non-terminal item of a tenant, used for
	// due-date bucketing in the aggregator.
	ListOpenWorkItems(ctx context.Context, tenantID string) ([]domain.WorkItem, error)

	// CountWorkItemsByStatus returns per-status counts across all items.
	CountWorkItemsByStatus(ctx context.Context, tenantID string) (map[domain.WorkItemStatus]int64, error)

	// ListWorkItemEvents returns timeline entries newest-first, optionally
	// only those strictly before the given cursor.
	ListWorkItemEvents(ctx context.Context, tenantID, workItemID string, before *EventCursor, limit int) ([]domain.WorkItemEvent, error)
}

// EventCursor is the keyset position in a work item timeline. The event ID
// breaks ties between entries recorded at the same instant.
type EventCursor struct {
	OccurredAt time.Time
	EventID    string
}

// WorkItemWriter defines write operations for work item data.
type WorkItemWriter interface {
	// SaveWorkItem persists a new work item.
	SaveWorkItem(ctx context.Context, item domain.WorkItem) error

	// UpdateWorkItem writes the item's mutable fields and appends the
	// timeline event in one transaction. The write is version-checked;
	// a stale version affects zero rows.
	UpdateWorkItem(ctx context.Context, item domain.WorkItem, event domain.WorkItemEvent) error
}

// EscalationManager defines operations on escalation episodes.
type EscalationManager interface {
	// EscalateWorkItem writes the escalated item, the timeline entry and the
	// new escalation episode in one transaction.
	EscalateWorkItem(ctx context.Context, item domain.WorkItem, event domain.WorkItemEvent, episode domain.EscalationEvent) error

	// FindOpenEscalation retrieves the unresolved escalation episode of a
	// work item, if any.
	FindOpenEscalation(ctx context.Context, tenantID, workItemID string) (*domain.EscalationEvent, error)

	// AcknowledgeEscalation stamps the episode's acknowledgment fields.
	AcknowledgeEscalation(ctx context.Context, tenantID, escalationID, acknowledgedBy string, at time.Time) error

	// ResolveEscalation writes the resolved item, the timeline entry and the
	// episode's resolution fields in one transaction.
	ResolveEscalation(ctx context.Context, item domain.WorkItem, event domain.WorkItemEvent, escalationID, resolvedBy string, at time.Time) error

	// ListEscalations returns the escalation episodes of a work item,
	// newest first.
	ListEscalations(ctx context.Context, tenantID, workItemID string) ([]domain.EscalationEvent, error)
}

// WorkItemRepositoryFacade combines all work-item repository interfaces.
type WorkItemRepositoryFacade interface {
	WorkItemReader
	WorkItemWriter
	EscalationManager
}
