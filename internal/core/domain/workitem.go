package domain

import "time"

// WorkItemType enumerates the kinds of governance work the platform tracks.
type WorkItemType string

const (
	WorkItemReview                WorkItemType = "review"
	WorkItemApproval              WorkItemType = "approval"
	WorkItemEvidenceCollection    WorkItemType = "evidence_collection"
	WorkItemRACIAssignment        WorkItemType = "raci_assignment"
	WorkItemRiskTreatment         WorkItemType = "risk_treatment"
	WorkItemVendorAssessment      WorkItemType = "vendor_assessment"
	WorkItemBCPApproval           WorkItemType = "bcp_approval"
	WorkItemPolicyReview          WorkItemType = "policy_review"
	WorkItemControlImplementation WorkItemType = "control_implementation"
)

// workItemTypeModules maps each work item type to the tenant module that must
// be enabled before an item of that type may be created.
var workItemTypeModules = map[WorkItemType]ModuleName{
	WorkItemReview:                ModuleGovernance,
	WorkItemApproval:              ModuleGovernance,
	WorkItemEvidenceCollection:    ModuleAudit,
	WorkItemRACIAssignment:        ModuleGovernance,
	WorkItemRiskTreatment:         ModuleGovernance,
	WorkItemVendorAssessment:      ModuleTPRM,
	WorkItemBCPApproval:           ModuleBCP,
	WorkItemPolicyReview:          ModuleGovernance,
	WorkItemControlImplementation: ModuleGovernance,
}

// Valid reports whether the type is a member of the closed enum.
func (t WorkItemType) Valid() bool {
	_, ok := workItemTypeModules[t]
	return ok
}

// Module returns the tenant module gating creation of items of this type.
func (t WorkItemType) Module() ModuleName {
	if m, ok := workItemTypeModules[t]; ok {
		return m
	}
	return ModuleGovernance
}

// WorkItemStatus enumerates the lifecycle states of a work item.
type WorkItemStatus string

const (
	StatusPending    WorkItemStatus = "pending"
	StatusInProgress WorkItemStatus = "in_progress"
	StatusCompleted  WorkItemStatus = "completed"
	StatusCancelled  WorkItemStatus = "cancelled"
	StatusEscalated  WorkItemStatus = "escalated"
)

// workItemTransitions is the closed transition table. completed and cancelled
// are terminal; escalation is reachable from any non-terminal state. An
// escalated item has no plain transitions out: it leaves the state only when
// its open escalation episode is resolved, which closes the episode and the
// item together.
var workItemTransitions = map[WorkItemStatus][]WorkItemStatus{
	StatusPending:    {StatusInProgress, StatusCancelled, StatusEscalated},
	StatusInProgress: {StatusCompleted, StatusCancelled, StatusEscalated},
	StatusEscalated:  {},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// Valid reports whether the status is a member of the closed enum.
func (s WorkItemStatus) Valid() bool {
	_, ok := workItemTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves this status.
func (s WorkItemStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is permitted.
func (s WorkItemStatus) CanTransitionTo(next WorkItemStatus) bool {
	for _, allowed := range workItemTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// WorkItemPriority enumerates work item priorities.
type WorkItemPriority string

const (
	PriorityLow      WorkItemPriority = "low"
	PriorityMedium   WorkItemPriority = "medium"
	PriorityHigh     WorkItemPriority = "high"
	PriorityCritical WorkItemPriority = "critical"
)

// Valid reports whether the priority is a member of the closed enum.
func (p WorkItemPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// WorkItem is the generalized unit of governance work.
type WorkItem struct {
	WorkItemID       string           `json:"workItemID" db:"work_item_id"`
	TenantID         string           `json:"tenantID" db:"tenant_id"`
	Type             WorkItemType     `json:"type" db:"item_type"`
	Title            string           `json:"title" db:"title"`
	Status           WorkItemStatus   `json:"status" db:"status"`
	Priority         WorkItemPriority `json:"priority" db:"priority"`
	DueDate          *time.Time       `json:"dueDate,omitempty" db:"due_date"`
	AssigneeID       *string          `json:"assigneeID,omitempty" db:"assignee_id"`
	LinkedEntityKind *string          `json:"linkedEntityKind,omitempty" db:"linked_entity_kind"`
	LinkedEntityID   *string          `json:"linkedEntityID,omitempty" db:"linked_entity_id"`
	Escalated        bool             `json:"escalated" db:"escalated"`
	EscalatedAt      *time.Time       `json:"escalatedAt,omitempty" db:"escalated_at"`
	Version          int64            `json:"version" db:"version"`
	AuditFields
}

// IsOverdue reports whether the item has a due date in the past and is still
// in a non-terminal state.
func (w WorkItem) IsOverdue(now time.Time) bool {
	return w.DueDate != nil && w.DueDate.Before(now) && !w.Status.IsTerminal()
}

// IsDueWithin reports whether the item is due between now and now+horizon.
// Overdue items are not "upcoming".
func (w WorkItem) IsDueWithin(now time.Time, horizon time.Duration) bool {
	if w.DueDate == nil || w.Status.IsTerminal() {
		return false
	}
	due := *w.DueDate
	return !due.Before(now) && !due.After(now.Add(horizon))
}

// WorkItemEvent is one entry in a work item's timeline. An entry is appended
// for every status transition in the same transaction as the update.
type WorkItemEvent struct {
	EventID    string         `json:"eventID" db:"event_id"`
	TenantID   string         `json:"tenantID" db:"tenant_id"`
	WorkItemID string         `json:"workItemID" db:"work_item_id"`
	FromStatus WorkItemStatus `json:"fromStatus" db:"from_status"`
	ToStatus   WorkItemStatus `json:"toStatus" db:"to_status"`
	ActorID    string         `json:"actorID" db:"actor_id"`
	Note       string         `json:"note" db:"note"`
	OccurredAt time.Time      `json:"occurredAt" db:"occurred_at"`
}
