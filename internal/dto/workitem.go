package dto

import (
	"time"

	"github.com/complianceos/cos_backend/internal/core/domain"
)

// --- Work Item DTOs ---

// CreateWorkItemRequest defines data for creating a new work item.
// Status is server-assigned (always pending); clients cannot choose it.
type CreateWorkItemRequest struct {
	Type             domain.WorkItemType     `json:"type" binding:"required,oneof=review approval evidence_collection raci_assignment risk_treatment vendor_assessment bcp_approval policy_review control_implementation"`
	Title            string                  `json:"title" binding:"required,max=200"`
	Priority         domain.WorkItemPriority `json:"priority" binding:"required,oneof=low medium high critical"`
	DueDate          *time.Time              `json:"dueDate,omitempty"`
	AssigneeID       *string                 `json:"assigneeID,omitempty"`
	LinkedEntityKind *string                 `json:"linkedEntityKind,omitempty"`
	LinkedEntityID   *string                 `json:"linkedEntityID,omitempty"`
}

// UpdateWorkItemStatusRequest defines data for a status transition.
type UpdateWorkItemStatusRequest struct {
	Status domain.WorkItemStatus `json:"status" binding:"required,oneof=pending in_progress completed cancelled escalated"`
	Note   string                `json:"note" binding:"max=500"`
}

// EscalateWorkItemRequest carries the reason for an externally triggered
// escalation (SLA breach, overdue rule).
type EscalateWorkItemRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// RespondToEscalationRequest selects the escalation response action.
type RespondToEscalationRequest struct {
	Action domain.EscalationAction `json:"action" binding:"required,oneof=acknowledge resolve"`
}

// ListWorkItemsParams captures list filters; all filters combine with AND.
type ListWorkItemsParams struct {
	Status       []domain.WorkItemStatus   `form:"status"`
	Type         []domain.WorkItemType     `form:"type"`
	Priority     []domain.WorkItemPriority `form:"priority"`
	AssigneeID   *string                   `form:"assigneeID"`
	AssignedToMe bool                      `form:"assignedToMe"`
	DueAfter     *time.Time                `form:"dueAfter" time_format:"2006-01-02"`
	DueBefore    *time.Time                `form:"dueBefore" time_format:"2006-01-02"`
	Escalated    *bool                     `form:"escalated"`
	Limit        int                       `form:"limit,default=25" binding:"omitempty,min=1,max=100"`
	Offset       int                       `form:"offset,default=0" binding:"omitempty,min=0"`
}

// WorkItemResponse defines data returned for a work item.
type WorkItemResponse struct {
	WorkItemID       string                  `json:"workItemID"`
	TenantID         string                  `json:"tenantID"`
	Type             domain.WorkItemType     `json:"type"`
	Title            string                  `json:"title"`
	Status           domain.WorkItemStatus   `json:"status"`
	Priority         domain.WorkItemPriority `json:"priority"`
	DueDate          *time.Time              `json:"dueDate,omitempty"`
	AssigneeID       *string                 `json:"assigneeID,omitempty"`
	LinkedEntityKind *string                 `json:"linkedEntityKind,omitempty"`
	LinkedEntityID   *string                 `json:"linkedEntityID,omitempty"`
	Escalated        bool                    `json:"escalated"`
	EscalatedAt      *time.Time              `json:"escalatedAt,omitempty"`
	Version          int64                   `json:"version"`
	CreatedAt        time.Time               `json:"createdAt"`
	CreatedBy        string                  `json:"createdBy"`
	LastUpdatedAt    time.Time               `json:"lastUpdatedAt"`
	LastUpdatedBy    string                  `json:"lastUpdatedBy"`
}

// ToWorkItemResponse converts domain.WorkItem to DTO.
func ToWorkItemResponse(w *domain.WorkItem) WorkItemResponse {
	return WorkItemResponse{
		WorkItemID:       w.WorkItemID,
		TenantID:         w.TenantID,
		Type:             w.Type,
		Title:            w.Title,
		Status:           w.Status,
		Priority:         w.Priority,
		DueDate:          w.DueDate,
		AssigneeID:       w.AssigneeID,
		LinkedEntityKind: w.LinkedEntityKind,
		LinkedEntityID:   w.LinkedEntityID,
		Escalated:        w.Escalated,
		EscalatedAt:      w.EscalatedAt,
		Version:          w.Version,
		CreatedAt:        w.CreatedAt,
		CreatedBy:        w.CreatedBy,
		LastUpdatedAt:    w.LastUpdatedAt,
		LastUpdatedBy:    w.LastUpdatedBy,
	}
}

// ListWorkItemsResponse wraps a page of work items with the total match count.
type ListWorkItemsResponse struct {
	WorkItems []WorkItemResponse `json:"workItems"`
	Total     int64              `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// ToListWorkItemsResponse converts a page of domain.WorkItem to DTO.
func ToListWorkItemsResponse(items []domain.WorkItem, total int64, limit, offset int) ListWorkItemsResponse {
	list := make([]WorkItemResponse, len(items))
	for i, w := range items {
		list[i] = ToWorkItemResponse(&w)
	}
	return ListWorkItemsResponse{WorkItems: list, Total: total, Limit: limit, Offset: offset}
}

// ListWorkItemEventsParams captures keyset pagination over a timeline.
type ListWorkItemEventsParams struct {
	Limit     int    `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	NextToken string `form:"nextToken"`
}

// WorkItemEventResponse defines data returned for one timeline entry.
type WorkItemEventResponse struct {
	EventID    string                `json:"eventID"`
	WorkItemID string                `json:"workItemID"`
	FromStatus domain.WorkItemStatus `json:"fromStatus"`
	ToStatus   domain.WorkItemStatus `json:"toStatus"`
	ActorID    string                `json:"actorID"`
	Note       string                `json:"note,omitempty"`
	OccurredAt time.Time             `json:"occurredAt"`
}

// ToWorkItemEventResponse converts domain.WorkItemEvent to DTO.
func ToWorkItemEventResponse(e *domain.WorkItemEvent) WorkItemEventResponse {
	return WorkItemEventResponse{
		EventID:    e.EventID,
		WorkItemID: e.WorkItemID,
		FromStatus: e.FromStatus,
		ToStatus:   e.ToStatus,
		ActorID:    e.ActorID,
		Note:       e.Note,
		OccurredAt: e.OccurredAt,
	}
}

// ListWorkItemEventsResponse wraps a timeline page with an optional
// continuation token.
type ListWorkItemEventsResponse struct {
	Events    []WorkItemEventResponse `json:"events"`
	NextToken string                  `json:"nextToken,omitempty"`
}
