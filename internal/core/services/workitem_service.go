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
	"github.com/complianceos/cos_backend/internal/platform/metrics"
	"github.com/complianceos/cos_backend/internal/utils/pagination"
	"github.com/google/uuid"
)

// workItemService implements the WorkItemSvcFacade interface. It is the only
// write path into the work item store.
type workItemService struct {
	BaseService
	workItemRepo portsrepo.WorkItemRepositoryFacade
	moduleGate   portssvc.ModuleGateSvc
	aggregator   portssvc.AggregatorSvcFacade
	notifier     portssvc.Notifier
	metrics      *metrics.Metrics
}

// NewWorkItemService creates a new work item service with the provided
// dependencies.
func NewWorkItemService(
	workItemRepo portsrepo.WorkItemRepositoryFacade,
	tenantSvc portssvc.TenantSvcFacade,
	aggregator portssvc.AggregatorSvcFacade,
	notifier portssvc.Notifier,
	m *metrics.Metrics,
) portssvc.WorkItemSvcFacade {
	return &workItemService{
		BaseService:  BaseService{TenantAuthorizer: tenantSvc},
		workItemRepo: workItemRepo,
		moduleGate:   tenantSvc,
		aggregator:   aggregator,
		notifier:     notifier,
		metrics:      m,
	}
}

var _ portssvc.WorkItemSvcFacade = (*workItemService)(nil)

// CreateWorkItem creates a work item in status pending. The module gating
// the item's type must be enabled before the store is touched.
func (s *workItemService) CreateWorkItem(ctx context.Context, tenantID string, req dto.CreateWorkItemRequest, creatorUserID string) (*domain.WorkItem, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, tenantID, domain.TenantRoleOperator); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, apperrors.NewValidationFailedError("unknown work item type: " + string(req.Type))
	}
	if err := s.moduleGate.EnsureModuleEnabled(ctx, tenantID, req.Type.Module()); err != nil {
		return nil, err
	}

	now := time.Now()
	item := domain.WorkItem{
		WorkItemID:       uuid.NewString(),
		TenantID:         tenantID,
		Type:             req.Type,
		Title:            req.Title,
		Status:           domain.StatusPending,
		Priority:         req.Priority,
		DueDate:          req.DueDate,
		AssigneeID:       req.AssigneeID,
		LinkedEntityKind: req.LinkedEntityKind,
		LinkedEntityID:   req.LinkedEntityID,
		Version:          1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.workItemRepo.SaveWorkItem(ctx, item); err != nil {
		s.LogError(ctx, err, "Failed to save work item", slog.String("work_item_id", item.WorkItemID))
		return nil, err
	}

	s.metrics.IncWorkItemsCreated(string(item.Type))
	s.aggregator.InvalidateTenant(ctx, tenantID)
	s.LogInfo(ctx, "Work item created",
		slog.String("work_item_id", item.WorkItemID),
		slog.String("tenant_id", tenantID),
		slog.String("type", string(item.Type)))
	return &item, nil
}

// GetWorkItem retrieves a work item. A tenant mismatch surfaces as NotFound
// so callers cannot infer the existence of other tenants' items.
func (s *workItemService) GetWorkItem(ctx context.Context, tenantID, workItemID, userID string) (*domain.WorkItem, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}
	item, err := s.workItemRepo.FindWorkItemByID(ctx, tenantID, workItemID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find work item", slog.String("work_item_id", workItemID))
		}
		return nil, err
	}
	return item, nil
}

// ListWorkItems returns a filtered page plus the total match count. Filters
// combine with AND semantics.
func (s *workItemService) ListWorkItems(ctx context.Context, tenantID, userID string, params dto.ListWorkItemsParams) (*dto.ListWorkItemsResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}

	filters := portsrepo.WorkItemFilters{
		Statuses:   params.Status,
		Types:      params.Type,
		Priorities: params.Priority,
		AssigneeID: params.AssigneeID,
		DueAfter:   params.DueAfter,
		DueBefore:  params.DueBefore,
		Escalated:  params.Escalated,
	}
	if params.AssignedToMe {
		if userID == "" {
			return nil, apperrors.NewValidationFailedError("assignedToMe requires an authenticated caller")
		}
		filters.AssigneeID = &userID
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 25
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.workItemRepo.ListWorkItems(ctx, tenantID, filters, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list work items", slog.String("tenant_id", tenantID))
		return nil, err
	}

	resp := dto.ToListWorkItemsResponse(items, total, limit, offset)
	return &resp, nil
}

// UpdateWorkItemStatus applies a status transition, appending a timeline
// event in the same transaction as the write.
func (s *workItemService) UpdateWorkItemStatus(ctx context.Context, tenantID, workItemID string, req dto.UpdateWorkItemStatusRequest, userID string) (*domain.WorkItem, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleOperator); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, apperrors.NewValidationFailedError("unknown status: " + string(req.Status))
	}

	item, err := s.workItemRepo.FindWorkItemByID(ctx, tenantID, workItemID)
	if err != nil {
		return nil, err
	}

	if !item.Status.CanTransitionTo(req.Status) {
		return nil, apperrors.NewInvalidTransitionError(
			"cannot transition work item from " + string(item.Status) + " to " + string(req.Status))
	}

	now := time.Now()
	from := item.Status
	item.Status = req.Status
	if req.Status == domain.StatusEscalated {
		item.Escalated = true
		item.EscalatedAt = &now
	}
	item.LastUpdatedAt = now
	item.LastUpdatedBy = userID

	event := domain.WorkItemEvent{
		EventID:    uuid.NewString(),
		TenantID:   tenantID,
		WorkItemID: workItemID,
		FromStatus: from,
		ToStatus:   req.Status,
		ActorID:    userID,
		Note:       req.Note,
		OccurredAt: now,
	}

	if err := s.workItemRepo.UpdateWorkItem(ctx, *item, event); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update work item status",
				slog.String("work_item_id", workItemID))
		}
		return nil, err
	}
	item.Version++

	s.metrics.IncStatusTransitions(string(req.Status))
	s.aggregator.InvalidateTenant(ctx, tenantID)
	s.notify(ctx, "work_item.status_changed", item.CreatedBy, map[string]any{
		"workItemID": workItemID,
		"tenantID":   tenantID,
		"from":       string(from),
		"to":         string(req.Status),
	})

	s.LogInfo(ctx, "Work item status updated",
		slog.String("work_item_id", workItemID),
		slog.String("from", string(from)),
		slog.String("to", string(req.Status)))
	return item, nil
}

// EscalateWorkItem moves a non-terminal item to escalated and opens an
// escalation episode, in one transaction.
func (s *workItemService) EscalateWorkItem(ctx context.Context, tenantID, workItemID string, req dto.EscalateWorkItemRequest, actorUserID string) (*domain.WorkItem, error) {
	if err := s.AuthorizeUser(ctx, actorUserID, tenantID, domain.TenantRoleOperator); err != nil {
		return nil, err
	}

	item, err := s.workItemRepo.FindWorkItemByID(ctx, tenantID, workItemID)
	if err != nil {
		return nil, err
	}
	if item.Status.IsTerminal() {
		return nil, apperrors.NewInvalidTransitionError(
			"cannot escalate a " + string(item.Status) + " work item")
	}
	if item.Status == domain.StatusEscalated {
		return nil, apperrors.NewInvalidTransitionError("work item is already escalated")
	}

	now := time.Now()
	from := item.Status
	item.Status = domain.StatusEscalated
	item.Escalated = true
	item.EscalatedAt = &now
	item.LastUpdatedAt = now
	item.LastUpdatedBy = actorUserID

	event := domain.WorkItemEvent{
		EventID:    uuid.NewString(),
		TenantID:   tenantID,
		WorkItemID: workItemID,
		FromStatus: from,
		ToStatus:   domain.StatusEscalated,
		ActorID:    actorUserID,
		Note:       req.Reason,
		OccurredAt: now,
	}
	episode := domain.EscalationEvent{
		EscalationID: uuid.NewString(),
		TenantID:     tenantID,
		WorkItemID:   workItemID,
		ActorID:      actorUserID,
		Reason:       req.Reason,
		EscalatedAt:  now,
	}

	if err := s.workItemRepo.EscalateWorkItem(ctx, *item, event, episode); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to escalate work item", slog.String("work_item_id", workItemID))
		}
		return nil, err
	}
	item.Version++

	s.metrics.IncEscalations()
	s.aggregator.InvalidateTenant(ctx, tenantID)
	s.notify(ctx, "work_item.escalated", item.CreatedBy, map[string]any{
		"workItemID": workItemID,
		"tenantID":   tenantID,
		"reason":     req.Reason,
	})

	s.LogInfo(ctx, "Work item escalated",
		slog.String("work_item_id", workItemID),
		slog.String("tenant_id", tenantID))
	return item, nil
}

// RespondToEscalation acknowledges or resolves the open escalation episode.
// Acknowledging an already-acknowledged episode is a no-op, not an error.
func (s *workItemService) RespondToEscalation(ctx context.Context, tenantID, workItemID string, action domain.EscalationAction, userID string) (*domain.WorkItem, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleOperator); err != nil {
		return nil, err
	}
	if !action.Valid() {
		return nil, apperrors.NewValidationFailedError("unknown escalation action: " + string(action))
	}

	item, err := s.workItemRepo.FindWorkItemByID(ctx, tenantID, workItemID)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.StatusEscalated {
		return nil, apperrors.NewInvalidTransitionError("work item is not escalated")
	}

	episode, err := s.workItemRepo.FindOpenEscalation(ctx, tenantID, workItemID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch action {
	case domain.EscalationAcknowledge:
		if episode.Acknowledged() {
			// Idempotent: a second acknowledge changes nothing.
			return item, nil
		}
		if err := s.workItemRepo.AcknowledgeEscalation(ctx, tenantID, episode.EscalationID, userID, now); err != nil {
			s.LogError(ctx, err, "Failed to acknowledge escalation",
				slog.String("work_item_id", workItemID))
			return nil, err
		}
		s.LogInfo(ctx, "Escalation acknowledged", slog.String("work_item_id", workItemID))
		return item, nil

	case domain.EscalationResolve:
		item.Status = domain.StatusCompleted
		item.Escalated = false
		item.LastUpdatedAt = now
		item.LastUpdatedBy = userID

		event := domain.WorkItemEvent{
			EventID:    uuid.NewString(),
			TenantID:   tenantID,
			WorkItemID: workItemID,
			FromStatus: domain.StatusEscalated,
			ToStatus:   domain.StatusCompleted,
			ActorID:    userID,
			Note:       "escalation resolved",
			OccurredAt: now,
		}
		if err := s.workItemRepo.ResolveEscalation(ctx, *item, event, episode.EscalationID, userID, now); err != nil {
			if !errors.Is(err, apperrors.ErrConflict) {
				s.LogError(ctx, err, "Failed to resolve escalation",
					slog.String("work_item_id", workItemID))
			}
			return nil, err
		}
		item.Version++

		s.metrics.IncEscalationsResolved()
		s.aggregator.InvalidateTenant(ctx, tenantID)
		s.notify(ctx, "work_item.escalation_resolved", item.CreatedBy, map[string]any{
			"workItemID": workItemID,
			"tenantID":   tenantID,
		})
		s.LogInfo(ctx, "Escalation resolved", slog.String("work_item_id", workItemID))
		return item, nil
	}

	return nil, apperrors.NewValidationFailedError("unknown escalation action: " + string(action))
}

// ListWorkItemEvents returns the item's timeline newest-first with keyset
// pagination.
func (s *workItemService) ListWorkItemEvents(ctx context.Context, tenantID, workItemID, userID string, params dto.ListWorkItemEventsParams) (*dto.ListWorkItemEventsResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}
	// Confirm the item exists under this tenant before listing its timeline.
	if _, err := s.workItemRepo.FindWorkItemByID(ctx, tenantID, workItemID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	var before *portsrepo.EventCursor
	if params.NextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(params.NextToken)
		if err != nil || len(fields) != 2 {
			return nil, apperrors.NewValidationFailedError("invalid pagination token")
		}
		ts, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, apperrors.NewValidationFailedError("invalid pagination token")
		}
		before = &portsrepo.EventCursor{OccurredAt: ts, EventID: fields[1]}
	}

	events, err := s.workItemRepo.ListWorkItemEvents(ctx, tenantID, workItemID, before, limit+1)
	if err != nil {
		s.LogError(ctx, err, "Failed to list work item events",
			slog.String("work_item_id", workItemID))
		return nil, err
	}

	resp := &dto.ListWorkItemEventsResponse{}
	if len(events) > limit {
		events = events[:limit]
		last := events[len(events)-1]
		resp.NextToken = pagination.EncodeMultiFieldToken(
			last.OccurredAt.Format(time.RFC3339Nano), last.EventID)
	}
	resp.Events = make([]dto.WorkItemEventResponse, len(events))
	for i, e := range events {
		resp.Events[i] = dto.ToWorkItemEventResponse(&e)
	}
	return resp, nil
}

// notify dispatches a fire-and-forget notification. Failures are logged and
// never abort the primary mutation.
func (s *workItemService) notify(ctx context.Context, event, recipient string, payload map[string]any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event, recipient, payload); err != nil {
		s.metrics.IncNotificationFailures()
		s.LogWarn(ctx, "Notification dispatch failed",
			slog.String("event", event),
			slog.String("error", err.Error()))
	}
}
