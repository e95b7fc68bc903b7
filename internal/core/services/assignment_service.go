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
	"github.com/google/uuid"
)

// assignmentService implements the AssignmentSvcFacade interface.
type assignmentService struct {
	BaseService
	assignmentRepo portsrepo.AssignmentRepositoryFacade
	moduleGate     portssvc.ModuleGateSvc
	aggregator     portssvc.AggregatorSvcFacade
}

// NewAssignmentService creates a new assignment service with the provided
// dependencies.
func NewAssignmentService(
	assignmentRepo portsrepo.AssignmentRepositoryFacade,
	tenantSvc portssvc.TenantSvcFacade,
	aggregator portssvc.AggregatorSvcFacade,
) portssvc.AssignmentSvcFacade {
	return &assignmentService{
		BaseService:    BaseService{TenantAuthorizer: tenantSvc},
		assignmentRepo: assignmentRepo,
		moduleGate:     tenantSvc,
		aggregator:     aggregator,
	}
}

var _ portssvc.AssignmentSvcFacade = (*assignmentService)(nil)

// CreateGovernanceItem catalogs a governed item for the tenant.
func (s *assignmentService) CreateGovernanceItem(ctx context.Context, tenantID string, req dto.CreateGovernanceItemRequest, creatorUserID string) (*domain.GovernanceItem, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, tenantID, domain.TenantRoleOperator); err != nil {
		return nil, err
	}
	if err := s.moduleGate.EnsureModuleEnabled(ctx, tenantID, domain.ModuleGovernance); err != nil {
		return nil, err
	}
	if !req.Kind.Valid() {
		return nil, apperrors.NewValidationFailedError("unknown item kind: " + string(req.Kind))
	}

	now := time.Now()
	item := domain.GovernanceItem{
		ItemID:   uuid.NewString(),
		TenantID: tenantID,
		Kind:     req.Kind,
		Name:     req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.assignmentRepo.SaveGovernanceItem(ctx, item); err != nil {
		s.LogError(ctx, err, "Failed to save governance item", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.aggregator.InvalidateTenant(ctx, tenantID)
	s.LogInfo(ctx, "Governance item cataloged",
		slog.String("item_id", item.ItemID),
		slog.String("kind", string(item.Kind)))
	return &item, nil
}

// ListGovernanceItems lists the tenant's governed items, optionally by kind.
func (s *assignmentService) ListGovernanceItems(ctx context.Context, tenantID, userID string, kind *domain.ItemKind) ([]domain.GovernanceItem, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}
	items, err := s.assignmentRepo.ListGovernanceItems(ctx, tenantID, kind)
	if err != nil {
		s.LogError(ctx, err, "Failed to list governance items", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if items == nil {
		return []domain.GovernanceItem{}, nil
	}
	return items, nil
}

// UpsertAssignment assigns a person to an item with a RACI role. A second
// Accountable assignee for the same item fails with ErrConflict.
func (s *assignmentService) UpsertAssignment(ctx context.Context, tenantID string, req dto.UpsertAssignmentRequest, actorUserID string) (*domain.Assignment, error) {
	if err := s.AuthorizeUser(ctx, actorUserID, tenantID, domain.TenantRoleOperator); err != nil {
		return nil, err
	}
	if err := s.moduleGate.EnsureModuleEnabled(ctx, tenantID, domain.ModuleGovernance); err != nil {
		return nil, err
	}
	if !req.Role.Valid() {
		return nil, apperrors.NewValidationFailedError("unknown RACI role: " + string(req.Role))
	}

	// Assignments target cataloged items only.
	if _, err := s.assignmentRepo.FindGovernanceItemByID(ctx, tenantID, req.ItemID); err != nil {
		return nil, err
	}

	if req.Role == domain.RACIAccountable {
		existing, err := s.assignmentRepo.FindAccountableAssignment(ctx, tenantID, req.ItemKind, req.ItemID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to check accountable assignment",
				slog.String("item_id", req.ItemID))
			return nil, err
		}
		if existing != nil && existing.UserID != req.UserID {
			return nil, apperrors.NewConflictError("item already has an accountable assignee")
		}
	}

	now := time.Now()
	assignment := domain.Assignment{
		AssignmentID: uuid.NewString(),
		TenantID:     tenantID,
		UserID:       req.UserID,
		ItemKind:     req.ItemKind,
		ItemID:       req.ItemID,
		Role:         req.Role,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}
	stored, err := s.assignmentRepo.UpsertAssignment(ctx, assignment)
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to upsert assignment", slog.String("item_id", req.ItemID))
		}
		return nil, err
	}

	s.aggregator.InvalidateTenant(ctx, tenantID)
	s.LogInfo(ctx, "Assignment upserted",
		slog.String("assignment_id", stored.AssignmentID),
		slog.String("item_id", req.ItemID),
		slog.String("role", string(req.Role)))
	return stored, nil
}

// ListAssignments lists assignments matching the optional filters.
func (s *assignmentService) ListAssignments(ctx context.Context, tenantID, userID string, params dto.ListAssignmentsParams) ([]domain.Assignment, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}
	assignments, err := s.assignmentRepo.ListAssignments(ctx, tenantID, params.ItemKind, params.ItemID, params.UserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list assignments", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if assignments == nil {
		return []domain.Assignment{}, nil
	}
	return assignments, nil
}

// DeleteAssignment removes an assignment.
func (s *assignmentService) DeleteAssignment(ctx context.Context, tenantID, assignmentID, actorUserID string) error {
	if err := s.AuthorizeUser(ctx, actorUserID, tenantID, domain.TenantRoleOperator); err != nil {
		return err
	}
	if err := s.assignmentRepo.DeleteAssignment(ctx, tenantID, assignmentID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete assignment",
				slog.String("assignment_id", assignmentID))
		}
		return err
	}

	s.aggregator.InvalidateTenant(ctx, tenantID)
	s.LogInfo(ctx, "Assignment deleted", slog.String("assignment_id", assignmentID))
	return nil
}
