package dto

import (
	"time"

	"github.com/complianceos/cos_backend/internal/core/domain"
)

// --- Engagement DTOs ---

// CreateEngagementRequest defines data for creating a compliance engagement.
type CreateEngagementRequest struct {
	Name      string  `json:"name" binding:"required,max=200"`
	Framework *string `json:"framework,omitempty" binding:"omitempty,max=100"`
}

// UpdateEngagementRequest advances the stage and/or sets progress.
// Both fields are optional; at least one must be present.
type UpdateEngagementRequest struct {
	Stage    *domain.EngagementStage `json:"stage,omitempty" binding:"omitempty,oneof=planned gap_analysis remediation audit_prep audit_active certified maintenance"`
	Progress *int                    `json:"progress,omitempty" binding:"omitempty,min=0,max=100"`
}

// EngagementResponse defines data returned for an engagement.
type EngagementResponse struct {
	EngagementID  string                 `json:"engagementID"`
	TenantID      string                 `json:"tenantID"`
	Name          string                 `json:"name"`
	Framework     *string                `json:"framework,omitempty"`
	Stage         domain.EngagementStage `json:"stage"`
	Progress      int                    `json:"progress"`
	CreatedAt     time.Time              `json:"createdAt"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
}

// ToEngagementResponse converts domain.Engagement to DTO.
func ToEngagementResponse(e *domain.Engagement) EngagementResponse {
	return EngagementResponse{
		EngagementID:  e.EngagementID,
		TenantID:      e.TenantID,
		Name:          e.Name,
		Framework:     e.Framework,
		Stage:         e.Stage,
		Progress:      e.Progress,
		CreatedAt:     e.CreatedAt,
		LastUpdatedAt: e.LastUpdatedAt,
	}
}

// ListEngagementsResponse wraps a list of engagements.
type ListEngagementsResponse struct {
	Engagements []EngagementResponse `json:"engagements"`
}

// ToListEngagementsResponse converts a slice of domain.Engagement to DTO.
func ToListEngagementsResponse(es []domain.Engagement) ListEngagementsResponse {
	list := make([]EngagementResponse, len(es))
	for i, e := range es {
		list[i] = ToEngagementResponse(&e)
	}
	return ListEngagementsResponse{Engagements: list}
}
