package dto

import (
	"time"

	"github.com/complianceos/cos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Gap analysis DTOs ---

// UpsertGapResponseRequest records the current status of one control under
// an assessment.
type UpsertGapResponseRequest struct {
	ControlID   string           `json:"controlID" binding:"required"`
	Status      domain.GapStatus `json:"status" binding:"required,oneof=not_implemented in_progress implemented not_applicable"`
	Criticality int              `json:"criticality" binding:"required,min=1,max=5"`
	Exposure    int              `json:"exposure" binding:"required,min=1,max=5"`
	Effort      int              `json:"effort" binding:"required,min=1,max=5"`
	Notes       string           `json:"notes" binding:"max=1000"`
}

// PromoteGapRequest promotes a gap finding into a tracked risk or a
// remediation task.
type PromoteGapRequest struct {
	Target string `json:"target" binding:"required,oneof=risk task"`
}

// GapResponseDTO defines data returned for a gap response.
type GapResponseDTO struct {
	ResponseID   string           `json:"responseID"`
	AssessmentID string           `json:"assessmentID"`
	ControlID    string           `json:"controlID"`
	Status       domain.GapStatus `json:"status"`
	Criticality  int              `json:"criticality"`
	Exposure     int              `json:"exposure"`
	Effort       int              `json:"effort"`
	Notes        string           `json:"notes,omitempty"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// ToGapResponseDTO converts domain.GapResponse to DTO.
func ToGapResponseDTO(g *domain.GapResponse) GapResponseDTO {
	return GapResponseDTO{
		ResponseID:   g.ResponseID,
		AssessmentID: g.AssessmentID,
		ControlID:    g.ControlID,
		Status:       g.Status,
		Criticality:  g.Criticality,
		Exposure:     g.Exposure,
		Effort:       g.Effort,
		Notes:        g.Notes,
		UpdatedAt:    g.LastUpdatedAt,
	}
}

// RankedGapResponseDTO pairs a gap response with its remediation score.
type RankedGapResponseDTO struct {
	GapResponseDTO
	Score decimal.Decimal `json:"score"`
}

// PrioritizedGapsResponse is the ranked remediation queue of an assessment.
type PrioritizedGapsResponse struct {
	AssessmentID string                 `json:"assessmentID"`
	Responses    []RankedGapResponseDTO `json:"responses"`
}

// ToPrioritizedGapsResponse converts ranked domain results to DTO.
func ToPrioritizedGapsResponse(assessmentID string, ranked []domain.RankedGapResponse) PrioritizedGapsResponse {
	list := make([]RankedGapResponseDTO, len(ranked))
	for i, r := range ranked {
		list[i] = RankedGapResponseDTO{
			GapResponseDTO: ToGapResponseDTO(&r.Response),
			Score:          r.Score,
		}
	}
	return PrioritizedGapsResponse{AssessmentID: assessmentID, Responses: list}
}

// PromoteGapResponseResult returns the reference created by promotion.
type PromoteGapResponseResult struct {
	Target      string `json:"target"`
	ReferenceID string `json:"referenceID"`
}
