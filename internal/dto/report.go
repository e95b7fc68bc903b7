package dto

import (
	"github.com/complianceos/cos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Aggregate / report DTOs ---

// StatsResponse is the derived work-queue rollup for a tenant.
type StatsResponse struct {
	TenantID  string                          `json:"tenantID"`
	Total     int64                           `json:"total"`
	ByStatus  map[domain.WorkItemStatus]int64 `json:"byStatus"`
	Overdue   int64                           `json:"overdue"`
	Upcoming  int64                           `json:"upcoming"`
	Escalated int64                           `json:"escalated"`
}

// ToStatsResponse converts domain.WorkItemStats to DTO.
func ToStatsResponse(tenantID string, s *domain.WorkItemStats) StatsResponse {
	return StatsResponse{
		TenantID:  tenantID,
		Total:     s.Total,
		ByStatus:  s.ByStatus,
		Overdue:   s.Overdue,
		Upcoming:  s.Upcoming,
		Escalated: s.Escalated,
	}
}

// CoverageResponse is the assignment coverage of one item kind.
type CoverageResponse struct {
	Kind          domain.ItemKind `json:"kind"`
	AssignedCount int64           `json:"assignedCount"`
	TotalCount    int64           `json:"totalCount"`
	Percent       decimal.Decimal `json:"percent"`
}

// ToCoverageResponse converts domain.Coverage to DTO.
func ToCoverageResponse(c *domain.Coverage) CoverageResponse {
	return CoverageResponse{
		Kind:          c.Kind,
		AssignedCount: c.AssignedCount,
		TotalCount:    c.TotalCount,
		Percent:       c.Percent,
	}
}

// ComplianceScoreResponse is the tenant's engagement-progress average.
type ComplianceScoreResponse struct {
	TenantID string          `json:"tenantID"`
	Score    decimal.Decimal `json:"score"`
}

// CoverageReportResponse is the combined payload handed to downstream
// document generation.
type CoverageReportResponse struct {
	TenantID        string             `json:"tenantID"`
	Stats           StatsResponse      `json:"stats"`
	Coverage        []CoverageResponse `json:"coverage"`
	ComplianceScore decimal.Decimal    `json:"complianceScore"`
}

// ToCoverageReportResponse converts domain.CoverageReport to DTO.
func ToCoverageReportResponse(r *domain.CoverageReport) CoverageReportResponse {
	cov := make([]CoverageResponse, len(r.Coverage))
	for i, c := range r.Coverage {
		cov[i] = ToCoverageResponse(&c)
	}
	return CoverageReportResponse{
		TenantID:        r.TenantID,
		Stats:           ToStatsResponse(r.TenantID, &r.Stats),
		Coverage:        cov,
		ComplianceScore: r.ComplianceScore,
	}
}
