package domain

import "github.com/shopspring/decimal"

// WorkItemStats is the derived status rollup for a tenant's work queue.
type WorkItemStats struct {
	Total     int64                    `json:"total"`
	ByStatus  map[WorkItemStatus]int64 `json:"byStatus"`
	Overdue   int64                    `json:"overdue"`
	Upcoming  int64                    `json:"upcoming"`
	Escalated int64                    `json:"escalated"`
}

// Coverage is the assignment coverage of one item kind: how many governed
// items have at least one owning (Responsible/Accountable) assignee.
type Coverage struct {
	Kind          ItemKind        `json:"kind"`
	AssignedCount int64           `json:"assignedCount"`
	TotalCount    int64           `json:"totalCount"`
	Percent       decimal.Decimal `json:"percent"`
}

// NewCoverage computes the coverage percentage, returning 0% when the
// category has no items at all.
func NewCoverage(kind ItemKind, assigned, total int64) Coverage {
	cov := Coverage{Kind: kind, AssignedCount: assigned, TotalCount: total}
	if total > 0 {
		cov.Percent = decimal.NewFromInt(assigned).
			Div(decimal.NewFromInt(total)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	} else {
		cov.Percent = decimal.Zero
	}
	return cov
}

// RankedGapResponse pairs a gap response with its remediation score.
type RankedGapResponse struct {
	Response GapResponse     `json:"response"`
	Score    decimal.Decimal `json:"score"`
}

// CoverageReport is the combined read-only payload handed to downstream
// document generation.
type CoverageReport struct {
	TenantID        string          `json:"tenantID"`
	Stats           WorkItemStats   `json:"stats"`
	Coverage        []Coverage      `json:"coverage"`
	ComplianceScore decimal.Decimal `json:"complianceScore"`
}
