package domain

// EngagementStage enumerates the ordered lifecycle of a compliance project.
type EngagementStage string

const (
	StagePlanned     EngagementStage = "planned"
	StageGapAnalysis EngagementStage = "gap_analysis"
	StageRemediation EngagementStage = "remediation"
	StageAuditPrep   EngagementStage = "audit_prep"
	StageAuditActive EngagementStage = "audit_active"
	StageCertified   EngagementStage = "certified"
	StageMaintenance EngagementStage = "maintenance"
)

var engagementStageOrder = map[EngagementStage]int{
	StagePlanned:     0,
	StageGapAnalysis: 1,
	StageRemediation: 2,
	StageAuditPrep:   3,
	StageAuditActive: 4,
	StageCertified:   5,
	StageMaintenance: 6,
}

// Valid reports whether the stage is a member of the closed enum.
func (s EngagementStage) Valid() bool {
	_, ok := engagementStageOrder[s]
	return ok
}

// Ordinal returns the position of the stage in the lifecycle, or -1 for an
// unknown stage.
func (s EngagementStage) Ordinal() int {
	if o, ok := engagementStageOrder[s]; ok {
		return o
	}
	return -1
}

// CanAdvanceTo reports whether an engagement may move from s to next. Stages
// only move forward; skipping ahead is allowed, moving back is not.
func (s EngagementStage) CanAdvanceTo(next EngagementStage) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.Ordinal() > s.Ordinal()
}

// Engagement is a compliance project scoped to a tenant, with an ordered
// stage and a 0-100 progress value.
type Engagement struct {
	EngagementID string          `json:"engagementID" db:"engagement_id"`
	TenantID     string          `json:"tenantID" db:"tenant_id"`
	Name         string          `json:"name" db:"name"`
	Framework    *string         `json:"framework,omitempty" db:"framework"`
	Stage        EngagementStage `json:"stage" db:"stage"`
	Progress     int             `json:"progress" db:"progress"`
	AuditFields
}
