package domain

// GapStatus enumerates per-control implementation states in a gap analysis.
type GapStatus string

const (
	GapNotImplemented GapStatus = "not_implemented"
	GapInProgress     GapStatus = "in_progress"
	GapImplemented    GapStatus = "implemented"
	GapNotApplicable  GapStatus = "not_applicable"
)

// Valid reports whether the status is a member of the closed enum.
func (s GapStatus) Valid() bool {
	switch s {
	case GapNotImplemented, GapInProgress, GapImplemented, GapNotApplicable:
		return true
	}
	return false
}

// Open reports whether the response still represents outstanding work and
// therefore participates in remediation prioritization.
func (s GapStatus) Open() bool {
	return s == GapNotImplemented || s == GapInProgress
}

// GapResponse is the per-control current-status record of an assessment.
// Criticality, exposure and effort are 1-5 inputs to the remediation scorer.
type GapResponse struct {
	ResponseID   string    `json:"responseID" db:"response_id"`
	TenantID     string    `json:"tenantID" db:"tenant_id"`
	AssessmentID string    `json:"assessmentID" db:"assessment_id"`
	ControlID    string    `json:"controlID" db:"control_id"`
	Status       GapStatus `json:"status" db:"status"`
	Criticality  int       `json:"criticality" db:"criticality"`
	Exposure     int       `json:"exposure" db:"exposure"`
	Effort       int       `json:"effort" db:"effort"`
	Notes        string    `json:"notes" db:"notes"`
	AuditFields
}
