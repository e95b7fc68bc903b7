package domain_test

import (
	"testing"

	"github.com/complianceos/cos_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestEngagementStage_CanAdvanceTo(t *testing.T) {
	// Forward moves are allowed, skipping included.
	assert.True(t, domain.StagePlanned.CanAdvanceTo(domain.StageGapAnalysis))
	assert.True(t, domain.StagePlanned.CanAdvanceTo(domain.StageCertified))
	assert.True(t, domain.StageAuditActive.CanAdvanceTo(domain.StageMaintenance))

	// Backward and same-stage moves are not.
	assert.False(t, domain.StageRemediation.CanAdvanceTo(domain.StageGapAnalysis))
	assert.False(t, domain.StageCertified.CanAdvanceTo(domain.StageCertified))
	assert.False(t, domain.StageMaintenance.CanAdvanceTo(domain.StagePlanned))

	// Unknown stages never advance.
	assert.False(t, domain.EngagementStage("bogus").CanAdvanceTo(domain.StageCertified))
	assert.False(t, domain.StagePlanned.CanAdvanceTo(domain.EngagementStage("bogus")))
}

func TestGapStatus_Open(t *testing.T) {
	assert.True(t, domain.GapNotImplemented.Open())
	assert.True(t, domain.GapInProgress.Open())
	assert.False(t, domain.GapImplemented.Open())
	assert.False(t, domain.GapNotApplicable.Open())
}

func TestNewCoverage(t *testing.T) {
	cov := domain.NewCoverage(domain.ItemKindControl, 2, 5)
	assert.Equal(t, int64(2), cov.AssignedCount)
	assert.Equal(t, int64(5), cov.TotalCount)
	assert.Equal(t, "40", cov.Percent.String())

	// No items at all means 0%, not a division error.
	empty := domain.NewCoverage(domain.ItemKindPolicy, 0, 0)
	assert.True(t, empty.Percent.IsZero())
}
