package scoring_test

import (
	"testing"

	"github.com/complianceos/cos_backend/internal/platform/scoring"
	"github.com/stretchr/testify/assert"
)

func TestWeightedScorer_Score(t *testing.T) {
	scorer := scoring.NewWeightedScorer()

	// 5*0.5 + 5*0.35 - 1*0.15
	assert.Equal(t, "4.1", scorer.Score(5, 5, 1).String())

	// 1*0.5 + 1*0.35 - 5*0.15
	assert.Equal(t, "0.1", scorer.Score(1, 1, 5).String())

	// High effort can drag a mid finding below a low-criticality one.
	mid := scorer.Score(3, 3, 5)
	low := scorer.Score(2, 3, 1)
	assert.True(t, low.GreaterThan(mid))
}
