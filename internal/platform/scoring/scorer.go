package scoring

import (
	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// Weight constants of the default remediation scorer. Criticality dominates,
// exposure amplifies, effort discounts.
var (
	criticalityWeight = decimal.RequireFromString("0.5")
	exposureWeight    = decimal.RequireFromString("0.35")
	effortWeight      = decimal.RequireFromString("0.15")
)

// WeightedScorer is the default remediation scorer:
// score = criticality*0.5 + exposure*0.35 - effort*0.15.
type WeightedScorer struct{}

// NewWeightedScorer creates the default scorer.
func NewWeightedScorer() WeightedScorer {
	return WeightedScorer{}
}

var _ portssvc.GapScorer = WeightedScorer{}

// Score computes the weighted remediation score from 1-5 inputs.
func (WeightedScorer) Score(criticality, exposure, effort int) decimal.Decimal {
	return decimal.NewFromInt(int64(criticality)).Mul(criticalityWeight).
		Add(decimal.NewFromInt(int64(exposure)).Mul(exposureWeight)).
		Sub(decimal.NewFromInt(int64(effort)).Mul(effortWeight))
}
