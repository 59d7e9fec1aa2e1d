// Package confidence computes and propagates ConfidenceScore values
// through every downstream layer, per spec.md §4.6. Grounded on the
// teacher's ScorecardBuilder weighted-average pattern for the aggregate
// weighted-mean step.
package confidence

import (
	"math"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

const (
	decayStartDays = 30.0
	decayEndDays   = 90.0
)

// Freshness computes the piecewise sigmoid decay in [0,1] for an item whose
// timestamp is asOf, evaluated at now. A nil timestamp is missing data and
// decays to 0.0.
func Freshness(asOf *time.Time, now time.Time) float64 {
	if asOf == nil {
		return 0.0
	}
	ageDays := now.Sub(*asOf).Hours() / 24.0
	switch {
	case ageDays <= decayStartDays:
		return 1.0
	case ageDays >= decayEndDays:
		return 0.3
	default:
		mid := (decayStartDays + decayEndDays) / 2
		steepness := 10.0 / (decayEndDays - decayStartDays)
		sigmoid := 1.0 / (1.0 + math.Exp(steepness*(ageDays-mid)))
		return 0.3 + sigmoid*0.7
	}
}

// CrossRefBonus maps a source count to the multiplier spec.md §4.6
// prescribes: 1.0 for one source, 1.05 for two, 1.10 for three or more.
func CrossRefBonus(sourceCount int) float64 {
	switch {
	case sourceCount >= 3:
		return 1.10
	case sourceCount == 2:
		return 1.05
	default:
		return 1.0
	}
}

// Score computes the final ConfidenceScore for a given tier, timestamp,
// cross-reference count, and source label. final is always clamped to
// [0,1]; T6 items always resolve to 0.0 since their base tier score is 0.
func Score(tier model.Tier, asOf *time.Time, now time.Time, sourceCount int, source string) model.ConfidenceScore {
	base := model.BaseTierScore[tier]
	freshness := Freshness(asOf, now)
	bonus := CrossRefBonus(sourceCount)

	final := base * freshness * bonus
	if final < 0 {
		final = 0
	}
	if final > 1 {
		final = 1
	}

	return model.ConfidenceScore{
		Tier:          tier,
		Freshness:     freshness,
		CrossRefBonus: bonus,
		Final:         final,
		Source:        source,
		AsOf:          now,
	}
}

// Min returns the lowest-confidence score among scores, per spec.md §4.6's
// propagation rule that monitor/decision outputs inherit the minimum
// confidence of the data they tested. Panics on an empty slice, since every
// caller of Min has at least one input factor by construction.
func Min(scores ...model.ConfidenceScore) model.ConfidenceScore {
	min := scores[0]
	for _, s := range scores[1:] {
		if s.Final < min.Final {
			min = s
		}
	}
	return min
}

// WeightedMean aggregates section scores using the weights spec.md §4.9
// assigns to a packet's confidence_summary (identity 0.10, congressional
// 0.15, awards 0.30, hazards 0.30, economic 0.15), generalized here to any
// name→weight map so other aggregations can reuse it.
func WeightedMean(scores map[string]model.ConfidenceScore, weights map[string]float64) float64 {
	var weightedSum, totalWeight float64
	for name, score := range scores {
		w := weights[name]
		weightedSum += score.Final * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}
