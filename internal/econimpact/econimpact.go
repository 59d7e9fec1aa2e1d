// Package econimpact computes a stateless per-Tribe economic-impact record
// from cached award data: a benefit-cost-ratio framing, a spending/jobs
// multiplier, and a per-district breakdown. Grounded on the teacher's
// confidence.ConfidenceScore propagation pattern for the explicit-zero/T6
// degradation path when award inputs are missing.
package econimpact

import (
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// BCRMultiplier is the benefit-cost-ratio framing factor spec.md §4.9
// specifies: "$X at 4:1 = $4X".
const BCRMultiplier = 4.0

// SpendingMultiplier and JobsPerMillion approximate a standard
// regional-economic multiplier for federal Tribal program spending; they are
// deliberately conservative, documented constants rather than a fitted
// model, since no input source in scope supplies a calibrated multiplier.
const (
	SpendingMultiplier = 1.6
	JobsPerMillion      = 7.5
)

// Award is one cached federal award record for a Tribe.
type Award struct {
	Amount   float64
	District string
}

// DistrictImpact is one district's share of a Tribe's total obligation.
type DistrictImpact struct {
	District       string  `json:"district"`
	TotalObligation float64 `json:"total_obligation"`
	AwardCount     int     `json:"award_count"`
}

// Impact is the economic-impact record for one Tribe.
type Impact struct {
	TotalObligation float64                 `json:"total_obligation"`
	AwardCount      int                      `json:"award_count"`
	BCRFramed       float64                  `json:"bcr_framed"`
	LocalSpending   float64                  `json:"local_spending"`
	JobsSupported   float64                  `json:"jobs_supported"`
	PerDistrict     []DistrictImpact         `json:"per_district"`
	Confidence      model.ConfidenceScore    `json:"_confidence"`
}

// Compute builds an Impact from a Tribe's cached awards. An empty awards
// slice yields an all-zero record with Confidence.Tier = T6 (spec.md §4.9:
// "Missing inputs yield a record with explicit zeros").
func Compute(awards []Award) Impact {
	if len(awards) == 0 {
		return Impact{
			Confidence: model.ConfidenceScore{Tier: model.T6, Final: model.BaseTierScore[model.T6]},
		}
	}

	var total float64
	byDistrict := map[string]*DistrictImpact{}
	var districtOrder []string
	for _, a := range awards {
		total += a.Amount
		d, ok := byDistrict[a.District]
		if !ok {
			d = &DistrictImpact{District: a.District}
			byDistrict[a.District] = d
			districtOrder = append(districtOrder, a.District)
		}
		d.TotalObligation += a.Amount
		d.AwardCount++
	}

	perDistrict := make([]DistrictImpact, 0, len(districtOrder))
	for _, d := range districtOrder {
		perDistrict = append(perDistrict, *byDistrict[d])
	}

	return Impact{
		TotalObligation: total,
		AwardCount:      len(awards),
		BCRFramed:       total * BCRMultiplier,
		LocalSpending:   total * SpendingMultiplier,
		JobsSupported:   (total / 1_000_000) * JobsPerMillion,
		PerDistrict:     perDistrict,
		Confidence:      model.ConfidenceScore{Tier: model.T3, Final: model.BaseTierScore[model.T3]},
	}
}
