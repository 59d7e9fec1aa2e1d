package packet

import (
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/econimpact"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
	"github.com/atniclimate/tcr-policy-scanner/internal/registry"
	"github.com/atniclimate/tcr-policy-scanner/internal/relfilter"
)

// confidenceWeights are the per-facet weights spec.md §4.9 assigns when
// aggregating a TribePacketContext's overall confidence_summary.
const (
	weightIdentity     = 0.10
	weightCongressional = 0.15
	weightAwards       = 0.30
	weightHazards      = 0.30
	weightEconomic     = 0.15
)

// HazardProfile is a Tribe's cached hazard exposure join.
type HazardProfile struct {
	TopHazards []string                 `json:"top_hazards"`
	Confidence model.ConfidenceScore    `json:"_confidence"`
}

// TribePacketContext is PacketOrchestrator.BuildContext's output: everything
// the per-Tribe briefing packet needs, assembled from caches plus this run's
// scan state.
type TribePacketContext struct {
	Tribe              model.Tribe                     `json:"tribe"`
	Delegation         model.CongressionalDelegation    `json:"delegation"`
	Economic           econimpact.Impact                `json:"economic_impact"`
	Hazards            HazardProfile                    `json:"hazards"`
	RelevantPrograms   []string                         `json:"relevant_programs"`
	Classifications    map[string]model.Classification   `json:"classifications"`
	Changes            []Change                          `json:"changes_since_last"`
	ConfidenceSummary  float64                           `json:"confidence_summary"`
}

// Orchestrator composes a TribePacketContext from the registry, per-Tribe
// caches, and the current run's scored programs/classifications.
type Orchestrator struct {
	Registry    *registry.TribalRegistry
	Congress    *registry.CongressionalMapper
	Ecoregions  *registry.EcoregionMapper
	Filter      *relfilter.Filter
	Tracker     *Tracker

	AwardsByTribe  map[string][]econimpact.Award
	HazardsByTribe map[string]HazardProfile
}

// BuildContext assembles one Tribe's packet context and persists the fresh
// snapshot for next run's diff.
func (o *Orchestrator) BuildContext(tribeID string, programs map[string]*model.Program, classifications map[string]model.Classification, now time.Time) (TribePacketContext, error) {
	tribe, ok := o.Registry.GetByID(tribeID)
	if !ok {
		return TribePacketContext{}, &registry.ResolutionError{Query: tribeID}
	}

	delegation := o.Congress.DelegationFor(tribe)
	awards := o.AwardsByTribe[tribeID]
	economic := econimpact.Compute(awards)
	hazards := o.HazardsByTribe[tribeID]

	region := o.Ecoregions.RegionFor(tribe.States)
	relevant := o.Filter.Select(programs, hazards.TopHazards, o.Ecoregions.PriorityPrograms(region))

	selectedClassifications := make(map[string]model.Classification, len(relevant))
	for _, id := range relevant {
		if c, ok := classifications[id]; ok {
			selectedClassifications[id] = c
		}
	}

	prior, hadPrior, err := o.Tracker.Load(tribeID)
	if err != nil {
		return TribePacketContext{}, err
	}

	next := buildSnapshot(tribe, programs, relevant, selectedClassifications, economic, hazards, now)
	changes := Diff(prior, next, hadPrior)

	if err := o.Tracker.Store(next); err != nil {
		return TribePacketContext{}, err
	}

	confidence := weightIdentity*1.0 +
		weightCongressional*congressionalConfidence(delegation) +
		weightAwards*economic.Confidence.Final +
		weightHazards*hazards.Confidence.Final +
		weightEconomic*economic.Confidence.Final

	return TribePacketContext{
		Tribe:             tribe,
		Delegation:        delegation,
		Economic:          economic,
		Hazards:           hazards,
		RelevantPrograms:  relevant,
		Classifications:   selectedClassifications,
		Changes:           changes,
		ConfidenceSummary: confidence,
	}, nil
}

func congressionalConfidence(d model.CongressionalDelegation) float64 {
	if len(d.Senators) == 0 && len(d.Representatives) == 0 {
		return model.BaseTierScore[model.T6]
	}
	return model.BaseTierScore[model.T2]
}

func buildSnapshot(tribe model.Tribe, programs map[string]*model.Program, relevant []string, classifications map[string]model.Classification, economic econimpact.Impact, hazards HazardProfile, now time.Time) Snapshot {
	states := make(map[string]ProgramState, len(relevant))
	var advocacyGoal string
	for _, id := range relevant {
		p, ok := programs[id]
		if !ok {
			continue
		}
		goalStr := ""
		if c, ok := classifications[id]; ok && c.AdvocacyGoal != nil {
			goalStr = string(*c.AdvocacyGoal)
			if advocacyGoal == "" {
				advocacyGoal = goalStr
			}
		}
		states[id] = ProgramState{CIStatus: string(p.EffectiveStatus()), AdvocacyGoal: goalStr}
	}

	return Snapshot{
		TribeID:         tribe.TribeID,
		GeneratedAt:     now.Format(time.RFC3339),
		ProgramStates:   states,
		TotalAwards:     economic.AwardCount,
		TotalObligation: economic.TotalObligation,
		TopHazards:      hazards.TopHazards,
		AdvocacyGoal:    advocacyGoal,
	}
}
