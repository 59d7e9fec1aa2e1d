// Package relfilter implements ProgramRelevanceFilter, which selects the
// 8-12 programs most relevant to a given Tribe for packet inclusion.
// Grounded on the teacher's FindApplicable-style set-union-then-cap queries
// in compliance/jkg, generalized from jurisdiction-scoped obligation sets to
// Tribe-scoped program sets.
package relfilter

import (
	"sort"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// MaxPrograms is the hard cap on selected programs per Tribe (spec.md §4.9).
const MaxPrograms = 12

// MinPrograms is the floor the always-include set is expected to satisfy on
// its own; callers do not enforce it, it documents the expected shape.
const MinPrograms = 8

var priorityRank = map[model.Priority]int{
	model.PriorityCritical: 0,
	model.PriorityHigh:     1,
	model.PriorityMedium:   2,
	model.PriorityLow:      3,
}

// Filter selects programs for one Tribe.
type Filter struct {
	AlwaysInclude   []string            // baseline Tribal program ids, always selected first
	HazardToProgram map[string][]string // hazard type -> program ids it activates
	MaxPrograms     int
}

// NewFilter builds a Filter; maxPrograms defaults to MaxPrograms (12) when
// zero or negative.
func NewFilter(alwaysInclude []string, hazardToProgram map[string][]string, maxPrograms int) *Filter {
	if maxPrograms <= 0 {
		maxPrograms = MaxPrograms
	}
	return &Filter{AlwaysInclude: alwaysInclude, HazardToProgram: hazardToProgram, MaxPrograms: maxPrograms}
}

// Select returns the relevant program ids for a Tribe, deterministically
// capped at f.MaxPrograms: always-include first, then hazard-activated
// programs for topHazards, then ecoregion-priority programs, deduplicated
// and tie-broken by program priority (critical > high > medium > low) then
// by id.
func (f *Filter) Select(programs map[string]*model.Program, topHazards []string, ecoregionPriority []string) []string {
	selected := map[string]bool{}
	var ordered []string

	add := func(id string) {
		if selected[id] {
			return
		}
		if _, ok := programs[id]; !ok {
			return
		}
		selected[id] = true
		ordered = append(ordered, id)
	}

	for _, id := range f.AlwaysInclude {
		add(id)
	}
	for _, hazard := range topHazards {
		for _, id := range f.HazardToProgram[hazard] {
			add(id)
		}
	}
	for _, id := range ecoregionPriority {
		add(id)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := programs[ordered[i]].Priority, programs[ordered[j]].Priority
		if priorityRank[pi] != priorityRank[pj] {
			return priorityRank[pi] < priorityRank[pj]
		}
		return ordered[i] < ordered[j]
	})

	if len(ordered) > f.MaxPrograms {
		ordered = ordered[:f.MaxPrograms]
	}
	return ordered
}
