package registry

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// AIANNHCrosswalkEntry is one row of the Census-derived American Indian /
// Alaska Native / Native Hawaiian area to congressional-district crosswalk,
// loaded from congressional_cache.json.
type AIANNHCrosswalkEntry struct {
	TribeID     string   `json:"tribe_id"`
	AIANNHName  string   `json:"aiannh_name"`
	AIANNHAlias []string `json:"aiannh_aliases"`
	State       string   `json:"state"`
	District    string   `json:"district"` // "AL" for at-large
}

// CongressionalMapper precomputes per-Tribe delegations from a crosswalk,
// a congressional roster, and committee memberships.
type CongressionalMapper struct {
	crosswalk   []AIANNHCrosswalkEntry
	roster      []model.CongressMember
	committees  []model.CommitteeMembership
	unmatched   []string // names of Tribes no tier could match; recorded, not fatal
}

// NewCongressionalMapper builds a mapper from the loaded caches.
func NewCongressionalMapper(crosswalk []AIANNHCrosswalkEntry, roster []model.CongressMember, committees []model.CommitteeMembership) *CongressionalMapper {
	return &CongressionalMapper{crosswalk: crosswalk, roster: roster, committees: committees}
}

// Unmatched returns the name of every Tribe for which no matching tier found
// a crosswalk entry, accumulated across all DelegationFor calls on this
// mapper.
func (m *CongressionalMapper) Unmatched() []string {
	return append([]string(nil), m.unmatched...)
}

// DelegationFor computes tribe's CongressionalDelegation: both senators for
// its state (deduplicated), representative(s) for its district (matched via
// the four-tier exact/variant/substring/fuzzy cascade against the
// crosswalk's aiannh_name/aliases), and every committee seat held by a
// matched member.
func (m *CongressionalMapper) DelegationFor(tribe model.Tribe) model.CongressionalDelegation {
	entry, matched := m.matchCrosswalk(tribe)

	var delegation model.CongressionalDelegation
	if !matched {
		m.unmatched = append(m.unmatched, tribe.Name)
		return delegation
	}

	seenSenator := map[string]bool{}
	for _, member := range m.roster {
		if !strings.EqualFold(member.State, entry.State) {
			continue
		}
		if member.District == "" && !seenSenator[member.BioguideID] {
			seenSenator[member.BioguideID] = true
			delegation.Senators = append(delegation.Senators, member)
		}
	}

	for _, member := range m.roster {
		if !strings.EqualFold(member.State, entry.State) {
			continue
		}
		if member.District == "" {
			continue
		}
		if strings.EqualFold(entry.District, "AL") && strings.EqualFold(member.District, "AL") {
			delegation.Representatives = append(delegation.Representatives, member)
			continue
		}
		if strings.EqualFold(member.District, entry.District) {
			delegation.Representatives = append(delegation.Representatives, member)
		}
	}

	ids := map[string]bool{}
	for _, s := range delegation.Senators {
		ids[s.BioguideID] = true
	}
	for _, r := range delegation.Representatives {
		ids[r.BioguideID] = true
	}
	for _, c := range m.committees {
		if ids[c.BioguideID] {
			delegation.Committees = append(delegation.Committees, c)
		}
	}

	sort.Slice(delegation.Senators, func(i, j int) bool { return delegation.Senators[i].BioguideID < delegation.Senators[j].BioguideID })
	sort.Slice(delegation.Representatives, func(i, j int) bool {
		return delegation.Representatives[i].BioguideID < delegation.Representatives[j].BioguideID
	})
	sort.Slice(delegation.Committees, func(i, j int) bool { return delegation.Committees[i].Committee < delegation.Committees[j].Committee })

	return delegation
}

// matchCrosswalk runs the four-tier cascade: exact tribe_id match, then
// exact-name/alias variant match, then substring, then fuzzy at threshold
// 80 (spec.md §4.9; stricter than TribalRegistry.resolve's 60 since the
// crosswalk names are long official AIANNH designations).
func (m *CongressionalMapper) matchCrosswalk(tribe model.Tribe) (AIANNHCrosswalkEntry, bool) {
	for _, e := range m.crosswalk {
		if e.TribeID == tribe.TribeID {
			return e, true
		}
	}

	lowerName := strings.ToLower(tribe.Name)
	for _, e := range m.crosswalk {
		if strings.EqualFold(e.AIANNHName, tribe.Name) {
			return e, true
		}
		for _, alias := range e.AIANNHAlias {
			if strings.EqualFold(alias, tribe.Name) {
				return e, true
			}
		}
	}

	for _, e := range m.crosswalk {
		if strings.Contains(strings.ToLower(e.AIANNHName), lowerName) || strings.Contains(lowerName, strings.ToLower(e.AIANNHName)) {
			return e, true
		}
	}

	names := make([]string, len(m.crosswalk))
	for i, e := range m.crosswalk {
		names[i] = e.AIANNHName
	}
	results := fuzzy.Find(tribe.Name, names)
	if len(results) > 0 && results[0].Score >= 80 {
		return m.crosswalk[results[0].Index], true
	}

	return AIANNHCrosswalkEntry{}, false
}
