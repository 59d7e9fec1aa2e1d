// Package registry implements per-Tribe identity and congressional/ecoregion
// lookups: TribalRegistry, CongressionalMapper, EcoregionMapper. Grounded on
// the teacher's compliance/jkg lookup-by-id patterns for the exact/substring
// tiers, and on github.com/sahilm/fuzzy (also used by the rest of the
// retrieved pack for short-query-against-long-name matching) for the fuzzy
// tier neither the teacher nor jkg needed.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// ResolutionError is spec.md §7's fatal-at-the-CLI-boundary class: no exact,
// substring, or fuzzy match was found for a query.
type ResolutionError struct {
	Query string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("registry: no match for %q", e.Query)
}

// MatchKind classifies how a resolve() result was found.
type MatchKind string

const (
	MatchExact     MatchKind = "exact"
	MatchSubstring MatchKind = "substring"
	MatchFuzzy     MatchKind = "fuzzy"
)

// Match pairs a resolved Tribe with the tier that found it and, for fuzzy
// matches, the underlying score (0-100, sahilm/fuzzy's raw scale).
type Match struct {
	Tribe model.Tribe
	Kind  MatchKind
	Score int
}

// TribalRegistry holds every tracked Tribe indexed for exact-id, exact-name,
// substring, and fuzzy lookup.
type TribalRegistry struct {
	byID         map[string]model.Tribe
	names        []string // parallel to nameOwners, lower-cased for substring search
	nameOwners   []model.Tribe
	fuzzyThreshold int
}

// NewTribalRegistry builds a registry from tribal_registry.json records.
// fuzzyThreshold defaults to 60 (spec.md §4.9) when zero or negative.
func NewTribalRegistry(tribes []model.Tribe, fuzzyThreshold int) *TribalRegistry {
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = 60
	}
	r := &TribalRegistry{byID: make(map[string]model.Tribe, len(tribes)), fuzzyThreshold: fuzzyThreshold}
	for _, t := range tribes {
		r.byID[t.TribeID] = t
		r.names = append(r.names, strings.ToLower(t.Name))
		r.nameOwners = append(r.nameOwners, t)
		for _, alias := range t.Aliases {
			r.names = append(r.names, strings.ToLower(alias))
			r.nameOwners = append(r.nameOwners, t)
		}
	}
	return r
}

// GetByID returns the Tribe with the given id.
func (r *TribalRegistry) GetByID(id string) (model.Tribe, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// GetAll returns every tracked Tribe, sorted by id for determinism.
func (r *TribalRegistry) GetAll() []model.Tribe {
	out := make([]model.Tribe, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TribeID < out[j].TribeID })
	return out
}

// Resolve implements the three-tier lookup from spec.md §4.9: exact match
// (by id, or case-insensitively by name/alias) returns a single Match;
// otherwise substring matches against every name/alias are collected;
// otherwise a fuzzy pass runs at r.fuzzyThreshold. A query with no match at
// any tier is a ResolutionError.
func (r *TribalRegistry) Resolve(query string) ([]Match, error) {
	trimmed := strings.TrimSpace(query)
	lower := strings.ToLower(trimmed)

	if t, ok := r.byID[trimmed]; ok {
		return []Match{{Tribe: t, Kind: MatchExact, Score: 100}}, nil
	}
	for i, name := range r.names {
		if name == lower {
			return []Match{{Tribe: r.nameOwners[i], Kind: MatchExact, Score: 100}}, nil
		}
	}

	var substring []Match
	seen := map[string]bool{}
	for i, name := range r.names {
		if strings.Contains(name, lower) {
			owner := r.nameOwners[i]
			if seen[owner.TribeID] {
				continue
			}
			seen[owner.TribeID] = true
			substring = append(substring, Match{Tribe: owner, Kind: MatchSubstring, Score: 90})
		}
	}
	if len(substring) > 0 {
		sort.Slice(substring, func(i, j int) bool { return substring[i].Tribe.TribeID < substring[j].Tribe.TribeID })
		return substring, nil
	}

	results := fuzzy.Find(trimmed, r.names)
	var fuzzyMatches []Match
	seen = map[string]bool{}
	for _, res := range results {
		if res.Score < r.fuzzyThreshold {
			continue
		}
		owner := r.nameOwners[res.Index]
		if seen[owner.TribeID] {
			continue
		}
		seen[owner.TribeID] = true
		fuzzyMatches = append(fuzzyMatches, Match{Tribe: owner, Kind: MatchFuzzy, Score: res.Score})
	}
	if len(fuzzyMatches) == 0 {
		return nil, &ResolutionError{Query: query}
	}
	sort.Slice(fuzzyMatches, func(i, j int) bool { return fuzzyMatches[i].Score > fuzzyMatches[j].Score })
	return fuzzyMatches, nil
}
