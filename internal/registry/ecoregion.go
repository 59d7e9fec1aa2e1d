package registry

import "strings"

// EcoregionMapper maps a Tribe's state(s) to one of the 7 ecoregions and
// exposes the priority program ids for each region, loaded from
// ecoregion_config.json.
type EcoregionMapper struct {
	stateToRegion    map[string]string
	regionPrograms   map[string][]string
}

// NewEcoregionMapper builds a mapper from parsed ecoregion_config.json.
func NewEcoregionMapper(stateToRegion map[string]string, regionPrograms map[string][]string) *EcoregionMapper {
	normalized := make(map[string]string, len(stateToRegion))
	for state, region := range stateToRegion {
		normalized[strings.ToUpper(state)] = region
	}
	return &EcoregionMapper{stateToRegion: normalized, regionPrograms: regionPrograms}
}

// RegionFor returns the ecoregion for the first state in states that has a
// mapping, or "" if none match.
func (m *EcoregionMapper) RegionFor(states []string) string {
	for _, s := range states {
		if region, ok := m.stateToRegion[strings.ToUpper(s)]; ok {
			return region
		}
	}
	return ""
}

// PriorityPrograms returns the configured priority program ids for region.
func (m *EcoregionMapper) PriorityPrograms(region string) []string {
	return append([]string(nil), m.regionPrograms[region]...)
}
