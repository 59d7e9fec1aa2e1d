package registry

import (
	"testing"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

func sampleTribes() []model.Tribe {
	return []model.Tribe{
		{TribeID: "navajo-nation", Name: "Navajo Nation", Aliases: []string{"Dine"}, States: []string{"AZ", "NM", "UT"}},
		{TribeID: "cherokee-nation", Name: "Cherokee Nation", States: []string{"OK"}},
		{TribeID: "pueblo-of-zuni", Name: "Pueblo of Zuni", States: []string{"NM"}},
	}
}

func TestResolve_ExactByID(t *testing.T) {
	r := NewTribalRegistry(sampleTribes(), 60)
	matches, err := r.Resolve("cherokee-nation")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].Kind != MatchExact || matches[0].Tribe.TribeID != "cherokee-nation" {
		t.Fatalf("expected exact id match, got %+v", matches)
	}
}

func TestResolve_ExactByAlias(t *testing.T) {
	r := NewTribalRegistry(sampleTribes(), 60)
	matches, err := r.Resolve("Dine")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].Tribe.TribeID != "navajo-nation" {
		t.Fatalf("expected alias match to Navajo Nation, got %+v", matches)
	}
}

func TestResolve_Substring(t *testing.T) {
	r := NewTribalRegistry(sampleTribes(), 60)
	matches, err := r.Resolve("zuni")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].Kind != MatchSubstring {
		t.Fatalf("expected one substring match, got %+v", matches)
	}
}

func TestResolve_NoMatchIsResolutionError(t *testing.T) {
	r := NewTribalRegistry(sampleTribes(), 60)
	_, err := r.Resolve("xyzzqqq-nonexistent")
	if err == nil {
		t.Fatal("expected a ResolutionError")
	}
	if _, ok := err.(*ResolutionError); !ok {
		t.Fatalf("expected *ResolutionError, got %T", err)
	}
}

func TestGetAll_SortedByID(t *testing.T) {
	r := NewTribalRegistry(sampleTribes(), 60)
	all := r.GetAll()
	if len(all) != 3 {
		t.Fatalf("expected 3 tribes, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].TribeID > all[i].TribeID {
			t.Fatalf("expected sorted ids, got %+v", all)
		}
	}
}

func TestDelegationFor_SelectsStateSenatorsAndDistrictRepresentative(t *testing.T) {
	crosswalk := []AIANNHCrosswalkEntry{
		{TribeID: "navajo-nation", AIANNHName: "Navajo Nation", State: "AZ", District: "1"},
	}
	roster := []model.CongressMember{
		{BioguideID: "S001", Name: "Sen A", State: "AZ"},
		{BioguideID: "S002", Name: "Sen B", State: "AZ"},
		{BioguideID: "R001", Name: "Rep A", State: "AZ", District: "1"},
		{BioguideID: "R002", Name: "Rep B", State: "AZ", District: "2"},
	}
	m := NewCongressionalMapper(crosswalk, roster, nil)
	delegation := m.DelegationFor(model.Tribe{TribeID: "navajo-nation", Name: "Navajo Nation", States: []string{"AZ"}})
	if len(delegation.Senators) != 2 {
		t.Fatalf("expected 2 senators, got %d", len(delegation.Senators))
	}
	if len(delegation.Representatives) != 1 || delegation.Representatives[0].BioguideID != "R001" {
		t.Fatalf("expected only the district-1 representative, got %+v", delegation.Representatives)
	}
}

func TestDelegationFor_UnmatchedLogsWithoutFatal(t *testing.T) {
	m := NewCongressionalMapper(nil, nil, nil)
	delegation := m.DelegationFor(model.Tribe{TribeID: "unknown-tribe", Name: "Unknown Tribe"})
	if len(delegation.Senators) != 0 || len(delegation.Representatives) != 0 {
		t.Fatalf("expected an empty delegation for an unmatched tribe, got %+v", delegation)
	}
	if len(m.Unmatched()) != 1 {
		t.Fatalf("expected the unmatched tribe to be logged, got %+v", m.Unmatched())
	}
}

func TestEcoregionMapper_RegionAndPriorityPrograms(t *testing.T) {
	m := NewEcoregionMapper(
		map[string]string{"az": "southwest", "nm": "southwest", "ok": "southern_plains"},
		map[string][]string{"southwest": {"bia_tribal_roads", "epa_stag"}},
	)
	if got := m.RegionFor([]string{"AZ"}); got != "southwest" {
		t.Fatalf("expected southwest, got %q", got)
	}
	if got := m.PriorityPrograms("southwest"); len(got) != 2 {
		t.Fatalf("expected 2 priority programs, got %+v", got)
	}
	if got := m.RegionFor([]string{"ZZ"}); got != "" {
		t.Fatalf("expected empty region for unmapped state, got %q", got)
	}
}
