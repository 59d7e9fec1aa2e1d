package relfilter

import (
	"testing"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

func TestSelect_AlwaysIncludeThenHazardThenEcoregionCappedAndTieBroken(t *testing.T) {
	programs := map[string]*model.Program{
		"bia_tribal_roads":       {ID: "bia_tribal_roads", Priority: model.PriorityHigh},
		"epa_stag":               {ID: "epa_stag", Priority: model.PriorityMedium},
		"fema_bric":              {ID: "fema_bric", Priority: model.PriorityCritical},
		"fema_tribal_mitigation": {ID: "fema_tribal_mitigation", Priority: model.PriorityCritical},
		"hud_ihbg":               {ID: "hud_ihbg", Priority: model.PriorityLow},
	}
	f := NewFilter(
		[]string{"bia_tribal_roads", "epa_stag"},
		map[string][]string{"flood": {"fema_bric", "fema_tribal_mitigation"}},
		12,
	)
	selected := f.Select(programs, []string{"flood"}, []string{"hud_ihbg"})
	if len(selected) != 5 {
		t.Fatalf("expected all 5 distinct programs selected, got %+v", selected)
	}
	// fema_bric and fema_tribal_mitigation are both critical, so they must
	// sort before bia_tribal_roads (high) despite being added after it.
	idx := map[string]int{}
	for i, id := range selected {
		idx[id] = i
	}
	if idx["fema_bric"] > idx["bia_tribal_roads"] || idx["fema_tribal_mitigation"] > idx["bia_tribal_roads"] {
		t.Fatalf("expected critical-priority programs to sort before high-priority ones, got %+v", selected)
	}
}

func TestSelect_CapsAtMaxPrograms(t *testing.T) {
	programs := map[string]*model.Program{}
	var always []string
	for i := 0; i < 20; i++ {
		id := string(rune('a' + i))
		programs[id] = &model.Program{ID: id, Priority: model.PriorityMedium}
		always = append(always, id)
	}
	f := NewFilter(always, nil, 12)
	selected := f.Select(programs, nil, nil)
	if len(selected) != 12 {
		t.Fatalf("expected cap of 12, got %d", len(selected))
	}
}

func TestSelect_DeduplicatesAcrossSources(t *testing.T) {
	programs := map[string]*model.Program{
		"bia_tribal_roads": {ID: "bia_tribal_roads", Priority: model.PriorityHigh},
	}
	f := NewFilter([]string{"bia_tribal_roads"}, map[string][]string{"flood": {"bia_tribal_roads"}}, 12)
	selected := f.Select(programs, []string{"flood"}, []string{"bia_tribal_roads"})
	if len(selected) != 1 {
		t.Fatalf("expected deduplication to collapse to 1 entry, got %+v", selected)
	}
}

func TestSelect_IgnoresUnknownProgramIDs(t *testing.T) {
	programs := map[string]*model.Program{
		"bia_tribal_roads": {ID: "bia_tribal_roads", Priority: model.PriorityHigh},
	}
	f := NewFilter([]string{"bia_tribal_roads", "nonexistent"}, nil, 12)
	selected := f.Select(programs, nil, nil)
	if len(selected) != 1 {
		t.Fatalf("expected unknown ids to be dropped, got %+v", selected)
	}
}
