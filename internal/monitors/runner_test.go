package monitors

import (
	"testing"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/config"
	"github.com/atniclimate/tcr-policy-scanner/internal/kg"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

func TestBuildFixedOrderList_OrdersHotSheetsFirst(t *testing.T) {
	cfg := config.Default().Monitors
	list, err := BuildFixedOrderList(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("expected 5 monitors, got %d", len(list))
	}
	if list[0].Name() != "hot_sheets_validator" {
		t.Fatalf("expected HotSheetsValidator first, got %s", list[0].Name())
	}
}

func TestBuildFixedOrderList_RejectsMalformedDate(t *testing.T) {
	cfg := config.Default().Monitors
	cfg.IIJASunset.FY26End = "not-a-date"
	if _, err := BuildFixedOrderList(cfg); err == nil {
		t.Fatal("expected an error for a malformed fy26_end date")
	}
}

func TestExecute_CreatesThreatensEdgePerAlertProgram(t *testing.T) {
	now := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	programID := "fema_bric"

	g := kg.NewGraph()
	g.AddNode(model.Node{ID: programID, Type: model.NodeProgram})

	dhs := &DHSFundingCliffMonitor{
		CRExpiration:   time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC),
		FEMAProgramIDs: []string{programID},
		WarningDays:    60,
	}

	input := Input{
		Graph:    g,
		Programs: map[string]*model.Program{programID: {ID: programID, Name: "BRIC"}},
		State:    NewState(),
		Now:      now,
	}

	alerts, errs, err := Execute([]Monitor{dhs}, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("expected no monitor errors, got %+v", errs)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerts))
	}

	threatens := g.Edges(programID, model.EdgeThreatens, kg.DirIn)
	if len(threatens) != 1 {
		t.Fatalf("expected exactly one THREATENS edge targeting the program, got %d", len(threatens))
	}
	if threatens[0].Metadata["days_remaining"] != 4 {
		t.Fatalf("expected days_remaining=4 carried onto the edge, got %v", threatens[0].Metadata["days_remaining"])
	}
}

func TestExecute_RegeneratesThreatensEdgesEachRun(t *testing.T) {
	now := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	programID := "fema_bric"

	g := kg.NewGraph()
	g.AddNode(model.Node{ID: programID, Type: model.NodeProgram})

	dhs := &DHSFundingCliffMonitor{
		CRExpiration:   time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC),
		FEMAProgramIDs: []string{programID},
		WarningDays:    60,
	}
	input := Input{Graph: g, Programs: map[string]*model.Program{programID: {ID: programID}}, State: NewState(), Now: now}

	if _, _, err := Execute([]Monitor{dhs}, input); err != nil {
		t.Fatalf("first run: unexpected error: %v", err)
	}
	if _, _, err := Execute([]Monitor{}, input); err != nil {
		t.Fatalf("second run: unexpected error: %v", err)
	}

	if len(g.Edges(programID, model.EdgeThreatens, kg.DirIn)) != 0 {
		t.Fatal("expected THREATENS edges to be cleared when no monitor declares one")
	}
}
