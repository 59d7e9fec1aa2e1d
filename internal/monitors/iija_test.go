package monitors

import (
	"testing"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/kg"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

func buildIIJAGraph(t *testing.T, programID string) *kg.Graph {
	t.Helper()
	g := kg.NewGraph()
	g.AddNode(model.Node{ID: programID, Type: model.NodeProgram})
	g.AddNode(model.Node{ID: "auth_iija", Type: model.NodeAuthority, Attrs: map[string]any{"durability": "Expires FY26"}})
	if err := g.AddEdge(model.Edge{SourceID: programID, TargetID: "auth_iija", Type: model.EdgeAuthorizedBy}); err != nil {
		t.Fatalf("setup AddEdge: %v", err)
	}
	return g
}

func TestIIJASunsetMonitor_CriticalWhenCloseToDeadline(t *testing.T) {
	fy26End := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	now := fy26End.Add(-60 * 24 * time.Hour)
	programID := "bia_tribal_roads"
	g := buildIIJAGraph(t, programID)

	input := Input{
		Graph:    g,
		Programs: map[string]*model.Program{programID: {ID: programID, Name: "Tribal Transportation Program"}},
		Now:      now,
	}
	m := &IIJASunsetMonitor{WarningDays: 180, CriticalDays: 90, FY26End: fy26End}
	alerts, err := m.Run(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Severity != model.SeverityCritical {
		t.Fatalf("expected one CRITICAL alert, got %+v", alerts)
	}
	if !alerts[0].CreatesThreatensEdge() {
		t.Fatalf("expected creates_threatens_edge=true")
	}
}

func TestIIJASunsetMonitor_ReauthorizationSuppressesAlert(t *testing.T) {
	fy26End := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	now := fy26End.Add(-60 * 24 * time.Hour)
	programID := "bia_tribal_roads"
	g := buildIIJAGraph(t, programID)

	items := []model.ScoredItem{
		{
			Source:          model.SourceLegislative,
			SourceID:        "hr-1234",
			Title:           "A bill providing for reauthorization of the Tribal Transportation Program",
			MatchedPrograms: []string{programID},
		},
	}

	input := Input{
		Graph:    g,
		Items:    items,
		Programs: map[string]*model.Program{programID: {ID: programID, Name: "Tribal Transportation Program"}},
		Now:      now,
	}
	m := &IIJASunsetMonitor{WarningDays: 180, CriticalDays: 90, FY26End: fy26End}
	alerts, err := m.Run(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("expected reauthorization signal to suppress the alert, got %+v", alerts)
	}
}

func TestIIJASunsetMonitor_NonExpiringAuthorityIsIgnored(t *testing.T) {
	fy26End := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	programID := "permanent_program"
	g := kg.NewGraph()
	g.AddNode(model.Node{ID: programID, Type: model.NodeProgram})
	g.AddNode(model.Node{ID: "auth_permanent", Type: model.NodeAuthority, Attrs: map[string]any{"durability": "Permanent"}})
	if err := g.AddEdge(model.Edge{SourceID: programID, TargetID: "auth_permanent", Type: model.EdgeAuthorizedBy}); err != nil {
		t.Fatalf("setup AddEdge: %v", err)
	}

	input := Input{
		Graph:    g,
		Programs: map[string]*model.Program{programID: {ID: programID, Name: "Permanent Program"}},
		Now:      fy26End.Add(-10 * 24 * time.Hour),
	}
	m := &IIJASunsetMonitor{WarningDays: 180, CriticalDays: 90, FY26End: fy26End}
	alerts, _ := m.Run(input)
	if len(alerts) != 0 {
		t.Fatalf("expected no alert for a non-IIJA authority, got %+v", alerts)
	}
}
