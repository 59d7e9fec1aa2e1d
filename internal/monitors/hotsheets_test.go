package monitors

import (
	"testing"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

func TestHotSheetsValidator_DivergenceFirstTimeIsWarning(t *testing.T) {
	now := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	prog := &model.Program{
		ID:              "bia_tribal_roads",
		ScannerCIStatus: model.CIStable,
		HotSheetsStatus: &model.HotSheetsStatus{Status: model.CIAtRisk, LastUpdated: now.Format(time.RFC3339)},
	}
	input := Input{
		Programs: map[string]*model.Program{prog.ID: prog},
		State:    NewState(),
		Now:      now,
	}

	v := &HotSheetsValidator{StalenessDays: 90}
	alerts, err := v.Run(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Severity != model.SeverityWarning {
		t.Fatalf("expected one WARNING alert, got %+v", alerts)
	}
	if prog.OriginalCIStatus != model.CIStable || prog.EffectiveCIStatus != model.CIAtRisk {
		t.Fatalf("expected override fields set, got original=%s effective=%s", prog.OriginalCIStatus, prog.EffectiveCIStatus)
	}
	if prog.ScannerCIStatus != model.CIStable {
		t.Fatalf("ScannerCIStatus must never be mutated, got %s", prog.ScannerCIStatus)
	}
}

func TestHotSheetsValidator_KnownDivergenceDowngradesToInfo(t *testing.T) {
	now := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	prog := &model.Program{
		ID:              "bia_tribal_roads",
		ScannerCIStatus: model.CIStable,
		HotSheetsStatus: &model.HotSheetsStatus{Status: model.CIAtRisk, LastUpdated: now.Format(time.RFC3339)},
	}
	state := NewState()
	state.KnownDivergences["bia_tribal_roads"] = true
	input := Input{Programs: map[string]*model.Program{prog.ID: prog}, State: state, Now: now}

	v := &HotSheetsValidator{StalenessDays: 90}
	alerts, _ := v.Run(input)
	if len(alerts) != 1 || alerts[0].Severity != model.SeverityInfo {
		t.Fatalf("expected one INFO alert on repeat divergence, got %+v", alerts)
	}
}

func TestHotSheetsValidator_StaleDataWarns(t *testing.T) {
	now := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	stale := now.Add(-100 * 24 * time.Hour)
	prog := &model.Program{
		ID:              "bia_tribal_roads",
		ScannerCIStatus: model.CIStable,
		HotSheetsStatus: &model.HotSheetsStatus{Status: model.CIStable, LastUpdated: stale.Format(time.RFC3339)},
	}
	input := Input{Programs: map[string]*model.Program{prog.ID: prog}, State: NewState(), Now: now}

	v := &HotSheetsValidator{StalenessDays: 90}
	alerts, _ := v.Run(input)
	if len(alerts) != 1 {
		t.Fatalf("expected one staleness alert, got %+v", alerts)
	}
}
