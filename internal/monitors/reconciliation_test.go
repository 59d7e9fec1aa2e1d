package monitors

import (
	"testing"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

func TestReconciliationMonitor_MatchesKeywordOnActiveBill(t *testing.T) {
	now := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	items := []model.ScoredItem{
		{
			Source:          model.SourceLegislative,
			SourceID:        "hr-9999",
			Title:           "A bill to rescind unobligated tribal infrastructure funds",
			MatchedPrograms: []string{"bia_tribal_roads"},
			Extras:          map[string]any{"bill_status": "committee"},
		},
	}
	m := &ReconciliationMonitor{
		Keywords:           []string{"rescission", "rescind", "repeal", "eliminate funding"},
		ActiveBillStatuses: []string{"introduced", "committee", "floor", "conference"},
		EnactedLawsExclude: []string{"Public Law 119-21"},
	}
	alerts, err := m.Run(Input{Items: items, Now: now})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Severity != model.SeverityWarning {
		t.Fatalf("expected one WARNING alert, got %+v", alerts)
	}
}

func TestReconciliationMonitor_ExcludesEnactedLawByExactCase(t *testing.T) {
	now := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	items := []model.ScoredItem{
		{
			Source:          model.SourceLegislative,
			SourceID:        "pl-119-21",
			Title:           "An act to rescind certain appropriations",
			MatchedPrograms: []string{"bia_tribal_roads"},
			Extras: map[string]any{
				"bill_status":       "enacted",
				"enacted_law_name": "Public Law 119-21",
			},
		},
	}
	m := &ReconciliationMonitor{
		Keywords:           []string{"rescind"},
		ActiveBillStatuses: []string{"introduced", "committee", "floor", "conference"},
		EnactedLawsExclude: []string{"Public Law 119-21"},
	}
	alerts, err := m.Run(Input{Items: items, Now: now})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("expected excluded enacted law to suppress the alert, got %+v", alerts)
	}
}

func TestReconciliationMonitor_IgnoresInactiveBillStatus(t *testing.T) {
	now := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	items := []model.ScoredItem{
		{
			Source:          model.SourceLegislative,
			SourceID:        "hr-0001",
			Title:           "A bill to rescind certain appropriations",
			MatchedPrograms: []string{"bia_tribal_roads"},
			Extras:          map[string]any{"bill_status": "withdrawn"},
		},
	}
	m := &ReconciliationMonitor{
		Keywords:           []string{"rescind"},
		ActiveBillStatuses: []string{"introduced", "committee", "floor", "conference"},
	}
	alerts, _ := m.Run(Input{Items: items, Now: now})
	if len(alerts) != 0 {
		t.Fatalf("expected withdrawn bill to be ignored, got %+v", alerts)
	}
}
