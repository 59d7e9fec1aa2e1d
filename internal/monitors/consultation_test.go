package monitors

import (
	"testing"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

func TestTribalConsultationMonitor_DetectsDTLLAndEO13175Separately(t *testing.T) {
	now := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	items := []model.ScoredItem{
		{
			Source:          model.SourceRegulatory,
			SourceID:        "notice-1",
			Title:           "Dear Tribal Leader Letter regarding upcoming consultation",
			Abstract:        "This notice implements Executive Order 13175 consultation requirements.",
			MatchedPrograms: []string{"bia_tribal_roads"},
		},
	}
	m := &TribalConsultationMonitor{Keywords: []string{"consultation"}}
	alerts, err := m.Run(Input{Items: items, Now: now})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	signals := map[string]bool{}
	for _, a := range alerts {
		signals[a.Metadata["signal_type"].(string)] = true
		if a.Severity != model.SeverityInfo {
			t.Fatalf("expected INFO severity, got %s", a.Severity)
		}
		if a.CreatesThreatensEdge() {
			t.Fatalf("consultation monitor must never declare a THREATENS edge")
		}
	}
	if !signals[signalDTLL] || !signals[signalEO13175] || !signals[signalConsultationNotice] {
		t.Fatalf("expected all three signal types, got %+v", signals)
	}
}

func TestTribalConsultationMonitor_AtMostOneAlertPerSignalPerItem(t *testing.T) {
	now := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	m := &TribalConsultationMonitor{}
	alerts, _ := m.Run(Input{
		Items: []model.ScoredItem{{Source: model.SourceRegulatory, SourceID: "notice-2", Title: "Dear Tribal Leader Letter: Dear Tribal Leader Letter follow-up"}},
		Now:   now,
	})
	count := 0
	for _, a := range alerts {
		if a.Metadata["signal_type"] == signalDTLL {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one DTLL alert despite two mentions, got %d", count)
	}
}
