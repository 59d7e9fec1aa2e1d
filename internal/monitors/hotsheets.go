package monitors

import (
	"fmt"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// HotSheetsValidator runs first (spec.md §4.5, §5: it must complete before
// the decision engine runs). For each program with a hot_sheets_status, it
// compares ci_status against the Hot Sheets status and, on divergence, sets
// EffectiveCIStatus/OriginalCIStatus without mutating ScannerCIStatus
// (spec.md §9's two-field redesign replaces the original in-place dict
// mutation).
type HotSheetsValidator struct {
	StalenessDays int
}

func (h *HotSheetsValidator) Name() string { return "hot_sheets_validator" }

func (h *HotSheetsValidator) Run(input Input) ([]model.Alert, error) {
	var alerts []model.Alert

	for id, p := range input.Programs {
		hs := p.HotSheetsStatus
		if hs == nil {
			continue
		}

		if hs.Status != p.ScannerCIStatus {
			p.OriginalCIStatus = p.ScannerCIStatus
			p.EffectiveCIStatus = hs.Status

			firstTime := !input.State.KnownDivergences[id]
			if input.State.KnownDivergences == nil {
				input.State.KnownDivergences = map[string]bool{}
			}
			input.State.KnownDivergences[id] = true

			severity := model.SeverityInfo
			if firstTime {
				severity = model.SeverityWarning
			}
			alerts = append(alerts, model.Alert{
				Monitor:    h.Name(),
				Severity:   severity,
				ProgramIDs: []string{id},
				Title:      fmt.Sprintf("Hot Sheets override for %s", id),
				Detail: fmt.Sprintf("Scanner CI %s diverges from Hot Sheets status %s",
					p.ScannerCIStatus, hs.Status),
				Metadata:  map[string]any{"from": string(p.ScannerCIStatus), "to": string(hs.Status)},
				Timestamp: input.Now,
			})
		} else {
			p.EffectiveCIStatus = p.ScannerCIStatus
		}

		if staleness := h.stalenessDays(); hs.LastUpdated != "" {
			parsed, err := time.Parse(time.RFC3339, hs.LastUpdated)
			if err == nil && input.Now.Sub(parsed) > time.Duration(staleness)*24*time.Hour {
				alerts = append(alerts, model.Alert{
					Monitor:    h.Name(),
					Severity:   model.SeverityWarning,
					ProgramIDs: []string{id},
					Title:      fmt.Sprintf("Hot Sheets data stale for %s", id),
					Detail:     fmt.Sprintf("last_updated %s exceeds staleness threshold of %d days", hs.LastUpdated, staleness),
					Timestamp:  input.Now,
				})
			}
		}
	}

	return alerts, nil
}

func (h *HotSheetsValidator) stalenessDays() int {
	if h.StalenessDays <= 0 {
		return 90
	}
	return h.StalenessDays
}
