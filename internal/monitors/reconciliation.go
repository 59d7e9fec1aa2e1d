package monitors

import (
	"fmt"
	"strings"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// ReconciliationMonitor scans legislative items for reconciliation-threat
// keywords, excluding already-enacted laws and bills outside the
// configured active statuses.
type ReconciliationMonitor struct {
	Keywords           []string
	ActiveBillStatuses []string
	EnactedLawsExclude []string
}

func (m *ReconciliationMonitor) Name() string { return "reconciliation" }

func (m *ReconciliationMonitor) Run(input Input) ([]model.Alert, error) {
	var alerts []model.Alert
	excluded := make(map[string]bool, len(m.EnactedLawsExclude))
	for _, law := range m.EnactedLawsExclude {
		excluded[law] = true
	}
	activeStatuses := toSet(m.ActiveBillStatuses)

	for _, item := range input.Items {
		if item.Source != model.SourceLegislative {
			continue
		}
		if enactedLaw, _ := item.Extras["enacted_law_name"].(string); enactedLaw != "" && excluded[enactedLaw] {
			continue
		}
		status, _ := item.Extras["bill_status"].(string)
		if len(activeStatuses) > 0 && !activeStatuses[strings.ToLower(status)] {
			continue
		}

		text := strings.ToLower(item.Title + " " + item.Abstract + " " + item.ActionText)
		matched := ""
		for _, kw := range m.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				matched = kw
				break
			}
		}
		if matched == "" {
			continue
		}

		alerts = append(alerts, model.Alert{
			Monitor:    m.Name(),
			Severity:   model.SeverityWarning,
			ProgramIDs: append([]string(nil), item.MatchedPrograms...),
			Title:      fmt.Sprintf("Reconciliation threat signal: %q", matched),
			Detail:     fmt.Sprintf("legislative item %s contains reconciliation-threat keyword %q", item.SourceID, matched),
			Metadata:   map[string]any{"keyword": matched, "bill_status": status},
			Timestamp:  input.Now,
		})
	}

	return alerts, nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[strings.ToLower(it)] = true
	}
	return set
}
