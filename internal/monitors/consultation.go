package monitors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

var (
	dtllPattern = regexp.MustCompile(`(?i)\bdear tribal leader\b|\bDTLL\b`)
	eo13175Pattern = regexp.MustCompile(`(?i)executive order 13175|\beo\s*13175\b`)
)

const signalDTLL = "dtll"
const signalEO13175 = "eo_13175"
const signalConsultationNotice = "consultation_notice"

// TribalConsultationMonitor scans scored items for three tiers of
// consultation signal (DTLL, EO 13175 references, consultation-notice
// phrases). At most one alert per (signal_type, item); severity is always
// INFO and it never emits a THREATENS edge.
type TribalConsultationMonitor struct {
	Keywords    []string
	AgencySlugs []string
}

func (m *TribalConsultationMonitor) Name() string { return "tribal_consultation" }

func (m *TribalConsultationMonitor) Run(input Input) ([]model.Alert, error) {
	var alerts []model.Alert

	for _, item := range input.Items {
		text := item.Title + " " + item.Abstract + " " + item.ActionText
		lower := strings.ToLower(text)

		seen := map[string]bool{}
		emit := func(signal, detail string) {
			if seen[signal] {
				return
			}
			seen[signal] = true
			alerts = append(alerts, model.Alert{
				Monitor:    m.Name(),
				Severity:   model.SeverityInfo,
				ProgramIDs: append([]string(nil), item.MatchedPrograms...),
				Title:      fmt.Sprintf("Tribal consultation signal (%s)", signal),
				Detail:     detail,
				Metadata:   map[string]any{"signal_type": signal, "source_id": item.SourceID},
				Timestamp:  input.Now,
			})
		}

		if dtllPattern.MatchString(text) {
			emit(signalDTLL, "item contains a Dear Tribal Leader Letter reference")
		}
		if eo13175Pattern.MatchString(text) {
			emit(signalEO13175, "item references Executive Order 13175")
		}
		for _, kw := range m.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(kw)) {
				emit(signalConsultationNotice, fmt.Sprintf("item contains consultation-notice phrase %q", kw))
				break
			}
		}
	}

	return alerts, nil
}
