package monitors

import (
	"fmt"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// DHSFundingCliffMonitor computes days remaining to a configurable
// continuing-resolution expiration date for configured FEMA program ids,
// always declaring a THREATENS edge.
type DHSFundingCliffMonitor struct {
	CRExpiration   time.Time
	FEMAProgramIDs []string
	WarningDays    int
}

func (m *DHSFundingCliffMonitor) Name() string { return "dhs_funding_cliff" }

func (m *DHSFundingCliffMonitor) Run(input Input) ([]model.Alert, error) {
	var alerts []model.Alert

	for _, programID := range m.FEMAProgramIDs {
		p, ok := input.Programs[programID]
		if !ok {
			continue
		}

		daysRemaining := int(m.CRExpiration.Sub(input.Now).Hours() / 24)
		severity := model.SeverityInfo
		if daysRemaining <= m.warningDays() {
			severity = model.SeverityWarning
		}
		if daysRemaining <= 0 {
			severity = model.SeverityCritical
		}

		alerts = append(alerts, model.Alert{
			Monitor:    m.Name(),
			Severity:   severity,
			ProgramIDs: []string{programID},
			Title:      fmt.Sprintf("Continuing resolution funding cliff for %s", p.Name),
			Detail:     fmt.Sprintf("%d days remaining until current continuing resolution expires", daysRemaining),
			Metadata: map[string]any{
				"days_remaining":         daysRemaining,
				"deadline":               m.CRExpiration.Format(time.RFC3339),
				"description":            "DHS/FEMA continuing resolution funding cliff",
				"creates_threatens_edge": true,
			},
			Timestamp: input.Now,
		})
	}

	return alerts, nil
}

func (m *DHSFundingCliffMonitor) warningDays() int {
	if m.WarningDays <= 0 {
		return 60
	}
	return m.WarningDays
}
