package monitors

import (
	"fmt"
	"strings"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/kg"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

var reauthorizationKeywords = []string{"reauthorization", "reauthorize", "extension of"}

// IIJASunsetMonitor flags programs whose authorizing authority expires at
// the end of FY26 (30 September 2026), suppressing the alert when a scored
// legislative item signals an in-progress reauthorization for that program.
type IIJASunsetMonitor struct {
	WarningDays  int
	CriticalDays int
	FY26End      time.Time
}

func (m *IIJASunsetMonitor) Name() string { return "iija_sunset" }

func (m *IIJASunsetMonitor) Run(input Input) ([]model.Alert, error) {
	var alerts []model.Alert

	reauthorizedPrograms := m.reauthorizedProgramSet(input.Items)

	for id, p := range input.Programs {
		if !m.isIIJAExpiring(input.Graph, id) {
			continue
		}
		if reauthorizedPrograms[id] {
			continue
		}

		daysRemaining := int(m.FY26End.Sub(input.Now).Hours() / 24)
		severity := model.SeverityInfo
		switch {
		case daysRemaining <= m.criticalDays():
			severity = model.SeverityCritical
		case daysRemaining <= m.warningDays():
			severity = model.SeverityWarning
		}

		alerts = append(alerts, model.Alert{
			Monitor:    m.Name(),
			Severity:   severity,
			ProgramIDs: []string{id},
			Title:      fmt.Sprintf("IIJA FY26 sunset approaching for %s", p.Name),
			Detail:     fmt.Sprintf("%d days remaining until FY26 supplemental funding expires", daysRemaining),
			Metadata: map[string]any{
				"days_remaining":         daysRemaining,
				"deadline":               m.FY26End.Format(time.RFC3339),
				"description":            "IIJA FY26 supplemental funding sunset",
				"creates_threatens_edge": true,
			},
			Timestamp: input.Now,
		})
	}

	return alerts, nil
}

func (m *IIJASunsetMonitor) isIIJAExpiring(g *kg.Graph, programID string) bool {
	for _, e := range g.Edges(programID, model.EdgeAuthorizedBy, kg.DirOut) {
		authority, ok := g.GetNode(e.TargetID)
		if !ok {
			continue
		}
		durability, _ := authority.Attrs["durability"].(string)
		if strings.EqualFold(durability, "Expires FY26") {
			return true
		}
	}
	return false
}

func (m *IIJASunsetMonitor) reauthorizedProgramSet(items []model.ScoredItem) map[string]bool {
	set := map[string]bool{}
	for _, item := range items {
		if item.Source != model.SourceLegislative {
			continue
		}
		text := strings.ToLower(item.Title + " " + item.Abstract)
		signaled := false
		for _, kw := range reauthorizationKeywords {
			if strings.Contains(text, kw) {
				signaled = true
				break
			}
		}
		if !signaled {
			continue
		}
		for _, programID := range item.MatchedPrograms {
			set[programID] = true
		}
	}
	return set
}

func (m *IIJASunsetMonitor) criticalDays() int {
	if m.CriticalDays <= 0 {
		return 90
	}
	return m.CriticalDays
}

func (m *IIJASunsetMonitor) warningDays() int {
	if m.WarningDays <= 0 {
		return 180
	}
	return m.WarningDays
}
