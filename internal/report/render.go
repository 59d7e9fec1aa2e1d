package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/changedetect"
	"github.com/atniclimate/tcr-policy-scanner/internal/kg"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// HotSheetsSync renders the CI Dashboard sync column per spec.md §4.8 step 3.
func HotSheetsSync(p model.Program) string {
	if p.OriginalCIStatus != "" && p.OriginalCIStatus != p.EffectiveStatus() {
		return fmt.Sprintf("OVERRIDE (%s→%s)", p.OriginalCIStatus, p.EffectiveStatus())
	}
	if p.HotSheetsStatus == nil {
		return "—"
	}
	if p.HotSheetsStatus.Status == p.ScannerCIStatus {
		return "ALIGNED"
	}
	return "DIVERGED"
}

// StructuralAsk is one of the five advocacy-lever nodes whose id begins
// "ask_", with the programs it advances and the barriers it mitigates.
type StructuralAsk struct {
	ID       string
	Name     string
	Programs []string
	Barriers []string
}

// StructuralAsks implements spec.md §4.8 step 5's graph query.
func StructuralAsks(g *kg.Graph) []StructuralAsk {
	var asks []StructuralAsk
	for _, n := range g.NodesByType(model.NodeAdvocacyLever) {
		if !strings.HasPrefix(n.ID, model.PrefixStructuralAsk) {
			continue
		}
		ask := StructuralAsk{ID: n.ID}
		ask.Name, _ = n.Attrs["name"].(string)

		for _, e := range g.Edges(n.ID, model.EdgeAdvances, kg.DirOut) {
			ask.Programs = append(ask.Programs, e.TargetID)
		}
		for _, e := range g.Edges(n.ID, model.EdgeMitigatedBy, kg.DirIn) {
			ask.Barriers = append(ask.Barriers, e.SourceID)
		}
		sort.Strings(ask.Programs)
		sort.Strings(ask.Barriers)
		asks = append(asks, ask)
	}
	sort.Slice(asks, func(i, j int) bool { return asks[i].ID < asks[j].ID })
	return asks
}

// Input bundles everything RenderMarkdown/RenderJSON need for one run.
type Input struct {
	ScanDate        time.Time
	Programs        map[string]*model.Program
	Items           []model.ScoredItem
	Changes         changedetect.Result
	Graph           *kg.Graph
	Alerts          []model.Alert
	Classifications []model.Classification
	History         []HistoryEntry
	TrendWindow     int
	DeltaThreshold  float64
}

// RenderMarkdown renders the briefing in the fixed section order from
// spec.md §6: a title header, 14 "##" sections, and a footer.
// Every section listed there is always emitted, even when empty, per
// spec.md §4.8 step 4.
func RenderMarkdown(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# TCR Policy Scanner Briefing — %s\n\n", in.ScanDate.Format("2006-01-02"))

	fmt.Fprintf(&b, "## Executive Summary\n\n")
	fmt.Fprintf(&b, "%d programs tracked, %d new items, %d changed items, %d alerts.\n\n",
		len(in.Programs), len(in.Changes.New), len(in.Changes.Changed), len(in.Alerts))

	renderAlertSection(&b, "Reconciliation Watch", in.Alerts, "reconciliation")
	renderAlertSection(&b, "IIJA Countdown", in.Alerts, "iija_sunset")

	fmt.Fprintf(&b, "## New Developments\n\n")
	if len(in.Changes.New) == 0 {
		fmt.Fprintf(&b, "No new items detected.\n\n")
	} else {
		for _, item := range in.Changes.New {
			fmt.Fprintf(&b, "- [%s] %s\n", item.Source, item.Title)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Critical Updates\n\n")
	criticalCount := 0
	for _, a := range in.Alerts {
		if a.Severity == model.SeverityCritical {
			fmt.Fprintf(&b, "- **%s**: %s\n", a.Title, a.Detail)
			criticalCount++
		}
	}
	if criticalCount == 0 {
		fmt.Fprintf(&b, "No active threats detected.\n\n")
	} else {
		b.WriteString("\n")
	}

	renderCIDashboard(&b, in.Programs)

	renderFlaggedDetail(&b, in.Programs)

	renderAdvocacyGoals(&b, in.Classifications)

	renderStructuralAsks(&b, in.Graph)

	renderBarriersAndAuthorities(&b, in.Graph)

	fmt.Fprintf(&b, "## Active Advocacy Levers\n\n")
	levers := in.Graph.NodesByType(model.NodeAdvocacyLever)
	if len(levers) == 0 {
		fmt.Fprintf(&b, "No advocacy levers configured.\n\n")
	} else {
		for _, l := range levers {
			name, _ := l.Attrs["name"].(string)
			fmt.Fprintf(&b, "- %s (%s)\n", name, l.ID)
		}
		b.WriteString("\n")
	}

	renderCITrends(&b, in.History, in.TrendWindow, in.DeltaThreshold)

	fmt.Fprintf(&b, "## All Items\n\n")
	allItems := append(append(append([]model.ScoredItem{}, in.Changes.New...), in.Changes.Changed...), in.Changes.Existing...)
	sort.Slice(allItems, func(i, j int) bool { return allItems[i].SourceID < allItems[j].SourceID })
	for _, item := range allItems {
		fmt.Fprintf(&b, "- [%s] %s (score %.2f)\n", item.Source, item.Title, item.Score)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "---\n\nGenerated %s\n", in.ScanDate.Format(time.RFC3339))

	return b.String()
}

func renderAlertSection(b *strings.Builder, title string, alerts []model.Alert, monitor string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	found := false
	for _, a := range alerts {
		if a.Monitor != monitor {
			continue
		}
		fmt.Fprintf(b, "- [%s] %s: %s\n", a.Severity, a.Title, a.Detail)
		found = true
	}
	if !found {
		fmt.Fprintf(b, "No active threats detected.\n")
	}
	b.WriteString("\n")
}

func renderCIDashboard(b *strings.Builder, programs map[string]*model.Program) {
	fmt.Fprintf(b, "## CI Dashboard\n\n")
	fmt.Fprintf(b, "| Program | CI | Status | Hot Sheets |\n|---|---|---|---|\n")
	for _, id := range sortedProgramIDs(programs) {
		p := programs[id]
		fmt.Fprintf(b, "| %s | %.2f | %s | %s |\n", p.Name, p.ConfidenceIndex, p.EffectiveStatus(), HotSheetsSync(*p))
	}
	b.WriteString("\n")
}

func renderFlaggedDetail(b *strings.Builder, programs map[string]*model.Program) {
	fmt.Fprintf(b, "## FLAGGED Detail\n\n")
	any := false
	for _, id := range sortedProgramIDs(programs) {
		p := programs[id]
		if p.EffectiveStatus() != model.CIFlagged {
			continue
		}
		fmt.Fprintf(b, "- **%s**: %s\n", p.Name, p.CIDetermination)
		any = true
	}
	if !any {
		fmt.Fprintf(b, "No FLAGGED programs.\n")
	}
	b.WriteString("\n")
}

func renderAdvocacyGoals(b *strings.Builder, classifications []model.Classification) {
	fmt.Fprintf(b, "## Advocacy Goals\n\n")
	if len(classifications) == 0 {
		fmt.Fprintf(b, "No classifications available.\n\n")
		return
	}
	byGoal := map[model.AdvocacyGoal][]string{}
	for _, c := range classifications {
		if c.AdvocacyGoal == nil {
			continue
		}
		byGoal[*c.AdvocacyGoal] = append(byGoal[*c.AdvocacyGoal], c.ProgramID)
	}
	for _, goal := range []model.AdvocacyGoal{
		model.GoalUrgentStabilization, model.GoalRestoreReplace, model.GoalProtectBase,
		model.GoalDirectAccessParity, model.GoalExpandStrengthen,
	} {
		ids := byGoal[goal]
		sort.Strings(ids)
		fmt.Fprintf(b, "- **%s**: %s\n", model.GoalLabel[goal], strings.Join(ids, ", "))
	}
	b.WriteString("\n")
}

func renderStructuralAsks(b *strings.Builder, g *kg.Graph) {
	fmt.Fprintf(b, "## Five Structural Asks\n\n")
	asks := StructuralAsks(g)
	if len(asks) == 0 {
		fmt.Fprintf(b, "No structural asks configured.\n\n")
		return
	}
	for _, a := range asks {
		fmt.Fprintf(b, "- **%s** — advances %s; mitigates %s\n", a.Name, strings.Join(a.Programs, ", "), strings.Join(a.Barriers, ", "))
	}
	b.WriteString("\n")
}

func renderBarriersAndAuthorities(b *strings.Builder, g *kg.Graph) {
	fmt.Fprintf(b, "## Barriers\n\n")
	barriers := g.NodesByType(model.NodeBarrier)
	if len(barriers) == 0 {
		fmt.Fprintf(b, "No barriers tracked.\n\n")
	} else {
		for _, bar := range barriers {
			name, _ := bar.Attrs["name"].(string)
			severity, _ := bar.Attrs["severity"].(string)
			fmt.Fprintf(b, "- %s (%s)\n", name, severity)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(b, "## Authorities\n\n")
	authorities := g.NodesByType(model.NodeAuthority)
	if len(authorities) == 0 {
		fmt.Fprintf(b, "No authorities tracked.\n\n")
	} else {
		for _, a := range authorities {
			name, _ := a.Attrs["name"].(string)
			durability, _ := a.Attrs["durability"].(string)
			fmt.Fprintf(b, "- %s (%s)\n", name, durability)
		}
		b.WriteString("\n")
	}
}

func renderCITrends(b *strings.Builder, history []HistoryEntry, window int, deltaThreshold float64) {
	fmt.Fprintf(b, "## CI Trends\n\n")
	rows := TrendTable(history, window, deltaThreshold)
	if len(rows) == 0 {
		fmt.Fprintf(b, "No trend history yet.\n\n")
		return
	}
	for _, r := range rows {
		fmt.Fprintf(b, "- %s: %s\n", r.ProgramID, r.Summary)
	}
	b.WriteString("\n")
}

func sortedProgramIDs(programs map[string]*model.Program) []string {
	ids := make([]string, 0, len(programs))
	for id := range programs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
