// Package report renders the Markdown briefing and its JSON mirror.
// Grounded on the teacher's reporting/render.go section-ordered template
// composition and its changedetect-style append-only cached-history
// pattern, generalized here from compliance evidence history to per-program
// CI history.
package report

import (
	"sort"

	"github.com/atniclimate/tcr-policy-scanner/internal/atomicio"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// HistoryCap is the default append-only history cap (spec.md §4.8).
const HistoryCap = 90

// ProgramCI is one program's CI snapshot at one point in history.
type ProgramCI struct {
	CI     float64  `json:"ci"`
	Status string   `json:"status"`
}

// HistoryEntry is one append-only snapshot of every program's CI.
type HistoryEntry struct {
	Timestamp string               `json:"timestamp"`
	Programs  map[string]ProgramCI `json:"programs"`
}

// AppendCIHistory loads path's history, appends a fresh entry for
// timestamp unless the most recent entry already carries that exact
// timestamp (idempotent on same-timestamp re-render), caps the list at cap
// entries (keeping the most recent), persists it atomically, and returns
// the resulting history.
func AppendCIHistory(path string, programs map[string]*model.Program, timestamp string, historyCap int) ([]HistoryEntry, error) {
	if historyCap <= 0 {
		historyCap = HistoryCap
	}

	var history []HistoryEntry
	ok, _ := atomicio.ReadJSONOrDefault(path, &history)
	if !ok {
		history = nil
	}

	if len(history) > 0 && history[len(history)-1].Timestamp == timestamp {
		return history, nil
	}

	entry := HistoryEntry{Timestamp: timestamp, Programs: make(map[string]ProgramCI, len(programs))}
	ids := make([]string, 0, len(programs))
	for id := range programs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := programs[id]
		entry.Programs[id] = ProgramCI{CI: p.ConfidenceIndex, Status: string(p.EffectiveStatus())}
	}

	history = append(history, entry)
	if len(history) > historyCap {
		history = history[len(history)-historyCap:]
	}

	if err := atomicio.WriteJSON(path, history); err != nil {
		return nil, err
	}
	return history, nil
}

// TrendRow is one program's rendered trend-table line.
type TrendRow struct {
	ProgramID string
	Stable    bool
	Summary   string // e.g. "STABLE" or "STABLE -> AT_RISK -> AT_RISK"
}

// TrendTable renders up to the last window entries of history into one row
// per program: a program whose CI range across the window is less than
// deltaThreshold collapses into a single "STABLE" summary line; any other
// program gets its status sequence joined by " -> ".
func TrendTable(history []HistoryEntry, window int, deltaThreshold float64) []TrendRow {
	if window <= 0 || window > len(history) {
		window = len(history)
	}
	recent := history
	if window > 0 {
		recent = history[len(history)-window:]
	}

	series := map[string][]float64{}
	statusSeries := map[string][]string{}
	for _, entry := range recent {
		ids := make([]string, 0, len(entry.Programs))
		for id := range entry.Programs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			series[id] = append(series[id], entry.Programs[id].CI)
			statusSeries[id] = append(statusSeries[id], entry.Programs[id].Status)
		}
	}

	ids := make([]string, 0, len(series))
	for id := range series {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]TrendRow, 0, len(ids))
	for _, id := range ids {
		vals := series[id]
		lo, hi := vals[0], vals[0]
		for _, v := range vals {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if hi-lo < deltaThreshold {
			rows = append(rows, TrendRow{ProgramID: id, Stable: true, Summary: "STABLE"})
			continue
		}
		summary := ""
		for i, status := range statusSeries[id] {
			if i > 0 {
				summary += " -> "
			}
			summary += status
		}
		rows = append(rows, TrendRow{ProgramID: id, Stable: false, Summary: summary})
	}
	return rows
}
