// Package monitors implements the five monitors spec.md §4.5 runs in fixed
// order, each producing typed Alerts and optionally declaring THREATENS
// edges via an alert's creates_threatens_edge metadata flag. Grounded on
// the teacher's regwatch package, which produces a typed RegChange per
// source poll; here each Monitor produces typed Alerts per graph/item scan
// instead of per network poll, since the scanner's monitors run over
// already-fetched in-memory state rather than a continuous feed.
package monitors

import (
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/kg"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// Monitor is one of the five fixed-order checks the runner executes.
type Monitor interface {
	Name() string
	Run(input Input) ([]model.Alert, error)
}

// Input is the read-only view every monitor receives. Programs is a
// pointer map so HotSheetsValidator can set EffectiveCIStatus/
// OriginalCIStatus in place without the rest of the monitors re-reading a
// snapshot (spec.md §9's two-field program record redesign).
type Input struct {
	Graph    *kg.Graph
	Items    []model.ScoredItem
	Programs map[string]*model.Program
	State    *State
	Now      time.Time
}

// State is the persisted cross-run state in .monitor_state.json.
type State struct {
	KnownDivergences map[string]bool `json:"known_divergences"`
	LastSeenAt       string          `json:"last_seen_at"`
}

func NewState() *State {
	return &State{KnownDivergences: map[string]bool{}}
}

// RunAll executes every monitor in fixed order (HotSheetsValidator first),
// isolating a single monitor's failure per spec.md §4.5/§7 MonitorError: an
// exception inside one monitor is caught and logged, and the others still
// run.
func RunAll(monitorList []Monitor, input Input) (alerts []model.Alert, errs map[string]error) {
	errs = map[string]error{}
	for _, m := range monitorList {
		got, err := runOneSafely(m, input)
		if err != nil {
			errs[m.Name()] = err
			continue
		}
		alerts = append(alerts, got...)
	}
	return alerts, errs
}

func runOneSafely(m Monitor, input Input) (alerts []model.Alert, err error) {
	defer func() {
		if r := recover(); r != nil {
			alerts = nil
			err = &MonitorError{Monitor: m.Name(), Cause: r}
		}
	}()
	return m.Run(input)
}

// MonitorError wraps a panic recovered from a single monitor. An error the
// monitor returns is recorded by RunAll as is, without this wrapper.
type MonitorError struct {
	Monitor string
	Cause   any
}

func (e *MonitorError) Error() string {
	return "monitor " + e.Monitor + " failed"
}
