// Package packet implements per-Tribe packet change tracking and context
// assembly. Grounded on the teacher's changedetect.Detector snapshot-diff
// shape (persisted-snapshot, compare, rewrite), here keyed per Tribe instead
// of per scored item, plus a path-traversal guard mirroring the teacher's
// artifacts.FileStore key-sanitization check.
package packet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atniclimate/tcr-policy-scanner/internal/atomicio"
)

// MaxSnapshotBytes caps a single packet-state read (spec.md §4.9: "File size
// cap 10 MB on read").
const MaxSnapshotBytes = 10 * 1024 * 1024

// ChangeType enumerates the five diff categories spec.md §4.9 names.
type ChangeType string

const (
	ChangeCIStatus      ChangeType = "ci_status_change"
	ChangeNewAward      ChangeType = "new_award"
	ChangeAwardTotal    ChangeType = "award_total_change"
	ChangeAdvocacyGoal  ChangeType = "advocacy_goal_shift"
	ChangeNewThreat     ChangeType = "new_threat"
)

// Change is one detected difference between two packet snapshots.
type Change struct {
	Type    ChangeType `json:"type"`
	Detail  string     `json:"detail"`
	Program string     `json:"program_id,omitempty"`
}

// ProgramState is the per-program slice of a Tribe snapshot used for diffing.
type ProgramState struct {
	CIStatus     string `json:"ci_status"`
	AdvocacyGoal string `json:"advocacy_goal"`
}

// Snapshot is the persisted per-Tribe state spec.md §4.9 defines.
type Snapshot struct {
	TribeID         string                   `json:"tribe_id"`
	GeneratedAt     string                   `json:"generated_at"`
	ProgramStates   map[string]ProgramState  `json:"program_states"`
	TotalAwards     int                      `json:"total_awards"`
	TotalObligation float64                  `json:"total_obligation"`
	TopHazards      []string                 `json:"top_hazards"`
	AdvocacyGoal    string                   `json:"advocacy_goal"`
}

// PathTraversalError is raised when a tribe id would escape the configured
// state directory.
type PathTraversalError struct {
	TribeID string
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("packet: rejected tribe id %q: path traversal", e.TribeID)
}

// Tracker persists and diffs per-Tribe snapshots under stateDir.
type Tracker struct {
	stateDir string
}

func NewTracker(stateDir string) *Tracker { return &Tracker{stateDir: stateDir} }

// pathFor validates tribeID and returns its snapshot path. A tribe id must
// equal its own last path segment and contain no "." or ".." component,
// per spec.md §4.9.
func (t *Tracker) pathFor(tribeID string) (string, error) {
	sanitized := filepath.Base(tribeID)
	if sanitized != tribeID || strings.Contains(tribeID, ".") {
		return "", &PathTraversalError{TribeID: tribeID}
	}
	return filepath.Join(t.stateDir, sanitized+".json"), nil
}

// Load reads a Tribe's last persisted snapshot. A missing or oversized file
// returns ok=false (CacheCorruption-class: treated as empty, never fatal).
func (t *Tracker) Load(tribeID string) (Snapshot, bool, error) {
	path, err := t.pathFor(tribeID)
	if err != nil {
		return Snapshot{}, false, err
	}

	info, statErr := os.Stat(path)
	if statErr != nil {
		return Snapshot{}, false, nil
	}
	if info.Size() > MaxSnapshotBytes {
		return Snapshot{}, false, nil
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return Snapshot{}, false, nil
	}
	var snap Snapshot
	if jsonErr := json.Unmarshal(data, &snap); jsonErr != nil {
		return Snapshot{}, false, nil
	}
	return snap, true, nil
}

// Store persists snap atomically, overwriting any prior snapshot.
func (t *Tracker) Store(snap Snapshot) error {
	path, err := t.pathFor(snap.TribeID)
	if err != nil {
		return err
	}
	return atomicio.WriteJSON(path, snap)
}

// Diff compares a freshly computed snapshot against the last persisted one
// for the same Tribe, emitting one Change per detected difference across
// the five categories spec.md §4.9 names. A missing prior snapshot yields no
// changes (there is nothing to diff against yet).
func Diff(prior Snapshot, next Snapshot, hadPrior bool) []Change {
	if !hadPrior {
		return nil
	}

	var changes []Change

	for programID, nextState := range next.ProgramStates {
		priorState, existed := prior.ProgramStates[programID]
		if !existed {
			continue
		}
		if priorState.CIStatus != nextState.CIStatus {
			changes = append(changes, Change{
				Type:    ChangeCIStatus,
				Program: programID,
				Detail:  fmt.Sprintf("%s: %s -> %s", programID, priorState.CIStatus, nextState.CIStatus),
			})
		}
	}

	if next.TotalAwards > prior.TotalAwards {
		changes = append(changes, Change{
			Type:   ChangeNewAward,
			Detail: fmt.Sprintf("total_awards %d -> %d", prior.TotalAwards, next.TotalAwards),
		})
	}
	if next.TotalObligation != prior.TotalObligation {
		changes = append(changes, Change{
			Type:   ChangeAwardTotal,
			Detail: fmt.Sprintf("total_obligation %.2f -> %.2f", prior.TotalObligation, next.TotalObligation),
		})
	}
	if next.AdvocacyGoal != prior.AdvocacyGoal {
		changes = append(changes, Change{
			Type:   ChangeAdvocacyGoal,
			Detail: fmt.Sprintf("advocacy_goal %s -> %s", prior.AdvocacyGoal, next.AdvocacyGoal),
		})
	}

	priorThreats := map[string]bool{}
	for id, s := range prior.ProgramStates {
		if s.CIStatus == "AT_RISK" || s.CIStatus == "FLAGGED" {
			priorThreats[id] = true
		}
	}
	for id, s := range next.ProgramStates {
		if (s.CIStatus == "AT_RISK" || s.CIStatus == "FLAGGED") && !priorThreats[id] {
			changes = append(changes, Change{Type: ChangeNewThreat, Program: id, Detail: fmt.Sprintf("%s newly %s", id, s.CIStatus)})
		}
	}

	return changes
}
