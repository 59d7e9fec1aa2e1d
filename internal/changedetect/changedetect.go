// Package changedetect diffs the current scan against the last persisted
// snapshot, classifying each item as new, changed, or existing. Grounded on
// the teacher's normalize.Mapper.DetectChanges hash-map diffing, generalized
// from a single content hash to a field-comparison diff since spec.md §4.2
// requires comparing title/abstract/action_text/extras individually rather
// than one opaque content hash.
package changedetect

import (
	"encoding/json"
	"log/slog"

	"github.com/atniclimate/tcr-policy-scanner/internal/atomicio"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// Result buckets every item from the current scan.
type Result struct {
	New      []model.ScoredItem
	Changed  []model.ScoredItem
	Existing []model.ScoredItem
}

// snapshotKey renders an identity key as a stable map key.
func snapshotKey(k [2]string) string { return k[0] + "\x00" + k[1] }

// snapshotEntry is the subset of a ScoredItem persisted for diffing.
type snapshotEntry struct {
	Title      string         `json:"title"`
	Abstract   string         `json:"abstract"`
	ActionText string         `json:"action_text"`
	Extras     map[string]any `json:"extras"`
}

func toEntry(item model.ScoredItem) snapshotEntry {
	return snapshotEntry{
		Title:      item.Title,
		Abstract:   item.Abstract,
		ActionText: item.ActionText,
		Extras:     item.Extras,
	}
}

func (e snapshotEntry) equal(o snapshotEntry) bool {
	if e.Title != o.Title || e.Abstract != o.Abstract || e.ActionText != o.ActionText {
		return false
	}
	ea, _ := json.Marshal(e.Extras)
	oa, _ := json.Marshal(o.Extras)
	return string(ea) == string(oa)
}

// Detector compares scans against a persisted snapshot file.
type Detector struct {
	snapshotPath string
	logger       *slog.Logger
}

func New(snapshotPath string, logger *slog.Logger) *Detector {
	return &Detector{snapshotPath: snapshotPath, logger: logger}
}

// Diff classifies current against the last persisted snapshot, then writes
// the new full snapshot atomically. If the snapshot is missing or
// unparseable, every item is classified "new" and a warning is logged
// (spec.md §4.2, §7 CacheCorruption) — never fatal.
func (d *Detector) Diff(current []model.ScoredItem) Result {
	prior := map[string]snapshotEntry{}
	ok, _ := atomicio.ReadJSONOrDefault(d.snapshotPath, &prior)
	if !ok {
		d.logger.Warn("change snapshot missing or unparseable, classifying all items as new", "path", d.snapshotPath)
		prior = map[string]snapshotEntry{}
	}

	var result Result
	next := make(map[string]snapshotEntry, len(current))

	for _, item := range current {
		key := snapshotKey(item.IdentityKey())
		entry := toEntry(item)
		next[key] = entry

		priorEntry, existed := prior[key]
		switch {
		case !existed:
			result.New = append(result.New, item)
		case !priorEntry.equal(entry):
			result.Changed = append(result.Changed, item)
		default:
			result.Existing = append(result.Existing, item)
		}
	}

	if err := atomicio.WriteJSON(d.snapshotPath, next); err != nil {
		d.logger.Error("failed to persist change snapshot", "error", err)
	}

	return result
}
