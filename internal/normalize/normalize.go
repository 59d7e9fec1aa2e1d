// Package normalize flattens RawItems from every adapter into uniform
// ScoredItem shells and assigns the source-tier confidence spec.md §4.1
// prescribes, downgrading any text-extracted field to T3 regardless of
// source tier.
package normalize

import (
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/confidence"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// textExtractedMarker is the RawItem.Extras key whose value true signals a
// field was pulled out of free text (e.g. a dollar amount parsed from an
// abstract) rather than taken directly from a structured source field.
// Per spec.md §4.1 such items degrade to T3 regardless of source tier.
const textExtractedMarker = "_text_extracted"

// Normalize converts one RawItem into a ScoredItem shell. Score and
// MatchedPrograms are left at their zero values; RelevanceScorer populates
// them in the next stage.
func Normalize(raw model.RawItem, now time.Time) model.ScoredItem {
	tier := model.AdapterSourceTier[raw.Source]
	if tier == "" {
		tier = model.T6
	}
	if textExtracted(raw) {
		tier = model.T3
	}

	item := model.ScoredItem{
		Source:      raw.Source,
		SourceID:    raw.SourceID,
		Title:       raw.Title,
		Abstract:    raw.Abstract,
		URL:         raw.URL,
		PublishedAt: raw.PublishedAt,
		ActionText:  raw.ActionText,
		CFDA:        raw.CFDA,
		Extras:      raw.Extras,
	}

	// sourceCount is always 1: no stage of the pipeline counts corroborating
	// sources across adapters, so the cross-reference bonus stays 1.0.
	item.Confidence = confidence.Score(tier, raw.PublishedAt, now, 1, string(raw.Source))
	return item
}

func textExtracted(raw model.RawItem) bool {
	if raw.Extras == nil {
		return false
	}
	v, ok := raw.Extras[textExtractedMarker]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// NormalizeAll normalizes a batch of RawItems in source order.
func NormalizeAll(raws []model.RawItem, now time.Time) []model.ScoredItem {
	out := make([]model.ScoredItem, 0, len(raws))
	for _, r := range raws {
		out = append(out, Normalize(r, now))
	}
	return out
}
