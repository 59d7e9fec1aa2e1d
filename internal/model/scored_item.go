// Package model holds the value objects shared across every stage of the
// pipeline: Adapters → Normalizer → ChangeDetector → RelevanceScorer →
// GraphBuilder → MonitorRunner → DecisionEngine → {ReportGenerator, PacketOrchestrator}.
//
// Most types here have a fixed field set. Untyped map[string]any bags
// remain in four places: ScoredItem/RawItem Extras (per-source fields, read
// by the normalizer and the reconciliation monitor), Node.Attrs,
// Edge.Metadata and Alert.Metadata.
package model

import "time"

// Source identifies which federal adapter produced a ScoredItem.
type Source string

const (
	SourceLegislative Source = "legislative"
	SourceRegulatory  Source = "regulatory"
	SourceGrants      Source = "grants"
	SourceSpending    Source = "spending"
)

// Tier is the source-reliability tier used to seed a ConfidenceScore.
type Tier string

const (
	T1 Tier = "T1"
	T2 Tier = "T2"
	T3 Tier = "T3"
	T4 Tier = "T4"
	T5 Tier = "T5"
	T6 Tier = "T6"
)

// BaseTierScore is the tier's base confidence score before freshness decay
// and cross-reference bonus are applied.
var BaseTierScore = map[Tier]float64{
	T1: 1.00,
	T2: 0.95,
	T3: 0.85,
	T4: 0.70,
	T5: 0.60,
	T6: 0.00,
}

// ConfidenceScore is final = clamp(base_tier_score * freshness * cross_ref_bonus, 0, 1).
type ConfidenceScore struct {
	Tier          Tier      `json:"tier"`
	Freshness     float64   `json:"freshness"`
	CrossRefBonus float64   `json:"cross_ref_bonus"`
	Final         float64   `json:"final"`
	Source        string    `json:"source"`
	AsOf          time.Time `json:"as_of"`
}

// ScoredItem is the canonical cross-source record every adapter's RawItem
// normalizes into. Identity for dedup is (Source, SourceID).
type ScoredItem struct {
	Source          Source            `json:"source"`
	SourceID        string            `json:"source_id"`
	Title           string            `json:"title"`
	Abstract        string            `json:"abstract"`
	URL             string            `json:"url"`
	PublishedAt     *time.Time        `json:"published_at"`
	ActionText      string            `json:"action_text,omitempty"`
	Score           float64           `json:"score"`
	MatchedPrograms []string          `json:"matched_programs"`
	CFDA            *string           `json:"cfda"`
	Extras          map[string]any    `json:"extras,omitempty"`
	Confidence      ConfidenceScore   `json:"_confidence"`
}

// IdentityKey returns the dedup/diff identity for an item.
func (s ScoredItem) IdentityKey() [2]string {
	return [2]string{string(s.Source), s.SourceID}
}

// RawItem is what an Adapter.Fetch returns before normalization: a minimally
// typed shell plus a source-specific Extras bag.
type RawItem struct {
	Source      Source
	SourceID    string
	Title       string
	Abstract    string
	URL         string
	PublishedAt *time.Time
	ActionText  string
	Agency      string
	DocumentType string
	CFDA        *string
	Extras      map[string]any
}

// AdapterSourceTier maps each source to its default normalizer tier (spec §4.1).
var AdapterSourceTier = map[Source]Tier{
	SourceLegislative: T1,
	SourceSpending:    T1,
	SourceRegulatory:  T3,
	SourceGrants:      T3,
}
