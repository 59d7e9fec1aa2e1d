// Package relevance assigns each ScoredItem a [0,1] score and a set of
// matched program ids, using five weighted factors whose weights come from
// config and must sum to 1.0 (internal/config.RelevanceConfig.Weights).
// Grounded on the teacher's ScorecardBuilder weighted-dimension averaging,
// generalized from "competitor vs dimension" to "item vs program".
package relevance

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/atniclimate/tcr-policy-scanner/internal/config"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// Program is the subset of model.Program the scorer needs.
type Program struct {
	ID       string
	Name     string
	Agency   string
	CFDA     string
	Keywords []string
}

// Factor names, matching config.RelevanceConfig.Weights keys.
const (
	FactorKeywordHitDensity  = "keyword_hit_density"
	FactorCFDAExactMatch     = "cfda_exact_match"
	FactorAgencyCoOccurrence = "agency_co_occurrence"
	FactorProgramNameMention = "program_name_mention"
	FactorTemporalFreshness  = "temporal_freshness"
)

const (
	decayStartDays = 30.0
	decayEndDays   = 90.0
)

// Scorer evaluates ScoredItems against the tracked program inventory.
type Scorer struct {
	programs []Program
	cfg      config.RelevanceConfig
	now      func() time.Time
}

func New(programs []Program, cfg config.RelevanceConfig) *Scorer {
	return &Scorer{programs: programs, cfg: cfg, now: time.Now}
}

// WithClock overrides the scorer's notion of "now", for deterministic tests
// of temporal freshness.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// perProgramScore is an intermediate result before the item-level score and
// matched-program set are derived.
type perProgramScore struct {
	programID string
	score     float64
	cfdaHit   bool
}

// Score computes item.Score and item.MatchedPrograms in place, returning
// the updated item. Tie-breaks among matched programs are alphabetical by
// program id (spec.md §4.3); callers that need a sorted MatchedPrograms
// slice get one directly from this function.
func (s *Scorer) Score(item model.ScoredItem) model.ScoredItem {
	text := strings.ToLower(item.Title + " " + item.Abstract)
	freshness := s.temporalFreshness(item.PublishedAt)

	var perProgram []perProgramScore
	best := 0.0

	for _, p := range s.programs {
		keywordDensity := keywordHitDensity(text, p.Keywords)
		cfdaMatch := cfdaExactMatch(item.CFDA, p.CFDA)
		agencyHit := agencyCoOccurrence(text, p.Agency)
		nameHit := programNameMention(text, p.Name)

		weighted := keywordDensity*s.weight(FactorKeywordHitDensity) +
			boolFactor(cfdaMatch)*s.weight(FactorCFDAExactMatch) +
			boolFactor(agencyHit)*s.weight(FactorAgencyCoOccurrence) +
			boolFactor(nameHit)*s.weight(FactorProgramNameMention) +
			freshness*s.weight(FactorTemporalFreshness)

		perProgram = append(perProgram, perProgramScore{programID: p.ID, score: weighted, cfdaHit: cfdaMatch})
		if weighted > best {
			best = weighted
		}
	}

	matched := s.matchedPrograms(perProgram)
	item.Score = best
	item.MatchedPrograms = matched
	return item
}

// matchedPrograms implements spec.md §4.3: "any program contributing a
// nonzero CFDA match OR score >= match_threshold through keyword/name
// signal", tie-broken alphabetically by program id.
func (s *Scorer) matchedPrograms(scores []perProgramScore) []string {
	var matched []string
	for _, ps := range scores {
		if ps.cfdaHit || ps.score >= s.cfg.MatchThreshold {
			matched = append(matched, ps.programID)
		}
	}
	sort.Strings(matched)
	return matched
}

func (s *Scorer) weight(factor string) float64 {
	return s.cfg.Weights[factor]
}

func keywordHitDensity(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	hits := 0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}

func cfdaExactMatch(itemCFDA *string, programCFDA string) bool {
	if itemCFDA == nil || programCFDA == "" {
		return false
	}
	return strings.EqualFold(*itemCFDA, programCFDA)
}

func agencyCoOccurrence(text, agency string) bool {
	if agency == "" {
		return false
	}
	return strings.Contains(text, strings.ToLower(agency))
}

func programNameMention(text, name string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(text, strings.ToLower(name))
}

func boolFactor(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

// temporalFreshness is the same piecewise sigmoid decay used by the
// confidence layer (internal/confidence), scaled here to a [0,1] scoring
// contribution rather than a confidence multiplier.
func (s *Scorer) temporalFreshness(publishedAt *time.Time) float64 {
	if publishedAt == nil {
		return 0.0
	}
	ageDays := s.now().Sub(*publishedAt).Hours() / 24.0
	switch {
	case ageDays <= decayStartDays:
		return 1.0
	case ageDays >= decayEndDays:
		return 0.3
	default:
		mid := (decayStartDays + decayEndDays) / 2
		steepness := 10.0 / (decayEndDays - decayStartDays)
		sigmoid := 1.0 / (1.0 + math.Exp(steepness*(ageDays-mid)))
		return 0.3 + sigmoid*0.7
	}
}

// ScoreAll scores every item and drops those below cfg.Threshold, per
// spec.md §4.3.
func (s *Scorer) ScoreAll(items []model.ScoredItem) []model.ScoredItem {
	out := make([]model.ScoredItem, 0, len(items))
	for _, item := range items {
		scored := s.Score(item)
		if scored.Score >= s.cfg.Threshold {
			out = append(out, scored)
		}
	}
	return out
}
