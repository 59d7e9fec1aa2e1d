// Package config loads and validates scanner_config.json into a single
// struct with defaults materialized at parse time, replacing the duck-typed
// getattr/.get() pattern spec.md §9 calls out: the rest of the system
// consumes *Config by reference and never re-reads the file.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RelevanceConfig holds the five weighted scoring factors; weights must sum
// to 1.0 (checked by Validate, not by the JSON schema, since a cross-field
// sum constraint doesn't express well in JSON Schema).
type RelevanceConfig struct {
	Threshold      float64            `json:"threshold"`
	MatchThreshold float64            `json:"match_threshold"`
	Weights        map[string]float64 `json:"weights"`
}

// IIJASunsetConfig configures the IIJA sunset monitor.
type IIJASunsetConfig struct {
	WarningDays  int    `json:"warning_days"`
	CriticalDays int    `json:"critical_days"`
	FY26End      string `json:"fy26_end"` // RFC3339 date, e.g. "2026-09-30"
}

// ReconciliationConfig configures the reconciliation-threat monitor.
type ReconciliationConfig struct {
	Keywords           []string `json:"keywords"`
	ActiveBillStatuses []string `json:"active_bill_statuses"`
	EnactedLawsExclude []string `json:"enacted_laws_exclude"`
}

// DHSFundingConfig configures the FEMA continuing-resolution cliff monitor.
type DHSFundingConfig struct {
	CRExpiration   string   `json:"cr_expiration"`
	FEMAProgramIDs []string `json:"fema_program_ids"`
	WarningDays    int      `json:"warning_days"`
}

// HotSheetsConfig configures HotSheetsValidator's staleness check.
type HotSheetsConfig struct {
	StalenessDays int `json:"staleness_days"`
}

// TribalConsultationConfig configures the consultation-signal monitor.
type TribalConsultationConfig struct {
	Keywords    []string `json:"keywords"`
	AgencySlugs []string `json:"agency_slugs"`
}

// DecisionEngineConfig configures rule thresholds for the decision engine.
type DecisionEngineConfig struct {
	UrgencyThresholdDays int `json:"urgency_threshold_days"`
}

// MonitorsConfig groups every monitor's configuration.
type MonitorsConfig struct {
	IIJASunset         IIJASunsetConfig         `json:"iija_sunset"`
	Reconciliation     ReconciliationConfig     `json:"reconciliation"`
	DHSFunding         DHSFundingConfig         `json:"dhs_funding"`
	HotSheets          HotSheetsConfig          `json:"hot_sheets"`
	TribalConsultation TribalConsultationConfig `json:"tribal_consultation"`
	DecisionEngine     DecisionEngineConfig     `json:"decision_engine"`
}

// ReporterConfig configures CI-history rendering.
type ReporterConfig struct {
	CIHistoryCap   int     `json:"ci_history_cap"`
	DeltaThreshold float64 `json:"delta_threshold"`
	TrendWindow    int     `json:"trend_window"`
}

// PacketsConfig configures per-Tribe packet output.
type PacketsConfig struct {
	OutputDir           string              `json:"output_dir"`
	StateDir            string              `json:"state_dir"`
	MaxRelevantPrograms int                 `json:"max_relevant_programs"`
	AlwaysInclude       []string            `json:"always_include"`
	HazardToProgram     map[string][]string `json:"hazard_to_program"`
}

// Config is the fully validated scanner configuration, loaded once at
// startup from scanner_config.json.
type Config struct {
	ScanWindowDays int              `json:"scan_window_days"`
	Relevance      RelevanceConfig  `json:"relevance"`
	Monitors       MonitorsConfig   `json:"monitors"`
	Reporter       ReporterConfig   `json:"reporter"`
	Packets        PacketsConfig    `json:"packets"`
}

// Default returns a Config with every spec.md-documented default value
// materialized, used when scanner_config.json omits a section entirely.
func Default() *Config {
	return &Config{
		ScanWindowDays: 14,
		Relevance: RelevanceConfig{
			Threshold:      0.3,
			MatchThreshold: 0.4,
			Weights: map[string]float64{
				"keyword_hit_density":  0.30,
				"cfda_exact_match":     0.25,
				"agency_co_occurrence": 0.15,
				"program_name_mention": 0.20,
				"temporal_freshness":   0.10,
			},
		},
		Monitors: MonitorsConfig{
			IIJASunset: IIJASunsetConfig{
				WarningDays:  180,
				CriticalDays: 90,
				FY26End:      "2026-09-30",
			},
			Reconciliation: ReconciliationConfig{
				Keywords:           []string{"rescission", "rescind", "repeal", "eliminate funding"},
				ActiveBillStatuses: []string{"introduced", "committee", "floor", "conference"},
				EnactedLawsExclude: []string{"Public Law 119-21"},
			},
			DHSFunding: DHSFundingConfig{
				WarningDays: 60,
			},
			HotSheets: HotSheetsConfig{
				StalenessDays: 90,
			},
			TribalConsultation: TribalConsultationConfig{
				Keywords: []string{"dear tribal leader", "consultation", "executive order 13175", "eo 13175"},
			},
			DecisionEngine: DecisionEngineConfig{
				UrgencyThresholdDays: 30,
			},
		},
		Reporter: ReporterConfig{
			CIHistoryCap:   90,
			DeltaThreshold: 0.02,
			TrendWindow:    10,
		},
		Packets: PacketsConfig{
			OutputDir:           "packets",
			StateDir:            "packet_state",
			MaxRelevantPrograms: 12,
			AlwaysInclude:       []string{},
			HazardToProgram:     map[string][]string{},
		},
	}
}

// ConfigError wraps every fatal config-load failure: missing file, invalid
// JSON, schema violation, or a cross-field constraint (weights summing to
// something other than 1.0).
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Load reads and validates scanner_config.json at path against
// schema (skipped when schema is nil), overlaying it on Default() so omitted sections keep their
// default values. A schema violation or a weights-sum violation is a fatal
// ConfigError.
func Load(path string, schema *jsonschema.Schema) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("invalid json: %w", err)}
	}
	if schema != nil {
		if err := schema.Validate(doc); err != nil {
			return nil, &ConfigError{Path: path, Err: fmt.Errorf("schema validation: %w", err)}
		}
	}

	cfg := Default()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

// Validate checks cross-field constraints the JSON schema cannot express.
func (c *Config) Validate() error {
	sum := 0.0
	for _, w := range c.Relevance.Weights {
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("relevance.weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

// CompileSchema compiles the embedded scanner_config.json schema from its
// bytes. Callers typically pass the result to Load.
func CompileSchema(schemaJSON []byte) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("scanner_config.json", mustJSONReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("config: add schema resource: %w", err)
	}
	return c.Compile("scanner_config.json")
}
