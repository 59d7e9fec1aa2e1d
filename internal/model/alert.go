package model

import "time"

// Severity is an Alert's urgency bucket.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

// Alert is the output of a single monitor run.
type Alert struct {
	Monitor    string         `json:"monitor"`
	Severity   Severity       `json:"severity"`
	ProgramIDs []string       `json:"program_ids"`
	Title      string         `json:"title"`
	Detail     string         `json:"detail"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// CreatesThreatensEdge reports whether the runner should append a THREATENS
// edge per program_id once this alert is final.
func (a Alert) CreatesThreatensEdge() bool {
	v, ok := a.Metadata["creates_threatens_edge"]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
