package report

import (
	"github.com/atniclimate/tcr-policy-scanner/internal/changedetect"
	"github.com/atniclimate/tcr-policy-scanner/internal/kg"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// ResultsJSON is LATEST-RESULTS.json's shape (spec.md §6).
type ResultsJSON struct {
	ScanDate        string                    `json:"scan_date"`
	Summary         Summary                   `json:"summary"`
	ScanResults     []model.ScoredItem        `json:"scan_results"`
	Changes         changedetect.Result       `json:"changes"`
	KnowledgeGraph  kg.Serializable           `json:"knowledge_graph"`
	MonitorData     MonitorData               `json:"monitor_data"`
	Classifications []model.Classification    `json:"classifications"`
	CIHistory       []HistoryEntry            `json:"ci_history"`
}

// Summary is the briefing's top-line counts.
type Summary struct {
	ProgramCount int `json:"program_count"`
	NewCount     int `json:"new_count"`
	ChangedCount int `json:"changed_count"`
	AlertCount   int `json:"alert_count"`
}

// MonitorData is LATEST-MONITOR-DATA.json's shape.
type MonitorData struct {
	Alerts          []model.Alert          `json:"alerts"`
	Classifications []model.Classification `json:"classifications"`
	Summary         Summary                `json:"summary"`
}

// BuildResultsJSON assembles the ResultsJSON mirror from the same Input used
// to render the Markdown briefing.
func BuildResultsJSON(in Input, scanDate string) ResultsJSON {
	summary := Summary{
		ProgramCount: len(in.Programs),
		NewCount:     len(in.Changes.New),
		ChangedCount: len(in.Changes.Changed),
		AlertCount:   len(in.Alerts),
	}

	allItems := append(append(append([]model.ScoredItem{}, in.Changes.New...), in.Changes.Changed...), in.Changes.Existing...)

	return ResultsJSON{
		ScanDate:        scanDate,
		Summary:         summary,
		ScanResults:     allItems,
		Changes:         in.Changes,
		KnowledgeGraph:  in.Graph.ToSerializable(),
		MonitorData:     MonitorData{Alerts: in.Alerts, Classifications: in.Classifications, Summary: summary},
		Classifications: in.Classifications,
		CIHistory:       in.History,
	}
}
