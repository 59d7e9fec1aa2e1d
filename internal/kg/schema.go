package kg

import "github.com/atniclimate/tcr-policy-scanner/internal/model"

// Authority is a static schema node with id prefix "auth_".
type Authority struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Durability string `json:"durability"`
	Citation   string `json:"citation"`
}

// FundingVehicle is a static schema node with id prefix "fund_".
type FundingVehicle struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // e.g. "discretionary", "mandatory"
}

// Barrier is a static schema node with id prefix "bar_".
type Barrier struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Severity string `json:"severity"` // "High", "Medium", "Low"
}

// AdvocacyLever is a static schema node with id prefix "lever_" (program-
// scoped) or "ask_" (one of the Five Structural Asks).
type AdvocacyLever struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Relation is one static schema edge to seed at build time.
type Relation struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Type     model.EdgeType `json:"type"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Schema is the parsed contents of graph_schema.json.
type Schema struct {
	TrustBasis      string           `json:"trust_basis"`
	Authorities     []Authority      `json:"authorities"`
	FundingVehicles []FundingVehicle `json:"funding_vehicles"`
	Barriers        []Barrier        `json:"barriers"`
	AdvocacyLevers  []AdvocacyLever  `json:"advocacy_levers"`
	Relations       []Relation       `json:"relations"`
}
