package model

// EdgeType enumerates the directional relations the knowledge graph supports.
type EdgeType string

const (
	EdgeAuthorizedBy   EdgeType = "AUTHORIZED_BY"
	EdgeFundedBy       EdgeType = "FUNDED_BY"
	EdgeBlockedBy      EdgeType = "BLOCKED_BY"
	EdgeMitigatedBy    EdgeType = "MITIGATED_BY"
	EdgeObligatedBy    EdgeType = "OBLIGATED_BY"
	EdgeAdvances       EdgeType = "ADVANCES"
	EdgeTrustObligation EdgeType = "TRUST_OBLIGATION"
	EdgeThreatens      EdgeType = "THREATENS"
	EdgeRepresentedBy  EdgeType = "REPRESENTED_BY"
	EdgeInEcoregion    EdgeType = "IN_ECOREGION"
)

// NodeType tags every node kind the graph arena can hold.
type NodeType string

const (
	NodeProgram       NodeType = "program"
	NodeAuthority     NodeType = "authority"
	NodeFundingVehicle NodeType = "funding_vehicle"
	NodeBarrier       NodeType = "barrier"
	NodeAdvocacyLever NodeType = "advocacy_lever"
	NodeTrustSuperNode NodeType = "trust_super_node"
	NodeObligation    NodeType = "obligation"
	NodeThreat        NodeType = "threat"
)

// Node is the arena entry for any graph node. Kind-specific fields live in
// the Attrs bag, which callers read with direct type assertions; the arena
// itself stays a plain data container. Confidence carries the node's provenance score per
// spec.md §4.6: schema-seeded nodes (authorities, funding vehicles,
// barriers, advocacy levers, the trust super-node) are T5, and obligation
// nodes inherit the confidence of the spending item that produced them.
type Node struct {
	ID         string          `json:"id"`
	Type       NodeType        `json:"type"`
	Attrs      map[string]any  `json:"attrs"`
	Confidence ConfidenceScore `json:"confidence"`
}

// Edge is a directed, typed relation between two node ids. Metadata carries
// type-specific fields (days_remaining, deadline, description, severity, …).
type Edge struct {
	SourceID string         `json:"source_id"`
	TargetID string         `json:"target_id"`
	Type     EdgeType       `json:"type"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Authority well-known ID prefix, per spec.md §3.
const (
	PrefixAuthority     = "auth_"
	PrefixFundingVehicle = "fund_"
	PrefixBarrier       = "bar_"
	PrefixAdvocacyLever = "lever_"
	PrefixStructuralAsk = "ask_"
)

// TrustSuperNodeID is the singleton federal-trust-responsibility node id.
const TrustSuperNodeID = "FEDERAL_TRUST_RESPONSIBILITY"

// Obligation is a spending record folded into the graph as a node.
type Obligation struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Recipient string  `json:"recipient"`
	Date      string  `json:"date"`
	CFDA      string  `json:"cfda"`
}

// ThreatIdentity is (threat_type, program_id), the identity of a transient
// ThreatNode created per monitor alert with creates_threatens_edge=true.
type ThreatIdentity struct {
	ThreatType string
	ProgramID  string
}
