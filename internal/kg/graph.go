// Package kg implements the knowledge graph: an arena keyed by node id plus
// an ordered edge list, replacing the cyclic node<->edge references spec.md
// §9 flags for re-architecture. Grounded on the teacher's
// compliance/jkg.Graph (node/edge maps, deterministic Hash via jcs,
// FindApplicable-style queries), generalized from regulatory
// jurisdictions/obligations to programs/authorities/funding
// vehicles/barriers/advocacy levers/obligations.
package kg

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/atniclimate/tcr-policy-scanner/internal/jcs"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// Direction filters an edge query by which endpoint must match the queried
// node id.
type Direction string

const (
	DirOut Direction = "out"
	DirIn  Direction = "in"
	DirAny Direction = "any"
)

// InvariantViolation is a fatal design-bug class of error: an edge whose
// endpoint is unknown, or a duplicate edge with conflicting metadata.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string { return "graph invariant violation: " + e.Detail }

// Graph is the mutable arena built fresh by GraphBuilder each run. It is
// never shared across goroutines (spec.md §5: single-threaded pipeline),
// so it carries no internal locking.
type Graph struct {
	nodes map[string]model.Node
	edges []model.Edge
}

func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]model.Node)}
}

// AddNode inserts or overwrites a node by id.
func (g *Graph) AddNode(n model.Node) {
	g.nodes[n.ID] = n
}

// GetNode returns a node by id.
func (g *Graph) GetNode(id string) (model.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// AddEdge inserts e, enforcing the two graph-integrity invariants from
// spec.md §3: both endpoints must already exist, and there must be no
// duplicate (source, target, type) with conflicting metadata. An edge that
// exactly duplicates an existing one (identical metadata too) is a silent
// no-op, since GraphBuilder.Build may legitimately re-derive the same edge
// from more than one schema relation.
func (g *Graph) AddEdge(e model.Edge) error {
	if _, ok := g.nodes[e.SourceID]; !ok {
		return &InvariantViolation{Detail: fmt.Sprintf("edge source %q not present in graph", e.SourceID)}
	}
	if _, ok := g.nodes[e.TargetID]; !ok {
		return &InvariantViolation{Detail: fmt.Sprintf("edge target %q not present in graph", e.TargetID)}
	}

	for _, existing := range g.edges {
		if existing.SourceID == e.SourceID && existing.TargetID == e.TargetID && existing.Type == e.Type {
			if metadataEqual(existing.Metadata, e.Metadata) {
				return nil
			}
			return &InvariantViolation{Detail: fmt.Sprintf(
				"duplicate edge (%s,%s,%s) with conflicting metadata", e.SourceID, e.TargetID, e.Type)}
		}
	}

	g.edges = append(g.edges, e)
	return nil
}

func metadataEqual(a, b map[string]any) bool {
	ab, _ := jcs.Marshal(a)
	bb, _ := jcs.Marshal(b)
	return string(ab) == string(bb)
}

// ReplaceThreatensEdges drops all existing THREATENS edges and replaces
// them with fresh ones. Spec.md §3: THREATENS edges are always regenerated,
// never persisted across runs.
func (g *Graph) ReplaceThreatensEdges(fresh []model.Edge) error {
	kept := g.edges[:0:0]
	for _, e := range g.edges {
		if e.Type != model.EdgeThreatens {
			kept = append(kept, e)
		}
	}
	g.edges = kept
	for _, e := range fresh {
		if err := g.AddEdge(e); err != nil {
			return err
		}
	}
	return nil
}

// Edges returns edges touching nodeID of the given type (or every type if
// edgeType is empty), filtered by direction.
func (g *Graph) Edges(nodeID string, edgeType model.EdgeType, direction Direction) []model.Edge {
	var out []model.Edge
	for _, e := range g.edges {
		if edgeType != "" && e.Type != edgeType {
			continue
		}
		switch direction {
		case DirOut:
			if e.SourceID == nodeID {
				out = append(out, e)
			}
		case DirIn:
			if e.TargetID == nodeID {
				out = append(out, e)
			}
		default:
			if e.SourceID == nodeID || e.TargetID == nodeID {
				out = append(out, e)
			}
		}
	}
	return out
}

// NodesByType returns every node of the given type, sorted by id for
// deterministic iteration.
func (g *Graph) NodesByType(t model.NodeType) []model.Node {
	var out []model.Node
	for _, n := range g.nodes {
		if n.Type == t {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllEdges returns every edge, in insertion order.
func (g *Graph) AllEdges() []model.Edge {
	return append([]model.Edge(nil), g.edges...)
}

// Serializable is the stable JSON shape consumed by the reporter and by the
// monitor runner when reasoning about prior graph state.
type Serializable struct {
	Nodes   map[string]model.Node `json:"nodes"`
	Edges   []model.Edge          `json:"edges"`
	Summary Summary                `json:"summary"`
}

// Summary is a small set of graph-wide counts, useful for the briefing.
type Summary struct {
	NodeCount int            `json:"node_count"`
	EdgeCount int            `json:"edge_count"`
	NodesByType map[string]int `json:"nodes_by_type"`
	EdgesByType map[string]int `json:"edges_by_type"`
}

// ToSerializable renders the graph to its stable JSON shape.
func (g *Graph) ToSerializable() Serializable {
	nodesByType := map[string]int{}
	for _, n := range g.nodes {
		nodesByType[string(n.Type)]++
	}
	edgesByType := map[string]int{}
	for _, e := range g.edges {
		edgesByType[string(e.Type)]++
	}
	return Serializable{
		Nodes: g.nodes,
		Edges: g.AllEdges(),
		Summary: Summary{
			NodeCount:   len(g.nodes),
			EdgeCount:   len(g.edges),
			NodesByType: nodesByType,
			EdgesByType: edgesByType,
		},
	}
}

// Hash computes a deterministic content hash of the graph's current state,
// via canonical JSON over sorted node ids and the edge list. Grounded on
// the teacher's Graph.Hash, which combines per-entity jcs.Marshal output
// over sorted keys the same way.
func (g *Graph) Hash() (string, error) {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	orderedNodes := make([]model.Node, 0, len(ids))
	for _, id := range ids {
		orderedNodes = append(orderedNodes, g.nodes[id])
	}

	payload := struct {
		Nodes []model.Node  `json:"nodes"`
		Edges []model.Edge  `json:"edges"`
	}{Nodes: orderedNodes, Edges: g.AllEdges()}

	canon, err := jcs.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("kg: hash: %w", err)
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}
