//go:build property

package kg_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/atniclimate/tcr-policy-scanner/internal/kg"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

func buildGraph(ids []string) *kg.Graph {
	g := kg.NewGraph()
	for _, id := range ids {
		g.AddNode(model.Node{ID: id, Type: model.NodeProgram, Attrs: map[string]any{}})
	}
	return g
}

// TestAddEdgeRequiresKnownEndpoints verifies AddEdge always rejects an edge
// whose target id was never inserted as a node.
func TestAddEdgeRequiresKnownEndpoints(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 150
	properties := gopter.NewProperties(parameters)

	properties.Property("an edge to an absent node is always an invariant violation", prop.ForAll(
		func(ids []string, missing string) bool {
			present := map[string]bool{}
			for _, id := range ids {
				present[id] = true
			}
			if present[missing] || len(ids) == 0 {
				return true
			}
			g := buildGraph(ids)
			err := g.AddEdge(model.Edge{SourceID: ids[0], TargetID: missing, Type: model.EdgeFundedBy})
			_, ok := err.(*kg.InvariantViolation)
			return ok
		},
		gen.SliceOf(gen.AlphaString()),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// TestAddEdgeIdempotentOnExactDuplicateProperty verifies re-adding an edge
// with identical metadata is always a silent no-op, never growing the edge
// list.
func TestAddEdgeIdempotentOnExactDuplicateProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 150
	properties := gopter.NewProperties(parameters)

	properties.Property("inserting the same edge twice does not duplicate it", prop.ForAll(
		func(a, b string) bool {
			if a == b {
				return true
			}
			g := buildGraph([]string{a, b})
			edge := model.Edge{SourceID: a, TargetID: b, Type: model.EdgeFundedBy, Metadata: map[string]any{"k": "v"}}
			if err := g.AddEdge(edge); err != nil {
				return false
			}
			before := len(g.AllEdges())
			if err := g.AddEdge(edge); err != nil {
				return false
			}
			after := len(g.AllEdges())
			return before == after && before == 1
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// TestHashDeterministic verifies Hash is stable across repeated calls on the
// same graph state.
func TestHashDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Hash is stable for a fixed graph state", prop.ForAll(
		func(ids []string) bool {
			g := buildGraph(ids)
			h1, err1 := g.Hash()
			h2, err2 := g.Hash()
			return err1 == nil && err2 == nil && h1 == h2
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
