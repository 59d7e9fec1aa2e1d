package kg_test

import (
	"testing"

	"github.com/atniclimate/tcr-policy-scanner/internal/kg"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdgeRejectsUnknownEndpoint(t *testing.T) {
	g := kg.NewGraph()
	g.AddNode(model.Node{ID: "p1", Type: model.NodeProgram})

	err := g.AddEdge(model.Edge{SourceID: "p1", TargetID: "missing", Type: model.EdgeAuthorizedBy})
	var iv *kg.InvariantViolation
	require.ErrorAs(t, err, &iv)
}

func TestAddEdgeIdempotentOnExactDuplicate(t *testing.T) {
	g := kg.NewGraph()
	g.AddNode(model.Node{ID: "p1", Type: model.NodeProgram})
	g.AddNode(model.Node{ID: "auth_1", Type: model.NodeAuthority})

	edge := model.Edge{SourceID: "p1", TargetID: "auth_1", Type: model.EdgeAuthorizedBy, Metadata: map[string]any{"citation": "42 USC"}}
	require.NoError(t, g.AddEdge(edge))
	require.NoError(t, g.AddEdge(edge))
	assert.Len(t, g.AllEdges(), 1)
}

func TestAddEdgeRejectsConflictingMetadataDuplicate(t *testing.T) {
	g := kg.NewGraph()
	g.AddNode(model.Node{ID: "p1", Type: model.NodeProgram})
	g.AddNode(model.Node{ID: "auth_1", Type: model.NodeAuthority})

	require.NoError(t, g.AddEdge(model.Edge{SourceID: "p1", TargetID: "auth_1", Type: model.EdgeAuthorizedBy, Metadata: map[string]any{"citation": "A"}}))
	err := g.AddEdge(model.Edge{SourceID: "p1", TargetID: "auth_1", Type: model.EdgeAuthorizedBy, Metadata: map[string]any{"citation": "B"}})
	var iv *kg.InvariantViolation
	require.ErrorAs(t, err, &iv)
}

func TestReplaceThreatensEdgesDropsPriorOnes(t *testing.T) {
	g := kg.NewGraph()
	g.AddNode(model.Node{ID: "t1", Type: model.NodeThreat})
	g.AddNode(model.Node{ID: "p1", Type: model.NodeProgram})

	require.NoError(t, g.AddEdge(model.Edge{SourceID: "t1", TargetID: "p1", Type: model.EdgeThreatens, Metadata: map[string]any{"days_remaining": 4}}))
	require.NoError(t, g.ReplaceThreatensEdges(nil))

	assert.Empty(t, g.Edges("p1", model.EdgeThreatens, kg.DirIn))
}

func TestHashDeterministicAcrossInsertionOrder(t *testing.T) {
	g1 := kg.NewGraph()
	g1.AddNode(model.Node{ID: "a", Type: model.NodeProgram})
	g1.AddNode(model.Node{ID: "b", Type: model.NodeProgram})

	g2 := kg.NewGraph()
	g2.AddNode(model.Node{ID: "b", Type: model.NodeProgram})
	g2.AddNode(model.Node{ID: "a", Type: model.NodeProgram})

	h1, err := g1.Hash()
	require.NoError(t, err)
	h2, err := g2.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestBuilderEnforcesAuthorizedByInvariant(t *testing.T) {
	b := kg.NewBuilder()
	programs := []model.Program{{ID: "orphan_program"}}
	_, err := b.Build(programs, nil, kg.Schema{})
	var iv *kg.InvariantViolation
	require.ErrorAs(t, err, &iv)
}

func TestBuilderSkipsInvariantForUnauthorizedPlaceholder(t *testing.T) {
	b := kg.NewBuilder()
	programs := []model.Program{{ID: "placeholder_program", UnauthorizedPlaceholder: true}}
	g, err := b.Build(programs, nil, kg.Schema{})
	require.NoError(t, err)
	assert.NotNil(t, g)
}

func TestBuilderFoldsSpendingObligations(t *testing.T) {
	b := kg.NewBuilder()
	cfda := "97.047"
	programs := []model.Program{{ID: "fema_bric", CFDA: cfda, UnauthorizedPlaceholder: true}}
	items := []model.ScoredItem{{
		Source: model.SourceSpending, SourceID: "award1", CFDA: &cfda,
		Extras: map[string]any{"amount": 500000.0, "recipient": "Example Tribe"},
	}}
	g, err := b.Build(programs, items, kg.Schema{})
	require.NoError(t, err)

	edges := g.Edges("fema_bric", model.EdgeObligatedBy, kg.DirOut)
	require.Len(t, edges, 1)
	assert.Equal(t, 500000.0, edges[0].Metadata["amount"])
}
