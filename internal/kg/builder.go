package kg

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// Builder assembles a fresh Graph from the static schema and the current
// scan's spending items, per spec.md §4.4.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

// Build seeds the trust super-node, static schema nodes, one node per
// tracked program, the schema's static relations, and Obligation nodes
// folded in from spending ScoredItems whose CFDA matches a tracked program.
func (b *Builder) Build(programs []model.Program, scoredItems []model.ScoredItem, schema Schema) (*Graph, error) {
	g := NewGraph()

	// Schema-seeded nodes carry T5 confidence (spec.md §4.6): they come from
	// a hand-maintained reference file, not a live source with its own tier.
	schemaConfidence := model.ConfidenceScore{Tier: model.T5, Freshness: 1.0, CrossRefBonus: 1.0, Final: model.BaseTierScore[model.T5], Source: "graph_schema"}

	g.AddNode(model.Node{
		ID:   model.TrustSuperNodeID,
		Type: model.NodeTrustSuperNode,
		Attrs: map[string]any{
			"legal_basis": schema.TrustBasis,
		},
		Confidence: schemaConfidence,
	})

	for _, a := range schema.Authorities {
		g.AddNode(model.Node{ID: a.ID, Type: model.NodeAuthority, Attrs: map[string]any{
			"name": a.Name, "durability": a.Durability, "citation": a.Citation,
		}, Confidence: schemaConfidence})
	}
	for _, f := range schema.FundingVehicles {
		g.AddNode(model.Node{ID: f.ID, Type: model.NodeFundingVehicle, Attrs: map[string]any{
			"name": f.Name, "type": f.Type,
		}, Confidence: schemaConfidence})
	}
	for _, bar := range schema.Barriers {
		g.AddNode(model.Node{ID: bar.ID, Type: model.NodeBarrier, Attrs: map[string]any{
			"name": bar.Name, "severity": bar.Severity,
		}, Confidence: schemaConfidence})
	}
	for _, l := range schema.AdvocacyLevers {
		g.AddNode(model.Node{ID: l.ID, Type: model.NodeAdvocacyLever, Attrs: map[string]any{
			"name": l.Name,
		}, Confidence: schemaConfidence})
	}

	programByID := make(map[string]model.Program, len(programs))
	for _, p := range programs {
		programByID[p.ID] = p
		g.AddNode(model.Node{ID: p.ID, Type: model.NodeProgram, Attrs: map[string]any{
			"name":              p.Name,
			"agency":            p.Agency,
			"confidence_index":  p.ConfidenceIndex,
			"ci_status":         string(p.EffectiveStatus()),
			"priority":          string(p.Priority),
			"funding_type":      string(p.FundingType),
			"access_type":       string(p.AccessType),
		}})
	}

	for _, rel := range schema.Relations {
		if err := g.AddEdge(model.Edge{SourceID: rel.From, TargetID: rel.To, Type: rel.Type, Metadata: rel.Metadata}); err != nil {
			return nil, err
		}
	}

	if err := b.foldObligations(g, programByID, scoredItems); err != nil {
		return nil, err
	}

	if err := b.checkAuthorizedByInvariant(g, programs); err != nil {
		return nil, err
	}

	return g, nil
}

// foldObligations implements spec.md §4.4 step 4: every spending item with
// a CFDA matching a tracked program becomes an Obligation node plus an
// OBLIGATED_BY edge carrying amount and recipient.
func (b *Builder) foldObligations(g *Graph, programByID map[string]model.Program, items []model.ScoredItem) error {
	cfdaToProgram := make(map[string]string, len(programByID))
	for id, p := range programByID {
		if p.CFDA != "" {
			cfdaToProgram[p.CFDA] = id
		}
	}

	for _, item := range items {
		if item.Source != model.SourceSpending || item.CFDA == nil {
			continue
		}
		programID, ok := cfdaToProgram[*item.CFDA]
		if !ok {
			continue
		}

		amount, _ := extrasFloat(item.Extras, "amount")
		recipient, _ := item.Extras["recipient"].(string)
		date, _ := item.Extras["date"].(string)

		obligationID := obligationNodeID(item)
		g.AddNode(model.Node{ID: obligationID, Type: model.NodeObligation, Attrs: map[string]any{
			"amount":    amount,
			"recipient": recipient,
			"date":      date,
			"cfda":      *item.CFDA,
		}, Confidence: item.Confidence})

		if err := g.AddEdge(model.Edge{
			SourceID: programID,
			TargetID: obligationID,
			Type:     model.EdgeObligatedBy,
			Metadata: map[string]any{"amount": amount, "recipient": recipient},
		}); err != nil {
			return err
		}
	}
	return nil
}

func extrasFloat(extras map[string]any, key string) (float64, bool) {
	v, ok := extras[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func obligationNodeID(item model.ScoredItem) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("obligation:%s:%s", item.Source, item.SourceID)))
	return "obl_" + hex.EncodeToString(sum[:])[:16]
}

// checkAuthorizedByInvariant enforces spec.md §4.4: after build, every
// program has at least one AUTHORIZED_BY edge unless marked an
// "unauthorized placeholder" in the inventory.
func (b *Builder) checkAuthorizedByInvariant(g *Graph, programs []model.Program) error {
	for _, p := range programs {
		if p.UnauthorizedPlaceholder {
			continue
		}
		edges := g.Edges(p.ID, model.EdgeAuthorizedBy, DirOut)
		if len(edges) == 0 {
			return &InvariantViolation{Detail: fmt.Sprintf("program %q has no AUTHORIZED_BY edge and is not an unauthorized placeholder", p.ID)}
		}
	}
	return nil
}
