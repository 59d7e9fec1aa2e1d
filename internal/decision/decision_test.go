package decision

import (
	"testing"

	"github.com/atniclimate/tcr-policy-scanner/internal/kg"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

func TestEvaluate_LOGIC05OverridesWithThreatensEdge(t *testing.T) {
	g := kg.NewGraph()
	g.AddNode(model.Node{ID: "fema_bric", Type: model.NodeProgram})
	g.AddNode(model.Node{ID: "threat_dhs", Type: model.NodeThreat})
	if err := g.AddEdge(model.Edge{
		SourceID: "threat_dhs", TargetID: "fema_bric", Type: model.EdgeThreatens,
		Metadata: map[string]any{"days_remaining": 4, "deadline": "2026-02-13", "description": "CR funding cliff"},
	}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	p := model.Program{ID: "fema_bric", ConfidenceIndex: 0.12, ScannerCIStatus: model.CIFlagged}

	e, err := NewEngine(30)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	c, err := e.Evaluate(p, g, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if c.Rule == nil || *c.Rule != model.RuleUrgentStabilization {
		t.Fatalf("expected LOGIC-05 to win, got %+v", c)
	}
	if c.Confidence != model.ConfHigh {
		t.Fatalf("expected HIGH confidence, got %s", c.Confidence)
	}
	if c.ThreatMetadata["days_remaining"] != 4 {
		t.Fatalf("expected days_remaining=4 in threat metadata, got %v", c.ThreatMetadata)
	}
}

func TestEvaluate_LOGIC01RestoreReplace(t *testing.T) {
	g := kg.NewGraph()
	g.AddNode(model.Node{ID: "prog_a", Type: model.NodeProgram})
	g.AddNode(model.Node{ID: "auth_permanent", Type: model.NodeAuthority, Attrs: map[string]any{"durability": "Permanent", "citation": "25 U.S.C. 450"}})
	if err := g.AddEdge(model.Edge{SourceID: "prog_a", TargetID: "auth_permanent", Type: model.EdgeAuthorizedBy}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	p := model.Program{ID: "prog_a", ScannerCIStatus: model.CITerminated}
	e, _ := NewEngine(30)
	c, err := e.Evaluate(p, g, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if c.Rule == nil || *c.Rule != model.RuleRestoreReplace {
		t.Fatalf("expected LOGIC-01, got %+v", c)
	}
	if c.Confidence != model.ConfHigh {
		t.Fatalf("expected HIGH confidence, got %s", c.Confidence)
	}
}

func TestEvaluate_LOGIC02ProtectBaseExcludesHigherPriorityRules(t *testing.T) {
	g := kg.NewGraph()
	g.AddNode(model.Node{ID: "prog_b", Type: model.NodeProgram})

	p := model.Program{ID: "prog_b", FundingType: model.FundingDiscretionary, ScannerCIStatus: model.CIAtRisk}
	e, _ := NewEngine(30)
	c, err := e.Evaluate(p, g, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if c.Rule == nil || *c.Rule != model.RuleProtectBase {
		t.Fatalf("expected LOGIC-02, got %+v", c)
	}
	for _, sr := range c.SecondaryRules {
		if sr == model.RuleUrgentStabilization || sr == model.RuleRestoreReplace {
			t.Fatalf("did not expect LOGIC-05 or LOGIC-01 in secondary_rules, got %+v", c.SecondaryRules)
		}
	}
}

func TestEvaluate_NoRuleMatches(t *testing.T) {
	g := kg.NewGraph()
	g.AddNode(model.Node{ID: "prog_c", Type: model.NodeProgram})

	p := model.Program{ID: "prog_c", ScannerCIStatus: model.CIUncertain, FundingType: model.FundingMandatory}
	e, _ := NewEngine(30)
	c, err := e.Evaluate(p, g, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	// CIUncertain alone satisfies LOGIC-02's eliminate-signal clause only when
	// the program is discretionary; a mandatory program with no other signal
	// falls through to no match.
	if c.AdvocacyGoal != nil {
		t.Fatalf("expected no rule to match, got %+v", c)
	}
	if c.Confidence != model.ConfLow || c.Reason != "No decision rule matched" {
		t.Fatalf("unexpected no-match classification: %+v", c)
	}
}

func TestEvaluate_ExpandStrengthenOnStableDirectAccess(t *testing.T) {
	g := kg.NewGraph()
	g.AddNode(model.Node{ID: "prog_d", Type: model.NodeProgram})

	p := model.Program{ID: "prog_d", ScannerCIStatus: model.CISecure, AccessType: model.AccessDirect}
	e, _ := NewEngine(30)
	c, err := e.Evaluate(p, g, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if c.Rule == nil || *c.Rule != model.RuleExpandStrengthen {
		t.Fatalf("expected LOGIC-04, got %+v", c)
	}
}

func TestEvaluateAll_SortsByProgramID(t *testing.T) {
	g := kg.NewGraph()
	g.AddNode(model.Node{ID: "zzz", Type: model.NodeProgram})
	g.AddNode(model.Node{ID: "aaa", Type: model.NodeProgram})

	programs := map[string]*model.Program{
		"zzz": {ID: "zzz"},
		"aaa": {ID: "aaa"},
	}
	e, _ := NewEngine(30)
	out, err := e.EvaluateAll(programs, g, nil)
	if err != nil {
		t.Fatalf("EvaluateAll: %v", err)
	}
	if len(out) != 2 || out[0].ProgramID != "aaa" || out[1].ProgramID != "zzz" {
		t.Fatalf("expected deterministic id-sorted output, got %+v", out)
	}
}
