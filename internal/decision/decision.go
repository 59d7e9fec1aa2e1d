// Package decision implements the five-rule, priority-ordered advocacy-goal
// classifier. Each program is evaluated against a flattened fact map with a
// cached CEL program per rule, grounded on the teacher's
// governance.CELPolicyEvaluator (compile-once, cache-by-expression, bounded
// cost) generalized from module-activation policy to program classification.
package decision

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/atniclimate/tcr-policy-scanner/internal/kg"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

// rule pairs a RuleID/goal with the CEL predicate evaluated over a
// program's fact map, in spec.md §4.7 priority order (LOGIC-05 first).
type rule struct {
	id   model.RuleID
	goal model.AdvocacyGoal
	expr string
}

var rules = []rule{
	{model.RuleUrgentStabilization, model.GoalUrgentStabilization, `facts.min_threatens_days >= 0 && facts.min_threatens_days <= facts.urgency_threshold_days`},
	{model.RuleRestoreReplace, model.GoalRestoreReplace, `facts.ci_terminated_or_flagged && facts.has_durable_authority`},
	{model.RuleProtectBase, model.GoalProtectBase, `facts.is_discretionary && facts.has_eliminate_signal`},
	{model.RuleDirectAccessParity, model.GoalDirectAccessParity, `facts.is_state_pass_through && facts.has_high_severity_barrier`},
	{model.RuleExpandStrengthen, model.GoalExpandStrengthen, `facts.ci_stable_tier && facts.is_direct_access_type`},
}

// Engine evaluates the fixed rule set against one program at a time. The
// compiled-program cache is guarded by mu, so concurrent Evaluate calls are
// safe; the pipeline only ever runs it single-threaded (spec.md §5).
type Engine struct {
	env                  *cel.Env
	prgCache             map[string]cel.Program
	mu                   sync.RWMutex
	UrgencyThresholdDays int
}

// NewEngine compiles the CEL environment. UrgencyThresholdDays defaults to
// 30 when zero or negative, per spec.md §4.7.
func NewEngine(urgencyThresholdDays int) (*Engine, error) {
	env, err := cel.NewEnv(cel.Variable("facts", cel.DynType))
	if err != nil {
		return nil, fmt.Errorf("decision: new cel env: %w", err)
	}
	if urgencyThresholdDays <= 0 {
		urgencyThresholdDays = 30
	}
	return &Engine{env: env, prgCache: make(map[string]cel.Program), UrgencyThresholdDays: urgencyThresholdDays}, nil
}

// Evaluate classifies one program, applying spec.md §4.7's priority order:
// the first matching rule wins and is recorded as Rule/AdvocacyGoal; every
// other matching rule is recorded in SecondaryRules. No match produces a
// null-goal, LOW-confidence Classification.
func (e *Engine) Evaluate(p model.Program, g *kg.Graph, alerts []model.Alert) (model.Classification, error) {
	facts, threatMeta := e.buildFacts(p, g, alerts)

	c := model.Classification{ProgramID: p.ID, Confidence: model.ConfLow, Reason: "No decision rule matched"}

	for _, r := range rules {
		matched, err := e.evalRule(r, facts)
		if err != nil {
			return model.Classification{}, fmt.Errorf("decision: evaluate %s for %s: %w", r.id, p.ID, err)
		}
		if !matched {
			continue
		}
		if c.Rule == nil {
			goal := r.goal
			ruleID := r.id
			c.AdvocacyGoal = &goal
			c.GoalLabel = model.GoalLabel[goal]
			c.Rule = &ruleID
			c.Confidence, c.Reason = e.reasonFor(r, p, facts)
			if r.id == model.RuleUrgentStabilization {
				c.ThreatMetadata = threatMeta
			}
		} else {
			c.SecondaryRules = append(c.SecondaryRules, r.id)
		}
	}

	return c, nil
}

func (e *Engine) evalRule(r rule, facts map[string]any) (bool, error) {
	prg, err := e.compiled(r.expr)
	if err != nil {
		return false, err
	}
	out, _, err := prg.Eval(map[string]any{"facts": facts})
	if err != nil {
		return false, fmt.Errorf("eval %s: %w", r.id, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule %s did not evaluate to bool", r.id)
	}
	return b, nil
}

func (e *Engine) compiled(expr string) (cel.Program, error) {
	e.mu.RLock()
	prg, ok := e.prgCache[expr]
	e.mu.RUnlock()
	if ok {
		return prg, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if prg, ok = e.prgCache[expr]; ok {
		return prg, nil
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	p, err := e.env.Program(ast, cel.InterruptCheckFrequency(100), cel.CostLimit(10000))
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	e.prgCache[expr] = p
	return p, nil
}

// buildFacts walks the graph and alert list to flatten everything the five
// rule predicates need into one map, since CEL has no native graph-traversal
// primitive. Only the boolean/numeric combination logic runs inside CEL.
func (e *Engine) buildFacts(p model.Program, g *kg.Graph, alerts []model.Alert) (map[string]any, map[string]any) {
	status := p.EffectiveStatus()

	minDays := -1
	var threatMeta map[string]any
	for _, edge := range g.Edges(p.ID, model.EdgeThreatens, kg.DirIn) {
		days, ok := edge.Metadata["days_remaining"].(int)
		if !ok {
			continue
		}
		if minDays == -1 || days < minDays {
			minDays = days
			threatMeta = edge.Metadata
		}
	}

	hasDurableAuthority := false
	var authorityCitation string
	for _, edge := range g.Edges(p.ID, model.EdgeAuthorizedBy, kg.DirOut) {
		authority, ok := g.GetNode(edge.TargetID)
		if !ok {
			continue
		}
		durability, _ := authority.Attrs["durability"].(string)
		lower := strings.ToLower(durability)
		if strings.Contains(lower, "permanent") || strings.Contains(lower, "active") {
			hasDurableAuthority = true
			authorityCitation, _ = authority.Attrs["citation"].(string)
			break
		}
	}

	isDiscretionary := p.FundingType == model.FundingDiscretionary
	if !isDiscretionary {
		for _, edge := range g.Edges(p.ID, model.EdgeFundedBy, kg.DirOut) {
			vehicle, ok := g.GetNode(edge.TargetID)
			if !ok {
				continue
			}
			if t, _ := vehicle.Attrs["type"].(string); strings.EqualFold(t, "discretionary") {
				isDiscretionary = true
				break
			}
		}
	}

	hasEliminateSignal := minDays >= 0 || status == model.CIAtRisk || status == model.CIUncertain
	if !hasEliminateSignal {
		for _, a := range alerts {
			if a.Monitor != "reconciliation" {
				continue
			}
			for _, id := range a.ProgramIDs {
				if id == p.ID {
					hasEliminateSignal = true
				}
			}
		}
	}

	hasHighSeverityBarrier := false
	for _, edge := range g.Edges(p.ID, model.EdgeBlockedBy, kg.DirOut) {
		barrier, ok := g.GetNode(edge.TargetID)
		if !ok {
			continue
		}
		if sev, _ := barrier.Attrs["severity"].(string); strings.EqualFold(sev, "High") {
			hasHighSeverityBarrier = true
			break
		}
	}

	facts := map[string]any{
		"min_threatens_days":       minDays,
		"urgency_threshold_days":   e.UrgencyThresholdDays,
		"ci_terminated_or_flagged": status == model.CITerminated || status == model.CIFlagged,
		"has_durable_authority":    hasDurableAuthority,
		"is_discretionary":         isDiscretionary,
		"has_eliminate_signal":     hasEliminateSignal,
		"is_state_pass_through":    p.AccessType == model.AccessStatePassThrough,
		"has_high_severity_barrier": hasHighSeverityBarrier,
		"ci_stable_tier":           status == model.CIStable || status == model.CISecure || status == model.CIStableButVulnerable,
		"is_direct_access_type": p.AccessType == model.AccessDirect ||
			p.AccessType == model.AccessSetAside || p.AccessType == model.AccessTribalSetAside,
		"authority_citation": authorityCitation,
	}
	return facts, threatMeta
}

func (e *Engine) reasonFor(r rule, p model.Program, facts map[string]any) (model.ConfidenceLevel, string) {
	switch r.id {
	case model.RuleUrgentStabilization:
		days, _ := facts["min_threatens_days"].(int)
		return model.ConfHigh, fmt.Sprintf("THREATENS edge targeting %s has %d days remaining", p.ID, days)
	case model.RuleRestoreReplace:
		citation, _ := facts["authority_citation"].(string)
		if citation == "" {
			citation = "its authorizing statute"
		}
		return model.ConfHigh, fmt.Sprintf("%s status with durable authority under %s", p.EffectiveStatus(), citation)
	case model.RuleProtectBase:
		return model.ConfMedium, fmt.Sprintf("discretionary program with an active elimination/reduction signal")
	case model.RuleDirectAccessParity:
		return model.ConfMedium, "state pass-through access blocked by a high-severity barrier"
	case model.RuleExpandStrengthen:
		return model.ConfMedium, fmt.Sprintf("%s status with direct or set-aside access", p.EffectiveStatus())
	default:
		return model.ConfLow, "No decision rule matched"
	}
}

// EvaluateAll runs Evaluate for every program, sorted by id for deterministic
// output ordering.
func (e *Engine) EvaluateAll(programs map[string]*model.Program, g *kg.Graph, alerts []model.Alert) ([]model.Classification, error) {
	ids := make([]string, 0, len(programs))
	for id := range programs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]model.Classification, 0, len(ids))
	for _, id := range ids {
		c, err := e.Evaluate(*programs[id], g, alerts)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
