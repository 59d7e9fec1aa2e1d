//go:build property

package decision_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/atniclimate/tcr-policy-scanner/internal/decision"
	"github.com/atniclimate/tcr-policy-scanner/internal/kg"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
)

func dedup(ids []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// TestEvaluateAllIsOrderIndependent verifies EvaluateAll's output order
// depends only on program ID content, never on the input map's build order.
func TestEvaluateAllIsOrderIndependent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("EvaluateAll output is sorted by ProgramID regardless of map build order", prop.ForAll(
		func(rawIDs []string) bool {
			ids := dedup(rawIDs)
			if len(ids) == 0 {
				return true
			}

			engine, err := decision.NewEngine(30)
			if err != nil {
				return false
			}
			g := kg.NewGraph()

			programs := make(map[string]*model.Program, len(ids))
			for _, id := range ids {
				p := model.Program{ID: id}
				programs[id] = &p
			}

			classifications, err := engine.EvaluateAll(programs, g, nil)
			if err != nil {
				return false
			}
			if len(classifications) != len(ids) {
				return false
			}
			for i := 1; i < len(classifications); i++ {
				if classifications[i-1].ProgramID >= classifications[i].ProgramID {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("re-running EvaluateAll on the same program set yields identical output", prop.ForAll(
		func(rawIDs []string) bool {
			ids := dedup(rawIDs)
			if len(ids) == 0 {
				return true
			}

			engine, err := decision.NewEngine(30)
			if err != nil {
				return false
			}
			g := kg.NewGraph()
			programs := make(map[string]*model.Program, len(ids))
			for _, id := range ids {
				p := model.Program{ID: id}
				programs[id] = &p
			}

			first, err := engine.EvaluateAll(programs, g, nil)
			if err != nil {
				return false
			}
			second, err := engine.EvaluateAll(programs, g, nil)
			if err != nil {
				return false
			}
			if len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i].ProgramID != second[i].ProgramID {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
