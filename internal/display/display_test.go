package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entail/internal/deduction"
	"entail/internal/scenario"
)

func TestResult(t *testing.T) {
	out := Result("(A ∧ B)", deduction.SearchResult{
		Proven: true,
		Depth:  1,
		Path:   []string{"alpha/and(0,1)"},
	})
	assert.Contains(t, out, "PROVEN")
	assert.Contains(t, out, "(A ∧ B)")
	assert.Contains(t, out, "round 1: alpha/and(0,1)")

	out = Result("C", deduction.SearchResult{MissingFacts: []string{"C"}})
	assert.Contains(t, out, "NOT PROVEN")
	assert.Contains(t, out, "missing facts: C")

	out = Result("C", deduction.SearchResult{Iterations: 7, Expanded: 12})
	assert.Contains(t, out, "no derivation within bounds (7 iterations, 12 candidates)")
}

func TestSteps(t *testing.T) {
	sys, err := deduction.NewSystemFromFacts(map[string]bool{"A": true, "B": true})
	require.NoError(t, err)
	_, err = sys.ApplyAlpha(deduction.SubtypeAnd, 0, 1)
	require.NoError(t, err)

	out := Steps(sys)
	assert.Contains(t, out, "[0] fact")
	assert.Contains(t, out, "[2] alpha/and")
	assert.Contains(t, out, "(A ∧ B)")
	assert.Contains(t, out, "from 0, 1")
}

func TestReport(t *testing.T) {
	rep := &scenario.RunReport{
		RunID:    "7f9f1e4c",
		Scenario: "order-gating",
		Skipped: []deduction.SkippedStep{
			{Index: 1, Rule: deduction.RuleBeta, Reason: "no such step"},
		},
		Results: []scenario.TargetResult{
			{Target: "A", Result: deduction.SearchResult{Proven: true}},
			{Target: "(B", Err: assert.AnError},
		},
	}
	out := Report(rep)
	assert.Contains(t, out, "order-gating")
	assert.Contains(t, out, "run 7f9f1e4c")
	assert.Contains(t, out, "skipped step 1 (beta): no such step")
	assert.Contains(t, out, "PROVEN")
	assert.Contains(t, out, "ERROR")
}
