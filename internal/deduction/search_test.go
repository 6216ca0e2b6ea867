package deduction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func tightBounds() SearchOptions {
	return SearchOptions{
		MaxDepth:      3,
		MaxIterations: 200,
		MaxQueue:      128,
		MaxSteps:      16,
	}
}

func TestSearchForProof_AlreadyProved(t *testing.T) {
	sys, err := NewSystemFromFacts(map[string]bool{"A": true, "B": true})
	require.NoError(t, err)
	_, err = sys.ApplyAlpha(SubtypeAnd, 0, 1)
	require.NoError(t, err)

	res, err := sys.SearchForProof("A ∧ B", tightBounds())
	require.NoError(t, err)
	assert.True(t, res.Proven)
	assert.Equal(t, 0, res.Depth)
	assert.Empty(t, res.Path)
	assert.Zero(t, res.Iterations)

	// Double negations are transparent for the depth-0 check.
	res, err = sys.SearchForProof("~~A", tightBounds())
	require.NoError(t, err)
	assert.True(t, res.Proven)
	assert.Equal(t, 0, res.Depth)
}

func TestSearchForProof_MissingFactsAbort(t *testing.T) {
	sys, err := NewSystemFromFacts(map[string]bool{"A": true})
	require.NoError(t, err)

	res, err := sys.SearchForProof("A ∧ Missing", tightBounds())
	require.NoError(t, err)
	assert.False(t, res.Proven)
	assert.Equal(t, []string{"Missing"}, res.MissingFacts)
	// No search happens at all.
	assert.Zero(t, res.Iterations)
	assert.Zero(t, res.Expanded)
}

func TestSearchForProof_OneRound(t *testing.T) {
	sys, err := NewSystemFromFacts(map[string]bool{"A": true, "B": true})
	require.NoError(t, err)

	res, err := sys.SearchForProof("A ∧ B", tightBounds())
	require.NoError(t, err)
	assert.True(t, res.Proven)
	assert.Equal(t, 1, res.Depth)
	assert.Equal(t, []string{"alpha/and(0,1)"}, res.Path)

	// The receiver is untouched by the search.
	assert.Equal(t, 2, sys.StepCount())
}

func TestSearchForProof_TwoRounds(t *testing.T) {
	sys, err := NewSystemFromFacts(map[string]bool{"A": true, "B": true, "C": true})
	require.NoError(t, err)

	res, err := sys.SearchForProof("(A ∧ B) ∧ C", tightBounds())
	require.NoError(t, err)
	assert.True(t, res.Proven)
	assert.Equal(t, 2, res.Depth)
	require.Len(t, res.Path, 2)
}

func TestSearchForProof_IterationBound(t *testing.T) {
	sys, err := NewSystemFromFacts(map[string]bool{"A": true, "B": true, "C": true})
	require.NoError(t, err)

	opts := tightBounds()
	opts.MaxIterations = 1
	res, err := sys.SearchForProof("(A ∧ B) ∧ C", opts)
	require.NoError(t, err)
	// Bound exhaustion is never a disproof, just not-found-within-bounds.
	assert.False(t, res.Proven)
	assert.Empty(t, res.MissingFacts)
}

func TestSearchForProof_StepCeilingYieldsNoSuccessors(t *testing.T) {
	sys, err := NewSystemFromFacts(map[string]bool{"A": true, "B": true})
	require.NoError(t, err)

	opts := tightBounds()
	opts.MaxSteps = 2
	res, err := sys.SearchForProof("A ∧ B", opts)
	require.NoError(t, err)
	assert.False(t, res.Proven)
	assert.Equal(t, 1, res.Iterations)
	assert.Zero(t, res.Expanded)
}

func TestSearchForProof_QueueBound(t *testing.T) {
	sys, err := NewSystemFromFacts(map[string]bool{"A": true, "B": true, "C": true, "D": true})
	require.NoError(t, err)

	opts := tightBounds()
	opts.MaxQueue = 2
	res, err := sys.SearchForProof("((A ∧ B) ∧ C) ∧ D", opts)
	require.NoError(t, err)
	assert.False(t, res.Proven)
	assert.Empty(t, res.MissingFacts)
}

func TestSearchForProof_DepthBound(t *testing.T) {
	sys, err := NewSystemFromFacts(map[string]bool{"A": true, "B": true, "C": true})
	require.NoError(t, err)

	opts := tightBounds()
	opts.MaxDepth = 1
	res, err := sys.SearchForProof("(A ∧ B) ∧ C", opts)
	require.NoError(t, err)
	assert.False(t, res.Proven)
}

func TestSearchForProof_InvalidTarget(t *testing.T) {
	sys := NewSystem()
	_, err := sys.SearchForProof("A ∧", tightBounds())
	assert.Error(t, err)
}

func TestSearchForProof_ParallelMatchesSequential(t *testing.T) {
	build := func() *System {
		sys, err := NewSystemFromFacts(map[string]bool{"A": true, "B": true, "C": true})
		require.NoError(t, err)
		return sys
	}

	seq := tightBounds()
	par := tightBounds()
	par.Parallel = true

	for _, target := range []string{"(A ∧ B) ∧ C", "A ∨ C", "(A → B)", "B ↔ C"} {
		sres, err := build().SearchForProof(target, seq)
		require.NoError(t, err)
		pres, err := build().SearchForProof(target, par)
		require.NoError(t, err)
		assert.Equal(t, sres.Proven, pres.Proven, "target %s", target)
		assert.Equal(t, sres.Depth, pres.Depth, "target %s", target)
		assert.Equal(t, sres.Path, pres.Path, "target %s", target)
	}
}

// The order-gating scenario: conjunction and implication introduction are
// derivable, but the rule set has no modus ponens, so the bare consequent
// stays unreachable.
func TestSearchForProof_OrderGating(t *testing.T) {
	sys, err := NewSystemFromFacts(map[string]bool{
		"CustomerIsVIP":    true,
		"PaymentProcessed": true,
	})
	require.NoError(t, err)

	andStep, err := sys.ApplyAlpha(SubtypeAnd, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "(CustomerIsVIP ∧ PaymentProcessed)", stepFormulaAt(t, sys, andStep))

	propStep, err := sys.AddProposition("ProcessOrder")
	require.NoError(t, err)

	implStep, err := sys.ApplyAlpha(SubtypeImplies, andStep, propStep)
	require.NoError(t, err)
	assert.Equal(t, "((CustomerIsVIP ∧ PaymentProcessed) → ProcessOrder)", stepFormulaAt(t, sys, implStep))

	opts := SearchOptions{MaxDepth: 2, MaxIterations: 50, MaxQueue: 64, MaxSteps: 8}

	res, err := sys.SearchForProof("CustomerIsVIP ∧ PaymentProcessed", opts)
	require.NoError(t, err)
	assert.True(t, res.Proven)
	assert.Equal(t, 0, res.Depth)

	res, err = sys.SearchForProof("ProcessOrder", opts)
	require.NoError(t, err)
	assert.False(t, res.Proven, "ProcessOrder must not be derivable without modus ponens")
	assert.Empty(t, res.MissingFacts, "the declared proposition keeps the atom resolvable")
	assert.Positive(t, res.Iterations, "the bounded search must actually run")
}
