package deduction

import (
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"entail/internal/formula"
)

// SearchOptions are the hard termination bounds of the proof search. Every
// bound is checked on each dequeue; exceeding one ends the search with a
// not-proven-within-bounds outcome, never a disproof.
type SearchOptions struct {
	// MaxDepth is the maximum number of expansion rounds.
	MaxDepth int
	// MaxIterations caps total dequeues.
	MaxIterations int
	// MaxQueue caps the live queue size.
	MaxQueue int
	// MaxSteps is the per-state step ceiling; a state at the ceiling
	// yields no successors.
	MaxSteps int
	// Parallel fans candidate generation within a round out over a
	// worker group. Results are identical to the sequential mode.
	Parallel bool
}

// DefaultSearchOptions returns the stock bounds.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		MaxDepth:      6,
		MaxIterations: 2000,
		MaxQueue:      512,
		MaxSteps:      64,
	}
}

// SearchResult is the outcome of a proof search. Proven false with a
// populated MissingFacts means the target referenced atoms nobody ever
// resolved; Proven false with empty MissingFacts means no derivation was
// found within the bounds.
type SearchResult struct {
	Proven       bool
	Depth        int
	Path         []string
	MissingFacts []string
	Iterations   int
	Expanded     int
}

type searchNode struct {
	state *System
	depth int
	path  []string
}

type candidate struct {
	state *System
	desc  string
	sig   string
}

// SearchForProof decides whether the target formula is derivable from the
// state within the given bounds. Expansion works on exclusive clones; the
// receiver itself only accumulates missing-fact diagnostics. It returns an
// error only when the target fails to parse.
func (s *System) SearchForProof(target string, opts SearchOptions) (SearchResult, error) {
	canonical, err := formula.Canonical(target)
	if err != nil {
		return SearchResult{}, err
	}
	if s.holds(canonical) {
		return SearchResult{Proven: true, Depth: 0}, nil
	}
	resolved, unresolved, err := s.CanResolveFormula(canonical)
	if err != nil {
		return SearchResult{}, err
	}
	if !resolved {
		return SearchResult{MissingFacts: unresolved}, nil
	}

	want := formula.StripDoubleNegation(canonical)
	queue := []searchNode{{state: s.Clone(), depth: 0}}
	visited := map[string]struct{}{s.Signature(): {}}
	var result SearchResult

	for len(queue) > 0 {
		result.Iterations++
		if result.Iterations > opts.MaxIterations {
			break
		}
		node := queue[0]
		queue = queue[1:]
		if node.depth >= opts.MaxDepth {
			continue
		}
		if node.state.StepCount() >= opts.MaxSteps {
			continue
		}

		candidates := expand(node.state, opts.Parallel)
		result.Expanded += len(candidates)

		for _, cand := range candidates {
			if cand.state.holds(want) {
				result.Proven = true
				result.Depth = node.depth + 1
				result.Path = appendPath(node.path, cand.desc)
				return result, nil
			}
		}

		overflow := false
		for _, cand := range candidates {
			if _, seen := visited[cand.sig]; seen {
				continue
			}
			visited[cand.sig] = struct{}{}
			if len(queue) >= opts.MaxQueue {
				overflow = true
				break
			}
			queue = append(queue, searchNode{
				state: cand.state,
				depth: node.depth + 1,
				path:  appendPath(node.path, cand.desc),
			})
		}
		if overflow {
			break
		}
	}
	return result, nil
}

func appendPath(path []string, desc string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, path...)
	return append(out, desc)
}

// expand generates every successor reachable from the state by one rule
// application: the four binary rules over every ordered step pair, and
// contraposition plus both double-negation variants over every single step.
// Candidates that error or introduce no new formula are discarded. The
// result is sorted by signature so expansion order is deterministic whether
// or not generation ran in parallel.
func expand(parent *System, parallel bool) []candidate {
	apps := enumerate(parent.StepCount())
	var out []candidate
	if parallel {
		var mu sync.Mutex
		g := new(errgroup.Group)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for _, app := range apps {
			app := app
			g.Go(func() error {
				if cand, ok := try(parent, app); ok {
					mu.Lock()
					out = append(out, cand)
					mu.Unlock()
				}
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, app := range apps {
			if cand, ok := try(parent, app); ok {
				out = append(out, cand)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].sig != out[j].sig {
			return out[i].sig < out[j].sig
		}
		return out[i].desc < out[j].desc
	})
	return out
}

func enumerate(steps int) []Application {
	var apps []Application
	for i := 0; i < steps; i++ {
		for j := 0; j < steps; j++ {
			apps = append(apps,
				Application{Rule: RuleAlpha, Subtype: SubtypeAnd, Inputs: []int{i, j}},
				Application{Rule: RuleAlpha, Subtype: SubtypeImplies, Inputs: []int{i, j}},
				Application{Rule: RuleBeta, Inputs: []int{i, j}},
				Application{Rule: RuleEquivalence, Inputs: []int{i, j}},
			)
		}
	}
	for i := 0; i < steps; i++ {
		apps = append(apps,
			Application{Rule: RuleContraposition, Inputs: []int{i}},
			Application{Rule: RuleDoubleNegation, Subtype: SubtypeIntroduction, Inputs: []int{i}},
			Application{Rule: RuleDoubleNegation, Subtype: SubtypeElimination, Inputs: []int{i}},
		)
	}
	return apps
}

// try applies one rule on a clone of the parent. It reads the parent only,
// so concurrent calls over the same parent are safe.
func try(parent *System, app Application) (candidate, bool) {
	clone := parent.Clone()
	idx, err := clone.Apply(app)
	if err != nil {
		return candidate{}, false
	}
	derived, ok := clone.steps[idx].Formula()
	if !ok {
		return candidate{}, false
	}
	if parent.known(derived) {
		return candidate{}, false
	}
	return candidate{state: clone, desc: app.String(), sig: clone.Signature()}, true
}
