// Package deduction implements the natural-deduction engine: a derivation
// state holding axiomatic facts and an append-only log of derivation steps,
// the five inference rules that grow it, closed-world resolvability checks,
// and a bounded breadth-first proof search over cloned states.
package deduction

import (
	"sort"
	"strings"

	"entail/internal/formula"
)

// Rule identifies the provenance of a derivation step.
type Rule string

const (
	// RuleFact marks a step created for an axiomatic fact.
	RuleFact Rule = "fact"
	// RuleProposition marks a goal declaration: the step holds the named
	// formula so rules can reference it, but it asserts nothing.
	RuleProposition    Rule = "proposition"
	RuleAlpha          Rule = "alpha"
	RuleBeta           Rule = "beta"
	RuleContraposition Rule = "contraposition"
	RuleDoubleNegation Rule = "doubleNegation"
	RuleEquivalence    Rule = "equivalence"
)

// Subtype is a rule variant, or empty for rules without variants.
type Subtype string

const (
	SubtypeNone         Subtype = ""
	SubtypeAnd          Subtype = "and"
	SubtypeImplies      Subtype = "implies"
	SubtypeIntroduction Subtype = "introduction"
	SubtypeElimination  Subtype = "elimination"
)

// Step is one immutable entry of the derivation log. Antecedents are arena
// indices into the owning system's step slice; they are lineage backlinks
// only and never mutate the referenced steps.
type Step struct {
	Rule        Rule
	Subtype     Subtype
	Antecedents []int
	Formulas    []string
}

// Formula returns the step's single canonical formula, if it holds exactly
// one.
func (s Step) Formula() (string, bool) {
	if len(s.Formulas) != 1 {
		return "", false
	}
	return s.Formulas[0], true
}

// SkippedStep records a scenario step the applier could not derive.
type SkippedStep struct {
	Index   int
	Rule    Rule
	Subtype Subtype
	Reason  string
}

// System is a derivation state: a monotone proof log. Facts and steps only
// grow; search works on exclusive deep copies, never on shared instances.
type System struct {
	facts   map[string]struct{}
	steps   []Step
	missing map[string]struct{}
	skipped []SkippedStep
}

// NewSystem returns an empty derivation state.
func NewSystem() *System {
	return &System{
		facts:   make(map[string]struct{}),
		missing: make(map[string]struct{}),
	}
}

// NewSystemFromFacts builds a state from a fully resolved availability map.
// Only names mapped to true become known facts; a false value establishes
// nothing, which is what makes the name's negation resolvable under the
// closed-world rules. Names may themselves be "~"-prefixed when the resolver
// layer synthesized negated facts. Processing order is sorted so fact step
// indices are deterministic.
func NewSystemFromFacts(available map[string]bool) (*System, error) {
	s := NewSystem()
	names := make([]string, 0, len(available))
	for name := range available {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !available[name] {
			continue
		}
		if err := s.AddFact(name); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddFact records a formula as axiomatically known and appends a fact step
// holding it, so rules can take the fact as an input. Re-adding a known fact
// is a no-op.
func (s *System) AddFact(f string) error {
	canonical, err := formula.Canonical(f)
	if err != nil {
		return err
	}
	if _, ok := s.facts[canonical]; ok {
		return nil
	}
	s.facts[canonical] = struct{}{}
	s.steps = append(s.steps, Step{Rule: RuleFact, Formulas: []string{canonical}})
	return nil
}

// AddProposition declares a named goal formula and returns its step handle.
// The step can feed rule applications, but the proposition itself is not
// asserted: it never counts as established knowledge.
func (s *System) AddProposition(name string) (int, error) {
	canonical, err := formula.Canonical(name)
	if err != nil {
		return 0, err
	}
	s.steps = append(s.steps, Step{Rule: RuleProposition, Formulas: []string{canonical}})
	return len(s.steps) - 1, nil
}

// IsFactAvailable reports whether the exact canonical string is established:
// present in the fact set or held by a non-proposition step.
func (s *System) IsFactAvailable(name string) bool {
	if _, ok := s.facts[name]; ok {
		return true
	}
	for _, st := range s.steps {
		if st.Rule == RuleProposition {
			continue
		}
		for _, f := range st.Formulas {
			if f == name {
				return true
			}
		}
	}
	return false
}

// IsAtomResolvable applies closed-world auto-negation: an atom is resolvable
// if it is available, if it is a negation whose base was never established,
// or if its negation is available. An atom declared as a proposition is
// resolvable without being established.
func (s *System) IsAtomResolvable(atom string) bool {
	if s.IsFactAvailable(atom) {
		return true
	}
	if strings.HasPrefix(atom, "~") {
		return !s.IsFactAvailable(strings.TrimPrefix(atom, "~"))
	}
	if s.isProposed(atom) {
		return true
	}
	return s.IsFactAvailable("~" + atom)
}

func (s *System) isProposed(name string) bool {
	for _, st := range s.steps {
		if st.Rule != RuleProposition {
			continue
		}
		if f, ok := st.Formula(); ok && f == name {
			return true
		}
	}
	return false
}

// CanResolveFormula parses the formula and tests every referenced atom with
// IsAtomResolvable. It returns whether all atoms resolved and the unresolved
// base names (leading "~" stripped); unresolved names are also recorded on
// the state's missing-fact set.
func (s *System) CanResolveFormula(f string) (bool, []string, error) {
	node, err := formula.Parse(f)
	if err != nil {
		return false, nil, err
	}
	var unresolved []string
	for _, atom := range formula.Atoms(node) {
		if s.IsAtomResolvable(atom) {
			continue
		}
		base := strings.TrimPrefix(atom, "~")
		unresolved = append(unresolved, base)
		s.missing[base] = struct{}{}
	}
	return len(unresolved) == 0, unresolved, nil
}

// holds reports whether the formula is established knowledge, comparing
// double-negation-stripped canonical strings. Proposition steps do not count.
func (s *System) holds(f string) bool {
	want := formula.StripDoubleNegation(f)
	for fact := range s.facts {
		if formula.StripDoubleNegation(fact) == want {
			return true
		}
	}
	for _, st := range s.steps {
		if st.Rule == RuleProposition {
			continue
		}
		for _, sf := range st.Formulas {
			if formula.StripDoubleNegation(sf) == want {
				return true
			}
		}
	}
	return false
}

// known reports whether the formula occurs anywhere in the state, proposition
// steps included, under double-negation stripping. Candidate expansion uses
// it to discard derivations that add no new formula.
func (s *System) known(f string) bool {
	want := formula.StripDoubleNegation(f)
	for fact := range s.facts {
		if formula.StripDoubleNegation(fact) == want {
			return true
		}
	}
	for _, st := range s.steps {
		for _, sf := range st.Formulas {
			if formula.StripDoubleNegation(sf) == want {
				return true
			}
		}
	}
	return false
}

// Signature returns the visited-state key for search: every stripped
// canonical formula known to the state, deduplicated, sorted and joined.
func (s *System) Signature() string {
	set := make(map[string]struct{})
	for fact := range s.facts {
		set[formula.StripDoubleNegation(fact)] = struct{}{}
	}
	for _, st := range s.steps {
		for _, f := range st.Formulas {
			set[formula.StripDoubleNegation(f)] = struct{}{}
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "\n")
}

// Clone returns an exclusive deep copy. Antecedent indices stay valid in the
// clone because they index the copied step slice by position.
func (s *System) Clone() *System {
	c := &System{
		facts:   make(map[string]struct{}, len(s.facts)),
		missing: make(map[string]struct{}, len(s.missing)),
		steps:   make([]Step, len(s.steps)),
		skipped: append([]SkippedStep(nil), s.skipped...),
	}
	for f := range s.facts {
		c.facts[f] = struct{}{}
	}
	for m := range s.missing {
		c.missing[m] = struct{}{}
	}
	for i, st := range s.steps {
		c.steps[i] = Step{
			Rule:        st.Rule,
			Subtype:     st.Subtype,
			Antecedents: append([]int(nil), st.Antecedents...),
			Formulas:    append([]string(nil), st.Formulas...),
		}
	}
	return c
}

// Steps returns a copy of the derivation log.
func (s *System) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// StepCount returns the length of the derivation log.
func (s *System) StepCount() int { return len(s.steps) }

// Facts returns the sorted fact set.
func (s *System) Facts() []string {
	facts := make([]string, 0, len(s.facts))
	for f := range s.facts {
		facts = append(facts, f)
	}
	sort.Strings(facts)
	return facts
}

// MissingFacts returns the sorted names whose resolution failed so far.
func (s *System) MissingFacts() []string {
	missing := make([]string, 0, len(s.missing))
	for m := range s.missing {
		missing = append(missing, m)
	}
	sort.Strings(missing)
	return missing
}

// RecordSkipped appends a diagnostic record for a scenario step that could
// not be applied.
func (s *System) RecordSkipped(sk SkippedStep) {
	s.skipped = append(s.skipped, sk)
}

// SkippedSteps returns the recorded skip diagnostics.
func (s *System) SkippedSteps() []SkippedStep {
	return append([]SkippedStep(nil), s.skipped...)
}
