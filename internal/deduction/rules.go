package deduction

import (
	"errors"
	"fmt"
	"strings"

	"entail/internal/formula"
)

// Rule-application errors. All of them are recoverable: the search engine
// discards the offending candidate and the scenario applier records the step
// as skipped.
var (
	ErrNoSuchStep     = errors.New("no such step")
	ErrStepArity      = errors.New("step does not hold exactly one formula")
	ErrInputArity     = errors.New("wrong number of input steps")
	ErrUnknownRule    = errors.New("unknown rule")
	ErrUnknownSubtype = errors.New("unknown rule subtype")
	ErrNotImplication = errors.New("formula is not an implication")
)

// Application names one rule application: the rule, its variant and the input
// step handles.
type Application struct {
	Rule    Rule
	Subtype Subtype
	Inputs  []int
}

// String renders the application for derivation paths, e.g. "alpha/and(0,1)".
func (a Application) String() string {
	name := string(a.Rule)
	if a.Subtype != SubtypeNone {
		name += "/" + string(a.Subtype)
	}
	inputs := make([]string, len(a.Inputs))
	for i, in := range a.Inputs {
		inputs[i] = fmt.Sprintf("%d", in)
	}
	return name + "(" + strings.Join(inputs, ",") + ")"
}

func (s *System) stepFormula(i int) (string, error) {
	if i < 0 || i >= len(s.steps) {
		return "", fmt.Errorf("step %d: %w", i, ErrNoSuchStep)
	}
	f, ok := s.steps[i].Formula()
	if !ok {
		return "", fmt.Errorf("step %d: %w", i, ErrStepArity)
	}
	return f, nil
}

func (s *System) appendStep(st Step) int {
	s.steps = append(s.steps, st)
	return len(s.steps) - 1
}

func compose(a string, op formula.Op, b string) string {
	return "(" + a + " " + op.Symbol() + " " + b + ")"
}

// ApplyAlpha introduces a conjunction (subtype and) or an implication
// (subtype implies) over two existing steps. The result is composed
// textually from the input canonical strings.
func (s *System) ApplyAlpha(sub Subtype, i, j int) (int, error) {
	var op formula.Op
	switch sub {
	case SubtypeAnd:
		op = formula.OpAnd
	case SubtypeImplies:
		op = formula.OpImplies
	default:
		return 0, fmt.Errorf("alpha/%s: %w", sub, ErrUnknownSubtype)
	}
	a, err := s.stepFormula(i)
	if err != nil {
		return 0, err
	}
	b, err := s.stepFormula(j)
	if err != nil {
		return 0, err
	}
	return s.appendStep(Step{
		Rule:        RuleAlpha,
		Subtype:     sub,
		Antecedents: []int{i, j},
		Formulas:    []string{compose(a, op, b)},
	}), nil
}

// ApplyBeta introduces a disjunction over two existing steps.
func (s *System) ApplyBeta(i, j int) (int, error) {
	a, err := s.stepFormula(i)
	if err != nil {
		return 0, err
	}
	b, err := s.stepFormula(j)
	if err != nil {
		return 0, err
	}
	return s.appendStep(Step{
		Rule:        RuleBeta,
		Antecedents: []int{i, j},
		Formulas:    []string{compose(a, formula.OpOr, b)},
	}), nil
}

// ApplyEquivalence introduces a biconditional over two existing steps.
func (s *System) ApplyEquivalence(i, j int) (int, error) {
	a, err := s.stepFormula(i)
	if err != nil {
		return 0, err
	}
	b, err := s.stepFormula(j)
	if err != nil {
		return 0, err
	}
	return s.appendStep(Step{
		Rule:        RuleEquivalence,
		Antecedents: []int{i, j},
		Formulas:    []string{compose(a, formula.OpIff, b)},
	}), nil
}

// ApplyContraposition turns a step holding (A → B) into (~B → ~A). This is
// the only rule that decomposes its input structurally instead of composing
// strings.
func (s *System) ApplyContraposition(i int) (int, error) {
	f, err := s.stepFormula(i)
	if err != nil {
		return 0, err
	}
	node, err := formula.Parse(f)
	if err != nil {
		return 0, err
	}
	bin, ok := node.(formula.Binary)
	if !ok || bin.Op != formula.OpImplies {
		return 0, fmt.Errorf("step %d holds %q: %w", i, f, ErrNotImplication)
	}
	flipped := formula.NewBinary(formula.OpImplies, formula.Negate(bin.Right), formula.Negate(bin.Left))
	return s.appendStep(Step{
		Rule:        RuleContraposition,
		Antecedents: []int{i},
		Formulas:    []string{flipped.String()},
	}), nil
}

// ApplyDoubleNegation prefixes "~~" (introduction, idempotent on an already
// double-negated formula) or strips exactly one leading "~~" pair
// (elimination, a no-op when absent).
func (s *System) ApplyDoubleNegation(sub Subtype, i int) (int, error) {
	f, err := s.stepFormula(i)
	if err != nil {
		return 0, err
	}
	var result string
	switch sub {
	case SubtypeIntroduction:
		result = f
		if !strings.HasPrefix(f, "~~") {
			result = "~~" + f
		}
	case SubtypeElimination:
		result = strings.TrimPrefix(f, "~~")
	default:
		return 0, fmt.Errorf("doubleNegation/%s: %w", sub, ErrUnknownSubtype)
	}
	return s.appendStep(Step{
		Rule:        RuleDoubleNegation,
		Subtype:     sub,
		Antecedents: []int{i},
		Formulas:    []string{result},
	}), nil
}

// Apply dispatches an application over the closed rule set. The switch is
// exhaustive over derivation rules; fact and proposition steps are created
// through AddFact and AddProposition, not here.
func (s *System) Apply(app Application) (int, error) {
	switch app.Rule {
	case RuleAlpha:
		if len(app.Inputs) != 2 {
			return 0, fmt.Errorf("alpha expects 2 inputs, got %d: %w", len(app.Inputs), ErrInputArity)
		}
		return s.ApplyAlpha(app.Subtype, app.Inputs[0], app.Inputs[1])
	case RuleBeta:
		if len(app.Inputs) != 2 {
			return 0, fmt.Errorf("beta expects 2 inputs, got %d: %w", len(app.Inputs), ErrInputArity)
		}
		return s.ApplyBeta(app.Inputs[0], app.Inputs[1])
	case RuleEquivalence:
		if len(app.Inputs) != 2 {
			return 0, fmt.Errorf("equivalence expects 2 inputs, got %d: %w", len(app.Inputs), ErrInputArity)
		}
		return s.ApplyEquivalence(app.Inputs[0], app.Inputs[1])
	case RuleContraposition:
		if len(app.Inputs) != 1 {
			return 0, fmt.Errorf("contraposition expects 1 input, got %d: %w", len(app.Inputs), ErrInputArity)
		}
		return s.ApplyContraposition(app.Inputs[0])
	case RuleDoubleNegation:
		if len(app.Inputs) != 1 {
			return 0, fmt.Errorf("doubleNegation expects 1 input, got %d: %w", len(app.Inputs), ErrInputArity)
		}
		return s.ApplyDoubleNegation(app.Subtype, app.Inputs[0])
	case RuleFact, RuleProposition:
		return 0, fmt.Errorf("%s is not a derivation rule: %w", app.Rule, ErrUnknownRule)
	default:
		return 0, fmt.Errorf("%q: %w", app.Rule, ErrUnknownRule)
	}
}
