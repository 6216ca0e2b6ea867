// Package scenario implements the declarative on-disk format that feeds the
// deduction core: YAML files naming facts (literal or resolver-backed), goal
// propositions, a replayable list of rule applications and the target
// formulas to prove. The package owns all I/O and logging around the core;
// the core itself only ever sees plain strings and step handles.
package scenario

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"entail/internal/deduction"
	"entail/internal/formula"
)

// FactSpec names one fact and how to resolve it: either a literal value or
// the name of a registered resolver. Exactly one of the two must be set.
type FactSpec struct {
	Name     string `yaml:"name"`
	Value    *bool  `yaml:"value,omitempty"`
	Resolver string `yaml:"resolver,omitempty"`
}

// StepSpec is one declarative rule application over previously created steps.
type StepSpec struct {
	Rule    string `yaml:"rule"`
	Subtype string `yaml:"subtype,omitempty"`
	Inputs  []int  `yaml:"inputs"`
}

// TargetSpec is one formula to prove. MaxDepth overrides the configured
// search depth when positive.
type TargetSpec struct {
	Formula  string `yaml:"formula"`
	MaxDepth int    `yaml:"max_depth,omitempty"`
}

// Scenario is the parsed scenario file.
type Scenario struct {
	Name         string       `yaml:"name"`
	Description  string       `yaml:"description,omitempty"`
	Facts        []FactSpec   `yaml:"facts"`
	Propositions []string     `yaml:"propositions,omitempty"`
	Steps        []StepSpec   `yaml:"steps,omitempty"`
	Targets      []TargetSpec `yaml:"targets"`
}

var ruleInputs = map[string]int{
	string(deduction.RuleAlpha):          2,
	string(deduction.RuleBeta):           2,
	string(deduction.RuleEquivalence):    2,
	string(deduction.RuleContraposition): 1,
	string(deduction.RuleDoubleNegation): 1,
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Validate checks everything that can be checked without running: fact specs
// are well-formed, rules are known and given the right number of inputs, and
// every proposition and target formula parses.
func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return fmt.Errorf("scenario is missing a name")
	}
	for i, fact := range sc.Facts {
		if fact.Name == "" {
			return fmt.Errorf("fact %d is missing a name", i)
		}
		if (fact.Value == nil) == (fact.Resolver == "") {
			return fmt.Errorf("fact %q needs exactly one of value or resolver", fact.Name)
		}
	}
	for _, prop := range sc.Propositions {
		if _, err := formula.Canonical(prop); err != nil {
			return fmt.Errorf("proposition %q: %w", prop, err)
		}
	}
	for i, step := range sc.Steps {
		want, ok := ruleInputs[step.Rule]
		if !ok {
			return fmt.Errorf("step %d: unknown rule %q", i, step.Rule)
		}
		if len(step.Inputs) != want {
			return fmt.Errorf("step %d: rule %s takes %d inputs, got %d", i, step.Rule, want, len(step.Inputs))
		}
		for _, in := range step.Inputs {
			if in < 0 {
				return fmt.Errorf("step %d: negative input index %d", i, in)
			}
		}
	}
	if len(sc.Targets) == 0 {
		return fmt.Errorf("scenario has no targets")
	}
	for i, target := range sc.Targets {
		if _, err := formula.Canonical(target.Formula); err != nil {
			return fmt.Errorf("target %d: %w", i, err)
		}
	}
	return nil
}

// Build resolves every fact, declares the propositions and replays the
// declared steps, producing a derivation state ready for proof search.
// Resolution happens entirely before the core runs; a resolver failure means
// the fact simply never becomes available, which the core later surfaces as
// a missing fact. Steps that fail to apply are recorded as skipped and do
// not abort the build.
func (sc *Scenario) Build(ctx context.Context, reg *Registry, timeout time.Duration, logger *zap.Logger) (*deduction.System, error) {
	sys := deduction.NewSystem()

	resolved := reg.resolveAll(ctx, sc.Facts, timeout, logger)
	for _, res := range resolved {
		if res.err != nil {
			logger.Warn("fact resolution failed",
				zap.String("scenario", sc.Name),
				zap.String("fact", res.name),
				zap.Error(res.err))
			continue
		}
		if !res.value {
			// A false resolution establishes nothing; the closed-world
			// rules then make the fact's negation resolvable.
			logger.Debug("fact resolved false",
				zap.String("scenario", sc.Name),
				zap.String("fact", res.name))
			continue
		}
		if err := sys.AddFact(res.name); err != nil {
			return nil, fmt.Errorf("fact %q: %w", res.name, err)
		}
	}

	for _, prop := range sc.Propositions {
		if _, err := sys.AddProposition(prop); err != nil {
			return nil, fmt.Errorf("proposition %q: %w", prop, err)
		}
	}

	for i, step := range sc.Steps {
		app := deduction.Application{
			Rule:    deduction.Rule(step.Rule),
			Subtype: deduction.Subtype(step.Subtype),
			Inputs:  step.Inputs,
		}
		if _, err := sys.Apply(app); err != nil {
			sys.RecordSkipped(deduction.SkippedStep{
				Index:   i,
				Rule:    app.Rule,
				Subtype: app.Subtype,
				Reason:  err.Error(),
			})
			logger.Warn("skipping underivable scenario step",
				zap.String("scenario", sc.Name),
				zap.Int("step", i),
				zap.String("rule", app.String()),
				zap.Error(err))
		}
	}
	return sys, nil
}
