package scenario

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"entail/internal/deduction"
)

// RunnerOptions configure scenario execution.
type RunnerOptions struct {
	Search         deduction.SearchOptions
	ResolveTimeout time.Duration
}

// Runner loads a scenario into a derivation state and proves its targets.
type Runner struct {
	logger *zap.Logger
	reg    *Registry
	opts   RunnerOptions
}

// NewRunner builds a runner. The logger is required; callers that want
// silence pass zap.NewNop().
func NewRunner(logger *zap.Logger, reg *Registry, opts RunnerOptions) *Runner {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Runner{logger: logger, reg: reg, opts: opts}
}

// TargetResult is the outcome of proving one target.
type TargetResult struct {
	Target   string
	Result   deduction.SearchResult
	Duration time.Duration
	Err      error
}

// RunReport aggregates one scenario execution. System is the built
// derivation state, kept for lineage display.
type RunReport struct {
	RunID    string
	Scenario string
	Results  []TargetResult
	Skipped  []deduction.SkippedStep
	Duration time.Duration
	System   *deduction.System
}

// Run builds the scenario's derivation state and searches for each target in
// order. Target-level errors (malformed target formulas) are carried in the
// per-target result; only build failures abort the run.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*RunReport, error) {
	report := &RunReport{
		RunID:    uuid.NewString(),
		Scenario: sc.Name,
	}
	start := time.Now()
	logger := r.logger.With(zap.String("run_id", report.RunID), zap.String("scenario", sc.Name))

	sys, err := sc.Build(ctx, r.reg, r.opts.ResolveTimeout, logger)
	if err != nil {
		return nil, err
	}
	report.Skipped = sys.SkippedSteps()
	report.System = sys

	for _, target := range sc.Targets {
		opts := r.opts.Search
		if target.MaxDepth > 0 {
			opts.MaxDepth = target.MaxDepth
		}
		targetStart := time.Now()
		result, err := sys.SearchForProof(target.Formula, opts)
		tr := TargetResult{
			Target:   target.Formula,
			Result:   result,
			Duration: time.Since(targetStart),
			Err:      err,
		}
		report.Results = append(report.Results, tr)
		if err != nil {
			logger.Error("target search failed", zap.String("target", target.Formula), zap.Error(err))
			continue
		}
		logger.Info("target searched",
			zap.String("target", target.Formula),
			zap.Bool("proven", result.Proven),
			zap.Int("depth", result.Depth),
			zap.Int("iterations", result.Iterations),
			zap.Strings("missing_facts", result.MissingFacts),
			zap.Duration("took", tr.Duration))
	}
	report.Duration = time.Since(start)
	return report, nil
}
