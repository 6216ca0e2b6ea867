package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"entail/internal/display"
	"entail/internal/scenario"
)

var runShowSteps bool

// runCmd executes a scenario file end to end.
var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run a scenario file and prove its targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scenario.Load(args[0])
		if err != nil {
			return err
		}

		reg := scenario.NewRegistry()
		reg.Register("env", scenario.EnvResolver("ENTAIL_FACT_"))

		runner := scenario.NewRunner(logger, reg, scenario.RunnerOptions{
			Search:         cfg.Search.Options(),
			ResolveTimeout: cfg.Resolver.TimeoutDuration(),
		})
		report, err := runner.Run(cmd.Context(), sc)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), display.Report(report))

		if runShowSteps {
			fmt.Fprint(cmd.OutOrStdout(), display.Steps(report.System))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runShowSteps, "steps", false, "print the derivation log after the run")
}
