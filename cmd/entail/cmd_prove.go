package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"entail/internal/deduction"
	"entail/internal/display"
)

var proveFacts []string

// proveCmd searches for a proof of a target from ad-hoc literal facts.
var proveCmd = &cobra.Command{
	Use:   "prove <target>",
	Short: "Prove a target formula from --fact name=value pairs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := strings.Join(args, " ")
		available := make(map[string]bool, len(proveFacts))
		for _, raw := range proveFacts {
			name, value, found := strings.Cut(raw, "=")
			if !found {
				return fmt.Errorf("fact %q: want name=value", raw)
			}
			v, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("fact %q: %w", raw, err)
			}
			available[name] = v
		}
		sys, err := deduction.NewSystemFromFacts(available)
		if err != nil {
			return err
		}
		logger.Debug("proving ad-hoc target",
			zap.String("target", target),
			zap.Int("facts", len(available)))
		result, err := sys.SearchForProof(target, cfg.Search.Options())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), display.Result(target, result))
		if !result.Proven {
			// Distinguishable exit status for guard-style callers.
			cmd.SilenceErrors = true
			return fmt.Errorf("target not proven")
		}
		return nil
	},
}

func init() {
	proveCmd.Flags().StringArrayVar(&proveFacts, "fact", nil, "known fact as name=true|false (repeatable)")
}
