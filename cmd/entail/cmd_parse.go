package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"entail/internal/formula"
)

// parseCmd checks a formula and prints its canonical form and diagnostics.
var parseCmd = &cobra.Command{
	Use:   "parse <formula>",
	Short: "Parse a formula and print its canonical form",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := strings.Join(args, " ")
		node, err := formula.Parse(input)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), node.String())
		fmt.Fprintf(cmd.OutOrStdout(), "atoms: %s\n", strings.Join(formula.Atoms(node), ", "))
		fmt.Fprintf(cmd.OutOrStdout(), "nodes: %d, depth: %d\n", formula.CountNodes(node), formula.Depth(node))
		return nil
	},
}
