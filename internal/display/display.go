// Package display renders proof results and derivation lineage for the CLI.
// It is purely presentational; nothing in here feeds back into the core.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"entail/internal/deduction"
	"entail/internal/scenario"
)

var (
	provenStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	notProvenStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	formulaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Result renders one target's search outcome.
func Result(target string, res deduction.SearchResult) string {
	var b strings.Builder
	verdict := notProvenStyle.Render("NOT PROVEN")
	if res.Proven {
		verdict = provenStyle.Render("PROVEN")
	}
	fmt.Fprintf(&b, "%s  %s", verdict, formulaStyle.Render(target))
	if res.Proven {
		fmt.Fprintf(&b, "  %s", dimStyle.Render(fmt.Sprintf("(depth %d)", res.Depth)))
	}
	b.WriteString("\n")
	for i, step := range res.Path {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render(fmt.Sprintf("round %d:", i+1)), step)
	}
	if len(res.MissingFacts) > 0 {
		fmt.Fprintf(&b, "  %s %s\n", warnStyle.Render("missing facts:"), strings.Join(res.MissingFacts, ", "))
	}
	if !res.Proven && len(res.MissingFacts) == 0 {
		fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("no derivation within bounds (%d iterations, %d candidates)", res.Iterations, res.Expanded)))
	}
	return b.String()
}

// Steps renders the derivation log with lineage backlinks.
func Steps(sys *deduction.System) string {
	var b strings.Builder
	for i, step := range sys.Steps() {
		name := string(step.Rule)
		if step.Subtype != deduction.SubtypeNone {
			name += "/" + string(step.Subtype)
		}
		line := fmt.Sprintf("[%d] %-26s", i, name)
		if f, ok := step.Formula(); ok {
			line += " " + formulaStyle.Render(f)
		}
		if len(step.Antecedents) > 0 {
			refs := make([]string, len(step.Antecedents))
			for k, a := range step.Antecedents {
				refs[k] = fmt.Sprintf("%d", a)
			}
			line += dimStyle.Render("  from " + strings.Join(refs, ", "))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// Report renders a whole scenario run.
func Report(rep *scenario.RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n",
		dimStyle.Render("scenario"),
		rep.Scenario,
		dimStyle.Render(fmt.Sprintf("run %s, %s", rep.RunID, rep.Duration.Round(time.Millisecond))))
	for _, sk := range rep.Skipped {
		fmt.Fprintf(&b, "%s step %d (%s): %s\n", warnStyle.Render("skipped"), sk.Index, sk.Rule, sk.Reason)
	}
	for _, tr := range rep.Results {
		if tr.Err != nil {
			fmt.Fprintf(&b, "%s  %s: %v\n", notProvenStyle.Render("ERROR"), tr.Target, tr.Err)
			continue
		}
		b.WriteString(Result(tr.Target, tr.Result))
	}
	return b.String()
}
