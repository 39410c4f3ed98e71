package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/steveyegge/agentlint/internal/patterns"
	"github.com/steveyegge/agentlint/internal/suppress"
)

// RenderOptions controls the human-readable rendering.
type RenderOptions struct {
	// Verbose includes LOW findings and the suppressed list.
	Verbose bool

	// ArtifactCount distinguishes "found nothing to analyze" from "analyzed
	// and found nothing wrong".
	ArtifactCount int

	// Suppressed findings, for the audit trail.
	Suppressed []suppress.SuppressedFinding

	// LearnedDigest lists suppressions learned during this run.
	LearnedDigest []suppress.Entry
}

// Render writes the grouped report. A report always renders: zero artifacts
// and zero findings are both explicit states, never silence.
func Render(w io.Writer, rep *Report, opts RenderOptions) {
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	if opts.ArtifactCount == 0 {
		fmt.Fprintf(w, "%s No artifacts found, nothing to analyze\n", red("✗"))
		return
	}

	if len(rep.Findings) == 0 {
		fmt.Fprintf(w, "%s %d artifacts analyzed, no issues found\n", green("✓"), opts.ArtifactCount)
		renderSuppressed(w, opts, yellow)
		renderDigest(w, opts)
		return
	}

	renderGroup(w, rep, patterns.CertaintyHigh, red("HIGH"))
	renderGroup(w, rep, patterns.CertaintyMedium, yellow("MEDIUM"))
	if opts.Verbose {
		renderGroup(w, rep, patterns.CertaintyLow, cyan("LOW"))
	}

	renderSummaryTable(w, rep)
	fmt.Fprintf(w, "\n%d findings (%d auto-fixable) across %d artifacts\n",
		totalShown(rep, opts.Verbose), rep.AutoFixableCount(), opts.ArtifactCount)

	renderSuppressed(w, opts, yellow)
	renderDigest(w, opts)
}

func totalShown(rep *Report, verbose bool) int {
	if verbose {
		return rep.Summary.Total()
	}
	return rep.Summary.High + rep.Summary.Medium
}

func renderGroup(w io.Writer, rep *Report, certainty patterns.Certainty, label string) {
	var group []patterns.Finding
	for _, f := range rep.Findings {
		if f.Certainty == certainty {
			group = append(group, f)
		}
	}
	if len(group) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d)\n", label, len(group))
	for _, f := range group {
		location := f.File
		if f.Line > 0 {
			location = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		marker := " "
		if f.AutoFixable {
			marker = "*"
		}
		fmt.Fprintf(w, " %s %s [%s] %s\n", marker, location, f.PatternID, f.Issue)
		if f.Fix != "" {
			fmt.Fprintf(w, "     fix: %s\n", f.Fix)
		}
	}
}

// renderSummaryTable prints the per-analyzer executive summary.
func renderSummaryTable(w io.Writer, rep *Report) {
	names := make([]string, 0, len(rep.ByEnhancer))
	for name := range rep.ByEnhancer {
		names = append(names, name)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Analyzer", "High", "Medium", "Low"})
	for _, name := range names {
		s := rep.ByEnhancer[name]
		t.AppendRow(table.Row{name, s.High, s.Medium, s.Low})
	}
	t.AppendFooter(table.Row{"total", rep.Summary.High, rep.Summary.Medium, rep.Summary.Low})
	fmt.Fprintln(w)
	t.Render()
}

func renderSuppressed(w io.Writer, opts RenderOptions, paint func(a ...interface{}) string) {
	if len(opts.Suppressed) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s %d findings suppressed\n", paint("⚠"), len(opts.Suppressed))
	if !opts.Verbose {
		return
	}
	for _, s := range opts.Suppressed {
		fmt.Fprintf(w, "   %s [%s] via %s\n", s.Finding.File, s.Finding.PatternID, s.Match.Reason)
	}
}

func renderDigest(w io.Writer, opts RenderOptions) {
	if len(opts.LearnedDigest) == 0 {
		return
	}
	fmt.Fprintln(w)
	RenderLearnedDigest(w, opts.LearnedDigest)
}

// RenderLearnedDigest prints newly learned suppression entries. Shared by
// the report renderer and the suppress learn command.
func RenderLearnedDigest(w io.Writer, entries []suppress.Entry) {
	if len(entries) == 0 {
		return
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(w, "%s newly learned suppressions:\n", cyan("ℹ"))
	for _, e := range entries {
		fmt.Fprintf(w, "   %s @ %s (%.2f) %s\n", e.PatternID, e.File, e.Confidence, e.Reason)
	}
}
