// Command agentlint analyzes agent instruction files, commands, skills,
// plugin manifests, and project-memory documents for quality defects, and
// can auto-fix the HIGH-certainty ones.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "agentlint",
	Short: "Static analysis for AI agent configuration files",
	Long: `agentlint inspects agent instruction files for defects no compiler sees:
missing required sections, over-broad tool grants, duplicated or
contradictory directives across files, unparseable JSON examples, and
schema defects.

Findings carry a certainty (HIGH, MEDIUM, LOW). Only HIGH-certainty
findings are ever auto-fixed, and known false positives can be suppressed
per (pattern, file) pair.`,
	Version: Version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
