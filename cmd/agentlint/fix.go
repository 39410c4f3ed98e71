package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steveyegge/agentlint/internal/fixer"
	"github.com/steveyegge/agentlint/internal/patterns"
)

var fixCmd = &cobra.Command{
	Use:   "fix [path]",
	Short: "Apply auto-fixes for HIGH-certainty findings",
	Long: `Analyze artifacts and apply the registered fix for every HIGH-certainty,
auto-fixable finding. MEDIUM and LOW findings are never touched.

Examples:
  # Preview without writing
  agentlint fix --dry-run --diff

  # Fix with sibling .bak backups
  agentlint fix --backup

  # Restore one file from its backup
  agentlint fix restore .claude/agents/reviewer.md

  # Remove all .bak files under a tree
  agentlint fix cleanup .`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		backup, _ := cmd.Flags().GetBool("backup")
		showDiff, _ := cmd.Flags().GetBool("diff")

		run, err := runAnalysis(root)
		if err != nil {
			return err
		}

		result := fixer.Apply(rebasePaths(run.Active, root), fixer.Options{
			DryRun: dryRun,
			Backup: backup,
		})
		printFixResult(result, dryRun, showDiff)
		return nil
	},
}

var fixRestoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore a file from its .bak sibling",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := fixer.RestoreFromBackup(args[0]); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s restored %s\n", green("✓"), args[0])
		return nil
	},
}

var fixCleanupCmd = &cobra.Command{
	Use:   "cleanup [dir]",
	Short: "Remove all .bak backups under a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		removed, err := fixer.CleanupBackups(root)
		if err != nil {
			return err
		}
		fmt.Printf("removed %d backups\n", len(removed))
		return nil
	},
}

func init() {
	fixCmd.Flags().Bool("dry-run", false, "compute fixes without writing")
	fixCmd.Flags().Bool("backup", false, "write .bak siblings before fixing")
	fixCmd.Flags().Bool("diff", false, "print a unified diff per modified file")
	fixCmd.AddCommand(fixRestoreCmd)
	fixCmd.AddCommand(fixCleanupCmd)
	rootCmd.AddCommand(fixCmd)
}

// rebasePaths makes finding paths resolvable from the working directory:
// discovery records paths relative to the root it walked.
func rebasePaths(findings []patterns.Finding, root string) []patterns.Finding {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return findings
	}
	out := make([]patterns.Finding, len(findings))
	for i, f := range findings {
		f.File = filepath.Join(root, f.File)
		out[i] = f
	}
	return out
}

func printFixResult(result *fixer.Result, dryRun, showDiff bool) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, a := range result.Applied {
		fmt.Printf("%s %s: %s\n", green("✓"), a.File, a.Description)
	}
	for _, s := range result.Skipped {
		fmt.Printf("%s %s [%s]: %s\n", yellow("-"), s.File, s.PatternID, s.Reason)
	}
	for _, e := range result.Errors {
		fmt.Printf("%s %s: %s\n", red("✗"), e.File, e.Reason)
	}
	if showDiff {
		for _, diff := range result.Diffs {
			fmt.Println()
			fmt.Print(diff)
		}
	}
	label := "applied"
	if dryRun {
		label = "would apply"
	}
	fmt.Printf("\n%s %d fixes, skipped %d, %d errors\n",
		label, len(result.Applied), len(result.Skipped), len(result.Errors))
}
