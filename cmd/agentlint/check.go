package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/steveyegge/agentlint/internal/analyzer"
	"github.com/steveyegge/agentlint/internal/artifact"
	"github.com/steveyegge/agentlint/internal/config"
	"github.com/steveyegge/agentlint/internal/patterns"
	"github.com/steveyegge/agentlint/internal/report"
	"github.com/steveyegge/agentlint/internal/suppress"
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Analyze artifacts and report findings",
	Long: `Discover artifacts under a directory (or analyze a single file), run
every applicable pattern plus the cross-file detectors, filter through
suppressions, and render the findings.

Examples:
  # Analyze the current directory
  agentlint check

  # Analyze one file
  agentlint check .claude/agents/reviewer.md

  # Machine-readable output
  agentlint check --json

  # Include LOW-certainty findings
  agentlint check --verbose

  # Fail CI when HIGH findings exist
  agentlint check --fail-on high`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		verbose, _ := cmd.Flags().GetBool("verbose")
		failOn, _ := cmd.Flags().GetString("fail-on")

		run, err := runAnalysis(root)
		if err != nil {
			return err
		}

		if asJSON {
			out, err := json.MarshalIndent(run.Report, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
			fmt.Fprintln(os.Stdout, string(out))
		} else {
			report.Render(os.Stdout, run.Report, report.RenderOptions{
				Verbose:       verbose,
				ArtifactCount: len(run.Artifacts),
				Suppressed:    run.Suppressed,
			})
		}

		if shouldFail(run.Report.Summary, failOn) {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().Bool("json", false, "emit the canonical JSON report")
	checkCmd.Flags().Bool("verbose", false, "include LOW findings and suppressed details")
	checkCmd.Flags().String("fail-on", "", "exit non-zero when findings at this certainty exist (high|medium|low)")
	rootCmd.AddCommand(checkCmd)
}

// analysisRun bundles everything one pass produces, for check/fix/watch to
// share.
type analysisRun struct {
	Root       string
	Config     *config.Config
	Artifacts  []*artifact.Artifact
	Active     []patterns.Finding
	Suppressed []suppress.SuppressedFinding
	Report     *report.Report
}

// runAnalysis performs the full pipeline: config, discovery, per-document
// and cross-file analysis, suppression, aggregation.
func runAnalysis(root string) (*analysisRun, error) {
	cfgRoot := root
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		cfgRoot = filepath.Dir(root)
	}
	cfg, err := config.Load(cfgRoot)
	if err != nil {
		return nil, err
	}

	arts, err := artifact.Discover(root, artifact.DiscoverOptions{
		ExcludeDirs: cfg.ExcludeDirs(artifact.DefaultExcludeDirs),
	})
	if err != nil {
		return nil, err
	}

	reg := patterns.NewRegistry(cfg.CertaintyOverrides())
	findings := analyzer.AnalyzeAll(arts, reg)

	learned := cfg.Learned
	if store, storeErr := suppress.OpenStore(storePath(cfgRoot)); storeErr == nil {
		if stored, loadErr := store.LoadLearned(); loadErr == nil {
			learned = learned.Merge(stored)
		}
		_ = store.Close()
	}

	active, suppressed := suppress.FilterFindings(findings, &cfg.Suppress, learned)
	return &analysisRun{
		Root:       root,
		Config:     cfg,
		Artifacts:  arts,
		Active:     active,
		Suppressed: suppressed,
		Report:     report.Build(active),
	}, nil
}

// storePath is where the learned-suppression database lives.
func storePath(root string) string {
	return filepath.Join(root, ".agentlint", "suppressions.db")
}

func shouldFail(s report.Summary, failOn string) bool {
	switch failOn {
	case "high":
		return s.High > 0
	case "medium":
		return s.High+s.Medium > 0
	case "low":
		return s.Total() > 0
	}
	return false
}
