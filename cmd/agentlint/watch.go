package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/steveyegge/agentlint/internal/report"
)

// watchDebounce coalesces editor save bursts into one re-analysis.
const watchDebounce = 300 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-analyze on file changes",
	Long: `Watch a directory tree and re-run the analysis whenever an artifact
changes. Events are debounced so an editor save burst triggers one run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		return runWatch(root, verbose, nil)
	},
}

func init() {
	watchCmd.Flags().Bool("verbose", false, "include LOW findings in each run")
	rootCmd.AddCommand(watchCmd)
}

// runWatch loops until stop closes (nil means run forever).
func runWatch(root string, verbose bool, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addWatchRecursive(watcher, root); err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}

	check := func() {
		run, err := runAnalysis(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Printf("\n--- %s ---\n", time.Now().Format(time.TimeOnly))
		report.Render(os.Stdout, run.Report, report.RenderOptions{
			Verbose:       verbose,
			ArtifactCount: len(run.Artifacts),
			Suppressed:    run.Suppressed,
		})
	}
	check()

	var timer *time.Timer
	for {
		select {
		case <-stop:
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignoredEvent(ev.Name) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, check)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// ignoredEvent filters out our own outputs: the suppression store directory
// and backup siblings would otherwise retrigger the watch.
func ignoredEvent(name string) bool {
	sep := string(filepath.Separator)
	if strings.Contains(name, sep+".agentlint"+sep) || strings.HasSuffix(name, sep+".agentlint") {
		return true
	}
	return strings.HasSuffix(name, ".bak") || strings.Contains(name, ".tmp.")
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".agentlint" || d.Name() == ".git" || d.Name() == "node_modules" || d.Name() == "vendor" {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
