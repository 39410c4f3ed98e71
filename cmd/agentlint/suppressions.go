package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steveyegge/agentlint/internal/report"
	"github.com/steveyegge/agentlint/internal/suppress"
)

var suppressCmd = &cobra.Command{
	Use:   "suppress",
	Short: "Manage learned suppressions",
	Long: `Learned suppressions silence one pattern for one exact file: the
instances you have confirmed as false positives. They never widen to a
whole pattern or a glob; use .agentlint.yaml for that.`,
}

var suppressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learned suppressions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		entries, err := store.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no learned suppressions")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s @ %s (confidence %.2f) %s\n", e.PatternID, e.File, e.Confidence, e.Reason)
		}
		return nil
	},
}

var suppressLearnCmd = &cobra.Command{
	Use:   "learn <pattern-id> <file>",
	Short: "Record a confirmed false positive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		confidence, _ := cmd.Flags().GetFloat64("confidence")
		reason, _ := cmd.Flags().GetString("reason")

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		entry, err := store.Learn(args[0], args[1], confidence, reason)
		if err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s learned: %s @ %s\n", green("✓"), entry.PatternID, entry.File)
		report.RenderLearnedDigest(os.Stdout, []suppress.Entry{*entry})
		return nil
	},
}

var suppressForgetCmd = &cobra.Command{
	Use:   "forget <pattern-id> <file>",
	Short: "Remove a learned suppression",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.Forget(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("forgot %s @ %s\n", args[0], args[1])
		return nil
	},
}

func openStore(cmd *cobra.Command) (*suppress.Store, error) {
	root, _ := cmd.Flags().GetString("root")
	return suppress.OpenStore(storePath(root))
}

func init() {
	for _, c := range []*cobra.Command{suppressListCmd, suppressLearnCmd, suppressForgetCmd} {
		c.Flags().String("root", ".", "project root holding the suppression store")
	}
	suppressLearnCmd.Flags().Float64("confidence", 1.0, "confidence that this is a false positive (informational)")
	suppressLearnCmd.Flags().String("reason", "", "why this finding is a false positive")
	suppressCmd.AddCommand(suppressListCmd)
	suppressCmd.AddCommand(suppressLearnCmd)
	suppressCmd.AddCommand(suppressForgetCmd)
	rootCmd.AddCommand(suppressCmd)
}
