package main

import (
	"fmt"

	"tally/internal/appversion"

	"github.com/spf13/cobra"
)

// newRootCmd creates the root tally command with all subcommands attached.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tally",
		Short:         "Task outcome tracking and agent recommendation",
		Long:          "tally records task outcomes in a .claude-patterns directory,\ntracks agent performance, and recommends agents and skills for new tasks.",
		Version:       fmt.Sprintf("tally %s", appversion.String()),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.PersistentFlags().String("dir", "", "patterns directory (default: ./.claude-patterns, or $TALLY_PATTERNS_DIR)")

	cmd.AddCommand(
		newInitCmd(),
		newRecordCmd(),
		newStatsCmd(),
		newSuggestCmd(),
		newPredictCmd(),
		newFeedbackCmd(),
		newAssessCmd(),
		newMigrateCmd(),
		newLogsCmd(),
		newStatusCmd(),
		newDashCmd(),
		newHelpCmd(cmd),
	)

	return cmd
}
