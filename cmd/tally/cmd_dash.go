package main

import (
	"fmt"
	"os"
	"os/exec"

	"tally/pkg/patstore"

	"github.com/spf13/cobra"
)

// newDashCmd creates the "tally dash" subcommand.
func newDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Launch interactive dashboard",
		Long:  "Opens the tally dashboard TUI for watching agent aggregates and\nthe event stream live.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(cmd)
			if err != nil {
				return err
			}

			dashCmd := exec.CommandContext(cmd.Context(), "tally-dash")
			dashCmd.Env = append(os.Environ(), patstore.EnvPatternsDir+"="+dir)
			dashCmd.Stdin = os.Stdin
			dashCmd.Stdout = os.Stdout
			dashCmd.Stderr = os.Stderr

			if err := dashCmd.Run(); err != nil {
				return fmt.Errorf("run tally-dash: %w", err)
			}

			return nil
		},
	}
}
