package main

import (
	"fmt"

	"tally/pkg/eventlog"
	"tally/pkg/patstore"

	"github.com/spf13/cobra"
)

// newInitCmd creates the "tally init" subcommand.
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the patterns directory",
		Long:  "Creates .claude-patterns with a default config.yaml and the event\ndatabase. Safe to run on an existing store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(cmd)
			if err != nil {
				return err
			}

			store, err := patstore.Init(dir)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}

			log, err := eventlog.Open(eventlog.DBPath(store.Dir()))
			if err != nil {
				return fmt.Errorf("init event log: %w", err)
			}
			defer log.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized pattern store at %s\n", store.Dir())
			return nil
		},
	}
}
