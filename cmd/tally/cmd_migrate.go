package main

import (
	"fmt"

	"tally/pkg/eventlog"
	"tally/pkg/migrate"
	"tally/pkg/patstore"

	"github.com/spf13/cobra"
)

// newMigrateCmd creates the "tally migrate" subcommand.
func newMigrateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate store documents to the current schema",
		Long:  fmt.Sprintf("Brings every document in the store up to schema version %d,\napplying pending migrations in order. Absent documents are skipped.", patstore.SchemaVersion),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}

			report, err := migrate.Run(store, dryRun)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(report.Changes) == 0 {
				fmt.Fprintln(w, "All documents already at the current schema.")
				return nil
			}
			verb := "Applied"
			if report.DryRun {
				verb = "Would apply"
			}
			for _, c := range report.Changes {
				fmt.Fprintf(w, "%s %s: v%d -> v%d (%s)\n",
					verb, c.Document, c.FromVersion, c.ToVersion, c.Name)
			}

			if !report.DryRun {
				appendEvent(cmd, store, eventlog.AppendParams{
					Type:    eventlog.TypeMigration,
					Payload: fmt.Sprintf(`{"changes":%d}`, len(report.Changes)),
				})
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report pending migrations without writing")

	return cmd
}
