package main

import (
	"fmt"
	"time"

	"tally/pkg/eventlog"

	"github.com/spf13/cobra"
)

// newLogsCmd creates the "tally logs" subcommand.
func newLogsCmd() *cobra.Command {
	var (
		agent     string
		eventType string
		since     string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recorded events, newest first",
		Long:  "Reads the append-only event log beside the store. Events cover\noutcome records, served suggestions and predictions, feedback,\nassessments and migration runs.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}

			reader, err := eventlog.NewReader(eventlog.DBPath(store.Dir()))
			if err != nil {
				return fmt.Errorf("logs: %w", err)
			}
			defer reader.Close()

			opts := eventlog.QueryOpts{
				Agent:     agent,
				EventType: eventType,
				Limit:     limit,
			}
			if since != "" {
				d, err := time.ParseDuration(since)
				if err != nil {
					return fmt.Errorf("logs: bad --since %q: %w", since, err)
				}
				after := time.Now().Add(-d)
				opts.After = &after
			}

			events, err := reader.Query(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("logs: %w", err)
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No events.")
				return nil
			}

			w := cmd.OutOrStdout()
			for _, e := range events {
				fmt.Fprintf(w, "%s | %-20s | %-20s | %-10s | %s\n",
					e.CreatedAt.Format("2006-01-02 15:04:05"),
					e.Type, e.Agent, e.TaskType, e.Fingerprint)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&agent, "agent", "", "filter by agent")
	cmd.Flags().StringVar(&eventType, "type", "", "filter by event type")
	cmd.Flags().StringVar(&since, "since", "", "only events newer than this duration (e.g. 24h)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum events to print (0 = all)")

	return cmd
}
