package main

import (
	"fmt"

	"tally/pkg/eventlog"
	"tally/pkg/feedback"
	"tally/pkg/perf"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// newFeedbackCmd creates the "tally feedback" subcommand group.
func newFeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Record and inspect user feedback on agents",
	}
	cmd.AddCommand(newFeedbackAddCmd())
	cmd.AddCommand(newFeedbackListCmd())
	return cmd
}

func newFeedbackAddCmd() *cobra.Command {
	var (
		agent    string
		taskType string
		rating   int
		comment  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a feedback entry for an agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}

			entry := feedback.Entry{
				ID:       uuid.NewString(),
				Agent:    agent,
				TaskType: taskType,
				Rating:   rating,
				Comment:  comment,
			}
			if err := feedback.NewSystem(store).Record(entry); err != nil {
				return fmt.Errorf("feedback: %w", err)
			}

			appendEvent(cmd, store, eventlog.AppendParams{
				Type:     eventlog.TypeFeedback,
				Agent:    agent,
				TaskType: taskType,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded rating %d for %s\n", rating, agent)
			return nil
		},
	}

	cmd.Flags().StringVar(&agent, "agent", "", "agent the feedback is about (required)")
	cmd.Flags().StringVar(&taskType, "task-type", "", "task type the feedback applies to")
	cmd.Flags().IntVar(&rating, "rating", 0, "rating, 1-5 (required)")
	cmd.Flags().StringVar(&comment, "comment", "", "free-form comment")

	return cmd
}

func newFeedbackListCmd() *cobra.Command {
	var (
		agent string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List feedback entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			system := feedback.NewSystem(store)

			entries, err := system.List(feedback.ListOpts{Agent: agent, Limit: limit})
			if err != nil {
				return fmt.Errorf("feedback: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No feedback recorded yet.")
				return nil
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-24s %-8s %-17s %s\n", "AGENT", "RATING", "CREATED", "COMMENT")
			for _, e := range entries {
				fmt.Fprintf(w, "%-24s %-8d %-17s %s\n",
					e.Agent, e.Rating, e.CreatedAt.Format("2006-01-02 15:04"), e.Comment)
			}

			if agent != "" {
				rate := -1.0
				if stats, err := perf.NewTracker(store).Stats(agent); err == nil && stats.TaskCount > 0 {
					rate = stats.SuccessRate()
				}
				if adjusted, ok, err := system.AdjustedRating(agent, rate); err == nil && ok {
					fmt.Fprintf(w, "\nAdjusted rating for %s: %.2f\n", agent, adjusted)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&agent, "agent", "", "limit output to one agent")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries to print (0 = all)")

	return cmd
}
