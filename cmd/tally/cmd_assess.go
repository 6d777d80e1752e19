package main

import (
	"encoding/json"
	"fmt"

	"tally/pkg/assess"
	"tally/pkg/eventlog"

	"github.com/spf13/cobra"
)

// newAssessCmd creates the "tally assess" subcommand group.
func newAssessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Record and report task quality assessments",
	}
	cmd.AddCommand(newAssessAddCmd())
	cmd.AddCommand(newAssessListCmd())
	cmd.AddCommand(newAssessReportCmd())
	return cmd
}

func newAssessAddCmd() *cobra.Command {
	var rec assess.Record

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an assessment for a finished task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			if err := assess.NewStorage(store).Add(rec); err != nil {
				return fmt.Errorf("assess: %w", err)
			}

			payload, _ := json.Marshal(map[string]float64{"qis": rec.QIS()})
			appendEvent(cmd, store, eventlog.AppendParams{
				Type:    eventlog.TypeAssessment,
				Payload: string(payload),
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded assessment for %s (QIS %.1f)\n", rec.TaskID, rec.QIS())
			return nil
		},
	}

	cmd.Flags().StringVar(&rec.TaskID, "task", "", "task identifier (required)")
	cmd.Flags().Float64Var(&rec.InitialQuality, "initial", 0, "quality before the work, 0-100")
	cmd.Flags().Float64Var(&rec.FinalQuality, "final", 0, "quality after the work, 0-100")
	cmd.Flags().Float64Var(&rec.TargetQuality, "target", 0, "quality target, 0-100")
	cmd.Flags().StringVar(&rec.Notes, "notes", "", "free-form notes")

	return cmd
}

func newAssessListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List assessments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			records, err := assess.NewStorage(store).List()
			if err != nil {
				return fmt.Errorf("assess: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No assessments recorded yet.")
				return nil
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-24s %-9s %-7s %-8s %-6s %s\n", "TASK", "INITIAL", "FINAL", "TARGET", "QIS", "CREATED")
			for _, r := range records {
				fmt.Fprintf(w, "%-24s %-9.0f %-7.0f %-8.0f %-6.1f %s\n",
					r.TaskID, r.InitialQuality, r.FinalQuality, r.TargetQuality,
					r.QIS(), r.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newAssessReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Summarize quality improvement across all assessments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			summary, err := assess.NewStorage(store).Report()
			if err != nil {
				return fmt.Errorf("assess: %w", err)
			}

			w := cmd.OutOrStdout()
			if summary.Count == 0 {
				fmt.Fprintln(w, "No assessments recorded yet.")
				return nil
			}
			fmt.Fprintf(w, "Assessments: %d\n", summary.Count)
			fmt.Fprintf(w, "Mean QIS:    %.1f\n", summary.MeanQIS)
			fmt.Fprintf(w, "Best:        %s (%.1f)\n", summary.BestTask, summary.BestQIS)
			fmt.Fprintf(w, "Worst:       %s (%.1f)\n", summary.WorstTask, summary.WorstQIS)
			return nil
		},
	}
}
