package main

import (
	"fmt"
	"strings"

	"tally/pkg/eventlog"
	"tally/pkg/pattern"

	"github.com/spf13/cobra"
)

// newPredictCmd creates the "tally predict" subcommand.
func newPredictCmd() *cobra.Command {
	var (
		taskType   string
		language   string
		framework  string
		complexity string
		top        int
	)

	cmd := &cobra.Command{
		Use:   "predict [description...]",
		Short: "Predict skills for an incoming task",
		Long:  "Ranks skills from the pattern history by similarity-weighted\nquality, with fresh results served from the fingerprint cache.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}

			profile := pattern.TaskProfile{
				TaskType:    taskType,
				Description: strings.Join(args, " "),
				Language:    language,
				Framework:   framework,
				Complexity:  complexity,
			}
			result, err := newPredictor(store).Predict(profile, top)
			if err != nil {
				return fmt.Errorf("predict: %w", err)
			}

			w := cmd.OutOrStdout()
			source := fmt.Sprintf("scanned %d patterns", result.Scanned)
			if result.FromCache {
				source = "cached"
			}
			fmt.Fprintf(w, "Fingerprint %s (%s, confidence %.2f)\n", result.Fingerprint, source, result.Confidence)
			if len(result.Skills) == 0 {
				fmt.Fprintln(w, "No skills above the confidence floor.")
			}
			for _, s := range result.Skills {
				fmt.Fprintf(w, "  %-30s %.3f\n", s.Name, s.Score)
			}

			appendEvent(cmd, store, eventlog.AppendParams{
				Type:        eventlog.TypePrediction,
				TaskType:    taskType,
				Fingerprint: result.Fingerprint,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&taskType, "task-type", "feature", "task type")
	cmd.Flags().StringVar(&language, "language", "", "task language")
	cmd.Flags().StringVar(&framework, "framework", "", "task framework")
	cmd.Flags().StringVar(&complexity, "complexity", "medium", "task complexity")
	cmd.Flags().IntVar(&top, "top", 5, "number of skills to print")

	return cmd
}
