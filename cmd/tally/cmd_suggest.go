package main

import (
	"fmt"
	"strings"

	"tally/pkg/eventlog"
	"tally/pkg/patstore"
	"tally/pkg/pattern"
	"tally/pkg/perf"
	"tally/pkg/suggest"

	"github.com/spf13/cobra"
)

// newSuggestCmd creates the "tally suggest" subcommand.
func newSuggestCmd() *cobra.Command {
	var (
		taskType   string
		language   string
		complexity string
		top        int
	)

	cmd := &cobra.Command{
		Use:   "suggest [description...]",
		Short: "Suggest agents for a task",
		Long:  "Ranks catalog agents against the task description by capability\nmatch, fuzzy name match and historical success rate.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				cfg = patstore.DefaultConfig()
			}

			rates, err := perf.NewTracker(store).SuccessRates()
			if err != nil {
				return fmt.Errorf("suggest: %w", err)
			}

			suggester := suggest.New(
				suggest.WithSuccessRates(rates),
				suggest.WithFuzzyThreshold(cfg.Suggest.FuzzyThreshold),
			)
			profile := pattern.TaskProfile{
				TaskType:    taskType,
				Description: strings.Join(args, " "),
				Language:    language,
				Complexity:  complexity,
			}
			results := suggester.Suggest(profile, top)
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching agents.")
				return nil
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-20s %-7s %-7s %-7s %-7s %s\n", "AGENT", "SCORE", "CAP", "NAME", "HIST", "DESCRIPTION")
			for _, r := range results {
				fmt.Fprintf(w, "%-20s %-7.2f %-7.2f %-7.2f %-7.2f %s\n",
					r.Agent, r.Score, r.Capability, r.NameMatch, r.History, r.Description)
			}

			appendEvent(cmd, store, eventlog.AppendParams{
				Type:     eventlog.TypeSuggestion,
				Agent:    results[0].Agent,
				TaskType: taskType,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&taskType, "task-type", "", "task type to match against agent capabilities")
	cmd.Flags().StringVar(&language, "language", "", "task language")
	cmd.Flags().StringVar(&complexity, "complexity", "", "task complexity")
	cmd.Flags().IntVar(&top, "top", 3, "number of suggestions to print")

	return cmd
}
