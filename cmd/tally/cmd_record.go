package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"tally/pkg/eventlog"
	"tally/pkg/pattern"
	"tally/pkg/perf"
	"tally/pkg/predict"
	"tally/pkg/project"

	"github.com/spf13/cobra"
)

// recordConfig holds flag values for the record command.
type recordConfig struct {
	taskType   string
	agent      string
	skills     []string
	success    bool
	quality    float64
	duration   float64
	desc       string
	language   string
	framework  string
	complexity string
}

// newRecordCmd creates the "tally record" subcommand.
func newRecordCmd() *cobra.Command {
	var cfg recordConfig

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a task outcome",
		Long:  "Appends a pattern to the history, updates the agent's rolling\nperformance aggregates, and evicts the stale prediction cache entry.\nBlank language/framework are filled in from project detection.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.agent == "" {
				return fmt.Errorf("record: --agent is required")
			}
			if cfg.quality < 0 || cfg.quality > 100 {
				return fmt.Errorf("record: --quality %v out of range [0,100]", cfg.quality)
			}

			store, err := openStore(cmd)
			if err != nil {
				return err
			}

			// Best-effort context fill from the project manifests around the
			// store directory.
			ctx := project.Detect(projectRootOf(store.Dir()))
			cfg.language, cfg.framework = ctx.Fill(cfg.language, cfg.framework)

			profile := pattern.TaskProfile{
				TaskType:    cfg.taskType,
				Description: cfg.desc,
				Language:    cfg.language,
				Framework:   cfg.framework,
				Complexity:  cfg.complexity,
			}

			predictor := newPredictor(store)
			rec, err := predictor.Record(predict.RecordParams{
				Profile: profile,
				Agent:   cfg.agent,
				Skills:  cfg.skills,
				Outcome: pattern.Outcome{
					Success:  cfg.success,
					Quality:  cfg.quality,
					Duration: cfg.duration,
				},
			})
			if err != nil {
				return fmt.Errorf("record: %w", err)
			}

			tracker := perf.NewTracker(store)
			if err := tracker.RecordOutcome(perf.OutcomeParams{
				Agent:    cfg.agent,
				Success:  cfg.success,
				Quality:  cfg.quality,
				Duration: cfg.duration,
				When:     rec.RecordedAt,
			}); err != nil {
				return fmt.Errorf("record: %w", err)
			}

			payload, _ := json.Marshal(rec.Outcome)
			appendEvent(cmd, store, eventlog.AppendParams{
				Type:        eventlog.TypeOutcome,
				Agent:       cfg.agent,
				TaskType:    cfg.taskType,
				Fingerprint: rec.Fingerprint,
				Payload:     string(payload),
			})

			result := "failure"
			if cfg.success {
				result = "success"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s (%s, quality %.0f) for %s",
				result, cfg.taskType, cfg.quality, cfg.agent)
			if len(cfg.skills) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " using %s", strings.Join(cfg.skills, ", "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), " [%s]\n", rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.taskType, "task-type", "feature", "task type (debug, feature, refactor, test, review, docs)")
	cmd.Flags().StringVar(&cfg.agent, "agent", "", "agent that handled the task (required)")
	cmd.Flags().StringSliceVar(&cfg.skills, "skills", nil, "skills used, comma separated")
	cmd.Flags().BoolVar(&cfg.success, "success", false, "task succeeded")
	cmd.Flags().Float64Var(&cfg.quality, "quality", 0, "outcome quality, 0-100")
	cmd.Flags().Float64Var(&cfg.duration, "duration", 0, "task duration in seconds")
	cmd.Flags().StringVar(&cfg.desc, "desc", "", "short task description")
	cmd.Flags().StringVar(&cfg.language, "language", "", "task language (default: detected)")
	cmd.Flags().StringVar(&cfg.framework, "framework", "", "task framework (default: detected)")
	cmd.Flags().StringVar(&cfg.complexity, "complexity", "medium", "task complexity (low, medium, high)")

	return cmd
}
