package main

import (
	"fmt"
	"time"

	"tally/pkg/pattern"
	"tally/pkg/perf"

	"github.com/spf13/cobra"
)

// newStatsCmd creates the "tally stats" subcommand.
func newStatsCmd() *cobra.Command {
	var (
		agent     string
		window    string
		debugPerf bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show agent performance aggregates",
		Long:  "Prints rolling per-agent aggregates from agent_performance.json.\nWith --window, aggregates are rebuilt from the pattern history inside\nthe window. With --debug-perf, prints the windowed debugging\nperformance report for one agent instead (24h, 7d, 30d and all-time,\nplus the trend).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			tracker := perf.NewTracker(store)

			if debugPerf {
				if agent == "" {
					return fmt.Errorf("stats: --debug-perf requires --agent")
				}
				history, err := newPredictor(store).History()
				if err != nil {
					return fmt.Errorf("stats: %w", err)
				}
				report := perf.DebugPerformance(history, agent, time.Now())
				printDebugReport(cmd, report)
				return nil
			}

			w, err := perf.ParseWindow(window)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}

			var snapshot []perf.AgentStats
			if w == perf.WindowAll {
				// All-time comes from the rolling aggregates; windows are
				// rebuilt from history.
				snapshot, err = tracker.Snapshot()
			} else {
				var history []pattern.Pattern
				history, err = newPredictor(store).History()
				if err == nil {
					snapshot = perf.WindowedSnapshot(history, w, time.Now())
				}
			}
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}

			if agent != "" {
				filtered := snapshot[:0]
				for _, s := range snapshot {
					if s.Agent == agent {
						filtered = append(filtered, s)
					}
				}
				snapshot = filtered
			}
			if len(snapshot) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No outcomes recorded yet.")
				return nil
			}
			printAgentRows(cmd, snapshot)
			return nil
		},
	}

	cmd.Flags().StringVar(&agent, "agent", "", "limit output to one agent")
	cmd.Flags().StringVar(&window, "window", "all", "reporting window (24h, 7d, 30d, all)")
	cmd.Flags().BoolVar(&debugPerf, "debug-perf", false, "show the windowed debugging performance report")

	return cmd
}

func printAgentRows(cmd *cobra.Command, rows []perf.AgentStats) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-24s %-7s %-9s %-9s %-10s %s\n", "AGENT", "TASKS", "SUCCESS", "QUALITY", "DURATION", "LAST USED")
	for _, r := range rows {
		last := "never"
		if !r.LastUsed.IsZero() {
			last = r.LastUsed.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%-24s %-7d %-9s %-9.1f %-10s %s\n",
			r.Agent, r.TaskCount,
			fmt.Sprintf("%.0f%%", r.SuccessRate()*100),
			r.MeanQuality,
			fmt.Sprintf("%.0fs", r.MeanDuration),
			last)
	}
}

func printDebugReport(cmd *cobra.Command, report perf.DebugReport) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Debugging performance for %s (trend: %s)\n\n", report.Agent, report.Trend)
	fmt.Fprintf(w, "%-8s %-7s %-9s %-9s %s\n", "WINDOW", "TASKS", "SUCCESS", "QUALITY", "INDEX")
	for _, ws := range report.Windows {
		if ws.TaskCount == 0 {
			fmt.Fprintf(w, "%-8s %-7d %-9s %-9s %s\n", ws.Window, 0, "-", "-", "-")
			continue
		}
		fmt.Fprintf(w, "%-8s %-7d %-9s %-9.1f %.2f\n",
			ws.Window, ws.TaskCount,
			fmt.Sprintf("%.0f%%", ws.SuccessRate*100),
			ws.MeanQuality, ws.Index)
	}
}
