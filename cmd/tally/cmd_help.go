package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// helpText is the categorized help output for "tally help".
const helpText = `Tally — Task outcome learning for agent workflows

Lifecycle:
  init       Create the pattern store and event log
  migrate    Bring store documents up to the current schema

Recording:
  record     Record a task outcome (pattern + agent aggregates)
  feedback   Record and inspect user feedback on agents
  assess     Record and report task quality assessments

Learning:
  suggest    Suggest agents for a task description
  predict    Predict skills for an incoming task
  stats      Show agent performance aggregates

Monitoring:
  status     Show store health
  logs       Show recorded events, newest first
  dash       Launch interactive dashboard

Use "tally <command> --help" for detailed usage of any command.
`

// newHelpCmd creates the "tally help" subcommand that displays a categorized
// overview. When called with an argument (e.g. "tally help stats"), it falls
// through to cobra's built-in per-command help.
func newHelpCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show categorized command overview",
		Long:  "Displays a categorized overview of all tally subcommands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprint(cmd.OutOrStdout(), helpText)
				return nil
			}

			// Fall through to cobra's per-command help.
			target, _, err := root.Find(args)
			if err != nil || target == nil || target == root {
				return fmt.Errorf("unknown command %q", args[0])
			}
			return target.Help()
		},
	}
}
