package main

import (
	"fmt"
	"os"

	"tally/pkg/patstore"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Status colors, applied only when stdout is a terminal.
var (
	statusOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	statusWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// newStatusCmd creates the "tally status" subcommand.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show store health",
		Long:  "Displays each document's presence, schema version and lock state,\nplus the event log size.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}

			color := cmd.OutOrStdout() == os.Stdout && isatty.IsTerminal(os.Stdout.Fd())
			paint := func(style lipgloss.Style, s string) string {
				if !color {
					return s
				}
				return style.Render(s)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Pattern store: %s\n\n", store.Dir())
			fmt.Fprintf(w, "%-26s %-10s %-8s %s\n", "DOCUMENT", "STATE", "SCHEMA", "LOCK")
			behind := false
			for _, h := range store.Health() {
				state := paint(statusWarn, "absent")
				schema := "-"
				if h.Present {
					state = paint(statusOK, "present")
					schema = fmt.Sprintf("v%d", h.Version)
					if h.Version < patstore.SchemaVersion {
						behind = true
					}
				}
				lock := "free"
				switch {
				case h.StaleLock:
					lock = paint(statusWarn, "stale")
				case h.Locked:
					lock = paint(statusWarn, "held")
				}
				fmt.Fprintf(w, "%-26s %-10s %-8s %s\n", h.Name, state, schema, lock)
			}
			if behind {
				fmt.Fprintf(w, "\nSome documents are behind schema v%d; run \"tally migrate\".\n", patstore.SchemaVersion)
			}

			if log, err := openLog(store); err == nil {
				defer log.Close()
				if n, err := log.Count(cmd.Context()); err == nil {
					fmt.Fprintf(w, "\nEvent log: %d events\n", n)
				}
			}
			return nil
		},
	}
}
