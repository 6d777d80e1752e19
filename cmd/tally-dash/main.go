// Package main implements the tally-dash interactive dashboard: live agent
// aggregates and the event stream over a pattern store.
package main

import (
	"fmt"
	"os"

	"tally/pkg/patstore"

	tea "github.com/charmbracelet/bubbletea"
)

// patternsDir resolves the store directory from the environment, falling
// back to ./.claude-patterns.
func patternsDir() string {
	if v := os.Getenv(patstore.EnvPatternsDir); v != "" {
		return v
	}
	cwd, err := os.Getwd()
	if err != nil {
		return patstore.DirName
	}
	return patstore.DefaultDir(cwd)
}

func main() {
	p := tea.NewProgram(newModel(patternsDir()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}
