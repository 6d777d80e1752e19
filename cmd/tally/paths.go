package main

import (
	"fmt"
	"os"
	"path/filepath"

	"tally/pkg/eventlog"
	"tally/pkg/patstore"
	"tally/pkg/predict"

	"github.com/spf13/cobra"
)

// resolveDir returns the patterns directory for a command invocation.
// Priority: --dir flag, TALLY_PATTERNS_DIR, ./.claude-patterns.
func resolveDir(cmd *cobra.Command) (string, error) {
	if flag := cmd.Flags().Lookup("dir"); flag != nil && flag.Value.String() != "" {
		return flag.Value.String(), nil
	}
	if v := os.Getenv(patstore.EnvPatternsDir); v != "" {
		return v, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return patstore.DefaultDir(cwd), nil
}

// openStore opens the patterns store for a command, with a pointer at init
// when the directory is missing.
func openStore(cmd *cobra.Command) (*patstore.Store, error) {
	dir, err := resolveDir(cmd)
	if err != nil {
		return nil, err
	}
	store, err := patstore.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("no pattern store at %s (run \"tally init\" first): %w", dir, err)
	}
	return store, nil
}

// openLog opens the event log beside the store. Callers must Close it.
func openLog(store *patstore.Store) (*eventlog.Log, error) {
	return eventlog.Open(eventlog.DBPath(store.Dir()))
}

// newPredictor builds a predictor honoring the store's config file.
func newPredictor(store *patstore.Store) *predict.Predictor {
	cfg, err := store.LoadConfig()
	if err != nil {
		cfg = patstore.DefaultConfig()
	}
	return predict.NewPredictor(store, cfg.Prediction)
}

// projectRootOf maps a patterns directory back to the project it sits in.
func projectRootOf(patternsDir string) string {
	if filepath.Base(patternsDir) == patstore.DirName {
		return filepath.Dir(patternsDir)
	}
	return patternsDir
}

// appendEvent logs an event, ignoring failures: the log is an audit trail,
// never a reason to fail the command that did the real work.
func appendEvent(cmd *cobra.Command, store *patstore.Store, p eventlog.AppendParams) {
	log, err := openLog(store)
	if err != nil {
		return
	}
	defer log.Close()
	_, _ = log.Append(cmd.Context(), p)
}
