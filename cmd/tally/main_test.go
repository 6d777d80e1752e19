package main

import (
	"bytes"
	"path/filepath"
	"testing"
)

// runTally executes the CLI against the given patterns directory and returns
// combined output.
func runTally(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"--dir", dir}, args...))
	err := root.Execute()
	return buf.String(), err
}

// newTestDir returns a fresh patterns directory path with the store
// initialized via the CLI.
func newTestDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".claude-patterns")
	if _, err := runTally(t, dir, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	return dir
}

// recordOutcome records a single outcome via the CLI, failing the test on
// error.
func recordOutcome(t *testing.T, dir string, extra ...string) {
	t.Helper()
	args := append([]string{
		"record",
		"--agent", "debug-specialist",
		"--task-type", "debug",
		"--language", "go",
		"--complexity", "medium",
		"--success",
		"--quality", "85",
		"--duration", "120",
		"--skills", "error-analysis,test-isolation",
	}, extra...)
	if out, err := runTally(t, dir, args...); err != nil {
		t.Fatalf("record: %v\n%s", err, out)
	}
}

func TestRootUnknownCommand(t *testing.T) {
	_, err := runTally(t, t.TempDir(), "bogus")
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
}
