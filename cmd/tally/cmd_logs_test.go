package main

import (
	"strings"
	"testing"
)

func TestLogsEmpty(t *testing.T) {
	dir := newTestDir(t)

	out, err := runTally(t, dir, "logs")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out, "No events.") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestLogsShowsRecordedEvents(t *testing.T) {
	dir := newTestDir(t)
	recordOutcome(t, dir)
	if _, err := runTally(t, dir, "feedback", "add", "--agent", "debug-specialist", "--rating", "4"); err != nil {
		t.Fatalf("feedback add: %v", err)
	}

	out, err := runTally(t, dir, "logs")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out, "outcome_recorded") {
		t.Errorf("outcome event missing:\n%s", out)
	}
	if !strings.Contains(out, "feedback_recorded") {
		t.Errorf("feedback event missing:\n%s", out)
	}
}

func TestLogsFilters(t *testing.T) {
	dir := newTestDir(t)
	recordOutcome(t, dir)
	if _, err := runTally(t, dir, "feedback", "add", "--agent", "debug-specialist", "--rating", "4"); err != nil {
		t.Fatalf("feedback add: %v", err)
	}

	out, err := runTally(t, dir, "logs", "--type", "outcome_recorded")
	if err != nil {
		t.Fatalf("logs --type: %v", err)
	}
	if strings.Contains(out, "feedback_recorded") {
		t.Errorf("filter leaked other events:\n%s", out)
	}

	out, err = runTally(t, dir, "logs", "--limit", "1")
	if err != nil {
		t.Fatalf("logs --limit: %v", err)
	}
	if got := len(strings.Split(strings.TrimSpace(out), "\n")); got != 1 {
		t.Errorf("got %d lines, want 1:\n%s", got, out)
	}
}

func TestLogsRejectsBadSince(t *testing.T) {
	dir := newTestDir(t)

	if _, err := runTally(t, dir, "logs", "--since", "yesterday"); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}
