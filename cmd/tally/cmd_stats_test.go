package main

import (
	"strings"
	"testing"
)

func TestStatsEmptyStore(t *testing.T) {
	dir := newTestDir(t)

	out, err := runTally(t, dir, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "No outcomes recorded yet.") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestStatsListsAgents(t *testing.T) {
	dir := newTestDir(t)
	recordOutcome(t, dir)
	recordOutcome(t, dir, "--agent", "test-engineer", "--task-type", "test")

	out, err := runTally(t, dir, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, agent := range []string{"debug-specialist", "test-engineer"} {
		if !strings.Contains(out, agent) {
			t.Errorf("agent %s missing from output:\n%s", agent, out)
		}
	}
	if !strings.Contains(out, "AGENT") {
		t.Errorf("header missing:\n%s", out)
	}
}

func TestStatsDebugPerf(t *testing.T) {
	dir := newTestDir(t)
	recordOutcome(t, dir)

	out, err := runTally(t, dir, "stats", "--debug-perf", "--agent", "debug-specialist")
	if err != nil {
		t.Fatalf("stats --debug-perf: %v", err)
	}
	for _, window := range []string{"24h", "7d", "30d", "all"} {
		if !strings.Contains(out, window) {
			t.Errorf("window %s missing:\n%s", window, out)
		}
	}
	if !strings.Contains(out, "trend:") {
		t.Errorf("trend missing:\n%s", out)
	}
}

func TestStatsDebugPerfRequiresAgent(t *testing.T) {
	dir := newTestDir(t)

	if _, err := runTally(t, dir, "stats", "--debug-perf"); err == nil {
		t.Fatal("expected error without --agent")
	}
}

func TestStatsWindowFlag(t *testing.T) {
	dir := newTestDir(t)
	recordOutcome(t, dir)

	out, err := runTally(t, dir, "stats", "--window", "24h")
	if err != nil {
		t.Fatalf("stats --window: %v", err)
	}
	if !strings.Contains(out, "debug-specialist") {
		t.Errorf("fresh outcome missing from 24h window:\n%s", out)
	}

	if _, err := runTally(t, dir, "stats", "--window", "90d"); err == nil {
		t.Fatal("expected error for unknown window")
	}
}
