package main

import (
	"strings"
	"testing"
)

func addAssessment(t *testing.T, dir, task string, initial, final, target string) {
	t.Helper()
	_, err := runTally(t, dir, "assess", "add",
		"--task", task, "--initial", initial, "--final", final, "--target", target)
	if err != nil {
		t.Fatalf("assess add %s: %v", task, err)
	}
}

func TestAssessAddComputesQIS(t *testing.T) {
	dir := newTestDir(t)

	out, err := runTally(t, dir, "assess", "add",
		"--task", "task-1", "--initial", "50", "--final", "80", "--target", "90")
	if err != nil {
		t.Fatalf("assess add: %v", err)
	}
	// QIS = 0.6*80 + 0.4*100*(30/40) = 48 + 30 = 78.
	if !strings.Contains(out, "QIS 78.0") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestAssessListAndReport(t *testing.T) {
	dir := newTestDir(t)
	addAssessment(t, dir, "task-good", "40", "90", "90") // QIS = 0.6*90 + 40 = 94
	addAssessment(t, dir, "task-poor", "60", "65", "90") // QIS = 0.6*65 + 0.4*100*(5/30) ~ 45.7

	out, err := runTally(t, dir, "assess", "list")
	if err != nil {
		t.Fatalf("assess list: %v", err)
	}
	if !strings.Contains(out, "task-good") || !strings.Contains(out, "task-poor") {
		t.Errorf("tasks missing from listing:\n%s", out)
	}

	out, err = runTally(t, dir, "assess", "report")
	if err != nil {
		t.Fatalf("assess report: %v", err)
	}
	if !strings.Contains(out, "Assessments: 2") {
		t.Errorf("count missing:\n%s", out)
	}
	if !strings.Contains(out, "Best:        task-good") {
		t.Errorf("best task missing:\n%s", out)
	}
	if !strings.Contains(out, "Worst:       task-poor") {
		t.Errorf("worst task missing:\n%s", out)
	}
}

func TestAssessAddRequiresTask(t *testing.T) {
	dir := newTestDir(t)

	if _, err := runTally(t, dir, "assess", "add", "--final", "80"); err == nil {
		t.Fatal("expected error without --task")
	}
}

func TestAssessReportEmpty(t *testing.T) {
	dir := newTestDir(t)

	out, err := runTally(t, dir, "assess", "report")
	if err != nil {
		t.Fatalf("assess report: %v", err)
	}
	if !strings.Contains(out, "No assessments recorded yet.") {
		t.Errorf("unexpected output: %s", out)
	}
}
