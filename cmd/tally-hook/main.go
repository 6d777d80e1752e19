// Binary tally-hook is a Claude Code Stop hook that records a task outcome
// into the pattern store from the hook JSON payload. It is designed to run
// unattended after every task: quiet on success, and it never blocks the
// assistant, so every error path exits 0.
//
// Protocol: reads JSON from stdin, writes nothing on success.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"tally/pkg/patstore"
	"tally/pkg/pattern"
	"tally/pkg/perf"
	"tally/pkg/predict"
)

// hookInput represents the JSON payload sent by Claude Code on stdin.
type hookInput struct {
	SessionID string      `json:"session_id"`
	HookType  string      `json:"hook_type"`
	Outcome   taskOutcome `json:"outcome"`
}

// taskOutcome is the outcome block the orchestration layer attaches to the
// payload.
type taskOutcome struct {
	Agent       string   `json:"agent"`
	TaskType    string   `json:"task_type"`
	Description string   `json:"description,omitempty"`
	Language    string   `json:"language,omitempty"`
	Framework   string   `json:"framework,omitempty"`
	Complexity  string   `json:"complexity,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Success     bool     `json:"success"`
	Quality     float64  `json:"quality"`
	Duration    float64  `json:"duration_seconds"`
}

// recordOutcome folds one hook payload into the store.
//
// Design: fail-open. A malformed payload, a missing store or a locked
// document must never surface to the assistant; the hook reports the problem
// on stderr and the caller still exits 0.
func recordOutcome(input []byte, dir string) error {
	var hook hookInput
	if err := json.Unmarshal(input, &hook); err != nil {
		return fmt.Errorf("parse hook payload: %w", err)
	}

	o := hook.Outcome
	if o.Agent == "" || o.TaskType == "" {
		// Not a task-completion payload; nothing to record.
		return nil
	}

	store, err := patstore.Open(dir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		cfg = patstore.DefaultConfig()
	}

	rec, err := predict.NewPredictor(store, cfg.Prediction).Record(predict.RecordParams{
		Profile: pattern.TaskProfile{
			TaskType:    o.TaskType,
			Description: o.Description,
			Language:    o.Language,
			Framework:   o.Framework,
			Complexity:  o.Complexity,
		},
		Agent:  o.Agent,
		Skills: o.Skills,
		Outcome: pattern.Outcome{
			Success:  o.Success,
			Quality:  o.Quality,
			Duration: o.Duration,
		},
	})
	if err != nil {
		return fmt.Errorf("record pattern: %w", err)
	}

	if err := perf.NewTracker(store).RecordOutcome(perf.OutcomeParams{
		Agent:    o.Agent,
		Success:  o.Success,
		Quality:  o.Quality,
		Duration: o.Duration,
		When:     rec.RecordedAt,
	}); err != nil {
		return fmt.Errorf("update aggregates: %w", err)
	}

	return nil
}

// resolveDir returns the patterns directory from the environment, falling
// back to ./.claude-patterns.
func resolveDir() string {
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
	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tally-hook: failed to read stdin: %v\n", err)
		return
	}

	if err := recordOutcome(input, resolveDir()); err != nil {
		// Fail open: report and exit 0 so the hook never blocks a session.
		fmt.Fprintf(os.Stderr, "tally-hook: %v\n", err)
	}
}
