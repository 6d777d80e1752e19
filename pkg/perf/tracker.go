// Package perf tracks per-agent performance aggregates in
// agent_performance.json: task counts, success counts, rolling mean quality
// and duration. Aggregates are updated in place with running averages so a
// record never requires rescanning history.
package perf

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"tally/pkg/patstore"
)

// AgentStats holds the rolling aggregates for one agent.
type AgentStats struct {
	Agent        string  `json:"agent"`
	TaskCount    int     `json:"task_count"`
	SuccessCount int     `json:"success_count"`
	MeanQuality  float64 `json:"mean_quality"`
	MeanDuration float64 `json:"mean_duration_seconds"`
	// DurationCount is the number of tasks with a known duration;
	// MeanDuration averages over these, not TaskCount.
	DurationCount int       `json:"duration_count,omitempty"`
	LastUsed      time.Time `json:"last_used"`
}

// SuccessRate returns successes over tasks, 0 for an unused agent.
func (a AgentStats) SuccessRate() float64 {
	if a.TaskCount == 0 {
		return 0
	}
	return float64(a.SuccessCount) / float64(a.TaskCount)
}

// document is the agent_performance.json shape.
type document struct {
	patstore.Versioned
	Agents map[string]AgentStats `json:"agents"`
}

// Tracker records outcomes against a pattern store.
type Tracker struct {
	store *patstore.Store
}

// NewTracker returns a Tracker over the given store.
func NewTracker(store *patstore.Store) *Tracker {
	return &Tracker{store: store}
}

// OutcomeParams describes one finished task for recording.
type OutcomeParams struct {
	Agent    string
	Success  bool
	Quality  float64 // 0-100
	Duration float64 // seconds; <= 0 means unknown
	When     time.Time
}

// RecordOutcome folds one outcome into the agent's aggregates under the
// store lock. Running mean update: mean' = mean + (x - mean) / n.
func (t *Tracker) RecordOutcome(p OutcomeParams) error {
	if p.Agent == "" {
		return fmt.Errorf("record outcome: empty agent")
	}
	if p.When.IsZero() {
		p.When = time.Now().UTC()
	}

	return t.store.Update(patstore.DocPerformance, func(raw json.RawMessage) (any, error) {
		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}

		stats := doc.Agents[p.Agent]
		stats.Agent = p.Agent
		stats.TaskCount++
		if p.Success {
			stats.SuccessCount++
		}
		stats.MeanQuality += (p.Quality - stats.MeanQuality) / float64(stats.TaskCount)
		if p.Duration > 0 {
			// Durations <= 0 are unknown and never enter the mean.
			stats.DurationCount++
			stats.MeanDuration += (p.Duration - stats.MeanDuration) / float64(stats.DurationCount)
		}
		if p.When.After(stats.LastUsed) {
			stats.LastUsed = p.When
		}
		doc.Agents[p.Agent] = stats
		return doc, nil
	})
}

// Stats returns the aggregates for one agent. Unknown agents return zero
// stats, not an error.
func (t *Tracker) Stats(agent string) (AgentStats, error) {
	doc, err := t.load()
	if err != nil {
		return AgentStats{}, err
	}
	return doc.Agents[agent], nil
}

// Snapshot returns all agent aggregates sorted by task count descending,
// then name for determinism.
func (t *Tracker) Snapshot() ([]AgentStats, error) {
	doc, err := t.load()
	if err != nil {
		return nil, err
	}
	out := make([]AgentStats, 0, len(doc.Agents))
	for _, s := range doc.Agents {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TaskCount != out[j].TaskCount {
			return out[i].TaskCount > out[j].TaskCount
		}
		return out[i].Agent < out[j].Agent
	})
	return out, nil
}

// SuccessRates returns agent name to success rate for all tracked agents.
func (t *Tracker) SuccessRates() (map[string]float64, error) {
	doc, err := t.load()
	if err != nil {
		return nil, err
	}
	rates := make(map[string]float64, len(doc.Agents))
	for name, s := range doc.Agents {
		rates[name] = s.SuccessRate()
	}
	return rates, nil
}

// load reads agent_performance.json, treating a missing document as empty.
func (t *Tracker) load() (*document, error) {
	var doc document
	err := t.store.Load(patstore.DocPerformance, &doc)
	switch {
	case err == nil:
	case patstore.IsNotFound(err):
		doc = document{Versioned: patstore.Versioned{SchemaVersion: patstore.SchemaVersion}}
	default:
		return nil, err
	}
	if doc.Agents == nil {
		doc.Agents = make(map[string]AgentStats)
	}
	return &doc, nil
}

// decode parses a raw agent_performance.json document, seeding an empty one
// when raw is nil.
func decode(raw json.RawMessage) (*document, error) {
	doc := document{Versioned: patstore.Versioned{SchemaVersion: patstore.SchemaVersion}}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", patstore.DocPerformance, err)
		}
	}
	if doc.Agents == nil {
		doc.Agents = make(map[string]AgentStats)
	}
	doc.SchemaVersion = patstore.SchemaVersion
	return &doc, nil
}
