package main

import (
	"context"

	"tally/pkg/eventlog"
	"tally/pkg/patstore"
	"tally/pkg/perf"
)

// recentEventLimit caps the events pane.
const recentEventLimit = 15

// loadAgents reads the current per-agent aggregates from the store.
//
// Error cases:
//   - store directory missing → returns error
//   - agent_performance.json missing → returns empty slice, nil error
func loadAgents(dir string) ([]perf.AgentStats, error) {
	store, err := patstore.Open(dir)
	if err != nil {
		return nil, err
	}
	return perf.NewTracker(store).Snapshot()
}

// loadEvents reads the newest events from the log beside the store. A
// missing or unreadable database yields an empty pane, not an error, since
// the log is optional.
func loadEvents(ctx context.Context, dir string) []eventlog.Event {
	reader, err := eventlog.NewReader(eventlog.DBPath(dir))
	if err != nil {
		return nil
	}
	defer reader.Close()

	events, err := reader.Query(ctx, eventlog.QueryOpts{Limit: recentEventLimit})
	if err != nil {
		return nil
	}
	return events
}

// loadHealth inspects the store documents, nil when the store is missing.
func loadHealth(dir string) []patstore.DocHealth {
	store, err := patstore.Open(dir)
	if err != nil {
		return nil
	}
	return store.Health()
}
