// Package migrate upgrades .claude-patterns JSON documents between schema
// versions. Migrations are an ordered list per document; each one transforms
// the decoded document in place. Runs are idempotent: documents already at
// the current version are untouched.
package migrate

import (
	"encoding/json"
	"fmt"
	"time"

	"tally/pkg/patstore"
)

// migration upgrades one document from Version-1 to Version.
type migration struct {
	Version int
	Name    string
	Apply   func(doc map[string]any) error
}

// migrations maps document name to its ordered migration chain.
// Version numbers are contiguous starting at 2; a document at version 1
// (or unstamped) runs the whole chain.
var migrations = map[string][]migration{
	patstore.DocPatterns: {
		{
			Version: 2,
			Name:    "rename outcome.score to outcome.quality",
			Apply:   renameOutcomeScore,
		},
		{
			Version: 3,
			Name:    "normalize recorded_at to RFC3339",
			Apply:   normalizeTimestamps,
		},
	},
	patstore.DocPerformance: {
		{Version: 2, Name: "stamp schema version", Apply: noop},
		{Version: 3, Name: "stamp schema version", Apply: noop},
	},
	patstore.DocFeedback: {
		{Version: 2, Name: "stamp schema version", Apply: noop},
		{Version: 3, Name: "stamp schema version", Apply: noop},
	},
	patstore.DocAssessments: {
		{Version: 2, Name: "stamp schema version", Apply: noop},
		{Version: 3, Name: "stamp schema version", Apply: noop},
	},
	patstore.DocCache: {
		{Version: 2, Name: "stamp schema version", Apply: noop},
		{Version: 3, Name: "stamp schema version", Apply: noop},
	},
}

func noop(map[string]any) error { return nil }

// Change describes one applied (or pending, in dry-run) migration.
type Change struct {
	Document    string `json:"document"`
	FromVersion int    `json:"from_version"`
	ToVersion   int    `json:"to_version"`
	Name        string `json:"name"`
}

// Report summarizes a migration run.
type Report struct {
	Changes []Change `json:"changes"`
	DryRun  bool     `json:"dry_run"`
}

// Run migrates every known document in the store to the current schema
// version. With dryRun set, documents are inspected but not written.
func Run(store *patstore.Store, dryRun bool) (Report, error) {
	report := Report{DryRun: dryRun}

	for _, name := range []string{
		patstore.DocPatterns,
		patstore.DocPerformance,
		patstore.DocFeedback,
		patstore.DocAssessments,
		patstore.DocCache,
	} {
		changes, err := runDocument(store, name, dryRun)
		if err != nil {
			return report, err
		}
		report.Changes = append(report.Changes, changes...)
	}

	return report, nil
}

// runDocument applies pending migrations to one document under its lock.
func runDocument(store *patstore.Store, name string, dryRun bool) ([]Change, error) {
	var changes []Change

	err := store.Update(name, func(raw json.RawMessage) (any, error) {
		if len(raw) == 0 {
			return nil, nil // document absent, nothing to migrate
		}

		version := patstore.VersionOf(raw)
		chain := pending(migrations[name], version)
		if len(chain) == 0 {
			return nil, nil
		}

		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}

		for _, m := range chain {
			if err := m.Apply(doc); err != nil {
				return nil, fmt.Errorf("migrate %s to v%d: %w", name, m.Version, err)
			}
			changes = append(changes, Change{
				Document:    name,
				FromVersion: m.Version - 1,
				ToVersion:   m.Version,
				Name:        m.Name,
			})
		}
		doc["schema_version"] = patstore.SchemaVersion

		if dryRun {
			return nil, nil
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// pending returns the chain entries above the current version.
func pending(chain []migration, version int) []migration {
	var out []migration
	for _, m := range chain {
		if m.Version > version {
			out = append(out, m)
		}
	}
	return out
}

// renameOutcomeScore moves each pattern's outcome.score to outcome.quality.
// Documents written by the earliest plugin versions used "score".
func renameOutcomeScore(doc map[string]any) error {
	patterns, ok := doc["patterns"].([]any)
	if !ok {
		return nil
	}
	for _, p := range patterns {
		rec, ok := p.(map[string]any)
		if !ok {
			continue
		}
		outcome, ok := rec["outcome"].(map[string]any)
		if !ok {
			continue
		}
		if score, hasScore := outcome["score"]; hasScore {
			if _, hasQuality := outcome["quality"]; !hasQuality {
				outcome["quality"] = score
			}
			delete(outcome, "score")
		}
	}
	return nil
}

// legacyTimeFormats are the timestamp layouts older documents used.
var legacyTimeFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// normalizeTimestamps rewrites each pattern's recorded_at to RFC3339 UTC.
// Unparseable timestamps are left alone rather than destroyed.
func normalizeTimestamps(doc map[string]any) error {
	patterns, ok := doc["patterns"].([]any)
	if !ok {
		return nil
	}
	for _, p := range patterns {
		rec, ok := p.(map[string]any)
		if !ok {
			continue
		}
		raw, ok := rec["recorded_at"].(string)
		if !ok || raw == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, raw); err == nil {
			continue // already normalized
		}
		for _, layout := range legacyTimeFormats {
			if ts, err := time.Parse(layout, raw); err == nil {
				rec["recorded_at"] = ts.UTC().Format(time.RFC3339)
				break
			}
		}
	}
	return nil
}
