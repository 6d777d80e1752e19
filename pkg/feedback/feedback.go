// Package feedback stores user feedback on agent runs in agent_feedback.json
// and derives adjusted per-agent ratings by blending the mean user rating
// with the tracked success rate.
package feedback

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"tally/pkg/patstore"
)

// Rating bounds for a feedback entry.
const (
	MinRating = 1
	MaxRating = 5
)

// Blend weights for adjusted ratings: user ratings dominate, success rate
// corrects for rating inflation.
const (
	blendRating      = 0.7
	blendSuccessRate = 0.3
)

// Entry is one feedback record.
type Entry struct {
	ID        string    `json:"id"`
	Agent     string    `json:"agent"`
	TaskType  string    `json:"task_type,omitempty"`
	Rating    int       `json:"rating"` // 1-5
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// document is the agent_feedback.json shape.
type document struct {
	patstore.Versioned
	Entries []Entry `json:"entries"`
}

// System records and reads feedback against a pattern store.
type System struct {
	store *patstore.Store
}

// NewSystem returns a System over the given store.
func NewSystem(store *patstore.Store) *System {
	return &System{store: store}
}

// Record appends a feedback entry under the store lock. Rating must be in
// [1,5]; agent must be non-empty.
func (f *System) Record(e Entry) error {
	if e.Agent == "" {
		return fmt.Errorf("record feedback: empty agent")
	}
	if e.Rating < MinRating || e.Rating > MaxRating {
		return fmt.Errorf("record feedback: rating %d out of range [%d,%d]", e.Rating, MinRating, MaxRating)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	return f.store.Update(patstore.DocFeedback, func(raw json.RawMessage) (any, error) {
		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}
		doc.Entries = append(doc.Entries, e)
		return doc, nil
	})
}

// ListOpts filters a feedback listing.
type ListOpts struct {
	Agent string // optional filter
	Limit int    // 0 = all
}

// List returns feedback entries newest first.
func (f *System) List(opts ListOpts) ([]Entry, error) {
	doc, err := f.load()
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, e := range doc.Entries {
		if opts.Agent != "" && e.Agent != opts.Agent {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// AdjustedRating returns the agent's rating on a 0-1 scale: the normalized
// mean user rating blended with the success rate when one is available
// (successRate >= 0). With no feedback it returns 0 and false.
func (f *System) AdjustedRating(agent string, successRate float64) (float64, bool, error) {
	doc, err := f.load()
	if err != nil {
		return 0, false, err
	}

	sum, count := 0, 0
	for _, e := range doc.Entries {
		if e.Agent != agent {
			continue
		}
		sum += e.Rating
		count++
	}
	if count == 0 {
		return 0, false, nil
	}

	// Normalize mean rating from [1,5] to [0,1].
	mean := float64(sum) / float64(count)
	normalized := (mean - MinRating) / (MaxRating - MinRating)

	if successRate < 0 {
		return normalized, true, nil
	}
	return blendRating*normalized + blendSuccessRate*successRate, true, nil
}

// load reads agent_feedback.json, treating a missing document as empty.
func (f *System) load() (*document, error) {
	var doc document
	err := f.store.Load(patstore.DocFeedback, &doc)
	switch {
	case err == nil:
	case patstore.IsNotFound(err):
		doc = document{Versioned: patstore.Versioned{SchemaVersion: patstore.SchemaVersion}}
	default:
		return nil, err
	}
	return &doc, nil
}

// decode parses a raw agent_feedback.json document, seeding an empty one
// when raw is nil.
func decode(raw json.RawMessage) (*document, error) {
	doc := document{Versioned: patstore.Versioned{SchemaVersion: patstore.SchemaVersion}}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", patstore.DocFeedback, err)
		}
	}
	doc.SchemaVersion = patstore.SchemaVersion
	return &doc, nil
}
