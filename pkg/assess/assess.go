// Package assess stores quality assessments in assessments.json and computes
// the Quality Improvement Score (QIS): a weighted blend of final quality and
// the share of the quality gap closed, used for console reporting.
package assess

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"tally/pkg/patstore"
)

// QIS blend weights.
const (
	weightFinalQuality = 0.6
	weightGapClosed    = 0.4
)

// Record is one stored assessment.
type Record struct {
	TaskID         string    `json:"task_id"`
	InitialQuality float64   `json:"initial_quality"` // 0-100
	FinalQuality   float64   `json:"final_quality"`   // 0-100
	TargetQuality  float64   `json:"target_quality"`  // 0-100
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// QIS returns the Quality Improvement Score of the record on a 0-100 scale.
func (r Record) QIS() float64 {
	return weightFinalQuality*r.FinalQuality + weightGapClosed*100*r.gapClosed()
}

// gapClosed returns the fraction of the initial-to-target quality gap this
// assessment closed, clamped to [0,1]. A target at or below the initial
// quality degenerates to a pass/fail check against the target.
func (r Record) gapClosed() float64 {
	if r.TargetQuality <= r.InitialQuality {
		if r.FinalQuality >= r.TargetQuality {
			return 1
		}
		return 0
	}
	frac := (r.FinalQuality - r.InitialQuality) / (r.TargetQuality - r.InitialQuality)
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// document is the assessments.json shape.
type document struct {
	patstore.Versioned
	Records []Record `json:"records"`
}

// Storage reads and writes assessment records.
type Storage struct {
	store *patstore.Store
}

// NewStorage returns a Storage over the given store.
func NewStorage(store *patstore.Store) *Storage {
	return &Storage{store: store}
}

// Add appends an assessment under the store lock.
func (s *Storage) Add(r Record) error {
	if r.TaskID == "" {
		return fmt.Errorf("add assessment: empty task id")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	return s.store.Update(patstore.DocAssessments, func(raw json.RawMessage) (any, error) {
		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}
		doc.Records = append(doc.Records, r)
		return doc, nil
	})
}

// List returns all assessments newest first.
func (s *Storage) List() ([]Record, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(doc.Records))
	copy(out, doc.Records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Summary is the console report over all assessments.
type Summary struct {
	Count     int     `json:"count"`
	MeanQIS   float64 `json:"mean_qis"`
	BestTask  string  `json:"best_task,omitempty"`
	BestQIS   float64 `json:"best_qis,omitempty"`
	WorstTask string  `json:"worst_task,omitempty"`
	WorstQIS  float64 `json:"worst_qis,omitempty"`
}

// Report computes the QIS summary over all stored assessments.
func (s *Storage) Report() (Summary, error) {
	doc, err := s.load()
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Count: len(doc.Records)}
	if sum.Count == 0 {
		return sum, nil
	}

	total := 0.0
	for i, r := range doc.Records {
		q := r.QIS()
		total += q
		if i == 0 || q > sum.BestQIS {
			sum.BestTask, sum.BestQIS = r.TaskID, q
		}
		if i == 0 || q < sum.WorstQIS {
			sum.WorstTask, sum.WorstQIS = r.TaskID, q
		}
	}
	sum.MeanQIS = total / float64(sum.Count)
	return sum, nil
}

// load reads assessments.json, treating a missing document as empty.
func (s *Storage) load() (*document, error) {
	var doc document
	err := s.store.Load(patstore.DocAssessments, &doc)
	switch {
	case err == nil:
	case patstore.IsNotFound(err):
		doc = document{Versioned: patstore.Versioned{SchemaVersion: patstore.SchemaVersion}}
	default:
		return nil, err
	}
	return &doc, nil
}

// decode parses a raw assessments.json document, seeding an empty one when
// raw is nil.
func decode(raw json.RawMessage) (*document, error) {
	doc := document{Versioned: patstore.Versioned{SchemaVersion: patstore.SchemaVersion}}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", patstore.DocAssessments, err)
		}
	}
	doc.SchemaVersion = patstore.SchemaVersion
	return &doc, nil
}
