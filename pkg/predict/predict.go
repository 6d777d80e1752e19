// Package predict implements predictive skill loading: historical task
// patterns are scanned linearly, scored with the weighted profile similarity,
// and the skills attached to the best matches are ranked for the incoming
// task. Exact-fingerprint results are cached in prediction_cache.json so
// repeat tasks skip the scan.
package predict

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"tally/pkg/patstore"
	"tally/pkg/pattern"
)

// Defaults mirrored by the store config; kept here so a zero-value Predictor
// behaves sensibly in tests.
const (
	defaultMinSimilarity   = 0.35
	defaultConfidenceFloor = 0.2
	defaultCacheTTL        = 7 * 24 * time.Hour
)

// recencyHalfLife discounts old outcomes when ranking skills.
const recencyHalfLife = 30 * 24 * time.Hour

// patternsDoc is the patterns.json shape.
type patternsDoc struct {
	patstore.Versioned
	Patterns []pattern.Pattern `json:"patterns"`
}

// cacheEntry is one fingerprint-keyed cached prediction.
type cacheEntry struct {
	Fingerprint string    `json:"fingerprint"`
	Skills      []Skill   `json:"skills"`
	Confidence  float64   `json:"confidence"`
	CachedAt    time.Time `json:"cached_at"`
}

// cacheDoc is the prediction_cache.json shape.
type cacheDoc struct {
	patstore.Versioned
	Entries map[string]cacheEntry `json:"entries"`
}

// Skill is one ranked skill recommendation.
type Skill struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Prediction is the result of a skill lookup.
type Prediction struct {
	Fingerprint string  `json:"fingerprint"`
	Skills      []Skill `json:"skills"`
	Confidence  float64 `json:"confidence"`
	FromCache   bool    `json:"from_cache"`
	Scanned     int     `json:"scanned"` // patterns examined; 0 on cache hit
}

// Predictor ranks skills for incoming tasks from the pattern history.
type Predictor struct {
	store           *patstore.Store
	minSimilarity   float64
	confidenceFloor float64
	cacheTTL        time.Duration
	now             func() time.Time
}

// NewPredictor returns a Predictor over the given store, tuned by the store
// config.
func NewPredictor(store *patstore.Store, cfg patstore.PredictionConfig) *Predictor {
	p := &Predictor{
		store:           store,
		minSimilarity:   cfg.MinSimilarity,
		confidenceFloor: cfg.ConfidenceFloor,
		cacheTTL:        time.Duration(cfg.CacheTTLHours) * time.Hour,
		now:             time.Now,
	}
	if p.minSimilarity <= 0 {
		p.minSimilarity = defaultMinSimilarity
	}
	if p.confidenceFloor <= 0 {
		p.confidenceFloor = defaultConfidenceFloor
	}
	if p.cacheTTL <= 0 {
		p.cacheTTL = defaultCacheTTL
	}
	return p
}

// RecordParams describes one finished task to fold into the history.
type RecordParams struct {
	Profile pattern.TaskProfile
	Agent   string
	Skills  []string
	Outcome pattern.Outcome
	When    time.Time
}

// Record appends a pattern to patterns.json and evicts the cache entry for
// its fingerprint, since the cached ranking is now stale. Returns the stored
// pattern.
func (p *Predictor) Record(params RecordParams) (pattern.Pattern, error) {
	if params.Agent == "" {
		return pattern.Pattern{}, fmt.Errorf("record pattern: empty agent")
	}
	if params.When.IsZero() {
		params.When = p.now().UTC()
	}

	rec := pattern.Pattern{
		ID:          uuid.NewString(),
		Fingerprint: pattern.FingerprintOf(params.Profile),
		Profile:     params.Profile,
		Agent:       params.Agent,
		Skills:      params.Skills,
		Outcome:     params.Outcome,
		RecordedAt:  params.When,
	}

	err := p.store.Update(patstore.DocPatterns, func(raw json.RawMessage) (any, error) {
		doc := patternsDoc{Versioned: patstore.Versioned{SchemaVersion: patstore.SchemaVersion}}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &doc); err != nil {
				return nil, fmt.Errorf("parse %s: %w", patstore.DocPatterns, err)
			}
		}
		doc.SchemaVersion = patstore.SchemaVersion
		doc.Patterns = append(doc.Patterns, rec)
		return doc, nil
	})
	if err != nil {
		return pattern.Pattern{}, err
	}

	if err := p.evictCache(rec.Fingerprint); err != nil {
		return pattern.Pattern{}, err
	}
	return rec, nil
}

// History returns all stored patterns. A missing document is an empty
// history, not an error.
func (p *Predictor) History() ([]pattern.Pattern, error) {
	var doc patternsDoc
	err := p.store.Load(patstore.DocPatterns, &doc)
	switch {
	case err == nil:
	case patstore.IsNotFound(err):
		return nil, nil
	default:
		return nil, err
	}
	return doc.Patterns, nil
}

// Predict ranks up to k skills for the task profile. Fresh cache entries for
// the exact fingerprint short-circuit the scan; otherwise the history is
// scanned linearly and the result cached. Predictions whose confidence falls
// below the floor return no skills.
func (p *Predictor) Predict(profile pattern.TaskProfile, k int) (Prediction, error) {
	fp := pattern.FingerprintOf(profile)

	if entry, ok, err := p.cachedEntry(fp); err != nil {
		return Prediction{}, err
	} else if ok {
		return Prediction{
			Fingerprint: fp,
			Skills:      limitSkills(entry.Skills, k),
			Confidence:  entry.Confidence,
			FromCache:   true,
		}, nil
	}

	history, err := p.History()
	if err != nil {
		return Prediction{}, err
	}

	pred := p.rank(profile, history)
	pred.Fingerprint = fp

	// Cache the full ranking before trimming to k.
	if err := p.putCache(cacheEntry{
		Fingerprint: fp,
		Skills:      pred.Skills,
		Confidence:  pred.Confidence,
		CachedAt:    p.now().UTC(),
	}); err != nil {
		return Prediction{}, err
	}

	pred.Skills = limitSkills(pred.Skills, k)
	return pred, nil
}

// rank scores every skill attached to sufficiently similar patterns.
// Skill score = sum over matching patterns of similarity * quality * decay;
// confidence = top raw score / sum of raw scores, 0 when nothing matched.
func (p *Predictor) rank(profile pattern.TaskProfile, history []pattern.Pattern) Prediction {
	now := p.now()
	scores := make(map[string]float64)
	pred := Prediction{Scanned: len(history)}

	for _, past := range history {
		sim := pattern.Similarity(profile, past.Profile)
		if sim < p.minSimilarity {
			continue
		}

		decay := 1.0
		if age := now.Sub(past.RecordedAt); age > 0 {
			decay = math.Pow(0.5, age.Hours()/recencyHalfLife.Hours())
		}
		// Failed outcomes contribute nothing rather than negative weight; a
		// skill that failed once may still be the right one.
		quality := past.Outcome.Quality / 100
		if !past.Outcome.Success {
			quality = 0
		}

		for _, skill := range past.Skills {
			scores[skill] += sim * quality * decay
		}
	}

	if len(scores) == 0 {
		return pred
	}

	total := 0.0
	for _, v := range scores {
		total += v
	}
	skills := make([]Skill, 0, len(scores))
	for name, v := range scores {
		skills = append(skills, Skill{Name: name, Score: v})
	}
	sort.Slice(skills, func(i, j int) bool {
		if skills[i].Score != skills[j].Score {
			return skills[i].Score > skills[j].Score
		}
		return skills[i].Name < skills[j].Name
	})

	confidence := 0.0
	if total > 0 {
		confidence = skills[0].Score / total
	}
	if confidence < p.confidenceFloor {
		pred.Confidence = confidence
		return pred
	}

	pred.Skills = skills
	pred.Confidence = confidence
	return pred
}

// limitSkills trims the ranking to k entries; k <= 0 keeps all.
func limitSkills(skills []Skill, k int) []Skill {
	if k > 0 && len(skills) > k {
		return skills[:k]
	}
	return skills
}
