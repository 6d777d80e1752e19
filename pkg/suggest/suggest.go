package suggest

import (
	"sort"
	"strings"

	"tally/pkg/pattern"
)

// Score blend weights: capability match dominates, history corrects it, the
// fuzzy name channel catches "use the debugger" style requests.
const (
	weightCapability = 0.5
	weightFuzzyName  = 0.2
	weightHistory    = 0.3
)

// neutralPerf is the history boost for agents with no tracked outcomes.
const neutralPerf = 0.5

// DefaultFuzzyThreshold is the normalized-levenshtein score at which a
// description token counts as naming an agent.
const DefaultFuzzyThreshold = 0.72

// Suggester ranks catalog agents for a task profile.
type Suggester struct {
	catalog        []Agent
	rates          map[string]float64 // agent -> success rate; nil allowed
	fuzzyThreshold float64
}

// Option configures a Suggester.
type Option func(*Suggester)

// WithCatalog substitutes the agent catalog.
func WithCatalog(catalog []Agent) Option {
	return func(s *Suggester) { s.catalog = catalog }
}

// WithSuccessRates supplies tracked per-agent success rates for the history
// boost.
func WithSuccessRates(rates map[string]float64) Option {
	return func(s *Suggester) { s.rates = rates }
}

// WithFuzzyThreshold overrides the fuzzy-name match threshold.
func WithFuzzyThreshold(threshold float64) Option {
	return func(s *Suggester) {
		if threshold > 0 {
			s.fuzzyThreshold = threshold
		}
	}
}

// New returns a Suggester over the built-in catalog.
func New(opts ...Option) *Suggester {
	s := &Suggester{
		catalog:        Catalog,
		fuzzyThreshold: DefaultFuzzyThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Suggestion is one ranked agent recommendation.
type Suggestion struct {
	Agent       string  `json:"agent"`
	Score       float64 `json:"score"`
	Capability  float64 `json:"capability"`
	NameMatch   float64 `json:"name_match"`
	History     float64 `json:"history"`
	Description string  `json:"description,omitempty"`
}

// Suggest returns up to k agents ranked by blended score, ties broken by
// name for determinism. k <= 0 means all.
func (s *Suggester) Suggest(profile pattern.TaskProfile, k int) []Suggestion {
	words := pattern.Keywords(profile.Description)

	out := make([]Suggestion, 0, len(s.catalog))
	for _, agent := range s.catalog {
		sug := Suggestion{
			Agent:       agent.Name,
			Capability:  capabilityScore(agent, profile, words),
			NameMatch:   s.nameMatchScore(agent, words),
			History:     s.historyBoost(agent.Name),
			Description: agent.Description,
		}
		sug.Score = weightCapability*sug.Capability +
			weightFuzzyName*sug.NameMatch +
			weightHistory*sug.History
		out = append(out, sug)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Agent < out[j].Agent
	})

	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// capabilityScore blends task-type match, language match and keyword overlap
// between the agent's capabilities and the task description.
func capabilityScore(agent Agent, profile pattern.TaskProfile, words []string) float64 {
	score := 0.0
	if containsFold(agent.TaskTypes, profile.TaskType) {
		score += 0.5
	}
	if containsFold(agent.Languages, profile.Language) {
		score += 0.2
	}
	score += 0.3 * pattern.KeywordOverlap(words, agent.Keywords)
	return score
}

// nameMatchScore returns the best fuzzy similarity between any description
// token and the agent's name or aliases, zeroed below the threshold.
func (s *Suggester) nameMatchScore(agent Agent, words []string) float64 {
	names := append([]string{agent.Name}, agent.Aliases...)
	best := 0.0
	for _, w := range words {
		for _, n := range names {
			if sim := pattern.StringSimilarity(w, n); sim > best {
				best = sim
			}
		}
	}
	if best < s.fuzzyThreshold {
		return 0
	}
	return best
}

// historyBoost returns the tracked success rate, or a neutral prior when the
// agent has never been used.
func (s *Suggester) historyBoost(agent string) float64 {
	if rate, ok := s.rates[agent]; ok {
		return rate
	}
	return neutralPerf
}

// containsFold reports whether list contains s, case-insensitively.
func containsFold(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
