package pattern

import "strings"

// Similarity weights. Hand-tuned; they must sum to 1.0 so scores stay in [0,1].
const (
	weightTaskType   = 0.40
	weightLanguage   = 0.25
	weightFramework  = 0.15
	weightComplexity = 0.10
	weightKeywords   = 0.10
)

// Similarity returns a weighted similarity score in [0,1] between two task
// profiles. Exact attribute matches score their full weight; the description
// contributes keyword overlap. Two empty profiles score 0.
func Similarity(a, b TaskProfile) float64 {
	if isEmptyProfile(a) || isEmptyProfile(b) {
		return 0
	}

	score := 0.0
	if matchAttr(a.TaskType, b.TaskType) {
		score += weightTaskType
	}
	if matchAttr(a.Language, b.Language) {
		score += weightLanguage
	}
	if matchAttr(a.Framework, b.Framework) {
		score += weightFramework
	}
	if matchAttr(a.Complexity, b.Complexity) {
		score += weightComplexity
	}
	score += weightKeywords * KeywordOverlap(Keywords(a.Description), Keywords(b.Description))
	return score
}

// isEmptyProfile reports whether every attribute of the profile is blank.
func isEmptyProfile(p TaskProfile) bool {
	return normalize(p.TaskType) == "" &&
		normalize(p.Description) == "" &&
		normalize(p.Language) == "" &&
		normalize(p.Framework) == "" &&
		normalize(p.Complexity) == ""
}

// matchAttr reports whether two normalized attributes are equal and non-empty.
func matchAttr(a, b string) bool {
	na, nb := normalize(a), normalize(b)
	return na != "" && na == nb
}

// stopwords are tokens excluded from keyword extraction. The list mirrors the
// filler words that dominate task descriptions.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "in": {}, "is": {}, "it": {}, "of": {},
	"on": {}, "or": {}, "that": {}, "the": {}, "this": {}, "to": {},
	"with": {}, "was": {}, "were": {}, "will": {}, "should": {}, "can": {},
}

// Keywords tokenizes text into lowercase alphanumeric terms, dropping
// stopwords and single-character tokens. Order is preserved, duplicates kept.
func Keywords(text string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() < 2 {
			cur.Reset()
			return
		}
		w := cur.String()
		cur.Reset()
		if _, skip := stopwords[w]; skip {
			return
		}
		out = append(out, w)
	}
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			cur.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return out
}

// KeywordOverlap returns the Jaccard overlap between two keyword sets in
// [0,1]. Empty inputs score 0.
func KeywordOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, w := range a {
		setA[w] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, w := range b {
		setB[w] = struct{}{}
	}
	inter := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// levenshtein returns the edit distance between two strings.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	// Two-row DP to save memory.
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = 1 + min(prev[j], min(curr[j-1], prev[j-1]))
			}
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// StringSimilarity returns 1 - editDistance/maxLen over the normalized
// inputs, in [0,1]. Identical strings score 1; fully disjoint strings 0.
func StringSimilarity(a, b string) float64 {
	na, nb := normalize(a), normalize(b)
	if na == nb {
		return 1
	}
	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(na, nb))/float64(maxLen)
}
