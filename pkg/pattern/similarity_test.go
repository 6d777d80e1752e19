package pattern

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    TaskProfile
		b    TaskProfile
		want float64
	}{
		{
			name: "empty profiles score zero",
			a:    TaskProfile{},
			b:    TaskProfile{TaskType: "debug"},
			want: 0,
		},
		{
			name: "full attribute match without descriptions",
			a:    TaskProfile{TaskType: "debug", Language: "go", Framework: "cobra", Complexity: "medium"},
			b:    TaskProfile{TaskType: "debug", Language: "go", Framework: "cobra", Complexity: "medium"},
			want: 0.90, // keyword weight unearned with empty descriptions
		},
		{
			name: "type and language only",
			a:    TaskProfile{TaskType: "debug", Language: "go"},
			b:    TaskProfile{TaskType: "debug", Language: "go", Framework: "echo"},
			want: 0.65,
		},
		{
			name: "case insensitive attribute match",
			a:    TaskProfile{TaskType: "Debug", Language: "GO"},
			b:    TaskProfile{TaskType: "debug", Language: "go"},
			want: 0.65,
		},
		{
			name: "empty attributes never match each other",
			a:    TaskProfile{TaskType: "debug"},
			b:    TaskProfile{TaskType: "feature"},
			want: 0,
		},
		{
			name: "identical descriptions earn the keyword weight",
			a:    TaskProfile{TaskType: "debug", Description: "fix nil panic in parser"},
			b:    TaskProfile{TaskType: "debug", Description: "fix nil panic in parser"},
			want: 0.50,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Similarity(tc.a, tc.b)
			if !almostEqual(got, tc.want) {
				t.Errorf("Similarity = %v, want %v", got, tc.want)
			}
			// Symmetric by construction.
			if rev := Similarity(tc.b, tc.a); !almostEqual(got, rev) {
				t.Errorf("Similarity not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "drops stopwords and punctuation", in: "Fix the parser, and add tests!", want: []string{"fix", "parser", "add", "tests"}},
		{name: "drops single chars", in: "a b go", want: []string{"go"}},
		{name: "empty input", in: "", want: nil},
		{name: "numbers kept", in: "migrate v2 schema", want: []string{"migrate", "v2", "schema"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Keywords(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("Keywords(%q) = %v, want %v", tc.in, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("Keywords(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestKeywordOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{name: "identical sets", a: []string{"fix", "panic"}, b: []string{"fix", "panic"}, want: 1},
		{name: "disjoint sets", a: []string{"fix"}, b: []string{"docs"}, want: 0},
		{name: "half overlap", a: []string{"fix", "panic"}, b: []string{"fix", "docs"}, want: 1.0 / 3.0},
		{name: "empty side", a: nil, b: []string{"fix"}, want: 0},
		{name: "duplicates collapse", a: []string{"fix", "fix"}, b: []string{"fix"}, want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := KeywordOverlap(tc.a, tc.b); !almostEqual(got, tc.want) {
				t.Errorf("KeywordOverlap = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStringSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "debugger", b: "debugger", want: 1},
		{name: "case folded identical", a: "Debugger", b: "debugger", want: 1},
		{name: "both empty", a: "", b: "", want: 1},
		{name: "one edit", a: "tester", b: "testes", want: 1 - 1.0/6.0},
		{name: "disjoint", a: "ab", b: "xy", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StringSimilarity(tc.a, tc.b); !almostEqual(got, tc.want) {
				t.Errorf("StringSimilarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"same", "same", 0},
	}
	for _, tc := range tests {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
