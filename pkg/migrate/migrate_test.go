package migrate

import (
	"os"
	"testing"

	"tally/pkg/patstore"
	"tally/pkg/pattern"
)

const legacyPatterns = `{
  "patterns": [
    {
      "id": "p1",
      "profile": {"task_type": "debug", "language": "go"},
      "agent": "debug-specialist",
      "skills": ["delve"],
      "outcome": {"success": true, "score": 85},
      "recorded_at": "2026-01-15 10:30:00"
    }
  ]
}`

func newLegacyStore(t *testing.T) *patstore.Store {
	t.Helper()
	s, err := patstore.Init(t.TempDir())
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	if err := os.WriteFile(s.Path(patstore.DocPatterns), []byte(legacyPatterns), 0o600); err != nil {
		t.Fatalf("write legacy doc: %v", err)
	}
	return s
}

func TestRun(t *testing.T) {
	t.Run("upgrades legacy patterns document", func(t *testing.T) {
		s := newLegacyStore(t)
		report, err := Run(s, false)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if report.DryRun {
			t.Error("report marked dry-run")
		}
		if len(report.Changes) != 2 {
			t.Fatalf("changes = %+v, want 2 for patterns.json", report.Changes)
		}

		var doc struct {
			patstore.Versioned
			Patterns []pattern.Pattern `json:"patterns"`
		}
		if err := s.Load(patstore.DocPatterns, &doc); err != nil {
			t.Fatalf("Load migrated doc: %v", err)
		}
		if doc.SchemaVersion != patstore.SchemaVersion {
			t.Errorf("schema_version = %d, want %d", doc.SchemaVersion, patstore.SchemaVersion)
		}
		if len(doc.Patterns) != 1 {
			t.Fatalf("patterns = %+v", doc.Patterns)
		}
		p := doc.Patterns[0]
		if p.Outcome.Quality != 85 {
			t.Errorf("quality = %v, want 85 (renamed from score)", p.Outcome.Quality)
		}
		if p.RecordedAt.IsZero() {
			t.Error("recorded_at failed to normalize to RFC3339")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		s := newLegacyStore(t)
		if _, err := Run(s, false); err != nil {
			t.Fatalf("first Run: %v", err)
		}
		report, err := Run(s, false)
		if err != nil {
			t.Fatalf("second Run: %v", err)
		}
		if len(report.Changes) != 0 {
			t.Errorf("second run changed documents: %+v", report.Changes)
		}
	})

	t.Run("dry run reports without writing", func(t *testing.T) {
		s := newLegacyStore(t)
		before, err := os.ReadFile(s.Path(patstore.DocPatterns))
		if err != nil {
			t.Fatalf("read before: %v", err)
		}

		report, err := Run(s, true)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if !report.DryRun || len(report.Changes) != 2 {
			t.Errorf("dry-run report = %+v", report)
		}

		after, err := os.ReadFile(s.Path(patstore.DocPatterns))
		if err != nil {
			t.Fatalf("read after: %v", err)
		}
		if string(before) != string(after) {
			t.Error("dry run modified the document")
		}
	})

	t.Run("empty store migrates nothing", func(t *testing.T) {
		s, err := patstore.Init(t.TempDir())
		if err != nil {
			t.Fatalf("init store: %v", err)
		}
		report, err := Run(s, false)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(report.Changes) != 0 {
			t.Errorf("changes on empty store: %+v", report.Changes)
		}
	})

	t.Run("quality key wins over legacy score", func(t *testing.T) {
		s, err := patstore.Init(t.TempDir())
		if err != nil {
			t.Fatalf("init store: %v", err)
		}
		mixed := `{"patterns": [{"id": "p1", "outcome": {"success": true, "score": 10, "quality": 99}, "recorded_at": "2026-01-01T00:00:00Z"}]}`
		if err := os.WriteFile(s.Path(patstore.DocPatterns), []byte(mixed), 0o600); err != nil {
			t.Fatalf("write doc: %v", err)
		}
		if _, err := Run(s, false); err != nil {
			t.Fatalf("Run: %v", err)
		}
		var doc struct {
			Patterns []pattern.Pattern `json:"patterns"`
		}
		if err := s.Load(patstore.DocPatterns, &doc); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if doc.Patterns[0].Outcome.Quality != 99 {
			t.Errorf("quality = %v, want existing 99 kept", doc.Patterns[0].Outcome.Quality)
		}
	})
}
