package patstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHealthEmptyStore(t *testing.T) {
	s := newTestStore(t)

	for _, h := range s.Health() {
		if h.Present {
			t.Errorf("%s: present in an empty store", h.Name)
		}
		if h.Locked {
			t.Errorf("%s: locked in an empty store", h.Name)
		}
	}
}

func TestHealthReportsVersionAndLock(t *testing.T) {
	s := newTestStore(t)

	doc := struct {
		Versioned
		Agents map[string]any `json:"agents"`
	}{Versioned: Versioned{SchemaVersion: SchemaVersion}}
	if err := s.Save(DocPerformance, doc); err != nil {
		t.Fatal(err)
	}

	// Stale lock: a PID that cannot exist.
	lockPath := s.Path(DocPatterns + ".lock")
	if err := os.WriteFile(lockPath, []byte("999999999"), 0o600); err != nil {
		t.Fatal(err)
	}

	byName := map[string]DocHealth{}
	for _, h := range s.Health() {
		byName[h.Name] = h
	}

	perf := byName[DocPerformance]
	if !perf.Present || perf.Version != SchemaVersion {
		t.Errorf("performance health = %+v, want present at v%d", perf, SchemaVersion)
	}
	pat := byName[DocPatterns]
	if !pat.Locked || !pat.StaleLock {
		t.Errorf("patterns health = %+v, want stale lock reported", pat)
	}
}

func TestDocumentsCoversStoreFiles(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(DocCache, map[string]any{"schema_version": 3}); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	known := map[string]bool{ConfigName: true}
	for _, name := range Documents() {
		known[name] = true
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".lock" {
			continue
		}
		if !known[e.Name()] {
			t.Errorf("unexpected store file %s", e.Name())
		}
	}
}
