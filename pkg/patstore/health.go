package patstore

import (
	"encoding/json"
	"os"
)

// DocHealth describes the on-disk state of one store document.
type DocHealth struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
	Version int    `json:"version"`
	Locked  bool   `json:"locked"`
	// StaleLock is set when the lock file names a dead process. The next
	// writer will break it.
	StaleLock bool `json:"stale_lock,omitempty"`
}

// Documents lists the known store documents in display order.
func Documents() []string {
	return []string{DocPatterns, DocPerformance, DocFeedback, DocAssessments, DocCache}
}

// Health inspects every known document: presence, schema version and lock
// state. Inspection never takes locks and never errors on a single bad
// document; malformed files report version 1 like any unstamped document.
func (s *Store) Health() []DocHealth {
	out := make([]DocHealth, 0, len(Documents()))
	for _, name := range Documents() {
		h := DocHealth{Name: name}

		if data, err := os.ReadFile(s.Path(name)); err == nil { //nolint:gosec // path is store-dir + doc name
			h.Present = true
			h.Version = VersionOf(json.RawMessage(data))
		}

		lockPath := s.Path(name + ".lock")
		if _, err := os.Stat(lockPath); err == nil {
			h.Locked = true
			h.StaleLock = holderDead(lockPath)
		}

		out = append(out, h)
	}
	return out
}
