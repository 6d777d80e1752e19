// Package patstore manages the .claude-patterns directory: a set of small
// JSON documents that record task outcomes, agent performance aggregates,
// feedback, assessments and prediction caches. Access is read-modify-write
// under a per-document advisory lock, with atomic temp-file-and-rename saves.
package patstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the store directory created inside a project root.
const DirName = ".claude-patterns"

// EnvPatternsDir overrides the store location when set.
const EnvPatternsDir = "TALLY_PATTERNS_DIR"

// Well-known document names.
const (
	DocPatterns    = "patterns.json"
	DocPerformance = "agent_performance.json"
	DocFeedback    = "agent_feedback.json"
	DocAssessments = "assessments.json"
	DocCache       = "prediction_cache.json"
)

// SchemaVersion is the current version stamped into every document.
const SchemaVersion = 3

// ErrNotFound wraps os.ErrNotExist for missing documents so callers can seed
// defaults with errors.Is.
var ErrNotFound = os.ErrNotExist

// IsNotFound reports whether err means a document does not exist yet.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Store is a handle to one .claude-patterns directory.
type Store struct {
	dir string
}

// DefaultDir resolves the store directory: TALLY_PATTERNS_DIR if set,
// otherwise .claude-patterns under the given project root.
func DefaultDir(projectRoot string) string {
	if v := os.Getenv(EnvPatternsDir); v != "" {
		return v
	}
	return filepath.Join(projectRoot, DirName)
}

// Open returns a Store for an existing directory. The directory must exist;
// use Init to create one.
func Open(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open pattern store %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open pattern store %s: not a directory", dir)
	}
	return &Store{dir: dir}, nil
}

// Init creates the store directory (if needed), writes the default
// config.yaml when absent, and returns the opened store. Idempotent.
func Init(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create pattern store %s: %w", dir, err)
	}
	if err := writeDefaultConfig(dir); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the absolute path of a named document.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Load reads and decodes the named JSON document into v. A missing document
// returns an error wrapping ErrNotFound; corrupt JSON returns a parse error
// naming the file.
func (s *Store) Load(name string, v any) error {
	path := s.Path(name)
	data, err := os.ReadFile(path) //nolint:gosec // path is store-dir + known doc name
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("document %s: %w", name, ErrNotFound)
		}
		return fmt.Errorf("read document %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse document %s: %w", path, err)
	}
	return nil
}

// Save encodes v and writes it atomically: encode to a temp file in the
// store directory, then rename over the target.
func (s *Store) Save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document %s: %w", name, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("temp file for %s: %w", name, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write document %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close document %s: %w", name, err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod document %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, s.Path(name)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace document %s: %w", name, err)
	}
	return nil
}

// Update runs fn under the document's advisory lock. fn receives the raw
// decoded document (nil when the document does not exist yet) and returns
// the value to save, or nil to skip the write.
func (s *Store) Update(name string, fn func(raw json.RawMessage) (any, error)) error {
	lock, err := s.acquireLock(name)
	if err != nil {
		return err
	}
	defer lock.release()

	var raw json.RawMessage
	data, err := os.ReadFile(s.Path(name)) //nolint:gosec // path is store-dir + known doc name
	switch {
	case err == nil:
		raw = data
	case errors.Is(err, os.ErrNotExist):
		raw = nil
	default:
		return fmt.Errorf("read document %s: %w", name, err)
	}

	out, err := fn(raw)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return s.Save(name, out)
}

// Versioned is embedded by document types to carry the schema version stamp.
type Versioned struct {
	SchemaVersion int `json:"schema_version"`
}

// VersionOf extracts schema_version from a raw document. Documents written
// before stamping existed report version 1.
func VersionOf(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var v Versioned
	if err := json.Unmarshal(raw, &v); err != nil {
		return 1
	}
	if v.SchemaVersion == 0 {
		return 1
	}
	return v.SchemaVersion
}
