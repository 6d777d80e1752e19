// Package pattern defines the core task-outcome record types shared by the
// tally stores, plus the fingerprint and similarity primitives the
// recommenders are built on. A Pattern is one JSON record describing a past
// task: what kind of work it was, which agent and skills handled it, and how
// it went.
package pattern

import (
	"crypto/md5" //nolint:gosec // fingerprint is a lookup key, not an integrity hash
	"encoding/hex"
	"strings"
	"time"
)

// Task type constants. Free-form types are accepted; these are the ones the
// built-in agent catalog knows about.
const (
	TaskDebug    = "debug"
	TaskFeature  = "feature"
	TaskRefactor = "refactor"
	TaskTest     = "test"
	TaskReview   = "review"
	TaskDocs     = "docs"
)

// Complexity levels for a task profile.
const (
	ComplexityLow    = "low"
	ComplexityMedium = "medium"
	ComplexityHigh   = "high"
)

// TaskProfile describes an incoming or historical task for matching purposes.
type TaskProfile struct {
	TaskType    string `json:"task_type"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	Framework   string `json:"framework,omitempty"`
	Complexity  string `json:"complexity,omitempty"`
}

// Outcome records how a task went.
type Outcome struct {
	Success  bool    `json:"success"`
	Quality  float64 `json:"quality"` // 0-100
	Duration float64 `json:"duration_seconds,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// Pattern is one historical task record stored in patterns.json.
type Pattern struct {
	ID          string      `json:"id"`
	Fingerprint string      `json:"fingerprint"`
	Profile     TaskProfile `json:"profile"`
	Agent       string      `json:"agent"`
	Skills      []string    `json:"skills,omitempty"`
	Outcome     Outcome     `json:"outcome"`
	RecordedAt  time.Time   `json:"recorded_at"`
}

// normalize lowercases and trims an attribute for fingerprint hashing.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Fingerprint returns the hex MD5 of the normalized task attributes, joined
// with "|". It is the cache and lookup key for skill prediction; two tasks
// with the same type, language, framework and complexity share a fingerprint.
func Fingerprint(taskType, language, framework, complexity string) string {
	key := strings.Join([]string{
		normalize(taskType),
		normalize(language),
		normalize(framework),
		normalize(complexity),
	}, "|")
	sum := md5.Sum([]byte(key)) //nolint:gosec // see package note: lookup key only
	return hex.EncodeToString(sum[:])
}

// FingerprintOf is a convenience wrapper over Fingerprint for a TaskProfile.
func FingerprintOf(p TaskProfile) string {
	return Fingerprint(p.TaskType, p.Language, p.Framework, p.Complexity)
}
