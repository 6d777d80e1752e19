package patstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigName is the store configuration file inside the patterns directory.
const ConfigName = "config.yaml"

// PredictionConfig tunes the predictive skill loader.
type PredictionConfig struct {
	CacheTTLHours   int     `yaml:"cache_ttl_hours"`
	MinSimilarity   float64 `yaml:"min_similarity"`
	ConfidenceFloor float64 `yaml:"confidence_floor"`
}

// SuggestConfig tunes the agent suggester.
type SuggestConfig struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
}

// Config holds store-level configuration loaded from config.yaml.
type Config struct {
	Version    int              `yaml:"version"`
	Prediction PredictionConfig `yaml:"prediction,omitempty"`
	Suggest    SuggestConfig    `yaml:"suggest,omitempty"`
}

// DefaultConfig returns the configuration written by Init.
func DefaultConfig() Config {
	return Config{
		Version: 1,
		Prediction: PredictionConfig{
			CacheTTLHours:   168, // 7 days
			MinSimilarity:   0.35,
			ConfidenceFloor: 0.2,
		},
		Suggest: SuggestConfig{
			FuzzyThreshold: 0.72,
		},
	}
}

// LoadConfig reads config.yaml from the store, falling back to defaults when
// the file is absent. Unknown keys are ignored; malformed YAML is an error.
func (s *Store) LoadConfig() (Config, error) {
	data, err := os.ReadFile(s.Path(ConfigName)) //nolint:gosec // store-dir path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("read %s: %w", ConfigName, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", ConfigName, err)
	}
	return cfg, nil
}

// writeDefaultConfig writes config.yaml if it does not exist yet.
func writeDefaultConfig(dir string) error {
	path := filepath.Join(dir, ConfigName)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config is not sensitive
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
