// Package config handles centrefind configuration loading, defaults,
// and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	cferrors "centrefind/internal/errors"
)

// Accelerator backend names.
const (
	AcceleratorFTS5  = "fts5"
	AcceleratorBleve = "bleve"
	AcceleratorNone  = "none"
)

// Config represents the complete centrefind configuration.
type Config struct {
	Version int          `yaml:"version" json:"version"`
	DataDir string       `yaml:"data_dir" json:"data_dir"`
	Index   IndexConfig  `yaml:"index" json:"index"`
	Search  SearchConfig `yaml:"search" json:"search"`
	Log     LogConfig    `yaml:"log" json:"log"`
}

// IndexConfig configures the index builder and storage.
type IndexConfig struct {
	// BatchSize is the number of paths written per transaction.
	BatchSize int `yaml:"batch_size" json:"batch_size"`

	// Accelerator selects the optional containment accelerator:
	// "fts5" (default, lives inside the SQLite file), "bleve"
	// (separate index directory), or "none" (direct scans only).
	Accelerator string `yaml:"accelerator" json:"accelerator"`

	// Targets are the default roots for rebuilds when the index
	// command is invoked without arguments.
	Targets []string `yaml:"targets" json:"targets"`
}

// SearchConfig configures query behavior and scoring knobs.
// The scoring constants are tuning knobs, not invariants; they are
// exposed here so a config file can override them.
type SearchConfig struct {
	// DefaultLimit is applied when a query limit is missing or <= 0.
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`

	// CandidateMultiplier and CandidateFloor bound the internal
	// candidate pool: max(limit*multiplier, floor).
	CandidateMultiplier int `yaml:"candidate_multiplier" json:"candidate_multiplier"`
	CandidateFloor      int `yaml:"candidate_floor" json:"candidate_floor"`

	// SegmentThreshold is the similarity ratio at which a path segment
	// counts as containing a term (0-1).
	SegmentThreshold float64 `yaml:"segment_threshold" json:"segment_threshold"`

	// Coverage scoring.
	FullCoverageBonus  float64 `yaml:"full_coverage_bonus" json:"full_coverage_bonus"`
	MissingTermPenalty float64 `yaml:"missing_term_penalty" json:"missing_term_penalty"`
	SingleTermBonus    float64 `yaml:"single_term_bonus" json:"single_term_bonus"`
	PerTermBonus       float64 `yaml:"per_term_bonus" json:"per_term_bonus"`

	// Fuzzy scoring weights over best and average term ratios.
	BestRatioWeight float64 `yaml:"best_ratio_weight" json:"best_ratio_weight"`
	AvgRatioWeight  float64 `yaml:"avg_ratio_weight" json:"avg_ratio_weight"`

	// CacheSize is the number of query results kept in the LRU cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`

	// Synonyms overrides the built-in synonym table when non-empty.
	Synonyms map[string][]string `yaml:"synonyms" json:"synonyms"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level    string `yaml:"level" json:"level"`
	ToStderr bool   `yaml:"to_stderr" json:"to_stderr"`
}

// DefaultDataDir returns the default data directory (~/.centrefind).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".centrefind")
	}
	return filepath.Join(home, ".centrefind")
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		DataDir: DefaultDataDir(),
		Index: IndexConfig{
			BatchSize:   5000,
			Accelerator: AcceleratorFTS5,
			Targets:     []string{},
		},
		Search: SearchConfig{
			DefaultLimit:        20,
			CandidateMultiplier: 80,
			CandidateFloor:      2000,
			SegmentThreshold:    0.70,
			FullCoverageBonus:   140,
			MissingTermPenalty:  90,
			SingleTermBonus:     40,
			PerTermBonus:        15,
			BestRatioWeight:     0.4,
			AvgRatioWeight:      0.2,
			CacheSize:           256,
		},
		Log: LogConfig{
			Level:    "info",
			ToStderr: false,
		},
	}
}

// ConfigPath returns the config file path within a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.yaml")
}

// DatabasePath returns the index database path for this config.
// The index lives in a dedicated subfolder of the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "index", "paths.db")
}

// BleveIndexPath returns the bleve accelerator directory for this config.
func (c *Config) BleveIndexPath() string {
	return filepath.Join(c.DataDir, "index", "paths.bleve")
}

// Load reads configuration from a YAML file.
// A missing file yields defaults rather than an error; a malformed
// one is a config error.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return nil, cferrors.Wrapf(err, cferrors.ErrCodeConfigNotFound, "cannot read config %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, cferrors.Wrapf(err, cferrors.ErrCodeConfigInvalid, "cannot parse config %s", path)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads configuration from the default location.
func LoadDefault() (*Config, error) {
	dataDir := DefaultDataDir()
	if env := os.Getenv("CENTREFIND_DATA_DIR"); env != "" {
		dataDir = env
	}
	return Load(ConfigPath(dataDir))
}

// Save writes configuration to a YAML file, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cferrors.Wrapf(err, cferrors.ErrCodeConfigInvalid, "cannot create config directory for %s", path)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return cferrors.Wrap(err, cferrors.ErrCodeConfigInvalid, "cannot marshal config")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return cferrors.Wrapf(err, cferrors.ErrCodeConfigInvalid, "cannot write config %s", path)
	}
	return nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("CENTREFIND_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("CENTREFIND_ACCELERATOR"); v != "" {
		c.Index.Accelerator = v
	}
	if v := os.Getenv("CENTREFIND_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks configuration invariants, repairing soft fields and
// rejecting unusable ones.
func (c *Config) Validate() error {
	switch c.Index.Accelerator {
	case AcceleratorFTS5, AcceleratorBleve, AcceleratorNone:
	case "":
		c.Index.Accelerator = AcceleratorFTS5
	default:
		return cferrors.Newf(cferrors.ErrCodeConfigInvalid,
			"unknown accelerator %q (valid: %s, %s, %s)",
			c.Index.Accelerator, AcceleratorFTS5, AcceleratorBleve, AcceleratorNone)
	}

	if c.Index.BatchSize <= 0 {
		c.Index.BatchSize = 5000
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 20
	}
	if c.Search.CandidateMultiplier <= 0 {
		c.Search.CandidateMultiplier = 80
	}
	if c.Search.CandidateFloor <= 0 {
		c.Search.CandidateFloor = 2000
	}
	if c.Search.SegmentThreshold < 0 || c.Search.SegmentThreshold > 1 {
		return cferrors.Newf(cferrors.ErrCodeConfigInvalid,
			"segment_threshold must be in [0,1], got %v", c.Search.SegmentThreshold)
	}
	if c.Search.CacheSize <= 0 {
		c.Search.CacheSize = 256
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	return nil
}

// String returns a short description of the config for diagnostics.
func (c *Config) String() string {
	return fmt.Sprintf("data_dir=%s accelerator=%s batch_size=%d",
		c.DataDir, c.Index.Accelerator, c.Index.BatchSize)
}
