// Package config carries runtime configuration for the metakv tools:
// defaults, pointer-field overrides for partial files, and YAML/JSON
// loading.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/metakv/metakv/internal/util"
	"gopkg.in/yaml.v3"
)

// Backend selects the key-value engine backing the metadata store.
type Backend string

const (
	BackendBadger  Backend = "badger"
	BackendLevelDB Backend = "leveldb"
	BackendMemory  Backend = "memory"
)

// Log verbosity as exposed on the CLI: 1 (error) .. 5 (trace).
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultBackend = BackendBadger

	DefaultDataDir = "./metakv-data"

	// DefaultStatsIntervalSec is how often the admin tool's heartbeat logs
	// the enumeration skip counters, in seconds
	DefaultStatsIntervalSec = 30.0
)

// Config contains runtime configuration values for the metakv tools.
type Config struct {
	Backend          Backend       // Key-value engine (Default badger)
	DataDir          string        // Directory holding the backend's files; unused by the memory backend (Default ./metakv-data)
	LogLvl           util.LogLevel // Internal log level derived from verbosity
	StatsIntervalSec float64       // Heartbeat interval for periodic stats logging in seconds (Default 30)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero
// values when loading partial configuration. See [Config] for field
// descriptions. LogLvl is the CLI verbosity (1-5), not the internal level.
type ConfigOverride struct {
	Backend          *Backend `yaml:"backend,omitempty" json:"backend,omitempty"`
	DataDir          *string  `yaml:"data_dir,omitempty" json:"data_dir,omitempty"`
	LogLvl           *int     `yaml:"verbosity,omitempty" json:"verbosity,omitempty"`
	StatsIntervalSec *float64 `yaml:"stats_interval_sec,omitempty" json:"stats_interval_sec,omitempty"`
}

// NewConfig creates a Config from defaults with override applied on top.
// A nil override yields pure defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := &Config{
		Backend:          DefaultBackend,
		DataDir:          DefaultDataDir,
		LogLvl:           util.InfoLevel,
		StatsIntervalSec: DefaultStatsIntervalSec,
	}
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.Backend != nil {
		c.Backend = *override.Backend
	}
	if override.DataDir != nil {
		c.DataDir = *override.DataDir
	}
	if override.LogLvl != nil {
		c.LogLvl = VerbosityToLevel(*override.LogLvl)
	}
	if override.StatsIntervalSec != nil {
		c.StatsIntervalSec = *override.StatsIntervalSec
	}
}

// VerbosityToLevel maps CLI verbosity (1-5, clamped) to the internal log
// level.
func VerbosityToLevel(verbosity int) util.LogLevel {
	if verbosity < ErrorVerbose {
		verbosity = ErrorVerbose
	}
	if verbosity > TraceVerbose {
		verbosity = TraceVerbose
	}
	levels := [...]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return levels[verbosity-1]
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function combining NewConfig and LoadConfigOverrideFile.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	return NewConfig(override), nil
}
