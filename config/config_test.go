package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/metakv/metakv/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig_WithNilOverride tests that NewConfig creates a config with
// all default values when no override is provided.
func TestNewConfig_WithNilOverride(t *testing.T) {
	t.Parallel()

	cfg := NewConfig(nil)

	require.NotNil(t, cfg)
	assert.Equal(t, DefaultBackend, cfg.Backend)
	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, util.InfoLevel, cfg.LogLvl)
	assert.Equal(t, DefaultStatsIntervalSec, cfg.StatsIntervalSec)
}

// TestNewConfig_WithAllOverride tests that NewConfig properly applies
// overrides while preserving defaults for unset fields.
func TestNewConfig_WithAllOverride(t *testing.T) {
	t.Parallel()

	override := &ConfigOverride{
		Backend:          util.Pointer(BackendMemory),
		DataDir:          util.Pointer("/tmp/meta"),
		LogLvl:           util.Pointer(TraceVerbose),
		StatsIntervalSec: util.Pointer(1.5),
	}
	cfg := NewConfig(override)

	expCfg := &Config{
		Backend:          BackendMemory,
		DataDir:          "/tmp/meta",
		LogLvl:           util.TraceLevel,
		StatsIntervalSec: 1.5,
	}
	require.NotNil(t, cfg)
	assert.Equal(t, expCfg, cfg, "must override all provided fields")
}

func TestConfig_Merge_Partial(t *testing.T) {
	t.Parallel()

	cfg := NewConfig(nil)
	cfg.Merge(&ConfigOverride{DataDir: util.Pointer("/var/lib/metakv")})

	assert.Equal(t, "/var/lib/metakv", cfg.DataDir)
	// untouched fields keep their defaults
	assert.Equal(t, DefaultBackend, cfg.Backend)
	assert.Equal(t, DefaultStatsIntervalSec, cfg.StatsIntervalSec)
}

func TestVerbosityToLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		verbosity int
		want      util.LogLevel
	}{
		{"error", ErrorVerbose, util.ErrorLevel},
		{"info", InfoVerbose, util.InfoLevel},
		{"trace", TraceVerbose, util.TraceLevel},
		{"below range clamps", 0, util.ErrorLevel},
		{"above range clamps", 99, util.TraceLevel},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, VerbosityToLevel(tc.verbosity))
		})
	}
}

func TestLoadConfigOverrideFile_YAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "backend: leveldb\ndata_dir: /data/meta\nverbosity: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	override, err := LoadConfigOverrideFile(path)
	require.NoError(t, err)
	require.NotNil(t, override.Backend)
	assert.Equal(t, BackendLevelDB, *override.Backend)
	require.NotNil(t, override.DataDir)
	assert.Equal(t, "/data/meta", *override.DataDir)
	require.NotNil(t, override.LogLvl)
	assert.Equal(t, DebugVerbose, *override.LogLvl)
	assert.Nil(t, override.StatsIntervalSec, "unset fields stay nil")
}

func TestLoadConfigOverrideFile_JSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"backend": "memory", "stats_interval_sec": 2.5}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	override, err := LoadConfigOverrideFile(path)
	require.NoError(t, err)
	require.NotNil(t, override.Backend)
	assert.Equal(t, BackendMemory, *override.Backend)
	require.NotNil(t, override.StatsIntervalSec)
	assert.Equal(t, 2.5, *override.StatsIntervalSec)
}

func TestLoadConfigOverrideFile_UnknownExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("backend = 'memory'"), 0o644))

	_, err := LoadConfigOverrideFile(path)
	assert.Error(t, err)
}

func TestNewConfigFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("backend: memory\n"), 0o644))

	cfg, err := NewConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, DefaultDataDir, cfg.DataDir, "unset fields keep defaults")
}

func TestNewConfigFromFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := NewConfigFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
