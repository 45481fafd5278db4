package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cferrors "centrefind/internal/errors"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, 5000, cfg.Index.BatchSize)
	assert.Equal(t, AcceleratorFTS5, cfg.Index.Accelerator)
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	assert.Equal(t, 80, cfg.Search.CandidateMultiplier)
	assert.Equal(t, 2000, cfg.Search.CandidateFloor)
	assert.InDelta(t, 0.70, cfg.Search.SegmentThreshold, 0.001)
	assert.InDelta(t, 140.0, cfg.Search.FullCoverageBonus, 0.001)
	assert.InDelta(t, 90.0, cfg.Search.MissingTermPenalty, 0.001)
}

func TestDatabasePath_UnderIndexSubfolder(t *testing.T) {
	cfg := NewConfig()
	cfg.DataDir = "/tmp/cf-test"

	assert.Equal(t, filepath.Join("/tmp/cf-test", "index", "paths.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/tmp/cf-test", "index", "paths.bleve"), cfg.BleveIndexPath())
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Index.BatchSize)
}

func TestLoad_ParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
version: 1
data_dir: ` + dir + `
index:
  batch_size: 100
  accelerator: none
search:
  default_limit: 5
  synonyms:
    server: [servers, srv]
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Index.BatchSize)
	assert.Equal(t, AcceleratorNone, cfg.Index.Accelerator)
	assert.Equal(t, 5, cfg.Search.DefaultLimit)
	assert.Equal(t, []string{"servers", "srv"}, cfg.Search.Synonyms["server"])
}

func TestLoad_MalformedYAMLIsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cferrors.New(cferrors.ErrCodeConfigInvalid, "")))
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := NewConfig()
	cfg.DataDir = dir
	cfg.Index.Accelerator = AcceleratorBleve
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, AcceleratorBleve, loaded.Index.Accelerator)
	assert.Equal(t, dir, loaded.DataDir)
}

func TestValidate_RejectsUnknownAccelerator(t *testing.T) {
	cfg := NewConfig()
	cfg.Index.Accelerator = "duckdb"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, cferrors.ErrCodeConfigInvalid, cferrors.CodeOf(err))
}

func TestValidate_RepairsSoftFields(t *testing.T) {
	cfg := NewConfig()
	cfg.Index.BatchSize = -1
	cfg.Search.DefaultLimit = 0
	cfg.Index.Accelerator = ""

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5000, cfg.Index.BatchSize)
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	assert.Equal(t, AcceleratorFTS5, cfg.Index.Accelerator)
}

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv("CENTREFIND_DATA_DIR", "/custom/data")
	t.Setenv("CENTREFIND_ACCELERATOR", "none")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/custom/data", cfg.DataDir)
	assert.Equal(t, AcceleratorNone, cfg.Index.Accelerator)
}
