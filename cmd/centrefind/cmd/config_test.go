package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInitCreatesFile(t *testing.T) {
	dataDir := isolateDataDir(t)

	out, err := runCommand(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	_, err = os.Stat(filepath.Join(dataDir, "config.yaml"))
	assert.NoError(t, err)
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	isolateDataDir(t)

	_, err := runCommand(t, "config", "init")
	require.NoError(t, err)

	_, err = runCommand(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCommand(t, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	isolateDataDir(t)

	out, err := runCommand(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "accelerator:")
	assert.Contains(t, out, "batch_size:")
}

func TestConfigShowJSON(t *testing.T) {
	isolateDataDir(t)

	out, err := runCommand(t, "config", "show", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"accelerator"`)
}

func TestConfigPath(t *testing.T) {
	isolateDataDir(t)

	out, err := runCommand(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "config.yaml")
}
