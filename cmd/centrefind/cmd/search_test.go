package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centrefind/internal/search"
)

func TestSearchCommandText(t *testing.T) {
	isolateDataDir(t)
	root := makeTree(t)

	_, err := runCommand(t, "index", root, "--plain")
	require.NoError(t, err)

	out, err := runCommand(t, "search", "readme")
	require.NoError(t, err)
	assert.Contains(t, out, "readme.md")
}

func TestSearchCommandJSON(t *testing.T) {
	isolateDataDir(t)
	root := makeTree(t)

	_, err := runCommand(t, "index", root, "--plain")
	require.NoError(t, err)

	out, err := runCommand(t, "search", "world", "--format", "json")
	require.NoError(t, err)

	var results []search.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Path, "world.dat")
}

func TestSearchCommandNoMatches(t *testing.T) {
	isolateDataDir(t)
	root := makeTree(t)

	_, err := runCommand(t, "index", root, "--plain")
	require.NoError(t, err)

	out, err := runCommand(t, "search", "zzzzqqqq")
	require.NoError(t, err)
	assert.Contains(t, out, "no matches")
}

func TestSearchCommandRespectsLimit(t *testing.T) {
	isolateDataDir(t)
	root := makeTree(t)

	_, err := runCommand(t, "index", root, "--plain")
	require.NoError(t, err)

	out, err := runCommand(t, "search", "e", "-n", "1", "--format", "json")
	require.NoError(t, err)

	var results []search.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Len(t, results, 1)
}

func TestSearchCommandUnknownFormat(t *testing.T) {
	isolateDataDir(t)
	root := makeTree(t)

	_, err := runCommand(t, "index", root, "--plain")
	require.NoError(t, err)

	_, err = runCommand(t, "search", "readme", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
