package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centrefind/internal/config"
	"centrefind/internal/store"
)

func newTestEngine(t *testing.T, accelerator string) (*Engine, *store.Store) {
	t.Helper()

	st, err := store.Open("", store.Options{Accelerator: accelerator})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return New(st, config.NewConfig()), st
}

func seedPaths(t *testing.T, st *store.Store, paths ...string) {
	t.Helper()
	_, err := st.InsertBatch(context.Background(), paths)
	require.NoError(t, err)
}

// makeTree creates a small directory tree and returns its root plus
// the number of entries a walk should emit (files and directories,
// root excluded).
func makeTree(t *testing.T) (string, int) {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "minecraft", "server1"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "minecraft", "server2"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "minecraft", "server1", "world.dat"), []byte("w"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "minecraft", "server2", "logs.txt"), []byte("l"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"), []byte("r"), 0o644))

	// minecraft, server1, server2, world.dat, logs.txt, readme.md
	return root, 6
}

func TestRebuildIndexesTree(t *testing.T) {
	e, _ := newTestEngine(t, "none")
	root, want := makeTree(t)

	stats, err := e.Rebuild(context.Background(), []string{root}, nil)
	require.NoError(t, err)
	assert.Equal(t, want, stats.Indexed)
	assert.Len(t, stats.Roots, 1)
	assert.Empty(t, stats.Skipped)

	count, err := e.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, count)
}

func TestRebuildIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t, "none")
	root, want := makeTree(t)
	ctx := context.Background()

	_, err := e.Rebuild(ctx, []string{root}, nil)
	require.NoError(t, err)

	stats, err := e.Rebuild(ctx, []string{root}, nil)
	require.NoError(t, err)
	assert.Equal(t, want, stats.Indexed)

	count, err := e.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, count)
}

func TestRebuildReplacesPreviousIndex(t *testing.T) {
	e, _ := newTestEngine(t, "none")
	ctx := context.Background()

	rootA, _ := makeTree(t)
	rootB := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootB, "only.txt"), []byte("o"), 0o644))

	_, err := e.Rebuild(ctx, []string{rootA}, nil)
	require.NoError(t, err)

	stats, err := e.Rebuild(ctx, []string{rootB}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)

	count, err := e.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Nothing from the first tree survives.
	results, err := e.Query(ctx, "minecraft", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRebuildEmptyTargetsYieldsEmptyIndex(t *testing.T) {
	e, st := newTestEngine(t, "none")
	ctx := context.Background()
	seedPaths(t, st, "/stale/entry")

	stats, err := e.Rebuild(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Indexed)

	count, err := e.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRebuildSkipsMissingRoots(t *testing.T) {
	e, _ := newTestEngine(t, "none")
	root, want := makeTree(t)
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	stats, err := e.Rebuild(context.Background(), []string{root, missing}, nil)
	require.NoError(t, err)
	assert.Equal(t, want, stats.Indexed)
	assert.Len(t, stats.Roots, 2)
}

func TestRebuildNonexistentDriveLetter(t *testing.T) {
	e, _ := newTestEngine(t, "none")
	ctx := context.Background()

	stats, err := e.Rebuild(ctx, []string{"Z"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Indexed)

	count, err := e.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRebuildReportsProgress(t *testing.T) {
	e, _ := newTestEngine(t, "none")
	root, want := makeTree(t)

	var events []ProgressEvent
	_, err := e.Rebuild(context.Background(), []string{root}, func(ev ProgressEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	require.NotEmpty(t, events)
	assert.Equal(t, want, events[len(events)-1].Indexed)
}

func TestRebuildCancellation(t *testing.T) {
	e, _ := newTestEngine(t, "none")
	root, _ := makeTree(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Rebuild(ctx, []string{root}, nil)
	assert.Error(t, err)
}

func TestQueryEmptyReturnsNothing(t *testing.T) {
	e, st := newTestEngine(t, "none")
	seedPaths(t, st, "/srv/app")

	for _, q := range []string{"", "   ", "\n\t"} {
		results, err := e.Query(context.Background(), q, 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	}
}

func TestQueryMultiTermRanking(t *testing.T) {
	e, st := newTestEngine(t, "none")
	seedPaths(t, st,
		"/srv/minecraft/server1/world",
		"/srv/minecraft/server2/logs",
		"/home/user/documents/notes.txt",
	)

	results, err := e.Query(context.Background(), "server world", 10)
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Equal(t, "/srv/minecraft/server1/world", results[0].Path)

	// The path satisfying both terms outranks any partial match.
	for _, r := range results[1:] {
		assert.Less(t, r.Score, results[0].Score)
	}
}

func TestQueryRespectsLimit(t *testing.T) {
	e, st := newTestEngine(t, "none")
	seedPaths(t, st,
		"/srv/a", "/srv/b", "/srv/c", "/srv/d", "/srv/e",
	)

	results, err := e.Query(context.Background(), "srv", 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestQueryDefaultLimit(t *testing.T) {
	e, st := newTestEngine(t, "none")

	paths := make([]string, 30)
	for i := range paths {
		paths[i] = filepath.Join("/srv", string(rune('a'+i)))
	}
	seedPaths(t, st, paths...)

	results, err := e.Query(context.Background(), "srv", 0)
	require.NoError(t, err)
	assert.Len(t, results, 20)
}

func TestQueryTieBreaksOnPathLength(t *testing.T) {
	e, st := newTestEngine(t, "none")
	seedPaths(t, st,
		"/data/notes/extra/deep",
		"/data/notes",
	)

	results, err := e.Query(context.Background(), "notes", 10)
	require.NoError(t, err)

	require.Len(t, results, 2)
	if results[0].Score == results[1].Score {
		assert.Less(t, len(results[0].Path), len(results[1].Path))
	} else {
		assert.Greater(t, results[0].Score, results[1].Score)
	}
}

func TestQueryTypoTolerance(t *testing.T) {
	e, st := newTestEngine(t, "none")
	seedPaths(t, st,
		"/games/ATLauncher/instances/world1",
		"/games/doom/saves",
	)

	// Dropped letter: no exact substring anywhere, fallback plus
	// segment similarity still surface the right path first.
	results, err := e.Query(context.Background(), "atluncher", 10)
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Equal(t, "/games/ATLauncher/instances/world1", results[0].Path)
}

func TestQueryMisspelledSegment(t *testing.T) {
	e, st := newTestEngine(t, "none")
	seedPaths(t, st,
		"C:/Users/Wiggo/Desktop/AtlLauncher/servers/SkyFactory",
		"C:/Users/Wiggo/Documents/taxes.xlsx",
	)

	// "AtlLauncher" is a misspelling of the queried "atlauncher"; the
	// segment ratio keeps it counted as contained.
	results, err := e.Query(context.Background(), "atlauncher servers", 10)
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Equal(t, "C:/Users/Wiggo/Desktop/AtlLauncher/servers/SkyFactory", results[0].Path)
}

func TestQuerySynonymExpansion(t *testing.T) {
	e, st := newTestEngine(t, "none")
	seedPaths(t, st,
		"/data/minecraft/srv1/config",
		"/data/photos/holiday",
	)

	// "server" appears nowhere; the srv synonym pulls the candidate in.
	results, err := e.Query(context.Background(), "server", 10)
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Equal(t, "/data/minecraft/srv1/config", results[0].Path)
}

func TestQueryCaseInsensitive(t *testing.T) {
	e, st := newTestEngine(t, "none")
	seedPaths(t, st, "/srv/Minecraft/Server1/World")

	results, err := e.Query(context.Background(), "SERVER WORLD", 10)
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Equal(t, "/srv/Minecraft/Server1/World", results[0].Path)
}

func TestQueryCacheInvalidatedByRebuild(t *testing.T) {
	e, _ := newTestEngine(t, "none")
	ctx := context.Background()

	rootA := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(rootA, "target.txt"), []byte("x"), 0o644))

	_, err := e.Rebuild(ctx, []string{rootA}, nil)
	require.NoError(t, err)

	results, err := e.Query(ctx, "target", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// Rebuild over an empty tree; the cached answer must not leak.
	_, err = e.Rebuild(ctx, []string{t.TempDir()}, nil)
	require.NoError(t, err)

	results, err = e.Query(ctx, "target", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// Ranked output must not depend on the accelerator backend.
func TestQueryAcceleratorEquivalence(t *testing.T) {
	rows := []string{
		"/srv/minecraft/server1/world",
		"/srv/minecraft/server2/logs",
		"/games/ATLauncher/instances/world1",
		"/home/user/documents/notes.txt",
	}
	ctx := context.Background()

	direct, directStore := newTestEngine(t, "none")
	accel, accelStore := newTestEngine(t, "fts5")
	seedPaths(t, directStore, rows...)
	seedPaths(t, accelStore, rows...)

	for _, q := range []string{"server world", "atluncher", "notes", "launcher"} {
		want, err := direct.Query(ctx, q, 10)
		require.NoError(t, err)
		got, err := accel.Query(ctx, q, 10)
		require.NoError(t, err)
		assert.Equal(t, want, got, "query: %q", q)
	}
}
