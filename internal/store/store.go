// Package store provides the durable path index: a SQLite primary
// table of unique path strings plus an optional accelerator mirror
// (FTS5 or bleve) used to speed up candidate retrieval.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	cferrors "centrefind/internal/errors"
)

// Options configures how a Store is opened.
type Options struct {
	// Accelerator selects the mirror backend: "fts5", "bleve", "none".
	// An unavailable backend degrades to direct scans, it never fails
	// the open.
	Accelerator string

	// BlevePath is the bleve index directory, used only when
	// Accelerator is "bleve".
	BlevePath string
}

// Store is the persistence layer for the path index.
//
// Concurrency contract: a single logical writer (rebuilds hold a
// cross-process lock at the engine layer); in-process access is
// guarded by a read-write mutex.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	accel  Accelerator
	closed bool
}

// validateIntegrity checks a database file before opening it.
// Returns nil if the file is absent (it will be created) or healthy.
func validateIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	db, err := sql.Open(DriverName, path)
	if err != nil {
		return fmt.Errorf("cannot open for validation: %w", err)
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("database corrupted: %s", result)
	}
	return nil
}

// Open opens (or creates) the index database at path and decides the
// accelerator capability once. An empty path opens an in-memory store
// for tests.
//
// A corrupt database file is treated as "no index yet": it is cleared
// and the schema recreated.
func Open(path string, opts Options) (*Store, error) {
	dsn := path
	if path == "" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, cferrors.Wrapf(err, cferrors.ErrCodeStorageOpen, "cannot create index directory for %s", path)
		}

		if validErr := validateIntegrity(path); validErr != nil {
			slog.Warn("index_corrupted",
				slog.String("path", path),
				slog.String("error", validErr.Error()))

			if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
				return nil, cferrors.Wrapf(removeErr, cferrors.ErrCodeCorruptIndex,
					"index corrupted at %s and cannot remove", path)
			}
			// WAL and SHM sidecars go with the main file.
			_ = os.Remove(path + "-wal")
			_ = os.Remove(path + "-shm")

			slog.Info("index_cleared",
				slog.String("path", path),
				slog.String("reason", "corruption detected, please rebuild"))
		}
	}

	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, cferrors.Wrap(err, cferrors.ErrCodeStorageOpen, "failed to open database")
	}

	// Single connection: one writer, and in-memory databases must not
	// be opened twice.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -65536",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, cferrors.Wrapf(err, cferrors.ErrCodeStorageOpen, "failed to set pragma")
		}
	}

	s := &Store{db: db, path: path}

	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, cferrors.Wrap(err, cferrors.ErrCodeStorageOpen, "failed to initialize schema")
	}

	// Accelerator capability is decided here, once. Probe failures
	// degrade to direct scans; they never fail the open.
	switch opts.Accelerator {
	case "bleve":
		accel, err := newBleveAccelerator(opts.BlevePath)
		if err != nil {
			slog.Warn("accelerator_unavailable",
				slog.String("backend", "bleve"),
				slog.String("error", err.Error()))
		} else {
			s.accel = accel
		}
	case "none":
		// Direct scans only.
	default:
		accel, err := newFTS5Accelerator(db)
		if err != nil {
			slog.Warn("accelerator_unavailable",
				slog.String("backend", "fts5"),
				slog.String("error", err.Error()))
		} else {
			s.accel = accel
		}
	}

	return s, nil
}

// initSchema creates the primary table.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);

	-- One record per indexed path; uniqueness is the only invariant.
	CREATE TABLE IF NOT EXISTS paths (
		path TEXT PRIMARY KEY
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Mode reports how candidate retrieval is served.
func (s *Store) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.accel == nil {
		return ModeDirectScan
	}
	return s.accel.Mode()
}

// Path returns the database file path ("" for in-memory stores).
func (s *Store) Path() string {
	return s.path
}

// Count returns the number of path records currently indexed.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, cferrors.New(cferrors.ErrCodeStorageIO, "store is closed")
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM paths`).Scan(&count); err != nil {
		return 0, cferrors.Wrap(err, cferrors.ErrCodeStorageIO, "count failed")
	}
	return count, nil
}

// Clear removes all path records and resets the accelerator mirror.
// Called at the start of a rebuild (full replace semantics).
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return cferrors.New(cferrors.ErrCodeStorageIO, "store is closed")
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM paths`); err != nil {
		return cferrors.Wrap(err, cferrors.ErrCodeStorageIO, "failed to clear paths")
	}

	if s.accel != nil {
		if err := s.accel.Reset(ctx); err != nil {
			s.dropAcceleratorLocked("reset", err)
		}
	}
	return nil
}

// InsertBatch writes a batch of paths inside one transaction and
// mirrors the newly inserted rows to the accelerator. Duplicate
// paths are ignored. Returns the number of rows actually inserted.
func (s *Store) InsertBatch(ctx context.Context, paths []string) (int, error) {
	if len(paths) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, cferrors.New(cferrors.ErrCodeStorageIO, "store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, cferrors.Wrap(err, cferrors.ErrCodeStorageIO, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO paths(path) VALUES (?)`)
	if err != nil {
		return 0, cferrors.Wrap(err, cferrors.ErrCodeStorageIO, "failed to prepare insert")
	}
	defer func() { _ = stmt.Close() }()

	// Track which rows were new so the mirror matches the primary
	// table exactly, even when a walk yields duplicates.
	inserted := make([]string, 0, len(paths))
	for _, p := range paths {
		res, err := stmt.ExecContext(ctx, p)
		if err != nil {
			return 0, cferrors.Wrapf(err, cferrors.ErrCodeStorageIO, "failed to insert %s", p)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted = append(inserted, p)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, cferrors.Wrap(err, cferrors.ErrCodeStorageIO, "failed to commit batch")
	}

	if s.accel != nil && len(inserted) > 0 {
		if err := s.accel.Add(ctx, inserted); err != nil {
			s.dropAcceleratorLocked("add", err)
		}
	}

	return len(inserted), nil
}

// CandidatesAll returns up to max paths containing every term as a
// case-insensitive substring, in insertion order.
func (s *Store) CandidatesAll(ctx context.Context, terms []string, max int) ([]string, error) {
	if len(terms) == 0 || max <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, cferrors.New(cferrors.ErrCodeStorageIO, "store is closed")
	}

	conds := make([]string, len(terms))
	args := make([]any, 0, len(terms)+1)
	for i, t := range terms {
		conds[i] = "instr(lower(path), ?) > 0"
		args = append(args, strings.ToLower(t))
	}
	args = append(args, max)

	query := fmt.Sprintf(
		`SELECT path FROM paths WHERE %s ORDER BY rowid LIMIT ?`,
		strings.Join(conds, " AND "))

	return s.scanPaths(ctx, query, args)
}

// CandidatesAny returns up to max paths containing at least one of
// the needles as a case-insensitive substring. When an accelerator is
// present its token-prefix matches supplement the direct scan; every
// supplemental path also qualifies under the substring test, so the
// accelerator changes speed, not results.
func (s *Store) CandidatesAny(ctx context.Context, needles []string, max int) ([]string, error) {
	if len(needles) == 0 || max <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, cferrors.New(cferrors.ErrCodeStorageIO, "store is closed")
	}

	conds := make([]string, len(needles))
	args := make([]any, 0, len(needles)+1)
	for i, n := range needles {
		conds[i] = "instr(lower(path), ?) > 0"
		args = append(args, strings.ToLower(n))
	}
	args = append(args, max)

	query := fmt.Sprintf(
		`SELECT path FROM paths WHERE %s ORDER BY rowid LIMIT ?`,
		strings.Join(conds, " OR "))

	paths, err := s.scanPaths(ctx, query, args)
	if err != nil {
		return nil, err
	}

	if s.accel != nil && len(paths) < max {
		extra, err := s.accel.Candidates(ctx, needles, max-len(paths))
		if err != nil {
			slog.Warn("accelerator_query_failed",
				slog.String("backend", string(s.accel.Mode())),
				slog.String("error", err.Error()))
			return paths, nil
		}

		seen := make(map[string]struct{}, len(paths))
		for _, p := range paths {
			seen[p] = struct{}{}
		}
		for _, p := range extra {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			paths = append(paths, p)
			if len(paths) >= max {
				break
			}
		}
	}

	return paths, nil
}

// scanPaths runs a single-column path query.
func (s *Store) scanPaths(ctx context.Context, query string, args []any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, cferrors.Wrap(err, cferrors.ErrCodeStorageIO, "candidate query failed")
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, cferrors.Wrap(err, cferrors.ErrCodeStorageIO, "failed to scan path")
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// dropAcceleratorLocked disables the accelerator after a write failure
// and degrades to direct scans. Caller must hold the write lock.
func (s *Store) dropAcceleratorLocked(op string, err error) {
	slog.Warn("accelerator_disabled",
		slog.String("backend", string(s.accel.Mode())),
		slog.String("op", op),
		slog.String("error", err.Error()))
	_ = s.accel.Close()
	s.accel = nil
}

// Close checkpoints and closes the store. Safe to call twice.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.accel != nil {
		_ = s.accel.Close()
	}

	if s.db != nil {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		return s.db.Close()
	}
	return nil
}
