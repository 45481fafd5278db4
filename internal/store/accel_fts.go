package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// fts5Accelerator mirrors the paths table into an FTS5 virtual table
// inside the same database file. unicode61 tokenizes on separators, so
// path segments become searchable tokens.
type fts5Accelerator struct {
	db *sql.DB
}

const fts5Schema = `CREATE VIRTUAL TABLE IF NOT EXISTS paths_fts USING fts5(path, tokenize='unicode61')`

// newFTS5Accelerator probes FTS5 support by creating the virtual
// table. Engines built without the extension fail here, and the store
// degrades to direct scans.
func newFTS5Accelerator(db *sql.DB) (*fts5Accelerator, error) {
	if _, err := db.Exec(fts5Schema); err != nil {
		return nil, fmt.Errorf("fts5 probe failed: %w", err)
	}
	return &fts5Accelerator{db: db}, nil
}

var _ Accelerator = (*fts5Accelerator)(nil)

func (a *fts5Accelerator) Mode() Mode {
	return ModeFTS5
}

// Reset drops and recreates the virtual table. FTS5 tables cannot
// always be selectively cleared, so rebuilds replace them wholesale.
func (a *fts5Accelerator) Reset(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, `DROP TABLE IF EXISTS paths_fts`); err != nil {
		return fmt.Errorf("failed to drop fts table: %w", err)
	}
	if _, err := a.db.ExecContext(ctx, fts5Schema); err != nil {
		return fmt.Errorf("failed to recreate fts table: %w", err)
	}
	return nil
}

// Add mirrors a batch of freshly inserted paths.
func (a *fts5Accelerator) Add(ctx context.Context, paths []string) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin fts transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO paths_fts(path) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare fts insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range paths {
		if _, err := stmt.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("failed to mirror %s: %w", p, err)
		}
	}
	return tx.Commit()
}

// Candidates returns paths with a token starting with any term, via a
// prefix MATCH over the mirror.
func (a *fts5Accelerator) Candidates(ctx context.Context, terms []string, max int) ([]string, error) {
	if len(terms) == 0 || max <= 0 {
		return nil, nil
	}

	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		// Quote each term so punctuation never reaches the MATCH parser.
		parts = append(parts, fmt.Sprintf(`"%s"*`, strings.ReplaceAll(t, `"`, `""`)))
	}
	if len(parts) == 0 {
		return nil, nil
	}

	match := strings.Join(parts, " OR ")
	rows, err := a.db.QueryContext(ctx,
		`SELECT path FROM paths_fts WHERE paths_fts MATCH ? LIMIT ?`, match, max)
	if err != nil {
		// Invalid MATCH expressions mean no accelerated candidates,
		// not a failed query.
		if strings.Contains(err.Error(), "fts5") || strings.Contains(err.Error(), "syntax error") {
			return nil, nil
		}
		return nil, fmt.Errorf("fts candidates failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan fts path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Close is a no-op: the database connection belongs to the store.
func (a *fts5Accelerator) Close() error {
	return nil
}
