package store

import "context"

// Mode describes how containment lookups are served.
type Mode string

const (
	// ModeFTS5 means an FTS5 virtual table inside the database file
	// supplements candidate retrieval.
	ModeFTS5 Mode = "fts5"
	// ModeBleve means a bleve index directory beside the database
	// supplements candidate retrieval.
	ModeBleve Mode = "bleve"
	// ModeDirectScan means no accelerator is present; retrieval scans
	// the primary table only. Functionally equivalent, slower.
	ModeDirectScan Mode = "direct-scan"
)

// Accelerator mirrors the primary paths table in an inverted index to
// speed up term-containment candidate retrieval. It is strictly a
// performance layer: every path an accelerator returns must also be
// reachable by a direct scan of the primary table.
//
// Whether an accelerator is available is decided once, when the store
// is opened; retrieval never re-probes.
type Accelerator interface {
	// Mode identifies the backend.
	Mode() Mode

	// Reset drops and recreates the mirror. Called at the start of a
	// rebuild; some backends cannot be selectively cleared.
	Reset(ctx context.Context) error

	// Add mirrors a batch of paths that were just written to the
	// primary table.
	Add(ctx context.Context, paths []string) error

	// Candidates returns up to max paths whose tokens start with any
	// of the given terms.
	Candidates(ctx context.Context, terms []string, max int) ([]string, error)

	// Close releases backend resources.
	Close() error
}
