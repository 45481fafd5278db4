//go:build !cgosqlite

package store

// Default build: pure Go SQLite via modernc.org/sqlite. No C compiler
// needed, FTS5 compiled in, cross-compiles everywhere.
//
// Build command:
//   go build ./...

import (
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver to use.
const DriverName = "sqlite"
