//go:build cgosqlite

package store

// CGO build: mattn/go-sqlite3 links the system SQLite, which is faster
// on large rebuilds. FTS5 needs the matching build tag; without it the
// accelerator probe fails and the store degrades to direct scans.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "cgosqlite sqlite_fts5" ./...

import (
	_ "github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver to use.
const DriverName = "sqlite3"
