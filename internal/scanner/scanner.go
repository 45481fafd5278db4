// Package scanner walks filesystem roots and emits normalized path
// strings for indexing. The walk is names-only: no metadata is read
// beyond what traversal itself requires.
package scanner

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	cferrors "centrefind/internal/errors"
)

// Scanner enumerates filesystem entries beneath root directories.
type Scanner struct{}

// New creates a new Scanner.
func New() *Scanner {
	return &Scanner{}
}

// Walk recursively enumerates every entry (files and directories)
// beneath root and sends each normalized absolute path to out.
// Per-entry errors (permission denied, vanished files, unreadable
// links) skip the offending entry or subtree and continue.
//
// Walk returns an error only when the root itself is unusable; the
// caller decides whether that is fatal (it is not, for rebuilds).
func (s *Scanner) Walk(ctx context.Context, root string, out chan<- string) error {
	info, err := os.Stat(root)
	if err != nil {
		return cferrors.Wrapf(err, cferrors.ErrCodeRootNotFound, "root not accessible: %s", root)
	}
	if !info.IsDir() {
		return cferrors.Newf(cferrors.ErrCodeRootNotFound, "root is not a directory: %s", root)
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			// Unreadable entry or subtree: skip it, keep walking.
			slog.Debug("scan_skip", slog.String("path", path), slog.String("error", err.Error()))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// The root itself is not a record; everything beneath it is.
		if path == root {
			return nil
		}

		select {
		case out <- Normalize(path):
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})

	return walkErr
}

// Normalize converts a path to the single separator convention used
// throughout the index: absolute, cleaned, forward slashes.
func Normalize(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}
