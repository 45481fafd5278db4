package search

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	cferrors "centrefind/internal/errors"
)

// indexLock serializes rebuilds across processes with an advisory
// file lock beside the database. In-process serialization is handled
// by the store; this guards against a second centrefind process.
type indexLock struct {
	path  string
	flock *flock.Flock
}

func newIndexLock(dbPath string) *indexLock {
	lockPath := dbPath + ".lock"
	return &indexLock{
		path:  lockPath,
		flock: flock.New(lockPath),
	}
}

// TryLock attempts to acquire the lock without blocking.
func (l *indexLock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, cferrors.Wrap(err, cferrors.ErrCodeStorageIO, "cannot create lock directory")
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, cferrors.Wrap(err, cferrors.ErrCodeStorageIO, "cannot acquire rebuild lock")
	}
	return acquired, nil
}

func (l *indexLock) Unlock() error {
	return l.flock.Unlock()
}
