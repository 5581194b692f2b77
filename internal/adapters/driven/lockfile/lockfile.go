// Package lockfile implements cross-process mutual exclusion over a
// dedicated lock file using OS advisory locks.
//
// The lock file is a zero-length marker beside the database file. It is
// never parsed, only locked. Multiple instances of the host process sharing
// one data directory use it to serialize driver downloads, driver-artifact
// existence checks and legacy migration.
package lockfile

import (
	"fmt"
	"os"

	"github.com/xuie0000/wordbook/internal/core/ports/driven"
)

// Ensure Guard implements the interface.
var _ driven.FileLocker = (*Guard)(nil)

// Guard locks a single lock file. The zero value is not usable; create
// guards with New.
type Guard struct {
	path string
}

// New creates a guard over the lock file at path. The file is created on
// first acquisition if absent.
func New(path string) *Guard {
	return &Guard{path: path}
}

// Path returns the lock file path.
func (g *Guard) Path() string {
	return g.path
}

// WithLock acquires the exclusive lock, runs body, and releases the lock
// on every exit path. Blocks until the lock is available.
func (g *Guard) WithLock(body func() error) error {
	f, err := os.OpenFile(g.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("opening lock file: %w", err)
	}
	defer f.Close()

	if err := lockFile(f, true); err != nil {
		return fmt.Errorf("locking %s: %w", g.path, err)
	}
	defer unlockFile(f) //nolint:errcheck // close releases the lock regardless

	return body()
}

// TryWithLock acquires the lock without blocking. Returns false without
// running body when the lock is held by another process.
func (g *Guard) TryWithLock(body func() error) (bool, error) {
	f, err := os.OpenFile(g.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return false, fmt.Errorf("opening lock file: %w", err)
	}
	defer f.Close()

	if err := lockFile(f, false); err != nil {
		if isContended(err) {
			return false, nil
		}
		return false, fmt.Errorf("locking %s: %w", g.path, err)
	}
	defer unlockFile(f) //nolint:errcheck // close releases the lock regardless

	return true, body()
}
