// Package migrate performs the one-time transfer of a wordbook database
// from its legacy storage location into the current data directory.
//
// Migration is best-effort by design: every failure is logged and
// swallowed, and service startup proceeds regardless. The store only
// degrades to "no data" by finding no pre-existing file, never by a
// migration error.
package migrate

import (
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/xuie0000/wordbook/internal/adapters/driven/lockfile"
	"github.com/xuie0000/wordbook/internal/logger"
)

// legacyDirName is the historical default directory under the user home,
// from before the wordbook got its own managed data directory.
const legacyDirName = ".translation"

// Migrator copies a legacy database file into the current location.
// Callers run it inside the data directory's file lock, before any driver
// or schema work.
type Migrator struct {
	currentDB string
	lockName  string

	// legacyDir overrides the default lookup. Used by tests.
	legacyDir string
}

// New creates a migrator targeting the current database file. lockName is
// the lock file name used beside both the current and the legacy database.
func New(currentDB, lockName string) *Migrator {
	return &Migrator{currentDB: currentDB, lockName: lockName}
}

// SetLegacyDir pins the legacy directory instead of the default lookup.
func (m *Migrator) SetLegacyDir(dir string) {
	m.legacyDir = dir
}

// Run performs the migration. A no-op when the current database file
// already exists (already migrated, or a fresh install that created one).
func (m *Migrator) Run() {
	if _, err := os.Stat(m.currentDB); err == nil {
		return
	}

	legacyDir := m.legacyDir
	if legacyDir == "" {
		legacyDir = defaultLegacyDir()
	}
	if legacyDir == "" {
		return
	}

	legacyDB := filepath.Join(legacyDir, filepath.Base(m.currentDB))
	if _, err := os.Stat(legacyDB); err != nil {
		return
	}

	logger.Info("migrate: found legacy wordbook at %s", legacyDB)

	// Best-effort secondary protection: copy under the legacy directory's
	// own lock when we can take it, unprotected otherwise. The body always
	// returns nil so a lock error never aliases a copy error; a copy that
	// failed under the lock is final, not retried unprotected.
	var copyErr error
	guard := lockfile.New(filepath.Join(legacyDir, m.lockName))
	locked, lockErr := guard.TryWithLock(func() error {
		copyErr = copyFile(legacyDB, m.currentDB)
		return nil
	})
	if lockErr != nil || !locked {
		logger.Warn("migrate: legacy lock unavailable, copying unprotected")
		copyErr = copyFile(legacyDB, m.currentDB)
	}

	if copyErr != nil {
		logger.Warn("migrate: copying legacy wordbook: %v", copyErr)
		// Do not leave a partial database for schema creation to choke on.
		os.Remove(m.currentDB)
		return
	}

	logger.Info("migrate: legacy wordbook migrated to %s", m.currentDB)
}

// defaultLegacyDir resolves the historical storage directory: ~/.translation,
// or on Linux $XDG_DATA_HOME/translation when the default does not exist.
func defaultLegacyDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, legacyDirName)
	if _, err := os.Stat(dir); err == nil {
		return dir
	}
	if runtime.GOOS == "linux" {
		if data := os.Getenv("XDG_DATA_HOME"); data != "" {
			alt := filepath.Join(data, "translation")
			if _, err := os.Stat(alt); err == nil {
				return alt
			}
		}
	}
	return dir
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
