package lockfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard(t *testing.T) *Guard {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "wordbook.lock"))
}

func TestGuard_WithLockRunsBody(t *testing.T) {
	g := newGuard(t)

	ran := false
	require.NoError(t, g.WithLock(func() error {
		ran = true
		return nil
	}))
	assert.True(t, ran)

	// The lock file is created on first acquisition.
	_, err := os.Stat(g.Path())
	assert.NoError(t, err)
}

func TestGuard_WithLockPropagatesBodyError(t *testing.T) {
	g := newGuard(t)

	boom := errors.New("boom")
	assert.ErrorIs(t, g.WithLock(func() error { return boom }), boom)

	// The lock is released after a failing body.
	require.NoError(t, g.WithLock(func() error { return nil }))
}

func TestGuard_TryWithLock(t *testing.T) {
	g := newGuard(t)

	ran := false
	ok, err := g.TryWithLock(func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, ran)
}

func TestGuard_TryWithLockContended(t *testing.T) {
	g := newGuard(t)

	// Hold the lock from a second guard over the same file. Advisory
	// locks are per open file description, so two guards in one process
	// still contend.
	holder := New(g.Path())
	acquired := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- holder.WithLock(func() error {
			close(acquired)
			<-release
			return nil
		})
	}()
	<-acquired

	ok, err := g.TryWithLock(func() error {
		t.Error("body must not run while the lock is held elsewhere")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, ok)

	close(release)
	require.NoError(t, <-done)

	// Released: the next attempt succeeds.
	ok, err = g.TryWithLock(func() error { return nil })
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGuard_WithLockBlocksUntilReleased(t *testing.T) {
	g := newGuard(t)

	holder := New(g.Path())
	acquired := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = holder.WithLock(func() error {
			close(acquired)
			<-release
			return nil
		})
	}()
	<-acquired

	entered := make(chan struct{})
	go func() {
		_ = g.WithLock(func() error {
			close(entered)
			return nil
		})
	}()

	select {
	case <-entered:
		t.Fatal("second lock acquired while the first was held")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("second lock never acquired after release")
	}
}

func TestGuard_WithLockFailsOnUnopenablePath(t *testing.T) {
	g := New(filepath.Join(t.TempDir(), "missing", "dir", "wordbook.lock"))

	err := g.WithLock(func() error {
		t.Error("body must not run")
		return nil
	})
	assert.Error(t, err)

	_, err = g.TryWithLock(func() error { return nil })
	assert.Error(t, err)
}
