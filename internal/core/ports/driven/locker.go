package driven

// FileLocker serializes critical sections across multiple instances of the
// host process sharing one data directory. The lock is held only for the
// duration of the body and is released on every exit path.
type FileLocker interface {
	// WithLock acquires the exclusive lock, runs body, and releases the
	// lock. Blocks until the lock is available.
	WithLock(body func() error) error

	// TryWithLock acquires the lock without blocking. Returns false
	// without running body when the lock is held elsewhere.
	TryWithLock(body func() error) (bool, error)
}
