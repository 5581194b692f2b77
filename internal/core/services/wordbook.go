package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/xuie0000/wordbook/internal/core/domain"
	"github.com/xuie0000/wordbook/internal/core/ports/driven"
	"github.com/xuie0000/wordbook/internal/core/ports/driving"
	"github.com/xuie0000/wordbook/internal/logger"
)

// Ensure WordbookService implements the interface.
var _ driving.Wordbook = (*WordbookService)(nil)

// File names inside the data directory. The lock file is a zero-length
// marker, never parsed, only locked.
const (
	DatabaseFile = "wordbook.db"
	LockFile     = "wordbook.lock"
)

// Config is the injected service configuration. Tests construct
// independent instances pointed at isolated temporary directories.
type Config struct {
	// DataDir is the managed data directory holding the database file,
	// the lock file and any downloaded driver artifact.
	DataDir string

	// DriverURL, DriverSHA1 and DriverVersion locate and pin the
	// downloadable driver artifact.
	DriverURL     string
	DriverSHA1    string
	DriverVersion string
}

// DatabasePath returns the database file path.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, DatabaseFile)
}

// LockPath returns the lock file path.
func (c Config) LockPath() string {
	return filepath.Join(c.DataDir, LockFile)
}

// Deps are the driven ports the service orchestrates.
type Deps struct {
	// Locker guards cross-process critical sections over DataDir.
	Locker driven.FileLocker

	// Provisioner locates or downloads the database driver.
	Provisioner driven.DriverProvisioner

	// Dispatcher is the serialized queue for all observer callbacks.
	Dispatcher driven.Dispatcher

	// OpenStore opens the word store through a located driver.
	OpenStore func(handle driven.DriverHandle) (driven.WordStore, error)

	// Migrator performs the one-time legacy migration. Optional.
	Migrator driven.Migrator
}

// WordbookService is the lifecycle-managed persistence service backing the
// word collection. It is safe to call from multiple goroutines before,
// during and after initialization.
type WordbookService struct {
	cfg  Config
	deps Deps

	state  *stateBinding
	events *publisher

	// mu serializes the one-time store setup and guards the handle.
	mu    sync.Mutex
	store driven.WordStore
}

// New creates a wordbook service. Call AsyncInit to bring it up.
func New(cfg Config, deps Deps) *WordbookService {
	return &WordbookService{
		cfg:    cfg,
		deps:   deps,
		state:  newStateBinding(deps.Dispatcher),
		events: newPublisher(deps.Dispatcher),
	}
}

// State returns the current lifecycle state.
func (s *WordbookService) State() domain.LifecycleState {
	return s.state.current()
}

// IsInitialized reports whether the state is RUNNING.
func (s *WordbookService) IsInitialized() bool {
	return s.state.current() == domain.Running
}

// ObserveState registers a lifecycle observer.
func (s *WordbookService) ObserveState(h driving.StateHandler) func() {
	return s.state.observe(h)
}

// Subscribe registers a change-event observer.
func (s *WordbookService) Subscribe(h driving.EventHandler) func() {
	return s.events.subscribe(h)
}

// CanAddToWordbook reports whether text is a candidate entry.
func (s *WordbookService) CanAddToWordbook(text string) bool {
	return domain.CanAddToWordbook(text)
}

// AsyncInit starts asynchronous initialization. Idempotent: duplicate
// requests while initializing or running are no-ops, as are requests from
// NO_DRIVER (which needs an explicit download trigger instead).
func (s *WordbookService) AsyncInit() {
	if !s.state.compareAndSet(domain.Initializing, domain.Uninitialized, domain.InitializationError) {
		return
	}
	go s.initialize()
}

// NotifyDriverInstalled re-enters initialization after a sibling process
// installed the driver artifact. Only meaningful from NO_DRIVER.
func (s *WordbookService) NotifyDriverInstalled() {
	if !s.state.compareAndSet(domain.Initializing, domain.NoDriver) {
		return
	}
	go s.initialize()
}

// initialize runs the initialization sequence. It must be entered with the
// state already set to INITIALIZING. Failures are converted into a state
// transition plus a log entry, never an escaping panic.
func (s *WordbookService) initialize() {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("wordbook: initialization panic: %v", r)
			s.state.compareAndSet(domain.InitializationError, domain.Initializing)
		}
	}()

	ctx := context.Background()

	// One-time legacy migration, serialized across processes.
	if s.deps.Migrator != nil {
		if err := s.deps.Locker.WithLock(func() error {
			s.deps.Migrator.Run()
			return nil
		}); err != nil {
			// Migration is best-effort; a lock failure must not block
			// startup either.
			logger.Warn("wordbook: migration lock: %v", err)
		}
	}

	handle, err := s.deps.Provisioner.Locate(ctx)
	if errors.Is(err, domain.ErrNoDriver) {
		logger.Info("wordbook: no usable driver, download required")
		s.state.compareAndSet(domain.NoDriver, domain.Initializing)
		return
	}
	if err != nil {
		logger.Warn("wordbook: locating driver: %v", err)
		s.state.compareAndSet(domain.InitializationError, domain.Initializing)
		return
	}

	if err := s.openStoreOnce(ctx, handle); err != nil {
		logger.Warn("wordbook: %v", err)
		s.state.compareAndSet(domain.InitializationError, domain.Initializing)
		return
	}

	s.state.compareAndSet(domain.Running, domain.Initializing)
	logger.Info("wordbook: running")
}

// openStoreOnce opens the store and creates the schema exactly once, no
// matter how many initialization attempts race here.
func (s *WordbookService) openStoreOnce(ctx context.Context, handle driven.DriverHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		return nil
	}
	store, err := s.deps.OpenStore(handle)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	if err := store.CreateSchema(ctx); err != nil {
		store.Close()
		return fmt.Errorf("creating schema: %w", err)
	}
	s.store = store
	return nil
}

// RequestDriverDownload asks the service to download the driver artifact
// and finish initialization. Accepted only from NO_DRIVER; duplicate
// requests while a download is in flight are rejected.
func (s *WordbookService) RequestDriverDownload(ctx context.Context) bool {
	if !s.state.compareAndSet(domain.DownloadingDriver, domain.NoDriver) {
		return false
	}
	go s.downloadAndInit(ctx)
	return true
}

func (s *WordbookService) downloadAndInit(ctx context.Context) {
	err := s.deps.Provisioner.Download(ctx)
	switch {
	case err == nil:
		if s.state.compareAndSet(domain.Initializing, domain.DownloadingDriver) {
			s.initialize()
		}
	case errors.Is(err, domain.ErrDownloadCancelled):
		logger.Info("wordbook: driver download cancelled")
		s.state.compareAndSet(domain.NoDriver, domain.DownloadingDriver)
	default:
		logger.Warn("wordbook: driver download failed: %v", err)
		s.state.compareAndSet(domain.NoDriver, domain.DownloadingDriver)
	}
}

// checkRunning is the fail-fast guard in front of every data operation.
func (s *WordbookService) checkRunning() (driven.WordStore, error) {
	if s.state.current() != domain.Running {
		return nil, domain.ErrNotInitialized
	}
	s.mu.Lock()
	store := s.store
	s.mu.Unlock()
	if store == nil {
		return nil, domain.ErrNotInitialized
	}
	return store, nil
}

// AddWord inserts an entry with dedup semantics: a uniqueness violation is
// not a user-visible error, the identity of the pre-existing matching row
// is returned instead. An "added" event is published only for an actual
// insert.
func (s *WordbookService) AddWord(ctx context.Context, entry *domain.WordEntry) (int64, error) {
	store, err := s.checkRunning()
	if err != nil {
		return 0, err
	}

	id, err := store.Insert(ctx, entry)
	if errors.Is(err, domain.ErrAlreadyExists) {
		existing, ok := store.FindID(ctx, entry.Word, entry.SourceLang, entry.TargetLang)
		if !ok {
			return 0, fmt.Errorf("%w: duplicate row not found on lookup", domain.ErrStorage)
		}
		return existing, nil
	}
	if err != nil {
		return 0, err
	}

	s.events.publish(domain.WordbookEvent{Kind: domain.EventAdded, Words: []*domain.WordEntry{entry}})
	return id, nil
}

// InsertWord inserts an entry, surfacing uniqueness violations as
// domain.ErrAlreadyExists.
func (s *WordbookService) InsertWord(ctx context.Context, entry *domain.WordEntry) (int64, error) {
	store, err := s.checkRunning()
	if err != nil {
		return 0, err
	}

	id, err := store.Insert(ctx, entry)
	if err != nil {
		return 0, err
	}

	s.events.publish(domain.WordbookEvent{Kind: domain.EventAdded, Words: []*domain.WordEntry{entry}})
	return id, nil
}

// UpdateWord rewrites an entry's mutable fields. An "updated" event is
// published only when a row actually changed.
func (s *WordbookService) UpdateWord(ctx context.Context, entry *domain.WordEntry) (bool, error) {
	store, err := s.checkRunning()
	if err != nil {
		return false, err
	}

	changed, err := store.Update(ctx, entry)
	if err != nil {
		return false, err
	}
	if changed {
		s.events.publish(domain.WordbookEvent{Kind: domain.EventUpdated, Words: []*domain.WordEntry{entry}})
	}
	return changed, nil
}

// RemoveWord deletes one entry. A "removed" event is published even when
// no row matched; downstream observers depend on that.
func (s *WordbookService) RemoveWord(ctx context.Context, id int64) error {
	store, err := s.checkRunning()
	if err != nil {
		return err
	}

	if err := store.Remove(ctx, id); err != nil {
		return err
	}
	s.events.publish(domain.WordbookEvent{Kind: domain.EventRemoved, WordIDs: []int64{id}})
	return nil
}

// RemoveWords deletes a batch of entries. The "removed" event is published
// unconditionally, including for an empty batch.
func (s *WordbookService) RemoveWords(ctx context.Context, ids []int64) error {
	store, err := s.checkRunning()
	if err != nil {
		return err
	}

	if err := store.RemoveAll(ctx, ids); err != nil {
		return err
	}
	s.events.publish(domain.WordbookEvent{Kind: domain.EventRemoved, WordIDs: ids})
	return nil
}

// FindWordID looks up the identity for a word and language pair. Returns
// not-found when the service is not running.
func (s *WordbookService) FindWordID(ctx context.Context, word string, src, dst domain.Lang) (int64, bool) {
	store, err := s.checkRunning()
	if err != nil {
		return 0, false
	}
	return store.FindID(ctx, word, src, dst)
}

// Words returns all entries, newest first. Empty when not running.
func (s *WordbookService) Words(ctx context.Context) []*domain.WordEntry {
	store, err := s.checkRunning()
	if err != nil {
		return nil
	}
	return store.List(ctx)
}

// HasWords reports whether any entry exists. False when not running.
func (s *WordbookService) HasWords(ctx context.Context) bool {
	store, err := s.checkRunning()
	if err != nil {
		return false
	}
	return store.HasAny(ctx)
}

// Close releases the store handle. The service cannot be restarted after
// closing.
func (s *WordbookService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}
