package driving

import (
	"context"

	"github.com/xuie0000/wordbook/internal/core/domain"
)

// EventHandler receives wordbook change events.
type EventHandler func(event domain.WordbookEvent)

// StateHandler receives lifecycle state changes.
type StateHandler func(old, new domain.LifecycleState)

// Wordbook is the public surface of the word-collection service.
//
// The service is safe to call from multiple goroutines before, during and
// after initialization; data operations fail with domain.ErrNotInitialized
// unless the lifecycle state is RUNNING.
type Wordbook interface {
	// AsyncInit starts asynchronous initialization: legacy migration,
	// driver lookup and schema creation. Idempotent; duplicate requests
	// while initializing or running are no-ops.
	AsyncInit()

	// RequestDriverDownload asks the service to download the database
	// driver artifact and, on success, finish initialization. Returns
	// whether the request was accepted given the current state (only
	// NO_DRIVER accepts it).
	RequestDriverDownload(ctx context.Context) bool

	// NotifyDriverInstalled tells the service a driver artifact has been
	// installed by a sibling process. From NO_DRIVER it re-enters
	// initialization; in any other state it is a no-op.
	NotifyDriverInstalled()

	// State returns the current lifecycle state.
	State() domain.LifecycleState

	// IsInitialized reports whether the state is RUNNING.
	IsInitialized() bool

	// ObserveState registers a lifecycle observer. The returned cancel
	// function removes it. Callbacks arrive on the serialized dispatch
	// queue, only for transitions that actually changed the state.
	ObserveState(h StateHandler) (cancel func())

	// Subscribe registers a change-event observer. The returned cancel
	// function removes it.
	Subscribe(h EventHandler) (cancel func())

	// CanAddToWordbook reports whether text is a candidate entry.
	CanAddToWordbook(text string) bool

	// AddWord inserts an entry with dedup semantics: on a uniqueness
	// violation the identity of the pre-existing matching row is
	// returned instead of an error.
	AddWord(ctx context.Context, entry *domain.WordEntry) (int64, error)

	// InsertWord inserts an entry, surfacing uniqueness violations as
	// domain.ErrAlreadyExists.
	InsertWord(ctx context.Context, entry *domain.WordEntry) (int64, error)

	// UpdateWord rewrites an entry's mutable fields; reports whether a
	// row changed.
	UpdateWord(ctx context.Context, entry *domain.WordEntry) (bool, error)

	// RemoveWord deletes one entry by identity.
	RemoveWord(ctx context.Context, id int64) error

	// RemoveWords deletes a batch of entries by identity.
	RemoveWords(ctx context.Context, ids []int64) error

	// FindWordID looks up the identity for a word and language pair.
	FindWordID(ctx context.Context, word string, src, dst domain.Lang) (int64, bool)

	// Words returns all entries, newest first.
	Words(ctx context.Context) []*domain.WordEntry

	// HasWords reports whether any entry exists.
	HasWords(ctx context.Context) bool

	// Close shuts the service down and releases the store.
	Close() error
}
