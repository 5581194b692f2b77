package driven

import (
	"context"

	"github.com/xuie0000/wordbook/internal/core/domain"
)

// WordStore provides persistence for word entries.
//
// Mutating operations return typed errors: domain.ErrAlreadyExists for
// uniqueness violations and domain.ErrStorage (wrapped) for anything else.
// Read operations never fail: storage errors are logged by the
// implementation and degraded to an empty/false/not-found result.
type WordStore interface {
	// CreateSchema creates the wordbook table and its unique index if
	// they do not already exist. Safe to call more than once.
	CreateSchema(ctx context.Context) error

	// Insert adds a new entry and returns its generated identity.
	// The identity is also assigned onto the entry. CreatedAt is fixed
	// at this point if unset.
	Insert(ctx context.Context, entry *domain.WordEntry) (int64, error)

	// Update rewrites the mutable fields (phonetic, explanation, tags)
	// of the row matching the entry's identity. Returns whether a row
	// was affected. Fails with domain.ErrMissingID when the entry has
	// no identity.
	Update(ctx context.Context, entry *domain.WordEntry) (bool, error)

	// Remove deletes the row with the given identity, if any.
	Remove(ctx context.Context, id int64) error

	// RemoveAll deletes every row whose identity is in ids.
	RemoveAll(ctx context.Context, ids []int64) error

	// FindID returns the identity of the row matching the given word
	// (case-insensitive) and language pair. The word is trimmed first;
	// a blank word returns not-found without touching storage.
	FindID(ctx context.Context, word string, src, dst domain.Lang) (int64, bool)

	// List returns all entries ordered by creation time, newest first.
	List(ctx context.Context) []*domain.WordEntry

	// HasAny reports whether the store contains at least one entry.
	HasAny(ctx context.Context) bool

	// Close releases the underlying database handle.
	Close() error
}
