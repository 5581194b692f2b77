package domain

// EventKind discriminates wordbook change events.
type EventKind string

const (
	// EventAdded is published after a word entry is inserted.
	EventAdded EventKind = "added"

	// EventUpdated is published after a word entry's mutable fields change.
	EventUpdated EventKind = "updated"

	// EventRemoved is published after a removal request, listing the
	// requested identities even when no rows matched.
	EventRemoved EventKind = "removed"
)

// WordbookEvent describes a change to the wordbook. Events are delivered
// to subscribers of the service instance that performed the mutation, on
// its serialized dispatch queue. ID is assigned by the publisher.
type WordbookEvent struct {
	ID   string
	Kind EventKind

	// Words carries the affected entries for added/updated events.
	Words []*WordEntry

	// WordIDs carries the affected identities for removed events.
	WordIDs []int64
}
