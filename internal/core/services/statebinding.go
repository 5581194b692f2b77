package services

import (
	"slices"
	"sync"

	"github.com/xuie0000/wordbook/internal/core/domain"
	"github.com/xuie0000/wordbook/internal/core/ports/driven"
	"github.com/xuie0000/wordbook/internal/core/ports/driving"
)

type stateObserver struct {
	id int
	fn driving.StateHandler
}

// stateBinding is the thread-safe, externally observable lifecycle state.
// Transitions are compare-and-set guarded and observer callbacks are
// marshaled onto the serialized dispatch queue, decoupled from whichever
// goroutine caused the transition.
type stateBinding struct {
	dispatcher driven.Dispatcher

	// notifyMu is held from the state write through the dispatch, so
	// successive transitions reach observers in the order they happened.
	// Separate from mu so observers can still read the current state.
	notifyMu sync.Mutex

	mu        sync.Mutex
	state     domain.LifecycleState
	nextID    int
	observers []stateObserver
}

func newStateBinding(dispatcher driven.Dispatcher) *stateBinding {
	return &stateBinding{dispatcher: dispatcher, state: domain.Uninitialized}
}

// current returns the state at this instant.
func (b *stateBinding) current() domain.LifecycleState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// compareAndSet moves to the target state when the current state is in the
// accepted predecessor set; an empty set means unconditional. Returns
// whether the transition happened. Observers are only notified for
// transitions that actually changed the state.
func (b *stateBinding) compareAndSet(to domain.LifecycleState, from ...domain.LifecycleState) bool {
	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()

	b.mu.Lock()
	old := b.state
	if old == to {
		b.mu.Unlock()
		return false
	}
	if len(from) > 0 && !slices.Contains(from, old) {
		b.mu.Unlock()
		return false
	}
	b.state = to
	observers := slices.Clone(b.observers)
	b.mu.Unlock()

	if len(observers) > 0 {
		b.dispatcher.Sync(func() {
			for _, o := range observers {
				o.fn(old, to)
			}
		})
	}
	return true
}

// observe registers a state observer; the returned function removes it.
func (b *stateBinding) observe(h driving.StateHandler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.observers = append(b.observers, stateObserver{id: id, fn: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.observers = slices.DeleteFunc(b.observers, func(o stateObserver) bool {
			return o.id == id
		})
	}
}
