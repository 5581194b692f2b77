package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuie0000/wordbook/internal/core/domain"
)

// inlineDispatcher delivers callbacks on the caller's goroutine so tests
// observe notifications deterministically.
type inlineDispatcher struct{}

func (inlineDispatcher) Sync(fn func()) { fn() }

func TestStateBinding_CompareAndSet(t *testing.T) {
	b := newStateBinding(inlineDispatcher{})
	require.Equal(t, domain.Uninitialized, b.current())

	assert.True(t, b.compareAndSet(domain.Initializing, domain.Uninitialized))
	assert.Equal(t, domain.Initializing, b.current())

	// Same target state is a no-op.
	assert.False(t, b.compareAndSet(domain.Initializing))

	// Predecessor mismatch leaves the state untouched.
	assert.False(t, b.compareAndSet(domain.Running, domain.NoDriver))
	assert.Equal(t, domain.Initializing, b.current())

	// Empty predecessor set is unconditional.
	assert.True(t, b.compareAndSet(domain.Running))
	assert.Equal(t, domain.Running, b.current())
}

func TestStateBinding_ObserversSeeTransitions(t *testing.T) {
	b := newStateBinding(inlineDispatcher{})

	type transition struct{ from, to domain.LifecycleState }
	var seen []transition
	cancel := b.observe(func(from, to domain.LifecycleState) {
		seen = append(seen, transition{from, to})
	})

	b.compareAndSet(domain.Initializing, domain.Uninitialized)
	b.compareAndSet(domain.Initializing) // rejected, must not notify
	b.compareAndSet(domain.Running, domain.Initializing)

	require.Len(t, seen, 2)
	assert.Equal(t, transition{domain.Uninitialized, domain.Initializing}, seen[0])
	assert.Equal(t, transition{domain.Initializing, domain.Running}, seen[1])

	cancel()
	b.compareAndSet(domain.NoDriver)
	assert.Len(t, seen, 2)
}

func TestStateBinding_ConcurrentTransitionsObservedInOrder(t *testing.T) {
	b := newStateBinding(inlineDispatcher{})

	type transition struct{ from, to domain.LifecycleState }
	var seen []transition
	cancel := b.observe(func(from, to domain.LifecycleState) {
		seen = append(seen, transition{from, to})
	})
	defer cancel()

	// Two goroutines hammer unconditional transitions; every notification
	// must continue exactly where the previous one left off.
	var wg sync.WaitGroup
	for _, to := range []domain.LifecycleState{domain.Running, domain.NoDriver} {
		wg.Add(1)
		go func(to domain.LifecycleState) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				b.compareAndSet(to)
			}
		}(to)
	}
	wg.Wait()

	require.NotEmpty(t, seen)
	assert.Equal(t, domain.Uninitialized, seen[0].from)
	for i := 1; i < len(seen); i++ {
		assert.Equal(t, seen[i-1].to, seen[i].from, "transition %d out of order", i)
	}
}

func TestStateBinding_CancelIsIdempotent(t *testing.T) {
	b := newStateBinding(inlineDispatcher{})

	calls := 0
	cancel := b.observe(func(_, _ domain.LifecycleState) { calls++ })
	cancel()
	cancel()

	b.compareAndSet(domain.Initializing)
	assert.Zero(t, calls)
}

func TestPublisher_AssignsEventIdentity(t *testing.T) {
	p := newPublisher(inlineDispatcher{})

	var got []domain.WordbookEvent
	cancel := p.subscribe(func(e domain.WordbookEvent) { got = append(got, e) })
	defer cancel()

	p.publish(domain.WordbookEvent{Kind: domain.EventRemoved, WordIDs: []int64{1}})
	p.publish(domain.WordbookEvent{Kind: domain.EventRemoved, WordIDs: []int64{2}})

	require.Len(t, got, 2)
	assert.NotEmpty(t, got[0].ID)
	assert.NotEmpty(t, got[1].ID)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestPublisher_UnsubscribeStopsDelivery(t *testing.T) {
	p := newPublisher(inlineDispatcher{})

	calls := 0
	cancel := p.subscribe(func(domain.WordbookEvent) { calls++ })
	p.publish(domain.WordbookEvent{Kind: domain.EventAdded})
	cancel()
	p.publish(domain.WordbookEvent{Kind: domain.EventAdded})

	assert.Equal(t, 1, calls)
}
