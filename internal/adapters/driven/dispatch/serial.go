// Package dispatch provides the serialized callback queue used for all
// observer notifications. One worker goroutine executes submitted callbacks
// in order, so observers never see concurrent or reordered invocations.
package dispatch

import (
	"sync"

	"github.com/xuie0000/wordbook/internal/core/ports/driven"
)

// Ensure both implementations satisfy the port.
var (
	_ driven.Dispatcher = (*Serial)(nil)
	_ driven.Dispatcher = (*Inline)(nil)
)

type job struct {
	fn   func()
	done chan struct{}
}

// Serial is a single-worker dispatch queue.
type Serial struct {
	mu     sync.Mutex
	closed bool
	jobs   chan job
	worker sync.WaitGroup
}

// NewSerial starts the worker goroutine and returns the queue.
func NewSerial() *Serial {
	s := &Serial{jobs: make(chan job, 16)}
	s.worker.Add(1)
	go s.run()
	return s
}

func (s *Serial) run() {
	defer s.worker.Done()
	for j := range s.jobs {
		j.fn()
		close(j.done)
	}
}

// Sync runs fn on the queue and blocks until it has returned. After Close,
// fn runs on the caller's goroutine so that late notifications are still
// delivered synchronously.
func (s *Serial) Sync(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	j := job{fn: fn, done: make(chan struct{})}
	s.jobs <- j
	s.mu.Unlock()
	<-j.done
}

// Close stops the worker after draining queued callbacks.
func (s *Serial) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.jobs)
	}
	s.mu.Unlock()
	s.worker.Wait()
	return nil
}

// Inline runs callbacks directly on the caller's goroutine, serialized by
// a mutex. Intended for tests that need deterministic delivery.
type Inline struct {
	mu sync.Mutex
}

// Sync runs fn immediately.
func (i *Inline) Sync(fn func()) {
	i.mu.Lock()
	defer i.mu.Unlock()
	fn()
}
