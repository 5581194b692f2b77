package services

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/xuie0000/wordbook/internal/core/domain"
	"github.com/xuie0000/wordbook/internal/core/ports/driven"
	"github.com/xuie0000/wordbook/internal/core/ports/driving"
)

type subscriber struct {
	id int
	fn driving.EventHandler
}

// publisher fans change events out to subscribers. Delivery is marshaled
// onto the serialized dispatch queue and synchronously awaited, so a
// mutating call does not return until subscribers have been invoked.
type publisher struct {
	dispatcher driven.Dispatcher

	mu     sync.Mutex
	nextID int
	subs   []subscriber
}

func newPublisher(dispatcher driven.Dispatcher) *publisher {
	return &publisher{dispatcher: dispatcher}
}

// subscribe registers a handler; the returned function removes it.
func (p *publisher) subscribe(h driving.EventHandler) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs = append(p.subs, subscriber{id: id, fn: h})
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.subs = slices.DeleteFunc(p.subs, func(s subscriber) bool {
			return s.id == id
		})
	}
}

// publish assigns the event identity and delivers it to every subscriber.
func (p *publisher) publish(event domain.WordbookEvent) {
	event.ID = uuid.NewString()

	p.mu.Lock()
	subs := slices.Clone(p.subs)
	p.mu.Unlock()

	if len(subs) == 0 {
		return
	}
	p.dispatcher.Sync(func() {
		for _, s := range subs {
			s.fn(event)
		}
	})
}
