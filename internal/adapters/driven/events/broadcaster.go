// Package events fans session events out to in-process subscribers.
package events

import (
	"sync"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
)

// Ensure Broadcaster implements the interface.
var _ driven.SessionEventPublisher = (*Broadcaster)(nil)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 8

// Broadcaster delivers each published event to every subscriber.
// A subscriber whose buffer is full misses the event; Publish never blocks.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[int]chan domain.SessionEvent
	nextID int
}

// NewBroadcaster creates a broadcaster with no subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan domain.SessionEvent)}
}

// Subscribe registers a listener. The returned cancel func unregisters it
// and closes the channel.
func (b *Broadcaster) Subscribe() (<-chan domain.SessionEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan domain.SessionEvent, DefaultBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish sends the event to all subscribers without blocking.
func (b *Broadcaster) Publish(event domain.SessionEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
