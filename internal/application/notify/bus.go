package notify

import (
	"sync"

	"github.com/salu-0/rubbereco-api/internal/domain"
)

// HandoffBus is the typed publish/subscribe channel between the assign action
// and the assignment view. Publishing is one-shot and fire-and-forget: no
// acknowledgment, no retry, and subscribers mounted later miss the event
// (they read the persisted handoff slot instead).
type HandoffBus struct {
	mu   sync.Mutex
	subs map[int]func(domain.AssignmentHandoff)
	next int
}

func NewHandoffBus() *HandoffBus {
	return &HandoffBus{subs: make(map[int]func(domain.AssignmentHandoff))}
}

// Subscribe registers a handler for future handoffs. The returned function
// cancels the subscription and is safe to call repeatedly.
func (b *HandoffBus) Subscribe(fn func(domain.AssignmentHandoff)) func() {
	b.mu.Lock()
	key := b.next
	b.next++
	b.subs[key] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, key)
		b.mu.Unlock()
	}
}

// Publish delivers the handoff synchronously to every current subscriber.
func (b *HandoffBus) Publish(h domain.AssignmentHandoff) {
	b.mu.Lock()
	handlers := make([]func(domain.AssignmentHandoff), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(h)
	}
}
