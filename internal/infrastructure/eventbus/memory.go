package eventbus

import (
	"context"
	"sync"

	"github.com/odhiambo/posflow/internal/domain/event"
)

// MemoryBus is an in-process event.Bus used in tests and single-node
// deployments without Redis.
type MemoryBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan event.Envelope
}

// NewMemoryBus creates an empty in-memory bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string]map[int]chan event.Envelope)}
}

func (b *MemoryBus) Publish(_ context.Context, topic string, env event.Envelope) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[topic] {
		// Slow subscribers drop events rather than block the publisher;
		// they reconcile by re-fetching.
		select {
		case ch <- env:
		default:
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(_ context.Context, topic string) (<-chan event.Envelope, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan event.Envelope, 16)
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan event.Envelope)
	}
	b.subs[topic][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[topic][id]; ok {
			delete(b.subs[topic], id)
			close(sub)
		}
	}
	return ch, cancel
}
