// Package bus is the in-process broadcast point that keeps independent
// views consistent without shared state. Publish runs every handler
// synchronously on the calling goroutine, in subscription order, with
// no payload: subscribers re-fetch rather than receive deltas.
package bus

import "sync"

const TopicOrdersUpdated = "orders.updated"

type Handler func()

type Token struct {
	topic string
	id    int
}

type sub struct {
	id int
	fn Handler
}

type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string][]sub
}

func New() *Bus {
	return &Bus{subs: map[string][]sub{}}
}

func (b *Bus) Subscribe(topic string, fn Handler) Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs[topic] = append(b.subs[topic], sub{id: b.nextID, fn: fn})
	return Token{topic: topic, id: b.nextID}
}

func (b *Bus) Unsubscribe(t Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[t.topic]
	for i, s := range list {
		if s.id == t.id {
			b.subs[t.topic] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Publish notifies everyone registered at call time. The subscriber
// list is snapshotted under the lock so a handler may unsubscribe
// itself without deadlocking.
func (b *Bus) Publish(topic string) {
	b.mu.Lock()
	list := make([]sub, len(b.subs[topic]))
	copy(list, b.subs[topic])
	b.mu.Unlock()

	for _, s := range list {
		s.fn()
	}
}
