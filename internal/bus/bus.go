// Package bus is a small in-process publish/subscribe channel keyed by
// topic. It replaces window-level broadcast events (close-all-menus,
// tasks-changed) with explicit subscriptions that components tear down when
// they go away.
package bus

import "sync"

// Event is a published message.
type Event struct {
	Topic   string
	Payload any
}

// Bus fans events out to topic subscribers.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe returns a buffered channel receiving events for topic.
func (b *Bus) Subscribe(topic string) chan Event {
	ch := make(chan Event, 64)
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan Event]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(topic string, ch chan Event) {
	b.mu.Lock()
	if set, ok := b.subs[topic]; ok {
		if _, ok := set[ch]; ok {
			delete(set, ch)
			close(ch)
		}
	}
	b.mu.Unlock()
}

// Publish delivers an event to every subscriber of topic. Sends never
// block: a subscriber that has fallen behind drops the event.
func (b *Bus) Publish(topic string, payload any) {
	e := Event{Topic: topic, Payload: payload}
	b.mu.RLock()
	for ch := range b.subs[topic] {
		select {
		case ch <- e:
		default:
			// subscriber is behind; drop to avoid blocking the publisher
		}
	}
	b.mu.RUnlock()
}
