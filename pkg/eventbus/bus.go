package eventbus

import (
	"fmt"
	"sort"
	"sync"
)

// Handler receives the payload of a published topic.
type Handler func(topic string, payload any)

// SubscriptionID identifies a subscription for Unsubscribe.
// The zero value is never issued.
type SubscriptionID uint64

// PanicHandler is called when a handler panics during Publish.
type PanicHandler func(topic string, id SubscriptionID, recovered any)

// Option configures a Bus.
type Option func(*Bus)

// WithPanicHandler reports recovered handler panics to fn.
func WithPanicHandler(fn PanicHandler) Option {
	return func(b *Bus) {
		b.onPanic = fn
	}
}

type subscription struct {
	id      SubscriptionID
	topic   string
	handler Handler
}

// Bus is a concurrent-safe, in-memory topic registry.
type Bus struct {
	mu     sync.RWMutex
	topics map[string][]subscription
	byID   map[SubscriptionID]string
	nextID SubscriptionID

	onPanic PanicHandler
}

// New creates a ready-to-use Bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		topics: make(map[string][]subscription),
		byID:   make(map[SubscriptionID]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for topic and returns its subscription ID.
func (b *Bus) Subscribe(topic string, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.topics[topic] = append(b.topics[topic], subscription{
		id:      id,
		topic:   topic,
		handler: handler,
	})
	b.byID[id] = topic
	return id
}

// Unsubscribe removes the subscription. Unknown IDs are ignored.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	topic, ok := b.byID[id]
	if !ok {
		return
	}
	delete(b.byID, id)

	subs := b.topics[topic]
	kept := make([]subscription, 0, len(subs))
	for _, s := range subs {
		if s.id != id {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(b.topics, topic)
		return
	}
	b.topics[topic] = kept
}

// Publish invokes every handler subscribed to topic, in subscription order.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	// Unsubscribe builds a new slice, so the one read here is never mutated.
	snapshot := b.topics[topic]
	onPanic := b.onPanic
	b.mu.RUnlock()

	for _, s := range snapshot {
		b.invoke(s, payload, onPanic)
	}
}

func (b *Bus) invoke(s subscription, payload any, onPanic PanicHandler) {
	defer func() {
		if r := recover(); r != nil && onPanic != nil {
			onPanic(s.topic, s.id, r)
		}
	}()
	s.handler(s.topic, payload)
}

// Count returns the number of handlers subscribed to topic.
func (b *Bus) Count(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// Topics returns the topics that have at least one subscriber, sorted.
func (b *Bus) Topics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	topics := make([]string, 0, len(b.topics))
	for t := range b.topics {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// String summarizes the registry, e.g. "eventbus{connect.success:2 ping:1}".
func (b *Bus) String() string {
	topics := b.Topics()
	s := "eventbus{"
	for i, t := range topics {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s:%d", t, b.Count(t))
	}
	return s + "}"
}
