package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handler receives events synchronously on the emitting goroutine
type Handler func(*Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is an in-process publish/subscribe hub
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[EventType][]subscription
	now    func() time.Time
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		subs: make(map[EventType][]subscription),
		now:  time.Now,
	}
}

// Subscribe registers handler for eventType and returns a function that
// removes the registration.
func (b *Bus) Subscribe(eventType EventType, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[eventType] = append(b.subs[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[eventType]
		for i, s := range subs {
			if s.id == id {
				b.subs[eventType] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Emit builds an event and delivers it to every subscriber of its type
func (b *Bus) Emit(eventType EventType, module string, data map[string]interface{}) *Event {
	event := &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: b.now(),
		Module:    module,
		Data:      data,
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[eventType]))
	for _, s := range b.subs[eventType] {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
	return event
}

// SubscriberCount returns the number of handlers registered for eventType
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[eventType])
}
