package domain

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handler is a callback invoked when a matching event is published.
type Handler func(Event)

// Bus is a thread-safe, in-process publish/subscribe event bus. Mutations
// publish exactly one event after their write commits; subscribers must
// not assume they run before the HTTP response is sent.
type Bus struct {
	mu     sync.RWMutex
	byType map[EventType][]Handler
	global []Handler
}

// NewBus creates a ready-to-use event bus.
func NewBus() *Bus {
	return &Bus{byType: make(map[EventType][]Handler)}
}

// Subscribe registers a handler for the given event types. With no types
// the handler receives every event.
func (b *Bus) Subscribe(handler Handler, types ...EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(types) == 0 {
		b.global = append(b.global, handler)
		return
	}

	for _, t := range types {
		b.byType[t] = append(b.byType[t], handler)
	}
}

// Publish delivers an event to all matching subscribers, synchronously in
// the caller's goroutine. A panicking subscriber is logged and does not
// stop delivery to the rest. The event id lets consumers that see the
// same event on several paths deduplicate it.
func (b *Bus) Publish(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.global)+len(b.byType[e.Type]))
	handlers = append(handlers, b.global...)
	handlers = append(handlers, b.byType[e.Type]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		deliver(h, e)
	}
}

func deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("domain: subscriber panic on %s: %v", e.Type, r)
		}
	}()
	h(e)
}
