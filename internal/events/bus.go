package events

import (
	"log"
	"sync"
)

// Handler receives event payloads. Handlers run synchronously on the
// emitting goroutine; a panicking handler is contained and logged so
// one bad subscriber cannot take down the dispatch.
type Handler func(payload interface{})

// Subscription identifies a registered handler so it can be removed.
type Subscription struct {
	event string
	id    uint64
}

// Bus is a per-event-name subscriber registry. It is the event surface
// UI consumers attach to.
type Bus struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[string]map[uint64]Handler
	onPanic  func(event string, recovered interface{})
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string]map[uint64]Handler),
	}
}

// On registers a handler for an event name.
func (b *Bus) On(event string, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID

	set, ok := b.handlers[event]
	if !ok {
		set = make(map[uint64]Handler)
		b.handlers[event] = set
	}
	set[id] = h

	return Subscription{event: event, id: id}
}

// Off removes a previously registered handler.
func (b *Bus) Off(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if set, ok := b.handlers[sub.event]; ok {
		delete(set, sub.id)
		if len(set) == 0 {
			delete(b.handlers, sub.event)
		}
	}
}

// NotifyPanics registers a hook invoked after a subscriber panic has
// been contained, so the owner can count dispatch failures.
func (b *Bus) NotifyPanics(fn func(event string, recovered interface{})) {
	b.mu.Lock()
	b.onPanic = fn
	b.mu.Unlock()
}

// Emit dispatches the payload to every handler registered for the
// event name.
func (b *Bus) Emit(event string, payload interface{}) {
	b.mu.Lock()
	set := b.handlers[event]
	hs := make([]Handler, 0, len(set))
	for _, h := range set {
		hs = append(hs, h)
	}
	onPanic := b.onPanic
	b.mu.Unlock()

	for _, h := range hs {
		dispatch(event, h, payload, onPanic)
	}
}

// Clear removes every handler.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string]map[uint64]Handler)
}

func dispatch(event string, h Handler, payload interface{}, onPanic func(string, interface{})) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("events: handler for %q panicked: %v", event, r)
			if onPanic != nil {
				onPanic(event, r)
			}
		}
	}()
	h(payload)
}
