package events

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/auramoney/gameclient/internal/common/clock"
)

// DefaultWindow is the coalescing window applied when a Debouncer is
// built without one.
const DefaultWindow = 150 * time.Millisecond

// DebouncerConfig holds configuration for a Debouncer.
type DebouncerConfig struct {
	Bus    *Bus
	Clock  clock.Clock
	Window time.Duration
}

// Debouncer coalesces bursts of events per event name: within one
// window only the most recent payload survives and is dispatched once
// when the window elapses. Timing runs on the injected clock so tests
// can drive it virtually.
type Debouncer struct {
	bus    *Bus
	clock  clock.Clock
	window time.Duration

	mu      sync.Mutex
	pending map[string]interface{}
	closed  bool

	dispatching atomic.Bool
}

// NewDebouncer creates a Debouncer.
func NewDebouncer(cfg *DebouncerConfig) (*Debouncer, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Bus == nil {
		return nil, errors.New("bus cannot be nil")
	}
	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	window := cfg.Window
	if window <= 0 {
		window = DefaultWindow
	}

	return &Debouncer{
		bus:     cfg.Bus,
		clock:   cfg.Clock,
		window:  window,
		pending: make(map[string]interface{}),
	}, nil
}

// Publish queues the payload for the event name. The first publish in
// a window arms the flush; later publishes within the window replace
// the queued payload.
func (d *Debouncer) Publish(event string, payload interface{}) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	_, armed := d.pending[event]
	d.pending[event] = payload
	d.mu.Unlock()

	if armed {
		return
	}

	timer := d.clock.After(d.window)
	go func() {
		<-timer
		d.flush(event)
	}()
}

// flush dispatches the latest payload queued for the event name.
func (d *Debouncer) flush(event string) {
	d.mu.Lock()
	payload, ok := d.pending[event]
	delete(d.pending, event)
	closed := d.closed
	d.mu.Unlock()

	if !ok || closed {
		return
	}

	// A dispatch triggered from inside another in-progress dispatch is
	// a feedback loop; drop it rather than recurse.
	if !d.dispatching.CompareAndSwap(false, true) {
		log.Printf("events: dropped nested dispatch of %q", event)
		return
	}
	defer d.dispatching.Store(false)

	d.bus.Emit(event, payload)
}

// Close drops all queued events and stops future publishes.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.pending = make(map[string]interface{})
}
