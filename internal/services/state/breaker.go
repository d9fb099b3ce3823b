package state

import (
	"sync"
	"time"

	"github.com/auramoney/gameclient/internal/common/clock"
)

// breaker is a rolling-error circuit breaker. Counted failures push it
// toward the threshold, successes pull it back; at the threshold it
// opens for the cooldown and then resets itself.
type breaker struct {
	mu        sync.Mutex
	clock     clock.Clock
	threshold int
	cooldown  time.Duration

	errors    int
	openUntil time.Time
}

func newBreaker(c clock.Clock, threshold int, cooldown time.Duration) *breaker {
	return &breaker{
		clock:     c,
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// allow reports whether operations may proceed. A breaker whose
// cooldown has elapsed closes again with a clean slate.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.openUntil.IsZero() {
		return true
	}
	if b.clock.Now().Before(b.openUntil) {
		return false
	}

	b.openUntil = time.Time{}
	b.errors = 0
	return true
}

// failure counts an error, opening the breaker at the threshold.
func (b *breaker) failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.errors++
	if b.errors >= b.threshold {
		b.openUntil = b.clock.Now().Add(b.cooldown)
	}
}

// success walks the error count back down.
func (b *breaker) success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.errors > 0 {
		b.errors--
	}
}

// open reports whether the breaker currently rejects operations.
func (b *breaker) open() bool {
	return !b.allow()
}
