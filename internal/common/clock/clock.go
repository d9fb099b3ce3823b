package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/auramoney/gameclient/internal/common/clock Clock
type Clock interface {
	Now() time.Time

	// After waits for the duration to elapse and then delivers the
	// current time on the returned channel, like time.After.
	After(d time.Duration) <-chan time.Time
}

// DefaultClock implements the Clock interface using the system clock
type DefaultClock struct{}

// Now returns the current time
func (c *DefaultClock) Now() time.Time {
	return time.Now()
}

// After defers to time.After
func (c *DefaultClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
