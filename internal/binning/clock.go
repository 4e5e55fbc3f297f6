package binning

import "time"

// Clock supplies the current time. The arithmetic in this package never
// reads a clock on its own; callers that want "default to now" behavior (for
// example ingesting still-open stays) must inject one explicitly at the
// outermost boundary, keeping the core deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real system clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Useful in tests.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.T }
