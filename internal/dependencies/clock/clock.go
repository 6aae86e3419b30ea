package clock

import "time"

// Clock supplies account timestamps; mocked in tests
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC, the zone stored by every backend
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current UTC time
func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}
