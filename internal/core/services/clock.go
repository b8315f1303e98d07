package services

import (
	"time"

	"github.com/smartcart-labs/cartrank-cli/internal/core/ports/driven"
)

// Ensure systemClock implements the interface.
var _ driven.Clock = systemClock{}

// systemClock is the production Clock backed by time.Now.
type systemClock struct{}

// Now returns the current wall-clock time.
func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns a Clock backed by the real wall clock.
func SystemClock() driven.Clock {
	return systemClock{}
}
