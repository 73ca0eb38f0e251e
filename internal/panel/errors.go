package panel

import "errors"

// Domain-specific errors for panel operations.
var (
	// ErrNotDetected is returned when neither candidate address answers the
	// probe. The condition is terminal; there is no automatic re-probe.
	ErrNotDetected = errors.New("panel: no display detected at any candidate address")

	// ErrQueueFull is returned internally when a render request cannot be
	// enqueued within the enqueue timeout.
	ErrQueueFull = errors.New("panel: render queue full")
)
