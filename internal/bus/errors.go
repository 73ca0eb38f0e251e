package bus

import "errors"

// Domain-specific errors for message bus operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInvalidUnit is returned when a UnitID outside the closed set is used.
	ErrInvalidUnit = errors.New("bus: invalid unit id")

	// ErrInvalidCapacity is returned when Register is called with capacity <= 0.
	ErrInvalidCapacity = errors.New("bus: channel capacity must be positive")

	// ErrChannelMissing is returned when sending to a unit with no registered channel.
	ErrChannelMissing = errors.New("bus: destination channel not registered")

	// ErrChannelFull is returned when the destination channel stays full
	// through the send timeout.
	ErrChannelFull = errors.New("bus: destination channel full")
)
