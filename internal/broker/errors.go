package broker

import "errors"

// Domain-specific errors for broker connectivity.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrLinkDown is returned when the wireless link precondition fails.
	ErrLinkDown = errors.New("broker: wireless link not connected")

	// ErrTLSUnimplemented is returned for the secure-transport variant,
	// which is deliberately not implemented yet.
	ErrTLSUnimplemented = errors.New("broker: TLS transport not implemented")

	// ErrUnreachable is returned when the reachability probe cannot open a
	// raw connection to the broker endpoint.
	ErrUnreachable = errors.New("broker: endpoint unreachable")

	// ErrHandshakeExhausted is returned when every handshake attempt failed.
	ErrHandshakeExhausted = errors.New("broker: handshake attempts exhausted")

	// ErrNotConnected is returned when publishing without a connection.
	ErrNotConnected = errors.New("broker: client not connected")
)
