// Package broker manages the node's connection to the site MQTT broker.
//
// The unit is gated twice before it ever speaks MQTT: the wireless link must
// already report connected, and a raw TCP reachability probe of the broker
// endpoint must succeed. The probe exists to fail fast - a protocol
// handshake against an unreachable host can hang for its full timeout,
// while a refused dial returns immediately.
//
// Past the gates, the handshake is retried on a flat schedule (fixed count,
// fixed delay, no escalation). Exhaustion is reported to the orchestrator as
// exactly one TaskError; success as one BrokerInitDone.
//
// The secure-transport (TLS) variant is not implemented and fails fast with
// ErrTLSUnimplemented.
package broker
