// Package bus provides the in-process message bus connecting graynode's
// execution units.
//
// Every unit (main orchestrator, wifi, broker, peripheral stubs) owns exactly
// one bounded FIFO channel, registered once at startup and addressed by its
// UnitID. Delivery is strictly point-to-point: a message carries a destination
// unit and is enqueued on that unit's channel only. There is no broadcast.
//
// # Back-pressure
//
// Channels are bounded (typically 8-16 entries). Send blocks up to its timeout
// when the destination channel is full and then fails; it never grows the
// queue. Receive blocks up to its timeout and reports "no message" on expiry.
//
// # Ordering
//
// Messages to a single destination are delivered in FIFO order. No ordering
// is guaranteed between messages addressed to different destinations.
package bus
