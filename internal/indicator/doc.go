// Package indicator drives the node's tri-colour status LED.
//
// Three independent binary signal lines (boot, status, fault) are owned by a
// single Indicator. One internal lock serialises every pattern so two callers
// can never interleave a half-finished indication.
//
// # Criticality
//
// Transient indications (connecting blinks, activity pulses) wait only
// briefly for the lock and are silently skipped when another pattern is in
// progress - a dropped blink is harmless. Critical indications (boot,
// connected latches, reboot/abort/error patterns) wait unboundedly so they
// are never dropped.
//
// # Timing
//
// Pattern methods block for their full duration. The timing is part of the
// visual contract (an operator counts pulses); do not move these off the
// calling goroutine without revalidating that contract.
package indicator
