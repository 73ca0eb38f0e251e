// Package orchestrator runs the boot sequence as a linear state machine.
//
// The orchestrator owns the main execution unit. It registers the bus,
// loads connection configuration, starts every subordinate unit, and then
// walks the connectivity phases in order, gating each forward edge on a
// timed success message from a specific unit:
//
//	Boot -> BusReady -> ConfigLoaded -> UnitsStarted -> LinkRequested
//	     -> LinkReady -> BrokerRequested -> BrokerReady -> Published -> Steady
//
// A phase timeout, a TaskError from the expected sender, or a failure to
// enqueue a request all lead to the terminal Abort state: the abort pattern
// is shown exactly once and the run loop terminates. This layer never
// retries anything; retry policy lives entirely inside the connectivity
// units.
//
// The "START" and "DONE" display renders around the connectivity phases
// are best effort. A render failure is logged and the sequence continues.
package orchestrator
