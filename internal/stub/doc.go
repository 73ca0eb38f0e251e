// Package stub provides placeholder execution units for peripheral roles
// that are present in the boot roll call but carry no behaviour yet
// (display, external I/O, OTA, TCP/IP services, HTTP, input scanning).
//
// A stub registers its bus channel, answers the orchestrator's
// StartupRequest with a StartupAck, and logs anything else it receives.
// This keeps the readiness roll call uniform across all units while the
// real implementations land one by one.
package stub
