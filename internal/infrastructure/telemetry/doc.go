// Package telemetry records boot and connectivity metrics to InfluxDB.
//
// It wraps the official influxdb-client-go v2 library with node-specific
// write helpers. Everything here is optional: when telemetry is disabled
// in configuration, Connect returns ErrDisabled and callers run without a
// client.
//
// # Purpose
//
// This package stores time-series data for:
//   - Boot phase durations and outcomes
//   - Link association attempts and their terminal status
//   - Broker handshake attempt counts
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking; batch errors surface via the error
// callback. Connection and health check errors are returned directly.
package telemetry
