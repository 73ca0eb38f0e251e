package telemetry

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteBootPhase records one completed boot phase.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - phase: The phase name (e.g., "link_ready", "broker_ready")
//   - duration: How long the phase took
//   - success: Whether the phase gate passed
func (c *Client) WriteBootPhase(phase string, duration time.Duration, success bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"boot_phase",
		map[string]string{
			"node_id": c.nodeID,
			"phase":   phase,
		},
		map[string]interface{}{
			"duration_ms": float64(duration.Milliseconds()),
			"success":     success,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteLinkAttempt records the outcome of one link association attempt.
//
// Parameters:
//   - attempt: 1-based attempt number
//   - status: Terminal status of the attempt (e.g., "associated", "rejected")
func (c *Client) WriteLinkAttempt(attempt int, status string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"link_attempt",
		map[string]string{
			"node_id": c.nodeID,
			"status":  status,
		},
		map[string]interface{}{
			"attempt": attempt,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteBrokerHandshake records how many handshake attempts a broker
// connection consumed.
func (c *Client) WriteBrokerHandshake(attempts int, success bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"broker_handshake",
		map[string]string{
			"node_id": c.nodeID,
		},
		map[string]interface{}{
			"attempts": attempts,
			"success":  success,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// The node_id tag is always added.
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	merged := map[string]string{"node_id": c.nodeID}
	for k, v := range tags {
		merged[k] = v
	}

	point := write.NewPoint(measurement, merged, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
