package broker

import (
	"fmt"
	"time"
)

// Topics builds the node's MQTT topic strings. Zero-value usable.
type Topics struct{}

// NodeStatus is the retained online/offline status topic for a node.
func (Topics) NodeStatus(nodeID string) string {
	return fmt.Sprintf("graylogic/node/%s/status", nodeID)
}

// buildOnlinePayload creates the JSON payload for online status messages.
func buildOnlinePayload(clientID string) string {
	return fmt.Sprintf(
		`{"status":"online","client_id":"%s","timestamp":"%s"}`,
		clientID,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// buildOfflinePayload creates the LWT payload published by the broker when
// the node drops off unexpectedly.
func buildOfflinePayload(clientID string) string {
	return fmt.Sprintf(
		`{"status":"offline","client_id":"%s","reason":"unexpected_disconnect","timestamp":"%s"}`,
		clientID,
		time.Now().UTC().Format(time.RFC3339),
	)
}
