package broker

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// machineIDPath is the stable hardware identity source on Linux.
const machineIDPath = "/etc/machine-id"

// clientIDPrefixLen is how much of the machine id ends up in the client id.
const clientIDPrefixLen = 12

// ClientID derives the MQTT client identity deterministically from hardware
// identity, so a node keeps the same identity across reboots and the broker
// can correlate sessions.
//
// When no machine id is readable a random UUID is used instead; that loses
// determinism, so it is the caller's job to log it.
func ClientID() (string, bool) {
	data, err := os.ReadFile(machineIDPath)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if len(id) >= clientIDPrefixLen {
			return fmt.Sprintf("graynode-%s", id[:clientIDPrefixLen]), true
		}
	}
	return fmt.Sprintf("graynode-%s", uuid.NewString()[:clientIDPrefixLen]), false
}
