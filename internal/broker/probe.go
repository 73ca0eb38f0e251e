package broker

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Prober checks raw transport-level reachability of host:port.
type Prober func(host string, port int, timeout time.Duration) error

// DialProbe opens and immediately closes a TCP connection. It proves the
// endpoint is reachable without touching the MQTT protocol.
func DialProbe(host string, port int, timeout time.Duration) error {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnreachable, addr, err)
	}
	conn.Close() //nolint:errcheck // Probe connection carries no data
	return nil
}
