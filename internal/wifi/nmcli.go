package wifi

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Command timeouts for NetworkManager calls.
const (
	// commandTimeout bounds quick state queries and radio toggles.
	commandTimeout = 3 * time.Second

	// associateTimeout bounds the blocking connect call. It exceeds the
	// unit's whole poll budget so NetworkManager, not us, decides when an
	// attempt is truly dead.
	associateTimeout = 30 * time.Second
)

// NMCLIDriver drives a wireless interface through NetworkManager's nmcli.
//
// Associate runs the blocking connect in the background; Status merges the
// connect outcome with the interface state so the unit's poll loop sees
// conclusive failures (bad passphrase, unknown SSID) as soon as
// NetworkManager reports them.
type NMCLIDriver struct {
	iface string
	log   Logger

	// runCommand is swappable for tests.
	runCommand func(timeout time.Duration, name string, args ...string) (string, error)

	mu         sync.Mutex
	inFlight   bool
	conclusive LinkStatus // StatusIdle when no conclusive failure recorded
}

// NewNMCLIDriver creates a driver for the given interface name.
func NewNMCLIDriver(iface string, log Logger) *NMCLIDriver {
	if log == nil {
		log = noopLogger{}
	}
	return &NMCLIDriver{
		iface:      iface,
		log:        log,
		runCommand: runCommand,
	}
}

// runCommand executes a command with a bounded context and returns its
// combined output.
func runCommand(timeout time.Duration, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

// Disable implements Driver.
func (d *NMCLIDriver) Disable() error {
	d.mu.Lock()
	d.inFlight = false
	d.conclusive = StatusIdle
	d.mu.Unlock()

	_, err := d.runCommand(commandTimeout, "nmcli", "device", "disconnect", d.iface)
	if err != nil {
		// Already-disconnected interfaces make nmcli complain; that is the
		// state we wanted anyway.
		d.log.Debug("disconnect reported error", "error", err)
	}
	_, err = d.runCommand(commandTimeout, "nmcli", "radio", "wifi", "off")
	return err
}

// EnableStation implements Driver.
func (d *NMCLIDriver) EnableStation() error {
	_, err := d.runCommand(commandTimeout, "nmcli", "radio", "wifi", "on")
	return err
}

// SetPowerSave implements Driver.
func (d *NMCLIDriver) SetPowerSave(enabled bool) error {
	mode := "off"
	if enabled {
		mode = "on"
	}
	_, err := d.runCommand(commandTimeout, "iw", "dev", d.iface, "set", "power_save", mode)
	return err
}

// Associate implements Driver. The blocking nmcli connect runs on its own
// goroutine; its outcome is folded into Status.
func (d *NMCLIDriver) Associate(ssid, secret string) error {
	d.mu.Lock()
	d.inFlight = true
	d.conclusive = StatusIdle
	d.mu.Unlock()

	go func() {
		args := []string{"device", "wifi", "connect", ssid, "ifname", d.iface}
		if secret != "" {
			args = append(args, "password", secret)
		}
		out, err := d.runCommand(associateTimeout, "nmcli", args...)

		d.mu.Lock()
		defer d.mu.Unlock()
		d.inFlight = false
		if err != nil {
			d.conclusive = classifyConnectFailure(out)
		}
	}()

	return nil
}

// Status implements Driver.
func (d *NMCLIDriver) Status() (LinkStatus, string) {
	d.mu.Lock()
	conclusive := d.conclusive
	inFlight := d.inFlight
	d.mu.Unlock()

	if conclusive.conclusive() {
		return conclusive, ""
	}

	state, err := d.runCommand(commandTimeout, "nmcli", "-g", "GENERAL.STATE", "device", "show", d.iface)
	if err == nil && strings.Contains(state, "connected") && !strings.Contains(state, "disconnected") {
		addr, _ := d.runCommand(commandTimeout, "nmcli", "-g", "IP4.ADDRESS", "device", "show", d.iface)
		if line := firstLine(addr); line != "" {
			return StatusAssociated, line
		}
	}

	if inFlight {
		return StatusConnecting, ""
	}
	return StatusIdle, ""
}

// Connected implements Driver.
func (d *NMCLIDriver) Connected() bool {
	status, _ := d.Status()
	return status == StatusAssociated
}

// classifyConnectFailure maps nmcli connect output to a conclusive status.
// Anything unrecognised stays inconclusive and lets the poll budget decide.
func classifyConnectFailure(output string) LinkStatus {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "secrets were required"),
		strings.Contains(lower, "802.1x supplicant failed"):
		return StatusAuthRejected
	case strings.Contains(lower, "no network with ssid"):
		return StatusNotFound
	default:
		return StatusIdle
	}
}

// firstLine returns the first non-empty trimmed line of s.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
