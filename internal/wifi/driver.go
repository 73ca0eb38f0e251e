package wifi

// LinkStatus is the driver's view of the association state machine.
type LinkStatus uint8

const (
	// StatusIdle means no association is in progress.
	StatusIdle LinkStatus = iota
	// StatusConnecting means association is still in progress.
	StatusConnecting
	// StatusAssociated means the link is up and holds an address.
	StatusAssociated
	// StatusAuthRejected means the network rejected our credentials.
	// Conclusive: further polling of this attempt is pointless.
	StatusAuthRejected
	// StatusNotFound means the configured network was not seen on air.
	// Conclusive: further polling of this attempt is pointless.
	StatusNotFound
)

// String returns the status name for logging.
func (s LinkStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConnecting:
		return "connecting"
	case StatusAssociated:
		return "associated"
	case StatusAuthRejected:
		return "auth_rejected"
	case StatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// conclusive reports whether the status ends an attempt early.
func (s LinkStatus) conclusive() bool {
	return s == StatusAuthRejected || s == StatusNotFound
}

// Driver abstracts the wireless link layer.
//
// Implementations are driven from the wifi unit's goroutine only.
type Driver interface {
	// Disable tears the link layer down completely.
	Disable() error

	// EnableStation brings the link layer up in station (client) mode.
	EnableStation() error

	// SetPowerSave switches link power management. The unit disables it
	// during association; power saving adds multi-second latency spikes
	// that break the poll budget.
	SetPowerSave(enabled bool) error

	// Associate begins association with the given network. It must not
	// block for the whole association; progress is observed via Status.
	Associate(ssid, secret string) error

	// Status reports the current association state and, when associated,
	// the acquired address.
	Status() (LinkStatus, string)

	// Connected reports whether the link currently holds an association.
	// Used by the broker unit as its precondition check.
	Connected() bool
}
