package orchestrator

// State identifies one position in the boot sequence.
type State int

const (
	StateBoot State = iota
	StateBusReady
	StateConfigLoaded
	StateUnitsStarted
	StateLinkRequested
	StateLinkReady
	StateBrokerRequested
	StateBrokerReady
	StatePublished
	StateSteady
	// StateAbort is terminal. The sequence is not resumable.
	StateAbort
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateBoot:
		return "boot"
	case StateBusReady:
		return "bus_ready"
	case StateConfigLoaded:
		return "config_loaded"
	case StateUnitsStarted:
		return "units_started"
	case StateLinkRequested:
		return "link_requested"
	case StateLinkReady:
		return "link_ready"
	case StateBrokerRequested:
		return "broker_requested"
	case StateBrokerReady:
		return "broker_ready"
	case StatePublished:
		return "published"
	case StateSteady:
		return "steady"
	case StateAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// RuntimeState is the coarse device mode derived from the boot outcome.
// This layer only ever moves it from Init to Normal or Error; recovery and
// update modes belong to higher layers.
type RuntimeState int

const (
	RuntimeInit RuntimeState = iota
	RuntimeNormal
	RuntimeRecovery
	RuntimeUpdate
	RuntimeError
)

// String returns the runtime state name for logging.
func (s RuntimeState) String() string {
	switch s {
	case RuntimeInit:
		return "init"
	case RuntimeNormal:
		return "normal"
	case RuntimeRecovery:
		return "recovery"
	case RuntimeUpdate:
		return "update"
	case RuntimeError:
		return "error"
	default:
		return "unknown"
	}
}
