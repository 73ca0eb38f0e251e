package indicator

// Line identifies one of the three binary signal lines.
type Line uint8

const (
	// LineBoot is the blue "powered and booting" line.
	LineBoot Line = iota
	// LineStatus is the green connectivity/activity line.
	LineStatus
	// LineFault is the red fault line.
	LineFault
)

// String returns the line name for logging.
func (l Line) String() string {
	switch l {
	case LineBoot:
		return "boot"
	case LineStatus:
		return "status"
	case LineFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Signals abstracts the physical signal lines.
//
// Implementations must tolerate being driven from a single goroutine at a
// time; the Indicator's lock provides that guarantee.
type Signals interface {
	// Set drives one line fully on or off.
	Set(line Line, on bool)
}

// SysfsSignals drives LEDs through the Linux leds class
// (/sys/class/leds/<name>/brightness).
type SysfsSignals struct {
	// Paths maps each line to its brightness file.
	Paths map[Line]string

	write func(path string, on bool) error
	log   Logger
}

// NewSysfsSignals creates a sysfs-backed Signals using the given
// /sys/class/leds brightness file per line.
func NewSysfsSignals(paths map[Line]string, log Logger) *SysfsSignals {
	if log == nil {
		log = noopLogger{}
	}
	return &SysfsSignals{
		Paths: paths,
		write: writeBrightness,
		log:   log,
	}
}

// Set implements Signals. Write failures are logged and otherwise ignored:
// a missing LED must never stall the boot sequence.
func (s *SysfsSignals) Set(line Line, on bool) {
	path, ok := s.Paths[line]
	if !ok {
		return
	}
	if err := s.write(path, on); err != nil {
		s.log.Warn("led write failed", "line", line.String(), "path", path, "error", err)
	}
}
