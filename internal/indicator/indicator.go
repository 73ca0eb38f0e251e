package indicator

import "time"

// Logger defines the logging interface for the indicator.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// patternRepeats is how many times each fault pattern cycle repeats.
const patternRepeats = 3

// Timing holds every pattern duration. All values have defaults from
// DefaultTiming; tests compress them.
type Timing struct {
	// BootSettle is the all-off settle delay before the boot line lights.
	BootSettle time.Duration
	// LinkBlink is the on time of one link-connecting blink cycle.
	LinkBlink time.Duration
	// LinkSolid is how long the status line stays lit for link-connected.
	LinkSolid time.Duration
	// BrokerBlink is the on time of one broker-connecting blink cycle.
	BrokerBlink time.Duration
	// ActivityOn is the lit time of an activity pulse.
	ActivityOn time.Duration
	// FaultOn is the lit time of one reboot-pattern pulse.
	FaultOn time.Duration
	// FaultGap is the dark gap between fault pattern cycles.
	FaultGap time.Duration
	// ShortBlink is the on and off time of one short fault blink.
	ShortBlink time.Duration
	// TransientWait is the bounded lock wait for skippable indications.
	TransientWait time.Duration
}

// DefaultTiming returns the production pattern timing.
func DefaultTiming() Timing {
	return Timing{
		BootSettle:    500 * time.Millisecond,
		LinkBlink:     500 * time.Millisecond,
		LinkSolid:     2 * time.Second,
		BrokerBlink:   200 * time.Millisecond,
		ActivityOn:    300 * time.Millisecond,
		FaultOn:       300 * time.Millisecond,
		FaultGap:      time.Second,
		ShortBlink:    150 * time.Millisecond,
		TransientWait: 100 * time.Millisecond,
	}
}

// Indicator exposes the node's semantic status patterns.
//
// Construct exactly one per process and share it; the internal lock is what
// keeps patterns atomic.
type Indicator struct {
	signals Signals
	timing  Timing
	log     Logger

	// lock serialises all pattern rendering. Semaphore rather than
	// sync.Mutex so transient callers can give up after a bounded wait.
	lock chan struct{}

	// statusLatched remembers whether the status line is persistently lit
	// (broker connected). ActivityPulse restores this, not plain "off".
	// Guarded by lock.
	statusLatched bool
}

// New creates an Indicator over the given signal lines.
func New(signals Signals, timing Timing, log Logger) *Indicator {
	if log == nil {
		log = noopLogger{}
	}
	ind := &Indicator{
		signals: signals,
		timing:  timing,
		log:     log,
		lock:    make(chan struct{}, 1),
	}
	ind.lock <- struct{}{}
	return ind
}

// acquire takes the pattern lock, waiting at most wait when bounded is true.
// Returns false if the lock could not be taken.
func (i *Indicator) acquire(bounded bool) bool {
	if !bounded {
		<-i.lock
		return true
	}

	timer := time.NewTimer(i.timing.TransientWait)
	defer timer.Stop()

	select {
	case <-i.lock:
		return true
	case <-timer.C:
		return false
	}
}

func (i *Indicator) release() {
	i.lock <- struct{}{}
}

// Booting shows the initial power-on indication: everything dark for the
// settle delay, then the boot line lit. Critical, never skipped.
func (i *Indicator) Booting() {
	i.acquire(false)
	defer i.release()

	i.signals.Set(LineBoot, false)
	i.signals.Set(LineStatus, false)
	i.signals.Set(LineFault, false)
	i.statusLatched = false
	time.Sleep(i.timing.BootSettle)
	i.signals.Set(LineBoot, true)
}

// LinkConnecting blinks the status line once. Transient: silently skipped
// when another pattern holds the lock.
func (i *Indicator) LinkConnecting() {
	if !i.acquire(true) {
		i.log.Debug("link connecting blink skipped, indicator busy")
		return
	}
	defer i.release()

	i.signals.Set(LineStatus, true)
	time.Sleep(i.timing.LinkBlink)
	i.signals.Set(LineStatus, false)
}

// LinkConnected holds the status line solid for the configured time, then
// releases it. Critical.
func (i *Indicator) LinkConnected() {
	i.acquire(false)
	defer i.release()

	i.signals.Set(LineStatus, true)
	time.Sleep(i.timing.LinkSolid)
	i.signals.Set(LineStatus, false)
}

// BrokerConnecting blinks the status line once at the faster broker cadence.
// Transient.
func (i *Indicator) BrokerConnecting() {
	if !i.acquire(true) {
		i.log.Debug("broker connecting blink skipped, indicator busy")
		return
	}
	defer i.release()

	i.signals.Set(LineStatus, true)
	time.Sleep(i.timing.BrokerBlink)
	i.signals.Set(LineStatus, false)
}

// BrokerConnected latches the status line on. Critical.
func (i *Indicator) BrokerConnected() {
	i.acquire(false)
	defer i.release()

	i.signals.Set(LineStatus, true)
	i.statusLatched = true
}

// ActivityPulse drops the status line dark for a visible gap, flashes it on,
// and then restores the persistent state it found. Transient.
func (i *Indicator) ActivityPulse() {
	if !i.acquire(true) {
		i.log.Debug("activity pulse skipped, indicator busy")
		return
	}
	defer i.release()

	restore := i.statusLatched
	i.signals.Set(LineStatus, false)
	time.Sleep(i.timing.ShortBlink)
	i.signals.Set(LineStatus, true)
	time.Sleep(i.timing.ActivityOn)
	i.signals.Set(LineStatus, restore)
}

// RebootPattern shows the restart signature: one long fault pulse per cycle.
// Critical.
func (i *Indicator) RebootPattern() {
	i.acquire(false)
	defer i.release()

	for cycle := 0; cycle < patternRepeats; cycle++ {
		i.signals.Set(LineFault, true)
		time.Sleep(i.timing.FaultOn)
		i.signals.Set(LineFault, false)
		time.Sleep(i.timing.FaultGap)
	}
}

// AbortPattern shows the boot-abort signature: two short fault blinks per
// cycle. Critical.
func (i *Indicator) AbortPattern() {
	i.acquire(false)
	defer i.release()

	i.blinkCycles(2)
}

// ErrorPattern shows the runtime-error signature: four short fault blinks per
// cycle. Critical.
func (i *Indicator) ErrorPattern() {
	i.acquire(false)
	defer i.release()

	i.blinkCycles(4)
}

// blinkCycles renders patternRepeats cycles of n short fault blinks followed
// by the dark gap. Caller must hold the lock.
func (i *Indicator) blinkCycles(blinks int) {
	for cycle := 0; cycle < patternRepeats; cycle++ {
		for b := 0; b < blinks; b++ {
			i.signals.Set(LineFault, true)
			time.Sleep(i.timing.ShortBlink)
			i.signals.Set(LineFault, false)
			time.Sleep(i.timing.ShortBlink)
		}
		time.Sleep(i.timing.FaultGap)
	}
}
