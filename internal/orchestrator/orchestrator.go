package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/bus"
)

// queueLength is the main unit's receive channel capacity.
const queueLength = 16

// Logger defines the logging interface for the orchestrator.
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

// Indicator is the slice of the status indicator the orchestrator drives.
type Indicator interface {
	Booting()
	AbortPattern()
}

// TextRenderer is the display arbiter surface used for the boot banners.
type TextRenderer interface {
	RequestText(line1, line2 string, hold time.Duration) bool
}

// Recorder receives one point per phase transition: the phase entered, how
// long the previous phase took, and whether the edge was a forward one.
// Satisfied by the telemetry client.
type Recorder interface {
	WriteBootPhase(phase string, duration time.Duration, success bool)
}

// Unit is one subordinate execution unit under orchestrator control.
// Start must register the unit's bus channel and launch its run loop.
type Unit struct {
	ID    bus.UnitID
	Start func(ctx context.Context) error
}

// Config holds the phase gate timeouts.
type Config struct {
	// LinkTimeout gates the link connectivity phase.
	LinkTimeout time.Duration
	// BrokerTimeout gates the broker handshake phase.
	BrokerTimeout time.Duration
	// PublishTimeout gates the online announcement phase.
	PublishTimeout time.Duration
	// StartupAckTimeout gates each subordinate unit's readiness ack.
	StartupAckTimeout time.Duration

	// SendTimeout bounds every request enqueue.
	SendTimeout time.Duration
	// SteadyPoll is the receive interval of the steady-state loop.
	SteadyPoll time.Duration

	// BannerHold is how long the START and DONE renders stay on screen.
	BannerHold time.Duration
}

// DefaultConfig returns the production gate timeouts: 35 s for the link
// phase and 20 s each for broker init and publish.
func DefaultConfig() Config {
	return Config{
		LinkTimeout:       35 * time.Second,
		BrokerTimeout:     20 * time.Second,
		PublishTimeout:    20 * time.Second,
		StartupAckTimeout: 5 * time.Second,
		SendTimeout:       200 * time.Millisecond,
		SteadyPoll:        500 * time.Millisecond,
		BannerHold:        time.Second,
	}
}

// Orchestrator walks the boot sequence and holds the device runtime state.
type Orchestrator struct {
	cfg      Config
	registry *bus.Registry
	units    []Unit
	ind      Indicator
	display  TextRenderer
	log      Logger

	// loadConfig resolves the connection configuration before any unit
	// starts. A returned error means the fallback chain ended empty; that
	// is a warning, not a gate failure.
	loadConfig func(ctx context.Context) error

	rec Recorder

	mu        sync.Mutex
	state     State
	runtime   RuntimeState
	history   []State
	enteredAt time.Time
}

// New creates the orchestrator. loadConfig may be nil when configuration
// was resolved ahead of time; display may be nil when no panel is attached.
func New(cfg Config, registry *bus.Registry, units []Unit, ind Indicator,
	display TextRenderer, loadConfig func(ctx context.Context) error, log Logger) *Orchestrator {
	if log == nil {
		log = noopLogger{}
	}
	return &Orchestrator{
		cfg:        cfg,
		registry:   registry,
		units:      units,
		ind:        ind,
		display:    display,
		loadConfig: loadConfig,
		log:        log,
		state:      StateBoot,
		runtime:    RuntimeInit,
		history:    []State{StateBoot},
		enteredAt:  time.Now(),
	}
}

// SetRecorder wires a phase recorder. Call before Run.
func (o *Orchestrator) SetRecorder(rec Recorder) {
	o.rec = rec
}

// State returns the current sequence state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Runtime returns the current device runtime state.
func (o *Orchestrator) Runtime() RuntimeState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.runtime
}

// History returns every state visited so far, in order.
func (o *Orchestrator) History() []State {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]State, len(o.history))
	copy(out, o.history)
	return out
}

func (o *Orchestrator) setState(s State) {
	now := time.Now()
	o.mu.Lock()
	prev := o.state
	elapsed := now.Sub(o.enteredAt)
	o.state = s
	o.enteredAt = now
	o.history = append(o.history, s)
	o.mu.Unlock()

	if o.rec != nil {
		o.rec.WriteBootPhase(s.String(), elapsed, s != StateAbort)
	}
	o.log.Info("state transition", "from", prev.String(), "to", s.String())
}

func (o *Orchestrator) setRuntime(s RuntimeState) {
	o.mu.Lock()
	o.runtime = s
	o.mu.Unlock()
	o.log.Info("runtime state", "state", s.String())
}

// Run executes the boot sequence and then holds in the steady loop until
// ctx is cancelled. It returns ErrAborted (wrapped with the cause) on any
// gate failure, after showing the abort pattern exactly once.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.ind.Booting()

	if err := o.registry.Register(bus.UnitMain, queueLength); err != nil {
		return o.abort(fmt.Errorf("register main channel: %w", err))
	}
	o.setState(StateBusReady)

	if o.loadConfig != nil {
		if err := o.loadConfig(ctx); err != nil {
			o.log.Warn("connection config unavailable, continuing with fallback", "error", err)
		}
	}
	o.setState(StateConfigLoaded)

	if err := o.startUnits(ctx); err != nil {
		return o.abort(err)
	}
	o.setState(StateUnitsStarted)

	o.render("GrayLogic Node", "START")

	if err := o.request(bus.UnitLink, bus.MsgLinkInitRequest); err != nil {
		return o.abort(err)
	}
	o.setState(StateLinkRequested)
	if err := o.await(bus.UnitLink, bus.MsgLinkInitDone, o.cfg.LinkTimeout); err != nil {
		return o.abort(err)
	}
	o.setState(StateLinkReady)

	if err := o.request(bus.UnitBroker, bus.MsgBrokerInitRequest); err != nil {
		return o.abort(err)
	}
	o.setState(StateBrokerRequested)
	if err := o.await(bus.UnitBroker, bus.MsgBrokerInitDone, o.cfg.BrokerTimeout); err != nil {
		return o.abort(err)
	}
	o.setState(StateBrokerReady)

	if err := o.request(bus.UnitBroker, bus.MsgPublishRequest); err != nil {
		return o.abort(err)
	}
	if err := o.await(bus.UnitBroker, bus.MsgPublishDone, o.cfg.PublishTimeout); err != nil {
		return o.abort(err)
	}
	o.setState(StatePublished)

	o.render("GrayLogic Node", "DONE")

	o.setState(StateSteady)
	o.setRuntime(RuntimeNormal)
	return o.steady(ctx)
}

// startUnits launches every subordinate unit, then performs the readiness
// roll call: each unit must answer a StartupRequest with a StartupAck
// within the configured window.
func (o *Orchestrator) startUnits(ctx context.Context) error {
	for _, u := range o.units {
		if err := u.Start(ctx); err != nil {
			return fmt.Errorf("start unit %s: %w", u.ID.String(), err)
		}
		o.log.Info("unit started", "unit", u.ID.String())
	}

	for _, u := range o.units {
		if err := o.request(u.ID, bus.MsgStartupRequest); err != nil {
			return err
		}
		if err := o.await(u.ID, bus.MsgStartupAck, o.cfg.StartupAckTimeout); err != nil {
			return fmt.Errorf("unit %s not ready: %w", u.ID.String(), err)
		}
	}
	return nil
}

// request enqueues one command message to a unit.
func (o *Orchestrator) request(dest bus.UnitID, msgType bus.MsgType) error {
	err := o.registry.Send(bus.Message{
		Source: bus.UnitMain,
		Dest:   dest,
		Type:   msgType,
	}, o.cfg.SendTimeout)
	if err != nil {
		return fmt.Errorf("enqueue %s to %s: %w", msgType.String(), dest.String(), err)
	}
	o.log.Debug("request sent", "type", msgType.String(), "dest", dest.String())
	return nil
}

// await blocks until the expected success message arrives from the expected
// sender, the sender reports a task error, or the gate expires. Messages
// from other units are logged and skipped without consuming gate budget
// beyond the time they took to arrive.
func (o *Orchestrator) await(from bus.UnitID, want bus.MsgType, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return fmt.Errorf("%w: no %s from %s within %v",
				ErrPhaseTimeout, want.String(), from.String(), timeout)
		}

		msg, ok := o.registry.Receive(bus.UnitMain, remaining)
		if !ok {
			continue
		}
		if msg.Source != from {
			o.log.Warn("message from unexpected unit during gate",
				"source", msg.Source.String(), "type", msg.Type.String())
			continue
		}

		switch msg.Type {
		case want:
			o.log.Info("gate passed", "type", want.String(), "from", from.String())
			return nil
		case bus.MsgTaskError:
			return fmt.Errorf("%w: %s: %s", ErrUnitFailed, from.String(), msg.Text)
		default:
			o.log.Warn("unexpected message type during gate",
				"source", msg.Source.String(), "type", msg.Type.String())
		}
	}
}

// render puts a banner on the display, best effort.
func (o *Orchestrator) render(line1, line2 string) {
	if o.display == nil {
		return
	}
	if !o.display.RequestText(line1, line2, o.cfg.BannerHold) {
		o.log.Warn("display render failed", "line1", line1, "line2", line2)
	}
}

// steady drains the main channel until ctx is cancelled. Heartbeats are
// logged at debug level; anything else is unexpected this late.
func (o *Orchestrator) steady(ctx context.Context) error {
	o.log.Info("boot sequence complete, entering steady state")
	for {
		if ctx.Err() != nil {
			o.log.Info("steady loop stopped")
			return nil
		}
		msg, ok := o.registry.Receive(bus.UnitMain, o.cfg.SteadyPoll)
		if !ok {
			continue
		}
		switch msg.Type {
		case bus.MsgHeartbeat:
			o.log.Debug("heartbeat", "source", msg.Source.String())
		default:
			o.log.Warn("unexpected steady-state message",
				"source", msg.Source.String(), "type", msg.Type.String())
		}
	}
}

// abort performs the terminal transition: abort pattern once, runtime
// state Error, and a wrapped ErrAborted for the caller. Never retried.
func (o *Orchestrator) abort(cause error) error {
	o.log.Error("boot sequence aborted", "state", o.State().String(), "error", cause)
	o.setState(StateAbort)
	o.setRuntime(RuntimeError)
	o.ind.AbortPattern()
	return fmt.Errorf("%w: %w", ErrAborted, cause)
}
