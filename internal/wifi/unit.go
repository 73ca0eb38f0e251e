package wifi

import (
	"context"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/bus"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/logging"
)

// queueLength is the unit's receive channel capacity.
const queueLength = 8

// Logger defines the logging interface for the wifi unit.
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

// StatusIndicator is the slice of the indicator the wifi unit drives.
type StatusIndicator interface {
	LinkConnecting()
	LinkConnected()
}

// Recorder receives the terminal status of every association attempt.
// Satisfied by the telemetry client.
type Recorder interface {
	WriteLinkAttempt(attempt int, status string)
}

// Config holds the association procedure's bounds. Defaults reproduce the
// production timing; tests compress the durations.
type Config struct {
	// SSID and Secret are the network credentials.
	SSID   string
	Secret string

	// Attempts is the maximum number of association attempts.
	Attempts int
	// PollCount is the status polls per attempt.
	PollCount int
	// PollInterval is the delay between status polls.
	PollInterval time.Duration
	// SettleDelay is the pause between disabling and re-enabling the link.
	SettleDelay time.Duration
	// Backoff is the fixed delay between attempts.
	Backoff time.Duration
	// ReceivePoll is the unit's message receive timeout per loop turn.
	ReceivePoll time.Duration
	// SendTimeout bounds report sends back to the orchestrator.
	SendTimeout time.Duration
}

// DefaultConfig returns the production association bounds: 3 attempts of a
// 14-poll/500 ms budget (~7 s each) with a 1.2 s backoff between attempts.
func DefaultConfig(ssid, secret string) Config {
	return Config{
		SSID:         ssid,
		Secret:       secret,
		Attempts:     3,
		PollCount:    14,
		PollInterval: 500 * time.Millisecond,
		SettleDelay:  200 * time.Millisecond,
		Backoff:      1200 * time.Millisecond,
		ReceivePoll:  100 * time.Millisecond,
		SendTimeout:  200 * time.Millisecond,
	}
}

// Unit is the wireless link execution unit.
type Unit struct {
	cfg      Config
	driver   Driver
	registry *bus.Registry
	ind      StatusIndicator
	rec      Recorder
	log      Logger
}

// NewUnit creates the wifi unit. The indicator may be nil when no visual
// feedback is wanted.
func NewUnit(cfg Config, driver Driver, registry *bus.Registry, ind StatusIndicator, log Logger) *Unit {
	if log == nil {
		log = noopLogger{}
	}
	return &Unit{
		cfg:      cfg,
		driver:   driver,
		registry: registry,
		ind:      ind,
		log:      log,
	}
}

// SetRecorder wires an attempt recorder. Call before Start.
func (u *Unit) SetRecorder(rec Recorder) {
	u.rec = rec
}

// Start registers the unit's channel and launches its run loop.
func (u *Unit) Start(ctx context.Context) error {
	if err := u.registry.Register(bus.UnitLink, queueLength); err != nil {
		return err
	}
	go u.run(ctx)
	return nil
}

// run services the unit's channel until ctx is cancelled.
func (u *Unit) run(ctx context.Context) {
	u.log.Info("wifi unit loop started")
	for {
		if ctx.Err() != nil {
			u.log.Info("wifi unit loop stopped")
			return
		}

		msg, ok := u.registry.Receive(bus.UnitLink, u.cfg.ReceivePoll)
		if !ok {
			continue
		}

		switch msg.Type {
		case bus.MsgStartupRequest:
			u.reply(bus.Message{
				Source: bus.UnitLink,
				Dest:   msg.Source,
				Type:   bus.MsgStartupAck,
				Text:   "wifi unit ready",
			})
		case bus.MsgLinkInitRequest:
			u.handleInit(msg.Source)
		default:
			u.log.Warn("unexpected message", "type", msg.Type.String(), "source", msg.Source.String())
		}
	}
}

// handleInit runs the association procedure and reports exactly one outcome
// message to the requester.
func (u *Unit) handleInit(requester bus.UnitID) {
	u.log.Info("link init requested",
		"ssid", u.cfg.SSID,
		"secret", logging.MaskSecret(u.cfg.Secret),
	)

	addr, err := u.connect()
	if err != nil {
		u.log.Error("link init failed", "error", err)
		u.reply(bus.Message{
			Source: bus.UnitLink,
			Dest:   requester,
			Type:   bus.MsgTaskError,
			Text:   err.Error(),
		})
		return
	}

	if u.ind != nil {
		u.ind.LinkConnected()
	}
	u.reply(bus.Message{
		Source:    bus.UnitLink,
		Dest:      requester,
		Type:      bus.MsgLinkInitDone,
		BoolValue: true,
		Text:      addr,
	})
}

// connect performs up to cfg.Attempts association attempts and returns the
// acquired address on success.
func (u *Unit) connect() (string, error) {
	var lastStatus LinkStatus

	for attempt := 1; attempt <= u.cfg.Attempts; attempt++ {
		if attempt > 1 {
			time.Sleep(u.cfg.Backoff)
		}
		u.log.Info("association attempt", "attempt", attempt, "max", u.cfg.Attempts)

		addr, status, err := u.attempt()
		if err != nil {
			u.log.Warn("association attempt errored", "attempt", attempt, "error", err)
			u.record(attempt, "error")
			lastStatus = StatusIdle
			continue
		}
		u.record(attempt, status.String())
		if status == StatusAssociated {
			u.log.Info("link associated", "attempt", attempt, "address", addr)
			return addr, nil
		}

		lastStatus = status
		u.log.Warn("association attempt failed", "attempt", attempt, "status", status.String())
	}

	return "", &AssociationError{Attempts: u.cfg.Attempts, LastStatus: lastStatus}
}

// attempt forces a clean link state, begins association, and polls the
// status budget. It returns early on a conclusive failure status.
func (u *Unit) attempt() (string, LinkStatus, error) {
	// Clean slate: down, settle, station mode, no power saving.
	if err := u.driver.Disable(); err != nil {
		return "", StatusIdle, err
	}
	time.Sleep(u.cfg.SettleDelay)
	if err := u.driver.EnableStation(); err != nil {
		return "", StatusIdle, err
	}
	if err := u.driver.SetPowerSave(false); err != nil {
		// Not fatal: association works without it, just with worse latency.
		u.log.Warn("disabling link power save failed", "error", err)
	}

	if err := u.driver.Associate(u.cfg.SSID, u.cfg.Secret); err != nil {
		return "", StatusIdle, err
	}

	lastStatus := StatusConnecting
	for poll := 0; poll < u.cfg.PollCount; poll++ {
		if u.ind != nil {
			u.ind.LinkConnecting()
		}

		status, addr := u.driver.Status()
		lastStatus = status
		switch {
		case status == StatusAssociated:
			return addr, status, nil
		case status.conclusive():
			// No point burning the rest of the poll budget.
			u.log.Debug("conclusive failure, ending attempt early",
				"status", status.String(), "poll", poll+1)
			return "", status, nil
		}

		time.Sleep(u.cfg.PollInterval)
	}

	return "", lastStatus, nil
}

// record reports one attempt outcome to the recorder, if any.
func (u *Unit) record(attempt int, status string) {
	if u.rec != nil {
		u.rec.WriteLinkAttempt(attempt, status)
	}
}

// reply sends a message back to the orchestrator, logging any bus failure.
func (u *Unit) reply(msg bus.Message) {
	if err := u.registry.Send(msg, u.cfg.SendTimeout); err != nil {
		u.log.Error("failed to send reply", "type", msg.Type.String(), "error", err)
	}
}
