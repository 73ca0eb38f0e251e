package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/bus"
	"github.com/nerrad567/gray-logic-node/internal/credentials"
)

// queueLength is the unit's receive channel capacity.
const queueLength = 8

// Logger defines the logging interface for the broker unit.
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

// LinkState is the broker unit's view of the wireless link.
type LinkState interface {
	Connected() bool
}

// StatusIndicator is the slice of the indicator the broker unit drives.
type StatusIndicator interface {
	BrokerConnecting()
	BrokerConnected()
	ActivityPulse()
	ErrorPattern()
}

// Recorder receives the handshake attempt count once the retry loop ends.
// Satisfied by the telemetry client.
type Recorder interface {
	WriteBrokerHandshake(attempts int, success bool)
}

// Config holds the handshake policy bounds.
type Config struct {
	// NodeID names this node in topics.
	NodeID string
	// QoS is the publish quality of service.
	QoS byte

	// ProbeTimeout bounds the raw reachability probe.
	ProbeTimeout time.Duration
	// HandshakeAttempts is the flat retry bound for the protocol handshake.
	HandshakeAttempts int
	// HandshakeDelay is the fixed delay between handshake attempts.
	// The retry spacing is flat, never escalating.
	HandshakeDelay time.Duration
	// ReceivePoll is the unit's message receive timeout per loop turn.
	ReceivePoll time.Duration
	// SendTimeout bounds report sends back to the orchestrator.
	SendTimeout time.Duration
}

// DefaultConfig returns the production handshake bounds: a 2 s probe and up
// to 10 handshake attempts at a fixed 200 ms spacing.
func DefaultConfig(nodeID string, qos byte) Config {
	return Config{
		NodeID:            nodeID,
		QoS:               qos,
		ProbeTimeout:      2 * time.Second,
		HandshakeAttempts: 10,
		HandshakeDelay:    200 * time.Millisecond,
		ReceivePoll:       100 * time.Millisecond,
		SendTimeout:       200 * time.Millisecond,
	}
}

// Unit is the broker connectivity execution unit.
type Unit struct {
	cfg      Config
	creds    credentials.ConnectionConfig
	registry *bus.Registry
	link     LinkState
	ind      StatusIndicator
	rec      Recorder
	log      Logger

	// probe and newClient are swappable seams; production wiring uses
	// DialProbe and NewPahoClient.
	probe     Prober
	newClient func() Client

	clientID string
	client   Client
}

// NewUnit creates the broker unit.
func NewUnit(cfg Config, creds credentials.ConnectionConfig, registry *bus.Registry,
	link LinkState, ind StatusIndicator, log Logger) *Unit {
	if log == nil {
		log = noopLogger{}
	}

	clientID, deterministic := ClientID()
	if !deterministic {
		log.Warn("no hardware identity readable, using random client id", "client_id", clientID)
	}

	u := &Unit{
		cfg:      cfg,
		creds:    creds,
		registry: registry,
		link:     link,
		ind:      ind,
		log:      log,
		probe:    DialProbe,
		clientID: clientID,
	}
	u.newClient = func() Client {
		return NewPahoClient(creds, cfg.NodeID, clientID, cfg.QoS)
	}
	return u
}

// SetRecorder wires a handshake recorder. Call before Start.
func (u *Unit) SetRecorder(rec Recorder) {
	u.rec = rec
}

// Start registers the unit's channel and launches its run loop.
func (u *Unit) Start(ctx context.Context) error {
	if err := u.registry.Register(bus.UnitBroker, queueLength); err != nil {
		return err
	}
	go u.run(ctx)
	return nil
}

// run services the unit's channel until ctx is cancelled.
func (u *Unit) run(ctx context.Context) {
	u.log.Info("broker unit loop started", "client_id", u.clientID)
	for {
		if ctx.Err() != nil {
			u.log.Info("broker unit loop stopped")
			return
		}

		msg, ok := u.registry.Receive(bus.UnitBroker, u.cfg.ReceivePoll)
		if !ok {
			continue
		}

		switch msg.Type {
		case bus.MsgStartupRequest:
			u.reply(bus.Message{
				Source: bus.UnitBroker,
				Dest:   msg.Source,
				Type:   bus.MsgStartupAck,
				Text:   "broker unit ready",
			})
		case bus.MsgBrokerInitRequest:
			u.handleInit(msg.Source)
		case bus.MsgPublishRequest:
			u.handlePublish(msg.Source)
		default:
			u.log.Warn("unexpected message", "type", msg.Type.String(), "source", msg.Source.String())
		}
	}
}

// handleInit runs the gated connect procedure and reports exactly one
// outcome message.
func (u *Unit) handleInit(requester bus.UnitID) {
	if err := u.connect(); err != nil {
		u.log.Error("broker init failed", "error", err)
		u.reply(bus.Message{
			Source: bus.UnitBroker,
			Dest:   requester,
			Type:   bus.MsgTaskError,
			Text:   err.Error(),
		})
		return
	}

	u.reply(bus.Message{
		Source:    bus.UnitBroker,
		Dest:      requester,
		Type:      bus.MsgBrokerInitDone,
		BoolValue: true,
		Text:      u.clientID,
	})
}

// connect enforces the gates, probes reachability, then runs the flat
// handshake retry loop.
func (u *Unit) connect() error {
	// Gate 1: link layer must already be up. No attempt otherwise.
	if !u.link.Connected() {
		if u.ind != nil {
			u.ind.ErrorPattern()
		}
		return ErrLinkDown
	}

	// Gate 2: the TLS variant is an explicit dead end for now.
	if u.creds.BrokerTLS {
		return fmt.Errorf("%w: broker %s:%d requested TLS", ErrTLSUnimplemented,
			u.creds.BrokerHost, u.creds.BrokerPort)
	}

	// Gate 3: raw reachability. A failed dial skips the handshake loop
	// entirely instead of hanging through ten protocol timeouts.
	if err := u.probe(u.creds.BrokerHost, u.creds.BrokerPort, u.cfg.ProbeTimeout); err != nil {
		u.log.Error("reachability probe failed, skipping handshake",
			"host", u.creds.BrokerHost, "port", u.creds.BrokerPort, "error", err)
		return err
	}
	u.log.Info("reachability probe succeeded", "host", u.creds.BrokerHost, "port", u.creds.BrokerPort)

	client := u.newClient()
	var lastErr error
	for attempt := 1; attempt <= u.cfg.HandshakeAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(u.cfg.HandshakeDelay)
		}
		if u.ind != nil {
			u.ind.BrokerConnecting()
		}

		if lastErr = client.Connect(); lastErr == nil {
			u.client = client
			if u.ind != nil {
				u.ind.BrokerConnected()
			}
			if u.rec != nil {
				u.rec.WriteBrokerHandshake(attempt, true)
			}
			u.log.Info("broker connected", "attempt", attempt, "client_id", u.clientID)
			return nil
		}
		u.log.Warn("handshake attempt failed", "attempt", attempt,
			"max", u.cfg.HandshakeAttempts, "error", lastErr)
	}

	if u.rec != nil {
		u.rec.WriteBrokerHandshake(u.cfg.HandshakeAttempts, false)
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrHandshakeExhausted,
		u.cfg.HandshakeAttempts, lastErr)
}

// handlePublish announces the node online and reports the outcome.
func (u *Unit) handlePublish(requester bus.UnitID) {
	if u.client == nil || !u.client.Connected() {
		u.log.Error("publish requested without a broker session")
		u.reply(bus.Message{
			Source: bus.UnitBroker,
			Dest:   requester,
			Type:   bus.MsgTaskError,
			Text:   ErrNotConnected.Error(),
		})
		return
	}

	topic := Topics{}.NodeStatus(u.cfg.NodeID)
	payload := buildOnlinePayload(u.clientID)
	if err := u.client.Publish(topic, []byte(payload), true); err != nil {
		u.log.Error("online publish failed", "topic", topic, "error", err)
		u.reply(bus.Message{
			Source: bus.UnitBroker,
			Dest:   requester,
			Type:   bus.MsgTaskError,
			Text:   err.Error(),
		})
		return
	}

	if u.ind != nil {
		u.ind.ActivityPulse()
	}
	u.log.Info("online status published", "topic", topic)
	u.reply(bus.Message{
		Source:    bus.UnitBroker,
		Dest:      requester,
		Type:      bus.MsgPublishDone,
		BoolValue: true,
		Text:      topic,
	})
}

// reply sends a message back to the orchestrator, logging any bus failure.
func (u *Unit) reply(msg bus.Message) {
	if err := u.registry.Send(msg, u.cfg.SendTimeout); err != nil {
		u.log.Error("failed to send reply", "type", msg.Type.String(), "error", err)
	}
}
