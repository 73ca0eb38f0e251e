package stub

import (
	"context"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/bus"
)

// queueLength is each stub's receive channel capacity.
const queueLength = 8

// Logger defines the logging interface for stub units.
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

// Unit is a placeholder execution unit for one peripheral role.
type Unit struct {
	id       bus.UnitID
	registry *bus.Registry
	log      Logger

	receivePoll time.Duration
	sendTimeout time.Duration
}

// NewUnit creates a stub unit for the given role.
func NewUnit(id bus.UnitID, registry *bus.Registry, log Logger) *Unit {
	if log == nil {
		log = noopLogger{}
	}
	return &Unit{
		id:          id,
		registry:    registry,
		log:         log,
		receivePoll: 100 * time.Millisecond,
		sendTimeout: 200 * time.Millisecond,
	}
}

// Start registers the unit's channel and launches its run loop.
func (u *Unit) Start(ctx context.Context) error {
	if err := u.registry.Register(u.id, queueLength); err != nil {
		return err
	}
	go u.run(ctx)
	return nil
}

func (u *Unit) run(ctx context.Context) {
	u.log.Debug("stub unit loop started", "unit", u.id.String())
	for {
		if ctx.Err() != nil {
			return
		}
		msg, ok := u.registry.Receive(u.id, u.receivePoll)
		if !ok {
			continue
		}

		switch msg.Type {
		case bus.MsgStartupRequest:
			err := u.registry.Send(bus.Message{
				Source: u.id,
				Dest:   msg.Source,
				Type:   bus.MsgStartupAck,
				Text:   u.id.String() + " stub ready",
			}, u.sendTimeout)
			if err != nil {
				u.log.Error("failed to send startup ack", "unit", u.id.String(), "error", err)
			}
		default:
			u.log.Warn("stub unit has no handler", "unit", u.id.String(),
				"type", msg.Type.String(), "source", msg.Source.String())
		}
	}
}
