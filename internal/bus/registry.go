package bus

import (
	"fmt"
	"sync"
	"time"
)

// Logger defines the logging interface for the registry.
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

// Registry is the per-unit channel table.
//
// It is constructed once at startup and passed by reference into every
// component; there is no package-level instance. All methods are safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	channels map[UnitID]chan Message
	log      Logger
}

// NewRegistry creates an empty channel registry.
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[UnitID]chan Message),
		log:      noopLogger{},
	}
}

// SetLogger sets the logger used for registry diagnostics.
func (r *Registry) SetLogger(log Logger) {
	if log != nil {
		r.log = log
	}
}

// Register creates the bounded receive channel for a unit.
//
// Capacity is fixed for the life of the process; channels are never resized
// or removed. Registering an already-registered unit is idempotent: it logs a
// warning and succeeds without touching the existing channel.
//
// Returns:
//   - error: ErrInvalidUnit or ErrInvalidCapacity on bad arguments, nil otherwise
func (r *Registry) Register(id UnitID, capacity int) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidUnit, id)
	}
	if capacity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.channels[id]; exists {
		r.log.Warn("channel already registered, keeping existing", "unit", id.String())
		return nil
	}

	r.channels[id] = make(chan Message, capacity)
	r.log.Info("channel registered", "unit", id.String(), "capacity", capacity)
	return nil
}

// Send enqueues a message on the destination unit's channel.
//
// If the channel is full, Send blocks up to timeout waiting for space and
// then fails with ErrChannelFull; the message is either fully enqueued or not
// at all. Text fields are clamped to capacity before enqueueing.
//
// Parameters:
//   - msg: Message to deliver; msg.Dest selects the channel
//   - timeout: Maximum time to wait for channel space
//
// Returns:
//   - error: ErrChannelMissing, ErrChannelFull, or nil
func (r *Registry) Send(msg Message, timeout time.Duration) error {
	r.mu.RLock()
	ch, ok := r.channels[msg.Dest]
	r.mu.RUnlock()

	if !ok {
		r.log.Error("send failed, destination not registered",
			"dest", msg.Dest.String(), "type", msg.Type.String())
		return fmt.Errorf("%w: %s", ErrChannelMissing, msg.Dest)
	}

	msg = msg.normalized()

	// Fast path: space available right now.
	select {
	case ch <- msg:
		return nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- msg:
		return nil
	case <-timer.C:
		r.log.Error("send failed, channel full through timeout",
			"dest", msg.Dest.String(), "type", msg.Type.String(), "timeout", timeout)
		return fmt.Errorf("%w: %s", ErrChannelFull, msg.Dest)
	}
}

// Receive dequeues the next message for a unit.
//
// It blocks up to timeout. The second return value is false when the timeout
// expires with no message, or when the unit has no registered channel.
func (r *Registry) Receive(id UnitID, timeout time.Duration) (Message, bool) {
	r.mu.RLock()
	ch, ok := r.channels[id]
	r.mu.RUnlock()

	if !ok {
		r.log.Error("receive failed, channel not registered", "unit", id.String())
		return Message{}, false
	}

	select {
	case msg := <-ch:
		return msg, true
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-ch:
		return msg, true
	case <-timer.C:
		return Message{}, false
	}
}
