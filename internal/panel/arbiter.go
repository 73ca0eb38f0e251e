package panel

import (
	"context"
	"sync/atomic"
	"time"
)

// Queue sizing and pacing.
const (
	// requestQueueLength bounds the number of pending render requests.
	requestQueueLength = 8

	// enqueueTimeout is how long RequestText waits for queue space.
	enqueueTimeout = 200 * time.Millisecond
)

// Logger defines the logging interface for the arbiter.
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

// Request is one queued display render.
type Request struct {
	// Line1 and Line2 are the two display rows, at most Columns visible
	// characters each.
	Line1 string
	Line2 string

	// Hold, when nonzero, blocks the arbiter for that duration after
	// rendering before the next request is serviced.
	Hold time.Duration
}

// Arbiter is the sole owner of the peripheral bus.
//
// Start its run loop once with Run; submit renders with RequestText.
type Arbiter struct {
	bus      Bus
	requests chan Request
	log      Logger

	// failed flips to true when address detection exhausts both candidates.
	// Terminal: no automatic re-probe.
	failed atomic.Bool

	// Device detection state. Touched only from the run loop.
	detected bool
	addr     uint8
}

// NewArbiter creates the bus arbiter. The bus must not be used by any other
// code path once handed over.
func NewArbiter(bus Bus, log Logger) *Arbiter {
	if log == nil {
		log = noopLogger{}
	}
	return &Arbiter{
		bus:      bus,
		requests: make(chan Request, requestQueueLength),
		log:      log,
	}
}

// RequestText enqueues a two-line render.
//
// Lines are truncated to the display width. Returns false when the arbiter
// has terminally failed device detection, or when the queue stays full
// through the enqueue timeout.
func (a *Arbiter) RequestText(line1, line2 string, hold time.Duration) bool {
	if a.failed.Load() {
		return false
	}

	req := Request{
		Line1: truncateLine(line1),
		Line2: truncateLine(line2),
		Hold:  hold,
	}

	select {
	case a.requests <- req:
	default:
		timer := time.NewTimer(enqueueTimeout)
		defer timer.Stop()
		select {
		case a.requests <- req:
		case <-timer.C:
			a.log.Error("render request dropped, queue full",
				"line1", req.Line1, "line2", req.Line2)
			return false
		}
	}

	a.log.Debug("render request queued", "line1", req.Line1, "line2", req.Line2, "hold", hold)
	return true
}

// Run services render requests until ctx is cancelled. It must be called
// exactly once, on its own goroutine.
func (a *Arbiter) Run(ctx context.Context) {
	a.log.Info("panel arbiter loop started")
	for {
		select {
		case <-ctx.Done():
			a.log.Info("panel arbiter loop stopped")
			return
		case req := <-a.requests:
			if err := a.render(req); err != nil {
				a.log.Error("render failed", "line1", req.Line1, "line2", req.Line2, "error", err)
				continue
			}
			if req.Hold > 0 {
				// Deliberate blocking hold: the request asked for its
				// content to stay visible before the next render.
				time.Sleep(req.Hold)
			}
		}
	}
}

// render performs one atomic display update: detect (first time only),
// clear, line 1, line 2.
func (a *Arbiter) render(req Request) error {
	if err := a.ensureDetected(); err != nil {
		return err
	}

	if err := a.bus.Clear(a.addr); err != nil {
		return err
	}
	if err := a.bus.WriteLine(a.addr, 0, req.Line1); err != nil {
		return err
	}
	if err := a.bus.WriteLine(a.addr, 1, req.Line2); err != nil {
		return err
	}
	return nil
}

// ensureDetected probes the candidate addresses on first use and caches the
// result. A failed scan is terminal.
func (a *Arbiter) ensureDetected() error {
	if a.detected {
		return nil
	}
	if a.failed.Load() {
		return ErrNotDetected
	}

	for _, addr := range []uint8{addressPreferred, addressFallback} {
		if !a.bus.Probe(addr) {
			a.log.Debug("no response at candidate address", "addr", addr)
			continue
		}
		if err := a.bus.Init(addr); err != nil {
			a.log.Error("display init failed", "addr", addr, "error", err)
			continue
		}
		a.addr = addr
		a.detected = true
		a.log.Info("display detected", "addr", addr)
		return nil
	}

	a.failed.Store(true)
	a.log.Error("display detection failed, all render requests will be refused",
		"tried", []uint8{addressPreferred, addressFallback})
	return ErrNotDetected
}

// truncateLine clamps a line to the display width.
func truncateLine(s string) string {
	if len(s) <= Columns {
		return s
	}
	return s[:Columns]
}
