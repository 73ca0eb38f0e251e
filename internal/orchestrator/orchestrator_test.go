package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/bus"
)

// =============================================================================
// Test Fakes
// =============================================================================

type fakeIndicator struct {
	mu      sync.Mutex
	booting int
	aborts  int
}

func (f *fakeIndicator) Booting() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.booting++
}

func (f *fakeIndicator) AbortPattern() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aborts++
}

func (f *fakeIndicator) abortCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.aborts
}

// fakeRecorder captures the phase points the orchestrator emits.
type fakeRecorder struct {
	mu     sync.Mutex
	phases []phaseRecord
}

type phaseRecord struct {
	phase   string
	success bool
}

func (f *fakeRecorder) WriteBootPhase(phase string, duration time.Duration, success bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phases = append(f.phases, phaseRecord{phase: phase, success: success})
}

func (f *fakeRecorder) recorded() []phaseRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]phaseRecord(nil), f.phases...)
}

// fakeRenderer records each banner together with the sequence state at the
// moment the render was requested.
type fakeRenderer struct {
	mu      sync.Mutex
	stateAt func() State
	renders []renderEvent
}

type renderEvent struct {
	line2 string
	state State
}

func (f *fakeRenderer) RequestText(line1, line2 string, hold time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renders = append(f.renders, renderEvent{line2: line2, state: f.stateAt()})
	return true
}

// scriptedUnit answers bus messages from its own goroutine. A nil reply in
// the script means the request is swallowed without an answer.
type scriptedUnit struct {
	id       bus.UnitID
	registry *bus.Registry
	replies  map[bus.MsgType]bus.MsgType
	delay    time.Duration

	mu       sync.Mutex
	received []bus.MsgType
}

func (u *scriptedUnit) start(ctx context.Context) error {
	if err := u.registry.Register(u.id, 8); err != nil {
		return err
	}
	go func() {
		for ctx.Err() == nil {
			msg, ok := u.registry.Receive(u.id, 5*time.Millisecond)
			if !ok {
				continue
			}
			u.mu.Lock()
			u.received = append(u.received, msg.Type)
			u.mu.Unlock()

			replyType, answered := u.replies[msg.Type]
			if !answered {
				continue
			}
			if u.delay > 0 {
				time.Sleep(u.delay)
			}
			_ = u.registry.Send(bus.Message{
				Source:    u.id,
				Dest:      msg.Source,
				Type:      replyType,
				BoolValue: replyType != bus.MsgTaskError,
			}, 100*time.Millisecond)
		}
	}()
	return nil
}

func (u *scriptedUnit) sawRequest(t bus.MsgType) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, r := range u.received {
		if r == t {
			return true
		}
	}
	return false
}

// =============================================================================
// Test Harness
// =============================================================================

func testConfig() Config {
	return Config{
		LinkTimeout:       200 * time.Millisecond,
		BrokerTimeout:     200 * time.Millisecond,
		PublishTimeout:    200 * time.Millisecond,
		StartupAckTimeout: 200 * time.Millisecond,
		SendTimeout:       100 * time.Millisecond,
		SteadyPoll:        5 * time.Millisecond,
		BannerHold:        0,
	}
}

type harness struct {
	orch   *Orchestrator
	ind    *fakeIndicator
	disp   *fakeRenderer
	rec    *fakeRecorder
	link   *scriptedUnit
	broker *scriptedUnit
}

func newHarness(t *testing.T, cfg Config, link, broker *scriptedUnit) *harness {
	t.Helper()

	registry := bus.NewRegistry()
	link.registry = registry
	broker.registry = registry

	h := &harness{
		ind:    &fakeIndicator{},
		disp:   &fakeRenderer{},
		rec:    &fakeRecorder{},
		link:   link,
		broker: broker,
	}

	units := []Unit{
		{ID: link.id, Start: link.start},
		{ID: broker.id, Start: broker.start},
	}
	h.orch = New(cfg, registry, units, h.ind, h.disp, nil, nil)
	h.orch.SetRecorder(h.rec)
	h.disp.stateAt = h.orch.State
	return h
}

func healthyLink() *scriptedUnit {
	return &scriptedUnit{
		id: bus.UnitLink,
		replies: map[bus.MsgType]bus.MsgType{
			bus.MsgStartupRequest:  bus.MsgStartupAck,
			bus.MsgLinkInitRequest: bus.MsgLinkInitDone,
		},
		// Two association attempts' worth of settling before success.
		delay: 10 * time.Millisecond,
	}
}

func healthyBroker() *scriptedUnit {
	return &scriptedUnit{
		id: bus.UnitBroker,
		replies: map[bus.MsgType]bus.MsgType{
			bus.MsgStartupRequest:    bus.MsgStartupAck,
			bus.MsgBrokerInitRequest: bus.MsgBrokerInitDone,
			bus.MsgPublishRequest:    bus.MsgPublishDone,
		},
	}
}

func waitForState(t *testing.T, orch *Orchestrator, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if orch.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("state never reached %v, stuck at %v", want, orch.State())
}

// =============================================================================
// Boot Sequence Tests
// =============================================================================

func TestRunHappyPath(t *testing.T) {
	h := newHarness(t, testConfig(), healthyLink(), healthyBroker())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.orch.Run(ctx) }()

	waitForState(t, h.orch, StateSteady)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	want := []State{
		StateBoot, StateBusReady, StateConfigLoaded, StateUnitsStarted,
		StateLinkRequested, StateLinkReady, StateBrokerRequested,
		StateBrokerReady, StatePublished, StateSteady,
	}
	got := h.orch.History()
	if len(got) != len(want) {
		t.Fatalf("state history length %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if h.orch.Runtime() != RuntimeNormal {
		t.Errorf("runtime state = %v, want normal", h.orch.Runtime())
	}

	h.disp.mu.Lock()
	defer h.disp.mu.Unlock()
	if len(h.disp.renders) != 2 {
		t.Fatalf("expected 2 renders, got %d", len(h.disp.renders))
	}
	if h.disp.renders[0].line2 != "START" || h.disp.renders[0].state != StateUnitsStarted {
		t.Errorf("first render %+v, want START before link request", h.disp.renders[0])
	}
	if h.disp.renders[1].line2 != "DONE" || h.disp.renders[1].state != StatePublished {
		t.Errorf("second render %+v, want DONE at published", h.disp.renders[1])
	}
}

func TestRunRecordsEveryPhaseTransition(t *testing.T) {
	h := newHarness(t, testConfig(), healthyLink(), healthyBroker())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.orch.Run(ctx) }()

	waitForState(t, h.orch, StateSteady)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	want := []string{
		"bus_ready", "config_loaded", "units_started", "link_requested",
		"link_ready", "broker_requested", "broker_ready", "published", "steady",
	}
	got := h.rec.recorded()
	if len(got) != len(want) {
		t.Fatalf("recorded %d phase points, want %d: %v", len(got), len(want), got)
	}
	for i, phase := range want {
		if got[i].phase != phase {
			t.Errorf("record %d phase = %q, want %q", i, got[i].phase, phase)
		}
		if !got[i].success {
			t.Errorf("record %d (%s) marked failed on the happy path", i, got[i].phase)
		}
	}
}

func TestRunAbortsOnLinkTimeout(t *testing.T) {
	link := healthyLink()
	// Startup handshake works but the link request is never answered.
	delete(link.replies, bus.MsgLinkInitRequest)
	cfg := testConfig()
	cfg.LinkTimeout = 50 * time.Millisecond
	h := newHarness(t, cfg, link, healthyBroker())

	err := h.orch.Run(context.Background())

	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if !errors.Is(err, ErrPhaseTimeout) {
		t.Errorf("expected ErrPhaseTimeout cause, got %v", err)
	}
	if h.orch.State() != StateAbort {
		t.Errorf("state = %v, want abort", h.orch.State())
	}
	if h.orch.Runtime() != RuntimeError {
		t.Errorf("runtime state = %v, want error", h.orch.Runtime())
	}
	if got := h.ind.abortCount(); got != 1 {
		t.Errorf("abort pattern shown %d times, want exactly 1", got)
	}
	if h.broker.sawRequest(bus.MsgBrokerInitRequest) {
		t.Error("broker init request issued despite link abort")
	}
	phases := h.rec.recorded()
	if len(phases) == 0 {
		t.Fatal("no phase points recorded before abort")
	}
	last := phases[len(phases)-1]
	if last.phase != "abort" || last.success {
		t.Errorf("final phase record = %+v, want failed abort", last)
	}
}

func TestRunAbortsOnTaskError(t *testing.T) {
	link := healthyLink()
	link.replies[bus.MsgLinkInitRequest] = bus.MsgTaskError
	h := newHarness(t, testConfig(), link, healthyBroker())

	err := h.orch.Run(context.Background())

	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if !errors.Is(err, ErrUnitFailed) {
		t.Errorf("expected ErrUnitFailed cause, got %v", err)
	}
	if got := h.ind.abortCount(); got != 1 {
		t.Errorf("abort pattern shown %d times, want exactly 1", got)
	}
	if h.broker.sawRequest(bus.MsgBrokerInitRequest) {
		t.Error("broker init request issued despite link failure")
	}
}

func TestRunAbortsOnMissingStartupAck(t *testing.T) {
	link := healthyLink()
	delete(link.replies, bus.MsgStartupRequest)
	cfg := testConfig()
	cfg.StartupAckTimeout = 30 * time.Millisecond
	h := newHarness(t, cfg, link, healthyBroker())

	err := h.orch.Run(context.Background())

	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if h.link.sawRequest(bus.MsgLinkInitRequest) {
		t.Error("link init requested despite failed readiness roll call")
	}
}

func TestRunContinuesWhenConfigLoaderWarns(t *testing.T) {
	h := newHarness(t, testConfig(), healthyLink(), healthyBroker())
	h.orch.loadConfig = func(ctx context.Context) error {
		return errors.New("store not provisioned")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.orch.Run(ctx) }()

	waitForState(t, h.orch, StateSteady)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run returned error: %v", err)
	}
}
