package panel

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeBus simulates the peripheral bus with a configurable set of responding
// addresses.
type fakeBus struct {
	mu        sync.Mutex
	responds  map[uint8]bool
	probes    []uint8
	rendered  []string
	clearCnt  int
}

func newFakeBus(responds ...uint8) *fakeBus {
	b := &fakeBus{responds: make(map[uint8]bool)}
	for _, addr := range responds {
		b.responds[addr] = true
	}
	return b
}

func (b *fakeBus) Probe(addr uint8) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.probes = append(b.probes, addr)
	return b.responds[addr]
}

func (b *fakeBus) Init(uint8) error { return nil }

func (b *fakeBus) Clear(uint8) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearCnt++
	return nil
}

func (b *fakeBus) WriteLine(_ uint8, row int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rendered = append(b.rendered, text)
	_ = row
	return nil
}

func (b *fakeBus) probeLog() []uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]uint8(nil), b.probes...)
}

func (b *fakeBus) renderedLines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.rendered...)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

// =============================================================================
// Address Detection Tests
// =============================================================================

func TestDetectionPrefersFirstCandidate(t *testing.T) {
	bus := newFakeBus(addressPreferred, addressFallback)
	a := NewArbiter(bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	if !a.RequestText("hello", "world", 0) {
		t.Fatal("RequestText() = false, want true")
	}

	waitFor(t, func() bool { return len(bus.renderedLines()) == 2 }, "render never happened")

	probes := bus.probeLog()
	if len(probes) != 1 || probes[0] != addressPreferred {
		t.Errorf("probes = %#v, want exactly one probe of %#02x", probes, addressPreferred)
	}
}

func TestDetectionFallsBack(t *testing.T) {
	bus := newFakeBus(addressFallback)
	a := NewArbiter(bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	a.RequestText("hello", "world", 0)
	waitFor(t, func() bool { return len(bus.renderedLines()) == 2 }, "render never happened")

	probes := bus.probeLog()
	want := []uint8{addressPreferred, addressFallback}
	if len(probes) != 2 || probes[0] != want[0] || probes[1] != want[1] {
		t.Errorf("probes = %#v, want %#v", probes, want)
	}
}

func TestDetectionFailureIsTerminal(t *testing.T) {
	bus := newFakeBus() // nothing responds
	a := NewArbiter(bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	// First request is accepted into the queue; detection fails during render.
	if !a.RequestText("hello", "world", 0) {
		t.Fatal("first RequestText() = false, want true (failure not yet known)")
	}

	waitFor(t, func() bool { return a.failed.Load() }, "arbiter never marked failed")
	probesAfterScan := len(bus.probeLog())

	for i := 0; i < 3; i++ {
		if a.RequestText("again", "", 0) {
			t.Fatalf("RequestText() %d after terminal failure = true, want false", i)
		}
	}

	if got := len(bus.probeLog()); got != probesAfterScan {
		t.Errorf("probe count grew from %d to %d, want no re-probe", probesAfterScan, got)
	}
	if got := len(bus.renderedLines()); got != 0 {
		t.Errorf("rendered %d lines, want 0", got)
	}
}

// =============================================================================
// Render Tests
// =============================================================================

func TestRenderOrderAndTruncation(t *testing.T) {
	bus := newFakeBus(addressPreferred)
	a := NewArbiter(bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	long := strings.Repeat("A", 40)
	a.RequestText(long, "short", 0)
	waitFor(t, func() bool { return len(bus.renderedLines()) == 2 }, "render never happened")

	lines := bus.renderedLines()
	if len(lines[0]) != Columns {
		t.Errorf("line1 length = %d, want truncated to %d", len(lines[0]), Columns)
	}
	if lines[1] != "short" {
		t.Errorf("line2 = %q, want %q", lines[1], "short")
	}
	if bus.clearCnt != 1 {
		t.Errorf("clear count = %d, want 1 (clear before write)", bus.clearCnt)
	}
}

func TestHoldDelaysNextRequest(t *testing.T) {
	bus := newFakeBus(addressPreferred)
	a := NewArbiter(bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	const hold = 100 * time.Millisecond
	start := time.Now()
	a.RequestText("first", "", hold)
	a.RequestText("second", "", 0)

	waitFor(t, func() bool { return len(bus.renderedLines()) == 4 }, "second render never happened")
	if elapsed := time.Since(start); elapsed < hold {
		t.Errorf("second render after %v, want at least the %v hold", elapsed, hold)
	}
}

// =============================================================================
// Register Packing Tests
// =============================================================================

func TestPackRow(t *testing.T) {
	packed := packRow("AB")
	if len(packed) != Columns {
		t.Fatalf("packed length = %d, want %d", len(packed), Columns)
	}
	if packed[0] != 'A' || packed[1] != 'B' {
		t.Errorf("packed prefix = %q, want \"AB\"", packed[:2])
	}
	for i := 2; i < Columns; i++ {
		if packed[i] != ' ' {
			t.Errorf("packed[%d] = %q, want space padding", i, packed[i])
		}
	}
}
