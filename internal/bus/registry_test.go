package bus

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// Register Tests
// =============================================================================

func TestRegister(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(UnitLink, 8); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
}

func TestRegisterIdempotent(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(UnitLink, 8); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if err := r.Register(UnitLink, 16); err != nil {
		t.Fatalf("second Register() error = %v, want nil (idempotent)", err)
	}

	// The original channel must survive: fill to its capacity of 8, the
	// ninth send must hit back-pressure.
	for i := 0; i < 8; i++ {
		if err := r.Send(Message{Dest: UnitLink}, 10*time.Millisecond); err != nil {
			t.Fatalf("Send() %d error = %v", i, err)
		}
	}
	err := r.Send(Message{Dest: UnitLink}, 10*time.Millisecond)
	if !errors.Is(err, ErrChannelFull) {
		t.Errorf("Send() on full channel error = %v, want ErrChannelFull", err)
	}
}

func TestRegisterInvalidArguments(t *testing.T) {
	tests := []struct {
		name     string
		id       UnitID
		capacity int
		want     error
	}{
		{"zero capacity", UnitLink, 0, ErrInvalidCapacity},
		{"negative capacity", UnitLink, -1, ErrInvalidCapacity},
		{"unknown unit", UnitUnknown, 8, ErrInvalidUnit},
		{"out of range unit", UnitID(200), 8, ErrInvalidUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			err := r.Register(tt.id, tt.capacity)
			if !errors.Is(err, tt.want) {
				t.Errorf("Register() error = %v, want %v", err, tt.want)
			}
		})
	}
}

// =============================================================================
// Send Tests
// =============================================================================

func TestSendUnregisteredDestination(t *testing.T) {
	r := NewRegistry()

	err := r.Send(Message{Dest: UnitBroker}, 10*time.Millisecond)
	if !errors.Is(err, ErrChannelMissing) {
		t.Errorf("Send() error = %v, want ErrChannelMissing", err)
	}
}

func TestSendFIFOOrder(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(UnitMain, 8); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	for i := int32(0); i < 5; i++ {
		if err := r.Send(Message{Dest: UnitMain, IntValue: i}, time.Second); err != nil {
			t.Fatalf("Send() %d error = %v", i, err)
		}
	}

	for i := int32(0); i < 5; i++ {
		msg, ok := r.Receive(UnitMain, time.Second)
		if !ok {
			t.Fatalf("Receive() %d returned no message", i)
		}
		if msg.IntValue != i {
			t.Errorf("Receive() %d IntValue = %d, want %d", i, msg.IntValue, i)
		}
	}
}

func TestSendUnblocksWhenSpaceFrees(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(UnitMain, 1); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Send(Message{Dest: UnitMain}, time.Second); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	// Drain after a short delay so the blocked Send succeeds within timeout.
	go func() {
		time.Sleep(20 * time.Millisecond)
		r.Receive(UnitMain, time.Second)
	}()

	if err := r.Send(Message{Dest: UnitMain}, time.Second); err != nil {
		t.Errorf("Send() error = %v, want nil after space freed", err)
	}
}

func TestSendClampsTextFields(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(UnitMain, 8); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	long := strings.Repeat("x", 200)
	if err := r.Send(Message{Dest: UnitMain, Text: long, Text2: long, Text3: long}, time.Second); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	msg, ok := r.Receive(UnitMain, time.Second)
	if !ok {
		t.Fatal("Receive() returned no message")
	}
	for _, text := range []string{msg.Text, msg.Text2, msg.Text3} {
		if len(text) != maxTextLen {
			t.Errorf("text field length = %d, want %d", len(text), maxTextLen)
		}
	}
}

// =============================================================================
// Receive Tests
// =============================================================================

func TestReceiveTimeout(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(UnitMain, 8); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	const timeout = 50 * time.Millisecond
	start := time.Now()
	_, ok := r.Receive(UnitMain, timeout)
	elapsed := time.Since(start)

	if ok {
		t.Error("Receive() on empty channel returned a message")
	}
	if elapsed < timeout {
		t.Errorf("Receive() returned after %v, want at least %v", elapsed, timeout)
	}
	if elapsed > time.Second {
		t.Errorf("Receive() blocked for %v, far beyond its timeout", elapsed)
	}
}

func TestReceiveUnregistered(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Receive(UnitBroker, 10*time.Millisecond)
	if ok {
		t.Error("Receive() on unregistered unit returned a message")
	}
}

// =============================================================================
// Identifier Tests
// =============================================================================

func TestUnitIDValid(t *testing.T) {
	if UnitUnknown.Valid() {
		t.Error("UnitUnknown.Valid() = true, want false")
	}
	if !UnitMain.Valid() || !UnitInput.Valid() {
		t.Error("boundary unit ids reported invalid")
	}
	if UnitID(11).Valid() {
		t.Error("UnitID(11).Valid() = true, want false")
	}
}
