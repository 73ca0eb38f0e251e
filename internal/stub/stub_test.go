package stub

import (
	"context"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/bus"
)

func TestStubAnswersStartupRequest(t *testing.T) {
	registry := bus.NewRegistry()
	if err := registry.Register(bus.UnitMain, 8); err != nil {
		t.Fatalf("register main: %v", err)
	}

	roles := []bus.UnitID{
		bus.UnitHTTP, bus.UnitTCPIP, bus.UnitOTA,
		bus.UnitExternal, bus.UnitDisplay, bus.UnitInput,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, id := range roles {
		u := NewUnit(id, registry, nil)
		u.receivePoll = 5 * time.Millisecond
		if err := u.Start(ctx); err != nil {
			t.Fatalf("start %v: %v", id, err)
		}
	}

	for _, id := range roles {
		err := registry.Send(bus.Message{
			Source: bus.UnitMain,
			Dest:   id,
			Type:   bus.MsgStartupRequest,
		}, 100*time.Millisecond)
		if err != nil {
			t.Fatalf("send to %v: %v", id, err)
		}

		reply, ok := registry.Receive(bus.UnitMain, time.Second)
		if !ok {
			t.Fatalf("no startup ack from %v", id)
		}
		if reply.Type != bus.MsgStartupAck {
			t.Errorf("reply from %v: type %v, want StartupAck", id, reply.Type)
		}
		if reply.Source != id {
			t.Errorf("reply source %v, want %v", reply.Source, id)
		}
	}
}

func TestStubStartIsIdempotentPerRole(t *testing.T) {
	registry := bus.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u := NewUnit(bus.UnitDisplay, registry, nil)
	if err := u.Start(ctx); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := u.Start(ctx); err != nil {
		t.Fatalf("second start should warn, not fail: %v", err)
	}
}
