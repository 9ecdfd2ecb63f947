package session

import (
	"sync"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
)

// sink records every message an actor receives.
type sink struct {
	mu   sync.Mutex
	msgs []interface{}
}

func (s *sink) Receive(ctx actor.Context) {
	switch ctx.Message().(type) {
	case *actor.Started, *actor.Stopping, *actor.Stopped:
		return
	}
	s.mu.Lock()
	s.msgs = append(s.msgs, ctx.Message())
	s.mu.Unlock()
}

func (s *sink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}

func TestSessionManager(t *testing.T) {
	system := actor.NewActorSystem()
	manager := NewSessionManager(system.Root)

	t.Run("PlayerIDsAreMonotonic", func(t *testing.T) {
		first := manager.NextPlayerID()
		second := manager.NextPlayerID()
		if second != first+1 {
			t.Errorf("Expected consecutive ids, got %d then %d", first, second)
		}
	})

	t.Run("RegisterGetUnregister", func(t *testing.T) {
		recorder := &sink{}
		pid := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor { return recorder }))
		defer system.Root.Stop(pid)

		manager.Register(1, pid)
		if got, ok := manager.Get(1); !ok || !got.Equal(pid) {
			t.Error("Registered session not found")
		}
		if manager.Count() != 1 {
			t.Errorf("Expected 1 session, got %d", manager.Count())
		}

		manager.Unregister(1)
		if _, ok := manager.Get(1); ok {
			t.Error("Session should be gone after Unregister")
		}
		// Unknown ids are a no-op.
		manager.Unregister(99)
	})

	t.Run("RegisterOverwrites", func(t *testing.T) {
		first := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor { return &sink{} }))
		second := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor { return &sink{} }))
		defer system.Root.Stop(first)
		defer system.Root.Stop(second)

		manager.Register(2, first)
		manager.Register(2, second)
		if got, _ := manager.Get(2); !got.Equal(second) {
			t.Error("Re-registration should displace the old binding")
		}
		manager.Unregister(2)
	})

	t.Run("SendDelivers", func(t *testing.T) {
		recorder := &sink{}
		pid := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor { return recorder }))
		defer system.Root.Stop(pid)

		manager.Register(3, pid)
		defer manager.Unregister(3)

		if !manager.Send(3, "hello") {
			t.Fatal("Send to a live session should succeed")
		}
		deadline := time.Now().Add(2 * time.Second)
		for recorder.count() == 0 {
			if time.Now().After(deadline) {
				t.Fatal("Message never arrived")
			}
			time.Sleep(10 * time.Millisecond)
		}
	})

	t.Run("SendToAbsentIsNoOp", func(t *testing.T) {
		if manager.Send(1234, "hello") {
			t.Error("Send without a session should report false")
		}
	})
}
