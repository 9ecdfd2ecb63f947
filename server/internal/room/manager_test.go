package room

import (
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"github.com/aojiaoxiaolinlin/game-server/server/configs"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/events"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/game"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/session"
)

func newTestRoomManager() *RoomManager {
	system := actor.NewActorSystem()
	bus := events.NewEventBus()
	sessions := session.NewSessionManager(system.Root)
	resolver := game.NewResolver(game.DefaultAttributeTable(), 100)
	return NewRoomManager(system.Root, bus, sessions, resolver, configs.DefaultBattleConfig())
}

func TestRoomManager(t *testing.T) {
	manager := newTestRoomManager()

	t.Run("RoomIDsAreMonotonic", func(t *testing.T) {
		first := manager.CreateRoom([2]uint64{1, 2})
		second := manager.CreateRoom([2]uint64{3, 4})
		if first != 1 || second != 2 {
			t.Errorf("Expected room ids 1 and 2, got %d and %d", first, second)
		}
		if manager.LatestRoomID() != 2 {
			t.Errorf("Expected latest id 2, got %d", manager.LatestRoomID())
		}
		if manager.RoomCount() != 2 {
			t.Errorf("Expected 2 rooms, got %d", manager.RoomCount())
		}
	})

	t.Run("GetSender", func(t *testing.T) {
		if _, ok := manager.GetSender(1); !ok {
			t.Error("Live room should be addressable")
		}
		if _, ok := manager.GetSender(99); ok {
			t.Error("Unknown room should not resolve")
		}
	})

	t.Run("RemoveRoomIsImmediate", func(t *testing.T) {
		manager.RemoveRoom(1)
		// The registry entry is gone as soon as RemoveRoom returns,
		// even though the actor stops asynchronously.
		if _, ok := manager.GetSender(1); ok {
			t.Error("Removed room must not be addressable")
		}
		if manager.RoomCount() != 1 {
			t.Errorf("Expected 1 room left, got %d", manager.RoomCount())
		}
		// Removing again is a no-op.
		manager.RemoveRoom(1)
	})

	t.Run("RoomIDsNeverReused", func(t *testing.T) {
		third := manager.CreateRoom([2]uint64{5, 6})
		if third != 3 {
			t.Errorf("Removed room id must not be reused, got %d", third)
		}
	})

	t.Run("CloseAll", func(t *testing.T) {
		for id := uint64(1); id <= manager.LatestRoomID(); id++ {
			manager.RemoveRoom(id)
		}
		deadline := time.Now().Add(time.Second)
		for manager.RoomCount() != 0 {
			if time.Now().After(deadline) {
				t.Fatalf("Expected 0 rooms, got %d", manager.RoomCount())
			}
			time.Sleep(10 * time.Millisecond)
		}
	})
}
