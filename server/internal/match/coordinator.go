package match

import (
	"context"
	"fmt"

	"github.com/asynkron/protoactor-go/actor"

	"github.com/aojiaoxiaolinlin/game-server/server/internal/actor/messages"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/events"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/utils"
)

// SessionDirectory is what the coordinator needs from the session
// manager: presence checks and delivery.
type SessionDirectory interface {
	Get(playerID uint64) (*actor.PID, bool)
	Send(playerID uint64, message interface{}) bool
}

// RoomRegistry is what the coordinator needs from the room manager.
type RoomRegistry interface {
	CreateRoom(players [2]uint64) uint64
	RemoveRoom(roomID uint64)
}

// GameCoordinator turns matches into rooms and tears rooms down. It
// sits between the matchmaking service and the room manager so neither
// has to know about sessions.
type GameCoordinator struct {
	bus      *events.EventBus
	sessions SessionDirectory
	rooms    RoomRegistry
}

// NewGameCoordinator wires the coordinator to its collaborators.
func NewGameCoordinator(bus *events.EventBus, sessions SessionDirectory, rooms RoomRegistry) *GameCoordinator {
	return &GameCoordinator{bus: bus, sessions: sessions, rooms: rooms}
}

// Run consumes match and room-close events until the context is
// cancelled.
func (c *GameCoordinator) Run(ctx context.Context) {
	sub := c.bus.Subscribe()
	defer sub.Close()

	utils.LogInfo("[Coordinator] Service running.")
	for {
		select {
		case <-ctx.Done():
			utils.LogInfo("[Coordinator] Service stopped.")
			return
		case evt := <-sub.C():
			if lagged := sub.TakeLagged(); lagged > 0 {
				utils.LogWarnf("[Coordinator] Fell behind, %d events lost", lagged)
			}
			switch e := evt.(type) {
			case events.MatchFound:
				c.handleMatch(e.Players)
			case events.CloseRoom:
				c.rooms.RemoveRoom(e.RoomID)
			}
		}
	}
}

// handleMatch verifies both players are still connected before any room
// exists. If one side dropped between queueing and matching, the
// survivor goes back to the front of the matchmaking flow instead of
// entering a dead room.
func (c *GameCoordinator) handleMatch(players [2]uint64) {
	_, okA := c.sessions.Get(players[0])
	_, okB := c.sessions.Get(players[1])

	if !okA || !okB {
		utils.LogWarnf("[Coordinator] Match (%d, %d) cancelled: session missing", players[0], players[1])
		if okA {
			c.bus.Publish(events.PlayerReadyForMatchmaking{PlayerID: players[0]})
		}
		if okB {
			c.bus.Publish(events.PlayerReadyForMatchmaking{PlayerID: players[1]})
		}
		return
	}

	roomID := c.rooms.CreateRoom(players)
	c.sessions.Send(players[0], &messages.EnterRoom{RoomID: roomID, Opponent: playerName(players[1])})
	c.sessions.Send(players[1], &messages.EnterRoom{RoomID: roomID, Opponent: playerName(players[0])})
	c.bus.Publish(events.RoomCreated{RoomID: roomID, Players: players})
}

func playerName(playerID uint64) string {
	return fmt.Sprintf("player-%d", playerID)
}
