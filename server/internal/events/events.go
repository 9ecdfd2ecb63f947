package events

import "github.com/aojiaoxiaolinlin/game-server/server/internal/protocol"

// Event is a transient notification carried on the EventBus. Events are
// never persisted; each live subscriber observes an event at most once.
type Event interface{}

// SendMessageToPlayer asks the connection handling the given player to
// forward the payload over the wire.
type SendMessageToPlayer struct {
	PlayerID uint64
	Payload  protocol.ServerPayload
}

// PlayerReadyForMatchmaking signals that a player wants to be matched.
type PlayerReadyForMatchmaking struct {
	PlayerID uint64
}

// MatchFound pairs two players; the coordinator reacts by creating a room.
type MatchFound struct {
	Players [2]uint64
}

// RoomCreated announces a newly created battle room.
type RoomCreated struct {
	RoomID  uint64
	Players [2]uint64
}

// CloseRoom asks the coordinator to tear down a room.
type CloseRoom struct {
	RoomID uint64
}
