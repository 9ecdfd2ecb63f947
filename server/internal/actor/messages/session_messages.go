package messages

import (
	"github.com/aojiaoxiaolinlin/game-server/server/internal/protocol"
)

// ClientFrame wraps a decoded wire message and is sent by the connection
// reader to the owning PlayerActor.
type ClientFrame struct {
	Message protocol.ClientMessage
}

// EnterRoom tells a PlayerActor it has been placed in a battle room.
type EnterRoom struct {
	RoomID   uint64
	Opponent string
}

// OpponentEscaped informs a PlayerActor that the other side fled and the
// battle is over.
type OpponentEscaped struct {
	PlayerID uint64
}

// Disconnect is sent by the connection handler when the socket closes.
// The PlayerActor cleans up its registrations and stops.
type Disconnect struct{}
