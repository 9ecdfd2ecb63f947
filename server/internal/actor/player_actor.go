package actor

import (
	"fmt"

	"github.com/asynkron/protoactor-go/actor"

	"github.com/aojiaoxiaolinlin/game-server/server/internal/actor/messages"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/events"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/game"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/protocol"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/security"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/utils"
)

// RoomDirectory resolves a room id to the mailbox of its RoomActor.
// Implemented by the room manager; declared here so the actor package
// does not depend on it.
type RoomDirectory interface {
	GetSender(roomID uint64) (*actor.PID, bool)
}

// SessionRegistry is the subset of the session manager the actors need:
// delivering a message to another player's actor and dropping one's own
// registration on disconnect.
type SessionRegistry interface {
	Send(playerID uint64, message interface{}) bool
	Unregister(playerID uint64)
}

// PlayerActor owns one authenticated connection's game state. Frames
// decoded by the connection reader arrive as ClientFrame messages;
// everything the actor wants the client to see goes out through the bus
// as SendMessageToPlayer, picked up by the connection writer.
type PlayerActor struct {
	session  *PlayerSession
	bus      *events.EventBus
	tokens   *security.TokenManager
	teams    game.TeamProvider
	rooms    RoomDirectory
	sessions SessionRegistry

	roomID uint64 // 0 while not in a battle
}

// NewPlayerActor creates the actor for a freshly authenticated player.
// The session carries the counters established during the handshake.
func NewPlayerActor(session *PlayerSession, bus *events.EventBus, tokens *security.TokenManager,
	teams game.TeamProvider, rooms RoomDirectory, sessions SessionRegistry) actor.Actor {
	return &PlayerActor{
		session:  session,
		bus:      bus,
		tokens:   tokens,
		teams:    teams,
		rooms:    rooms,
		sessions: sessions,
	}
}

// PlayerProps creates actor.Props for a PlayerActor with a bounded
// mailbox, so a flooding connection blocks its own reader instead of
// growing the queue without limit.
func PlayerProps(session *PlayerSession, bus *events.EventBus, tokens *security.TokenManager,
	teams game.TeamProvider, rooms RoomDirectory, sessions SessionRegistry, mailboxCapacity int) *actor.Props {
	return actor.PropsFromProducer(func() actor.Actor {
		return NewPlayerActor(session, bus, tokens, teams, rooms, sessions)
	}, actor.WithMailbox(actor.Bounded(mailboxCapacity)))
}

// Receive is the message handling loop for the PlayerActor.
func (a *PlayerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		utils.LogDebugf("[PlayerActor %d] Started.", a.session.PlayerID)

	case *messages.ClientFrame:
		a.handleClientFrame(ctx, msg.Message)

	case *messages.EnterRoom:
		a.handleEnterRoom(ctx, msg)

	case *messages.OpponentEscaped:
		a.roomID = 0
		a.sendToClient(protocol.ServerPayload{
			Type:   protocol.ServerTypeBattleEnded,
			Winner: a.session.PlayerID,
			Reason: "opponent escaped",
		})

	case *messages.Disconnect:
		utils.LogInfof("[PlayerActor %d] Disconnected.", a.session.PlayerID)
		a.sessions.Unregister(a.session.PlayerID)
		ctx.Stop(ctx.Self())

	case *actor.Stopping:
		utils.LogDebugf("[PlayerActor %d] Stopping.", a.session.PlayerID)

	case *actor.Stopped:
		utils.LogDebugf("[PlayerActor %d] Stopped.", a.session.PlayerID)
	}
}

// handleClientFrame gates the frame on its sequence number, then
// interprets the body. Replays and gaps are dropped before any payload
// inspection.
func (a *PlayerActor) handleClientFrame(ctx actor.Context, msg protocol.ClientMessage) {
	if !a.session.CheckClientSequence(msg.Sequence) {
		utils.LogDebugf("[PlayerActor %d] Dropping frame with sequence %d (last accepted %d)",
			a.session.PlayerID, msg.Sequence, a.session.LastClientSequence())
		return
	}

	switch msg.Type {
	case protocol.ClientTypePing:
		a.sendToClient(protocol.ServerPayload{Type: protocol.ServerTypePong})

	case protocol.ClientTypeAuthenticated:
		claims, err := a.tokens.Validate(msg.Token)
		if err != nil || claims.PlayerID != a.session.PlayerID {
			utils.LogWarnf("[PlayerActor %d] Rejected authenticated frame: %v", a.session.PlayerID, err)
			a.sendToClient(protocol.ServerPayload{Type: protocol.ServerTypeAuthFailed})
			return
		}
		if msg.Action != nil {
			a.dispatchAction(ctx, msg.Action)
		}

	default:
		// register/login are handshake-only; anything else is noise.
		utils.LogDebugf("[PlayerActor %d] Ignoring frame type %q", a.session.PlayerID, msg.Type)
	}
}

// dispatchAction handles the game action inside a verified envelope.
func (a *PlayerActor) dispatchAction(ctx actor.Context, action *protocol.ClientAction) {
	switch action.Type {
	case protocol.ActionTypeChat:
		a.sendToClient(protocol.ServerPayload{
			Type:    protocol.ServerTypeChat,
			Content: fmt.Sprintf("player %d says: %s", a.session.PlayerID, action.Content),
		})

	case protocol.ActionTypeMove:
		utils.LogDebugf("[PlayerActor %d] Moved to (%.1f, %.1f, %.1f)",
			a.session.PlayerID, action.X, action.Y, action.Z)

	case protocol.ActionTypeSpriteTeam:
		team, err := a.teams.FetchTeam(a.session.PlayerID)
		if err != nil {
			utils.LogErrorf("[PlayerActor %d] Team fetch failed: %v", a.session.PlayerID, err)
			a.sendToClient(protocol.ServerPayload{
				Type:   protocol.ServerTypeActionRejected,
				Reason: "sprite team unavailable",
			})
			return
		}
		a.sendToClient(protocol.ServerPayload{Type: protocol.ServerTypeSpriteTeam, Sprites: team})

	case protocol.ActionTypeReadyForMatch:
		a.bus.Publish(events.PlayerReadyForMatchmaking{PlayerID: a.session.PlayerID})

	case protocol.ActionTypeRoomAction:
		a.forwardRoomAction(ctx, action.Room)

	default:
		utils.LogDebugf("[PlayerActor %d] Ignoring action type %q", a.session.PlayerID, action.Type)
	}
}

// forwardRoomAction translates an in-match action and sends it to the
// player's current room. Actions while roomless, or after the room is
// gone, are dropped silently.
func (a *PlayerActor) forwardRoomAction(ctx actor.Context, room *protocol.RoomAction) {
	if room == nil || a.roomID == 0 {
		return
	}
	pid, ok := a.rooms.GetSender(a.roomID)
	if !ok {
		utils.LogDebugf("[PlayerActor %d] Room %d is gone, dropping action", a.session.PlayerID, a.roomID)
		return
	}

	var msg interface{}
	switch room.Type {
	case protocol.RoomActionSkillAttack:
		msg = &messages.SkillAttack{PlayerID: a.session.PlayerID, SkillID: room.SkillID}
	case protocol.RoomActionSwitchSprite:
		msg = &messages.SwitchSprite{PlayerID: a.session.PlayerID, SpriteIndex: room.SpriteIndex}
	case protocol.RoomActionUseItem:
		msg = &messages.UseItem{PlayerID: a.session.PlayerID, ItemID: room.ItemID}
	case protocol.RoomActionEscape:
		msg = &messages.EscapeRoom{PlayerID: a.session.PlayerID}
		a.roomID = 0
	default:
		return
	}
	ctx.Send(pid, msg)
}

// handleEnterRoom records the room placement, tells the client, and
// submits the player's roster so the battle can begin.
func (a *PlayerActor) handleEnterRoom(ctx actor.Context, msg *messages.EnterRoom) {
	a.roomID = msg.RoomID
	a.sendToClient(protocol.ServerPayload{
		Type:     protocol.ServerTypeEnterRoom,
		RoomID:   msg.RoomID,
		Opponent: msg.Opponent,
	})

	team, err := a.teams.FetchTeam(a.session.PlayerID)
	if err != nil {
		utils.LogErrorf("[PlayerActor %d] Team fetch for room %d failed: %v", a.session.PlayerID, msg.RoomID, err)
		return
	}
	if pid, ok := a.rooms.GetSender(msg.RoomID); ok {
		ctx.Send(pid, &messages.SubmitSpriteTeam{PlayerID: a.session.PlayerID, Team: team})
	}
}

func (a *PlayerActor) sendToClient(payload protocol.ServerPayload) {
	a.bus.Publish(events.SendMessageToPlayer{PlayerID: a.session.PlayerID, Payload: payload})
}
