package actor

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/scheduler"

	"github.com/aojiaoxiaolinlin/game-server/server/configs"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/actor/messages"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/events"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/game"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/model"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/protocol"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/utils"
)

// phaseTick is the room's self-scheduled timeout poll.
type phaseTick struct{}

// RoomActor runs one two-player battle. It owns the phase machine and
// both sides' battle state; all mutation happens inside the mailbox, so
// no locking is needed.
type RoomActor struct {
	roomID   uint64
	players  [2]uint64
	bus      *events.EventBus
	sessions SessionRegistry
	resolver *game.Resolver
	cfg      *configs.BattleConfig

	pk         PKState
	match      *MatchState
	cancelTick scheduler.CancelFunc
}

// NewRoomActor creates the actor for a freshly matched pair.
func NewRoomActor(roomID uint64, players [2]uint64, bus *events.EventBus,
	sessions SessionRegistry, resolver *game.Resolver, cfg *configs.BattleConfig) actor.Actor {
	return &RoomActor{
		roomID:   roomID,
		players:  players,
		bus:      bus,
		sessions: sessions,
		resolver: resolver,
		cfg:      cfg,
		match:    NewMatchState(),
	}
}

// RoomProps creates actor.Props for a RoomActor with a bounded mailbox.
func RoomProps(roomID uint64, players [2]uint64, bus *events.EventBus,
	sessions SessionRegistry, resolver *game.Resolver, cfg *configs.BattleConfig) *actor.Props {
	return actor.PropsFromProducer(func() actor.Actor {
		return NewRoomActor(roomID, players, bus, sessions, resolver, cfg)
	}, actor.WithMailbox(actor.Bounded(cfg.MailboxCapacity)))
}

// Receive is the message handling loop for the RoomActor.
func (a *RoomActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		utils.LogInfof("[RoomActor %d] Started for players %d and %d.", a.roomID, a.players[0], a.players[1])
		// The team-selection deadline is armed immediately so a pair
		// that never submits still gets cleaned up.
		a.pk.StartWaitingTeams(a.cfg.TeamTimeout())
		a.cancelTick = scheduler.NewTimerScheduler(ctx).SendRepeatedly(
			a.cfg.TickInterval(), a.cfg.TickInterval(), ctx.Self(), &phaseTick{})

	case *phaseTick:
		a.handleTick(ctx)

	case *messages.SubmitSpriteTeam:
		a.handleSubmitTeam(msg)

	case *messages.SkillAttack:
		a.handleAction(msg.PlayerID, game.Action{Kind: game.ActionSkillAttack, SkillID: msg.SkillID})

	case *messages.SwitchSprite:
		a.handleSwitchSprite(msg)

	case *messages.UseItem:
		a.handleAction(msg.PlayerID, game.Action{Kind: game.ActionUseItem, ItemID: msg.ItemID})

	case *messages.EscapeRoom:
		a.handleEscape(msg.PlayerID)

	case *messages.CloseRoom:
		utils.LogInfof("[RoomActor %d] Closing.", a.roomID)
		ctx.Stop(ctx.Self())

	case *actor.Stopping:
		if a.cancelTick != nil {
			a.cancelTick()
		}

	case *actor.Stopped:
		utils.LogDebugf("[RoomActor %d] Stopped.", a.roomID)
	}
}

func (a *RoomActor) handleSubmitTeam(msg *messages.SubmitSpriteTeam) {
	if !a.isMember(msg.PlayerID) || a.pk.Phase != PhaseWaitingSpriteTeams {
		return
	}
	if len(msg.Team) == 0 {
		a.sendTo(msg.PlayerID, protocol.ServerPayload{
			Type:   protocol.ServerTypeActionRejected,
			Reason: "empty sprite team",
		})
		return
	}
	a.match.SubmitTeam(msg.PlayerID, msg.Team)
	utils.LogDebugf("[RoomActor %d] Player %d submitted a team of %d.", a.roomID, msg.PlayerID, len(msg.Team))

	if a.match.TeamsReady() {
		a.pk.StartWaitingSkill(a.cfg.TurnTimeout())
		utils.LogInfof("[RoomActor %d] Both teams in, battle begins.", a.roomID)
	}
}

// handleAction records a player's choice for the current turn and
// resolves as soon as every side that can act has chosen.
func (a *RoomActor) handleAction(playerID uint64, action game.Action) {
	if !a.isMember(playerID) {
		return
	}
	if a.pk.Phase != PhaseWaitingSkillAttack {
		a.sendTo(playerID, protocol.ServerPayload{
			Type:   protocol.ServerTypeActionRejected,
			Reason: "room is not accepting actions",
		})
		return
	}
	a.match.RecordAction(playerID, action)
	if a.match.ActionsReady() {
		a.resolveTurn()
	}
}

// handleSwitchSprite validates the target slot before recording the
// switch. A fainted or out-of-range target is rejected without touching
// the match state.
func (a *RoomActor) handleSwitchSprite(msg *messages.SwitchSprite) {
	if !a.isMember(msg.PlayerID) {
		return
	}
	if a.pk.Phase != PhaseWaitingSkillAttack {
		a.sendTo(msg.PlayerID, protocol.ServerPayload{
			Type:   protocol.ServerTypeActionRejected,
			Reason: "room is not accepting actions",
		})
		return
	}
	if err := a.match.ValidateSwitch(msg.PlayerID, msg.SpriteIndex); err != nil {
		a.sendTo(msg.PlayerID, protocol.ServerPayload{
			Type:   protocol.ServerTypeActionRejected,
			Reason: err.Error(),
		})
		return
	}
	a.handleAction(msg.PlayerID, game.Action{Kind: game.ActionSwitchSprite, SpriteIndex: msg.SpriteIndex})
}

func (a *RoomActor) handleEscape(playerID uint64) {
	if !a.isMember(playerID) || a.pk.Phase == PhaseEnded {
		return
	}
	opponent := a.opponentOf(playerID)
	utils.LogInfof("[RoomActor %d] Player %d escaped, player %d wins.", a.roomID, playerID, opponent)

	a.sessions.Send(opponent, &messages.OpponentEscaped{PlayerID: playerID})
	a.sendTo(playerID, protocol.ServerPayload{
		Type:   protocol.ServerTypeBattleEnded,
		Winner: opponent,
		Reason: "escaped",
	})
	a.pk.EndBattle()
	a.bus.Publish(events.CloseRoom{RoomID: a.roomID})
}

// handleTick polls the phase deadline. A team-selection timeout ends
// the battle outright; a turn timeout resolves with whatever actions
// were submitted, so a stalling player just forfeits the move.
func (a *RoomActor) handleTick(ctx actor.Context) {
	if !a.pk.IsTimeout(time.Now()) {
		return
	}
	switch a.pk.Phase {
	case PhaseWaitingSpriteTeams:
		utils.LogWarnf("[RoomActor %d] Team selection timed out.", a.roomID)
		a.broadcast(protocol.ServerPayload{
			Type:   protocol.ServerTypeBattleEnded,
			Reason: "team selection timed out",
		})
		a.pk.EndBattle()
		a.bus.Publish(events.CloseRoom{RoomID: a.roomID})
	case PhaseWaitingSkillAttack:
		utils.LogDebugf("[RoomActor %d] Turn %d timed out, resolving.", a.roomID, a.pk.Turn)
		a.resolveTurn()
	}
}

func (a *RoomActor) resolveTurn() {
	sideA, okA := a.match.Side(a.players[0])
	sideB, okB := a.match.Side(a.players[1])
	if !okA || !okB {
		return
	}

	outcome := a.resolver.ResolveTurn(sideA, sideB)
	report := &model.TurnReport{RoomID: a.roomID, Events: outcome.Events}
	a.broadcast(protocol.ServerPayload{Type: protocol.ServerTypeTurnResult, Turn: report})

	if outcome.Ended {
		utils.LogInfof("[RoomActor %d] Battle ended, player %d wins.", a.roomID, outcome.Winner)
		a.broadcast(protocol.ServerPayload{
			Type:   protocol.ServerTypeBattleEnded,
			Winner: outcome.Winner,
			Reason: "all sprites fainted",
		})
		a.pk.EndBattle()
		a.bus.Publish(events.CloseRoom{RoomID: a.roomID})
		return
	}
	a.pk.NextTurn(a.cfg.TurnTimeout())
}

func (a *RoomActor) isMember(playerID uint64) bool {
	return playerID == a.players[0] || playerID == a.players[1]
}

func (a *RoomActor) opponentOf(playerID uint64) uint64 {
	if playerID == a.players[0] {
		return a.players[1]
	}
	return a.players[0]
}

func (a *RoomActor) sendTo(playerID uint64, payload protocol.ServerPayload) {
	a.bus.Publish(events.SendMessageToPlayer{PlayerID: playerID, Payload: payload})
}

func (a *RoomActor) broadcast(payload protocol.ServerPayload) {
	for _, playerID := range a.players {
		a.sendTo(playerID, payload)
	}
}
