package actor

import (
	"fmt"
	"time"

	"github.com/aojiaoxiaolinlin/game-server/server/internal/game"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/model"
)

// PKPhase is the battle room's lifecycle phase.
type PKPhase int

const (
	PhaseStart PKPhase = iota
	PhaseWaitingSpriteTeams
	PhaseWaitingSkillAttack
	PhaseEnded
)

func (p PKPhase) String() string {
	switch p {
	case PhaseStart:
		return "Start"
	case PhaseWaitingSpriteTeams:
		return "WaitingSpriteTeams"
	case PhaseWaitingSkillAttack:
		return "WaitingSkillAttack"
	case PhaseEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// PKState is the room's phase machine with its current deadline. Each
// waiting phase carries a deadline; the tick loop polls IsTimeout.
type PKState struct {
	Phase    PKPhase
	Deadline time.Time
	Turn     int
}

// StartWaitingTeams enters team selection with the given window.
func (s *PKState) StartWaitingTeams(window time.Duration) {
	s.Phase = PhaseWaitingSpriteTeams
	s.Deadline = time.Now().Add(window)
}

// StartWaitingSkill enters the first action-selection turn.
func (s *PKState) StartWaitingSkill(window time.Duration) {
	s.Phase = PhaseWaitingSkillAttack
	s.Deadline = time.Now().Add(window)
	s.Turn = 1
}

// NextTurn re-arms the action deadline for the following turn.
func (s *PKState) NextTurn(window time.Duration) {
	s.Deadline = time.Now().Add(window)
	s.Turn++
}

// EndBattle moves the room into its terminal phase.
func (s *PKState) EndBattle() {
	s.Phase = PhaseEnded
}

// IsTimeout reports whether the current phase's deadline has passed.
// The terminal phase never times out.
func (s *PKState) IsTimeout(now time.Time) bool {
	if s.Phase != PhaseWaitingSpriteTeams && s.Phase != PhaseWaitingSkillAttack {
		return false
	}
	return now.After(s.Deadline)
}

// MatchState holds both players' battle sides keyed by player id.
type MatchState struct {
	Sides map[uint64]*game.Side
}

// NewMatchState creates an empty match for the given pairing.
func NewMatchState() *MatchState {
	return &MatchState{Sides: make(map[uint64]*game.Side)}
}

// SubmitTeam records a player's roster. Resubmission overwrites.
func (m *MatchState) SubmitTeam(playerID uint64, team []model.Sprite) {
	m.Sides[playerID] = &game.Side{
		PlayerID: playerID,
		Team:     team,
		Active:   0,
		Action:   game.Action{Kind: game.ActionNone},
		Status:   model.StatusNormal,
	}
}

// TeamsReady reports whether both sides have submitted a roster.
func (m *MatchState) TeamsReady() bool {
	return len(m.Sides) == 2
}

// Side returns the battle side for a player, if the team was submitted.
func (m *MatchState) Side(playerID uint64) (*game.Side, bool) {
	side, ok := m.Sides[playerID]
	return side, ok
}

// RecordAction stores a player's pending action for the current turn.
// The latest submission wins.
func (m *MatchState) RecordAction(playerID uint64, action game.Action) bool {
	side, ok := m.Sides[playerID]
	if !ok {
		return false
	}
	side.Action = action
	return true
}

// ValidateSwitch checks a switch target before it is recorded. The
// target slot must exist and hold a sprite that can still fight.
func (m *MatchState) ValidateSwitch(playerID uint64, spriteIndex int) error {
	side, ok := m.Sides[playerID]
	if !ok {
		return fmt.Errorf("no team submitted")
	}
	if spriteIndex < 0 || spriteIndex >= len(side.Team) {
		return fmt.Errorf("no sprite at slot %d", spriteIndex)
	}
	if side.Team[spriteIndex].Fainted() {
		return fmt.Errorf("sprite at slot %d has fainted", spriteIndex)
	}
	return nil
}

// ActionsReady reports whether the turn can resolve: every side has
// either submitted an action or is disabled by its status condition.
func (m *MatchState) ActionsReady() bool {
	if !m.TeamsReady() {
		return false
	}
	for _, side := range m.Sides {
		if side.Action.Kind == game.ActionNone && !side.Status.PreventsAction() {
			return false
		}
	}
	return true
}
