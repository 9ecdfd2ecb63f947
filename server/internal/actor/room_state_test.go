package actor

import (
	"testing"
	"time"

	"github.com/aojiaoxiaolinlin/game-server/server/internal/game"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/model"
)

func smallTeam() []model.Sprite {
	return []model.Sprite{
		{ID: 1, HP: 100, MaxHP: 100, Skills: []model.Skill{{ID: 1, Power: 10, PP: 5, MaxPP: 5}}},
		{ID: 2, HP: 100, MaxHP: 100, Skills: []model.Skill{{ID: 2, Power: 10, PP: 5, MaxPP: 5}}},
	}
}

func TestPKState(t *testing.T) {
	t.Run("PhaseProgression", func(t *testing.T) {
		var s PKState
		if s.Phase != PhaseStart {
			t.Fatalf("Expected Start, got %s", s.Phase)
		}
		s.StartWaitingTeams(time.Minute)
		if s.Phase != PhaseWaitingSpriteTeams {
			t.Errorf("Expected WaitingSpriteTeams, got %s", s.Phase)
		}
		s.StartWaitingSkill(time.Minute)
		if s.Phase != PhaseWaitingSkillAttack || s.Turn != 1 {
			t.Errorf("Expected WaitingSkillAttack turn 1, got %s turn %d", s.Phase, s.Turn)
		}
		s.NextTurn(time.Minute)
		if s.Turn != 2 {
			t.Errorf("Expected turn 2, got %d", s.Turn)
		}
		s.EndBattle()
		if s.Phase != PhaseEnded {
			t.Errorf("Expected Ended, got %s", s.Phase)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		var s PKState
		s.StartWaitingTeams(10 * time.Millisecond)
		if s.IsTimeout(time.Now()) {
			t.Error("Deadline should not have passed yet")
		}
		if !s.IsTimeout(time.Now().Add(time.Second)) {
			t.Error("Deadline should have passed")
		}
		s.EndBattle()
		if s.IsTimeout(time.Now().Add(time.Hour)) {
			t.Error("Terminal phase never times out")
		}
	})
}

func TestMatchState(t *testing.T) {
	t.Run("TeamsReady", func(t *testing.T) {
		m := NewMatchState()
		if m.TeamsReady() {
			t.Error("Empty match should not be ready")
		}
		m.SubmitTeam(1, smallTeam())
		if m.TeamsReady() {
			t.Error("One team is not enough")
		}
		m.SubmitTeam(2, smallTeam())
		if !m.TeamsReady() {
			t.Error("Both teams submitted, should be ready")
		}
		side, ok := m.Side(1)
		if !ok || side.Active != 0 {
			t.Errorf("Expected active slot 0, got %+v", side)
		}
	})

	t.Run("ActionsReadyNeedsBoth", func(t *testing.T) {
		m := NewMatchState()
		m.SubmitTeam(1, smallTeam())
		m.SubmitTeam(2, smallTeam())

		m.RecordAction(1, game.Action{Kind: game.ActionSkillAttack, SkillID: 1})
		if m.ActionsReady() {
			t.Error("One submitted action is not enough")
		}
		m.RecordAction(2, game.Action{Kind: game.ActionSkillAttack, SkillID: 2})
		if !m.ActionsReady() {
			t.Error("Both actions submitted, should be ready")
		}
	})

	t.Run("DisabledOpponentCountsAsReady", func(t *testing.T) {
		m := NewMatchState()
		m.SubmitTeam(1, smallTeam())
		m.SubmitTeam(2, smallTeam())

		side, _ := m.Side(2)
		side.Status = model.StatusNumbness

		m.RecordAction(1, game.Action{Kind: game.ActionSkillAttack, SkillID: 1})
		if !m.ActionsReady() {
			t.Error("A disabled opponent must not hold up the turn")
		}
	})

	t.Run("ValidateSwitch", func(t *testing.T) {
		m := NewMatchState()
		m.SubmitTeam(1, smallTeam())

		if err := m.ValidateSwitch(1, 1); err != nil {
			t.Errorf("Healthy slot should be valid: %v", err)
		}
		if err := m.ValidateSwitch(1, 5); err == nil {
			t.Error("Out-of-range slot should be rejected")
		}
		side, _ := m.Side(1)
		side.Team[1].HP = 0
		if err := m.ValidateSwitch(1, 1); err == nil {
			t.Error("Fainted slot should be rejected")
		}
		if err := m.ValidateSwitch(9, 0); err == nil {
			t.Error("Unknown player should be rejected")
		}
	})
}
