package game

import (
	"github.com/aojiaoxiaolinlin/game-server/server/internal/model"
)

// ActionKind identifies what a player chose to do this turn.
type ActionKind string

const (
	ActionNone         ActionKind = "none"
	ActionSkillAttack  ActionKind = "skill_attack"
	ActionSwitchSprite ActionKind = "switch_sprite"
	ActionUseItem      ActionKind = "use_item"
)

// Action is a player's submitted choice for one turn.
type Action struct {
	Kind        ActionKind
	SkillID     uint64
	SpriteIndex int
	ItemID      uint64
}

// Side is one player's half of the battle as the resolver sees it. The
// room owns the authoritative copy and hands both sides in by pointer;
// the resolver mutates them in place.
type Side struct {
	PlayerID uint64
	Team     []model.Sprite
	Active   int
	Action   Action
	Status   model.StatusEffect
}

// ActiveSprite returns the sprite currently on the field.
func (s *Side) ActiveSprite() *model.Sprite {
	return &s.Team[s.Active]
}

// Defeated reports whether every sprite on the side has fainted.
func (s *Side) Defeated() bool {
	for i := range s.Team {
		if !s.Team[i].Fainted() {
			return false
		}
	}
	return true
}

// nextHealthy returns the index of the first sprite still able to fight,
// or -1 when the side is defeated.
func (s *Side) nextHealthy() int {
	for i := range s.Team {
		if !s.Team[i].Fainted() {
			return i
		}
	}
	return -1
}

// TurnOutcome is the result of resolving one turn.
type TurnOutcome struct {
	Events []model.TurnEvent
	Ended  bool
	Winner uint64
}

// Resolver applies both players' actions for a turn. Resolution is
// deterministic: switches and items first, then attacks ordered by
// preemptive flag and speed.
type Resolver struct {
	table      *AttributeTable
	potionHeal int
}

// NewResolver builds a resolver over the given effectiveness table.
func NewResolver(table *AttributeTable, potionHeal int) *Resolver {
	if table == nil {
		table = DefaultAttributeTable()
	}
	return &Resolver{table: table, potionHeal: potionHeal}
}

// ResolveTurn mutates both sides according to their submitted actions
// and returns the narrated outcome. A side that submitted nothing
// forfeits its move for the turn.
func (r *Resolver) ResolveTurn(a, b *Side) TurnOutcome {
	outcome := TurnOutcome{}

	// A disabled side forfeits the whole turn; the condition wears off
	// after costing it.
	applyDisable(a, &outcome)
	applyDisable(b, &outcome)

	// Switches and item uses always land before any attack.
	r.applyPreparation(a, &outcome)
	r.applyPreparation(b, &outcome)

	first, second := attackOrder(a, b)
	if ended := r.applyAttack(first, second, &outcome); ended {
		return outcome
	}
	r.applyAttack(second, first, &outcome)

	a.Action = Action{Kind: ActionNone}
	b.Action = Action{Kind: ActionNone}
	return outcome
}

// attackOrder decides which side attacks first. Preemptive skills beat
// everything else; otherwise the faster active sprite moves first, with
// side a winning ties.
func attackOrder(a, b *Side) (*Side, *Side) {
	aPre := a.Action.Kind == ActionSkillAttack && isPreemptive(a)
	bPre := b.Action.Kind == ActionSkillAttack && isPreemptive(b)
	if aPre != bPre {
		if bPre {
			return b, a
		}
		return a, b
	}
	if b.ActiveSprite().Speed > a.ActiveSprite().Speed {
		return b, a
	}
	return a, b
}

func isPreemptive(s *Side) bool {
	skill, ok := s.ActiveSprite().SkillByID(s.Action.SkillID)
	return ok && skill.IsPreemptive
}

// applyDisable voids the submitted action of a side whose status
// condition prevents acting, then clears the condition.
func applyDisable(s *Side, outcome *TurnOutcome) {
	if !s.Status.PreventsAction() {
		return
	}
	outcome.Events = append(outcome.Events, model.TurnEvent{
		PlayerID: s.PlayerID,
		Action:   string(ActionNone),
		Note:     "unable to act: " + string(s.Status),
	})
	s.Action = Action{Kind: ActionNone}
	s.Status = model.StatusNormal
}

// applyPreparation handles switch and item actions for one side.
func (r *Resolver) applyPreparation(s *Side, outcome *TurnOutcome) {
	switch s.Action.Kind {
	case ActionSwitchSprite:
		idx := s.Action.SpriteIndex
		if idx < 0 || idx >= len(s.Team) || s.Team[idx].Fainted() {
			outcome.Events = append(outcome.Events, model.TurnEvent{
				PlayerID: s.PlayerID,
				Action:   string(ActionNone),
				Note:     "switch rejected",
			})
			s.Action = Action{Kind: ActionNone}
			return
		}
		s.Active = idx
		outcome.Events = append(outcome.Events, model.TurnEvent{
			PlayerID: s.PlayerID,
			Action:   string(ActionSwitchSprite),
		})
		s.Action = Action{Kind: ActionNone}
	case ActionUseItem:
		sprite := s.ActiveSprite()
		healed := r.potionHeal
		if sprite.HP+healed > sprite.MaxHP {
			healed = sprite.MaxHP - sprite.HP
		}
		sprite.HP += healed
		outcome.Events = append(outcome.Events, model.TurnEvent{
			PlayerID: s.PlayerID,
			Action:   string(ActionUseItem),
			Healed:   healed,
		})
		s.Action = Action{Kind: ActionNone}
	}
}

// applyAttack resolves one side's skill attack against the other. It
// returns true when the battle ended.
func (r *Resolver) applyAttack(attacker, defender *Side, outcome *TurnOutcome) bool {
	if attacker.Action.Kind != ActionSkillAttack {
		return false
	}

	sprite := attacker.ActiveSprite()
	skill, ok := sprite.SkillByID(attacker.Action.SkillID)
	if !ok || skill.PP == 0 {
		outcome.Events = append(outcome.Events, model.TurnEvent{
			PlayerID: attacker.PlayerID,
			Action:   string(ActionNone),
			Note:     "skill unavailable",
		})
		return false
	}
	skill.PP--

	target := defender.ActiveSprite()
	effectiveness := r.table.Effectiveness(skill.Attribute, target.Attribute)
	damage := computeDamage(skill, sprite, target, effectiveness)
	target.HP -= damage
	if target.HP < 0 {
		target.HP = 0
	}

	event := model.TurnEvent{
		PlayerID:      attacker.PlayerID,
		Action:        string(ActionSkillAttack),
		SkillID:       skill.ID,
		Damage:        damage,
		Effectiveness: effectiveness,
	}

	if skill.SpecialEffect == model.EffectStatusEffect && skill.Inflicts != "" && !target.Fainted() {
		defender.Status = skill.Inflicts
		event.Inflicted = skill.Inflicts
	}

	if target.Fainted() {
		event.TargetFainted = true
		// The submitted action of a fainted defender is void.
		defender.Action = Action{Kind: ActionNone}
		defender.Status = model.StatusNormal
		if next := defender.nextHealthy(); next >= 0 {
			defender.Active = next
		} else {
			outcome.Events = append(outcome.Events, event)
			outcome.Ended = true
			outcome.Winner = attacker.PlayerID
			return true
		}
	}
	outcome.Events = append(outcome.Events, event)
	return false
}

// computeDamage scales skill power by the relevant attack and defense
// stats and the attribute multiplier. A landing hit always deals at
// least one point.
func computeDamage(skill *model.Skill, attacker, defender *model.Sprite, effectiveness float64) int {
	var atk, def int
	if skill.SkillType == model.SkillMagical {
		atk, def = attacker.MagAtk, defender.MagDef
	} else {
		atk, def = attacker.PhyAtk, defender.PhyDef
	}
	if def <= 0 {
		def = 1
	}
	damage := int(float64(int(skill.Power)*atk/def) * effectiveness)
	if damage < 1 {
		damage = 1
	}
	return damage
}
