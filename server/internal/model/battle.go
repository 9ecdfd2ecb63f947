package model

// TurnEvent is one step of a resolved battle turn, in resolution order.
type TurnEvent struct {
	PlayerID      uint64       `json:"playerId"`
	Action        string       `json:"action"` // "skill_attack", "switch_sprite", "use_item", "none"
	SkillID       uint64       `json:"skillId,omitempty"`
	Damage        int          `json:"damage,omitempty"`
	Effectiveness float64      `json:"effectiveness,omitempty"`
	Healed        int          `json:"healed,omitempty"`
	Inflicted     StatusEffect `json:"inflicted,omitempty"`
	// TargetFainted is set when the defender's active sprite dropped to
	// zero health as a result of this event.
	TargetFainted bool   `json:"targetFainted,omitempty"`
	Note          string `json:"note,omitempty"`
}

// TurnReport is the full narration of one turn, sent to both players.
type TurnReport struct {
	RoomID uint64      `json:"roomId"`
	Events []TurnEvent `json:"events"`
}
