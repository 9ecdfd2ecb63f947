package model

// StatusEffect is a temporary condition on a player's active sprite.
// A player holds at most one condition at a time.
type StatusEffect string

const (
	StatusNormal      StatusEffect = "normal"
	StatusStun        StatusEffect = "stun"
	StatusFatigue     StatusEffect = "fatigue"
	StatusNumbness    StatusEffect = "numbness"
	StatusFreeze      StatusEffect = "freeze"
	StatusPoisoning   StatusEffect = "poisoning"
	StatusBleeding    StatusEffect = "bleeding"
	StatusSinking     StatusEffect = "sinking"
	StatusBurn        StatusEffect = "burn"
	StatusHighlyToxic StatusEffect = "highly_toxic"
)

// PreventsAction reports whether the condition disqualifies the sprite
// from acting this turn. Any one of the listed conditions is enough.
func (s StatusEffect) PreventsAction() bool {
	return s == StatusNumbness || s == StatusFreeze
}
