package model

// Attribute is the elemental attribute carried by sprites and skills.
// The effectiveness of an attack depends on the pairing of the skill's
// attribute against the defending sprite's attribute.
type Attribute string

const (
	AttributeJin     Attribute = "jin"
	AttributeMu      Attribute = "mu"
	AttributeShui    Attribute = "shui"
	AttributeHuo     Attribute = "huo"
	AttributeTu      Attribute = "tu"
	AttributeYi      Attribute = "yi"
	AttributeGuai    Attribute = "guai"
	AttributeMo      Attribute = "mo"
	AttributeYao     Attribute = "yao"
	AttributeFeng    Attribute = "feng"
	AttributeDu      Attribute = "du"
	AttributeLei     Attribute = "lei"
	AttributeHuan    Attribute = "huan"
	AttributeBing    Attribute = "bing"
	AttributeLing    Attribute = "ling"
	AttributeJiXie   Attribute = "jixie"
	AttributeSpecial Attribute = "special"
	AttributeNone    Attribute = "none"
)

// SkillType distinguishes physical attacks (scaled by PhyAtk/PhyDef)
// from magical attacks (scaled by MagAtk/MagDef).
type SkillType string

const (
	SkillPhysical SkillType = "physical"
	SkillMagical  SkillType = "magical"
)

// SkillSpecialEffect marks a skill as carrying a secondary effect.
type SkillSpecialEffect string

const (
	EffectBoostAttribute  SkillSpecialEffect = "boost_attribute"
	EffectReduceAttribute SkillSpecialEffect = "reduce_attribute"
	EffectStatusEffect    SkillSpecialEffect = "status_effect"
)

// Skill is a move carried by a sprite.
type Skill struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SkillType   SkillType `json:"skillType"`
	Attribute   Attribute `json:"attribute"`
	PP          uint16    `json:"pp"`
	MaxPP       uint16    `json:"maxPp"`
	Power       uint16    `json:"power"`
	// IsPreemptive moves always resolve before non-preemptive ones.
	IsPreemptive bool `json:"isPreemptive"`

	SpecialEffect SkillSpecialEffect `json:"specialEffect,omitempty"`
	// Inflicts is the status condition applied to the defender when
	// SpecialEffect is EffectStatusEffect.
	Inflicts StatusEffect `json:"inflicts,omitempty"`
}

// Sprite is a player-configured combatant.
type Sprite struct {
	ID     uint64 `json:"id"`
	Level  uint8  `json:"level"`
	Exp    uint32 `json:"exp"`
	MaxExp uint32 `json:"maxExp"`

	HP    int `json:"hp"`
	MaxHP int `json:"maxHp"`

	PhyAtk int `json:"phyAtk"`
	PhyDef int `json:"phyDef"`
	MagAtk int `json:"magAtk"`
	MagDef int `json:"magDef"`
	Speed  int `json:"speed"`

	Attribute Attribute `json:"attribute"`
	Skills    []Skill   `json:"skills"`
}

// Fainted reports whether the sprite can no longer fight.
func (s *Sprite) Fainted() bool {
	return s.HP <= 0
}

// SkillByID looks up one of the sprite's carried skills.
func (s *Sprite) SkillByID(id uint64) (*Skill, bool) {
	for i := range s.Skills {
		if s.Skills[i].ID == id {
			return &s.Skills[i], true
		}
	}
	return nil, false
}
