package messages

import (
	"github.com/aojiaoxiaolinlin/game-server/server/internal/model"
)

// SubmitSpriteTeam delivers a player's battle roster to the room during
// team selection.
type SubmitSpriteTeam struct {
	PlayerID uint64
	Team     []model.Sprite
}

// SkillAttack is a player's chosen attack for the current turn.
type SkillAttack struct {
	PlayerID uint64
	SkillID  uint64
}

// SwitchSprite asks the room to put a different sprite on the field.
type SwitchSprite struct {
	PlayerID    uint64
	SpriteIndex int
}

// UseItem spends an item on the player's active sprite this turn.
type UseItem struct {
	PlayerID uint64
	ItemID   uint64
}

// EscapeRoom is a player's forfeit. The opponent wins immediately.
type EscapeRoom struct {
	PlayerID uint64
}

// CloseRoom tells a RoomActor to shut down regardless of battle state.
type CloseRoom struct{}
