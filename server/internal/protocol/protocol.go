package protocol

import "github.com/aojiaoxiaolinlin/game-server/server/internal/model"

// ClientMessage is the body of every frame a client sends. Sequence is a
// per-connection counter used to reject replayed or out-of-order frames:
// the server only accepts a message whose sequence is exactly one greater
// than the last accepted one.
type ClientMessage struct {
	Sequence uint64 `json:"sequence"`
	Type     string `json:"type"`

	// login
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	// authenticated
	Token  string        `json:"token,omitempty"`
	Action *ClientAction `json:"action,omitempty"`
}

// ClientAction is the game action carried inside an authenticated envelope.
type ClientAction struct {
	Type string `json:"type"`

	// chat
	Content string `json:"content,omitempty"`

	// move
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
	Z float64 `json:"z,omitempty"`

	// room_action
	Room *RoomAction `json:"room,omitempty"`
}

// RoomAction is an in-match action forwarded to the player's current room.
type RoomAction struct {
	Type        string `json:"type"`
	SkillID     uint64 `json:"skillId,omitempty"`
	SpriteIndex int    `json:"spriteIndex,omitempty"`
	ItemID      uint64 `json:"itemId,omitempty"`
}

// ServerPayload is the typed content of a server-to-client message.
type ServerPayload struct {
	Type string `json:"type"`

	Content  string         `json:"content,omitempty"`
	Token    string         `json:"token,omitempty"`
	Sprites  []model.Sprite `json:"sprites,omitempty"`
	RoomID   uint64         `json:"roomId,omitempty"`
	Opponent string         `json:"opponent,omitempty"`

	Turn   *model.TurnReport `json:"turn,omitempty"`
	Winner uint64            `json:"winner,omitempty"`
	Reason string            `json:"reason,omitempty"`
}

// ServerMessage is the body of every frame the server sends.
type ServerMessage struct {
	Sequence uint64 `json:"sequence"`
	ServerPayload
}

// Client message types.
const (
	ClientTypePing          = "ping"
	ClientTypeRegister      = "register"
	ClientTypeLogin         = "login"
	ClientTypeAuthenticated = "authenticated"
)

// Client action types.
const (
	ActionTypeChat          = "chat"
	ActionTypeMove          = "move"
	ActionTypeSpriteTeam    = "sprite_team"
	ActionTypeReadyForMatch = "ready_for_match"
	ActionTypeRoomAction    = "room_action"
)

// Room action types.
const (
	RoomActionSkillAttack  = "skill_attack"
	RoomActionSwitchSprite = "switch_sprite"
	RoomActionUseItem      = "use_item"
	RoomActionEscape       = "escape"
)

// Server message types.
const (
	ServerTypePong           = "pong"
	ServerTypeChat           = "chat"
	ServerTypeLoginSuccess   = "login_success"
	ServerTypeLoginFailed    = "login_failed"
	ServerTypeAuthFailed     = "auth_failed"
	ServerTypeSpriteTeam     = "sprite_team"
	ServerTypeEnterRoom      = "enter_room"
	ServerTypeTurnResult     = "turn_result"
	ServerTypeBattleEnded    = "battle_ended"
	ServerTypeActionRejected = "action_rejected"
)
