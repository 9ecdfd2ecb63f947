package configs

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// BattleConfig holds the tuning knobs of the battle runtime.
type BattleConfig struct {
	// Deadlines and polling
	TeamTimeoutSec int `json:"team_timeout_seconds"`
	TurnTimeoutSec int `json:"turn_timeout_seconds"`
	TickIntervalMS int `json:"tick_interval_ms"`

	// Actor plumbing
	MailboxCapacity int `json:"mailbox_capacity"`
	BusBufferSize   int `json:"bus_buffer_size"`

	// Connection handshake
	AuthTimeoutSec int `json:"auth_timeout_seconds"`

	// Item effects
	PotionHeal int `json:"potion_heal"`
}

// DefaultBattleConfig returns the default tuning.
func DefaultBattleConfig() *BattleConfig {
	return &BattleConfig{
		TeamTimeoutSec:  60,
		TurnTimeoutSec:  10,
		TickIntervalMS:  1000,
		MailboxCapacity: 128,
		BusBufferSize:   1024,
		AuthTimeoutSec:  10,
		PotionHeal:      100,
	}
}

// LoadBattleConfig loads tuning from a file, or returns defaults when the
// path is empty or the file does not exist.
func LoadBattleConfig(configPath string) (*BattleConfig, error) {
	config := DefaultBattleConfig()

	if configPath == "" {
		return config, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that the tuning is usable.
func (c *BattleConfig) Validate() error {
	if c.TeamTimeoutSec <= 0 {
		return fmt.Errorf("team_timeout_seconds must be greater than 0")
	}
	if c.TurnTimeoutSec <= 0 {
		return fmt.Errorf("turn_timeout_seconds must be greater than 0")
	}
	if c.TickIntervalMS <= 0 {
		return fmt.Errorf("tick_interval_ms must be greater than 0")
	}
	if c.MailboxCapacity <= 0 {
		return fmt.Errorf("mailbox_capacity must be greater than 0")
	}
	return nil
}

// TeamTimeout is the deadline for both sides to submit sprite teams.
func (c *BattleConfig) TeamTimeout() time.Duration {
	return time.Duration(c.TeamTimeoutSec) * time.Second
}

// TurnTimeout is the per-turn deadline for submitting actions.
func (c *BattleConfig) TurnTimeout() time.Duration {
	return time.Duration(c.TurnTimeoutSec) * time.Second
}

// TickInterval is the period of the room's timeout poll.
func (c *BattleConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// AuthTimeout is how long a fresh connection may take to log in.
func (c *BattleConfig) AuthTimeout() time.Duration {
	return time.Duration(c.AuthTimeoutSec) * time.Second
}
