package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/aojiaoxiaolinlin/game-server/server/internal/model"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/utils"
)

// teamCacheTTL bounds how stale a cached team may get.
const teamCacheTTL = 1 * time.Hour

// TeamProvider hands out a player's configured sprite team when a battle
// starts.
type TeamProvider interface {
	FetchTeam(playerID uint64) ([]model.Sprite, error)
}

// PresetTeamProvider serves the same fixed roster to every player. It is
// the fallback when no database is configured, and keeps local battles
// deterministic.
type PresetTeamProvider struct{}

// NewPresetTeamProvider creates the fixed-roster provider.
func NewPresetTeamProvider() *PresetTeamProvider {
	return &PresetTeamProvider{}
}

// FetchTeam returns a fresh copy of the preset roster so callers may
// mutate it freely.
func (p *PresetTeamProvider) FetchTeam(playerID uint64) ([]model.Sprite, error) {
	team := presetTeam()
	return team, nil
}

func presetTeam() []model.Sprite {
	return []model.Sprite{
		{
			ID: 1, Level: 16, MaxExp: 1000,
			HP: 320, MaxHP: 320, PhyAtk: 82, PhyDef: 60, MagAtk: 45, MagDef: 50, Speed: 70,
			Attribute: model.AttributeHuo,
			Skills: []model.Skill{
				{ID: 101, Name: "Flame Claw", SkillType: model.SkillPhysical, Attribute: model.AttributeHuo, PP: 20, MaxPP: 20, Power: 60},
				{ID: 102, Name: "Ember Burst", SkillType: model.SkillMagical, Attribute: model.AttributeHuo, PP: 10, MaxPP: 10, Power: 85, SpecialEffect: model.EffectStatusEffect, Inflicts: model.StatusBurn},
			},
		},
		{
			ID: 2, Level: 15, MaxExp: 1000,
			HP: 350, MaxHP: 350, PhyAtk: 60, PhyDef: 75, MagAtk: 70, MagDef: 68, Speed: 48,
			Attribute: model.AttributeShui,
			Skills: []model.Skill{
				{ID: 201, Name: "Water Pulse", SkillType: model.SkillMagical, Attribute: model.AttributeShui, PP: 15, MaxPP: 15, Power: 65},
				{ID: 202, Name: "Tide Slam", SkillType: model.SkillPhysical, Attribute: model.AttributeShui, PP: 20, MaxPP: 20, Power: 55},
			},
		},
		{
			ID: 3, Level: 15, MaxExp: 1000,
			HP: 300, MaxHP: 300, PhyAtk: 70, PhyDef: 55, MagAtk: 60, MagDef: 55, Speed: 90,
			Attribute: model.AttributeLei,
			Skills: []model.Skill{
				{ID: 301, Name: "Spark Dash", SkillType: model.SkillPhysical, Attribute: model.AttributeLei, PP: 25, MaxPP: 25, Power: 45, IsPreemptive: true},
				{ID: 302, Name: "Thunderbolt", SkillType: model.SkillMagical, Attribute: model.AttributeLei, PP: 10, MaxPP: 10, Power: 90, SpecialEffect: model.EffectStatusEffect, Inflicts: model.StatusNumbness},
			},
		},
		{
			ID: 4, Level: 14, MaxExp: 1000,
			HP: 340, MaxHP: 340, PhyAtk: 75, PhyDef: 80, MagAtk: 40, MagDef: 60, Speed: 40,
			Attribute: model.AttributeTu,
			Skills: []model.Skill{
				{ID: 401, Name: "Rock Smash", SkillType: model.SkillPhysical, Attribute: model.AttributeTu, PP: 20, MaxPP: 20, Power: 70},
				{ID: 402, Name: "Mudslide", SkillType: model.SkillMagical, Attribute: model.AttributeTu, PP: 15, MaxPP: 15, Power: 60},
			},
		},
		{
			ID: 5, Level: 14, MaxExp: 1000,
			HP: 310, MaxHP: 310, PhyAtk: 55, PhyDef: 58, MagAtk: 85, MagDef: 72, Speed: 65,
			Attribute: model.AttributeBing,
			Skills: []model.Skill{
				{ID: 501, Name: "Frost Beam", SkillType: model.SkillMagical, Attribute: model.AttributeBing, PP: 12, MaxPP: 12, Power: 80, SpecialEffect: model.EffectStatusEffect, Inflicts: model.StatusFreeze},
				{ID: 502, Name: "Icicle Jab", SkillType: model.SkillPhysical, Attribute: model.AttributeBing, PP: 20, MaxPP: 20, Power: 50},
			},
		},
		{
			ID: 6, Level: 16, MaxExp: 1000,
			HP: 330, MaxHP: 330, PhyAtk: 78, PhyDef: 62, MagAtk: 62, MagDef: 58, Speed: 75,
			Attribute: model.AttributeMu,
			Skills: []model.Skill{
				{ID: 601, Name: "Vine Whip", SkillType: model.SkillPhysical, Attribute: model.AttributeMu, PP: 25, MaxPP: 25, Power: 55},
				{ID: 602, Name: "Leaf Storm", SkillType: model.SkillMagical, Attribute: model.AttributeMu, PP: 8, MaxPP: 8, Power: 95},
			},
		},
	}
}

// StoreTeamProvider loads sprite teams from PostgreSQL with a Redis
// cache in front, cache-aside with a bounded TTL.
type StoreTeamProvider struct {
	db          *sql.DB
	redisClient *redis.Client
	ctx         context.Context
}

// NewStoreTeamProvider opens the database handle and Redis client. Call
// Start to verify connectivity before serving.
func NewStoreTeamProvider(postgresURL, redisAddr, redisPassword string, redisDB int) (*StoreTeamProvider, error) {
	db, err := sql.Open("postgres", postgresURL)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed: %w", err)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return &StoreTeamProvider{
		db:          db,
		redisClient: rdb,
		ctx:         context.Background(),
	}, nil
}

// Start pings both backends so a misconfigured store fails at boot
// instead of mid-battle.
func (s *StoreTeamProvider) Start() error {
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("db.Ping failed: %w", err)
	}
	if _, err := s.redisClient.Ping(s.ctx).Result(); err != nil {
		return fmt.Errorf("redis.Ping failed: %w", err)
	}
	utils.LogInfo("Team store connections verified.")
	return nil
}

// Stop closes database and cache connections.
func (s *StoreTeamProvider) Stop() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			utils.LogErrorf("Error closing PostgreSQL connection: %v", err)
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			utils.LogErrorf("Error closing Redis connection: %v", err)
		}
	}
}

// FetchTeam retrieves the player's team, trying Redis first and falling
// back to PostgreSQL on a miss. Fetched rows are written back into the
// cache for later battles.
func (s *StoreTeamProvider) FetchTeam(playerID uint64) ([]model.Sprite, error) {
	cacheKey := fmt.Sprintf("sprite_team:%d", playerID)

	val, err := s.redisClient.Get(s.ctx, cacheKey).Result()
	if err == nil {
		var team []model.Sprite
		if err := json.Unmarshal([]byte(val), &team); err == nil {
			utils.LogDebugf("Team cache hit for player %d", playerID)
			return team, nil
		}
		utils.LogWarnf("Corrupted cached team for player %d, refetching", playerID)
	} else if err != redis.Nil {
		utils.LogWarnf("Redis error fetching team for player %d: %v", playerID, err)
	}

	row := s.db.QueryRow("SELECT team FROM sprite_teams WHERE player_id = $1", playerID)
	var jsonData []byte
	if err := row.Scan(&jsonData); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no team configured for player %d", playerID)
		}
		return nil, fmt.Errorf("query team for player %d: %w", playerID, err)
	}
	var team []model.Sprite
	if err := json.Unmarshal(jsonData, &team); err != nil {
		return nil, fmt.Errorf("decode team for player %d: %w", playerID, err)
	}

	if err := s.redisClient.Set(s.ctx, cacheKey, jsonData, teamCacheTTL).Err(); err != nil {
		utils.LogWarnf("Failed to cache team for player %d: %v", playerID, err)
	}
	return team, nil
}

// SaveTeam upserts the player's team and refreshes the cache entry.
func (s *StoreTeamProvider) SaveTeam(playerID uint64, team []model.Sprite) error {
	jsonData, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("encode team for player %d: %w", playerID, err)
	}
	_, err = s.db.Exec(
		"INSERT INTO sprite_teams (player_id, team) VALUES ($1, $2) ON CONFLICT (player_id) DO UPDATE SET team = $2",
		playerID, jsonData)
	if err != nil {
		return fmt.Errorf("save team for player %d: %w", playerID, err)
	}
	cacheKey := fmt.Sprintf("sprite_team:%d", playerID)
	if err := s.redisClient.Set(s.ctx, cacheKey, jsonData, teamCacheTTL).Err(); err != nil {
		utils.LogWarnf("Failed to refresh cached team for player %d: %v", playerID, err)
	}
	return nil
}
