package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"github.com/aojiaoxiaolinlin/game-server/server/configs"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/events"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/game"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/match"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/network"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/room"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/security"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/session"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/utils"
)

func main() {
	// --- Configuration ---
	configs.CreateExampleConfigFile("config.json")
	cfg, err := configs.LoadConfig("config.json")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	battleCfg, err := configs.LoadBattleConfig(cfg.Game.BattleConfigPath)
	if err != nil {
		log.Fatalf("Failed to load battle tuning: %v", err)
	}

	utils.SetLogLevel(cfg.Server.LogLevel)
	utils.LogInfo("Starting sprite battle server...")

	// --- Static game rules ---
	attributeTable, err := game.LoadAttributeTable(cfg.Game.AttributeTablePath)
	if err != nil {
		utils.LogFatalf("Failed to load attribute table: %v", err)
	}
	resolver := game.NewResolver(attributeTable, battleCfg.PotionHeal)

	// --- Team provider ---
	var teams game.TeamProvider
	if cfg.Database.PostgresURL != "" {
		store, err := game.NewStoreTeamProvider(
			cfg.Database.PostgresURL, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			utils.LogFatalf("Failed to open team store: %v", err)
		}
		if err := store.Start(); err != nil {
			utils.LogFatalf("Failed to start team store: %v", err)
		}
		defer store.Stop()
		teams = store
		utils.LogInfo("Using database-backed sprite teams.")
	} else {
		teams = game.NewPresetTeamProvider()
		utils.LogInfo("No database configured, using preset sprite teams.")
	}

	// --- Actor system and registries ---
	actorSystem := actor.NewActorSystem()
	utils.LogInfo("Actor system initialized.")

	bus := events.NewEventBusWithBuffer(battleCfg.BusBufferSize)
	sessions := session.NewSessionManager(actorSystem.Root)
	rooms := room.NewRoomManager(actorSystem.Root, bus, sessions, resolver, battleCfg)
	tokens := security.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	// --- Matchmaking and coordination ---
	ctx, cancel := context.WithCancel(context.Background())
	var services sync.WaitGroup

	matchmaking := match.NewMatchmakingService(bus)
	coordinator := match.NewGameCoordinator(bus, sessions, rooms)
	services.Add(2)
	go func() {
		defer services.Done()
		matchmaking.Run(ctx)
	}()
	go func() {
		defer services.Done()
		coordinator.Run(ctx)
	}()

	// --- Network ---
	tcpServer := network.NewTCPServer(cfg, battleCfg, actorSystem, bus, tokens, teams, rooms, sessions)
	if err := tcpServer.Start(); err != nil {
		utils.LogFatalf("Failed to start TCP server: %v", err)
	}

	utils.LogInfo("Server running. Press Ctrl+C to shut down.")

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.LogInfo("Shutting down...")

	tcpServer.Stop()
	cancel()
	services.Wait()

	utils.LogInfo("Shutting down actor system...")
	actorSystem.Shutdown()

	time.Sleep(500 * time.Millisecond)
	utils.LogInfo("Server shut down gracefully.")
}
