package match

import (
	"context"

	"github.com/aojiaoxiaolinlin/game-server/server/internal/events"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/utils"
)

// MatchmakingService pairs players first-come first-served. It owns a
// FIFO queue fed by readiness events and publishes MatchFound for each
// pair; nothing else touches the queue, so no locking is needed.
type MatchmakingService struct {
	bus    *events.EventBus
	queue  []uint64
	queued map[uint64]bool
}

// NewMatchmakingService creates the service on the given bus.
func NewMatchmakingService(bus *events.EventBus) *MatchmakingService {
	return &MatchmakingService{
		bus:    bus,
		queued: make(map[uint64]bool),
	}
}

// Run consumes readiness events until the context is cancelled.
func (s *MatchmakingService) Run(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer sub.Close()

	utils.LogInfo("[Matchmaking] Service running.")
	for {
		select {
		case <-ctx.Done():
			utils.LogInfo("[Matchmaking] Service stopped.")
			return
		case evt := <-sub.C():
			if lagged := sub.TakeLagged(); lagged > 0 {
				utils.LogWarnf("[Matchmaking] Fell behind, %d events lost", lagged)
			}
			if ready, ok := evt.(events.PlayerReadyForMatchmaking); ok {
				s.enqueue(ready.PlayerID)
			}
		}
	}
}

// enqueue adds a player to the queue and pairs off the two oldest
// entries while at least two are waiting. A player already queued is
// rejected rather than queued twice.
func (s *MatchmakingService) enqueue(playerID uint64) {
	if s.queued[playerID] {
		utils.LogDebugf("[Matchmaking] Player %d is already queued", playerID)
		return
	}
	s.queue = append(s.queue, playerID)
	s.queued[playerID] = true
	utils.LogInfof("[Matchmaking] Player %d queued (%d waiting)", playerID, len(s.queue))

	for len(s.queue) >= 2 {
		first, second := s.queue[0], s.queue[1]
		s.queue = s.queue[2:]
		delete(s.queued, first)
		delete(s.queued, second)
		utils.LogInfof("[Matchmaking] Matched players %d and %d", first, second)
		s.bus.Publish(events.MatchFound{Players: [2]uint64{first, second}})
	}
}

// QueueLen reports how many players are waiting.
func (s *MatchmakingService) QueueLen() int {
	return len(s.queue)
}
