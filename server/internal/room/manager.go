package room

import (
	"sync"
	"sync/atomic"

	"github.com/asynkron/protoactor-go/actor"

	"github.com/aojiaoxiaolinlin/game-server/server/configs"
	gameactor "github.com/aojiaoxiaolinlin/game-server/server/internal/actor"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/actor/messages"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/events"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/game"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/utils"
)

// RoomManager spawns battle rooms and maps room ids to their actors.
// Room ids grow monotonically and are never reused.
type RoomManager struct {
	root     *actor.RootContext
	bus      *events.EventBus
	sessions gameactor.SessionRegistry
	resolver *game.Resolver
	cfg      *configs.BattleConfig

	mu    sync.RWMutex
	rooms map[uint64]*actor.PID

	nextID uint64
}

// NewRoomManager creates an empty registry that spawns rooms on the
// given root context.
func NewRoomManager(root *actor.RootContext, bus *events.EventBus,
	sessions gameactor.SessionRegistry, resolver *game.Resolver, cfg *configs.BattleConfig) *RoomManager {
	return &RoomManager{
		root:     root,
		bus:      bus,
		sessions: sessions,
		resolver: resolver,
		cfg:      cfg,
		rooms:    make(map[uint64]*actor.PID),
	}
}

// CreateRoom spawns a RoomActor for the pairing and registers it under a
// fresh room id, which it returns.
func (m *RoomManager) CreateRoom(players [2]uint64) uint64 {
	roomID := atomic.AddUint64(&m.nextID, 1)
	pid := m.root.Spawn(gameactor.RoomProps(roomID, players, m.bus, m.sessions, m.resolver, m.cfg))

	m.mu.Lock()
	m.rooms[roomID] = pid
	m.mu.Unlock()

	utils.LogInfof("[RoomManager] Created room %d for players %d and %d", roomID, players[0], players[1])
	return roomID
}

// GetSender returns the mailbox of a live room.
func (m *RoomManager) GetSender(roomID uint64) (*actor.PID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pid, ok := m.rooms[roomID]
	return pid, ok
}

// RemoveRoom drops the registry entry, then signals the actor to stop.
// The entry is gone before the signal goes out, so no new message can
// reach a room that is being torn down.
func (m *RoomManager) RemoveRoom(roomID uint64) {
	m.mu.Lock()
	pid, ok := m.rooms[roomID]
	delete(m.rooms, roomID)
	m.mu.Unlock()

	if !ok {
		return
	}
	m.root.Send(pid, &messages.CloseRoom{})
	utils.LogInfof("[RoomManager] Removed room %d", roomID)
}

// RoomCount returns the number of live rooms.
func (m *RoomManager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// LatestRoomID returns the most recently allocated room id.
func (m *RoomManager) LatestRoomID() uint64 {
	return atomic.LoadUint64(&m.nextID)
}
