package session

import (
	"sync"
	"sync/atomic"

	"github.com/asynkron/protoactor-go/actor"

	"github.com/aojiaoxiaolinlin/game-server/server/internal/utils"
)

// SessionManager maps player ids to the PlayerActor handling their
// connection, and owns the player-id allocator. Ids grow monotonically
// and are never reused, so a stale id can never address a new player.
type SessionManager struct {
	root *actor.RootContext

	mu       sync.RWMutex
	sessions map[uint64]*actor.PID

	nextID uint64
}

// NewSessionManager creates an empty registry sending through the given
// root context.
func NewSessionManager(root *actor.RootContext) *SessionManager {
	return &SessionManager{
		root:     root,
		sessions: make(map[uint64]*actor.PID),
	}
}

// NextPlayerID allocates a fresh player id, starting from 1.
func (m *SessionManager) NextPlayerID() uint64 {
	return atomic.AddUint64(&m.nextID, 1)
}

// Register binds a player id to its actor. Re-registering overwrites
// the previous binding, so a reconnect simply displaces the stale one.
func (m *SessionManager) Register(playerID uint64, pid *actor.PID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[playerID]; exists {
		utils.LogWarnf("[SessionManager] Overwriting registration for player %d", playerID)
	}
	m.sessions[playerID] = pid
}

// Unregister removes the binding. Unknown ids are a no-op.
func (m *SessionManager) Unregister(playerID uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, playerID)
}

// Get returns the actor handling the player's connection.
func (m *SessionManager) Get(playerID uint64) (*actor.PID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pid, ok := m.sessions[playerID]
	return pid, ok
}

// Send delivers a message to the player's actor. It reports false when
// the player has no live session, which callers treat as a routine
// outcome rather than an error.
func (m *SessionManager) Send(playerID uint64, message interface{}) bool {
	pid, ok := m.Get(playerID)
	if !ok {
		utils.LogDebugf("[SessionManager] No session for player %d, message dropped", playerID)
		return false
	}
	m.root.Send(pid, message)
	return true
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
