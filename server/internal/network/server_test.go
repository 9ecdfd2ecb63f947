package network

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"github.com/aojiaoxiaolinlin/game-server/server/configs"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/events"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/game"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/protocol"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/security"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/session"
)

type noRooms struct{}

func (noRooms) GetSender(roomID uint64) (*actor.PID, bool) { return nil, false }

func testConfig() *configs.Config {
	cfg := &configs.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.TCPPort = 0 // pick a free port
	cfg.Auth.EnableDummyAuth = true
	cfg.Auth.DummyUsername = "account"
	cfg.Auth.DummyPassword = "password"
	return cfg
}

func readServerMessage(t *testing.T, conn net.Conn) protocol.ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	payload, err := ReadFrame(conn)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	var msg protocol.ServerMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return msg
}

func TestTCPServerHandshake(t *testing.T) {
	system := actor.NewActorSystem()
	bus := events.NewEventBus()
	tokens := security.NewTokenManager("test-secret", time.Hour)
	sessions := session.NewSessionManager(system.Root)
	teams := game.NewPresetTeamProvider()

	server := NewTCPServer(testConfig(), configs.DefaultBattleConfig(),
		system, bus, tokens, teams, noRooms{}, sessions)
	if err := server.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer server.Stop()

	conn, err := net.Dial("tcp", server.Addr().String())
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	var sequence uint64
	send := func(msg protocol.ClientMessage) {
		t.Helper()
		sequence++
		msg.Sequence = sequence
		payload, _ := json.Marshal(msg)
		if err := WriteFrame(conn, payload); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}

	// Bad credentials fail but keep the connection open.
	send(protocol.ClientMessage{Type: protocol.ClientTypeLogin, Username: "account", Password: "wrong"})
	reply := readServerMessage(t, conn)
	if reply.Type != protocol.ServerTypeLoginFailed {
		t.Fatalf("Expected login_failed, got %+v", reply)
	}
	if reply.Sequence != 1 {
		t.Errorf("Expected server sequence 1, got %d", reply.Sequence)
	}

	// Good credentials yield a validatable token.
	send(protocol.ClientMessage{Type: protocol.ClientTypeLogin, Username: "account", Password: "password"})
	reply = readServerMessage(t, conn)
	if reply.Type != protocol.ServerTypeLoginSuccess || reply.Token == "" {
		t.Fatalf("Expected login_success with token, got %+v", reply)
	}
	claims, err := tokens.Validate(reply.Token)
	if err != nil {
		t.Fatalf("Issued token does not validate: %v", err)
	}
	if _, ok := sessions.Get(claims.PlayerID); !ok {
		// Registration happens right after the handshake reply; give
		// the handler a moment.
		deadline := time.Now().Add(2 * time.Second)
		for {
			if _, ok := sessions.Get(claims.PlayerID); ok {
				break
			}
			if time.Now().After(deadline) {
				t.Fatal("Player never registered")
			}
			time.Sleep(10 * time.Millisecond)
		}
	}

	// Post-handshake frames flow through the actor and back out with
	// the server sequence continuing where the handshake left off.
	send(protocol.ClientMessage{Type: protocol.ClientTypePing})
	reply = readServerMessage(t, conn)
	if reply.Type != protocol.ServerTypePong {
		t.Fatalf("Expected pong, got %+v", reply)
	}
	if reply.Sequence != 3 {
		t.Errorf("Expected server sequence 3, got %d", reply.Sequence)
	}
}
