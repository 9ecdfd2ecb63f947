package network

import (
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"github.com/aojiaoxiaolinlin/game-server/server/configs"
	gameactor "github.com/aojiaoxiaolinlin/game-server/server/internal/actor"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/actor/messages"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/events"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/game"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/protocol"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/security"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/session"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/utils"
)

// handshakeAttempts bounds how many frames a connection may send before
// logging in.
const handshakeAttempts = 5

// TCPServer accepts client connections, runs the login handshake, and
// bridges each authenticated socket to its PlayerActor: inbound frames
// become mailbox messages, and bus events addressed to the player are
// written back out.
type TCPServer struct {
	host     string
	port     int
	system   *actor.ActorSystem
	bus      *events.EventBus
	tokens   *security.TokenManager
	teams    game.TeamProvider
	rooms    gameactor.RoomDirectory
	sessions *session.SessionManager
	battle   *configs.BattleConfig

	dummyAuth     bool
	dummyUsername string
	dummyPassword string

	listener net.Listener
	wg       sync.WaitGroup
	shutdown chan struct{}
}

// NewTCPServer wires the server to its collaborators.
func NewTCPServer(cfg *configs.Config, battle *configs.BattleConfig, system *actor.ActorSystem,
	bus *events.EventBus, tokens *security.TokenManager, teams game.TeamProvider,
	rooms gameactor.RoomDirectory, sessions *session.SessionManager) *TCPServer {
	return &TCPServer{
		host:          cfg.Server.Host,
		port:          cfg.Server.TCPPort,
		system:        system,
		bus:           bus,
		tokens:        tokens,
		teams:         teams,
		rooms:         rooms,
		sessions:      sessions,
		battle:        battle,
		dummyAuth:     cfg.Auth.EnableDummyAuth,
		dummyUsername: cfg.Auth.DummyUsername,
		dummyPassword: cfg.Auth.DummyPassword,
		shutdown:      make(chan struct{}),
	}
}

// Start begins listening for TCP connections.
func (s *TCPServer) Start() error {
	listenAddr := fmt.Sprintf("%s:%d", s.host, s.port)
	var err error
	s.listener, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddr, err)
	}
	utils.LogInfof("TCP server listening on %s", listenAddr)

	s.wg.Add(1)
	go s.acceptConnections()
	return nil
}

// Addr returns the bound listen address, useful when port 0 was asked.
func (s *TCPServer) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *TCPServer) acceptConnections() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
				utils.LogErrorf("Accept failed: %v", err)
				if ne, ok := err.(net.Error); ok && !ne.Timeout() {
					return
				}
				continue
			}
		}
		utils.LogInfof("[%s] Accepted connection", conn.RemoteAddr())
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// handleConnection owns one socket from accept to close.
func (s *TCPServer) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	playerSession, err := s.handshake(conn)
	if err != nil {
		utils.LogInfof("[%s] Handshake failed: %v", conn.RemoteAddr(), err)
		return
	}
	playerID := playerSession.PlayerID
	utils.LogInfof("[%s] Player %d logged in", conn.RemoteAddr(), playerID)

	// Subscribe before the actor exists so no payload addressed to this
	// player can slip past the writer.
	sub := s.bus.Subscribe()

	pid := s.system.Root.Spawn(gameactor.PlayerProps(
		playerSession, s.bus, s.tokens, s.teams, s.rooms, s.sessions, s.battle.MailboxCapacity))
	s.sessions.Register(playerID, pid)

	// The writer drains the bus for this player. The client counter in
	// playerSession is only ever touched by the actor, and the server
	// counter only by this writer, so sharing the struct is safe.
	done := make(chan struct{})
	s.wg.Add(1)
	go s.writeLoop(conn, playerSession, sub, done)

	for {
		msg, err := ReadClientMessage(conn)
		if err != nil {
			s.logReadError(conn, err)
			break
		}
		s.system.Root.Send(pid, &messages.ClientFrame{Message: msg})

		select {
		case <-s.shutdown:
			utils.LogInfof("[%s] Server shutting down, closing connection", conn.RemoteAddr())
			goto teardown
		default:
		}
	}

teardown:
	s.system.Root.Send(pid, &messages.Disconnect{})
	close(done)
}

// handshake authenticates the connection. The client gets a bounded
// number of frames and a deadline to present valid credentials; until
// then nothing reaches the actor system.
func (s *TCPServer) handshake(conn net.Conn) (*gameactor.PlayerSession, error) {
	if err := conn.SetReadDeadline(time.Now().Add(s.battle.AuthTimeout())); err != nil {
		return nil, err
	}

	var lastClientSeq, serverSeq uint64
	writeReply := func(payload protocol.ServerPayload) error {
		serverSeq++
		return WriteServerMessage(conn, protocol.ServerMessage{Sequence: serverSeq, ServerPayload: payload})
	}

	for attempt := 0; attempt < handshakeAttempts; attempt++ {
		msg, err := ReadClientMessage(conn)
		if err != nil {
			return nil, err
		}
		if msg.Sequence != lastClientSeq+1 {
			continue
		}
		lastClientSeq = msg.Sequence

		switch msg.Type {
		case protocol.ClientTypePing:
			if err := writeReply(protocol.ServerPayload{Type: protocol.ServerTypePong}); err != nil {
				return nil, err
			}

		case protocol.ClientTypeRegister:
			if err := writeReply(protocol.ServerPayload{
				Type:   protocol.ServerTypeLoginFailed,
				Reason: "registration is not open",
			}); err != nil {
				return nil, err
			}

		case protocol.ClientTypeLogin:
			if !s.dummyAuth || msg.Username != s.dummyUsername || msg.Password != s.dummyPassword {
				if err := writeReply(protocol.ServerPayload{
					Type:   protocol.ServerTypeLoginFailed,
					Reason: "bad credentials",
				}); err != nil {
					return nil, err
				}
				continue
			}
			playerID := s.sessions.NextPlayerID()
			token, err := s.tokens.Issue(playerID)
			if err != nil {
				return nil, fmt.Errorf("issue token: %w", err)
			}
			if err := writeReply(protocol.ServerPayload{
				Type:  protocol.ServerTypeLoginSuccess,
				Token: token,
			}); err != nil {
				return nil, err
			}
			if err := conn.SetReadDeadline(time.Time{}); err != nil {
				return nil, err
			}
			playerSession := gameactor.NewPlayerSession(playerID)
			playerSession.ResumeCounters(lastClientSeq, serverSeq)
			return playerSession, nil

		default:
			// Unauthenticated game traffic is ignored.
		}
	}
	return nil, fmt.Errorf("no login within %d frames", handshakeAttempts)
}

// writeLoop forwards bus events addressed to this player onto the
// socket, stamping each frame with the next server sequence. A slow
// client loses events rather than stalling the publishers; losses are
// logged.
func (s *TCPServer) writeLoop(conn net.Conn, playerSession *gameactor.PlayerSession, sub *events.Subscription, done <-chan struct{}) {
	defer s.wg.Done()
	defer sub.Close()

	for {
		select {
		case <-done:
			return
		case <-s.shutdown:
			conn.Close()
			return
		case evt := <-sub.C():
			if lagged := sub.TakeLagged(); lagged > 0 {
				utils.LogWarnf("[%s] Player %d writer fell behind, %d events lost",
					conn.RemoteAddr(), playerSession.PlayerID, lagged)
			}
			out, ok := evt.(events.SendMessageToPlayer)
			if !ok || out.PlayerID != playerSession.PlayerID {
				continue
			}
			msg := protocol.ServerMessage{
				Sequence:      playerSession.NextServerSequence(),
				ServerPayload: out.Payload,
			}
			if err := WriteServerMessage(conn, msg); err != nil {
				utils.LogInfof("[%s] Write failed for player %d: %v", conn.RemoteAddr(), playerSession.PlayerID, err)
				return
			}
		}
	}
}

func (s *TCPServer) logReadError(conn net.Conn, err error) {
	if err == io.EOF {
		utils.LogInfof("[%s] Connection closed by client", conn.RemoteAddr())
		return
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		utils.LogInfof("[%s] Connection timed out", conn.RemoteAddr())
		return
	}
	utils.LogWarnf("[%s] Read failed: %v", conn.RemoteAddr(), err)
}

// Stop closes the listener and waits for connection goroutines, with a
// timeout so a stuck handler cannot hang shutdown.
func (s *TCPServer) Stop() {
	utils.LogInfo("Stopping TCP server...")
	close(s.shutdown)

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			utils.LogErrorf("Error closing listener: %v", err)
		}
	}

	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		utils.LogInfo("TCP server stopped.")
	case <-time.After(10 * time.Second):
		utils.LogWarn("TCP server shutdown timed out waiting for connections.")
	}
}
