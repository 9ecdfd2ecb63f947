package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/aojiaoxiaolinlin/game-server/server/internal/network"
	"github.com/aojiaoxiaolinlin/game-server/server/internal/protocol"
)

// Interactive test client for the framed JSON protocol. Logs in with
// the given credentials, then turns simple slash commands into
// authenticated frames.
func main() {
	var host = flag.String("host", "localhost", "Server host")
	var port = flag.Int("port", 5555, "Server port")
	var username = flag.String("user", "account", "Login username")
	var password = flag.String("pass", "password", "Login password")
	flag.Parse()

	conn, err := net.Dial("tcp", fmt.Sprintf("%s:%d", *host, *port))
	if err != nil {
		log.Fatalf("Failed to connect to server: %v", err)
	}
	defer conn.Close()
	fmt.Printf("Connected to %s:%d\n", *host, *port)

	var sequence uint64
	send := func(msg protocol.ClientMessage) {
		sequence++
		msg.Sequence = sequence
		payload, err := json.Marshal(msg)
		if err != nil {
			fmt.Printf("Encode failed: %v\n", err)
			return
		}
		if err := network.WriteFrame(conn, payload); err != nil {
			fmt.Printf("Send failed: %v\n", err)
			os.Exit(1)
		}
	}

	// Login first; the token comes back in login_success.
	send(protocol.ClientMessage{Type: protocol.ClientTypeLogin, Username: *username, Password: *password})
	reply, err := network.ReadFrame(conn)
	if err != nil {
		log.Fatalf("Login read failed: %v", err)
	}
	token, ok := extractToken(reply)
	if !ok {
		log.Fatalf("Login rejected: %s", reply)
	}
	fmt.Println("Logged in.")

	go func() {
		for {
			payload, err := network.ReadFrame(conn)
			if err != nil {
				fmt.Printf("\nConnection lost: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("\nServer: %s\nYou: ", payload)
		}
	}()

	fmt.Println("Commands: /ping, /say <msg>, /team, /ready, /attack <skillId>, /switch <slot>, /item <itemId>, /escape, exit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "exit" {
			break
		}
		if input == "" {
			continue
		}

		action, ok := parseCommand(input)
		if !ok {
			fmt.Println("Unknown command.")
			continue
		}
		if action == nil {
			send(protocol.ClientMessage{Type: protocol.ClientTypePing})
			continue
		}
		send(protocol.ClientMessage{
			Type:   protocol.ClientTypeAuthenticated,
			Token:  token,
			Action: action,
		})
	}
	fmt.Println("Goodbye!")
}

// parseCommand maps a slash command to a client action. A nil action
// with ok=true means a bare ping.
func parseCommand(input string) (*protocol.ClientAction, bool) {
	cmd := input
	arg := ""
	if idx := strings.IndexByte(input, ' '); idx >= 0 {
		cmd, arg = input[:idx], strings.TrimSpace(input[idx+1:])
	}
	switch cmd {
	case "/ping":
		return nil, true
	case "/say":
		return &protocol.ClientAction{Type: protocol.ActionTypeChat, Content: arg}, true
	case "/team":
		return &protocol.ClientAction{Type: protocol.ActionTypeSpriteTeam}, true
	case "/ready":
		return &protocol.ClientAction{Type: protocol.ActionTypeReadyForMatch}, true
	case "/attack":
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return nil, false
		}
		return roomAction(protocol.RoomAction{Type: protocol.RoomActionSkillAttack, SkillID: id}), true
	case "/switch":
		slot, err := strconv.Atoi(arg)
		if err != nil {
			return nil, false
		}
		return roomAction(protocol.RoomAction{Type: protocol.RoomActionSwitchSprite, SpriteIndex: slot}), true
	case "/item":
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return nil, false
		}
		return roomAction(protocol.RoomAction{Type: protocol.RoomActionUseItem, ItemID: id}), true
	case "/escape":
		return roomAction(protocol.RoomAction{Type: protocol.RoomActionEscape}), true
	default:
		return nil, false
	}
}

func roomAction(action protocol.RoomAction) *protocol.ClientAction {
	return &protocol.ClientAction{Type: protocol.ActionTypeRoomAction, Room: &action}
}

// extractToken pulls the token out of a login_success reply.
func extractToken(payload []byte) (string, bool) {
	var msg protocol.ServerMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return "", false
	}
	if msg.Type != protocol.ServerTypeLoginSuccess {
		return "", false
	}
	return msg.Token, true
}
