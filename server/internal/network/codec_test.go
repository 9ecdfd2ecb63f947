package network

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aojiaoxiaolinlin/game-server/server/internal/protocol"
)

func TestFrameCodec(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		var buf bytes.Buffer
		payload := []byte(`{"hello":"world"}`)
		if err := WriteFrame(&buf, payload); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame failed: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("Expected %q, got %q", payload, got)
		}
	})

	t.Run("MultipleFramesInSequence", func(t *testing.T) {
		var buf bytes.Buffer
		WriteFrame(&buf, []byte("first"))
		WriteFrame(&buf, []byte("second"))

		first, err := ReadFrame(&buf)
		if err != nil || string(first) != "first" {
			t.Fatalf("Expected first frame, got %q (%v)", first, err)
		}
		second, err := ReadFrame(&buf)
		if err != nil || string(second) != "second" {
			t.Fatalf("Expected second frame, got %q (%v)", second, err)
		}
	})

	t.Run("OversizedFrameRejected", func(t *testing.T) {
		var buf bytes.Buffer
		lenBuf := make([]byte, LengthPrefixSize)
		binary.BigEndian.PutUint32(lenBuf, MaxMessageSize+1)
		buf.Write(lenBuf)

		if _, err := ReadFrame(&buf); !errors.Is(err, ErrFrameTooLarge) {
			t.Errorf("Expected ErrFrameTooLarge, got %v", err)
		}
	})

	t.Run("OversizedWriteRejected", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteFrame(&buf, make([]byte, MaxMessageSize+1)); !errors.Is(err, ErrFrameTooLarge) {
			t.Errorf("Expected ErrFrameTooLarge, got %v", err)
		}
	})

	t.Run("ZeroLengthFrameRejected", func(t *testing.T) {
		var buf bytes.Buffer
		buf.Write(make([]byte, LengthPrefixSize))
		if _, err := ReadFrame(&buf); err == nil {
			t.Error("Expected error for zero-length frame")
		}
	})

	t.Run("TruncatedFrame", func(t *testing.T) {
		var buf bytes.Buffer
		lenBuf := make([]byte, LengthPrefixSize)
		binary.BigEndian.PutUint32(lenBuf, 100)
		buf.Write(lenBuf)
		buf.Write([]byte("short"))

		if _, err := ReadFrame(&buf); err == nil {
			t.Error("Expected error for truncated frame")
		}
	})
}

func TestMessageCodec(t *testing.T) {
	t.Run("ClientMessageRoundTrip", func(t *testing.T) {
		var buf bytes.Buffer
		msg := protocol.ClientMessage{
			Sequence: 3,
			Type:     protocol.ClientTypeAuthenticated,
			Token:    "tok",
			Action: &protocol.ClientAction{
				Type: protocol.ActionTypeRoomAction,
				Room: &protocol.RoomAction{Type: protocol.RoomActionSkillAttack, SkillID: 42},
			},
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if err := WriteFrame(&buf, payload); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}

		got, err := ReadClientMessage(&buf)
		if err != nil {
			t.Fatalf("ReadClientMessage failed: %v", err)
		}
		if got.Sequence != 3 || got.Action == nil || got.Action.Room.SkillID != 42 {
			t.Errorf("Round trip mangled message: %+v", got)
		}
	})

	t.Run("MalformedJSONRejected", func(t *testing.T) {
		var buf bytes.Buffer
		WriteFrame(&buf, []byte("{not json"))
		if _, err := ReadClientMessage(&buf); err == nil {
			t.Error("Expected decode error")
		}
	})

	t.Run("ServerMessageRoundTrip", func(t *testing.T) {
		var buf bytes.Buffer
		msg := protocol.ServerMessage{
			Sequence: 9,
			ServerPayload: protocol.ServerPayload{
				Type:    protocol.ServerTypeChat,
				Content: "hi",
			},
		}
		if err := WriteServerMessage(&buf, msg); err != nil {
			t.Fatalf("WriteServerMessage failed: %v", err)
		}
		payload, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame failed: %v", err)
		}
		var got protocol.ServerMessage
		if err := json.Unmarshal(payload, &got); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if got.Sequence != 9 || got.Type != protocol.ServerTypeChat || got.Content != "hi" {
			t.Errorf("Round trip mangled message: %+v", got)
		}
	})
}
