package network

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aojiaoxiaolinlin/game-server/server/internal/protocol"
)

const (
	// MaxMessageSize caps a single frame's payload. Oversized frames
	// indicate a broken or hostile client and end the connection.
	MaxMessageSize = 1 * 1024 * 1024
	// LengthPrefixSize is the size in bytes of the frame length prefix.
	LengthPrefixSize = 4
)

// ErrFrameTooLarge is returned when a frame announces a payload above
// MaxMessageSize.
var ErrFrameTooLarge = fmt.Errorf("frame exceeds %d bytes", MaxMessageSize)

// WriteFrame writes a length-prefixed payload: 4 bytes big-endian
// length, then the body.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxMessageSize {
		return ErrFrameTooLarge
	}
	lenBuf := make([]byte, LengthPrefixSize)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(payload)))
	if _, err := w.Write(lenBuf); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one length-prefixed payload.
func ReadFrame(r io.Reader) ([]byte, error) {
	lenBuf := make([]byte, LengthPrefixSize)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, err
	}
	messageLength := binary.BigEndian.Uint32(lenBuf)
	if messageLength == 0 {
		return nil, fmt.Errorf("zero-length frame")
	}
	if messageLength > MaxMessageSize {
		return nil, ErrFrameTooLarge
	}
	payload := make([]byte, messageLength)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ReadClientMessage reads and decodes one client frame.
func ReadClientMessage(r io.Reader) (protocol.ClientMessage, error) {
	var msg protocol.ClientMessage
	payload, err := ReadFrame(r)
	if err != nil {
		return msg, err
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg, fmt.Errorf("decode client message: %w", err)
	}
	return msg, nil
}

// WriteServerMessage encodes and writes one server frame.
func WriteServerMessage(w io.Writer, msg protocol.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode server message: %w", err)
	}
	return WriteFrame(w, payload)
}
