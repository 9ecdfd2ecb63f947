package actor

// PlayerSession tracks the per-connection message counters. The client
// sequence gates inbound frames against replays and gaps; the server
// sequence stamps outbound frames. Both sides count from 1.
type PlayerSession struct {
	PlayerID uint64

	lastClientSequence uint64
	serverSequence     uint64
}

// NewPlayerSession creates counters for a freshly authenticated player.
func NewPlayerSession(playerID uint64) *PlayerSession {
	return &PlayerSession{PlayerID: playerID}
}

// ResumeCounters sets the counters past frames already exchanged during
// the login handshake, so the first post-handshake frame is the next
// expected one.
func (s *PlayerSession) ResumeCounters(lastClient, lastServer uint64) {
	s.lastClientSequence = lastClient
	s.serverSequence = lastServer
}

// CheckClientSequence accepts a frame only when its sequence is exactly
// one greater than the last accepted frame. Duplicates and gaps are
// rejected without advancing the counter.
func (s *PlayerSession) CheckClientSequence(sequence uint64) bool {
	if sequence != s.lastClientSequence+1 {
		return false
	}
	s.lastClientSequence = sequence
	return true
}

// LastClientSequence returns the most recently accepted client sequence.
func (s *PlayerSession) LastClientSequence() uint64 {
	return s.lastClientSequence
}

// NextServerSequence returns the sequence for the next outbound frame.
func (s *PlayerSession) NextServerSequence() uint64 {
	s.serverSequence++
	return s.serverSequence
}
