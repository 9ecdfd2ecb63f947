package actor

import "testing"

func TestCheckClientSequence(t *testing.T) {
	t.Run("AcceptsExactlyNext", func(t *testing.T) {
		s := NewPlayerSession(1)
		for i := uint64(1); i <= 3; i++ {
			if !s.CheckClientSequence(i) {
				t.Fatalf("Sequence %d should be accepted", i)
			}
		}
		if s.LastClientSequence() != 3 {
			t.Errorf("Expected last sequence 3, got %d", s.LastClientSequence())
		}
	})

	t.Run("RejectsDuplicate", func(t *testing.T) {
		s := NewPlayerSession(1)
		s.CheckClientSequence(1)
		if s.CheckClientSequence(1) {
			t.Error("Replayed sequence should be rejected")
		}
		if s.LastClientSequence() != 1 {
			t.Errorf("Counter must not advance on rejection, got %d", s.LastClientSequence())
		}
	})

	t.Run("RejectsGap", func(t *testing.T) {
		s := NewPlayerSession(1)
		s.CheckClientSequence(1)
		if s.CheckClientSequence(3) {
			t.Error("Gapped sequence should be rejected")
		}
		// The skipped sequence is still the expected one.
		if !s.CheckClientSequence(2) {
			t.Error("Next sequence should still be accepted after a gap")
		}
	})

	t.Run("ResumeCounters", func(t *testing.T) {
		s := NewPlayerSession(1)
		s.ResumeCounters(4, 2)
		if s.CheckClientSequence(4) {
			t.Error("Handshake frames must not be replayable")
		}
		if !s.CheckClientSequence(5) {
			t.Error("First post-handshake frame should be accepted")
		}
		if got := s.NextServerSequence(); got != 3 {
			t.Errorf("Expected server sequence 3, got %d", got)
		}
	})
}
