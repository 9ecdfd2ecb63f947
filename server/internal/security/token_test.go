package security

import (
	"errors"
	"testing"
	"time"
)

func TestTokenManager(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	t.Run("RoundTrip", func(t *testing.T) {
		token, err := manager.Issue(42)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.PlayerID != 42 {
			t.Errorf("Expected player 42, got %d", claims.PlayerID)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewTokenManager("other-secret", time.Hour)
		token, err := other.Issue(42)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		if _, err := manager.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		shortLived := NewTokenManager("test-secret", -time.Minute)
		token, err := shortLived.Issue(42)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
		}
	})
}
