package game

import (
	"testing"

	"github.com/aojiaoxiaolinlin/game-server/server/internal/model"
)

func TestAttributeTable(t *testing.T) {
	data := []byte(`{
		"huo": { "mu": 2.0, "shui": 0.5 },
		"shui": { "huo": 2.0 }
	}`)

	table, err := ParseAttributeTable(data)
	if err != nil {
		t.Fatalf("ParseAttributeTable failed: %v", err)
	}

	t.Run("KnownPairs", func(t *testing.T) {
		if got := table.Effectiveness(model.AttributeHuo, model.AttributeMu); got != 2.0 {
			t.Errorf("huo vs mu: expected 2.0, got %v", got)
		}
		if got := table.Effectiveness(model.AttributeHuo, model.AttributeShui); got != 0.5 {
			t.Errorf("huo vs shui: expected 0.5, got %v", got)
		}
	})

	t.Run("UnknownPairsAreNeutral", func(t *testing.T) {
		if got := table.Effectiveness(model.AttributeHuo, model.AttributeLei); got != 1.0 {
			t.Errorf("huo vs lei: expected 1.0, got %v", got)
		}
		if got := table.Effectiveness(model.AttributeLei, model.AttributeHuo); got != 1.0 {
			t.Errorf("lei vs huo: expected 1.0, got %v", got)
		}
	})

	t.Run("DefaultTableIsNeutral", func(t *testing.T) {
		table := DefaultAttributeTable()
		if got := table.Effectiveness(model.AttributeHuo, model.AttributeMu); got != 1.0 {
			t.Errorf("Expected 1.0 from empty table, got %v", got)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		if _, err := ParseAttributeTable([]byte("{not json")); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})
}
