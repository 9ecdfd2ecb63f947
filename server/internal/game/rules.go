package game

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/aojiaoxiaolinlin/game-server/server/internal/model"
)

// neutralMultiplier is used for any attribute pairing the table does not
// list explicitly.
const neutralMultiplier = 1.0

// AttributeTable holds the attacker-attribute vs defender-attribute
// effectiveness multipliers, loaded once at process start.
type AttributeTable struct {
	relationship map[model.Attribute]map[model.Attribute]float64
}

// NewAttributeTable builds a table from an in-memory relationship map.
func NewAttributeTable(relationship map[model.Attribute]map[model.Attribute]float64) *AttributeTable {
	if relationship == nil {
		relationship = make(map[model.Attribute]map[model.Attribute]float64)
	}
	return &AttributeTable{relationship: relationship}
}

// DefaultAttributeTable returns an empty table where every pairing is
// neutral.
func DefaultAttributeTable() *AttributeTable {
	return NewAttributeTable(nil)
}

// LoadAttributeTable reads the effectiveness table from a JSON file of
// the form {"huo": {"mu": 2.0, ...}, ...}.
func LoadAttributeTable(path string) (*AttributeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attribute table %s: %w", path, err)
	}
	return ParseAttributeTable(data)
}

// ParseAttributeTable parses the JSON effectiveness table.
func ParseAttributeTable(data []byte) (*AttributeTable, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("attribute table is not valid JSON")
	}
	relationship := make(map[model.Attribute]map[model.Attribute]float64)
	gjson.ParseBytes(data).ForEach(func(attacker, targets gjson.Result) bool {
		row := make(map[model.Attribute]float64)
		targets.ForEach(func(defender, multiplier gjson.Result) bool {
			row[model.Attribute(defender.String())] = multiplier.Float()
			return true
		})
		relationship[model.Attribute(attacker.String())] = row
		return true
	})
	return NewAttributeTable(relationship), nil
}

// Effectiveness returns the damage multiplier of an attack of the given
// attribute against a defender of the target attribute. Pairs without an
// explicit entry are neutral.
func (t *AttributeTable) Effectiveness(attribute, targetAttribute model.Attribute) float64 {
	row, ok := t.relationship[attribute]
	if !ok {
		return neutralMultiplier
	}
	multiplier, ok := row[targetAttribute]
	if !ok {
		return neutralMultiplier
	}
	return multiplier
}
