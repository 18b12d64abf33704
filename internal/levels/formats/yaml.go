// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/realm-rescue/internal/puzzle"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID          int              `yaml:"id"`
	Name        string           `yaml:"name"`
	Tier        int              `yaml:"tier,omitempty"`
	Reward      int              `yaml:"reward"`
	Hint        string           `yaml:"hint,omitempty"`
	Zones       []YAMLZone       `yaml:"zones"`
	Connections []YAMLConnection `yaml:"connections"`
}

// YAMLZone represents a single zone.
type YAMLZone struct {
	ID      string `yaml:"id"`
	Content string `yaml:"content"` // Entity kind name, empty means Empty
	Amount  int    `yaml:"amount,omitempty"`
}

// YAMLConnection represents a pin-gated connection.
type YAMLConnection struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Pin  string `yaml:"pin"`
}

// Level represents a parsed level ready for use.
type Level struct {
	ID     int
	Name   string
	Tier   int
	Reward int
	Hint   string
	Layout puzzle.Layout
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID <= 0 {
		return Level{}, fmt.Errorf("level id must be positive, got %d", yl.ID)
	}

	tier := yl.Tier
	if tier <= 0 {
		tier = 1 // Default tier
	}

	level := Level{
		ID:     yl.ID,
		Name:   yl.Name,
		Tier:   tier,
		Reward: yl.Reward,
		Hint:   yl.Hint,
	}

	for _, z := range yl.Zones {
		kind, ok := puzzle.ParseEntityKind(z.Content)
		if !ok {
			return Level{}, fmt.Errorf("zone %q: unknown content %q", z.ID, z.Content)
		}
		level.Layout.Zones = append(level.Layout.Zones, puzzle.Zone{
			ID:      z.ID,
			Content: kind,
			Amount:  z.Amount,
		})
	}

	for _, c := range yl.Connections {
		level.Layout.Connections = append(level.Layout.Connections, puzzle.Connection{
			From:  c.From,
			To:    c.To,
			PinID: c.Pin,
		})
	}

	return level, nil
}

// MarshalYAML renders a level in the file format, used by level export.
func MarshalYAML(l Level) ([]byte, error) {
	yl := YAMLLevel{
		ID:     l.ID,
		Name:   l.Name,
		Tier:   l.Tier,
		Reward: l.Reward,
		Hint:   l.Hint,
	}
	for _, z := range l.Layout.Zones {
		yl.Zones = append(yl.Zones, YAMLZone{ID: z.ID, Content: z.Content.String(), Amount: z.Amount})
	}
	for _, c := range l.Layout.Connections {
		yl.Connections = append(yl.Connections, YAMLConnection{From: c.From, To: c.To, Pin: c.PinID})
	}
	return yaml.Marshal(yl)
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
