package levels

import (
	"fmt"

	"github.com/vovakirdan/realm-rescue/internal/puzzle"
)

// ValidationError describes a problem found in a level definition.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate inspects a level and returns every issue found.
// Issues are warnings: the engine treats broken connections as inert,
// so a level with issues is still playable.
// Checks:
//   - Name present, reward not negative
//   - At least one zone, zone IDs unique
//   - Exactly one hero and at least one treasure
//   - Connection endpoints exist and differ
//   - Pin IDs present, each gating a single connection
func Validate(lvl Level) []ValidationError {
	var issues []ValidationError
	add := func(code, format string, args ...any) {
		issues = append(issues, ValidationError{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if lvl.Name == "" {
		add("NO_NAME", "level %d has no name", lvl.ID)
	}
	if lvl.Reward < 0 {
		add("BAD_REWARD", "level %d has negative reward %d", lvl.ID, lvl.Reward)
	}

	zones := lvl.Layout.Zones
	if len(zones) == 0 {
		add("NO_ZONES", "level %d has no zones", lvl.ID)
	}

	seenZones := make(map[string]bool, len(zones))
	heroes, treasures := 0, 0
	for _, z := range zones {
		if seenZones[z.ID] {
			add("DUPLICATE_ZONE", "zone %q declared more than once; only the first is used", z.ID)
		}
		seenZones[z.ID] = true

		switch z.Content {
		case puzzle.Hero:
			heroes++
		case puzzle.Treasure:
			treasures++
		}
	}
	if heroes != 1 {
		add("HERO_COUNT", "level %d has %d heroes, want 1", lvl.ID, heroes)
	}
	if treasures == 0 {
		add("NO_TREASURE", "level %d has no treasure", lvl.ID)
	}

	pinUses := make(map[string]int)
	for i, c := range lvl.Layout.Connections {
		if !seenZones[c.From] {
			add("DANGLING_FROM", "connection %d starts at unknown zone %q", i, c.From)
		}
		if !seenZones[c.To] {
			add("DANGLING_TO", "connection %d ends at unknown zone %q", i, c.To)
		}
		if c.From == c.To {
			add("SELF_LOOP", "connection %d loops on zone %q", i, c.From)
		}
		if c.PinID == "" {
			add("NO_PIN", "connection %d (%s -> %s) has no pin", i, c.From, c.To)
			continue
		}
		pinUses[c.PinID]++
		if pinUses[c.PinID] == 2 {
			add("PIN_REUSE", "pin %q gates more than one connection", c.PinID)
		}
	}

	return issues
}
