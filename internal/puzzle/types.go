// Package puzzle provides the zone/pin resolution engine for Realm Rescue.
// This package is UI-agnostic and deterministic.
package puzzle

import (
	"fmt"
	"strings"
)

// EntityKind is the single occupant kind of a zone.
type EntityKind uint8

const (
	Empty EntityKind = iota
	Hero
	Enemy
	Treasure
	Lava
	Water
)

// String returns the string representation of an entity kind.
func (k EntityKind) String() string {
	switch k {
	case Empty:
		return "Empty"
	case Hero:
		return "Hero"
	case Enemy:
		return "Enemy"
	case Treasure:
		return "Treasure"
	case Lava:
		return "Lava"
	case Water:
		return "Water"
	default:
		return "Unknown"
	}
}

// ParseEntityKind parses a kind name (case-insensitive).
func ParseEntityKind(s string) (EntityKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "empty", "":
		return Empty, true
	case "hero":
		return Hero, true
	case "enemy":
		return Enemy, true
	case "treasure":
		return Treasure, true
	case "lava":
		return Lava, true
	case "water":
		return Water, true
	default:
		return Empty, false
	}
}

// AllKinds returns every entity kind in declaration order.
func AllKinds() []EntityKind {
	return []EntityKind{Empty, Hero, Enemy, Treasure, Lava, Water}
}

// Zone is a chamber holding at most one entity kind.
type Zone struct {
	ID      string
	Content EntityKind
	Amount  int // Display/reward flavour only, never read by the resolver
}

// Connection is a directed edge gated by a pin.
// Content only ever travels From -> To, and only once the pin is removed.
type Connection struct {
	From  string
	To    string
	PinID string
}

// Layout is the immutable zone/connection description of a level.
type Layout struct {
	Zones       []Zone
	Connections []Connection
}

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	return Layout{
		Zones:       CloneZones(l.Zones),
		Connections: append([]Connection(nil), l.Connections...),
	}
}

// PinIDs returns the distinct pin ids referenced by connections, in declared order.
func (l Layout) PinIDs() []string {
	seen := make(map[string]bool, len(l.Connections))
	ids := make([]string, 0, len(l.Connections))
	for _, c := range l.Connections {
		if seen[c.PinID] {
			continue
		}
		seen[c.PinID] = true
		ids = append(ids, c.PinID)
	}
	return ids
}

// HasZone reports whether a zone with the given id exists.
func (l Layout) HasZone(id string) bool {
	return zoneIndex(l.Zones, id) >= 0
}

// CloneZones returns an independent copy of a zone slice.
func CloneZones(zones []Zone) []Zone {
	if zones == nil {
		return nil
	}
	out := make([]Zone, len(zones))
	copy(out, zones)
	return out
}

// zoneIndex returns the index of the first zone with the given id, or -1.
func zoneIndex(zones []Zone, id string) int {
	for i := range zones {
		if zones[i].ID == id {
			return i
		}
	}
	return -1
}

// Status is the lifecycle state of a puzzle.
type Status uint8

const (
	StatusPlaying Status = iota
	StatusWon
	StatusLost
)

// String returns the string representation of a status.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "PLAYING"
	case StatusWon:
		return "WON"
	case StatusLost:
		return "LOST"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal reports whether the status ends active simulation.
func (s Status) IsTerminal() bool {
	return s == StatusWon || s == StatusLost
}

// Outcome is the terminal event handed to the hosting UI.
// Reward is nil unless the reporter credited one.
type Outcome struct {
	Status  Status
	Message string
	Reward  *int
}

// String formats the outcome for logs and CLI output.
func (o Outcome) String() string {
	if o.Reward != nil {
		return fmt.Sprintf("%s: %s (+%d gold)", o.Status, o.Message, *o.Reward)
	}
	return fmt.Sprintf("%s: %s", o.Status, o.Message)
}

// Outcome messages.
const (
	MessageWon    = "Treasures Secured!"
	MessageBurned = "Hero burned to a crisp!"
	MessageAmbush = "Ambushed by Goblins!"
)
