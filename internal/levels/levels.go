// Package levels provides the level catalog for Realm Rescue: the built-in
// campaign plus YAML level packs loaded from disk.
// This package depends on puzzle but puzzle does not depend on levels.
package levels

import (
	"github.com/vovakirdan/realm-rescue/internal/config"
	"github.com/vovakirdan/realm-rescue/internal/puzzle"
)

// Level is a complete level definition.
type Level struct {
	ID       int
	Name     string
	Tier     int // Difficulty tier shown in menus, 1 = easiest
	Reward   int // Base gold reward before the difficulty multiplier
	Hint     string
	Layout   puzzle.Layout
	FilePath string // Empty for built-in levels
}

// NewState creates a fresh puzzle state for this level.
func (l Level) NewState() *puzzle.State {
	return puzzle.NewState(l.Layout)
}

// RewardFor returns the final reward for the chosen difficulty.
func (l Level) RewardFor(d config.Difficulty) int {
	return config.FinalReward(l.Reward, d)
}

// Builtin returns the built-in campaign in ID order.
func Builtin() []Level {
	return []Level{
		{
			ID:     1,
			Name:   "The First Chamber",
			Tier:   1,
			Reward: 100,
			Hint:   "Gravity is your friend. Clear the path to the gold.",
			Layout: puzzle.Layout{
				Zones: []puzzle.Zone{
					{ID: "z1", Content: puzzle.Hero, Amount: 1},
					{ID: "z2", Content: puzzle.Empty, Amount: 0},
					{ID: "z3", Content: puzzle.Treasure, Amount: 50},
				},
				Connections: []puzzle.Connection{
					{From: "z1", To: "z2", PinID: "p1"}, // Hero drops to the middle chamber
					{From: "z3", To: "z2", PinID: "p2"}, // Treasure drops to the middle chamber
				},
			},
		},
		{
			ID:     2,
			Name:   "Lava Falls",
			Tier:   2,
			Reward: 250,
			Hint:   "Water turns lava into harmless stone. Don't let the hero burn.",
			Layout: puzzle.Layout{
				Zones: []puzzle.Zone{
					{ID: "z1", Content: puzzle.Water, Amount: 10},
					{ID: "z2", Content: puzzle.Lava, Amount: 10},
					{ID: "z3", Content: puzzle.Hero, Amount: 1},
					{ID: "z4", Content: puzzle.Treasure, Amount: 100},
				},
				Connections: []puzzle.Connection{
					{From: "z1", To: "z2", PinID: "p1"},
					{From: "z2", To: "z3", PinID: "p2"},
					{From: "z3", To: "z4", PinID: "p3"},
				},
			},
		},
		{
			ID:     3,
			Name:   "Goblin Ambush",
			Tier:   3,
			Reward: 500,
			Hint:   "Lava can defeat enemies. Use the environment to clear the threat.",
			Layout: puzzle.Layout{
				Zones: []puzzle.Zone{
					{ID: "z1", Content: puzzle.Lava, Amount: 10},
					{ID: "z2", Content: puzzle.Enemy, Amount: 1},
					{ID: "z3", Content: puzzle.Hero, Amount: 1},
					{ID: "z4", Content: puzzle.Treasure, Amount: 200},
				},
				Connections: []puzzle.Connection{
					{From: "z1", To: "z2", PinID: "p1"},
					{From: "z2", To: "z3", PinID: "p2"},
					{From: "z3", To: "z4", PinID: "p3"},
				},
			},
		},
	}
}
