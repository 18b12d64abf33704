package config

import (
	"math"
	"strings"
)

// Difficulty is the reward preset chosen when a level starts.
// It never affects the puzzle itself.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties returns the presets in menu order.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// ParseDifficulty parses a preset name (case-insensitive).
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, true
	case DifficultyNormal:
		return DifficultyNormal, true
	case DifficultyHard:
		return DifficultyHard, true
	default:
		return DifficultyNormal, false
	}
}

// Multiplier returns the reward multiplier for the preset.
// Unknown presets pay like normal.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case DifficultyEasy:
		return 0.5
	case DifficultyHard:
		return 1.5
	default:
		return 1.0
	}
}

// Label returns the capitalized preset name for display.
func (d Difficulty) Label() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyHard:
		return "Hard"
	default:
		return "Normal"
	}
}

// Next cycles to the following preset, wrapping around.
func (d Difficulty) Next() Difficulty {
	switch d {
	case DifficultyEasy:
		return DifficultyNormal
	case DifficultyNormal:
		return DifficultyHard
	default:
		return DifficultyEasy
	}
}

// FinalReward returns floor(base * multiplier).
func FinalReward(base int, d Difficulty) int {
	return int(math.Floor(float64(base) * d.Multiplier()))
}
