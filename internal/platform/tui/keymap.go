package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMapper translates Bubble Tea key messages to menu and puzzle actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionDifficulty // Cycle the reward difficulty
	MenuActionUpgrade    // Upgrade the castle
	MenuActionResults    // Open the results table
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "d", "tab":
		return MenuActionDifficulty
	case "u":
		return MenuActionUpgrade
	case "h":
		return MenuActionResults
	}

	return MenuActionNone
}

// PuzzleAction represents an in-level action derived from input.
type PuzzleAction int

const (
	PuzzleActionNone PuzzleAction = iota
	PuzzleActionPrevPin
	PuzzleActionNextPin
	PuzzleActionPull
	PuzzleActionReset
	PuzzleActionOracle
	PuzzleActionNext // Continue to the next level after a win
	PuzzleActionBack
	PuzzleActionQuit
)

// MapKeyToPuzzleAction translates a key to a puzzle action.
// Digits 1-9 select a pin directly and are reported through pinIndex (0-based).
func (km *KeyMapper) MapKeyToPuzzleAction(msg tea.KeyMsg) (action PuzzleAction, pinIndex int) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return PuzzleActionQuit, -1
	case "left", "up", "a", "w", "k":
		return PuzzleActionPrevPin, -1
	case "right", "down", "d", "s", "j":
		return PuzzleActionNextPin, -1
	case "enter", " ", "p":
		return PuzzleActionPull, -1
	case "r":
		return PuzzleActionReset, -1
	case "o":
		return PuzzleActionOracle, -1
	case "n":
		return PuzzleActionNext, -1
	case "b", "esc":
		return PuzzleActionBack, -1
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return PuzzleActionPull, int(key[0] - '1')
	}

	return PuzzleActionNone, -1
}
