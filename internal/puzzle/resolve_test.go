package puzzle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/realm-rescue/internal/puzzle"
)

func zones(kinds ...puzzle.EntityKind) []puzzle.Zone {
	out := make([]puzzle.Zone, len(kinds))
	for i, k := range kinds {
		out[i] = puzzle.Zone{ID: "z" + string(rune('1'+i)), Content: k}
	}
	return out
}

func allOpen(string) bool { return false }

func TestClassifyRuleTable(t *testing.T) {
	tests := []struct {
		src, dst puzzle.EntityKind
		want     puzzle.ReactionKind
	}{
		{puzzle.Hero, puzzle.Empty, puzzle.ReactionMove},
		{puzzle.Lava, puzzle.Empty, puzzle.ReactionMove},
		{puzzle.Treasure, puzzle.Empty, puzzle.ReactionMove},
		{puzzle.Lava, puzzle.Water, puzzle.ReactionNeutralize},
		{puzzle.Water, puzzle.Lava, puzzle.ReactionNeutralize},
		{puzzle.Lava, puzzle.Enemy, puzzle.ReactionConsume},
		{puzzle.Enemy, puzzle.Lava, puzzle.ReactionNone},
		{puzzle.Hero, puzzle.Treasure, puzzle.ReactionWin},
		{puzzle.Treasure, puzzle.Hero, puzzle.ReactionWin},
		{puzzle.Hero, puzzle.Lava, puzzle.ReactionBurn},
		{puzzle.Lava, puzzle.Hero, puzzle.ReactionBurn},
		{puzzle.Hero, puzzle.Enemy, puzzle.ReactionAmbush},
		{puzzle.Enemy, puzzle.Hero, puzzle.ReactionAmbush},
		{puzzle.Enemy, puzzle.Water, puzzle.ReactionNone},
		{puzzle.Water, puzzle.Treasure, puzzle.ReactionNone},
		{puzzle.Hero, puzzle.Water, puzzle.ReactionNone},
		{puzzle.Empty, puzzle.Hero, puzzle.ReactionNone},
		{puzzle.Empty, puzzle.Empty, puzzle.ReactionNone},
	}

	for _, tt := range tests {
		t.Run(tt.src.String()+"_to_"+tt.dst.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, puzzle.Classify(tt.src, tt.dst))
		})
	}
}

func TestResolveMoveIntoEmpty(t *testing.T) {
	in := zones(puzzle.Hero, puzzle.Empty)
	conns := []puzzle.Connection{{From: "z1", To: "z2", PinID: "p1"}}

	res := puzzle.Resolve(in, conns, allOpen)

	require.True(t, res.Changed)
	assert.Equal(t, puzzle.StatusPlaying, res.Status)
	assert.Equal(t, puzzle.Empty, res.Zones[0].Content)
	assert.Equal(t, puzzle.Hero, res.Zones[1].Content)
	require.Len(t, res.Reactions, 1)
	assert.Equal(t, puzzle.ReactionMove, res.Reactions[0].Kind)
	assert.Equal(t, "p1", res.Reactions[0].PinID)

	// Input must be untouched
	assert.Equal(t, puzzle.Hero, in[0].Content)
	assert.Equal(t, puzzle.Empty, in[1].Content)
}

func TestResolveIntactPinBlocks(t *testing.T) {
	in := zones(puzzle.Hero, puzzle.Empty)
	conns := []puzzle.Connection{{From: "z1", To: "z2", PinID: "p1"}}

	res := puzzle.Resolve(in, conns, func(id string) bool { return id == "p1" })

	assert.False(t, res.Changed)
	assert.Empty(t, res.Reactions)
	assert.Equal(t, in, res.Zones)
}

func TestResolveLaterConnectionsSeeEarlierMoves(t *testing.T) {
	// z1 -> z2 moves the hero, then z2 -> z3 sees it in the same step
	in := zones(puzzle.Hero, puzzle.Empty, puzzle.Empty)
	conns := []puzzle.Connection{
		{From: "z1", To: "z2", PinID: "p1"},
		{From: "z2", To: "z3", PinID: "p2"},
	}

	res := puzzle.Resolve(in, conns, allOpen)

	require.True(t, res.Changed)
	assert.Equal(t, puzzle.Empty, res.Zones[0].Content)
	assert.Equal(t, puzzle.Empty, res.Zones[1].Content)
	assert.Equal(t, puzzle.Hero, res.Zones[2].Content)
	assert.Len(t, res.Reactions, 2)
}

func TestResolveTerminalDiscardsWorkingCopy(t *testing.T) {
	// The first connection moves water, the second wins; the move must not be committed
	in := []puzzle.Zone{
		{ID: "a", Content: puzzle.Water},
		{ID: "b", Content: puzzle.Empty},
		{ID: "h", Content: puzzle.Hero},
		{ID: "t", Content: puzzle.Treasure},
	}
	conns := []puzzle.Connection{
		{From: "a", To: "b", PinID: "p1"},
		{From: "h", To: "t", PinID: "p2"},
	}

	res := puzzle.Resolve(in, conns, allOpen)

	assert.Equal(t, puzzle.StatusWon, res.Status)
	assert.Equal(t, puzzle.MessageWon, res.Message)
	assert.False(t, res.Changed)
	assert.Equal(t, in, res.Zones)
	assert.Len(t, res.Reactions, 2)
}

func TestResolveFirstTerminalWins(t *testing.T) {
	in := []puzzle.Zone{
		{ID: "e", Content: puzzle.Enemy},
		{ID: "h", Content: puzzle.Hero},
		{ID: "t", Content: puzzle.Treasure},
	}
	conns := []puzzle.Connection{
		{From: "e", To: "h", PinID: "p1"},
		{From: "h", To: "t", PinID: "p2"},
	}

	res := puzzle.Resolve(in, conns, allOpen)

	assert.Equal(t, puzzle.StatusLost, res.Status)
	assert.Equal(t, puzzle.MessageAmbush, res.Message)
}

func TestResolveMissingEndpointIsInert(t *testing.T) {
	in := zones(puzzle.Hero)
	conns := []puzzle.Connection{
		{From: "z1", To: "nowhere", PinID: "p1"},
		{From: "ghost", To: "z1", PinID: "p2"},
	}

	assert.NotPanics(t, func() {
		res := puzzle.Resolve(in, conns, allOpen)
		assert.False(t, res.Changed)
		assert.Equal(t, puzzle.StatusPlaying, res.Status)
	})
}

func TestResolveRoundTripIsQuiescent(t *testing.T) {
	// a <-> b with one occupant: the hero bounces and comes back within one step
	in := []puzzle.Zone{
		{ID: "a", Content: puzzle.Hero},
		{ID: "b", Content: puzzle.Empty},
	}
	conns := []puzzle.Connection{
		{From: "a", To: "b", PinID: "p1"},
		{From: "b", To: "a", PinID: "p2"},
	}

	res := puzzle.Resolve(in, conns, allOpen)

	// Contents equal the input, so the step is quiescent
	assert.False(t, res.Changed)
	assert.Len(t, res.Reactions, 2)
}
