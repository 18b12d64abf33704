package puzzle_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vovakirdan/realm-rescue/internal/puzzle"
)

const maxSteps = 64

func lavaFalls() puzzle.Layout {
	return puzzle.Layout{
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
	}
}

func TestNewStateAllPinsIntact(t *testing.T) {
	s := puzzle.NewState(lavaFalls())

	assert.Equal(t, []string{"p1", "p2", "p3"}, s.IntactPins())
	assert.Equal(t, puzzle.StatusPlaying, s.Status)
	assert.Empty(t, s.Message)
	assert.True(t, s.HasPin("p2"))
	assert.False(t, s.HasPin("p9"))
}

func TestNewStateCopiesLayout(t *testing.T) {
	layout := lavaFalls()
	s := puzzle.NewState(layout)

	layout.Zones[0].Content = puzzle.Enemy
	z, ok := s.Zone("z1")
	require.True(t, ok)
	assert.Equal(t, puzzle.Water, z.Content)
}

func TestRemovePin(t *testing.T) {
	s := puzzle.NewState(lavaFalls())

	assert.True(t, s.RemovePin("p1"))
	assert.False(t, s.RemovePin("p1"), "second removal is a no-op")
	assert.False(t, s.RemovePin("unknown"))
	assert.False(t, s.PinIntact("p1"))
	assert.Equal(t, []string{"p2", "p3"}, s.IntactPins())
}

func TestScenarioMove(t *testing.T) {
	s := puzzle.NewState(puzzle.Layout{
		Zones: []puzzle.Zone{
			{ID: "z1", Content: puzzle.Hero},
			{ID: "z2", Content: puzzle.Empty},
		},
		Connections: []puzzle.Connection{{From: "z1", To: "z2", PinID: "p1"}},
	})

	require.True(t, s.RemovePin("p1"))
	step := s.Step()

	assert.True(t, step.Changed)
	assert.Equal(t, puzzle.StatusPlaying, s.Status)
	z1, _ := s.Zone("z1")
	z2, _ := s.Zone("z2")
	assert.Equal(t, puzzle.Empty, z1.Content)
	assert.Equal(t, puzzle.Hero, z2.Content)
}

func TestScenarioNeutralizeThenWin(t *testing.T) {
	s := puzzle.NewState(lavaFalls())

	res := s.Play([]string{"p1", "p2", "p3"}, maxSteps)

	assert.Equal(t, puzzle.StatusWon, res.Status)
	assert.Equal(t, puzzle.MessageWon, res.Message)
}

func TestScenarioNeutralizeSteps(t *testing.T) {
	s := puzzle.NewState(lavaFalls())

	s.RemovePin("p1")
	res := s.RunUntilQuiescent(maxSteps)
	require.Equal(t, puzzle.StatusPlaying, res.Status)
	assert.True(t, res.Quiescent)
	z1, _ := s.Zone("z1")
	z2, _ := s.Zone("z2")
	assert.Equal(t, puzzle.Empty, z1.Content)
	assert.Equal(t, puzzle.Empty, z2.Content)

	// Empty source: nothing flows
	s.RemovePin("p2")
	res = s.RunUntilQuiescent(maxSteps)
	require.Equal(t, puzzle.StatusPlaying, res.Status)

	s.RemovePin("p3")
	res = s.RunUntilQuiescent(maxSteps)
	assert.Equal(t, puzzle.StatusWon, res.Status)
}

func TestLavaFallsLavaFirstBurns(t *testing.T) {
	s := puzzle.NewState(lavaFalls())

	res := s.Play([]string{"p2"}, maxSteps)

	assert.Equal(t, puzzle.StatusLost, res.Status)
	assert.Equal(t, puzzle.MessageBurned, res.Message)
}

func TestScenarioLoss(t *testing.T) {
	s := puzzle.NewState(puzzle.Layout{
		Zones: []puzzle.Zone{
			{ID: "z1", Content: puzzle.Lava},
			{ID: "z2", Content: puzzle.Hero},
		},
		Connections: []puzzle.Connection{{From: "z1", To: "z2", PinID: "p1"}},
	})

	s.RemovePin("p1")
	step := s.Step()

	assert.Equal(t, puzzle.StatusLost, step.Status)
	assert.Equal(t, puzzle.MessageBurned, s.Message)

	out, ok := s.Outcome()
	require.True(t, ok)
	assert.Equal(t, puzzle.StatusLost, out.Status)
	assert.Nil(t, out.Reward)

	// Terminal: further steps do nothing
	before := s.Hash()
	again := s.Step()
	assert.False(t, again.Changed)
	assert.Empty(t, again.Reactions)
	assert.Equal(t, before, s.Hash())
}

func TestScenarioInertPair(t *testing.T) {
	s := puzzle.NewState(puzzle.Layout{
		Zones: []puzzle.Zone{
			{ID: "z1", Content: puzzle.Enemy},
			{ID: "z2", Content: puzzle.Water},
		},
		Connections: []puzzle.Connection{{From: "z1", To: "z2", PinID: "p1"}},
	})

	s.RemovePin("p1")
	res := s.RunUntilQuiescent(maxSteps)

	assert.True(t, res.Quiescent)
	assert.Zero(t, res.Steps)
	assert.Equal(t, puzzle.StatusPlaying, res.Status)
	z1, _ := s.Zone("z1")
	z2, _ := s.Zone("z2")
	assert.Equal(t, puzzle.Enemy, z1.Content)
	assert.Equal(t, puzzle.Water, z2.Content)
}

func TestRunUntilQuiescentDetectsCycle(t *testing.T) {
	// Lava circulates a -> b -> c -> a and returns to its start after two steps
	s := puzzle.NewState(puzzle.Layout{
		Zones: []puzzle.Zone{
			{ID: "a", Content: puzzle.Lava},
			{ID: "b", Content: puzzle.Empty},
			{ID: "c", Content: puzzle.Empty},
		},
		Connections: []puzzle.Connection{
			{From: "b", To: "c", PinID: "p2"},
			{From: "a", To: "b", PinID: "p1"},
			{From: "c", To: "a", PinID: "p3"},
		},
	})
	s.RemovePin("p1")
	s.RemovePin("p2")
	s.RemovePin("p3")

	res := s.RunUntilQuiescent(maxSteps)

	assert.True(t, res.Cycled)
	assert.Equal(t, 2, res.Steps)
	assert.Equal(t, puzzle.StatusPlaying, res.Status)
}

func TestTerminalStateIgnoresPins(t *testing.T) {
	s := puzzle.NewState(lavaFalls())
	s.Play([]string{"p3"}, maxSteps)
	require.Equal(t, puzzle.StatusWon, s.Status)

	assert.False(t, s.RemovePin("p1"))
	assert.True(t, s.PinIntact("p1"))
}

func TestResetRestoresFreshState(t *testing.T) {
	s := puzzle.NewState(lavaFalls())
	fresh := s.Snapshot()

	s.Play([]string{"p2"}, maxSteps)
	require.Equal(t, puzzle.StatusLost, s.Status)

	s.Reset()
	assert.Equal(t, fresh, s.Snapshot())

	s.Reset()
	assert.Equal(t, fresh, s.Snapshot(), "reset is idempotent")
}

func TestCloneIsIndependent(t *testing.T) {
	s := puzzle.NewState(lavaFalls())
	c := s.Clone()

	s.RemovePin("p1")
	s.Step()

	assert.True(t, c.PinIntact("p1"))
	z, _ := c.Zone("z1")
	assert.Equal(t, puzzle.Water, z.Content)
}

// layoutGen draws small layouts, including dangling endpoints and shared pins.
func layoutGen() *rapid.Generator[puzzle.Layout] {
	return rapid.Custom(func(t *rapid.T) puzzle.Layout {
		n := rapid.IntRange(1, 5).Draw(t, "zones")
		ids := make([]string, 0, n+1)
		layout := puzzle.Layout{}
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("z%d", i+1)
			ids = append(ids, id)
			kind := rapid.SampledFrom(puzzle.AllKinds()).Draw(t, "kind")
			layout.Zones = append(layout.Zones, puzzle.Zone{ID: id, Content: kind})
		}
		ids = append(ids, "missing")

		m := rapid.IntRange(0, 6).Draw(t, "connections")
		for i := 0; i < m; i++ {
			layout.Connections = append(layout.Connections, puzzle.Connection{
				From:  rapid.SampledFrom(ids).Draw(t, "from"),
				To:    rapid.SampledFrom(ids).Draw(t, "to"),
				PinID: rapid.SampledFrom([]string{"p1", "p2", "p3", "p4"}).Draw(t, "pin"),
			})
		}
		return layout
	})
}

func TestPropertyResolveDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		layout := layoutGen().Draw(t, "layout")
		closed := rapid.SliceOf(rapid.SampledFrom([]string{"p1", "p2", "p3", "p4"})).Draw(t, "closed")
		intact := func(id string) bool {
			for _, c := range closed {
				if c == id {
					return true
				}
			}
			return false
		}

		a := puzzle.Resolve(layout.Zones, layout.Connections, intact)
		b := puzzle.Resolve(layout.Zones, layout.Connections, intact)
		if fmt.Sprint(a) != fmt.Sprint(b) {
			t.Fatalf("non-deterministic resolution: %v vs %v", a, b)
		}
	})
}

func TestPropertyResolveNeverMutatesInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		layout := layoutGen().Draw(t, "layout")
		before := puzzle.CloneZones(layout.Zones)

		puzzle.Resolve(layout.Zones, layout.Connections, allOpen)

		if fmt.Sprint(before) != fmt.Sprint(layout.Zones) {
			t.Fatalf("input mutated: %v -> %v", before, layout.Zones)
		}
	})
}

func TestPropertyNeutralizationSymmetric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lavaFirst := rapid.Bool().Draw(t, "lava_first")
		src, dst := puzzle.Lava, puzzle.Water
		if !lavaFirst {
			src, dst = dst, src
		}
		in := []puzzle.Zone{{ID: "a", Content: src}, {ID: "b", Content: dst}}

		res := puzzle.Resolve(in, []puzzle.Connection{{From: "a", To: "b", PinID: "p"}}, allOpen)

		if res.Zones[0].Content != puzzle.Empty || res.Zones[1].Content != puzzle.Empty {
			t.Fatalf("expected both zones empty, got %v", res.Zones)
		}
		if res.Status != puzzle.StatusPlaying {
			t.Fatalf("expected PLAYING, got %v", res.Status)
		}
	})
}

func TestPropertyTerminalStatesImmutable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		layout := layoutGen().Draw(t, "layout")
		s := puzzle.NewState(layout)
		for _, id := range layout.PinIDs() {
			s.RemovePin(id)
		}
		s.RunUntilQuiescent(maxSteps)
		if !s.Status.IsTerminal() {
			return
		}

		hash := s.Hash()
		msg := s.Message
		for _, id := range layout.PinIDs() {
			if s.RemovePin(id) {
				t.Fatalf("pin %s removed after terminal", id)
			}
		}
		for i := 0; i < 3; i++ {
			s.Step()
		}
		if s.Hash() != hash || s.Message != msg {
			t.Fatalf("terminal state changed")
		}
	})
}

func TestPropertyResetIndependence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		layout := layoutGen().Draw(t, "layout")
		fresh := puzzle.NewState(layout).Snapshot()

		s := puzzle.NewState(layout)
		pins := rapid.SliceOf(rapid.SampledFrom([]string{"p1", "p2", "p3", "p4", "p5"})).Draw(t, "pins")
		s.Play(pins, maxSteps)
		s.Reset()

		if fmt.Sprint(fresh) != fmt.Sprint(s.Snapshot()) {
			t.Fatalf("reset mismatch: %v vs %v", fresh, s.Snapshot())
		}
	})
}

func TestPropertyRunTerminates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		layout := layoutGen().Draw(t, "layout")
		s := puzzle.NewState(layout)
		for _, id := range layout.PinIDs() {
			s.RemovePin(id)
		}

		res := s.RunUntilQuiescent(1000)

		// Cycle detection bounds every run by the number of distinct configurations
		if res.Steps >= 1000 {
			t.Fatalf("run did not settle: %+v", res)
		}
	})
}
