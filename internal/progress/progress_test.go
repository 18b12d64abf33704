package progress

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vovakirdan/realm-rescue/internal/config"
	"github.com/vovakirdan/realm-rescue/internal/puzzle"
)

func TestDefault(t *testing.T) {
	p := Default("alice")
	assert.Equal(t, "alice", p.Player)
	assert.Equal(t, 0, p.Gold)
	assert.Equal(t, 10, p.Gems)
	assert.Equal(t, 5, p.Energy)
	assert.Equal(t, 5, p.MaxEnergy)
	assert.Equal(t, 1, p.CurrentLevel)
	assert.Equal(t, 1, p.CastleLevel)
	assert.Equal(t, []int{1}, p.Unlocked)
	assert.True(t, p.Settings.Sound)
	assert.True(t, p.Settings.Haptics)
}

func TestCompleteLevelUnlocksNext(t *testing.T) {
	l := NewLedger(Default("bob"))

	l.CompleteLevel(1, 100)
	l.CompleteLevel(1, 100) // Replaying pays again but unlocks nothing new

	p := l.Snapshot()
	assert.Equal(t, 200, p.Gold)
	assert.Equal(t, []int{1, 2}, p.Unlocked)
	assert.Equal(t, 2, p.HighestUnlocked())
}

func TestUnlockLevelKeepsSorted(t *testing.T) {
	l := NewLedger(Default("bob"))
	assert.True(t, l.UnlockLevel(3))
	assert.True(t, l.UnlockLevel(2))
	assert.False(t, l.UnlockLevel(2))
	assert.Equal(t, []int{1, 2, 3}, l.Snapshot().Unlocked)
	assert.True(t, l.IsUnlocked(2))
	assert.False(t, l.IsUnlocked(4))
}

func TestSpendEnergy(t *testing.T) {
	l := NewLedger(Default("carol"))

	assert.True(t, l.SpendEnergy(3))
	assert.False(t, l.SpendEnergy(3))
	assert.Equal(t, 2, l.Snapshot().Energy)
	assert.False(t, l.SpendEnergy(-1))

	l.RefillEnergy()
	assert.Equal(t, 5, l.Snapshot().Energy)
}

func TestUpgradeCost(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 500},
		{1, 500},
		{2, 750},
		{3, 1125},
		{4, 1687},
		{5, 2531},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UpgradeCost(tt.level), "castle level %d", tt.level)
	}
}

func TestUpgradeCastle(t *testing.T) {
	l := NewLedger(Default("dave"))

	_, cost, err := l.UpgradeCastle()
	require.ErrorIs(t, err, ErrInsufficientGold)
	assert.Equal(t, 500, cost)

	l.AddGold(1300)
	level, cost, err := l.UpgradeCastle()
	require.NoError(t, err)
	assert.Equal(t, 2, level)
	assert.Equal(t, 500, cost)

	level, cost, err = l.UpgradeCastle()
	require.NoError(t, err)
	assert.Equal(t, 3, level)
	assert.Equal(t, 750, cost)
	assert.Equal(t, 50, l.Snapshot().Gold)
}

func TestTogglesAndReset(t *testing.T) {
	l := NewLedger(Default("erin"))
	assert.False(t, l.ToggleSound())
	assert.False(t, l.ToggleHaptics())
	l.AddGold(99)

	l.Reset()
	p := l.Snapshot()
	assert.Equal(t, Default("erin"), p)
}

func TestSnapshotIsIndependent(t *testing.T) {
	l := NewLedger(Default("frank"))
	p := l.Snapshot()
	p.Unlocked[0] = 42

	assert.Equal(t, []int{1}, l.Snapshot().Unlocked)
}

func TestLedgerConcurrentCredits(t *testing.T) {
	l := NewLedger(Default("gina"))
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.AddGold(10)
		}()
	}
	wg.Wait()
	assert.Equal(t, 500, l.Snapshot().Gold)
}

type fakeSaver struct {
	mu       sync.Mutex
	progress []Progress
	results  []LevelResult
	err      error
}

func (f *fakeSaver) SaveProgress(_ context.Context, p Progress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress = append(f.progress, p)
	return f.err
}

func (f *fakeSaver) SaveLevelResult(_ context.Context, r LevelResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
	return f.err
}

func TestReporterWonCreditsReward(t *testing.T) {
	l := NewLedger(Default("hana"))
	saver := &fakeSaver{}
	r := NewReporter(l, saver, Run{LevelID: 2, BaseReward: 250, Difficulty: config.DifficultyHard}, nil)

	out := r.Report(puzzle.Outcome{Status: puzzle.StatusWon, Message: puzzle.MessageWon})

	require.NotNil(t, out.Reward)
	assert.Equal(t, 375, *out.Reward)
	p := l.Snapshot()
	assert.Equal(t, 375, p.Gold)
	assert.True(t, p.IsUnlocked(3))

	require.Len(t, saver.progress, 1)
	assert.Equal(t, 375, saver.progress[0].Gold)
	require.Len(t, saver.results, 1)
	res := saver.results[0]
	assert.Equal(t, r.RunID(), res.RunID)
	assert.Equal(t, "hana", res.Player)
	assert.Equal(t, 2, res.LevelID)
	assert.Equal(t, puzzle.StatusWon, res.Status)
	assert.Equal(t, 375, res.Reward)
	assert.NotEmpty(t, res.RunID)
}

func TestReporterLostPaysNothing(t *testing.T) {
	l := NewLedger(Default("ivan"))
	saver := &fakeSaver{}
	r := NewReporter(l, saver, Run{LevelID: 1, BaseReward: 100, Difficulty: config.DifficultyNormal}, nil)

	out := r.Report(puzzle.Outcome{Status: puzzle.StatusLost, Message: puzzle.MessageBurned})

	assert.Nil(t, out.Reward)
	assert.Equal(t, 0, l.Snapshot().Gold)
	assert.Equal(t, []int{1}, l.Snapshot().Unlocked)
	require.Len(t, saver.results, 1)
	assert.Equal(t, 0, saver.results[0].Reward)
}

func TestReporterSaveFailureIsNotFatal(t *testing.T) {
	l := NewLedger(Default("jo"))
	saver := &fakeSaver{err: errors.New("disk full")}
	r := NewReporter(l, saver, Run{LevelID: 1, BaseReward: 100, Difficulty: config.DifficultyEasy}, nil)

	out := r.Report(puzzle.Outcome{Status: puzzle.StatusWon, Message: puzzle.MessageWon})

	require.NotNil(t, out.Reward)
	assert.Equal(t, 50, *out.Reward)
	assert.Equal(t, 50, l.Snapshot().Gold)
}

func TestReporterWithoutSaver(t *testing.T) {
	l := NewLedger(Default("kim"))
	r := NewReporter(l, nil, Run{LevelID: 3, BaseReward: 500, Difficulty: config.DifficultyNormal}, nil)

	out := r.Report(puzzle.Outcome{Status: puzzle.StatusWon, Message: puzzle.MessageWon})
	assert.Equal(t, 500, *out.Reward)
}

func TestPropertyCompleteLevelMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := NewLedger(Default("prop"))
		ids := rapid.SliceOf(rapid.IntRange(1, 20)).Draw(t, "levels")
		total := 0
		for _, id := range ids {
			reward := rapid.IntRange(0, 1000).Draw(t, "reward")
			before := l.Snapshot()
			l.CompleteLevel(id, reward)
			total += reward
			after := l.Snapshot()

			for _, u := range before.Unlocked {
				if !after.IsUnlocked(u) {
					t.Fatalf("level %d was locked again", u)
				}
			}
			if !after.IsUnlocked(id + 1) {
				t.Fatalf("level %d not unlocked after completing %d", id+1, id)
			}
		}
		if got := l.Snapshot().Gold; got != total {
			t.Fatalf("gold %d, want %d", got, total)
		}
	})
}
