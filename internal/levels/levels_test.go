package levels_test

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/vovakirdan/realm-rescue/internal/config"
	"github.com/vovakirdan/realm-rescue/internal/levels"
	"github.com/vovakirdan/realm-rescue/internal/puzzle"
)

// getTestdataPath returns path to testdata/levels.
func getTestdataPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "testdata", "levels")
}

func TestBuiltinCampaign(t *testing.T) {
	c := levels.DefaultCatalog()
	if c.Len() != 3 {
		t.Fatalf("expected 3 built-in levels, got %d", c.Len())
	}

	want := []struct {
		id     int
		name   string
		reward int
	}{
		{1, "The First Chamber", 100},
		{2, "Lava Falls", 250},
		{3, "Goblin Ambush", 500},
	}
	for i, lvl := range c.List() {
		if lvl.ID != want[i].id || lvl.Name != want[i].name || lvl.Reward != want[i].reward {
			t.Errorf("level %d: got %d %q %d", i, lvl.ID, lvl.Name, lvl.Reward)
		}
		if issues := levels.Validate(lvl); len(issues) != 0 {
			t.Errorf("built-in level %d has issues: %v", lvl.ID, issues)
		}
	}
}

func TestBuiltinSolutions(t *testing.T) {
	tests := []struct {
		id   int
		pins []string
		want puzzle.Status
		msg  string
	}{
		{1, []string{"p1", "p2"}, puzzle.StatusWon, puzzle.MessageWon},
		{1, []string{"p2", "p1"}, puzzle.StatusWon, puzzle.MessageWon},
		{2, []string{"p1", "p2", "p3"}, puzzle.StatusWon, puzzle.MessageWon},
		{2, []string{"p2"}, puzzle.StatusLost, puzzle.MessageBurned},
		{3, []string{"p3"}, puzzle.StatusWon, puzzle.MessageWon},
		{3, []string{"p2"}, puzzle.StatusLost, puzzle.MessageAmbush},
		{3, []string{"p1", "p2"}, puzzle.StatusLost, puzzle.MessageBurned},
	}

	c := levels.DefaultCatalog()
	for _, tt := range tests {
		lvl, err := c.Get(tt.id)
		if err != nil {
			t.Fatalf("Get(%d): %v", tt.id, err)
		}
		res := lvl.NewState().Play(tt.pins, 64)
		if res.Status != tt.want || res.Message != tt.msg {
			t.Errorf("level %d pins %v: got %s %q, want %s %q", tt.id, tt.pins, res.Status, res.Message, tt.want, tt.msg)
		}
	}
}

func TestRewardFor(t *testing.T) {
	lvl, err := levels.DefaultCatalog().Get(2)
	if err != nil {
		t.Fatal(err)
	}
	if got := lvl.RewardFor(config.DifficultyNormal); got != 250 {
		t.Errorf("normal: got %d, want 250", got)
	}
	if got := lvl.RewardFor(config.DifficultyHard); got != 375 {
		t.Errorf("hard: got %d, want 375", got)
	}
	if got := lvl.RewardFor(config.DifficultyEasy); got != 125 {
		t.Errorf("easy: got %d, want 125", got)
	}
}

func TestCatalogGetUnknown(t *testing.T) {
	_, err := levels.DefaultCatalog().Get(42)
	if !errors.Is(err, levels.ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}
}

func TestCatalogAddDuplicate(t *testing.T) {
	c := levels.DefaultCatalog()
	err := c.Add(levels.Level{ID: 1, Name: "Impostor"})
	if !errors.Is(err, levels.ErrDuplicateLevel) {
		t.Fatalf("expected ErrDuplicateLevel, got %v", err)
	}
}

func TestCatalogRegisterPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate Register")
		}
	}()
	c := levels.DefaultCatalog()
	c.Register(levels.Level{ID: 2, Name: "Again"})
}

func TestCatalogGetReturnsCopy(t *testing.T) {
	c := levels.DefaultCatalog()
	lvl, _ := c.Get(1)
	lvl.Layout.Zones[0].Content = puzzle.Enemy

	again, _ := c.Get(1)
	if again.Layout.Zones[0].Content != puzzle.Hero {
		t.Error("catalog level was mutated through Get")
	}
}

func TestCatalogNext(t *testing.T) {
	c := levels.DefaultCatalog()
	if next, ok := c.Next(1); !ok || next != 2 {
		t.Errorf("Next(1) = %d, %v", next, ok)
	}
	if _, ok := c.Next(3); ok {
		t.Error("Next(3) should not exist")
	}
}

func TestLoaderLoadAll(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath(), nil)

	lvls, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	// Files under bad/ fail to parse and are skipped
	if len(lvls) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(lvls))
	}

	// Should be sorted by ID
	for i := 1; i < len(lvls); i++ {
		if lvls[i-1].ID >= lvls[i].ID {
			t.Errorf("levels not sorted: %d >= %d", lvls[i-1].ID, lvls[i].ID)
		}
	}
}

func TestLoaderFloodedCrypt(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath(), nil)

	lvl, err := loader.LoadFile(filepath.Join(getTestdataPath(), "004_flooded_crypt.yaml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if lvl.ID != 4 || lvl.Name != "Flooded Crypt" || lvl.Tier != 2 || lvl.Reward != 300 {
		t.Errorf("unexpected header: %+v", lvl)
	}
	if len(lvl.Layout.Zones) != 5 || len(lvl.Layout.Connections) != 4 {
		t.Fatalf("unexpected layout: %+v", lvl.Layout)
	}
	if lvl.Layout.Zones[1].Content != puzzle.Empty {
		t.Errorf("z2 should be empty, got %s", lvl.Layout.Zones[1].Content)
	}

	res := lvl.NewState().Play([]string{"p1", "p2", "p4"}, 64)
	if res.Status != puzzle.StatusWon {
		t.Errorf("expected WON, got %s", res.Status)
	}
}

func TestLoaderBadFiles(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath(), nil)

	for _, name := range []string{"unknown_kind.yaml", "no_id.yaml"} {
		if _, err := loader.LoadFile(filepath.Join(getTestdataPath(), "bad", name)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoaderLoadIntoCatalog(t *testing.T) {
	c := levels.DefaultCatalog()
	n, err := levels.NewLoader(getTestdataPath(), nil).LoadInto(c)
	if err != nil {
		t.Fatalf("LoadInto failed: %v", err)
	}
	if n != 2 || c.Len() != 5 {
		t.Errorf("added %d, catalog has %d", n, c.Len())
	}

	// A second load finds only duplicates
	n, err = levels.NewLoader(getTestdataPath(), nil).LoadInto(c)
	if err != nil {
		t.Fatalf("LoadInto failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no new levels, got %d", n)
	}
}

func TestLoaderMissingDir(t *testing.T) {
	_, err := levels.NewLoader(filepath.Join(t.TempDir(), "missing"), nil).LoadAll()
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestExportRoundTrip(t *testing.T) {
	lvl, _ := levels.DefaultCatalog().Get(3)
	path := filepath.Join(t.TempDir(), "goblin.yaml")

	if err := levels.Export(lvl, path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	loaded, err := levels.NewLoader("", nil).LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.Name != lvl.Name || loaded.Reward != lvl.Reward || loaded.Hint != lvl.Hint {
		t.Errorf("header mismatch: %+v", loaded)
	}
	for i, z := range lvl.Layout.Zones {
		if loaded.Layout.Zones[i] != z {
			t.Errorf("zone %d: got %+v, want %+v", i, loaded.Layout.Zones[i], z)
		}
	}
}

func TestValidateBrokenBridge(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath(), nil)
	lvl, err := loader.LoadFile(filepath.Join(getTestdataPath(), "005_broken_bridge.yml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	issues := levels.Validate(lvl)
	if len(issues) != 1 || issues[0].Code != "DANGLING_TO" {
		t.Fatalf("expected one DANGLING_TO issue, got %v", issues)
	}

	// The dangling connection is inert; the second connection still wins
	res := lvl.NewState().Play([]string{"p1", "p2"}, 64)
	if res.Status != puzzle.StatusWon {
		t.Errorf("expected WON, got %s", res.Status)
	}
}

func TestValidateReportsEveryIssue(t *testing.T) {
	lvl := levels.Level{
		ID:     7,
		Reward: -1,
		Layout: puzzle.Layout{
			Zones: []puzzle.Zone{
				{ID: "a", Content: puzzle.Hero},
				{ID: "a", Content: puzzle.Hero},
			},
			Connections: []puzzle.Connection{
				{From: "a", To: "a", PinID: "p1"},
				{From: "a", To: "x", PinID: "p1"},
				{From: "a", To: "a", PinID: ""},
			},
		},
	}

	codes := map[string]bool{}
	for _, issue := range levels.Validate(lvl) {
		codes[issue.Code] = true
	}
	for _, want := range []string{"NO_NAME", "BAD_REWARD", "DUPLICATE_ZONE", "HERO_COUNT", "NO_TREASURE", "SELF_LOOP", "DANGLING_TO", "PIN_REUSE", "NO_PIN"} {
		if !codes[want] {
			t.Errorf("missing issue %s", want)
		}
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := levels.ValidationError{Code: "NO_ZONES", Message: "level 1 has no zones"}
	if err.Error() != "[NO_ZONES] level 1 has no zones" {
		t.Errorf("unexpected format: %s", err.Error())
	}
}
