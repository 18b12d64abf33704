package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/realm-rescue/internal/config"
	"github.com/vovakirdan/realm-rescue/internal/levels"
	"github.com/vovakirdan/realm-rescue/internal/progress"
	"github.com/vovakirdan/realm-rescue/internal/puzzle"
	"github.com/vovakirdan/realm-rescue/internal/storage"
)

var (
	flagSolvePins       []string
	flagSolveDifficulty string
	flagSolveRecord     bool
	flagSolveQuiet      bool
)

var solveCmd = &cobra.Command{
	Use:   "solve <level>",
	Short: "Replay a pin sequence without the UI",
	Long: `Runs a level headlessly: the layout is resolved to rest, then each
pin is pulled in order and the level is resolved to rest again, stopping
as soon as the hero wins or is lost.

The exit status is 0 on a win and 2 otherwise, so pin sequences can be
checked from scripts. With --record a win pays gold and unlocks the next
level for the configured player, exactly like playing it.

Examples:
  realm solve 1 --pins p1,p2
  realm solve 2 --pins p1 --pins p3 --difficulty hard
  realm solve 3 --pins p3 --record`,
	Args: cobra.ExactArgs(1),
	Run:  runSolve,
}

func init() {
	solveCmd.Flags().StringSliceVar(&flagSolvePins, "pins", nil, "Pins to pull, in order")
	solveCmd.Flags().StringVar(&flagSolveDifficulty, "difficulty", "", "Difficulty preset for the reward (default from config)")
	solveCmd.Flags().BoolVar(&flagSolveRecord, "record", false, "Credit the result to the player's progress")
	solveCmd.Flags().BoolVarP(&flagSolveQuiet, "quiet", "q", false, "Only print the outcome")
}

func runSolve(cmd *cobra.Command, args []string) {
	a := loadApp()
	lvl := a.levelArg(args[0])
	difficulty := a.difficultyFlag(flagSolveDifficulty)
	maxSteps := a.cfg.Simulation.MaxSteps

	state := lvl.NewState()
	for _, pin := range flagSolvePins {
		if !state.HasPin(pin) {
			a.logger.Warn("pin not in level, it will be ignored", "level", lvl.ID, "pin", pin)
		}
	}

	if !flagSolveQuiet {
		fmt.Printf("Level %d: %s (%s)\n", lvl.ID, lvl.Name, difficulty.Label())
		printZones("start", state)
	}

	// Settle the initial layout, then pull pins one at a time.
	total := 0
	settle := func(label string) {
		r := state.RunUntilQuiescent(maxSteps)
		total += r.Steps
		if flagSolveQuiet {
			return
		}
		note := ""
		if r.Cycled {
			note = " (cycle)"
		}
		fmt.Printf("  %-8s %d step(s)%s\n", label, r.Steps, note)
		printZones("", state)
	}

	settle("settle")
	for _, pin := range flagSolvePins {
		if state.Status.IsTerminal() {
			break
		}
		if !state.RemovePin(pin) {
			continue
		}
		settle("pull " + pin)
	}

	out, terminal := state.Outcome()
	if !terminal {
		out = puzzle.Outcome{Status: puzzle.StatusPlaying, Message: "The hero is still waiting."}
	}

	if terminal && flagSolveRecord {
		store := a.openStore()
		recorded, err := a.recordOutcome(context.Background(), store, lvl, difficulty, out)
		store.Close()
		if err != nil {
			fatalf("%v", err)
		}
		out = recorded
	} else if out.Status == puzzle.StatusWon {
		reward := lvl.RewardFor(difficulty)
		out.Reward = &reward
	}

	fmt.Printf("%s after %d step(s)\n", out, total)
	if out.Status != puzzle.StatusWon {
		os.Exit(2)
	}
}

// recordOutcome credits a headless run to the configured player, exactly as
// the level screen does, and stores the result.
func (a *app) recordOutcome(ctx context.Context, store *storage.Store, lvl levels.Level,
	difficulty config.Difficulty, out puzzle.Outcome) (puzzle.Outcome, error) {
	p, _, err := store.LoadProgress(ctx, a.cfg.Player.Name)
	if err != nil {
		return out, fmt.Errorf("loading progress: %w", err)
	}
	ledger := progress.NewLedger(p)
	if !ledger.IsUnlocked(lvl.ID) {
		return out, fmt.Errorf("level %d is locked for %s", lvl.ID, ledger.Player())
	}

	rep := progress.NewReporter(ledger, store, progress.Run{
		LevelID:    lvl.ID,
		BaseReward: lvl.Reward,
		Difficulty: difficulty,
	}, a.logger)
	return rep.Report(out), nil
}

func printZones(label string, state *puzzle.State) {
	parts := make([]string, len(state.Zones))
	for i, z := range state.Zones {
		parts[i] = fmt.Sprintf("%s=%s", z.ID, z.Content)
	}
	fmt.Printf("  %-8s %s\n", label, strings.Join(parts, " "))
}
