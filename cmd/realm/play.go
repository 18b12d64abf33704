package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/realm-rescue/internal/oracle"
	"github.com/vovakirdan/realm-rescue/internal/platform/tui"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play interactively",
	Long: `Opens the realm map, or a level directly when an id is given.

Controls:
  Left/Right   - Select a pin
  Enter or 1-9 - Pull a pin
  O            - Ask the oracle
  R            - Reset the level
  N            - Next level (after a win)
  Esc          - Back to the map
  Q/Ctrl+C     - Quit

On the map, D cycles the difficulty, U upgrades the castle and
H shows the level history.

Difficulty only changes the gold paid for a win:
  easy   - x0.5
  normal - x1.0
  hard   - x1.5

Examples:
  realm play
  realm play 2 --difficulty hard
  realm play --player alice`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard (default from config)")
}

func runPlay(cmd *cobra.Command, args []string) {
	a := loadApp()

	startLevel := 0
	if len(args) == 1 {
		startLevel = a.levelArg(args[0]).ID
	}
	difficulty := a.difficultyFlag(flagDifficulty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := a.openStore()
	defer store.Close()
	ledger := a.loadLedger(ctx, store)

	if startLevel > 0 && !ledger.IsUnlocked(startLevel) {
		fmt.Fprintf(os.Stderr, "Error: level %d is locked for %s\n", startLevel, ledger.Player())
		fmt.Fprintln(os.Stderr, "Run 'realm progress' to see unlocked levels.")
		os.Exit(1)
	}

	restoreLog := a.logToFile()
	width, height := termSize()
	cfg := tui.SessionConfig{
		Catalog:    a.catalog,
		Ledger:     ledger,
		Store:      store,
		Oracle:     oracle.New(a.cfg.Oracle, a.logger),
		Logger:     a.logger,
		TickDelay:  a.cfg.Simulation.TickDelay,
		Difficulty: difficulty,
		EnergyCost: a.cfg.Player.EnergyCost,
		StartLevel: startLevel,
	}

	err := tui.RunSession(ctx, cfg, width, height)
	restoreLog()
	if err != nil {
		fatalf("running game: %v", err)
	}

	// Energy and current level change outside of level results
	saveProgress(context.Background(), store, ledger)

	p := ledger.Snapshot()
	fmt.Printf("%s: %d gold, %d/%d levels unlocked\n", p.Player, p.Gold, len(p.Unlocked), a.catalog.Len())
}
