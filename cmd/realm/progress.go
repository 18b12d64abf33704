package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagProgressRefill  bool
	flagProgressReset   bool
	flagProgressSound   bool
	flagProgressHaptics bool
	flagProgressPlayers bool
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show player progress",
	Long: `Shows gold, gems, energy, the castle and unlocked levels for the
configured player, with per-level statistics from finished levels.

Examples:
  realm progress
  realm progress --player alice
  realm progress --refill
  realm progress --toggle-sound
  realm progress --players
  realm progress --reset`,
	Args: cobra.NoArgs,
	Run:  runProgress,
}

func init() {
	progressCmd.Flags().BoolVar(&flagProgressRefill, "refill", false, "Refill energy to the maximum")
	progressCmd.Flags().BoolVar(&flagProgressReset, "reset", false, "Reset progress and clear the level history")
	progressCmd.Flags().BoolVar(&flagProgressSound, "toggle-sound", false, "Toggle the sound setting")
	progressCmd.Flags().BoolVar(&flagProgressHaptics, "toggle-haptics", false, "Toggle the haptics setting")
	progressCmd.Flags().BoolVar(&flagProgressPlayers, "players", false, "List every player with saved progress")
}

func runProgress(cmd *cobra.Command, args []string) {
	a := loadApp()
	ctx := context.Background()

	store := a.openStore()
	defer store.Close()

	if flagProgressPlayers {
		players, err := store.Players(ctx)
		if err != nil {
			fatalf("listing players: %v", err)
		}
		if len(players) == 0 {
			fmt.Println("No saved players yet.")
			return
		}
		for _, name := range players {
			fmt.Println(name)
		}
		return
	}

	ledger := a.loadLedger(ctx, store)

	changed := false
	if flagProgressReset {
		ledger.Reset()
		if err := store.ClearResults(ctx, ledger.Player()); err != nil {
			fatalf("clearing results: %v", err)
		}
		fmt.Printf("Progress for %s has been reset.\n\n", ledger.Player())
		changed = true
	}
	if flagProgressRefill {
		ledger.RefillEnergy()
		changed = true
	}
	if flagProgressSound {
		ledger.ToggleSound()
		changed = true
	}
	if flagProgressHaptics {
		ledger.ToggleHaptics()
		changed = true
	}
	if changed {
		saveProgress(ctx, store, ledger)
	}

	p := ledger.Snapshot()
	fmt.Printf("Player:   %s\n", p.Player)
	fmt.Printf("Gold:     %d\n", p.Gold)
	fmt.Printf("Gems:     %d\n", p.Gems)
	fmt.Printf("Energy:   %d/%d\n", p.Energy, p.MaxEnergy)
	fmt.Printf("Castle:   level %d (next upgrade %d gold)\n", p.CastleLevel, p.UpgradeCost())
	fmt.Printf("Current:  level %d\n", p.CurrentLevel)

	unlocked := make([]string, len(p.Unlocked))
	for i, id := range p.Unlocked {
		unlocked[i] = fmt.Sprintf("%d", id)
	}
	fmt.Printf("Unlocked: %s\n", strings.Join(unlocked, ", "))
	fmt.Printf("Settings: sound %s, haptics %s\n", onOff(p.Settings.Sound), onOff(p.Settings.Haptics))

	stats, err := store.PlayerStats(ctx, p.Player)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving statistics: %v\n", err)
		return
	}
	if len(stats) == 0 {
		return
	}

	ids := make([]int, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fmt.Println()
	fmt.Printf("  %-5s  %-24s  %-8s  %-4s  %-6s  %-10s  %s\n", "Level", "Name", "Attempts", "Wins", "Best", "Total gold", "Last played")
	fmt.Printf("  %-5s  %-24s  %-8s  %-4s  %-6s  %-10s  %s\n", "-----", "----", "--------", "----", "----", "----------", "-----------")
	for _, id := range ids {
		st := stats[id]
		name := "?"
		if lvl, err := a.catalog.Get(id); err == nil {
			name = lvl.Name
		}
		fmt.Printf("  %-5d  %-24s  %-8d  %-4d  %-6d  %-10d  %s\n",
			id, name, st.Attempts, st.Wins, st.BestReward, st.TotalGold, st.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
