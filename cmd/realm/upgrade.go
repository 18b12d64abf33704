package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/realm-rescue/internal/progress"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the castle",
	Long: `Spends gold to raise the castle one level. The first upgrade costs
500 gold and each one after costs 1.5 times the previous.

Examples:
  realm upgrade
  realm upgrade --player alice`,
	Args: cobra.NoArgs,
	Run:  runUpgrade,
}

func runUpgrade(cmd *cobra.Command, args []string) {
	a := loadApp()
	ctx := context.Background()

	store := a.openStore()
	defer store.Close()
	ledger := a.loadLedger(ctx, store)

	level, cost, err := ledger.UpgradeCastle()
	if errors.Is(err, progress.ErrInsufficientGold) {
		fmt.Fprintf(os.Stderr, "Not enough gold: the upgrade costs %d, %s has %d.\n", cost, ledger.Player(), ledger.Snapshot().Gold)
		return
	}

	saveProgress(ctx, store, ledger)
	a.logger.Info("castle upgraded", "player", ledger.Player(), "level", level, "cost", cost)

	p := ledger.Snapshot()
	fmt.Printf("Castle upgraded to level %d for %d gold. %d gold left; next upgrade costs %d.\n",
		level, cost, p.Gold, p.UpgradeCost())
}
