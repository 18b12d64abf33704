package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/realm-rescue/internal/platform/tui"
	"github.com/vovakirdan/realm-rescue/internal/puzzle"
)

var (
	flagResultsAll   bool
	flagResultsLimit int
	flagResultsTable bool
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show finished levels",
	Long: `Lists the most recent finished levels for the configured player,
newest first.

Examples:
  realm results
  realm results --all --limit 50
  realm results --table`,
	Args: cobra.NoArgs,
	Run:  runResults,
}

func init() {
	resultsCmd.Flags().BoolVar(&flagResultsAll, "all", false, "Show every player")
	resultsCmd.Flags().IntVar(&flagResultsLimit, "limit", 20, "Maximum number of results")
	resultsCmd.Flags().BoolVar(&flagResultsTable, "table", false, "Browse results in an interactive table")
}

func runResults(cmd *cobra.Command, args []string) {
	a := loadApp()

	store := a.openStore()
	defer store.Close()

	if flagResultsTable {
		width, height := termSize()
		if err := tui.RunResults(store, a.cfg.Player.Name, width, height); err != nil {
			fatalf("running results table: %v", err)
		}
		return
	}

	player := a.cfg.Player.Name
	if flagResultsAll {
		player = ""
	}

	results, err := store.RecentResults(context.Background(), player, flagResultsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	if len(results) == 0 {
		fmt.Println("No levels finished yet.")
		fmt.Println()
		fmt.Println("Run 'realm play' to pull your first pin!")
		return
	}

	// Print header
	fmt.Printf("  %-16s  %-12s  %-5s  %-6s  %-6s  %-6s  %s\n", "Date", "Player", "Level", "Diff", "Status", "Reward", "Message")
	fmt.Printf("  %-16s  %-12s  %-5s  %-6s  %-6s  %-6s  %s\n", "----", "------", "-----", "----", "------", "------", "-------")

	for _, r := range results {
		reward := "-"
		if r.Status == puzzle.StatusWon {
			reward = fmt.Sprintf("%d", r.Reward)
		}
		fmt.Printf("  %-16s  %-12s  %-5d  %-6s  %-6s  %-6s  %s\n",
			r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Player, r.LevelID,
			r.Difficulty.Label(), r.Status, reward, r.Message)
	}
}
