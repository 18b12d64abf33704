package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/realm-rescue/internal/oracle"
)

var oracleCmd = &cobra.Command{
	Use:   "oracle [level]",
	Short: "Ask the oracle for a hint",
	Long: `Asks the oracle for a short hint about a level. Without a level id the
player's highest unlocked level is used.

The oracle calls an OpenAI-compatible chat endpoint configured under
"oracle" in the config file. The API key is read from the environment
variable named by oracle.api_key_env (OPENAI_API_KEY by default).
Without a key the oracle still answers, just not helpfully.

Examples:
  realm oracle
  realm oracle 3
  OPENAI_API_KEY=sk-... realm oracle --player alice`,
	Args: cobra.MaximumNArgs(1),
	Run:  runOracle,
}

func runOracle(cmd *cobra.Command, args []string) {
	a := loadApp()
	ctx := context.Background()

	store := a.openStore()
	defer store.Close()
	p := a.loadLedger(ctx, store).Snapshot()

	var situation string
	if len(args) == 1 {
		lvl := a.levelArg(args[0])
		situation = oracle.Situation(lvl.Name, lvl.Hint, p.Gold)
	} else {
		var ok bool
		situation, ok = oracle.SituationFor(p, a.catalog)
		if !ok {
			fmt.Printf("Level %d is not in the catalog; the oracle has nothing to say about it.\n", p.HighestUnlocked())
			fmt.Println("Pass a level id, or add the level with --levels-dir.")
			return
		}
	}

	o := oracle.New(a.cfg.Oracle, a.logger)
	a.logger.Debug("consulting oracle", "available", o.Available(), "situation", situation)
	fmt.Println(o.Wisdom(ctx, situation))
}
