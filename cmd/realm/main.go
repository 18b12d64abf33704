// realm is Realm Rescue: a pin-pulling puzzle game for the terminal.
//
// Usage:
//
//	realm levels               - List levels in the catalog
//	realm play [level]         - Play interactively
//	realm solve <level> --pins - Replay a pin sequence headlessly
//	realm oracle [level]       - Ask the oracle for a hint
//	realm progress             - Show player progress
//	realm upgrade              - Upgrade the castle
//	realm results              - Show finished levels
//	realm serve                - Start SSH server for remote play
//	realm config               - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.realm, ./configs, embedded)
//	--db <path>         - Override storage.db_path
//	--player <name>     - Override player.name
//	--levels-dir <dir>  - Override levels.dir
//	--log-level <level> - Override log.level
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfigPath string
	flagDBPath     string
	flagPlayer     string
	flagLevelsDir  string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "realm",
	Short: "Realm Rescue - pull the pins, save the hero",
	Long: `Realm Rescue is a pin-pulling puzzle game for the terminal.
Each level is a set of chambers joined by pinned passages. Pull pins
so that water cools the lava, lava swallows the goblins and the hero
reaches the treasure.

Available commands:
  levels   - List levels in the catalog
  play     - Play interactively
  solve    - Replay a pin sequence without the UI
  oracle   - Ask the oracle for a hint
  progress - Show player progress
  upgrade  - Upgrade the castle
  results  - Show finished levels
  serve    - Start SSH server for remote play
  config   - Print the effective configuration

Examples:
  realm levels
  realm play
  realm play 2 --difficulty hard
  realm solve 2 --pins p1,p3
  realm serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to progress database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player name (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels-dir", "", "Directory of extra YAML levels (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(oracleCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
