package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/realm-rescue/internal/levels"
)

var flagLevelsVerbose bool

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List levels in the catalog",
	Long: `Shows the built-in campaign plus any YAML levels loaded from levels.dir.

Examples:
  realm levels
  realm levels --verbose
  realm levels --levels-dir ./my-levels
  realm levels export 2 ./lava_falls.yaml`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

var levelsExportCmd = &cobra.Command{
	Use:   "export <level> <path>",
	Short: "Write a level as YAML",
	Long: `Writes a catalog level as a YAML level file, a starting point for
new level packs.

Examples:
  realm levels export 3 ./levels/003_goblin_ambush.yaml`,
	Args: cobra.ExactArgs(2),
	Run:  runLevelsExport,
}

func init() {
	levelsCmd.Flags().BoolVarP(&flagLevelsVerbose, "verbose", "v", false, "Show hints, connections and validation warnings")
	levelsCmd.AddCommand(levelsExportCmd)
}

func runLevels(cmd *cobra.Command, args []string) {
	a := loadApp()
	list := a.catalog.List()

	if len(list) == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, lvl := range list {
		if len(lvl.Name) > maxNameLen {
			maxNameLen = len(lvl.Name)
		}
	}

	// Print header
	fmt.Printf("  %-3s  %-*s  %-4s  %-6s  %-4s  %s\n", "ID", maxNameLen, "Name", "Tier", "Reward", "Pins", "Source")
	fmt.Printf("  %-3s  %-*s  %-4s  %-6s  %-4s  %s\n", "--", maxNameLen, "----", "----", "------", "----", "------")

	for _, lvl := range list {
		source := "built-in"
		if lvl.FilePath != "" {
			source = lvl.FilePath
		}
		fmt.Printf("  %-3d  %-*s  %-4d  %-6d  %-4d  %s\n",
			lvl.ID, maxNameLen, lvl.Name, lvl.Tier, lvl.Reward, len(lvl.Layout.PinIDs()), source)

		if flagLevelsVerbose {
			printLevelDetails(lvl)
		}
	}

	fmt.Println()
	fmt.Println("Run 'realm play <id>' to play a level.")
}

func printLevelDetails(lvl levels.Level) {
	if lvl.Hint != "" {
		fmt.Printf("       hint: %s\n", lvl.Hint)
	}

	zones := make([]string, len(lvl.Layout.Zones))
	for i, z := range lvl.Layout.Zones {
		zones[i] = fmt.Sprintf("%s=%s", z.ID, z.Content)
	}
	fmt.Printf("       zones: %s\n", strings.Join(zones, " "))

	for _, c := range lvl.Layout.Connections {
		fmt.Printf("       %s: %s -> %s\n", c.PinID, c.From, c.To)
	}
	for _, issue := range levels.Validate(lvl) {
		fmt.Printf("       warning: %s\n", issue)
	}
	fmt.Println()
}

func runLevelsExport(cmd *cobra.Command, args []string) {
	a := loadApp()
	lvl := a.levelArg(args[0])

	if err := levels.Export(lvl, args[1]); err != nil {
		fatalf("exporting level: %v", err)
	}
	fmt.Printf("Wrote level %d (%s) to %s\n", lvl.ID, lvl.Name, args[1])
}
