package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/realm-rescue/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Prints the configuration after the config file search and flag
overrides, as YAML. Save the output as ~/.realm/realm.yaml to customize it.

Search order:
  --config <path>
  ~/.realm/realm.yaml
  ./configs/realm.yaml
  built-in defaults

Examples:
  realm config
  realm config --db ./realm.db > ~/.realm/realm.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) {
	a := loadApp()

	data, err := config.Marshal(a.cfg)
	if err != nil {
		fatalf("encoding config: %v", err)
	}
	fmt.Printf("# source: %s\n", a.source)
	fmt.Print(string(data))
}
