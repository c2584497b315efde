// Package cmd provides the CLI commands for bom-cogs.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bom-cogs/internal/config"
	"bom-cogs/internal/logging"
)

var (
	logLevel string
	verbose  bool

	appConfig *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bom-cogs",
	Short: "Compute Cost of Goods Sold for a BOM",
	Long: `bom-cogs prices a bill of materials against the Cofactr part
pricing API and reports the cost of goods sold at several purchase
quantities.

Examples:
  bom-cogs cogs bom.csv --bom-part-number-column "Part Number" --bom-quantity-column Quantity
  bom-cogs cogs bom.xlsx --quantities 1,100 --search-strategy fuzzy`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(cogsCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}

	appConfig = cfg
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("bom-cogs version 0.1.0")
	},
}
