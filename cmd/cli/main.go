// Package main is the entry point for the bom-cogs CLI.
package main

import (
	"os"

	"bom-cogs/cmd/cli/cmd"
	"bom-cogs/internal/logging"
)

func main() {
	defer logging.Sync()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
