// Package cmd - cogs command
package cmd

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bom-cogs/adapters/cofactr"
	"bom-cogs/core/cogs"
	"bom-cogs/core/input"
	"bom-cogs/core/output"
	"bom-cogs/internal/errors"
	"bom-cogs/internal/logging"
)

var (
	quantitiesFlag     string
	partNumberColumn   string
	manufacturerColumn string
	quantityColumn     string
	strategyFlag       string
	outputFile         string
)

// cogsCmd represents the cogs command
var cogsCmd = &cobra.Command{
	Use:   "cogs <bom-file>",
	Short: "Compute COGS for a BOM file",
	Long: `Price every line of a BOM CSV or XLSX file against Cofactr and
report per-unit and extended costs at each requested purchase quantity,
with a trailing totals row.

Requires the COFACTR_API_KEY and COFACTR_CLIENT_ID environment variables.

Examples:
  bom-cogs cogs bom.csv \
    --bom-part-number-column "Part Number" \
    --bom-manufacturer-column Manufacturer \
    --bom-quantity-column Quantity
  bom-cogs cogs bom.csv --search-strategy fuzzy --quantities 10,1000 --output-file cogs.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runCogs,
}

func init() {
	cogsCmd.Flags().StringVar(&quantitiesFlag, "quantities", "1,10,100,1000",
		"comma-separated list of assembly quantities to compute COGS for")
	cogsCmd.Flags().StringVar(&partNumberColumn, "bom-part-number-column", "",
		"name of the part number column in the BOM file (required)")
	cogsCmd.Flags().StringVar(&manufacturerColumn, "bom-manufacturer-column", "",
		"name of the manufacturer column in the BOM file")
	cogsCmd.Flags().StringVar(&quantityColumn, "bom-quantity-column", "",
		"name of the quantity column in the BOM file (required)")
	cogsCmd.Flags().StringVar(&strategyFlag, "search-strategy", string(cofactr.StrategyMPNSKUMfr),
		"Cofactr search strategy: mpn_sku_mfr or fuzzy")
	cogsCmd.Flags().StringVarP(&outputFile, "output-file", "o", "",
		"path to the output file (default stdout)")
}

func runCogs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	strategy, err := cofactr.ParseSearchStrategy(strategyFlag)
	if err != nil {
		return err
	}

	tiers, err := parseQuantities(quantitiesFlag)
	if err != nil {
		return err
	}

	columns := input.ColumnMap{
		PartNumber:   partNumberColumn,
		Manufacturer: manufacturerColumn,
		Quantity:     quantityColumn,
	}
	if err := columns.Validate(strategy.NeedsManufacturer()); err != nil {
		return err
	}

	// Credential validation happens here, before the BOM is even read.
	client, err := cofactr.NewClient(appConfig.Cofactr, strategy)
	if err != nil {
		return err
	}

	lines, err := input.LoadBOM(args[0], columns)
	if err != nil {
		return err
	}

	engine := cogs.NewEngine(client.Lookup(),
		cogs.WithWorkers(appConfig.Cofactr.Workers),
		cogs.WithLogger(logging.Logger))

	result, err := engine.Aggregate(ctx, lines, tiers)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			return errors.Wrap(errors.TypeInput, "creating output file", err)
		}
		defer file.Close()
		out = file
	}

	return output.WriteCSV(out, result, output.Options{
		UseManufacturer: columns.UseManufacturer(),
	})
}

func parseQuantities(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	tiers := make([]int, 0, len(parts))
	for _, part := range parts {
		qty, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.Newf(errors.TypeConfig, "invalid quantity %q", part)
		}
		if qty <= 0 {
			return nil, errors.Newf(errors.TypeConfig, "quantities must be positive, got %d", qty)
		}
		tiers = append(tiers, qty)
	}
	return tiers, nil
}
