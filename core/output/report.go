// Package output renders aggregation results as tabular reports.
package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"bom-cogs/core/cogs"
	"bom-cogs/internal/errors"
)

// Options controls report layout.
type Options struct {
	// UseManufacturer adds the Manufacturer column between Part Number and
	// Cofactr ID
	UseManufacturer bool
}

// identityColumns is the number of non-tier columns: part number,
// optional manufacturer, Cofactr ID, quantity.
func identityColumns(useManufacturer bool) int {
	if useManufacturer {
		return 4
	}
	return 3
}

// ExpectedColumns is the column count every report row must have
func ExpectedColumns(tierCount int, useManufacturer bool) int {
	return identityColumns(useManufacturer) + 2*tierCount
}

// Headers builds the report header row
func Headers(tiers []int, useManufacturer bool) []string {
	headers := []string{"Part Number"}
	if useManufacturer {
		headers = append(headers, "Manufacturer")
	}
	headers = append(headers, "Cofactr ID", "Quantity")
	for _, tier := range tiers {
		headers = append(headers,
			fmt.Sprintf("Per Unit at %d", tier),
			fmt.Sprintf("Total at %d", tier))
	}
	return headers
}

// WriteCSV renders the result as CSV: one header row, one row per BOM line,
// and a trailing totals row. Absent prices render as empty cells so that
// "no data" stays distinguishable from "zero cost". Every emitted row is
// checked against the expected column count before handoff to the writer.
func WriteCSV(w io.Writer, result *cogs.Result, opts Options) error {
	expected := ExpectedColumns(len(result.Tiers), opts.UseManufacturer)
	writer := csv.NewWriter(w)

	write := func(record []string) error {
		if len(record) != expected {
			return errors.Newf(errors.TypeInternal,
				"report row has %d columns, expected %d", len(record), expected)
		}
		return writer.Write(record)
	}

	if err := write(Headers(result.Tiers, opts.UseManufacturer)); err != nil {
		return err
	}

	for _, row := range result.Rows {
		record := []string{row.PartNumber}
		if opts.UseManufacturer {
			record = append(record, row.Manufacturer)
		}
		record = append(record, row.CofactrID, fmt.Sprintf("%d", row.Quantity))
		for _, cell := range row.Cells {
			if cell == nil {
				record = append(record, "", "")
				continue
			}
			record = append(record, cell.UnitPrice.String(), cell.Extended.String())
		}
		if err := write(record); err != nil {
			return err
		}
	}

	totalsRow := make([]string, 1, expected)
	totalsRow[0] = "Totals"
	for len(totalsRow) < identityColumns(opts.UseManufacturer) {
		totalsRow = append(totalsRow, "")
	}
	for _, tier := range result.Tiers {
		totalsRow = append(totalsRow, "", result.Totals[tier].String())
	}
	if err := write(totalsRow); err != nil {
		return err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(errors.TypeInternal, "writing report", err)
	}
	return nil
}
