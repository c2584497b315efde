// Package input loads BOM files into domain types.
//
// BOM exports differ in column naming across ECAD and PLM tools, so the
// caller maps column names to fields explicitly. Malformed rows are
// rejected here; the aggregation engine only ever sees valid lines.
package input

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"bom-cogs/core/types"
	"bom-cogs/internal/errors"
)

// ColumnMap names the BOM columns that carry each field. Manufacturer is
// optional; an empty name means the BOM has no manufacturer column.
type ColumnMap struct {
	PartNumber   string
	Manufacturer string
	Quantity     string
}

// Validate fails fast on missing required column names, before any file or
// network work happens.
func (m ColumnMap) Validate(needsManufacturer bool) error {
	if m.PartNumber == "" {
		return errors.Config("BOM part number column needs to be specified")
	}
	if m.Quantity == "" {
		return errors.Config("BOM quantity column needs to be specified")
	}
	if needsManufacturer && m.Manufacturer == "" {
		return errors.Config(
			"search strategy requires manufacturer, but no BOM manufacturer column was provided")
	}
	return nil
}

// UseManufacturer reports whether a manufacturer column is mapped
func (m ColumnMap) UseManufacturer() bool {
	return m.Manufacturer != ""
}

// LoadBOM reads a BOM file and returns its lines in file order. The format
// is chosen by extension: .xlsx files are read with excelize, everything
// else is treated as CSV. Rows with an empty part number are skipped.
func LoadBOM(path string, cols ColumnMap) ([]types.BomLine, error) {
	var (
		records [][]string
		err     error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		records, err = readXLSX(path)
	} else {
		records, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}
	return parseRecords(records, cols)
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "opening BOM file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Parsing("reading BOM CSV", err)
	}
	return records, nil
}

func readXLSX(path string) ([][]string, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "opening BOM workbook", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Input("BOM workbook has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Parsing("reading BOM worksheet", err)
	}
	return rows, nil
}

func parseRecords(records [][]string, cols ColumnMap) ([]types.BomLine, error) {
	if len(records) == 0 {
		return nil, errors.Input("BOM file has no header row")
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	pnIdx, ok := index[cols.PartNumber]
	if !ok {
		return nil, errors.Newf(errors.TypeInput, "part number column %q not found in BOM header", cols.PartNumber)
	}
	qtyIdx, ok := index[cols.Quantity]
	if !ok {
		return nil, errors.Newf(errors.TypeInput, "quantity column %q not found in BOM header", cols.Quantity)
	}
	mfrIdx := -1
	if cols.UseManufacturer() {
		mfrIdx, ok = index[cols.Manufacturer]
		if !ok {
			return nil, errors.Newf(errors.TypeInput, "manufacturer column %q not found in BOM header", cols.Manufacturer)
		}
	}

	field := func(record []string, idx int) string {
		// XLSX rows may be shorter than the header when trailing cells
		// are empty.
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	lines := make([]types.BomLine, 0, len(records)-1)
	for rowNum, record := range records[1:] {
		partNumber := field(record, pnIdx)
		if partNumber == "" {
			continue
		}

		rawQty := field(record, qtyIdx)
		qty, err := strconv.Atoi(rawQty)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeParsing, err,
				"BOM row %d: invalid quantity %q", rowNum+2, rawQty)
		}
		if qty <= 0 {
			return nil, errors.Newf(errors.TypeParsing,
				"BOM row %d: quantity must be positive, got %d", rowNum+2, qty)
		}

		manufacturer := ""
		if mfrIdx >= 0 {
			manufacturer = field(record, mfrIdx)
		}

		lines = append(lines, types.BomLine{
			PartNumber:   partNumber,
			Manufacturer: manufacturer,
			Quantity:     qty,
		})
	}

	return lines, nil
}
