package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bom-cogs/core/types"
	"bom-cogs/internal/errors"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bom.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadBOMCSV(t *testing.T) {
	path := writeTempCSV(t,
		"Part Number,Manufacturer,Quantity\n"+
			"R-100,Yageo,4\n"+
			"C-220,Murata,10\n")

	lines, err := LoadBOM(path, ColumnMap{
		PartNumber:   "Part Number",
		Manufacturer: "Manufacturer",
		Quantity:     "Quantity",
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, types.BomLine{PartNumber: "R-100", Manufacturer: "Yageo", Quantity: 4}, lines[0])
	assert.Equal(t, types.BomLine{PartNumber: "C-220", Manufacturer: "Murata", Quantity: 10}, lines[1])
}

func TestLoadBOMSkipsEmptyPartNumbers(t *testing.T) {
	path := writeTempCSV(t,
		"Part Number,Quantity\n"+
			"R-100,4\n"+
			",7\n"+
			"C-220,10\n")

	lines, err := LoadBOM(path, ColumnMap{PartNumber: "Part Number", Quantity: "Quantity"})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "R-100", lines[0].PartNumber)
	assert.Equal(t, "C-220", lines[1].PartNumber)
}

func TestLoadBOMWithoutManufacturerColumn(t *testing.T) {
	path := writeTempCSV(t,
		"Part Number,Quantity\n"+
			"R-100,4\n")

	lines, err := LoadBOM(path, ColumnMap{PartNumber: "Part Number", Quantity: "Quantity"})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Empty(t, lines[0].Manufacturer)
}

func TestLoadBOMRejectsMalformedQuantity(t *testing.T) {
	path := writeTempCSV(t,
		"Part Number,Quantity\n"+
			"R-100,lots\n")

	_, err := LoadBOM(path, ColumnMap{PartNumber: "Part Number", Quantity: "Quantity"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeParsing))
}

func TestLoadBOMRejectsNonPositiveQuantity(t *testing.T) {
	path := writeTempCSV(t,
		"Part Number,Quantity\n"+
			"R-100,0\n")

	_, err := LoadBOM(path, ColumnMap{PartNumber: "Part Number", Quantity: "Quantity"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeParsing))
}

func TestLoadBOMUnknownColumn(t *testing.T) {
	path := writeTempCSV(t,
		"PN,Qty\n"+
			"R-100,4\n")

	_, err := LoadBOM(path, ColumnMap{PartNumber: "Part Number", Quantity: "Qty"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestLoadBOMXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Part Number", "Manufacturer", "Quantity"},
		{"R-100", "Yageo", 4},
		{"C-220", "Murata", 10},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	lines, err := LoadBOM(path, ColumnMap{
		PartNumber:   "Part Number",
		Manufacturer: "Manufacturer",
		Quantity:     "Quantity",
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, types.BomLine{PartNumber: "R-100", Manufacturer: "Yageo", Quantity: 4}, lines[0])
	assert.Equal(t, types.BomLine{PartNumber: "C-220", Manufacturer: "Murata", Quantity: 10}, lines[1])
}

func TestColumnMapValidate(t *testing.T) {
	err := ColumnMap{Quantity: "Quantity"}.Validate(false)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	err = ColumnMap{PartNumber: "Part Number"}.Validate(false)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	// Strategies that search by manufacturer need the column mapped.
	err = ColumnMap{PartNumber: "Part Number", Quantity: "Quantity"}.Validate(true)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))

	err = ColumnMap{PartNumber: "Part Number", Quantity: "Quantity"}.Validate(false)
	assert.NoError(t, err)

	err = ColumnMap{PartNumber: "Part Number", Manufacturer: "Manufacturer", Quantity: "Quantity"}.Validate(true)
	assert.NoError(t, err)
}
