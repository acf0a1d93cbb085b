package report

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tierwatt/tierwatt/pkg/solar"
	"github.com/tierwatt/tierwatt/pkg/tariff"
	"github.com/tierwatt/tierwatt/pkg/types"
	"github.com/xuri/excelize/v2"
)

func writeAndOpen(t *testing.T, in types.ScenarioInput) *excelize.File {
	t.Helper()
	table := tariff.Canonical()
	res := solar.Evaluate(table, in, 5, 10)
	opt := solar.SearchOptimal(table, in, 20)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, table, in, res, opt))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cellFloat(t *testing.T, f *excelize.File, sheet, cell string) float64 {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	n, err := strconv.ParseFloat(v, 64)
	require.NoError(t, err, "cell %s!%s = %q", sheet, cell, v)
	return n
}

func TestWriteXLSX(t *testing.T) {
	defaults := types.DefaultDefaults()

	t.Run("sheets", func(t *testing.T) {
		f := writeAndOpen(t, defaults.Input(450, 1))
		assert.Equal(t, []string{SheetScenario, SheetTiers, SheetPanels}, f.GetSheetList())
	})

	t.Run("scenario", func(t *testing.T) {
		f := writeAndOpen(t, defaults.Input(450, 1))
		rows, err := f.GetRows(SheetScenario)
		require.NoError(t, err)
		require.Len(t, rows, 20+2)
		assert.Equal(t, []string{"Field", "Value", "Unit"}, rows[0])
		assert.Equal(t, "Monthly cost", rows[7][0])
		assert.InDelta(t, 621.765, cellFloat(t, f, SheetScenario, "B8"), 1e-6)
		assert.Equal(t, "Payback", rows[17][0])
		assert.InDelta(t, 3.2407, cellFloat(t, f, SheetScenario, "B18"), 1e-4)
		assert.Equal(t, "Savings bracket", rows[18][0])
		unit, err := f.GetCellValue(SheetScenario, "C19")
		require.NoError(t, err)
		assert.Empty(t, unit)
		assert.Equal(t, "Optimal panel count", rows[19][0])
		assert.Equal(t, "3", rows[19][1])
		assert.Equal(t, "Net savings after 5 years", rows[20][0])
	})

	t.Run("unbounded payback", func(t *testing.T) {
		f := writeAndOpen(t, defaults.Input(450, 0))
		v, err := f.GetCellValue(SheetScenario, "B18")
		require.NoError(t, err)
		assert.Equal(t, "N/A", v)
	})

	t.Run("tiers", func(t *testing.T) {
		f := writeAndOpen(t, defaults.Input(450, 1))
		rows, err := f.GetRows(SheetTiers)
		require.NoError(t, err)
		require.Len(t, rows, 7)
		assert.Equal(t, "1", rows[1][0])
		assert.Equal(t, "100", rows[1][2])
		assert.Equal(t, "6", rows[6][0])
		assert.Equal(t, "unbounded", rows[6][2])
	})

	t.Run("panels", func(t *testing.T) {
		f := writeAndOpen(t, defaults.Input(450, 1))
		rows, err := f.GetRows(SheetPanels)
		require.NoError(t, err)
		require.Len(t, rows, 21)
		var optimal []string
		for _, row := range rows[1:] {
			if len(row) == 5 && row[4] == "yes" {
				optimal = append(optimal, row[0])
			}
		}
		assert.Equal(t, []string{"3"}, optimal)
	})

	t.Run("nothing to search", func(t *testing.T) {
		f := writeAndOpen(t, defaults.Input(0, 1))
		rows, err := f.GetRows(SheetPanels)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})
}
