package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"windratio/domain/ratio"
	"windratio/domain/scada"
)

func TestWriteResult(t *testing.T) {
	table := ratio.NewTable()
	require.NoError(t, table.AddColumn(ratio.WdBinCol, []float64{1, 3}))
	require.NoError(t, table.AddColumn("baseline", []float64{0.8, scada.Null}))
	require.NoError(t, table.AddColumn("count_baseline", []float64{4, 2}))

	path := filepath.Join(t.TempDir(), "ratios.xlsx")
	require.NoError(t, NewWriter(path).WriteResult(context.Background(), table))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("EnergyRatio")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"wd_bin", "baseline", "count_baseline"}, rows[0])

	// The null ratio cell in the last row stays empty.
	got, err := f.GetCellValue("EnergyRatio", "B3")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
