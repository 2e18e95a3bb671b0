package binning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windratio/domain/scada"
)

func tableWith(t *testing.T, cols map[string][]float64, n int) *scada.Table {
	t.Helper()
	conds := make([]string, n)
	for i := range conds {
		conds[i] = "baseline"
	}
	tbl := scada.NewTable(conds)
	for name, vals := range cols {
		require.NoError(t, tbl.AddColumn(name, vals))
	}
	return tbl
}

func TestDeriveWindDirection_SingleColumnPassesThrough(t *testing.T) {
	tbl := tableWith(t, map[string][]float64{
		"wd_000": {10, 350, scada.Null},
	}, 3)

	out, err := DeriveWindDirection(tbl, []string{"wd_000"})
	require.NoError(t, err)
	assert.Equal(t, 10.0, out[0])
	assert.Equal(t, 350.0, out[1])
	assert.True(t, scada.IsNull(out[2]))
}

func TestDeriveWindDirection_CircularMeanAcrossSeam(t *testing.T) {
	tbl := tableWith(t, map[string][]float64{
		"wd_000": {359, 90},
		"wd_001": {1, 180},
	}, 2)

	out, err := DeriveWindDirection(tbl, []string{"wd_000", "wd_001"})
	require.NoError(t, err)

	// 359 and 1 straddle north; the arithmetic mean 180 would be wrong.
	assert.InDelta(t, 0.0, math.Min(out[0], 360-out[0]), 1e-9)
	assert.InDelta(t, 135.0, out[1], 1e-9)
}

func TestDeriveWindDirection_NullPropagates(t *testing.T) {
	tbl := tableWith(t, map[string][]float64{
		"wd_000": {10, scada.Null},
		"wd_001": {20, 30},
	}, 2)

	out, err := DeriveWindDirection(tbl, []string{"wd_000", "wd_001"})
	require.NoError(t, err)
	assert.False(t, scada.IsNull(out[0]))
	assert.True(t, scada.IsNull(out[1]))
}

func TestDeriveWindDirection_MissingColumn(t *testing.T) {
	tbl := tableWith(t, map[string][]float64{"wd_000": {10}}, 1)

	_, err := DeriveWindDirection(tbl, []string{"wd_000", "wd_009"})
	assert.Error(t, err)
}

func TestMeanAcross(t *testing.T) {
	tbl := tableWith(t, map[string][]float64{
		"pow_000": {100, 200, scada.Null},
		"pow_001": {300, 400, 500},
	}, 3)

	out, err := MeanAcross(tbl, []string{"pow_000", "pow_001"})
	require.NoError(t, err)
	assert.Equal(t, 200.0, out[0])
	assert.Equal(t, 300.0, out[1])
	assert.True(t, scada.IsNull(out[2]))
}

func TestAssignBins_CenterLabels(t *testing.T) {
	vals := []float64{0, 1.9, 2, 359.9, 360, -0.1, scada.Null}
	out := AssignBins(vals, 2, 0, 360)

	assert.Equal(t, 1.0, out[0])
	assert.Equal(t, 1.0, out[1])
	assert.Equal(t, 3.0, out[2])
	assert.Equal(t, 359.0, out[3])
	// The upper boundary is exclusive; out-of-range and null map to null.
	assert.True(t, scada.IsNull(out[4]))
	assert.True(t, scada.IsNull(out[5]))
	assert.True(t, scada.IsNull(out[6]))
}

func TestEdges(t *testing.T) {
	edges := Edges(0, 360, 90)
	assert.Equal(t, []float64{0, 90, 180, 270, 360}, edges)

	edges = Edges(0, 10, 2.5)
	require.Len(t, edges, 5)
	assert.InDelta(t, 2.5, edges[1], 1e-12)
}

func TestAddReflectedRows_NearEdgeCountsInBothBins(t *testing.T) {
	tbl := tableWith(t, map[string][]float64{
		scada.PredefinedWdCol: {89.5, 45.0},
		"pow_000":             {100, 200},
	}, 2)

	out, err := AddReflectedRows(tbl, Edges(0, 360, 90), 1.0)
	require.NoError(t, err)
	require.Equal(t, 3, out.NumRows())

	wd, _ := out.Column(scada.PredefinedWdCol)
	assert.Equal(t, 90.5, wd[2])

	// Binning the reflected table places the original and the duplicate
	// in adjacent bins.
	bins := AssignBins(wd, 90, 0, 360)
	assert.Equal(t, 45.0, bins[0])
	assert.Equal(t, 135.0, bins[2])

	// The non-angle columns ride along with the duplicate.
	pow, _ := out.Column("pow_000")
	assert.Equal(t, 100.0, pow[2])
}

func TestAddReflectedRows_ExactEdgeSplitsIntoBothBins(t *testing.T) {
	tbl := tableWith(t, map[string][]float64{
		scada.PredefinedWdCol: {90.0},
	}, 1)

	out, err := AddReflectedRows(tbl, Edges(0, 360, 90), 1.0)
	require.NoError(t, err)
	require.Equal(t, 2, out.NumRows())

	wd, _ := out.Column(scada.PredefinedWdCol)
	bins := AssignBins(wd, 90, 0, 360)
	assert.Equal(t, 135.0, bins[0])
	assert.Equal(t, 45.0, bins[1])
}

func TestAddReflectedRows_SeamWrapsAcrossNorth(t *testing.T) {
	tbl := tableWith(t, map[string][]float64{
		scada.PredefinedWdCol: {359.5, 0.5},
	}, 2)

	out, err := AddReflectedRows(tbl, Edges(0, 360, 90), 1.0)
	require.NoError(t, err)
	require.Equal(t, 4, out.NumRows())

	wd, _ := out.Column(scada.PredefinedWdCol)
	assert.Equal(t, 0.5, wd[2])
	assert.Equal(t, 359.5, wd[3])
}

func TestAddReflectedRows_SeamExactEdgeStaysInRange(t *testing.T) {
	tbl := tableWith(t, map[string][]float64{
		scada.PredefinedWdCol: {0.0},
	}, 1)

	out, err := AddReflectedRows(tbl, Edges(0, 360, 90), 1.0)
	require.NoError(t, err)
	require.Equal(t, 2, out.NumRows())

	wd, _ := out.Column(scada.PredefinedWdCol)
	assert.Less(t, wd[1], 360.0)
	bins := AssignBins(wd, 90, 0, 360)
	assert.Equal(t, 45.0, bins[0])
	assert.Equal(t, 315.0, bins[1])
}

func TestAddReflectedRows_NoCandidatesReturnsInput(t *testing.T) {
	tbl := tableWith(t, map[string][]float64{
		scada.PredefinedWdCol: {45, 135},
	}, 2)

	out, err := AddReflectedRows(tbl, Edges(0, 360, 90), 1.0)
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())
}

func TestAddReflectedRows_PartialRangeEdgesDoNotWrap(t *testing.T) {
	tbl := tableWith(t, map[string][]float64{
		scada.PredefinedWdCol: {40.5},
	}, 1)

	// Range 40..130 is not a full circle, so 40 and 130 are distinct
	// edges and nothing wraps.
	out, err := AddReflectedRows(tbl, Edges(40, 130, 30), 1.0)
	require.NoError(t, err)
	require.Equal(t, 2, out.NumRows())

	wd, _ := out.Column(scada.PredefinedWdCol)
	assert.Equal(t, 39.5, wd[1])
}
