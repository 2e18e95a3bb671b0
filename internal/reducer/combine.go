package reducer

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"windratio/domain/ratio"
)

// Quantiles used for the bootstrap confidence bounds.
const (
	upperPercentile = 95
	lowerPercentile = 5
)

// Combine merges N per-resample result tables into one table carrying,
// per ratio/uplift column, the point estimate from the identity resample
// (index 0) plus 95th/5th percentile bounds across all resamples. Count
// columns carry the identity resample's values unchanged.
//
// Cells missing in some resamples (bins with no rows for a condition in
// that draw) are excluded from the percentile computation; a cell with no
// non-null resamples at all stays null.
func Combine(results []ratio.Indexed, names []string) (*ratio.Table, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no resample results to combine")
	}

	var base *ratio.Table
	for _, r := range results {
		if r.Index == 0 {
			base = r.Table
		}
	}
	if base == nil {
		return nil, fmt.Errorf("identity resample (index 0) missing from results")
	}

	valueCols := append([]string{}, names...)
	for _, r := range results {
		if r.Table.HasColumn(ratio.UpliftCol) {
			valueCols = append(valueCols, ratio.UpliftCol)
			break
		}
	}

	// Union of wind-direction bins across resamples, ascending.
	seen := make(map[float64]bool)
	var wds []float64
	for _, r := range results {
		for _, wd := range r.Table.Column(ratio.WdBinCol) {
			if !seen[wd] {
				seen[wd] = true
				wds = append(wds, wd)
			}
		}
	}
	sort.Float64s(wds)

	// Per-table row lookup by bin.
	rowOf := make([]map[float64]int, len(results))
	for i, r := range results {
		m := make(map[float64]int)
		for row, wd := range r.Table.Column(ratio.WdBinCol) {
			m[wd] = row
		}
		rowOf[i] = m
	}
	baseRow := make(map[float64]int)
	for row, wd := range base.Column(ratio.WdBinCol) {
		baseRow[wd] = row
	}

	point := make(map[string][]float64, len(valueCols))
	upper := make(map[string][]float64, len(valueCols))
	lower := make(map[string][]float64, len(valueCols))
	for _, col := range valueCols {
		point[col] = nanSlice(len(wds))
		upper[col] = nanSlice(len(wds))
		lower[col] = nanSlice(len(wds))
		for i, wd := range wds {
			if row, ok := baseRow[wd]; ok {
				point[col][i] = base.Cell(row, col)
			}
			var samples []float64
			for ri, r := range results {
				row, ok := rowOf[ri][wd]
				if !ok {
					continue
				}
				v := r.Table.Cell(row, col)
				if !ratio.IsNull(v) {
					samples = append(samples, v)
				}
			}
			if len(samples) == 0 {
				continue
			}
			ub, err := stats.PercentileNearestRank(samples, upperPercentile)
			if err != nil {
				return nil, err
			}
			lb, err := stats.PercentileNearestRank(samples, lowerPercentile)
			if err != nil {
				return nil, err
			}
			upper[col][i] = ub
			lower[col][i] = lb
		}
	}

	out := ratio.NewTable()
	if err := out.AddColumn(ratio.WdBinCol, wds); err != nil {
		return nil, err
	}
	for _, col := range valueCols {
		if err := out.AddColumn(col, point[col]); err != nil {
			return nil, err
		}
	}
	for _, col := range valueCols {
		if err := out.AddColumn(col+"_ub", upper[col]); err != nil {
			return nil, err
		}
	}
	for _, col := range valueCols {
		if err := out.AddColumn(col+"_lb", lower[col]); err != nil {
			return nil, err
		}
	}
	for _, n := range names {
		countCol := "count_" + n
		vals := nanSlice(len(wds))
		for i, wd := range wds {
			if row, ok := baseRow[wd]; ok {
				vals[i] = base.Cell(row, countCol)
			}
		}
		if err := out.AddColumn(countCol, vals); err != nil {
			return nil, err
		}
	}
	return out, nil
}
