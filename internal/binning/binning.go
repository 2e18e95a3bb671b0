// Package binning classifies observation rows into wind-direction and
// wind-speed bins and derives the per-row quantities the energy-ratio
// reduction aggregates.
//
// All functions are pure: they never mutate their input table and preserve
// row count, except AddReflectedRows which appends duplicates.
package binning

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"windratio/domain/scada"
)

// DeriveWindDirection reduces the configured wind-direction source columns
// to one representative angle per row. A single column passes through
// unchanged; multiple columns are combined with a circular mean (mean sine
// and cosine, atan2), which is order-independent and safe across the
// 0/360 wrap. Null inputs propagate.
func DeriveWindDirection(t *scada.Table, wdCols []string) ([]float64, error) {
	cols, err := gather(t, wdCols)
	if err != nil {
		return nil, err
	}
	out := make([]float64, t.NumRows())
	if len(cols) == 1 {
		copy(out, cols[0])
		return out, nil
	}
	for i := range out {
		sumSin, sumCos := 0.0, 0.0
		null := false
		for _, vals := range cols {
			v := vals[i]
			if scada.IsNull(v) {
				null = true
				break
			}
			rad := v * math.Pi / 180
			sumSin += math.Sin(rad)
			sumCos += math.Cos(rad)
		}
		if null {
			out[i] = scada.Null
			continue
		}
		out[i] = wrap360(math.Atan2(sumSin, sumCos) * 180 / math.Pi)
	}
	return out, nil
}

// MeanAcross computes the per-row arithmetic mean of the named columns,
// null-propagating. It derives wind speed from the configured speed
// columns and reference/test power from the configured power columns.
func MeanAcross(t *scada.Table, names []string) ([]float64, error) {
	cols, err := gather(t, names)
	if err != nil {
		return nil, err
	}
	out := make([]float64, t.NumRows())
	for i := range out {
		sum := 0.0
		null := false
		for _, vals := range cols {
			v := vals[i]
			if scada.IsNull(v) {
				null = true
				break
			}
			sum += v
		}
		if null {
			out[i] = scada.Null
		} else {
			out[i] = sum / float64(len(cols))
		}
	}
	return out, nil
}

// AssignBins floor-divides each value into [min, max) bins of the given
// width and labels it with the bin center. Values outside the range, and
// null values, map to null.
func AssignBins(vals []float64, step, min, max float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if scada.IsNull(v) || v < min || v >= max {
			out[i] = scada.Null
			continue
		}
		k := math.Floor((v - min) / step)
		out[i] = min + (k+0.5)*step
	}
	return out
}

// Edges returns the bin edge set {min, min+step, ..., max}.
func Edges(min, max, step float64) []float64 {
	n := int(math.Round((max - min) / step))
	if n < 1 {
		n = 1
	}
	return floats.Span(make([]float64, n+1), min, max)
}

// AddReflectedRows duplicates every row whose wind direction lies within
// radius degrees of a bin edge, reflecting the angle across that edge so
// the row is counted in both adjacent bins. The table must already carry
// the derived wd column; reflection happens on the unbinned angle.
//
// When the edge set spans the full circle the seam edge is handled once
// and reflected angles wrap modulo 360. A row sitting exactly on an edge
// would reflect onto itself, so its duplicate is nudged one ulp into the
// neighbouring bin.
func AddReflectedRows(t *scada.Table, edges []float64, radius float64) (*scada.Table, error) {
	wd, ok := t.Column(scada.PredefinedWdCol)
	if !ok {
		return nil, fmt.Errorf("table has no %q column", scada.PredefinedWdCol)
	}
	if len(edges) < 2 {
		return nil, fmt.Errorf("need at least two bin edges, got %d", len(edges))
	}

	fullCircle := edges[0] == 0 && edges[len(edges)-1] == 360
	reflectEdges := edges
	if fullCircle {
		// 0 and 360 are the same physical edge; keep one.
		reflectEdges = edges[:len(edges)-1]
	}

	var dupIdx []int
	var dupWd []float64
	for i, w := range wd {
		if scada.IsNull(w) {
			continue
		}
		for _, e := range reflectEdges {
			d := math.Abs(w - e)
			if fullCircle && d > 180 {
				d = 360 - d
			}
			if d > radius {
				continue
			}
			r := 2*e - w
			if fullCircle {
				r = wrap360(r)
			}
			if r == w {
				// Exactly on the edge: mirror into the bin below. The
				// seam edge mirrors to just under 360 instead, since
				// nudging below zero and wrapping would round to 360.
				if fullCircle && e == 0 {
					r = math.Nextafter(360, 0)
				} else {
					r = math.Nextafter(e, math.Inf(-1))
				}
			}
			dupIdx = append(dupIdx, i)
			dupWd = append(dupWd, r)
		}
	}

	if len(dupIdx) == 0 {
		return t, nil
	}
	dup := t.Take(dupIdx)
	dup, err := dup.With(scada.PredefinedWdCol, dupWd)
	if err != nil {
		return nil, err
	}
	return t.Append(dup)
}

func gather(t *scada.Table, names []string) ([][]float64, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no source columns configured")
	}
	cols := make([][]float64, len(names))
	for i, name := range names {
		vals, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("column %q not in table", name)
		}
		cols[i] = vals
	}
	return cols, nil
}

func wrap360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
