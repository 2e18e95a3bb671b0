package reducer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"windratio/domain/ratio"
	"windratio/domain/scada"
	"windratio/internal/binning"
)

// ComputeSingle runs one pass of the energy-ratio reduction over an
// observation table and returns one row per wind-direction bin, one ratio
// column per condition, an uplift column for the two-condition case and a
// sample-count column per condition.
//
// The per-bin energy is count-weighted: within each (wd, ws) bin the mean
// power of every condition is multiplied by the smallest sample count any
// condition has in that bin, so a condition with more samples cannot bias
// the ratio.
func ComputeSingle(t *scada.Table, spec Spec) (*ratio.Table, error) {
	var err error

	inputCols := make([]string, 0, len(spec.RefCols)+len(spec.TestCols)+len(spec.WsCols)+len(spec.WdCols))
	inputCols = append(inputCols, spec.RefCols...)
	inputCols = append(inputCols, spec.TestCols...)
	inputCols = append(inputCols, spec.WsCols...)
	inputCols = append(inputCols, spec.WdCols...)
	if t, err = t.FilterNotNull(inputCols); err != nil {
		return nil, err
	}

	// Overlap binning duplicates rows near bin edges, reflected across the
	// edge. Reflection needs the scalar wind direction before any binning.
	wdCols := spec.WdCols
	if spec.OverlapRadius > 0 {
		wd, derr := binning.DeriveWindDirection(t, wdCols)
		if derr != nil {
			return nil, derr
		}
		if t, err = t.With(scada.PredefinedWdCol, wd); err != nil {
			return nil, err
		}
		edges := binning.Edges(spec.WdMin, spec.WdMax, spec.WdStep)
		if t, err = binning.AddReflectedRows(t, edges, spec.OverlapRadius); err != nil {
			return nil, err
		}
		wdCols = []string{scada.PredefinedWdCol}
	}

	ws, err := binning.MeanAcross(t, spec.WsCols)
	if err != nil {
		return nil, err
	}
	if t, err = t.With(scada.WsBinCol, binning.AssignBins(ws, spec.WsStep, spec.WsMin, spec.WsMax)); err != nil {
		return nil, err
	}
	wd, err := binning.DeriveWindDirection(t, wdCols)
	if err != nil {
		return nil, err
	}
	if t, err = t.With(scada.WdBinCol, binning.AssignBins(wd, spec.WdStep, spec.WdMin, spec.WdMax)); err != nil {
		return nil, err
	}

	powRef, err := binning.MeanAcross(t, spec.RefCols)
	if err != nil {
		return nil, err
	}
	if t, err = t.With(scada.PredefinedRefCol, powRef); err != nil {
		return nil, err
	}
	powTest, err := binning.MeanAcross(t, spec.TestCols)
	if err != nil {
		return nil, err
	}
	if t, err = t.With(scada.TestPowerCol, powTest); err != nil {
		return nil, err
	}

	binCols := spec.binCols()
	if t, err = t.FilterNotNull(binCols); err != nil {
		return nil, err
	}

	return reduce(t, spec.Names, binCols)
}

// groupA is one (bin columns x condition) aggregate.
type groupA struct {
	binKey  string
	wdBin   float64
	cond    string
	sumRef  float64
	sumTest float64
	count   int
}

// groupB is one (wd_bin x condition) aggregate after collapsing the
// wind-speed dimension.
type groupB struct {
	wdBin   float64
	cond    string
	refE    float64
	testE   float64
	count   int
}

func reduce(t *scada.Table, names []string, binCols []string) (*ratio.Table, error) {
	binVals := make([][]float64, len(binCols))
	wdIdx := -1
	for i, name := range binCols {
		vals, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("bin column %q not in table", name)
		}
		binVals[i] = vals
		if name == scada.WdBinCol {
			wdIdx = i
		}
	}
	if wdIdx < 0 {
		return nil, fmt.Errorf("bin columns must include %q", scada.WdBinCol)
	}
	powRef, _ := t.Column(scada.PredefinedRefCol)
	powTest, _ := t.Column(scada.TestPowerCol)

	// Stage A: group by (bin cols x condition), first-seen order.
	groupsA := make(map[string]*groupA)
	var orderA []*groupA
	for i := 0; i < t.NumRows(); i++ {
		var sb strings.Builder
		for _, vals := range binVals {
			sb.WriteString(strconv.FormatFloat(vals[i], 'g', -1, 64))
			sb.WriteByte('\x1f')
		}
		binKey := sb.String()
		key := binKey + t.Cond(i)
		g, ok := groupsA[key]
		if !ok {
			g = &groupA{binKey: binKey, wdBin: binVals[wdIdx][i], cond: t.Cond(i)}
			groupsA[key] = g
			orderA = append(orderA, g)
		}
		g.sumRef += powRef[i]
		g.sumTest += powTest[i]
		g.count++
	}

	// Equalize statistical weight across conditions: the energy weight for
	// a bin is the smallest count any condition observed there.
	countMin := make(map[string]int)
	for _, g := range orderA {
		if cm, ok := countMin[g.binKey]; !ok || g.count < cm {
			countMin[g.binKey] = g.count
		}
	}

	// Stage B: collapse the wind-speed dimension per (wd_bin, condition).
	groupsB := make(map[string]*groupB)
	var orderB []*groupB
	for _, g := range orderA {
		cm := float64(countMin[g.binKey])
		key := strconv.FormatFloat(g.wdBin, 'g', -1, 64) + "\x1f" + g.cond
		b, ok := groupsB[key]
		if !ok {
			b = &groupB{wdBin: g.wdBin, cond: g.cond}
			groupsB[key] = b
			orderB = append(orderB, b)
		}
		b.refE += (g.sumRef / float64(g.count)) * cm
		b.testE += (g.sumTest / float64(g.count)) * cm
		b.count += g.count
	}

	return pivot(orderB, names)
}

// pivot reshapes the (wd_bin x condition) aggregates into one row per
// wind-direction bin with per-condition ratio and count columns, sorted
// ascending by wd_bin, and enforces the column-order contract.
func pivot(groups []*groupB, names []string) (*ratio.Table, error) {
	var wds []float64
	rowOf := make(map[float64]int)
	for _, g := range groups {
		if _, ok := rowOf[g.wdBin]; !ok {
			rowOf[g.wdBin] = 0
			wds = append(wds, g.wdBin)
		}
	}
	sort.Float64s(wds)
	for i, wd := range wds {
		rowOf[wd] = i
	}

	ratios := make(map[string][]float64, len(names))
	counts := make(map[string][]float64, len(names))
	for _, n := range names {
		ratios[n] = nanSlice(len(wds))
		counts[n] = nanSlice(len(wds))
	}
	for _, g := range groups {
		row := rowOf[g.wdBin]
		if _, ok := ratios[g.cond]; !ok {
			// Condition present in the data but not requested; skip.
			continue
		}
		ratios[g.cond][row] = g.testE / g.refE
		counts[g.cond][row] = float64(g.count)
	}

	out := ratio.NewTable()
	if err := out.AddColumn(ratio.WdBinCol, wds); err != nil {
		return nil, err
	}
	for _, n := range names {
		if err := out.AddColumn(n, ratios[n]); err != nil {
			return nil, err
		}
	}
	if len(names) == 2 {
		uplift := make([]float64, len(wds))
		r1, r2 := ratios[names[0]], ratios[names[1]]
		for i := range uplift {
			uplift[i] = 100 * (r2[i] - r1[i]) / r1[i]
		}
		if err := out.AddColumn(ratio.UpliftCol, uplift); err != nil {
			return nil, err
		}
	}
	for _, n := range names {
		if err := out.AddColumn("count_"+n, counts[n]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = scada.Null
	}
	return out
}
