// Package testkit builds synthetic wind-farm observation tables with known
// properties, so tests can assert exact energy-ratio outcomes.
package testkit

import (
	"math"
	"math/rand"

	"windratio/domain/scada"
)

// SweepFarm returns a single-condition table of n rows for turbines 0 and
// 1. Wind direction sweeps the full circle, wind speed is a fixed 8 m/s
// and both power columns are constant, so every populated direction bin
// has ratio pow_001/pow_000.
func SweepFarm(cond string, n int) *scada.Table {
	conds := make([]string, n)
	wd := make([]float64, n)
	ws := make([]float64, n)
	pow0 := make([]float64, n)
	pow1 := make([]float64, n)
	for i := 0; i < n; i++ {
		conds[i] = cond
		wd[i] = math.Mod(float64(i)*360.0/float64(n), 360.0)
		ws[i] = 8.0
		pow0[i] = 1500.0
		pow1[i] = 1200.0
	}
	t := scada.NewTable(conds)
	mustAdd(t, scada.WdCol(0), wd)
	mustAdd(t, scada.WsCol(0), ws)
	mustAdd(t, scada.PowCol(0), pow0)
	mustAdd(t, scada.PowCol(1), pow1)
	return t
}

// TwoConditionFarm returns a two-condition table where both conditions
// share identical rows except that the test turbine's power in the second
// condition is scaled by factor. The per-bin ratio of the second condition
// is therefore exactly factor times the first, giving an uplift of
// 100*(factor-1) in every populated bin.
func TwoConditionFarm(n int, factor float64) *scada.Table {
	a := SweepFarm("baseline", n)
	b := SweepFarm("wake_steering", n)
	pow1, _ := b.Column(scada.PowCol(1))
	scaled := make([]float64, len(pow1))
	for i, v := range pow1 {
		scaled[i] = v * factor
	}
	b, err := b.With(scada.PowCol(1), scaled)
	if err != nil {
		panic(err)
	}
	out, err := a.Append(b)
	if err != nil {
		panic(err)
	}
	return out
}

// NoisyFarm returns a single-condition table with rand-driven wind and
// power values and a sprinkling of null cells, for exercising filtering
// and resampling rather than exact numbers.
func NoisyFarm(cond string, n int, seed int64) *scada.Table {
	rng := rand.New(rand.NewSource(seed))
	conds := make([]string, n)
	wd := make([]float64, n)
	ws := make([]float64, n)
	pow0 := make([]float64, n)
	pow1 := make([]float64, n)
	for i := 0; i < n; i++ {
		conds[i] = cond
		wd[i] = rng.Float64() * 360.0
		ws[i] = 4.0 + rng.Float64()*12.0
		pow0[i] = 800.0 + rng.Float64()*1200.0
		pow1[i] = 800.0 + rng.Float64()*1200.0
		if rng.Float64() < 0.05 {
			pow1[i] = scada.Null
		}
	}
	t := scada.NewTable(conds)
	mustAdd(t, scada.WdCol(0), wd)
	mustAdd(t, scada.WsCol(0), ws)
	mustAdd(t, scada.PowCol(0), pow0)
	mustAdd(t, scada.PowCol(1), pow1)
	return t
}

func mustAdd(t *scada.Table, name string, values []float64) {
	if err := t.AddColumn(name, values); err != nil {
		panic(err)
	}
}
