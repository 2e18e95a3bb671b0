package app

import (
	"context"
	"fmt"
	"log"

	"windratio/domain/core"
	"windratio/domain/ratio"
	"windratio/domain/scada"
	"windratio/internal/reducer"
	"windratio/ports"
)

// Strategy selects how the bootstrap passes are scheduled. Resolved once
// here at the entry point; no implicit environment-driven default beyond
// serial.
type Strategy string

const (
	StrategySerial          Strategy = "serial"
	StrategyMultiprocessing Strategy = "multiprocessing"
	StrategyCluster         Strategy = "cluster"
)

var validStrategies = []Strategy{StrategySerial, StrategyMultiprocessing, StrategyCluster}

// Params is the caller-supplied configuration for one energy-ratio
// computation. Zero values fall back to the conventional defaults (2°
// wind-direction bins over the full circle, 1 m/s wind-speed bins up to
// 50 m/s, N=1, serial execution).
type Params struct {
	DfNames []string `json:"df_names,omitempty"`

	RefTurbines  []int `json:"ref_turbines,omitempty"`
	TestTurbines []int `json:"test_turbines,omitempty"`
	WdTurbines   []int `json:"wd_turbines,omitempty"`
	WsTurbines   []int `json:"ws_turbines,omitempty"`

	UsePredefinedRef bool `json:"use_predefined_ref,omitempty"`
	UsePredefinedWd  bool `json:"use_predefined_wd,omitempty"`
	UsePredefinedWs  bool `json:"use_predefined_ws,omitempty"`

	WdStep float64 `json:"wd_step,omitempty"`
	WdMin  float64 `json:"wd_min,omitempty"`
	WdMax  float64 `json:"wd_max,omitempty"`
	WsStep float64 `json:"ws_step,omitempty"`
	WsMin  float64 `json:"ws_min,omitempty"`
	WsMax  float64 `json:"ws_max,omitempty"`

	BinCols            []string `json:"bin_cols_in,omitempty"`
	WdBinOverlapRadius float64  `json:"wd_bin_overlap_radius,omitempty"`

	N                 int      `json:"n,omitempty"`
	ExecutionStrategy Strategy `json:"execution_strategy,omitempty"`
	MaxWorkers        int      `json:"max_workers,omitempty"`
}

// DefaultParams returns the conventional bin settings.
func DefaultParams() Params {
	return Params{
		WdStep: 2, WdMin: 0, WdMax: 360,
		WsStep: 1, WsMin: 0, WsMax: 50,
		N:                 1,
		ExecutionStrategy: StrategySerial,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.WdStep == 0 {
		p.WdStep = d.WdStep
	}
	if p.WdMax == 0 {
		p.WdMax = d.WdMax
	}
	if p.WsStep == 0 {
		p.WsStep = d.WsStep
	}
	if p.WsMax == 0 {
		p.WsMax = d.WsMax
	}
	if p.N == 0 {
		p.N = 1
	}
	if p.ExecutionStrategy == "" {
		p.ExecutionStrategy = StrategySerial
	}
	return p
}

// Result is the energy-ratio table together with the full parameter
// snapshot that produced it, for reproducibility and downstream reporting.
type Result struct {
	ID    core.RunID   `json:"id"`
	Table *ratio.Table `json:"table"`

	Names    []string `json:"df_names"`
	RefCols  []string `json:"ref_cols"`
	TestCols []string `json:"test_cols"`
	WdCols   []string `json:"wd_cols"`
	WsCols   []string `json:"ws_cols"`

	Params    Params         `json:"params"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// EnergyRatioService is the public entry point: it validates
// configuration, derives column names, dispatches to the single-pass or
// bootstrap path and wraps the result with provenance.
type EnergyRatioService struct {
	strategies map[Strategy]ports.ExecutionStrategy
}

// NewEnergyRatioService creates a service with the given execution
// strategies registered by name.
func NewEnergyRatioService(strategies ...ports.ExecutionStrategy) *EnergyRatioService {
	s := &EnergyRatioService{strategies: make(map[Strategy]ports.ExecutionStrategy)}
	for _, strat := range strategies {
		s.strategies[Strategy(strat.Name())] = strat
	}
	return s
}

// Compute runs the energy-ratio computation for the given observation
// table holder and parameters.
func (s *EnergyRatioService) Compute(ctx context.Context, holder ports.TableHolder, p Params) (*Result, error) {
	p = p.withDefaults()

	// Configuration combinatorics first; the input table is not touched
	// until the parameters themselves are coherent.
	if err := validateSources(p); err != nil {
		return nil, err
	}
	if len(p.TestTurbines) == 0 {
		return nil, core.NewConfigurationError("test_turbines", "must be a non-empty list of turbine indices")
	}
	if p.WdBinOverlapRadius < 0 {
		return nil, core.NewConfigurationError("wd_bin_overlap_radius", "cannot be negative")
	}
	if p.WdBinOverlapRadius > p.WdStep/2 {
		return nil, core.NewConfigurationError("wd_bin_overlap_radius",
			fmt.Sprintf("must be at most wd_step/2 (%g)", p.WdStep/2))
	}
	if p.N < 1 {
		return nil, core.NewConfigurationError("n", "must be at least 1")
	}
	var strat ports.ExecutionStrategy
	if p.N > 1 {
		var err error
		if strat, err = s.resolveStrategy(p.ExecutionStrategy); err != nil {
			return nil, err
		}
	}

	t := holder.Table()
	spec, err := buildSpec(t, p)
	if err != nil {
		return nil, err
	}

	var table *ratio.Table
	if p.N == 1 {
		table, err = reducer.ComputeSingle(t, spec)
	} else {
		job := &resampleJob{holder: holder, spec: spec}
		var results []ratio.Indexed
		if results, err = strat.RunMany(ctx, p.N, job); err == nil {
			table, err = reducer.Combine(results, spec.Names)
		}
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		ID:        core.NewRunID(),
		Table:     table,
		Names:     spec.Names,
		RefCols:   spec.RefCols,
		TestCols:  spec.TestCols,
		WdCols:    spec.WdCols,
		WsCols:    spec.WsCols,
		Params:    p,
		CreatedAt: core.Now(),
	}, nil
}

// validateSources checks the predefined-column / turbine-list
// combinatorics for the reference, wind-speed and wind-direction sources.
func validateSources(p Params) error {
	type source struct {
		predefined bool
		turbines   []int
		flagName   string
		listName   string
	}
	for _, src := range []source{
		{p.UsePredefinedRef, p.RefTurbines, "use_predefined_ref", "ref_turbines"},
		{p.UsePredefinedWs, p.WsTurbines, "use_predefined_ws", "ws_turbines"},
		{p.UsePredefinedWd, p.WdTurbines, "use_predefined_wd", "wd_turbines"},
	} {
		if src.predefined {
			if src.turbines != nil {
				log.Printf("warning: %s is ignored when %s is set", src.listName, src.flagName)
			}
			continue
		}
		if src.turbines == nil {
			return core.NewConfigurationError(src.listName,
				fmt.Sprintf("must be supplied when %s is false", src.flagName))
		}
	}
	return nil
}

// buildSpec derives the source column names from the configured turbine
// indices (or the predefined scalar columns) and checks that predefined
// columns actually exist in the table.
func buildSpec(t *scada.Table, p Params) (reducer.Spec, error) {
	var spec reducer.Spec

	if p.UsePredefinedRef {
		if !t.HasColumn(scada.PredefinedRefCol) {
			return spec, core.NewDataError(scada.PredefinedRefCol, "required when use_predefined_ref is set")
		}
		spec.RefCols = []string{scada.PredefinedRefCol}
	} else {
		spec.RefCols = scada.PowCols(p.RefTurbines)
	}
	if p.UsePredefinedWs {
		if !t.HasColumn(scada.PredefinedWsCol) {
			return spec, core.NewDataError(scada.PredefinedWsCol, "required when use_predefined_ws is set")
		}
		spec.WsCols = []string{scada.PredefinedWsCol}
	} else {
		spec.WsCols = scada.WsCols(p.WsTurbines)
	}
	if p.UsePredefinedWd {
		if !t.HasColumn(scada.PredefinedWdCol) {
			return spec, core.NewDataError(scada.PredefinedWdCol, "required when use_predefined_wd is set")
		}
		spec.WdCols = []string{scada.PredefinedWdCol}
	} else {
		spec.WdCols = scada.WdCols(p.WdTurbines)
	}
	spec.TestCols = scada.PowCols(p.TestTurbines)

	spec.Names = p.DfNames
	if spec.Names == nil {
		spec.Names = t.DistinctConds()
	}

	spec.WdStep, spec.WdMin, spec.WdMax = p.WdStep, p.WdMin, p.WdMax
	spec.WsStep, spec.WsMin, spec.WsMax = p.WsStep, p.WsMin, p.WsMax
	spec.BinCols = p.BinCols
	spec.OverlapRadius = p.WdBinOverlapRadius
	return spec, nil
}

func (s *EnergyRatioService) resolveStrategy(name Strategy) (ports.ExecutionStrategy, error) {
	valid := false
	for _, v := range validStrategies {
		if name == v {
			valid = true
			break
		}
	}
	if !valid {
		return nil, core.NewConfigurationError("execution_strategy",
			fmt.Sprintf("unknown strategy %q; valid strategies are serial, multiprocessing, cluster", name))
	}
	strat, ok := s.strategies[name]
	if !ok {
		return nil, core.NewConfigurationError("execution_strategy",
			fmt.Sprintf("strategy %q is not registered with this service", name))
	}
	return strat, nil
}

// resampleJob adapts a table holder plus a resolved spec into the
// execution-strategy job contract.
type resampleJob struct {
	holder ports.TableHolder
	spec   reducer.Spec
}

func (j *resampleJob) Run(ctx context.Context, index int) (*ratio.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reducer.ComputeSingle(j.holder.Resample(index), j.spec)
}

func (j *resampleJob) Payload(index int) ([]byte, error) {
	return reducer.EncodeJob(index, j.spec, j.holder.Resample(index))
}
