package scada

import "fmt"

// Column naming scheme for per-turbine measurements. Turbine indices are
// zero-padded to three digits, so turbine 7 exposes pow_007, ws_007 and
// wd_007.
const (
	CondCol = "df_name"

	// Predefined scalar columns, used instead of per-turbine derivation
	// when the caller opts in.
	PredefinedRefCol = "pow_ref"
	PredefinedWsCol  = "ws"
	PredefinedWdCol  = "wd"

	// Derived columns added by the pipeline.
	TestPowerCol = "pow_test"
	WdBinCol     = "wd_bin"
	WsBinCol     = "ws_bin"
)

// PowCol returns the power column name for a turbine index.
func PowCol(turbine int) string { return fmt.Sprintf("pow_%03d", turbine) }

// WsCol returns the wind-speed column name for a turbine index.
func WsCol(turbine int) string { return fmt.Sprintf("ws_%03d", turbine) }

// WdCol returns the wind-direction column name for a turbine index.
func WdCol(turbine int) string { return fmt.Sprintf("wd_%03d", turbine) }

// PowCols maps turbine indices to power column names.
func PowCols(turbines []int) []string {
	out := make([]string, len(turbines))
	for i, t := range turbines {
		out[i] = PowCol(t)
	}
	return out
}

// WsCols maps turbine indices to wind-speed column names.
func WsCols(turbines []int) []string {
	out := make([]string, len(turbines))
	for i, t := range turbines {
		out[i] = WsCol(t)
	}
	return out
}

// WdCols maps turbine indices to wind-direction column names.
func WdCols(turbines []int) []string {
	out := make([]string, len(turbines))
	for i, t := range turbines {
		out[i] = WdCol(t)
	}
	return out
}
