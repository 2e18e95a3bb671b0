// Package reducer implements the energy-ratio reduction: the single-pass
// groupby-aggregate-pivot pipeline and the bootstrap combination of N
// resampled passes.
package reducer

import (
	"windratio/domain/scada"
)

// Spec is the fully resolved description of one single-pass reduction:
// condition names, source column lists and bin settings. It is built once
// by the entry point and is self-contained, so it can travel to remote
// workers next to a resampled table.
type Spec struct {
	Names []string `json:"df_names"`

	RefCols  []string `json:"ref_cols"`
	TestCols []string `json:"test_cols"`
	WdCols   []string `json:"wd_cols"`
	WsCols   []string `json:"ws_cols"`

	WdStep float64 `json:"wd_step"`
	WdMin  float64 `json:"wd_min"`
	WdMax  float64 `json:"wd_max"`
	WsStep float64 `json:"ws_step"`
	WsMin  float64 `json:"ws_min"`
	WsMax  float64 `json:"ws_max"`

	BinCols       []string `json:"bin_cols_in"`
	OverlapRadius float64  `json:"wd_bin_overlap_radius"`
}

// binCols returns the inner grouping columns: the configured bin columns
// with any condition-label entry stripped (the condition is always
// appended separately).
func (s Spec) binCols() []string {
	in := s.BinCols
	if len(in) == 0 {
		in = []string{scada.WdBinCol, scada.WsBinCol}
	}
	out := make([]string, 0, len(in))
	for _, c := range in {
		if c != scada.CondCol {
			out = append(out, c)
		}
	}
	return out
}
