// Package ratio holds the energy-ratio result table: one row per
// wind-direction bin, one ratio column per experimental condition, plus
// sample counts, optional uplift, and bootstrap bound columns.
package ratio

import (
	"fmt"
	"math"
)

// UpliftCol is the percentage-difference column present when exactly two
// conditions are compared.
const UpliftCol = "uplift"

// WdBinCol is the wind-direction bin column, always first.
const WdBinCol = "wd_bin"

// IsNull reports whether a result cell is missing (a bin with zero
// contributing rows for a condition).
func IsNull(v float64) bool { return math.IsNaN(v) }

// Column is one named column of a result table.
type Column struct {
	Name   string
	Values []float64
}

// Table is an ordered collection of equally sized float columns. Column
// order is part of the contract: wd_bin first, then the per-condition
// ratio columns in df_names order, then uplift when present, then the
// count columns.
type Table struct {
	cols []Column
}

// NewTable creates an empty result table.
func NewTable() *Table { return &Table{} }

// AddColumn appends a column; all columns must have equal length.
func (t *Table) AddColumn(name string, values []float64) error {
	if len(t.cols) > 0 && len(values) != len(t.cols[0].Values) {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.cols[0].Values))
	}
	v := make([]float64, len(values))
	copy(v, values)
	t.cols = append(t.cols, Column{Name: name, Values: v})
	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Values)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// HasColumn reports whether a column exists.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.cols {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Column returns the values of a column, or nil if absent. The returned
// slice is shared; callers must not modify it.
func (t *Table) Column(name string) []float64 {
	for _, c := range t.cols {
		if c.Name == name {
			return c.Values
		}
	}
	return nil
}

// Cell returns the value at (row, column name); null if the column is
// absent.
func (t *Table) Cell(row int, name string) float64 {
	vals := t.Column(name)
	if vals == nil || row < 0 || row >= len(vals) {
		return math.NaN()
	}
	return vals[row]
}

// Indexed tags a per-resample result table with its originating resample
// index. Bootstrap combination selects the point estimate by this tag,
// never by arrival order.
type Indexed struct {
	Index int
	Table *Table
}
