// Package scada holds the observation-table data model: time samples of
// per-turbine power, wind speed and wind direction across one or more
// experimental conditions.
package scada

import (
	"fmt"
	"math"
)

// Null is the in-table encoding of a missing measurement.
var Null = math.NaN()

// IsNull reports whether a cell value encodes a missing measurement.
func IsNull(v float64) bool { return math.IsNaN(v) }

// Table is a columnar observation table. Each row is one time sample from
// one experimental condition. Float columns are keyed by name; the
// condition label (df_name) is carried as a separate string column.
//
// The pipeline treats tables as immutable values: every transformation
// returns a fresh Table and never mutates its input.
type Table struct {
	conds []string
	order []string
	cols  map[string][]float64
}

// NewTable creates a table with the given condition label per row.
func NewTable(conds []string) *Table {
	c := make([]string, len(conds))
	copy(c, conds)
	return &Table{
		conds: c,
		cols:  make(map[string][]float64),
	}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.conds) }

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// HasColumn reports whether a float column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns the values of a float column, or false if absent.
// The returned slice is shared; callers must not modify it.
func (t *Table) Column(name string) ([]float64, bool) {
	vals, ok := t.cols[name]
	return vals, ok
}

// Cond returns the condition label of row i.
func (t *Table) Cond(i int) string { return t.conds[i] }

// DistinctConds returns the distinct condition labels in first-seen order.
func (t *Table) DistinctConds() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range t.conds {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// AddColumn adds a float column. The values slice is copied.
func (t *Table) AddColumn(name string, values []float64) error {
	if len(values) != len(t.conds) {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.conds))
	}
	if _, exists := t.cols[name]; !exists {
		t.order = append(t.order, name)
	}
	v := make([]float64, len(values))
	copy(v, values)
	t.cols[name] = v
	return nil
}

// With returns a copy of the table with one column added or replaced.
func (t *Table) With(name string, values []float64) (*Table, error) {
	out := t.clone()
	if err := out.AddColumn(name, values); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterNotNull returns a copy holding only the rows where none of the
// named columns is null. Missing columns yield an error.
func (t *Table) FilterNotNull(names []string) (*Table, error) {
	colSet := make([][]float64, len(names))
	for i, name := range names {
		vals, ok := t.cols[name]
		if !ok {
			return nil, fmt.Errorf("column %q not in table", name)
		}
		colSet[i] = vals
	}
	keep := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		ok := true
		for _, vals := range colSet {
			if IsNull(vals[i]) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, i)
		}
	}
	return t.Take(keep), nil
}

// Take returns a copy holding the rows at the given indices, in order.
// Indices may repeat, which is how bootstrap resampling draws rows with
// replacement.
func (t *Table) Take(indices []int) *Table {
	conds := make([]string, len(indices))
	for i, idx := range indices {
		conds[i] = t.conds[idx]
	}
	out := NewTable(conds)
	out.order = make([]string, len(t.order))
	copy(out.order, t.order)
	for name, vals := range t.cols {
		taken := make([]float64, len(indices))
		for i, idx := range indices {
			taken[i] = vals[idx]
		}
		out.cols[name] = taken
	}
	return out
}

// Append returns a copy of the table with the rows of other appended.
// Both tables must have identical column sets.
func (t *Table) Append(other *Table) (*Table, error) {
	if len(t.cols) != len(other.cols) {
		return nil, fmt.Errorf("cannot append: %d columns vs %d", len(t.cols), len(other.cols))
	}
	conds := make([]string, 0, len(t.conds)+len(other.conds))
	conds = append(conds, t.conds...)
	conds = append(conds, other.conds...)
	out := NewTable(conds)
	out.order = make([]string, len(t.order))
	copy(out.order, t.order)
	for name, vals := range t.cols {
		ovals, ok := other.cols[name]
		if !ok {
			return nil, fmt.Errorf("cannot append: column %q missing from other table", name)
		}
		merged := make([]float64, 0, len(vals)+len(ovals))
		merged = append(merged, vals...)
		merged = append(merged, ovals...)
		out.cols[name] = merged
	}
	return out, nil
}

func (t *Table) clone() *Table {
	out := NewTable(t.conds)
	out.order = make([]string, len(t.order))
	copy(out.order, t.order)
	for name, vals := range t.cols {
		v := make([]float64, len(vals))
		copy(v, vals)
		out.cols[name] = v
	}
	return out
}
