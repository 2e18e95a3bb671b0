package scada

import (
	"encoding/json"
	"fmt"
)

// JSON wire form of a table. NaN cannot travel through encoding/json, so
// null cells cross the wire as JSON nulls.
type wireTable struct {
	Conds   []string     `json:"df_name"`
	Columns []wireColumn `json:"columns"`
}

type wireColumn struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// MarshalJSON encodes the table with null cells as JSON nulls.
func (t *Table) MarshalJSON() ([]byte, error) {
	w := wireTable{Conds: t.conds}
	for _, name := range t.order {
		vals := t.cols[name]
		wc := wireColumn{Name: name, Values: make([]*float64, len(vals))}
		for i := range vals {
			if !IsNull(vals[i]) {
				v := vals[i]
				wc.Values[i] = &v
			}
		}
		w.Columns = append(w.Columns, wc)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (t *Table) UnmarshalJSON(data []byte) error {
	var w wireTable
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded := NewTable(w.Conds)
	for _, wc := range w.Columns {
		vals := make([]float64, len(wc.Values))
		for i, p := range wc.Values {
			if p == nil {
				vals[i] = Null
			} else {
				vals[i] = *p
			}
		}
		if err := decoded.AddColumn(wc.Name, vals); err != nil {
			return fmt.Errorf("decode table: %w", err)
		}
	}
	*t = *decoded
	return nil
}
