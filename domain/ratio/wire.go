package ratio

import (
	"encoding/json"
	"math"
)

type wireColumn struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// MarshalJSON encodes the table column-wise with null cells as JSON nulls.
func (t *Table) MarshalJSON() ([]byte, error) {
	wire := make([]wireColumn, len(t.cols))
	for i, c := range t.cols {
		wc := wireColumn{Name: c.Name, Values: make([]*float64, len(c.Values))}
		for j, v := range c.Values {
			if !math.IsNaN(v) {
				val := v
				wc.Values[j] = &val
			}
		}
		wire[i] = wc
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (t *Table) UnmarshalJSON(data []byte) error {
	var wire []wireColumn
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	decoded := NewTable()
	for _, wc := range wire {
		vals := make([]float64, len(wc.Values))
		for i, p := range wc.Values {
			if p == nil {
				vals[i] = math.NaN()
			} else {
				vals[i] = *p
			}
		}
		if err := decoded.AddColumn(wc.Name, vals); err != nil {
			return err
		}
	}
	*t = *decoded
	return nil
}
