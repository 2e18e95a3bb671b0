// Package csvtable reads SCADA observation tables from CSV files. The
// header row names the columns; a df_name column carries the condition
// label and every other column is numeric, with empty cells as nulls.
package csvtable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"windratio/domain/core"
	"windratio/domain/scada"
)

// ReadFile reads an observation table from a CSV file.
func ReadFile(path string) (*scada.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read reads an observation table from CSV data.
func Read(r io.Reader) (*scada.Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}
	header := records[0]
	condIdx := -1
	for i, name := range header {
		if name == scada.CondCol {
			condIdx = i
		}
	}
	if condIdx < 0 {
		return nil, core.NewDataError(scada.CondCol, "missing from csv header")
	}

	rows := records[1:]
	conds := make([]string, len(rows))
	for i, rec := range rows {
		conds[i] = rec[condIdx]
	}
	table := scada.NewTable(conds)

	for col, name := range header {
		if col == condIdx {
			continue
		}
		vals := make([]float64, len(rows))
		for i, rec := range rows {
			cell := strings.TrimSpace(rec[col])
			if cell == "" || strings.EqualFold(cell, "na") || strings.EqualFold(cell, "null") {
				vals[i] = scada.Null
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i+2, name, err)
			}
			vals[i] = v
		}
		if err := table.AddColumn(name, vals); err != nil {
			return nil, err
		}
	}
	return table, nil
}
