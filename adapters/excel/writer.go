// Package excel exports energy-ratio result tables to xlsx workbooks for
// downstream reporting.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"windratio/domain/ratio"
)

const sheetName = "EnergyRatio"

// Writer writes a result table to one xlsx file.
type Writer struct {
	path string
}

// NewWriter creates a writer targeting the given file path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// WriteResult writes the table with one header row; null cells stay empty.
func (w *Writer) WriteResult(ctx context.Context, t *ratio.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	for col, name := range t.Names() {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return err
		}
		for row, v := range t.Column(name) {
			if ratio.IsNull(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save %s: %w", w.path, err)
	}
	return nil
}
