package table

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads one sheet of a workbook into a Table. The first row is the
// header. When sheet is empty the first sheet of the workbook is used.
func ReadXLSX(r io.Reader, name, sheet string) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Table{Name: name, Warnings: []string{"workbook has no sheets"}}, nil
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return Table{Name: name, Warnings: []string{fmt.Sprintf("sheet %q has no header row", sheet)}}, nil
	}
	return FromRecords(name, rows[0], rows[1:]), nil
}
