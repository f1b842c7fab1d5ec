package table

import (
	"fmt"
	"strings"
)

// Row maps a column name to its raw cell text. A missing key or a blank
// string both mean the cell has no value.
type Row map[string]string

// Table is an in-memory tabular dataset loaded from one source.
type Table struct {
	Name     string
	Columns  []string
	Rows     []Row
	Warnings []string
}

// FromRecords builds a Table from a header and raw records as produced by a
// CSV reader or a spreadsheet. Short records are padded; extra cells beyond
// the header are ignored. Duplicate header names keep the first occurrence.
func FromRecords(name string, header []string, records [][]string) Table {
	t := Table{Name: name}
	idx := make([]int, 0, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if seen[h] {
			t.Warnings = append(t.Warnings, fmt.Sprintf("duplicate column %q at position %d ignored", h, i+1))
			continue
		}
		seen[h] = true
		t.Columns = append(t.Columns, h)
		idx = append(idx, i)
	}
	t.Rows = make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(t.Columns))
		for k, i := range idx {
			if i < len(rec) {
				row[t.Columns[k]] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Has reports whether the table carries a column with exactly this name.
func (t Table) Has(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Column returns the trimmed cell values of col in row order, with "" for
// missing cells. ok is false when the column does not exist.
func (t Table) Column(col string) (vals []string, ok bool) {
	if !t.Has(col) {
		return nil, false
	}
	vals = make([]string, len(t.Rows))
	for i, r := range t.Rows {
		vals[i] = strings.TrimSpace(r[col])
	}
	return vals, true
}

// Lookup returns the first of names present in the table.
func (t Table) Lookup(names ...string) (string, bool) {
	for _, n := range names {
		if t.Has(n) {
			return n, true
		}
	}
	return "", false
}
