package table

import (
	"fmt"
	"strings"
)

// NormalizeName canonicalizes a column name: trim, lowercase, spaces to
// underscores.
func NormalizeName(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// Normalize returns a copy of t with every column renamed by NormalizeName.
// Cell values are not touched. When two columns map to the same name the
// first one wins and the collision is recorded in Warnings.
func Normalize(t Table) Table {
	out := Table{
		Name:     t.Name,
		Columns:  make([]string, 0, len(t.Columns)),
		Warnings: append([]string(nil), t.Warnings...),
	}
	rename := make(map[string]string, len(t.Columns))
	taken := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		n := NormalizeName(c)
		if prev, dup := taken[n]; dup {
			out.Warnings = append(out.Warnings, fmt.Sprintf("column %q normalizes to %q already used by %q; dropped", c, n, prev))
			continue
		}
		taken[n] = c
		rename[c] = n
		out.Columns = append(out.Columns, n)
	}
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, len(out.Columns))
		for c, v := range r {
			if n, ok := rename[c]; ok {
				nr[n] = v
			}
		}
		out.Rows[i] = nr
	}
	return out
}
