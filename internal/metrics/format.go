package metrics

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Absent is how a missing metric is printed.
const Absent = "n/a"

// Fields are the column names used by every rendering of a summary.
var Fields = []string{"store", "total_revenue", "top_category", "top_product", "avg_rating"}

// Cells returns the printable values of a record, absent fields as Absent.
func (r Record) Cells() []string {
	rev := Absent
	if d, ok := r.TotalRevenue.Get(); ok {
		rev = d.StringFixed(2)
	}
	rating := Absent
	if v, ok := r.AvgRating.Get(); ok {
		rating = fmt.Sprintf("%.2f", v)
	}
	return []string{rev, r.TopCategory.OrElse(Absent), r.TopProduct.OrElse(Absent), rating}
}

// Text renders the summary as an aligned plain-text table.
func (s Summary) Text() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(Fields, "\t"))
	for _, r := range s.Rows {
		fmt.Fprintln(w, r.Label+"\t"+strings.Join(r.Record.Cells(), "\t"))
	}
	_ = w.Flush()
	return b.String()
}

// Markdown renders the summary for standalone docs.
func (s Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[STORE SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Stores: %d\n\n", len(s.Rows)))
	b.WriteString("| " + strings.Join(Fields, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(Fields)) + "\n")
	for _, r := range s.Rows {
		cells := append([]string{r.Label}, r.Record.Cells()...)
		for i, c := range cells {
			cells[i] = safeVal(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
