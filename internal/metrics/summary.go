package metrics

import "fmt"

// Row is one labeled line of the summary.
type Row struct {
	Label  string
	Record Record
}

// Summary is the per-store metric table, in load order.
type Summary struct {
	Rows []Row
}

// CategoryCount is how many stores share a top category.
type CategoryCount struct {
	Category string
	Stores   int
}

// Aggregate labels records "Store 1".."Store N" in the order given.
func Aggregate(records []Record) Summary {
	s := Summary{Rows: make([]Row, len(records))}
	for i, r := range records {
		s.Rows[i] = Row{Label: fmt.Sprintf("Store %d", i+1), Record: r}
	}
	return s
}

// Labels returns the store labels in row order.
func (s Summary) Labels() []string {
	out := make([]string, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Label
	}
	return out
}

// CategoryCounts tallies present top categories across stores, in
// first-seen order. Stores without a top category are skipped.
func (s Summary) CategoryCounts() []CategoryCount {
	idx := make(map[string]int)
	var out []CategoryCount
	for _, r := range s.Rows {
		c, ok := r.Record.TopCategory.Get()
		if !ok {
			continue
		}
		if i, seen := idx[c]; seen {
			out[i].Stores++
			continue
		}
		idx[c] = len(out)
		out = append(out, CategoryCount{Category: c, Stores: 1})
	}
	return out
}
