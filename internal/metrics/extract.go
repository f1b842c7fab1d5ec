package metrics

import (
	"math"
	"sort"
	"strconv"

	"github.com/KaramelBytes/storemetrics/internal/opt"
	"github.com/KaramelBytes/storemetrics/internal/table"
	"github.com/shopspring/decimal"
)

// Record holds the four summary statistics of one store.
type Record struct {
	TotalRevenue opt.Value[decimal.Decimal]
	TopCategory  opt.Value[string]
	TopProduct   opt.Value[string]
	AvgRating    opt.Value[float64]
}

// ColumnSet lists, per metric, the accepted normalized column names in
// priority order.
type ColumnSet struct {
	Revenue  []string
	Category []string
	Product  []string
	Rating   []string
	Numbers  table.NumberFormat
}

// DefaultColumns accepts the English names and the Spanish headers used by
// the published store datasets.
func DefaultColumns() ColumnSet {
	return ColumnSet{
		Revenue:  []string{"price", "precio"},
		Category: []string{"product_category", "categoría_del_producto", "categoria_del_producto"},
		Product:  []string{"product_name", "product", "producto"},
		Rating:   []string{"rating", "calificación", "calificacion"},
	}
}

// Extract computes the metrics of a normalized table. A missing column, or
// one without usable values, yields an absent field and never an error.
func Extract(t table.Table, cols ColumnSet) Record {
	var rec Record
	if vals, ok := lookup(t, cols.Revenue); ok {
		rec.TotalRevenue = opt.Some(sumDecimal(vals, cols.Numbers))
	}
	if vals, ok := lookup(t, cols.Category); ok {
		rec.TopCategory = Mode(vals)
	}
	if vals, ok := lookup(t, cols.Product); ok {
		rec.TopProduct = Mode(vals)
	}
	if vals, ok := lookup(t, cols.Rating); ok {
		if mean, ok := Mean(vals, cols.Numbers); ok {
			rec.AvgRating = opt.Some(RoundTo2(mean))
		}
	}
	return rec
}

// ExtractAll applies Extract to every table, keeping input order.
func ExtractAll(tables []table.Table, cols ColumnSet) []Record {
	out := make([]Record, len(tables))
	for i, t := range tables {
		out[i] = Extract(t, cols)
	}
	return out
}

func lookup(t table.Table, names []string) ([]string, bool) {
	name, ok := t.Lookup(names...)
	if !ok {
		return nil, false
	}
	return t.Column(name)
}

func sumDecimal(vals []string, nf table.NumberFormat) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range vals {
		if d, ok := table.ParseDecimal(v, nf); ok {
			sum = sum.Add(d)
		}
	}
	return sum
}

// Mode returns the most frequent non-empty value. Ties go to the smallest
// value in byte order.
func Mode(vals []string) opt.Value[string] {
	counts := make(map[string]int)
	for _, v := range vals {
		if v == "" {
			continue
		}
		counts[v]++
	}
	if len(counts) == 0 {
		return opt.None[string]()
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] == counts[keys[j]] {
			return keys[i] < keys[j]
		}
		return counts[keys[i]] > counts[keys[j]]
	})
	return opt.Some(keys[0])
}

// Mean averages the numeric cells of vals; ok is false when none parse.
func Mean(vals []string, nf table.NumberFormat) (float64, bool) {
	var sum float64
	var n int
	for _, v := range vals {
		if x, ok := table.ParseFloat(v, nf); ok {
			sum += x
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// RoundTo2 rounds to two decimals using the exact binary value of v, so
// exact ties go to even (4.125 -> 4.12) and 2.675 -> 2.67.
func RoundTo2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
