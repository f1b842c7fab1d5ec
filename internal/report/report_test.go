package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/storemetrics/internal/metrics"
	"github.com/KaramelBytes/storemetrics/internal/opt"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleSummary() metrics.Summary {
	return metrics.Aggregate([]metrics.Record{
		{
			TotalRevenue: opt.Some(decimal.RequireFromString("1150880400")),
			TopCategory:  opt.Some("Muebles"),
			TopProduct:   opt.Some("Microondas"),
			AvgRating:    opt.Some(3.98),
		},
		{
			TotalRevenue: opt.Some(decimal.RequireFromString("1116343500")),
			TopCategory:  opt.Some("Muebles"),
			TopProduct:   opt.Some("Iphone 15"),
			AvgRating:    opt.Some(4.04),
		},
		{
			TotalRevenue: opt.Some(decimal.RequireFromString("1098019600")),
			TopCategory:  opt.Some("Muebles"),
			TopProduct:   opt.Some("Kit de bancas"),
			AvgRating:    opt.Some(4.05),
		},
		{
			TopCategory: opt.Some("Electrónicos"),
			TopProduct:  opt.Some("Cama box"),
		},
	})
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !bytes.HasPrefix(b, pngMagic) {
		t.Fatalf("%s is not a PNG", path)
	}
}

func TestRenderChartsWritesAllThree(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	results, err := RenderCharts(context.Background(), sampleSummary(), dir, ChartOptions{RevenuePolicy: RevenueExclude})
	if err != nil {
		t.Fatalf("RenderCharts: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for _, name := range []string{RevenueChartFile, CategoryChartFile, RatingChartFile} {
		assertPNG(t, filepath.Join(dir, name))
	}
}

func TestRenderChartsIsolatesFailures(t *testing.T) {
	s := metrics.Aggregate([]metrics.Record{
		{TotalRevenue: opt.Some(decimal.NewFromInt(10)), AvgRating: opt.Some(4.5)},
		{TotalRevenue: opt.Some(decimal.NewFromInt(20))},
	})
	dir := t.TempDir()
	results, err := RenderCharts(context.Background(), s, dir, ChartOptions{})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData for the pie", err)
	}
	for _, r := range results {
		switch r.Name {
		case "category":
			if !errors.Is(r.Err, ErrNoData) {
				t.Fatalf("category err = %v", r.Err)
			}
		default:
			if r.Err != nil {
				t.Fatalf("%s chart failed: %v", r.Name, r.Err)
			}
			assertPNG(t, r.Path)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, CategoryChartFile)); !os.IsNotExist(err) {
		t.Fatalf("category chart should not exist: %v", err)
	}
}

func TestRevenueBarChartPolicy(t *testing.T) {
	s := metrics.Aggregate([]metrics.Record{{}, {}})
	dir := t.TempDir()
	if err := RevenueBarChart(context.Background(), s, filepath.Join(dir, "a.png"), RevenueExclude); !errors.Is(err, ErrNoData) {
		t.Fatalf("exclude with no revenue: err = %v, want ErrNoData", err)
	}
	p := filepath.Join(dir, "b.png")
	if err := RevenueBarChart(context.Background(), s, p, RevenueZero); err != nil {
		t.Fatalf("zero policy: %v", err)
	}
	assertPNG(t, p)
}

func TestParseRevenuePolicy(t *testing.T) {
	for in, want := range map[string]RevenuePolicy{"": RevenueExclude, "exclude": RevenueExclude, "zero": RevenueZero} {
		got, err := ParseRevenuePolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseRevenuePolicy(%q) = %q,%v", in, got, err)
		}
	}
	if _, err := ParseRevenuePolicy("coerce"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := map[string]string{
		"1150880400": "$1,150,880,400",
		"999.5":      "$1,000",
		"0":          "$0",
		"12345.49":   "$12,345",
	}
	for in, want := range cases {
		if got := FormatCurrency(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatCurrency(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteCSVLeavesAbsentEmpty(t *testing.T) {
	s := metrics.Aggregate([]metrics.Record{
		{
			TotalRevenue: opt.Some(decimal.NewFromInt(1500)),
			TopCategory:  opt.Some("Muebles"),
			TopProduct:   opt.Some("Silla"),
			AvgRating:    opt.Some(4.5),
		},
		{},
	})
	p := filepath.Join(t.TempDir(), "summary.csv")
	if err := WriteCSV(s, p); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "store,total_revenue,top_category,top_product,avg_rating\n" +
		"Store 1,1500.00,Muebles,Silla,4.5\n" +
		"Store 2,,,,\n"
	if string(b) != want {
		t.Fatalf("csv = %q, want %q", b, want)
	}
}

func TestWriteXLSX(t *testing.T) {
	p := filepath.Join(t.TempDir(), "summary.xlsx")
	if err := WriteXLSX(sampleSummary(), p); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenFile(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if rows[0][0] != "store" || rows[1][0] != "Store 1" || rows[1][2] != "Muebles" {
		t.Fatalf("unexpected rows: %#v", rows[:2])
	}
	if got := rows[4][1]; got != "" {
		t.Fatalf("absent revenue cell = %q, want empty", got)
	}
}

func TestWriteMarkdown(t *testing.T) {
	p := filepath.Join(t.TempDir(), "summary.md")
	if err := WriteMarkdown(sampleSummary(), p); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	b, _ := os.ReadFile(p)
	if !bytes.Contains(b, []byte("| Store 4 | n/a | Electrónicos | Cama box | n/a |")) {
		t.Fatalf("markdown = %s", b)
	}
}
