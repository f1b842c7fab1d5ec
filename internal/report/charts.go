package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/KaramelBytes/storemetrics/internal/logger"
	"github.com/KaramelBytes/storemetrics/internal/metrics"
	"github.com/KaramelBytes/storemetrics/internal/utils"
	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Fixed chart file names inside the output directory.
const (
	RevenueChartFile  = "revenue_by_store.png"
	CategoryChartFile = "top_category_distribution.png"
	RatingChartFile   = "average_rating_scatter.png"
)

// ErrNoData means a chart had nothing to plot.
var ErrNoData = errors.New("no data to plot")

// RevenuePolicy decides how stores without revenue appear on the bar chart.
type RevenuePolicy string

const (
	// RevenueExclude leaves stores without revenue off the chart.
	RevenueExclude RevenuePolicy = "exclude"
	// RevenueZero draws them as a zero-height bar labeled n/a.
	RevenueZero RevenuePolicy = "zero"
)

// ParseRevenuePolicy validates a policy name; empty means exclude.
func ParseRevenuePolicy(s string) (RevenuePolicy, error) {
	switch RevenuePolicy(s) {
	case "", RevenueExclude:
		return RevenueExclude, nil
	case RevenueZero:
		return RevenueZero, nil
	default:
		return "", fmt.Errorf("invalid revenue policy %q (use exclude or zero)", s)
	}
}

// ChartOptions tunes chart rendering.
type ChartOptions struct {
	RevenuePolicy RevenuePolicy
}

// ChartResult is the outcome of rendering one chart.
type ChartResult struct {
	Name string
	Path string
	Err  error
}

var (
	barColor = color.RGBA{R: 60, G: 179, B: 113, A: 255}
	palette  = []color.RGBA{
		{R: 0x4F, G: 0x46, B: 0xE5, A: 0xFF},
		{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF},
		{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF},
		{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF},
		{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF},
		{R: 0x06, G: 0xB6, B: 0xD4, A: 0xFF},
	}
)

// RenderCharts writes the three charts into dir. Each chart is attempted
// regardless of the others; failures are returned joined.
func RenderCharts(ctx context.Context, s metrics.Summary, dir string, opt ChartOptions) ([]ChartResult, error) {
	log := logger.FromContext(ctx)
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	jobs := []struct {
		name   string
		file   string
		render func(metrics.Summary, string) error
	}{
		{"revenue", RevenueChartFile, func(s metrics.Summary, p string) error {
			return RevenueBarChart(ctx, s, p, opt.RevenuePolicy)
		}},
		{"category", CategoryChartFile, CategoryPieChart},
		{"rating", RatingChartFile, RatingScatterChart},
	}
	results := make([]ChartResult, 0, len(jobs))
	var errs []error
	for _, j := range jobs {
		p := filepath.Join(dir, j.file)
		err := j.render(s, p)
		results = append(results, ChartResult{Name: j.name, Path: p, Err: err})
		if err != nil {
			log.Error().Err(err).Str("chart", j.name).Msg("chart not written")
			errs = append(errs, fmt.Errorf("%s chart: %w", j.name, err))
			continue
		}
		log.Debug().Str("chart", j.name).Str("path", p).Msg("chart written")
	}
	return results, errors.Join(errs...)
}

// RevenueBarChart draws one bar per store annotated with its revenue.
func RevenueBarChart(ctx context.Context, s metrics.Summary, path string, policy RevenuePolicy) error {
	log := logger.FromContext(ctx)
	var (
		values  plotter.Values
		names   []string
		annots  []string
		highest float64
	)
	for _, r := range s.Rows {
		d, ok := r.Record.TotalRevenue.Get()
		if !ok {
			if policy == RevenueZero {
				values = append(values, 0)
				names = append(names, r.Label)
				annots = append(annots, metrics.Absent)
				continue
			}
			log.Warn().Str("store", r.Label).Msg("revenue absent; store left off the bar chart")
			continue
		}
		v := d.InexactFloat64()
		values = append(values, v)
		names = append(names, r.Label)
		annots = append(annots, FormatCurrency(d))
		if v > highest {
			highest = v
		}
	}
	if len(values) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Revenue by store"
	p.Y.Label.Text = "Revenue (USD)"
	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(grid)

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)

	if highest <= 0 {
		highest = 1
	}
	offset := highest * 0.01
	xys := make([]plotter.XY, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i), Y: v + offset}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: annots})
	if err != nil {
		return fmt.Errorf("bar labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YBottom
	}
	p.Add(labels)
	p.Y.Min = 0
	p.Y.Max = highest * 1.12

	return savePlot(p, 8*vg.Inch, 5*vg.Inch, path)
}

// CategoryPieChart shows how many stores share each top category.
func CategoryPieChart(s metrics.Summary, path string) error {
	counts := s.CategoryCounts()
	if len(counts) == 0 {
		return ErrNoData
	}
	total := 0
	for _, c := range counts {
		total += c.Stores
	}
	values := make([]chart.Value, len(counts))
	for i, c := range counts {
		pct := float64(c.Stores) * 100 / float64(total)
		values[i] = chart.Value{
			Value: float64(c.Stores),
			Label: fmt.Sprintf("%s %.1f%% (%d)", c.Category, pct, c.Stores),
		}
	}
	pie := chart.PieChart{
		Title:  "Top category by store",
		Width:  600,
		Height: 600,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render pie: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// RatingScatterChart places each store on a single axis at its average rating.
func RatingScatterChart(s metrics.Summary, path string) error {
	p := plot.New()
	p.Title.Text = "Average rating by store"
	p.X.Label.Text = "Average rating"
	p.HideY()
	p.Add(plotter.NewGrid())

	var xys []plotter.XY
	var names []string
	lo, hi := 0.0, 0.0
	for i, r := range s.Rows {
		v, ok := r.Record.AvgRating.Get()
		if !ok {
			continue
		}
		sc, err := plotter.NewScatter(plotter.XYs{{X: v, Y: 1}})
		if err != nil {
			return fmt.Errorf("scatter %s: %w", r.Label, err)
		}
		sc.GlyphStyle.Color = palette[i%len(palette)]
		sc.GlyphStyle.Radius = vg.Points(6)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(r.Label, sc)

		if len(xys) == 0 || v < lo {
			lo = v
		}
		if len(xys) == 0 || v > hi {
			hi = v
		}
		xys = append(xys, plotter.XY{X: v, Y: 1.05})
		names = append(names, r.Label)
	}
	if len(xys) == 0 {
		return ErrNoData
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: names})
	if err != nil {
		return fmt.Errorf("scatter labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(labels)
	p.X.Min = lo - 0.25
	p.X.Max = hi + 0.25
	p.Y.Min = 0
	p.Y.Max = 2
	p.Legend.Top = true

	return savePlot(p, 8*vg.Inch, 5*vg.Inch, path)
}

func savePlot(p *plot.Plot, w, h vg.Length, path string) error {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
