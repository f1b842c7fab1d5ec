package report

import (
	"fmt"

	"github.com/KaramelBytes/storemetrics/internal/metrics"
	"github.com/KaramelBytes/storemetrics/internal/utils"
	"github.com/jszwec/csvutil"
	"github.com/xuri/excelize/v2"
)

// summaryLine is the export shape of one summary row. Nil and empty fields
// are written as empty cells.
type summaryLine struct {
	Store        string   `csv:"store"`
	TotalRevenue string   `csv:"total_revenue"`
	TopCategory  string   `csv:"top_category"`
	TopProduct   string   `csv:"top_product"`
	AvgRating    *float64 `csv:"avg_rating"`
}

func lines(s metrics.Summary) []summaryLine {
	out := make([]summaryLine, len(s.Rows))
	for i, r := range s.Rows {
		l := summaryLine{
			Store:       r.Label,
			TopCategory: r.Record.TopCategory.OrElse(""),
			TopProduct:  r.Record.TopProduct.OrElse(""),
		}
		if d, ok := r.Record.TotalRevenue.Get(); ok {
			l.TotalRevenue = d.StringFixed(2)
		}
		if v, ok := r.Record.AvgRating.Get(); ok {
			l.AvgRating = &v
		}
		out[i] = l
	}
	return out
}

// WriteCSV exports the summary as CSV.
func WriteCSV(s metrics.Summary, path string) error {
	b, err := csvutil.Marshal(lines(s))
	if err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return utils.SafeWriteFile(path, b)
}

// WriteMarkdown exports the summary as a Markdown document.
func WriteMarkdown(s metrics.Summary, path string) error {
	return utils.SafeWriteFile(path, []byte(s.Markdown()))
}

// WriteXLSX exports the summary to a workbook with a single "Summary" sheet.
// Revenue and rating are stored as numbers.
func WriteXLSX(s metrics.Summary, path string) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]interface{}, len(metrics.Fields))
	for i, h := range metrics.Fields {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range s.Rows {
		row := []interface{}{r.Label, nil, nil, nil, nil}
		if d, ok := r.Record.TotalRevenue.Get(); ok {
			row[1] = d.InexactFloat64()
		}
		if v, ok := r.Record.TopCategory.Get(); ok {
			row[2] = v
		}
		if v, ok := r.Record.TopProduct.Get(); ok {
			row[3] = v
		}
		if v, ok := r.Record.AvgRating.Get(); ok {
			row[4] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "E", 18); err != nil {
		return fmt.Errorf("set widths: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
