package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	cfgpkg "github.com/KaramelBytes/storemetrics/internal/config"
	"github.com/KaramelBytes/storemetrics/internal/logger"
	"github.com/KaramelBytes/storemetrics/internal/metrics"
	"github.com/KaramelBytes/storemetrics/internal/report"
	"github.com/KaramelBytes/storemetrics/internal/source"
	"github.com/KaramelBytes/storemetrics/internal/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	repSources  []string
	repOutDir   string
	repPolicy   string
	repCSV      string
	repXLSX     string
	repMarkdown string
	repDecimal  string
	repThousand string
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Load the store datasets, print the summary and write charts",
	Example: `  storemetrics report
  storemetrics report --source ./tienda_1.csv --source ./tienda_2.xlsx --out-dir ./charts
  storemetrics report --revenue-policy zero --csv summary.csv --xlsx summary.xlsx`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	addReportFlags(reportCmd)
}

func addReportFlags(c *cobra.Command) {
	c.Flags().StringArrayVar(&repSources, "source", nil, "dataset URL or path, repeatable (replaces configured sources)")
	c.Flags().StringVar(&repOutDir, "out-dir", "", "directory for chart images (overrides config)")
	c.Flags().StringVar(&repPolicy, "revenue-policy", "", "stores without revenue on the bar chart: exclude|zero")
	c.Flags().StringVar(&repCSV, "csv", "", "also export the summary as CSV to this path")
	c.Flags().StringVar(&repXLSX, "xlsx", "", "also export the summary as XLSX to this path")
	c.Flags().StringVar(&repMarkdown, "markdown", "", "also export the summary as Markdown to this path")
	c.Flags().StringVar(&repDecimal, "decimal", "", "decimal separator for numeric cells: comma|dot|auto (overrides config)")
	c.Flags().StringVar(&repThousand, "thousands", "", "thousands separator for numeric cells: comma|dot|space|auto (overrides config)")
}

// effectiveConfig copies the loaded config and applies report flags.
func effectiveConfig(cmd *cobra.Command) (cfgpkg.Global, error) {
	if err := ensureConfig(); err != nil {
		return cfgpkg.Global{}, err
	}
	run := *cfg
	f := cmd.Flags()
	if f.Changed("source") {
		run.Sources = append([]string(nil), repSources...)
	}
	if f.Changed("out-dir") && repOutDir != "" {
		run.OutputDir = repOutDir
	}
	if f.Changed("revenue-policy") {
		run.RevenuePolicy = repPolicy
	}
	if f.Changed("decimal") {
		run.DecimalSeparator = repDecimal
	}
	if f.Changed("thousands") {
		run.ThousandsSeparator = repThousand
	}
	if debug {
		run.LogLevel = "debug"
	}
	if run.OutputDir == "" {
		run.OutputDir = "."
	}
	if err := run.Validate(); err != nil {
		return cfgpkg.Global{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return run, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	run, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	policy, err := report.ParseRevenuePolicy(run.RevenuePolicy)
	if err != nil {
		return err
	}

	log := logger.NewConsole(cmd.ErrOrStderr(), logger.ParseLevel(run.LogLevel)).
		With().Str("run_id", uuid.NewString()).Logger()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	start := time.Now()
	summary, err := buildSummary(ctx, run)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headingStyle.Render(fmt.Sprintf("Store summary (%d stores)", len(summary.Rows))))
	fmt.Fprint(out, summary.Text())
	fmt.Fprintln(out)

	results, chartErr := report.RenderCharts(ctx, summary, run.OutputDir, report.ChartOptions{RevenuePolicy: policy})
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "%s %s: %v\n", failStyle.Render("✗"), r.Name, r.Err)
			continue
		}
		fmt.Fprintf(out, "%s %s\n", okStyle.Render("✓"), r.Path)
	}
	if err := writeExports(summary); err != nil {
		return err
	}
	fmt.Fprintf(out, "Charts written to %s\n", run.OutputDir)

	log.Info().Int("stores", len(summary.Rows)).Dur("took", time.Since(start)).Msg("report finished")
	if chartErr != nil {
		return fmt.Errorf("charts: %w", chartErr)
	}
	return nil
}

// buildSummary loads every source and reduces it to the per-store summary.
func buildSummary(ctx context.Context, run cfgpkg.Global) (metrics.Summary, error) {
	log := logger.FromContext(ctx)
	fetcher := source.NewFetcher(
		time.Duration(run.HTTPTimeoutSec)*time.Second,
		run.RetryMaxAttempts,
		time.Duration(run.RetryBaseDelayMs)*time.Millisecond,
		time.Duration(run.RetryMaxDelayMs)*time.Millisecond,
	)
	loader := source.NewLoader(fetcher, source.Options{Concurrency: run.LoadConcurrency, Sheet: run.Sheet})
	tables, err := loader.Load(ctx, run.Sources)
	if err != nil {
		var fe *source.FetchError
		if errors.As(err, &fe) && fe.NotFound() {
			log.Error().Str("url", fe.URL).Msg("source not found; check the configured sources")
		}
		return metrics.Summary{}, err
	}
	for i, t := range tables {
		n := table.Normalize(t)
		for _, w := range n.Warnings[len(t.Warnings):] {
			log.Warn().Str("source", t.Name).Msg(w)
		}
		tables[i] = n
	}
	summary := metrics.Aggregate(metrics.ExtractAll(tables, run.ColumnSet()))
	for _, r := range summary.Rows {
		log.Debug().
			Str("store", r.Label).
			Bool("revenue", r.Record.TotalRevenue.Present()).
			Bool("category", r.Record.TopCategory.Present()).
			Bool("product", r.Record.TopProduct.Present()).
			Bool("rating", r.Record.AvgRating.Present()).
			Msg("metrics extracted")
	}
	return summary, nil
}

func writeExports(s metrics.Summary) error {
	if repCSV != "" {
		if err := report.WriteCSV(s, repCSV); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
	}
	if repXLSX != "" {
		if err := report.WriteXLSX(s, repXLSX); err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
	}
	if repMarkdown != "" {
		if err := report.WriteMarkdown(s, repMarkdown); err != nil {
			return fmt.Errorf("export markdown: %w", err)
		}
	}
	return nil
}
