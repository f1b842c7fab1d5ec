package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/storemetrics/internal/config"
	"github.com/KaramelBytes/storemetrics/internal/report"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set storemetrics configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfig(); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "sources:")
		for _, s := range cfg.Sources {
			fmt.Fprintf(out, "  - %s\n", s)
		}
		fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(out, "revenue_policy: %s\n", cfg.RevenuePolicy)
		fmt.Fprintf(out, "load_concurrency: %d\n", cfg.LoadConcurrency)
		if cfg.Sheet != "" {
			fmt.Fprintf(out, "sheet: %s\n", cfg.Sheet)
		}
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		cs := cfg.ColumnSet()
		fmt.Fprintf(out, "columns.revenue: %s\n", strings.Join(cs.Revenue, ","))
		fmt.Fprintf(out, "columns.category: %s\n", strings.Join(cs.Category, ","))
		fmt.Fprintf(out, "columns.product: %s\n", strings.Join(cs.Product, ","))
		fmt.Fprintf(out, "columns.rating: %s\n", strings.Join(cs.Rating, ","))
		fmt.Fprintf(out, "decimal_separator: %s\n", orAuto(cfg.DecimalSeparator))
		fmt.Fprintf(out, "thousands_separator: %s\n", orAuto(cfg.ThousandsSeparator))
		fmt.Fprintf(out, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(out, "retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		fmt.Fprintf(out, "retry_base_delay_ms: %d\n", cfg.RetryBaseDelayMs)
		fmt.Fprintf(out, "retry_max_delay_ms: %d\n", cfg.RetryMaxDelayMs)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

List values (sources, columns.*) are comma separated.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if err := ensureConfig(); err != nil {
			return err
		}
		switch key {
		case "sources":
			list := splitList(val)
			if len(list) == 0 {
				return fmt.Errorf("sources cannot be empty")
			}
			cfg.Sources = list
		case "output_dir":
			cfg.OutputDir = val
		case "revenue_policy":
			p, err := report.ParseRevenuePolicy(strings.ToLower(val))
			if err != nil {
				return err
			}
			cfg.RevenuePolicy = string(p)
		case "load_concurrency":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid positive int for load_concurrency: %v", val)
			}
			cfg.LoadConcurrency = i
		case "sheet":
			cfg.Sheet = val
		case "log_level":
			cfg.LogLevel = strings.ToLower(val)
		case "columns.revenue":
			cfg.Columns.Revenue = splitList(val)
		case "columns.category":
			cfg.Columns.Category = splitList(val)
		case "columns.product":
			cfg.Columns.Product = splitList(val)
		case "columns.rating":
			cfg.Columns.Rating = splitList(val)
		case "decimal_separator", "thousands_separator":
			if _, err := cfgpkg.ParseSeparator(val); err != nil {
				return err
			}
			if key == "decimal_separator" {
				cfg.DecimalSeparator = val
			} else {
				cfg.ThousandsSeparator = val
			}
			if _, err := cfg.NumberFormat(); err != nil {
				return err
			}
		case "http_timeout_sec", "retry_max_attempts", "retry_base_delay_ms", "retry_max_delay_ms":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			switch key {
			case "http_timeout_sec":
				cfg.HTTPTimeoutSec = i
			case "retry_max_attempts":
				cfg.RetryMaxAttempts = i
			case "retry_base_delay_ms":
				cfg.RetryBaseDelayMs = i
			default:
				cfg.RetryMaxDelayMs = i
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// ensureConfig loads the configuration when the startup hook did not.
func ensureConfig() error {
	if cfg != nil {
		return nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

func orAuto(s string) string {
	if s == "" {
		return "auto"
	}
	return s
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
