package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/storemetrics/internal/metrics"
	"github.com/KaramelBytes/storemetrics/internal/report"
	"github.com/KaramelBytes/storemetrics/internal/table"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultSources are the four published store datasets.
var DefaultSources = []string{
	"https://raw.githubusercontent.com/alura-es-cursos/challenge1-data-science-latam/refs/heads/main/base-de-datos-challenge1-latam/tienda_1%20.csv",
	"https://raw.githubusercontent.com/alura-es-cursos/challenge1-data-science-latam/refs/heads/main/base-de-datos-challenge1-latam/tienda_2.csv",
	"https://raw.githubusercontent.com/alura-es-cursos/challenge1-data-science-latam/refs/heads/main/base-de-datos-challenge1-latam/tienda_3.csv",
	"https://raw.githubusercontent.com/alura-es-cursos/challenge1-data-science-latam/refs/heads/main/base-de-datos-challenge1-latam/tienda_4.csv",
}

// Columns lists accepted normalized column names per metric.
type Columns struct {
	Revenue  []string `mapstructure:"revenue" yaml:"revenue"`
	Category []string `mapstructure:"category" yaml:"category"`
	Product  []string `mapstructure:"product" yaml:"product"`
	Rating   []string `mapstructure:"rating" yaml:"rating"`
}

// Global configuration structure.
type Global struct {
	Sources         []string `mapstructure:"sources" yaml:"sources"`
	OutputDir       string   `mapstructure:"output_dir" yaml:"output_dir"`
	RevenuePolicy   string   `mapstructure:"revenue_policy" yaml:"revenue_policy"`
	LoadConcurrency int      `mapstructure:"load_concurrency" yaml:"load_concurrency"`
	Sheet           string   `mapstructure:"sheet" yaml:"sheet,omitempty"`
	LogLevel        string   `mapstructure:"log_level" yaml:"log_level"`
	Columns         Columns  `mapstructure:"columns" yaml:"columns"`

	// Number separators for numeric cells; empty means auto-detect per value.
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator,omitempty"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator,omitempty"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`
}

// DefaultPath returns ~/.storemetrics/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".storemetrics", "config.yaml"), nil
}

// Save writes the given configuration to cfgFile, or to the default path when
// cfgFile is empty, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is read first when present.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("STOREMETRICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := metrics.DefaultColumns()
	v.SetDefault("sources", DefaultSources)
	v.SetDefault("output_dir", ".")
	v.SetDefault("revenue_policy", string(report.RevenueExclude))
	v.SetDefault("load_concurrency", 4)
	v.SetDefault("sheet", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("columns.revenue", def.Revenue)
	v.SetDefault("columns.category", def.Category)
	v.SetDefault("columns.product", def.Product)
	v.SetDefault("columns.rating", def.Rating)
	v.SetDefault("decimal_separator", "")
	v.SetDefault("thousands_separator", "")
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate rejects settings the report cannot run with.
func (c *Global) Validate() error {
	if len(c.Sources) == 0 {
		return errors.New("no sources configured")
	}
	if c.LoadConcurrency <= 0 {
		return fmt.Errorf("load_concurrency must be positive, got %d", c.LoadConcurrency)
	}
	if _, err := report.ParseRevenuePolicy(c.RevenuePolicy); err != nil {
		return err
	}
	if _, err := c.NumberFormat(); err != nil {
		return err
	}
	return nil
}

// ParseSeparator maps a separator setting to a rune. "", "auto" mean
// auto-detect (0).
func ParseSeparator(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	case " ", "space":
		return ' ', nil
	default:
		return 0, fmt.Errorf("unsupported separator %q (use comma, dot, space or auto)", s)
	}
}

// NumberFormat returns the configured separators.
func (c *Global) NumberFormat() (table.NumberFormat, error) {
	dec, err := ParseSeparator(c.DecimalSeparator)
	if err != nil {
		return table.NumberFormat{}, fmt.Errorf("decimal_separator: %w", err)
	}
	thou, err := ParseSeparator(c.ThousandsSeparator)
	if err != nil {
		return table.NumberFormat{}, fmt.Errorf("thousands_separator: %w", err)
	}
	if dec != 0 && dec == thou {
		return table.NumberFormat{}, fmt.Errorf("decimal and thousands separators are both %q", string(dec))
	}
	return table.NumberFormat{DecimalSeparator: dec, ThousandsSeparator: thou}, nil
}

// ColumnSet converts the configured names for metric extraction. Names are
// normalized like table headers, so "Total Price" matches total_price. Empty
// lists fall back to the defaults. An invalid separator leaves numbers on
// auto-detect; Validate reports it.
func (c *Global) ColumnSet() metrics.ColumnSet {
	cs := metrics.DefaultColumns()
	if names := normalizeNames(c.Columns.Revenue); len(names) > 0 {
		cs.Revenue = names
	}
	if names := normalizeNames(c.Columns.Category); len(names) > 0 {
		cs.Category = names
	}
	if names := normalizeNames(c.Columns.Product); len(names) > 0 {
		cs.Product = names
	}
	if names := normalizeNames(c.Columns.Rating); len(names) > 0 {
		cs.Rating = names
	}
	if nf, err := c.NumberFormat(); err == nil {
		cs.Numbers = nf
	}
	return cs
}

func normalizeNames(in []string) []string {
	var out []string
	for _, n := range in {
		if n = table.NormalizeName(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
