package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/storemetrics/internal/logger"
	"github.com/KaramelBytes/storemetrics/internal/table"
	"golang.org/x/sync/errgroup"
)

// Options controls how sources are read.
type Options struct {
	// Concurrency caps parallel loads; 0 or less loads one at a time.
	Concurrency int
	CSV         table.CSVOptions
	// Sheet selects the workbook sheet for .xlsx sources; empty means the first.
	Sheet string
}

// Loader turns source locations (URLs or local paths) into tables.
type Loader struct {
	fetcher *Fetcher
	opt     Options
}

// NewLoader returns a Loader that fetches remote sources with f.
func NewLoader(f *Fetcher, opt Options) *Loader {
	if f == nil {
		f = NewFetcher(0, 0, 0, 0)
	}
	return &Loader{fetcher: f, opt: opt}
}

// Load reads every source and returns the tables in the same order. The
// first failure cancels the remaining loads and is returned.
func (l *Loader) Load(ctx context.Context, sources []string) ([]table.Table, error) {
	if len(sources) == 0 {
		return nil, errors.New("no sources configured")
	}
	limit := l.opt.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	out := make([]table.Table, len(sources))
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			t, err := l.LoadOne(gctx, src)
			if err != nil {
				return fmt.Errorf("load source %d (%s): %w", i+1, src, err)
			}
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadOne reads a single source.
func (l *Loader) LoadOne(ctx context.Context, src string) (table.Table, error) {
	log := logger.FromContext(ctx)
	start := time.Now()
	name, ext := describe(src)

	var data []byte
	var err error
	if IsRemote(src) {
		data, err = l.fetcher.Fetch(ctx, src)
	} else {
		data, err = os.ReadFile(src)
		if err != nil {
			err = fmt.Errorf("read file: %w", err)
		}
	}
	if err != nil {
		return table.Table{}, err
	}

	var t table.Table
	switch ext {
	case ".xlsx":
		t, err = table.ReadXLSX(bytes.NewReader(data), name, l.opt.Sheet)
	default:
		opt := l.opt.CSV
		if ext == ".tsv" && opt.Delimiter == 0 {
			opt.Delimiter = '\t'
		}
		t, err = table.ReadCSV(bytes.NewReader(data), name, opt)
	}
	if err != nil {
		return table.Table{}, fmt.Errorf("parse %s: %w", name, err)
	}
	for _, w := range t.Warnings {
		log.Warn().Str("source", name).Msg(w)
	}
	log.Info().
		Str("source", name).
		Int("rows", t.Len()).
		Int("columns", len(t.Columns)).
		Dur("took", time.Since(start)).
		Msg("loaded source")
	return t, nil
}

// IsRemote reports whether src is fetched over HTTP(S).
func IsRemote(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// describe returns a display name and the lowercase extension of src. URL
// paths are unescaped, so "tienda_1%20.csv" becomes "tienda_1 .csv".
func describe(src string) (name, ext string) {
	p := src
	if IsRemote(src) {
		if u, err := url.Parse(src); err == nil {
			p = u.Path
		}
		name = path.Base(p)
	} else {
		name = filepath.Base(p)
	}
	return name, strings.ToLower(path.Ext(name))
}
