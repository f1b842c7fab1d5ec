package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions controls how delimited text is read.
type CSVOptions struct {
	// Delimiter for CSV. If 0, sniffed from the header line among ',', ';', '\t'.
	Delimiter rune
	// MaxRows limits rows kept; 0 means unlimited.
	MaxRows int
}

// ReadCSV reads delimited text with a header row into a Table. An input with
// no header yields an empty table and a warning rather than an error.
func ReadCSV(r io.Reader, name string, opt CSVOptions) (Table, error) {
	br := bufio.NewReaderSize(r, 64<<10)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	delim := opt.Delimiter
	if delim == 0 {
		line, _ := peekLine(br)
		delim = SniffDelimiter(line)
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{Name: name, Warnings: []string{"source has no header row"}}, nil
		}
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)

	var records [][]string
	truncated := 0
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Table{}, fmt.Errorf("read row %d: %w", len(records)+truncated+1, err)
		}
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			truncated++
			continue
		}
		records = append(records, rec)
	}
	t := FromRecords(name, header, records)
	if truncated > 0 {
		t.Warnings = append(t.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", len(records), len(records)+truncated))
	}
	return t, nil
}

// SniffDelimiter picks the most frequent of ',', ';' and tab in a header
// line. Ties and lines without any candidate fall back to ','.
func SniffDelimiter(line string) rune {
	best, bestN := ',', strings.Count(line, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

func peekLine(br *bufio.Reader) (string, error) {
	for size := 4 << 10; ; size *= 2 {
		b, err := br.Peek(size)
		if i := bytes.IndexByte(b, '\n'); i >= 0 {
			return string(b[:i]), nil
		}
		if err != nil {
			// short input or buffer full: use what we have
			return string(b), err
		}
	}
}
