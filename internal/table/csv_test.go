package table

import (
	"reflect"
	"strings"
	"testing"
)

func TestReadCSVSniffsDelimiterAndStripsBOM(t *testing.T) {
	in := "\xEF\xBB\xBFProducto;Precio;Calificación\nLámpara;10,5;4\nMesa;20;5\n"
	tb, err := ReadCSV(strings.NewReader(in), "tienda", CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !reflect.DeepEqual(tb.Columns, []string{"Producto", "Precio", "Calificación"}) {
		t.Fatalf("columns = %#v", tb.Columns)
	}
	if tb.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tb.Len())
	}
	if tb.Rows[0]["Precio"] != "10,5" {
		t.Fatalf("precio = %q", tb.Rows[0]["Precio"])
	}
}

func TestReadCSVRaggedRowsAndHeaderOnly(t *testing.T) {
	tb, err := ReadCSV(strings.NewReader("a,b,c\n1\n2,3,4,5\n"), "r", CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tb.Rows[0]["b"] != "" || tb.Rows[1]["c"] != "4" {
		t.Fatalf("rows = %#v", tb.Rows)
	}

	hdr, err := ReadCSV(strings.NewReader("price,rating\n"), "h", CSVOptions{})
	if err != nil {
		t.Fatalf("header only: %v", err)
	}
	if hdr.Len() != 0 || !hdr.Has("price") {
		t.Fatalf("header-only table = %#v", hdr)
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	tb, err := ReadCSV(strings.NewReader(""), "empty", CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(tb.Columns) != 0 || len(tb.Warnings) != 1 {
		t.Fatalf("empty table = %#v", tb)
	}
}

func TestReadCSVMaxRows(t *testing.T) {
	tb, err := ReadCSV(strings.NewReader("x\n1\n2\n3\n"), "m", CSVOptions{MaxRows: 2})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tb.Len() != 2 {
		t.Fatalf("rows = %d", tb.Len())
	}
	if len(tb.Warnings) != 1 || tb.Warnings[0] != "processed only 2/3 rows due to MaxRows" {
		t.Fatalf("warnings = %#v", tb.Warnings)
	}
}

func TestSniffDelimiter(t *testing.T) {
	cases := map[string]rune{
		"a,b,c":   ',',
		"a;b;c":   ';',
		"a\tb\tc": '\t',
		"single":  ',',
		"a;b,c;d": ';',
	}
	for in, want := range cases {
		if got := SniffDelimiter(in); got != want {
			t.Errorf("SniffDelimiter(%q) = %q, want %q", in, got, want)
		}
	}
}
