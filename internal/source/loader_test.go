package source

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadPreservesOrderUnderParallelism(t *testing.T) {
	dir := t.TempDir()
	var srcs []string
	for _, price := range []string{"1", "2", "3", "4", "5", "6"} {
		srcs = append(srcs, writeFile(t, dir, "store"+price+".csv", "Precio\n"+price+"\n"))
	}
	l := NewLoader(nil, Options{Concurrency: 4})
	tables, err := l.Load(context.Background(), srcs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i, tb := range tables {
		want := filepath.Base(srcs[i])
		if tb.Name != want {
			t.Fatalf("table %d = %s, want %s", i, tb.Name, want)
		}
		if got := tb.Rows[0]["Precio"]; got != strings.TrimSuffix(strings.TrimPrefix(want, "store"), ".csv") {
			t.Fatalf("table %d precio = %q", i, got)
		}
	}
}

func TestLoadFailsWholeRun(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "a.csv", "price\n1\n")
	_, err := NewLoader(nil, Options{}).Load(context.Background(), []string{ok, filepath.Join(dir, "nope.csv")})
	if err == nil || !strings.Contains(err.Error(), "load source 2") {
		t.Fatalf("err = %v, want failure for source 2", err)
	}
	if _, err := NewLoader(nil, Options{}).Load(context.Background(), nil); err == nil {
		t.Fatalf("expected error for no sources")
	}
}

func TestLoadRemoteCSVAndTSV(t *testing.T) {
	s := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tienda_1 .csv":
			_, _ = w.Write([]byte("Producto,Precio\nSilla,10\n"))
		case "/tienda_2.tsv":
			_, _ = w.Write([]byte("Producto\tPrecio\nMesa\t1,5\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	l := NewLoader(fastFetcher(1), Options{Concurrency: 2})
	tables, err := l.Load(context.Background(), []string{s.URL + "/tienda_1%20.csv", s.URL + "/tienda_2.tsv"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tables[0].Name != "tienda_1 .csv" || tables[0].Rows[0]["Precio"] != "10" {
		t.Fatalf("table 1 = %#v", tables[0])
	}
	if tables[1].Rows[0]["Precio"] != "1,5" {
		t.Fatalf("table 2 = %#v", tables[1])
	}
}

func TestLoadLocalXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_ = f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Rating"})
	_ = f.SetSheetRow("Sheet1", "A2", &[]interface{}{5})
	p := filepath.Join(t.TempDir(), "store.xlsx")
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	tb, err := NewLoader(nil, Options{}).LoadOne(context.Background(), p)
	if err != nil {
		t.Fatalf("LoadOne: %v", err)
	}
	if tb.Rows[0]["Rating"] != "5" {
		t.Fatalf("rating = %q", tb.Rows[0]["Rating"])
	}
}

func TestDescribe(t *testing.T) {
	name, ext := describe("https://example.com/base/tienda_1%20.CSV?raw=1")
	if name != "tienda_1 .CSV" || ext != ".csv" {
		t.Fatalf("describe = %q %q", name, ext)
	}
	name, ext = describe(filepath.Join("data", "store.xlsx"))
	if name != "store.xlsx" || ext != ".xlsx" {
		t.Fatalf("describe = %q %q", name, ext)
	}
}
