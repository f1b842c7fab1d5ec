package table

import "testing"

func TestParseFloat(t *testing.T) {
	cases := []struct {
		in   string
		nf   NumberFormat
		want float64
		ok   bool
	}{
		{"10", NumberFormat{}, 10, true},
		{" 4.5 ", NumberFormat{}, 4.5, true},
		{"1,234.50", NumberFormat{}, 1234.5, true},
		{"1.234,50", NumberFormat{}, 1234.5, true},
		{"0,5", NumberFormat{}, 0.5, true},
		{"$164,300", NumberFormat{DecimalSeparator: '.'}, 164300, true},
		{"12.5%", NumberFormat{}, 12.5, true},
		{"1 000,5", NumberFormat{DecimalSeparator: ',', ThousandsSeparator: ' '}, 1000.5, true},
		{"abc", NumberFormat{}, 0, false},
		{"", NumberFormat{}, 0, false},
		{"NaN", NumberFormat{}, 0, false},
		{"nan", NumberFormat{}, 0, false},
		{"Inf", NumberFormat{}, 0, false},
		{"-infinity", NumberFormat{}, 0, false},
		{"1.234", NumberFormat{DecimalSeparator: '.', ThousandsSeparator: ','}, 1.234, true},
		{"1,234", NumberFormat{DecimalSeparator: '.', ThousandsSeparator: ','}, 1234, true},
	}
	for _, c := range cases {
		got, ok := ParseFloat(c.in, c.nf)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("ParseFloat(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	d, ok := ParseDecimal("1.234,56", NumberFormat{})
	if !ok || d.String() != "1234.56" {
		t.Fatalf("ParseDecimal = %s,%v", d, ok)
	}
	if _, ok := ParseDecimal("n/a", NumberFormat{}); ok {
		t.Fatalf("expected n/a to be rejected")
	}
}
