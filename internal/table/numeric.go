package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NumberFormat fixes the separators used by numeric cells. A zero separator
// means auto-detect per value.
type NumberFormat struct {
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// ParseFloat parses a numeric cell. Percent signs, currency symbols and
// thousands separators are stripped first. NaN and infinities count as
// missing.
func ParseFloat(s string, nf NumberFormat) (float64, bool) {
	raw, ok := canonicalNumber(s, nf)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseDecimal is ParseFloat for money columns.
func ParseDecimal(s string, nf NumberFormat) (decimal.Decimal, bool) {
	raw, ok := canonicalNumber(s, nf)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func canonicalNumber(s string, nf NumberFormat) (string, bool) {
	raw := strings.TrimSpace(s)
	for _, sym := range []string{"%", "$", "€", "£"} {
		raw = strings.ReplaceAll(raw, sym, "")
	}
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	dec := nf.DecimalSeparator
	thou := nf.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	return raw, true
}
