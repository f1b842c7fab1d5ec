package report

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currency = message.NewPrinter(language.English)

// FormatCurrency renders whole dollars with thousands grouping, e.g. $1,234,568.
func FormatCurrency(d decimal.Decimal) string {
	return currency.Sprintf("$%d", d.Round(0).IntPart())
}
