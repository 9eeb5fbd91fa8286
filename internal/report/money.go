package report

import (
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var euro = money.GetCurrency(money.EUR)

// germanEuro formats minor units as "1.234,56 €".
var germanEuro = money.NewFormatter(euro.Fraction, ",", ".", euro.Grapheme, "1 $")

// FormatAmount renders an amount in German notation, rounded to cents.
func FormatAmount(d decimal.Decimal) string {
	fraction := int32(euro.Fraction)
	return germanEuro.Format(d.Round(fraction).Shift(fraction).IntPart())
}

// FormatDate renders a date as dd.mm.yyyy; the zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006")
}
