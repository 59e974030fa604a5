// Package money formats currency amounts for display.
package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Symbol prefixes every formatted amount.
const Symbol = "¥"

var tenThousand = decimal.NewFromInt(10000)

// Grouped renders d with thousands separators and the given decimal places.
func Grouped(d decimal.Decimal, places int32) string {
	fixed := d.Abs().StringFixed(places)
	intPart, frac, _ := strings.Cut(fixed, ".")

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// Too large for int64; fall back to the plain digits.
		return d.StringFixed(places)
	}
	p := message.NewPrinter(language.English)
	out := p.Sprintf("%d", n)
	if frac != "" {
		out += "." + frac
	}
	if d.Round(places).IsNegative() {
		out = "-" + out
	}
	return out
}

// Format renders an amount as ¥1,234,567.89.
func Format(d decimal.Decimal) string {
	return withSymbol(d, Grouped(d.Abs(), 2))
}

// FormatWhole renders an amount without cents: ¥1,234,568.
func FormatWhole(d decimal.Decimal) string {
	return withSymbol(d.Round(0), Grouped(d.Abs(), 0))
}

// FormatWan renders an amount in units of ten thousand: ¥123.46万.
func FormatWan(d decimal.Decimal) string {
	wan := d.Div(tenThousand)
	return withSymbol(wan.Round(2), Grouped(wan.Abs(), 2)+"万")
}

// Percent renders a percent value such as 4 as "4.0%".
func Percent(d decimal.Decimal, places int32) string {
	return d.StringFixed(places) + "%"
}

// Ratio renders a fraction such as 0.45 as "45.0%".
func Ratio(d decimal.Decimal, places int32) string {
	return Percent(d.Mul(decimal.NewFromInt(100)), places)
}

func withSymbol(sign decimal.Decimal, body string) string {
	if sign.IsNegative() {
		return "-" + Symbol + body
	}
	return Symbol + body
}
