package fx

import (
	"strings"

	"github.com/josh-kwaku/treasury-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var symbols = map[domain.Currency]string{
	domain.CurrencyUSD: "$",
	domain.CurrencyKES: "KSh",
	domain.CurrencyNGN: "₦",
}

var printer = message.NewPrinter(language.AmericanEnglish)

// maxGrouped is the largest whole part the printer is handed as an int64.
var maxGrouped = decimal.NewFromInt(1<<63 - 1)

func Symbol(c domain.Currency) string {
	if s, ok := symbols[c]; ok {
		return s
	}
	return string(c) + " "
}

// FormatAmount renders amount for display only, e.g. "KSh150,000.00".
// Stored values never pass through here.
func FormatAmount(amount decimal.Decimal, c domain.Currency) string {
	rounded := amount.Round(amountPlaces)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	whole, frac, _ := strings.Cut(rounded.StringFixed(amountPlaces), ".")
	return sign + Symbol(c) + groupWhole(rounded.Truncate(0), whole) + "." + frac
}

// groupWhole inserts thousands separators into the integer digits. Values
// that fit an int64 go through the locale printer; larger ones are grouped
// by hand with the same separator.
func groupWhole(whole decimal.Decimal, digits string) string {
	if whole.LessThanOrEqual(maxGrouped) {
		return printer.Sprintf("%d", whole.IntPart())
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
