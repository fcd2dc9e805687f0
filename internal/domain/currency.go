package domain

import "strings"

// Currency is an ISO 4217 style code. Whether a code is supported is decided
// by the rate table, not by this type.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyKES Currency = "KES"
	CurrencyNGN Currency = "NGN"
)

func ParseCurrency(s string) Currency {
	return Currency(strings.ToUpper(strings.TrimSpace(s)))
}

// IsValid reports whether c is three upper-case ASCII letters.
func (c Currency) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	for i := 0; i < len(c); i++ {
		if c[i] < 'A' || c[i] > 'Z' {
			return false
		}
	}
	return true
}

func (c Currency) String() string { return string(c) }
