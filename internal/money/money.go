package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// symbols covers the currencies the demo storefront trades in. Unknown codes
// fall back to "<CODE> <amount>".
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"IDR": "Rp",
}

// zeroDecimalCurrencies have no minor unit.
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"IDR": true,
}

// Format renders an amount for storefront display, e.g. Format(19.99, "USD")
// -> "$19.99".
func Format(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))

	places := int32(2)
	if zeroDecimalCurrencies[code] {
		places = 0
	}
	rendered := amount.StringFixed(places)

	symbol, ok := symbols[code]
	if !ok {
		return fmt.Sprintf("%s %s", code, rendered)
	}
	return symbol + rendered
}
