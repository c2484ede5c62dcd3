package utils

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a caller does not name one.
const DefaultCurrency = "INR"

// FormatMoney renders amount in the display format of currency (ISO 4217 code),
// rounded to the currency's minor unit. Unknown codes fall back to DefaultCurrency.
func FormatMoney(amount float64, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if money.GetCurrency(code) == nil {
		code = DefaultCurrency
	}
	// a never nil currency comes from the Money constructor
	cur := money.New(0, code).Currency()
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
