package market

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatAmount renders amount (major units) with the currency's symbol and
// separators. Unknown currencies fall back to "<amount> <code>".
func FormatAmount(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// KnownCurrency reports whether code is an ISO 4217 currency.
func KnownCurrency(code string) bool {
	return code != "" && money.GetCurrency(strings.ToUpper(code)) != nil
}

var countryCurrency = map[string]string{
	"US": "USD",
	"EU": "EUR",
	"EA": "EUR",
	"DE": "EUR",
	"FR": "EUR",
	"IT": "EUR",
	"ES": "EUR",
	"NL": "EUR",
	"GB": "GBP",
	"UK": "GBP",
	"JP": "JPY",
	"CN": "CNY",
	"CH": "CHF",
	"CA": "CAD",
	"AU": "AUD",
	"NZ": "NZD",
}

// CurrencyForCountry maps a calendar country code to its currency.
func CurrencyForCountry(country string) string {
	return countryCurrency[strings.ToUpper(strings.TrimSpace(country))]
}
