package model

// Currency is the closed set of currencies the firm bills in.  Monetary
// values are always stored together with one of these codes; conversion
// between them goes through the ledger's currency converter and the
// exchange_rates table.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyTZS Currency = "TZS"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyKES Currency = "KES"
	CurrencyUGX Currency = "UGX"
)

// Currencies lists every supported currency code.  The order is stable and
// used when seeding the exchange_rates table.
var Currencies = []Currency{
	CurrencyUSD, CurrencyTZS, CurrencyEUR, CurrencyGBP, CurrencyKES, CurrencyUGX,
}

// Valid reports whether the code is one of the supported currencies.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyTZS, CurrencyEUR, CurrencyGBP, CurrencyKES, CurrencyUGX:
		return true
	}
	return false
}

// ParseCurrency validates a raw string against the closed set.  It returns
// the typed code and true on success, or an empty code and false otherwise.
func ParseCurrency(s string) (Currency, bool) {
	c := Currency(s)
	if c.Valid() {
		return c, true
	}
	return "", false
}
