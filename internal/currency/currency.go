// Package currency holds the supported currency table and price
// formatting used when rendering platform amounts.
package currency

import (
	"fmt"
	"strconv"
	"strings"
)

// Currency describes one supported settlement currency.
type Currency struct {
	Code    string
	Symbol  string
	Name    string
	decimal string
	group   string
}

var currencies = map[string]Currency{
	"BRL": {Code: "BRL", Symbol: "R$", Name: "Real Brasileiro", decimal: ",", group: "."},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", decimal: ".", group: ","},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro", decimal: ",", group: "."},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound", decimal: ".", group: ","},
}

const DefaultCurrency = "BRL"

// ByCountry maps shopper countries to their settlement currency.
var ByCountry = map[string]string{
	"BR": "BRL",
	"US": "USD",
	"DE": "EUR",
	"FR": "EUR",
	"ES": "EUR",
	"IT": "EUR",
	"PT": "EUR",
	"GB": "GBP",
}

// Lookup returns the currency for code, falling back to the default.
func Lookup(code string) Currency {
	if c, ok := currencies[code]; ok {
		return c
	}
	return currencies[DefaultCurrency]
}

// ForCountry returns the currency code for a shopper country.
func ForCountry(country string) string {
	if code, ok := ByCountry[strings.ToUpper(country)]; ok {
		return code
	}
	return DefaultCurrency
}

// FormatPrice renders an amount string as reported by the platform
// ("129.90") in the given currency. Unparseable amounts pass through
// untouched behind the symbol.
func FormatPrice(amount, code string) string {
	c := Lookup(code)
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return c.Symbol + " " + amount
	}

	whole := int64(v)
	cents := int64(v*100+0.5) - whole*100
	if cents < 0 {
		cents = -cents
	}

	return fmt.Sprintf("%s %s%s%02d", c.Symbol, groupDigits(whole, c.group), c.decimal, cents)
}

func groupDigits(n int64, sep string) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
