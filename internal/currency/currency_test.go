package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, "R$", Lookup("BRL").Symbol)
	assert.Equal(t, "£", Lookup("GBP").Symbol)
	assert.Equal(t, DefaultCurrency, Lookup("XYZ").Code)
}

func TestForCountry(t *testing.T) {
	assert.Equal(t, "BRL", ForCountry("BR"))
	assert.Equal(t, "BRL", ForCountry("br"))
	assert.Equal(t, "USD", ForCountry("US"))
	assert.Equal(t, "EUR", ForCountry("pt"))
	assert.Equal(t, DefaultCurrency, ForCountry("XX"))
}

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		amount string
		code   string
		want   string
	}{
		{"129.90", "BRL", "R$ 129,90"},
		{"129.9", "BRL", "R$ 129,90"},
		{"1299.90", "USD", "$ 1,299.90"},
		{"1000000", "EUR", "€ 1.000.000,00"},
		{"0.5", "GBP", "£ 0.50"},
		{"19.99", "XYZ", "R$ 19,99"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatPrice(tc.amount, tc.code), "%s %s", tc.amount, tc.code)
	}
}

func TestFormatPrice_UnparseableAmountPassesThrough(t *testing.T) {
	assert.Equal(t, "$ free", FormatPrice("free", "USD"))
}
