package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the reporting currency of a portfolio
const DefaultCurrency = money.USD

// RoundMoney rounds a monetary amount half-away-from-zero to cents.
func RoundMoney(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// FormatCurrency renders amount as e.g. "$1,234.56" or "-$1,234.56".
func FormatCurrency(amount float64) string {
	return FormatCurrencyIn(amount, DefaultCurrency)
}

// FormatCurrencyIn renders amount in the given ISO currency code.
func FormatCurrencyIn(amount float64, code string) string {
	m := money.New(0, code)
	fraction := int32(m.Currency().Fraction)
	minor := decimal.NewFromFloat(amount).Shift(fraction).Round(0).IntPart()
	return money.New(minor, code).Display()
}
