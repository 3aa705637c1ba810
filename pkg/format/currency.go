// Package format renders amounts for terminal and CSV output.
package format

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/iwvelando/savings-forecast/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with symbol and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	cents := int64(math.Round(amount * constants.DecimalPrecision))
	return money.New(cents, constants.CurrencyCode).Display()
}

// Amount returns a plain two-decimal string without separators for CSV cells (e.g., "-1234.56").
func Amount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// Price returns a price with two decimals and the currency code, as shown next to a chart.
func Price(amount float64) string {
	return Amount(amount) + " " + constants.CurrencyCode
}

// Percent renders a fraction such as 0.0734 as "7.34%".
func Percent(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}
