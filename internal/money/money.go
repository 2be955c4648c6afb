// Package money formats integer cent amounts.
package money

import "github.com/shopspring/decimal"

// Dollars converts cents to a decimal dollar amount.
func Dollars(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format renders cents as "$12.34" ("-$0.50" for negatives).
func Format(cents int64) string {
	d := Dollars(cents)
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// ParseDollars converts a dollar string such as "4.99" to cents, rounding
// half away from zero.
func ParseDollars(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Shift(2).Round(0).IntPart(), nil
}
