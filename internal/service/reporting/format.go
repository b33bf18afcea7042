package reporting

import "github.com/shopspring/decimal"

// Money formats an amount with two decimals and a dollar sign, e.g. -$100.00.
func Money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
