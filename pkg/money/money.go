// Package money holds the currency formatting rule and the two account
// business-rule helpers (interest calculation, overdraft check) shared by the
// domain layer.
package money

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Format renders an amount with exactly two decimal places, the only
// precision ever shown in narratives and summaries.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Interest computes the interest earned on balance at rate percent.
func Interest(balance, rate decimal.Decimal) decimal.Decimal {
	return balance.Mul(rate).Div(hundred)
}

// WithinOverdraft reports whether amount can be withdrawn from balance
// without exceeding the overdraft allowance.
func WithinOverdraft(balance, overdraft, amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(balance.Add(overdraft))
}
