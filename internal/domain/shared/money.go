package shared

import "github.com/shopspring/decimal"

// Currency is the store currency code
const Currency = "MAD"

// RoundMoney rounds an amount to two decimal places
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns pct% of amount rounded to two decimals
func Percent(amount decimal.Decimal, pct int64) decimal.Decimal {
	return RoundMoney(amount.Mul(decimal.NewFromInt(pct)).Div(decimal.NewFromInt(100)))
}
