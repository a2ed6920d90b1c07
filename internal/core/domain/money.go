package domain

import "github.com/shopspring/decimal"

// Monetary amounts are decimal end to end. Parsing a client amount into
// a float and back is how rounding drift creeps into balances, so the
// engine never touches float64.

// ValidAmount reports whether an amount can be applied to a balance:
// any non-negative number.
func ValidAmount(amount decimal.Decimal) bool {
	return !amount.IsNegative()
}

// ValidNominal reports whether a caller-supplied nominal override can
// price a payment: non-negative and non-zero.
func ValidNominal(nominal decimal.Decimal) bool {
	return nominal.IsPositive()
}

// Credit returns balance + amount.
func Credit(balance, amount decimal.Decimal) decimal.Decimal {
	return balance.Add(amount)
}

// Debit returns balance - total, or ErrInsufficientBalance when the
// balance does not cover the total. A successful debit is never negative.
func Debit(balance, total decimal.Decimal) (decimal.Decimal, error) {
	if balance.LessThan(total) {
		return decimal.Zero, ErrInsufficientBalance
	}
	return balance.Sub(total), nil
}
