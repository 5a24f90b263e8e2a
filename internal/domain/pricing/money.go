package pricing

import "github.com/shopspring/decimal"

// ToCents converts an LKR decimal amount to integer cents, the unit profile
// balances are kept in. Rounds to 2 decimals first so a stray fraction of a
// cent never silently truncates.
func ToCents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// FromCents converts integer cents back to an LKR decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-2)
}
