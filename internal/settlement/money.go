package settlement

// Money represents a monetary value stored in minor units (centavos).
type Money = int64

// Percentages are carried as integer basis points so that two-decimal
// rates like 4.29% (= 429 bps) stay exact. All rounding is half-up.
const percentScale = 10_000

// applyBps multiplies amount by bps/10000 with half-up rounding.
func applyBps(amount Money, bps int64) Money {
	if amount <= 0 || bps <= 0 {
		return 0
	}
	return (amount*bps + percentScale/2) / percentScale
}

// divRound divides amount by n with half-up rounding.
func divRound(amount Money, n int64) Money {
	if n <= 0 {
		return 0
	}
	return (amount + n/2) / n
}

// validBps reports whether bps encodes a percentage in [0, 100).
func validBps(bps int64) bool {
	return bps >= 0 && bps < percentScale
}
