package settlement

// DefaultMaxInstallments bounds the installment count when the tenant has not
// configured its own maximum.
const DefaultMaxInstallments = 12

// FeeTable maps an installment count (2..max) to the credit-card fee for that
// count, in basis points. Counts absent from the table carry no fee.
type FeeTable map[int]int64

// InstallmentQuote is the priced outcome for a single installment count.
// The last installment absorbs the rounding remainder so the sum of all
// installments equals Payable exactly.
type InstallmentQuote struct {
	Installments    int
	Payable         Money
	PerInstallment  Money
	LastInstallment Money
	HasInterest     bool
}

// PriceInstallments prices base for n installments. With feePassedToBuyer the
// fee for n inflates the payable total; otherwise the merchant absorbs it and
// the buyer pays base regardless of n. Rounding happens once at the total
// level, never accumulated per installment.
func PriceInstallments(base Money, n int, table FeeTable, feePassedToBuyer bool, maxInstallments int) (InstallmentQuote, error) {
	if maxInstallments <= 0 {
		maxInstallments = DefaultMaxInstallments
	}
	if n < 1 || n > maxInstallments {
		return InstallmentQuote{}, ErrInvalidInstallmentCount
	}
	if base < 0 {
		return InstallmentQuote{}, ErrInvalidOrderLine
	}
	if n == 1 {
		return InstallmentQuote{Installments: 1, Payable: base, PerInstallment: base, LastInstallment: base}, nil
	}

	payable := base
	hasInterest := false
	if feePassedToBuyer {
		feeBps := table[n]
		if !validBps(feeBps) {
			return InstallmentQuote{}, ErrInvalidDiscountPercent
		}
		payable = applyBps(base, percentScale+feeBps)
		hasInterest = feeBps > 0
	}
	per, last := SplitInstallments(payable, n)
	return InstallmentQuote{
		Installments:    n,
		Payable:         payable,
		PerInstallment:  per,
		LastInstallment: last,
		HasInterest:     hasInterest,
	}, nil
}

// SplitInstallments divides total across n installments: every installment is
// the half-up rounded quotient except the last, which absorbs the remainder.
func SplitInstallments(total Money, n int) (per, last Money) {
	if n <= 1 {
		return total, total
	}
	per = divRound(total, int64(n))
	last = total - Money(n-1)*per
	return per, last
}

// InstallmentOptions prices every installment count from 1 to maxInstallments,
// for checkout display.
func InstallmentOptions(base Money, table FeeTable, feePassedToBuyer bool, maxInstallments int) ([]InstallmentQuote, error) {
	if maxInstallments <= 0 {
		maxInstallments = DefaultMaxInstallments
	}
	options := make([]InstallmentQuote, 0, maxInstallments)
	for n := 1; n <= maxInstallments; n++ {
		quote, err := PriceInstallments(base, n, table, feePassedToBuyer, maxInstallments)
		if err != nil {
			return nil, err
		}
		options = append(options, quote)
	}
	return options, nil
}
