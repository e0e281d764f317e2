package settlement

// PaymentMethod enumerates the supported charge methods.
type PaymentMethod string

const (
	PaymentPix        PaymentMethod = "pix"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentBoleto     PaymentMethod = "boleto"
)

// KnownPaymentMethod reports whether m belongs to the supported enum.
func KnownPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentPix, PaymentCreditCard, PaymentBoleto:
		return true
	}
	return false
}

// OrderLine is the main product line of a checkout. BasePrice is the price per
// kit; Quantity times KitSize is the unit multiplier.
type OrderLine struct {
	BasePrice Money
	Quantity  int
	KitSize   int
}

// BumpLine is an optional secondary product offered at checkout, priced with
// its own discount independent of the main line.
type BumpLine struct {
	BasePrice   Money
	DiscountBps int64
}

// SubtotalResult carries the pre-shipping commercial subtotal before and after
// the payment-method discount.
type SubtotalResult struct {
	Raw        Money
	Discounted Money
}

// Subtotal computes the pre-shipping subtotal for the given payment method.
// The PIX discount applies to the combined subtotal (main plus bump), never to
// shipping. The bump discount applies only to the bump's own base price.
func Subtotal(main OrderLine, bump *BumpLine, method PaymentMethod, pixDiscountBps int64) (SubtotalResult, error) {
	if !KnownPaymentMethod(method) {
		return SubtotalResult{}, ErrUnknownPaymentMethod
	}
	if main.Quantity < 1 || main.KitSize < 1 || main.BasePrice < 0 {
		return SubtotalResult{}, ErrInvalidOrderLine
	}
	if !validBps(pixDiscountBps) {
		return SubtotalResult{}, ErrInvalidDiscountPercent
	}

	raw := main.BasePrice * Money(main.Quantity) * Money(main.KitSize)
	if bump != nil {
		if bump.BasePrice < 0 {
			return SubtotalResult{}, ErrInvalidOrderLine
		}
		if !validBps(bump.DiscountBps) {
			return SubtotalResult{}, ErrInvalidDiscountPercent
		}
		raw += applyBps(bump.BasePrice, percentScale-bump.DiscountBps)
	}

	discounted := raw
	if method == PaymentPix {
		discounted = applyBps(raw, percentScale-pixDiscountBps)
	}
	return SubtotalResult{Raw: raw, Discounted: discounted}, nil
}
