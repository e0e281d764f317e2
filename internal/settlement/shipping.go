package settlement

// ShippingMode enumerates how shipping is charged on a checkout.
type ShippingMode string

const (
	ShippingNone       ShippingMode = "none"
	ShippingFree       ShippingMode = "free"
	ShippingCalculated ShippingMode = "calculated"
)

// ShippingSpec describes the shipping selection for an order. Quote must be
// present when Mode is calculated.
type ShippingSpec struct {
	Mode  ShippingMode
	Quote *Money
}

// ShippingResult separates the shipping charge from the commissionable base.
// Shipping is never merged back into the base: commissions must not vary with
// the shipping quote.
type ShippingResult struct {
	Total              Money
	Shipping           Money
	CommissionableBase Money
}

// ApplyShipping adds the shipping charge on top of subtotal. Under free mode
// the buyer pays nothing extra; the merchant absorbs the real cost outside
// this engine.
func ApplyShipping(subtotal Money, spec ShippingSpec) (ShippingResult, error) {
	switch spec.Mode {
	case ShippingNone, ShippingFree:
		return ShippingResult{Total: subtotal, CommissionableBase: subtotal}, nil
	case ShippingCalculated:
		if spec.Quote == nil {
			return ShippingResult{}, ErrMissingShippingQuote
		}
		quote := *spec.Quote
		if quote < 0 {
			return ShippingResult{}, ErrMissingShippingQuote
		}
		return ShippingResult{
			Total:              subtotal + quote,
			Shipping:           quote,
			CommissionableBase: subtotal,
		}, nil
	default:
		return ShippingResult{}, ErrUnknownShippingMode
	}
}
