package settlement

import "errors"

var (
	// ErrInvalidInstallmentCount is returned when the requested installment count
	// falls outside [1, max] or installments are requested for a method that does
	// not support them.
	ErrInvalidInstallmentCount = errors.New("invalid installment count")
	// ErrMissingShippingQuote is returned when shipping mode is calculated but no
	// quote was supplied.
	ErrMissingShippingQuote = errors.New("missing shipping quote")
	// ErrInvalidDiscountPercent is returned when a discount or fee percentage is
	// outside [0, 100). Misconfiguration is surfaced, never clamped.
	ErrInvalidDiscountPercent = errors.New("discount percent out of range")
	// ErrUnknownPaymentMethod is returned for a payment method outside the
	// supported enum.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	// ErrInvalidOrderLine is returned when quantity or kit size is below one or
	// the base price is negative.
	ErrInvalidOrderLine = errors.New("invalid order line")
	// ErrUnknownShippingMode is returned for a shipping mode outside the
	// supported enum.
	ErrUnknownShippingMode = errors.New("unknown shipping mode")
	// ErrUnknownAttributionModel is returned for an attribution model outside the
	// supported enum.
	ErrUnknownAttributionModel = errors.New("unknown attribution model")
	// ErrInvalidCommissionValue is returned when a commission term carries a
	// negative percentage or fixed amount.
	ErrInvalidCommissionValue = errors.New("invalid commission value")
)
