// Package settlement is the canonical order pricing and commission engine.
// Every function is pure: inputs are read-only snapshots assembled by the
// caller, results are computed fresh per call, and any validation failure
// aborts the whole settlement with a sentinel error. Pricing logic must live
// here and nowhere else; HTTP and storefront layers are thin adapters.
package settlement

// Request carries the full commercial input of one order settlement. Tenant
// configuration (fee table, terms, links) arrives as a read-only snapshot so
// results are reproducible byte-for-byte from a fixed input.
type Request struct {
	MainLine OrderLine
	Bump     *BumpLine

	Method         PaymentMethod
	Installments   int
	PixDiscountBps int64

	Shipping ShippingSpec

	SessionID string
	Events    []AttributionEvent
	Model     AttributionModel

	Affiliates []AffiliateLink
	Partners   PartnerTerms

	FeeTable         FeeTable
	FeePassedToBuyer bool
	MaxInstallments  int
}

// Charge is the schedule the customer pays. Payable includes shipping; the
// shipping portion carries no installment interest.
type Charge struct {
	Payable         Money
	Shipping        Money
	Installments    int
	PerInstallment  Money
	LastInstallment Money
	HasInterest     bool
}

// Result pairs the charge schedule with the commission ledger for one order.
type Result struct {
	Charge             Charge
	CommissionableBase Money
	Commissions        []LedgerEntry
}

// Settle runs the full pipeline: validate, subtotal, installment pricing,
// shipping, attribution, commission ledger. There is no partial result; the
// first failure aborts the call.
func Settle(req Request) (Result, error) {
	if !KnownPaymentMethod(req.Method) {
		return Result{}, ErrUnknownPaymentMethod
	}
	// Counts are never coerced: anything outside [1, max] is the caller's
	// error to surface, including zero.
	if req.Installments < 1 {
		return Result{}, ErrInvalidInstallmentCount
	}
	if req.Method != PaymentCreditCard && req.Installments > 1 {
		return Result{}, ErrInvalidInstallmentCount
	}
	installments := req.Installments

	sub, err := Subtotal(req.MainLine, req.Bump, req.Method, req.PixDiscountBps)
	if err != nil {
		return Result{}, err
	}

	// Interest applies to the discounted subtotal only; the shipping quote is
	// financed interest-free and the full payable is split across installments.
	quote, err := PriceInstallments(sub.Discounted, installments, req.FeeTable, req.FeePassedToBuyer, req.MaxInstallments)
	if err != nil {
		return Result{}, err
	}

	shipped, err := ApplyShipping(quote.Payable, req.Shipping)
	if err != nil {
		return Result{}, err
	}
	per, last := SplitInstallments(shipped.Total, installments)

	var affiliateID string
	if len(req.Events) > 0 {
		affiliateID, err = ResolveAttribution(req.Events, req.SessionID, req.Model)
		if err != nil {
			return Result{}, err
		}
	}

	ledger, err := BuildLedger(shipped.CommissionableBase, affiliateID, req.Affiliates, req.Partners)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Charge: Charge{
			Payable:         shipped.Total,
			Shipping:        shipped.Shipping,
			Installments:    installments,
			PerInstallment:  per,
			LastInstallment: last,
			HasInterest:     quote.HasInterest,
		},
		CommissionableBase: shipped.CommissionableBase,
		Commissions:        ledger,
	}, nil
}
