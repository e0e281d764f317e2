package tenant

import (
	"github.com/noah-isme/backend-vitrine/internal/settlement"
)

// Snapshot is the read-only commercial configuration of one checkout at
// settlement time. It is loaded per request and handed to the settlement
// engine; the engine never fetches configuration itself.
type Snapshot struct {
	CheckoutID       string
	TenantID         string
	MaxInstallments  int
	FeePassedToBuyer bool
	PixDiscountBps   int64
	Model            settlement.AttributionModel
	FeeTable         settlement.FeeTable
	Affiliates       []settlement.AffiliateLink
	Partners         settlement.PartnerTerms
}

// DefaultFeeTable is applied when a tenant has not configured its own
// installment fees. Rates are in basis points per installment count.
var DefaultFeeTable = settlement.FeeTable{
	2:  299,
	3:  429,
	4:  559,
	5:  689,
	6:  819,
	7:  949,
	8:  1_079,
	9:  1_209,
	10: 1_339,
	11: 1_469,
	12: 1_599,
}

// Normalize fills unset fields with documented defaults.
func (s *Snapshot) Normalize() {
	if s.MaxInstallments <= 0 {
		s.MaxInstallments = settlement.DefaultMaxInstallments
	}
	if s.Model == "" {
		s.Model = settlement.LastClick
	}
	if len(s.FeeTable) == 0 {
		s.FeeTable = DefaultFeeTable
	}
}
