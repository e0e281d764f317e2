package settlement

// CommissionKind distinguishes percentage terms from flat amounts.
type CommissionKind string

const (
	CommissionPercentage CommissionKind = "percentage"
	CommissionFixed      CommissionKind = "fixed"
)

// CommissionTerms configures how a party earns on a sale. PercentBps is used
// for percentage terms; FixedCents for fixed terms.
type CommissionTerms struct {
	Kind       CommissionKind
	PercentBps int64
	FixedCents Money
}

// AffiliateLink ties an affiliate to a checkout with its commission terms.
type AffiliateLink struct {
	AffiliateID string
	Terms       CommissionTerms
}

// PartyKind enumerates commission recipients on a sale.
type PartyKind string

const (
	PartyAffiliate  PartyKind = "affiliate"
	PartyIndustry   PartyKind = "industry"
	PartyFactory    PartyKind = "factory"
	PartyCoproducer PartyKind = "coproducer"
)

// PartnerTerms holds the checkout's fixed commission recipients. Unlike
// affiliates they earn on every sale regardless of referral; each is
// independently optional.
type PartnerTerms struct {
	Industry   *CommissionTerms
	Factory    *CommissionTerms
	Coproducer *CommissionTerms
}

// LedgerEntry is the authoritative payout record for one party on one settled
// order. Entries are produced fresh per settlement and never mutated.
type LedgerEntry struct {
	Party      PartyKind
	PartyID    string
	Kind       CommissionKind
	PercentBps int64
	FixedCents Money
	Amount     Money
}

// BuildLedger produces one entry per configured party, affiliate first, then
// industry, factory and coproducer, skipping unconfigured parties. A fixed
// commission is capped at the commissionable base so no single party is ever
// owed more than the sale. The builder does not enforce that the entries sum
// below the base; keeping the combined terms sane is merchant configuration
// responsibility.
func BuildLedger(base Money, resolvedAffiliate string, links []AffiliateLink, partners PartnerTerms) ([]LedgerEntry, error) {
	entries := make([]LedgerEntry, 0, 4)

	if resolvedAffiliate != "" {
		// Referral data may outlive the affiliate's link to this checkout; an
		// unlinked affiliate earns nothing.
		for _, link := range links {
			if link.AffiliateID != resolvedAffiliate {
				continue
			}
			entry, err := buildEntry(PartyAffiliate, link.AffiliateID, link.Terms, base)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
			break
		}
	}

	fixedParties := []struct {
		kind  PartyKind
		terms *CommissionTerms
	}{
		{PartyIndustry, partners.Industry},
		{PartyFactory, partners.Factory},
		{PartyCoproducer, partners.Coproducer},
	}
	for _, p := range fixedParties {
		if p.terms == nil {
			continue
		}
		entry, err := buildEntry(p.kind, string(p.kind), *p.terms, base)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func buildEntry(party PartyKind, partyID string, terms CommissionTerms, base Money) (LedgerEntry, error) {
	entry := LedgerEntry{
		Party:      party,
		PartyID:    partyID,
		Kind:       terms.Kind,
		PercentBps: terms.PercentBps,
		FixedCents: terms.FixedCents,
	}
	switch terms.Kind {
	case CommissionPercentage:
		if terms.PercentBps < 0 {
			return LedgerEntry{}, ErrInvalidCommissionValue
		}
		entry.Amount = applyBps(base, terms.PercentBps)
	case CommissionFixed:
		if terms.FixedCents < 0 {
			return LedgerEntry{}, ErrInvalidCommissionValue
		}
		amount := terms.FixedCents
		if amount > base {
			amount = base
		}
		entry.Amount = amount
	default:
		return LedgerEntry{}, ErrInvalidCommissionValue
	}
	return entry, nil
}
