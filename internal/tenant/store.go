package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-vitrine/internal/settlement"
)

// ErrCheckoutNotFound is returned when no settings row exists for the checkout.
var ErrCheckoutNotFound = errors.New("checkout not found")

// Querier is the subset of pgxpool.Pool used by the store.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Querier = (*pgxpool.Pool)(nil)

// Store loads checkout configuration snapshots from postgres.
type Store struct {
	DB Querier
}

// Snapshot assembles the full read-only configuration for one checkout:
// settings, installment fee table, partner terms and affiliate links.
func (s *Store) Snapshot(ctx context.Context, checkoutID string) (Snapshot, error) {
	if s == nil || s.DB == nil {
		return Snapshot{}, errors.New("tenant store not configured")
	}

	var snap Snapshot
	row := s.DB.QueryRow(ctx, `
		SELECT checkout_id, tenant_id, max_installments, fee_passed_to_buyer,
		       pix_discount_bps, attribution_model
		FROM checkout_settings
		WHERE checkout_id = $1`, checkoutID)
	var model string
	if err := row.Scan(&snap.CheckoutID, &snap.TenantID, &snap.MaxInstallments,
		&snap.FeePassedToBuyer, &snap.PixDiscountBps, &model); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrCheckoutNotFound
		}
		return Snapshot{}, fmt.Errorf("load checkout settings: %w", err)
	}
	snap.Model = settlement.AttributionModel(model)

	feeTable, err := s.feeTable(ctx, checkoutID)
	if err != nil {
		return Snapshot{}, err
	}
	snap.FeeTable = feeTable

	affiliates, err := s.affiliateLinks(ctx, checkoutID)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Affiliates = affiliates

	partners, err := s.partnerTerms(ctx, checkoutID)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Partners = partners

	snap.Normalize()
	return snap, nil
}

func (s *Store) feeTable(ctx context.Context, checkoutID string) (settlement.FeeTable, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT installments, fee_bps
		FROM installment_fees
		WHERE checkout_id = $1`, checkoutID)
	if err != nil {
		return nil, fmt.Errorf("load fee table: %w", err)
	}
	defer rows.Close()

	table := settlement.FeeTable{}
	for rows.Next() {
		var n int
		var bps int64
		if err := rows.Scan(&n, &bps); err != nil {
			return nil, fmt.Errorf("scan fee row: %w", err)
		}
		table[n] = bps
	}
	return table, rows.Err()
}

func (s *Store) affiliateLinks(ctx context.Context, checkoutID string) ([]settlement.AffiliateLink, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT affiliate_id, commission_kind, percent_bps, fixed_cents
		FROM affiliate_links
		WHERE checkout_id = $1
		ORDER BY affiliate_id`, checkoutID)
	if err != nil {
		return nil, fmt.Errorf("load affiliate links: %w", err)
	}
	defer rows.Close()

	var links []settlement.AffiliateLink
	for rows.Next() {
		var link settlement.AffiliateLink
		var kind string
		if err := rows.Scan(&link.AffiliateID, &kind, &link.Terms.PercentBps, &link.Terms.FixedCents); err != nil {
			return nil, fmt.Errorf("scan affiliate link: %w", err)
		}
		link.Terms.Kind = settlement.CommissionKind(kind)
		links = append(links, link)
	}
	return links, rows.Err()
}

func (s *Store) partnerTerms(ctx context.Context, checkoutID string) (settlement.PartnerTerms, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT party_kind, commission_kind, percent_bps, fixed_cents
		FROM partner_terms
		WHERE checkout_id = $1`, checkoutID)
	if err != nil {
		return settlement.PartnerTerms{}, fmt.Errorf("load partner terms: %w", err)
	}
	defer rows.Close()

	var partners settlement.PartnerTerms
	for rows.Next() {
		var party, kind string
		terms := &settlement.CommissionTerms{}
		if err := rows.Scan(&party, &kind, &terms.PercentBps, &terms.FixedCents); err != nil {
			return settlement.PartnerTerms{}, fmt.Errorf("scan partner terms: %w", err)
		}
		terms.Kind = settlement.CommissionKind(kind)
		switch settlement.PartyKind(party) {
		case settlement.PartyIndustry:
			partners.Industry = terms
		case settlement.PartyFactory:
			partners.Factory = terms
		case settlement.PartyCoproducer:
			partners.Coproducer = terms
		}
	}
	return partners, rows.Err()
}
