package checkout

import (
	"context"
	"testing"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-vitrine/internal/obs"
	"github.com/noah-isme/backend-vitrine/internal/settlement"
	"github.com/noah-isme/backend-vitrine/internal/tenant"
)

type stubTenants struct {
	snap tenant.Snapshot
	err  error
}

func (s stubTenants) Snapshot(context.Context, string) (tenant.Snapshot, error) {
	return s.snap, s.err
}

type stubTracking struct {
	events []settlement.AttributionEvent
	err    error
}

func (s stubTracking) Events(context.Context, string, string) ([]settlement.AttributionEvent, error) {
	return s.events, s.err
}

type recordingDispatcher struct {
	calls   int
	lastRef string
	entries []settlement.LedgerEntry
	err     error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, orderRef, _ string, _ settlement.Money, entries []settlement.LedgerEntry) error {
	d.calls++
	d.lastRef = orderRef
	d.entries = entries
	return d.err
}

func testSnapshot() tenant.Snapshot {
	snap := tenant.Snapshot{
		CheckoutID:       "chk-1",
		TenantID:         "tnt-1",
		MaxInstallments:  12,
		FeePassedToBuyer: true,
		PixDiscountBps:   500,
		Model:            settlement.LastClick,
		FeeTable:         settlement.FeeTable{2: 299, 3: 429},
		Affiliates: []settlement.AffiliateLink{
			{AffiliateID: "aff-b", Terms: settlement.CommissionTerms{Kind: settlement.CommissionPercentage, PercentBps: 1_000}},
		},
		Partners: settlement.PartnerTerms{
			Industry: &settlement.CommissionTerms{Kind: settlement.CommissionFixed, FixedCents: 500},
		},
	}
	return snap
}

func testEvents() []settlement.AttributionEvent {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []settlement.AttributionEvent{
		{AffiliateID: "aff-a", SessionID: "s1", OccurredAt: base},
		{AffiliateID: "aff-b", SessionID: "s1", OccurredAt: base.Add(time.Minute)},
	}
}

func testInput() Input {
	quote := int64(1_200)
	return Input{
		SessionID:     "s1",
		PaymentMethod: "credit_card",
		Installments:  3,
		MainLine:      LineInput{BasePriceCents: 10_000, Quantity: 1, KitSize: 1},
		Shipping:      ShippingInput{Mode: "calculated", QuoteCents: &quote},
	}
}

func TestPreviewCreditCard(t *testing.T) {
	t.Parallel()

	svc := &Service{
		Tenants:  stubTenants{snap: testSnapshot()},
		Tracking: stubTracking{events: testEvents()},
		Validate: validator.New(),
	}
	out, err := svc.Preview(context.Background(), "chk-1", testInput())
	require.NoError(t, err)

	require.Equal(t, int64(11_629), out.Charge.PayableCents)
	require.Equal(t, int64(1_200), out.Charge.ShippingCents)
	require.True(t, out.Charge.HasInterest)
	require.Equal(t, int64(10_429), out.CommissionableBaseCents)
	require.Equal(t, "BRL", out.Currency)

	require.Len(t, out.Commissions, 2)
	require.Equal(t, "affiliate", out.Commissions[0].Party)
	require.Equal(t, "aff-b", out.Commissions[0].PartyID)
	require.Equal(t, int64(1_043), out.Commissions[0].AmountCents)
	require.Equal(t, "industry", out.Commissions[1].Party)

	require.Len(t, out.InstallmentOptions, 12)
	require.Equal(t, int64(11_200), out.InstallmentOptions[0].PayableCents)
	require.False(t, out.InstallmentOptions[0].HasInterest)
}

func TestPreviewDoesNotDispatch(t *testing.T) {
	t.Parallel()

	dispatcher := &recordingDispatcher{}
	svc := &Service{
		Tenants:  stubTenants{snap: testSnapshot()},
		Tracking: stubTracking{events: testEvents()},
		Payouts:  dispatcher,
	}
	_, err := svc.Preview(context.Background(), "chk-1", testInput())
	require.NoError(t, err)
	require.Zero(t, dispatcher.calls)
}

func TestSettleDispatchesLedger(t *testing.T) {
	t.Parallel()

	dispatcher := &recordingDispatcher{}
	svc := &Service{
		Tenants:  stubTenants{snap: testSnapshot()},
		Tracking: stubTracking{events: testEvents()},
		Payouts:  dispatcher,
	}
	in := testInput()
	in.OrderRef = "ord-1"
	out, err := svc.Settle(context.Background(), "chk-1", in)
	require.NoError(t, err)
	require.Equal(t, "ord-1", out.OrderRef)
	require.Equal(t, 1, dispatcher.calls)
	require.Equal(t, "ord-1", dispatcher.lastRef)
	require.Len(t, dispatcher.entries, 2)
}

func TestSettleRequiresOrderRef(t *testing.T) {
	t.Parallel()

	svc := &Service{
		Tenants:  stubTenants{snap: testSnapshot()},
		Tracking: stubTracking{},
	}
	_, err := svc.Settle(context.Background(), "chk-1", testInput())
	require.Error(t, err)
}

func TestSettleSurfacesSnapshotError(t *testing.T) {
	t.Parallel()

	svc := &Service{
		Tenants:  stubTenants{err: tenant.ErrCheckoutNotFound},
		Tracking: stubTracking{},
	}
	_, err := svc.Preview(context.Background(), "chk-1", testInput())
	require.ErrorIs(t, err, tenant.ErrCheckoutNotFound)
}

func TestValidationRejectsBadInput(t *testing.T) {
	t.Parallel()

	svc := &Service{
		Tenants:  stubTenants{snap: testSnapshot()},
		Tracking: stubTracking{},
		Validate: validator.New(),
	}
	in := testInput()
	in.SessionID = ""
	_, err := svc.Preview(context.Background(), "chk-1", in)
	require.Error(t, err)

	in = testInput()
	in.MainLine.Quantity = 0
	_, err = svc.Preview(context.Background(), "chk-1", in)
	require.Error(t, err)
}

func TestPreviewDefaultsOmittedInstallments(t *testing.T) {
	t.Parallel()

	svc := &Service{
		Tenants:  stubTenants{snap: testSnapshot()},
		Tracking: stubTracking{events: testEvents()},
		Validate: validator.New(),
	}
	in := testInput()
	in.Installments = 0
	out, err := svc.Preview(context.Background(), "chk-1", in)
	require.NoError(t, err)
	require.Equal(t, 1, out.Charge.Installments)
	require.Equal(t, int64(11_200), out.Charge.PayableCents)
	require.False(t, out.Charge.HasInterest)
}

type slowTenants struct {
	snap  tenant.Snapshot
	delay time.Duration
}

func (s slowTenants) Snapshot(context.Context, string) (tenant.Snapshot, error) {
	time.Sleep(s.delay)
	return s.snap, nil
}

func TestSettlementDurationCoversEngineOnly(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs.MustRegisterDomainMetrics("vitrine_test", reg)

	svc := &Service{
		Tenants:  slowTenants{snap: testSnapshot(), delay: 150 * time.Millisecond},
		Tracking: stubTracking{events: testEvents()},
	}
	_, err := svc.Preview(context.Background(), "chk-1", testInput())
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	var sum float64
	var count uint64
	for _, mf := range families {
		if mf.GetName() != "vitrine_test_settlement_duration_ms" {
			continue
		}
		for _, m := range mf.GetMetric() {
			sum += m.GetHistogram().GetSampleSum()
			count += m.GetHistogram().GetSampleCount()
		}
	}
	require.NotZero(t, count)
	require.Less(t, sum, 100.0, "snapshot load time must stay out of the settlement histogram")
}

func TestPixPreviewUsesTenantDiscount(t *testing.T) {
	t.Parallel()

	svc := &Service{
		Tenants:  stubTenants{snap: testSnapshot()},
		Tracking: stubTracking{},
	}
	in := testInput()
	in.PaymentMethod = "pix"
	in.Installments = 1
	in.Shipping = ShippingInput{Mode: "none"}
	out, err := svc.Preview(context.Background(), "chk-1", in)
	require.NoError(t, err)
	require.Equal(t, int64(9_500), out.Charge.PayableCents)
	require.Empty(t, out.InstallmentOptions)
}
