// Package checkout adapts HTTP settlement requests onto the pure settlement
// engine. It assembles the engine input from the tenant snapshot and the
// recorded attribution stream, and hands finished ledgers to payout dispatch.
package checkout

import (
	"context"
	"errors"
	"math"
	"time"

	validator "github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/backend-vitrine/internal/obs"
	"github.com/noah-isme/backend-vitrine/internal/settlement"
	"github.com/noah-isme/backend-vitrine/internal/tenant"
)

// SnapshotSource loads the read-only checkout configuration.
type SnapshotSource interface {
	Snapshot(ctx context.Context, checkoutID string) (tenant.Snapshot, error)
}

// EventSource replays recorded attribution events for a checkout session.
type EventSource interface {
	Events(ctx context.Context, checkoutID, sessionID string) ([]settlement.AttributionEvent, error)
}

// LedgerDispatcher hands a finished commission ledger to payout processing.
type LedgerDispatcher interface {
	Dispatch(ctx context.Context, orderRef, checkoutID string, base settlement.Money, entries []settlement.LedgerEntry) error
}

// LineInput is the main product line of the request.
type LineInput struct {
	BasePriceCents int64 `json:"basePriceCents" validate:"gte=0"`
	Quantity       int   `json:"quantity" validate:"gte=1"`
	KitSize        int   `json:"kitSize" validate:"gte=1"`
}

// BumpInput is the optional order-bump line. Percent values arrive as decimals
// (e.g. 10 or 9.99) and are converted to basis points at this edge.
type BumpInput struct {
	BasePriceCents  int64   `json:"basePriceCents" validate:"gte=0"`
	DiscountPercent float64 `json:"discountPercent"`
}

// ShippingInput mirrors the shipping selection made by the buyer.
type ShippingInput struct {
	Mode       string `json:"mode" validate:"required"`
	QuoteCents *int64 `json:"quoteCents"`
}

// Input is the settlement request DTO.
type Input struct {
	SessionID     string        `json:"sessionId" validate:"required"`
	OrderRef      string        `json:"orderRef"`
	PaymentMethod string        `json:"paymentMethod" validate:"required"`
	Installments  int           `json:"installments" validate:"gte=0"`
	MainLine      LineInput     `json:"mainLine" validate:"required"`
	Bump          *BumpInput    `json:"bump"`
	Shipping      ShippingInput `json:"shipping" validate:"required"`
}

// ChargeOutput is the charge schedule returned to the storefront.
type ChargeOutput struct {
	PayableCents         int64 `json:"payableCents"`
	ShippingCents        int64 `json:"shippingCents"`
	Installments         int   `json:"installments"`
	PerInstallmentCents  int64 `json:"perInstallmentCents"`
	LastInstallmentCents int64 `json:"lastInstallmentCents"`
	HasInterest          bool  `json:"hasInterest"`
}

// CommissionOutput is one ledger entry returned to the caller.
type CommissionOutput struct {
	Party       string  `json:"party"`
	PartyID     string  `json:"partyId"`
	Kind        string  `json:"kind"`
	Percent     float64 `json:"percent,omitempty"`
	FixedCents  int64   `json:"fixedCents,omitempty"`
	AmountCents int64   `json:"amountCents"`
}

// OptionOutput is one installment option for checkout display.
type OptionOutput struct {
	Installments        int   `json:"installments"`
	PayableCents        int64 `json:"payableCents"`
	PerInstallmentCents int64 `json:"perInstallmentCents"`
	HasInterest         bool  `json:"hasInterest"`
}

// Output is the full settlement response.
type Output struct {
	CheckoutID              string             `json:"checkoutId"`
	OrderRef                string             `json:"orderRef,omitempty"`
	Currency                string             `json:"currency"`
	Charge                  ChargeOutput       `json:"charge"`
	CommissionableBaseCents int64              `json:"commissionableBaseCents"`
	Commissions             []CommissionOutput `json:"commissions"`
	InstallmentOptions      []OptionOutput     `json:"installmentOptions,omitempty"`
}

// Service orchestrates one settlement call.
type Service struct {
	Tenants  SnapshotSource
	Tracking EventSource
	Payouts  LedgerDispatcher
	Validate *validator.Validate
	Currency string
}

// Preview computes the settlement with no side effects.
func (s *Service) Preview(ctx context.Context, checkoutID string, in Input) (Output, error) {
	return s.settle(ctx, checkoutID, in, false)
}

// Settle computes the settlement and dispatches the commission ledger for
// payout processing.
func (s *Service) Settle(ctx context.Context, checkoutID string, in Input) (Output, error) {
	if in.OrderRef == "" {
		return Output{}, errors.New("orderRef is required for settlement submission")
	}
	return s.settle(ctx, checkoutID, in, true)
}

func (s *Service) settle(ctx context.Context, checkoutID string, in Input, dispatch bool) (Output, error) {
	if s == nil || s.Tenants == nil || s.Tracking == nil {
		return Output{}, errors.New("checkout service not configured")
	}
	ctx, span := otel.Tracer("checkout.Service").Start(ctx, "CheckoutService.Settle")
	defer span.End()
	span.SetAttributes(
		attribute.String("checkout.id", checkoutID),
		attribute.String("payment.method", in.PaymentMethod),
		attribute.Int("payment.installments", in.Installments),
	)

	method := settlement.PaymentMethod(in.PaymentMethod)
	result := "error"
	defer func() {
		if obs.SettlementTotal != nil {
			obs.SettlementTotal.WithLabelValues(in.PaymentMethod, result).Inc()
		}
	}()

	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			return Output{}, err
		}
	}

	// An omitted installments field means a single charge. The default lives
	// at this edge only; the engine rejects anything below 1.
	installments := in.Installments
	if installments == 0 {
		installments = 1
	}

	snap, err := s.Tenants.Snapshot(ctx, checkoutID)
	if err != nil {
		return Output{}, err
	}
	span.SetAttributes(attribute.String("tenant.id", snap.TenantID))
	events, err := s.Tracking.Events(ctx, checkoutID, in.SessionID)
	if err != nil {
		return Output{}, err
	}

	req := settlement.Request{
		MainLine: settlement.OrderLine{
			BasePrice: in.MainLine.BasePriceCents,
			Quantity:  in.MainLine.Quantity,
			KitSize:   in.MainLine.KitSize,
		},
		Method:           method,
		Installments:     installments,
		PixDiscountBps:   snap.PixDiscountBps,
		SessionID:        in.SessionID,
		Events:           events,
		Model:            snap.Model,
		Affiliates:       snap.Affiliates,
		Partners:         snap.Partners,
		FeeTable:         snap.FeeTable,
		FeePassedToBuyer: snap.FeePassedToBuyer,
		MaxInstallments:  snap.MaxInstallments,
	}
	if in.Bump != nil {
		req.Bump = &settlement.BumpLine{
			BasePrice:   in.Bump.BasePriceCents,
			DiscountBps: bpsFromPercent(in.Bump.DiscountPercent),
		}
	}
	req.Shipping = settlement.ShippingSpec{Mode: settlement.ShippingMode(in.Shipping.Mode)}
	if in.Shipping.QuoteCents != nil {
		quote := settlement.Money(*in.Shipping.QuoteCents)
		req.Shipping.Quote = &quote
	}

	// The latency histogram tracks the pure engine call only; snapshot and
	// event loads are visible through their own instrumentation.
	engineStart := time.Now()
	res, err := settlement.Settle(req)
	if obs.SettlementDuration != nil {
		obs.SettlementDuration.WithLabelValues(in.PaymentMethod).Observe(obs.DurationMillis(time.Since(engineStart)))
	}
	if err != nil {
		return Output{}, err
	}

	out := Output{
		CheckoutID: checkoutID,
		OrderRef:   in.OrderRef,
		Currency:   s.currency(),
		Charge: ChargeOutput{
			PayableCents:         res.Charge.Payable,
			ShippingCents:        res.Charge.Shipping,
			Installments:         res.Charge.Installments,
			PerInstallmentCents:  res.Charge.PerInstallment,
			LastInstallmentCents: res.Charge.LastInstallment,
			HasInterest:          res.Charge.HasInterest,
		},
		CommissionableBaseCents: res.CommissionableBase,
		Commissions:             make([]CommissionOutput, 0, len(res.Commissions)),
	}
	for _, entry := range res.Commissions {
		out.Commissions = append(out.Commissions, CommissionOutput{
			Party:       string(entry.Party),
			PartyID:     entry.PartyID,
			Kind:        string(entry.Kind),
			Percent:     percentFromBps(entry.PercentBps),
			FixedCents:  entry.FixedCents,
			AmountCents: entry.Amount,
		})
		if obs.CommissionAmountTotal != nil {
			obs.CommissionAmountTotal.WithLabelValues(string(entry.Party)).Add(float64(entry.Amount))
		}
	}

	if method == settlement.PaymentCreditCard {
		options, err := s.installmentOptions(req, snap)
		if err != nil {
			return Output{}, err
		}
		out.InstallmentOptions = options
	}

	if dispatch && s.Payouts != nil {
		if err := s.Payouts.Dispatch(ctx, in.OrderRef, checkoutID, res.CommissionableBase, res.Commissions); err != nil {
			if obs.PayoutDispatchTotal != nil {
				obs.PayoutDispatchTotal.WithLabelValues("enqueue_error").Inc()
			}
			return Output{}, err
		}
	}

	result = "ok"
	return out, nil
}

// installmentOptions enumerates the displayable counts against the same
// subtotal and shipping the settled charge used.
func (s *Service) installmentOptions(req settlement.Request, snap tenant.Snapshot) ([]OptionOutput, error) {
	sub, err := settlement.Subtotal(req.MainLine, req.Bump, req.Method, req.PixDiscountBps)
	if err != nil {
		return nil, err
	}
	quotes, err := settlement.InstallmentOptions(sub.Discounted, snap.FeeTable, snap.FeePassedToBuyer, snap.MaxInstallments)
	if err != nil {
		return nil, err
	}
	shipping := settlement.Money(0)
	if req.Shipping.Mode == settlement.ShippingCalculated && req.Shipping.Quote != nil {
		shipping = *req.Shipping.Quote
	}
	options := make([]OptionOutput, 0, len(quotes))
	for _, q := range quotes {
		total := q.Payable + shipping
		per, _ := settlement.SplitInstallments(total, q.Installments)
		options = append(options, OptionOutput{
			Installments:        q.Installments,
			PayableCents:        total,
			PerInstallmentCents: per,
			HasInterest:         q.HasInterest,
		})
	}
	return options, nil
}

func (s *Service) currency() string {
	if s.Currency == "" {
		return "BRL"
	}
	return s.Currency
}

// bpsFromPercent converts a decimal percent (9.99) to basis points (999).
// Floats are confined to this edge; the engine only sees integers.
func bpsFromPercent(pct float64) int64 {
	return int64(math.Round(pct * 100))
}

func percentFromBps(bps int64) float64 {
	return float64(bps) / 100
}
