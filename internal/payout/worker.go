package payout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-vitrine/internal/lock"
	"github.com/noah-isme/backend-vitrine/internal/obs"
)

// Processor consumes ledger dispatch tasks. The actual balance crediting is
// the payout system's job; this worker validates, logs and measures handoff.
type Processor struct {
	Logger  zerolog.Logger
	Locks   lock.Locker
	LockTTL time.Duration
}

// ProcessTask implements asynq.Handler. When a locker is configured, ledgers
// for the same order reference are processed one at a time.
func (p *Processor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload LedgerPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// Malformed payloads can never succeed; skip retries.
		return fmt.Errorf("payout: decode ledger payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.Locks.R == nil {
		return p.process(payload)
	}
	ttl := p.LockTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return p.Locks.WithLock(ctx, "payout:lock:"+payload.OrderRef, ttl, func(context.Context) error {
		return p.process(payload)
	})
}

func (p *Processor) process(payload LedgerPayload) error {
	var total int64
	for _, entry := range payload.Entries {
		total += entry.Amount
		p.Logger.Info().
			Str("order_ref", payload.OrderRef).
			Str("checkout_id", payload.CheckoutID).
			Str("party", entry.Party).
			Str("party_id", entry.PartyID).
			Str("kind", entry.Kind).
			Int64("amount_cents", entry.Amount).
			Msg("commission_entry_dispatched")
	}
	p.Logger.Info().
		Str("order_ref", payload.OrderRef).
		Int("entries", len(payload.Entries)).
		Int64("total_cents", total).
		Int64("base_cents", payload.Base).
		Msg("ledger_dispatched")
	if obs.PayoutDispatchTotal != nil {
		obs.PayoutDispatchTotal.WithLabelValues("ok").Inc()
	}
	return nil
}
