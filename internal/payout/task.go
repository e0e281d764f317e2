// Package payout hands finished commission ledgers to the external payout
// processor through the task queue. Crediting balances is not done here.
package payout

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"

	"github.com/noah-isme/backend-vitrine/internal/settlement"
)

// TypeLedgerDispatch is the task type consumed by the payout worker.
const TypeLedgerDispatch = "payout:ledger_dispatch"

// LedgerPayload is the wire form of one settled order's commission ledger.
type LedgerPayload struct {
	OrderRef   string                   `json:"orderRef"`
	CheckoutID string                   `json:"checkoutId"`
	SettledAt  time.Time                `json:"settledAt"`
	Base       settlement.Money         `json:"commissionableBaseCents"`
	Entries    []LedgerEntryPayload     `json:"entries"`
}

// LedgerEntryPayload mirrors settlement.LedgerEntry for queue transport.
type LedgerEntryPayload struct {
	Party      string           `json:"party"`
	PartyID    string           `json:"partyId"`
	Kind       string           `json:"kind"`
	PercentBps int64            `json:"percentBps"`
	FixedCents settlement.Money `json:"fixedCents"`
	Amount     settlement.Money `json:"amountCents"`
}

// NewLedgerTask builds the queue task for one settlement result.
func NewLedgerTask(orderRef, checkoutID string, base settlement.Money, entries []settlement.LedgerEntry, settledAt time.Time) (*asynq.Task, error) {
	if orderRef == "" {
		return nil, errors.New("payout: order reference is required")
	}
	payload := LedgerPayload{
		OrderRef:   orderRef,
		CheckoutID: checkoutID,
		SettledAt:  settledAt,
		Base:       base,
		Entries:    make([]LedgerEntryPayload, 0, len(entries)),
	}
	for _, e := range entries {
		payload.Entries = append(payload.Entries, LedgerEntryPayload{
			Party:      string(e.Party),
			PartyID:    e.PartyID,
			Kind:       string(e.Kind),
			PercentBps: e.PercentBps,
			FixedCents: e.FixedCents,
			Amount:     e.Amount,
		})
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeLedgerDispatch, encoded), nil
}
