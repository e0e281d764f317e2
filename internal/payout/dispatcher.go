package payout

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"

	"github.com/noah-isme/backend-vitrine/internal/settlement"
)

// Dispatcher enqueues commission ledgers for the payout worker.
type Dispatcher struct {
	Client *asynq.Client
	Queue  string
}

// Dispatch enqueues the ledger of one settled order. Tasks are unique per
// order reference so a retried checkout submission does not double-credit.
func (d *Dispatcher) Dispatch(ctx context.Context, orderRef, checkoutID string, base settlement.Money, entries []settlement.LedgerEntry) error {
	if d == nil || d.Client == nil {
		return errors.New("payout dispatcher not configured")
	}
	task, err := NewLedgerTask(orderRef, checkoutID, base, entries, time.Now().UTC())
	if err != nil {
		return err
	}
	queue := d.Queue
	if queue == "" {
		queue = "payouts"
	}
	_, err = d.Client.EnqueueContext(ctx, task,
		asynq.Queue(queue),
		asynq.TaskID(orderRef),
		asynq.Retention(24*time.Hour),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}
