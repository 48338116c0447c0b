package outbox

import (
	"context"

	"go.uber.org/zap"
)

// Requeue returns up to limit parked messages to the pending set so the dispatcher retries
// them with a fresh attempt budget.
func Requeue(ctx context.Context, store Requeuer, limit int, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	n, err := store.RequeueParked(ctx, limit)
	if err != nil {
		return 0, err
	}
	requeuedCounter.Add(float64(n))
	if n > 0 {
		logger.Info("requeued parked outbox events", zap.Int("count", n))
	}
	return n, nil
}

// Drain processes batches until the outbox has nothing left to claim and returns the total
// number of messages delivered.
func (d *Dispatcher) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := d.ProcessBatch(ctx)
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
	}
}
