package outbox

import (
	"context"
	"encoding/json"
	"time"
)

// Message represents a row claimed from the outbox table.
type Message struct {
	EventID       int64
	EventType     string
	AggregateType string
	AggregateID   int64
	DedupeKey     string
	Payload       json.RawMessage
	Attempts      int
	CreatedAt     time.Time
}

// Source is implemented by stores that keep an outbox table.
type Source interface {
	// ClaimOutbox leases up to limit unpublished messages. A lease older than leaseFor
	// may be claimed again.
	ClaimOutbox(ctx context.Context, limit int, leaseFor time.Duration) ([]Message, error)
	// MarkPublished records successful delivery.
	MarkPublished(ctx context.Context, ids []int64) error
	// MarkFailed releases the lease, bumps the attempt count and parks messages that
	// reached maxAttempts.
	MarkFailed(ctx context.Context, ids []int64, reason string, maxAttempts int) error
}

// Requeuer is implemented by stores that can return parked messages to the pending set.
type Requeuer interface {
	// RequeueParked clears the parked state and attempt count of up to limit parked,
	// unpublished messages and returns how many were requeued.
	RequeueParked(ctx context.Context, limit int) (int, error)
}
