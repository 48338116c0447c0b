package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Priyanshux26/Gym-management-system/internal/outbox"
)

// ClaimOutbox implements outbox.Source. Rows locked by another dispatcher are skipped.
func (s *Store) ClaimOutbox(ctx context.Context, limit int, leaseFor time.Duration) ([]outbox.Message, error) {
	const query = `SELECT event_id, event_type, aggregate_type, aggregate_id, dedupe_key, payload, attempts, created_at
        FROM outbox
        WHERE published_at IS NULL AND parked_at IS NULL
          AND (claimed_at IS NULL OR claimed_at < NOW() - make_interval(secs => $2))
        ORDER BY event_id
        LIMIT $1
        FOR UPDATE SKIP LOCKED`

	var messages []outbox.Message
	err := s.withConn(ctx, "claim_outbox", func(ctx context.Context, conn *pgxpool.Conn) (err error) {
		tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer func() {
			if err != nil {
				tx.Rollback(ctx)
			}
		}()

		rows, err := tx.Query(ctx, query, limit, leaseFor.Seconds())
		if err != nil {
			return err
		}
		ids := make([]int64, 0, limit)
		for rows.Next() {
			var msg outbox.Message
			if err = rows.Scan(&msg.EventID, &msg.EventType, &msg.AggregateType, &msg.AggregateID, &msg.DedupeKey, &msg.Payload, &msg.Attempts, &msg.CreatedAt); err != nil {
				rows.Close()
				return err
			}
			messages = append(messages, msg)
			ids = append(ids, msg.EventID)
		}
		rows.Close()
		if err = rows.Err(); err != nil {
			return err
		}

		if len(ids) > 0 {
			if _, err = tx.Exec(ctx, `UPDATE outbox SET claimed_at = NOW() WHERE event_id = ANY($1)`, ids); err != nil {
				return err
			}
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkPublished implements outbox.Source.
func (s *Store) MarkPublished(ctx context.Context, ids []int64) error {
	return s.withConn(ctx, "mark_published", func(ctx context.Context, conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, `UPDATE outbox SET published_at = NOW(), last_error = NULL WHERE event_id = ANY($1)`, ids)
		return err
	})
}

// MarkFailed implements outbox.Source.
func (s *Store) MarkFailed(ctx context.Context, ids []int64, reason string, maxAttempts int) error {
	const stmt = `UPDATE outbox
        SET attempts = attempts + 1,
            claimed_at = NULL,
            last_error = $2,
            parked_at = CASE WHEN attempts + 1 >= $3 THEN NOW() ELSE NULL END
        WHERE event_id = ANY($1)`

	return s.withConn(ctx, "mark_failed", func(ctx context.Context, conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, stmt, ids, reason, maxAttempts)
		return err
	})
}

// RequeueParked implements outbox.Requeuer.
func (s *Store) RequeueParked(ctx context.Context, limit int) (int, error) {
	const stmt = `UPDATE outbox
        SET parked_at = NULL, claimed_at = NULL, attempts = 0
        WHERE event_id IN (
            SELECT event_id FROM outbox
            WHERE parked_at IS NOT NULL AND published_at IS NULL
            ORDER BY event_id
            LIMIT $1)`

	var requeued int
	err := s.withConn(ctx, "requeue_parked", func(ctx context.Context, conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, stmt, limit)
		requeued = int(tag.RowsAffected())
		return err
	})
	return requeued, err
}
