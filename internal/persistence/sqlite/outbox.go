package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Priyanshux26/Gym-management-system/internal/outbox"
	"github.com/Priyanshux26/Gym-management-system/internal/persistence"
)

// ClaimOutbox implements outbox.Source. The claim runs in an immediate transaction so
// concurrent dispatchers serialise on the database write lock.
func (s *Store) ClaimOutbox(ctx context.Context, limit int, leaseFor time.Duration) ([]outbox.Message, error) {
	const query = `SELECT event_id, event_type, aggregate_type, aggregate_id, dedupe_key, payload, attempts, created_at
        FROM outbox
        WHERE published_at IS NULL AND parked_at IS NULL
          AND (claimed_at IS NULL OR claimed_at < ?)
        ORDER BY event_id
        LIMIT ?`

	now := time.Now()
	var messages []outbox.Message
	err := s.withTx(ctx, "claim_outbox", func(ctx context.Context, tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, timestamp(now.Add(-leaseFor)), limit)
		if err != nil {
			return err
		}
		for rows.Next() {
			var (
				msg     outbox.Message
				payload string
				created string
			)
			if err := rows.Scan(&msg.EventID, &msg.EventType, &msg.AggregateType, &msg.AggregateID, &msg.DedupeKey, &payload, &msg.Attempts, &created); err != nil {
				rows.Close()
				return err
			}
			msg.Payload = []byte(payload)
			msg.CreatedAt, _ = time.Parse(timestampLayout, created)
			messages = append(messages, msg)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if len(messages) == 0 {
			return nil
		}

		args := persistence.PositionalArgs(timestamp(now))
		_, err = tx.ExecContext(ctx, `UPDATE outbox SET claimed_at = ? WHERE event_id IN (`+bindIDs(args, messageIDs(messages))+`)`, args.Values()...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkPublished implements outbox.Source.
func (s *Store) MarkPublished(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	args := persistence.PositionalArgs(timestamp(time.Now()))
	stmt := `UPDATE outbox SET published_at = ?, last_error = NULL WHERE event_id IN (` + bindIDs(args, ids) + `)`
	return s.withConn(ctx, "mark_published", func(ctx context.Context, conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, stmt, args.Values()...)
		return err
	})
}

// MarkFailed implements outbox.Source.
func (s *Store) MarkFailed(ctx context.Context, ids []int64, reason string, maxAttempts int) error {
	if len(ids) == 0 {
		return nil
	}
	args := persistence.PositionalArgs(reason, maxAttempts, timestamp(time.Now()))
	stmt := `UPDATE outbox
        SET attempts = attempts + 1,
            claimed_at = NULL,
            last_error = ?,
            parked_at = CASE WHEN attempts + 1 >= ? THEN ? ELSE NULL END
        WHERE event_id IN (` + bindIDs(args, ids) + `)`
	return s.withConn(ctx, "mark_failed", func(ctx context.Context, conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, stmt, args.Values()...)
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
            LIMIT ?)`

	var requeued int64
	err := s.withConn(ctx, "requeue_parked", func(ctx context.Context, conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, stmt, limit)
		if err != nil {
			return err
		}
		requeued, err = res.RowsAffected()
		return err
	})
	return int(requeued), err
}

func bindIDs(args *persistence.Args, ids []int64) string {
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, args.Bind(id))
	}
	return strings.Join(placeholders, ",")
}

func messageIDs(messages []outbox.Message) []int64 {
	ids := make([]int64, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.EventID)
	}
	return ids
}
