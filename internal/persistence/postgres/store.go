// Package postgres implements the back-office store on PostgreSQL via pgx.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Priyanshux26/Gym-management-system/internal/domain"
	"github.com/Priyanshux26/Gym-management-system/internal/observability"
	"github.com/Priyanshux26/Gym-management-system/internal/persistence"
)

const driverName = "postgres"

//go:embed schema.sql
var schema string

// Store provides Postgres-backed persistence for records, analytics, staff accounts and the outbox.
// Every call acquires a pooled connection for its own duration.
type Store struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// NewStore constructs a Store over an existing pool.
func NewStore(pool *pgxpool.Pool, queryTimeout time.Duration) *Store {
	return &Store{pool: pool, queryTimeout: queryTimeout}
}

// Open connects a pool to url and verifies it with a ping.
func Open(ctx context.Context, url string, queryTimeout time.Duration) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, domain.Unavailable("postgres.open", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, domain.Unavailable("postgres.ping", err)
	}
	return NewStore(pool, queryTimeout), nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Migrate creates the schema when it is missing.
func (s *Store) Migrate(ctx context.Context) error {
	return s.withConn(ctx, "migrate", func(ctx context.Context, conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, schema)
		return err
	})
}

// withConn runs fn on a connection acquired for this call only. The connection is
// released on every exit path and errors come back classified.
func (s *Store) withConn(ctx context.Context, op string, fn func(context.Context, *pgxpool.Conn) error) (err error) {
	start := time.Now()
	defer func() { observability.RecordStoreQuery(driverName, op, start, err) }()

	ctx, cancel := persistence.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.Unavailable(op, err)
	}
	defer conn.Release()

	if err = fn(ctx, conn); err != nil {
		return classify(op, err)
	}
	return nil
}

// classify maps a pgx error onto the store error taxonomy.
func classify(op string, err error) error {
	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23503":
			return domain.InvalidReference(op, err)
		case strings.HasPrefix(pgErr.Code, "08"),
			strings.HasPrefix(pgErr.Code, "57P0"),
			pgErr.Code == "53300":
			return domain.Unavailable(op, err)
		default:
			return domain.QueryFailed(op, err)
		}
	}
	if pgconn.Timeout(err) || persistence.IsTransient(err) {
		return domain.Unavailable(op, err)
	}
	return domain.QueryFailed(op, err)
}
