// Package sqlite implements the back-office store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Priyanshux26/Gym-management-system/internal/domain"
	"github.com/Priyanshux26/Gym-management-system/internal/observability"
	"github.com/Priyanshux26/Gym-management-system/internal/persistence"
)

const (
	driverName = "sqlite"
	// timestampLayout is fixed width so stored timestamps compare correctly as text.
	timestampLayout = "2006-01-02T15:04:05.000000Z"
)

//go:embed schema.sql
var schema string

// Store provides SQLite-backed persistence. Dates are stored as YYYY-MM-DD text.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// NewStore constructs a Store over an open handle.
func NewStore(db *sql.DB, queryTimeout time.Duration) *Store {
	return &Store{db: db, queryTimeout: queryTimeout}
}

// Open opens the database file at path, creating parent directories as needed.
func Open(path string, queryTimeout time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, domain.Unavailable("sqlite.open", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate", path)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, domain.Unavailable("sqlite.open", err)
	}
	return NewStore(db, queryTimeout), nil
}

// Close releases the database handle.
func (s *Store) Close() {
	_ = s.db.Close()
}

// Migrate creates the schema when it is missing.
func (s *Store) Migrate(ctx context.Context) error {
	return s.withConn(ctx, "migrate", func(ctx context.Context, conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, schema)
		return err
	})
}

// withConn runs fn on a connection reserved for this call only.
func (s *Store) withConn(ctx context.Context, op string, fn func(context.Context, *sql.Conn) error) (err error) {
	start := time.Now()
	defer func() { observability.RecordStoreQuery(driverName, op, start, err) }()

	ctx, cancel := persistence.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return domain.Unavailable(op, err)
	}
	defer conn.Close()

	if err = fn(ctx, conn); err != nil {
		return classify(op, err)
	}
	return nil
}

// withTx runs fn inside a transaction on a reserved connection.
func (s *Store) withTx(ctx context.Context, op string, fn func(context.Context, *sql.Tx) error) error {
	return s.withConn(ctx, op, func(ctx context.Context, conn *sql.Conn) (err error) {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() {
			if err != nil {
				_ = tx.Rollback()
			}
		}()

		if err = fn(ctx, tx); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// classify maps a driver error onto the store error taxonomy.
func classify(op string, err error) error {
	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		return err
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
			return domain.InvalidReference(op, err)
		}
		// Extended result codes carry the primary code in the low byte.
		switch code & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR:
			return domain.Unavailable(op, err)
		}
		return domain.QueryFailed(op, err)
	}
	if persistence.IsTransient(err) {
		return domain.Unavailable(op, err)
	}
	return domain.QueryFailed(op, err)
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func asDate(t time.Time) any { return formatDate(t) }

func parseDate(value string, dest *time.Time) error {
	parsed, err := domain.ParseDate(value)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", value, err)
	}
	*dest = parsed
	return nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
