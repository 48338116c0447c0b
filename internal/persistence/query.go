// Package persistence contains helpers shared by the store implementations.
package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/Priyanshux26/Gym-management-system/internal/analytics"
)

// Args collects bound query parameters and renders their placeholders.
type Args struct {
	numbered bool
	values   []any
}

// NumberedArgs renders $1, $2, ... placeholders (Postgres).
func NumberedArgs(initial ...any) *Args {
	return &Args{numbered: true, values: initial}
}

// PositionalArgs renders ? placeholders (SQLite).
func PositionalArgs(initial ...any) *Args {
	return &Args{values: initial}
}

// Bind appends v and returns its placeholder.
func (a *Args) Bind(v any) string {
	a.values = append(a.values, v)
	if a.numbered {
		return "$" + strconv.Itoa(len(a.values))
	}
	return "?"
}

// Values returns the bound parameters in order.
func (a *Args) Values() []any {
	return a.values
}

// RangeWhere renders a WHERE clause restricting column to r, or "" for an unbounded range.
// encode converts a bound to the driver's date representation and cast is appended to
// each placeholder (for example "::date").
func RangeWhere(column string, r analytics.DateRange, args *Args, encode func(time.Time) any, cast string) string {
	var conds []string
	if !r.From.IsZero() {
		conds = append(conds, column+" >= "+args.Bind(encode(r.From))+cast)
	}
	if !r.To.IsZero() {
		conds = append(conds, column+" < "+args.Bind(encode(r.To))+cast)
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// IsTransient reports driver-independent signs that the store is unreachable.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// WithTimeout applies the per-query timeout when one is configured.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// DedupeKey identifies a record event for downstream idempotency.
func DedupeKey(aggregateType string, aggregateID int64, eventType string) string {
	return aggregateType + ":" + strconv.FormatInt(aggregateID, 10) + ":" + eventType
}
