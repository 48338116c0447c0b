package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Priyanshux26/Gym-management-system/internal/analytics"
)

func TestRangeWhere(t *testing.T) {
	from := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	asText := func(t time.Time) any { return t.Format("2006-01-02") }

	args := NumberedArgs("x")
	clause := RangeWhere("payment_date", analytics.DateRange{From: from, To: to}, args, asText, "::date")
	require.Equal(t, " WHERE payment_date >= $2::date AND payment_date < $3::date", clause)
	require.Equal(t, []any{"x", "2024-03-01", "2024-04-01"}, args.Values())

	args = PositionalArgs()
	clause = RangeWhere("date", analytics.DateRange{To: to}, args, asText, "")
	require.Equal(t, " WHERE date < ?", clause)
	require.Equal(t, []any{"2024-04-01"}, args.Values())

	args = PositionalArgs()
	require.Empty(t, RangeWhere("date", analytics.DateRange{}, args, asText, ""))
	require.Empty(t, args.Values())
}

func TestIsTransient(t *testing.T) {
	require.True(t, IsTransient(context.DeadlineExceeded))
	require.True(t, IsTransient(fmt.Errorf("scan: %w", sql.ErrConnDone)))
	require.False(t, IsTransient(errors.New("syntax error at or near SELEC")))
	require.False(t, IsTransient(nil))
}

func TestDedupeKey(t *testing.T) {
	require.Equal(t, "payment:42:payment.recorded", DedupeKey("payment", 42, "payment.recorded"))
}
