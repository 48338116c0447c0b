package analytics

import (
	"context"
	"time"
)

// Metrics is the fixed set of dashboard KPIs.
type Metrics struct {
	TotalRevenue        float64 `json:"total_revenue"`
	TotalMembers        int64   `json:"total_members"`
	NewMembersThisMonth int64   `json:"new_members_this_month"`
	TotalClasses        int64   `json:"total_classes"`
	TotalTrainers       int64   `json:"total_trainers"`
	TodayAttendance     int64   `json:"today_attendance"`
	TodayPayments       float64 `json:"today_payments"`
	// AttendanceRate is today's attendance as a rounded percentage of all members.
	// It is not capped at 100.
	AttendanceRate int64 `json:"attendance_rate"`
}

// Aggregator computes single-value analytics.
type Aggregator struct {
	store Store
}

// NewAggregator constructs an Aggregator.
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// ComputeMetrics evaluates every KPI against the store as of now.
// The first store error aborts the computation and is returned unchanged.
func (a *Aggregator) ComputeMetrics(ctx context.Context, now time.Time) (Metrics, error) {
	var (
		m   Metrics
		err error
	)
	today := Today(now)

	if m.TotalRevenue, err = a.store.SumPayments(ctx, DateRange{}); err != nil {
		return Metrics{}, err
	}
	if m.TotalMembers, err = a.store.CountMembers(ctx); err != nil {
		return Metrics{}, err
	}
	if m.NewMembersThisMonth, err = a.store.CountMembersStarted(ctx, CalendarMonth(now)); err != nil {
		return Metrics{}, err
	}
	if m.TotalClasses, err = a.store.CountClasses(ctx); err != nil {
		return Metrics{}, err
	}
	if m.TotalTrainers, err = a.store.CountTrainers(ctx); err != nil {
		return Metrics{}, err
	}
	if m.TodayAttendance, err = a.store.CountAttendance(ctx, today); err != nil {
		return Metrics{}, err
	}
	if m.TodayPayments, err = a.store.SumPayments(ctx, today); err != nil {
		return Metrics{}, err
	}

	m.AttendanceRate = percent(m.TodayAttendance, m.TotalMembers)
	return m, nil
}
