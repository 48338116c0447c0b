package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// ClassPopularityLimit caps the class popularity view.
	ClassPopularityLimit = 10

	// PlaceholderClassUtilization is a fixed stub value, not derived from data.
	PlaceholderClassUtilization = 75
	// PlaceholderRevenueGrowth is a fixed stub value, not derived from data.
	PlaceholderRevenueGrowth = 12
)

// MonthlyPayment is one row of the monthly payments view.
type MonthlyPayment struct {
	Month        string  `json:"month"`
	TotalAmount  float64 `json:"total"`
	PaymentCount int64   `json:"count"`
}

// MembershipStat is one row of the membership distribution view.
type MembershipStat struct {
	Type       string  `json:"type"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ClassPopularity is one row of the class popularity view.
type ClassPopularity struct {
	ClassName       string `json:"name"`
	Time            string `json:"time"`
	AttendanceCount int64  `json:"attendance"`
}

// TrainerPerformance is one row of the trainer ranking view.
type TrainerPerformance struct {
	Name          string `json:"name"`
	Specialty     string `json:"specialty"`
	Classes       int64  `json:"classes"`
	AvgAttendance int64  `json:"avg_attendance"`
}

// Reports bundles the report views and scalars.
type Reports struct {
	MonthlyRevenue   float64 `json:"monthly_revenue"`
	MemberGrowth     int64   `json:"member_growth"`
	AvgAttendance    int64   `json:"avg_attendance"`
	ClassUtilization int64   `json:"class_utilization"`
	RevenueGrowth    int64   `json:"revenue_growth"`

	MonthlyPayments    []MonthlyPayment     `json:"monthly_payments"`
	MembershipStats    []MembershipStat     `json:"membership_stats"`
	ClassPopularity    []ClassPopularity    `json:"class_popularity"`
	TrainerPerformance []TrainerPerformance `json:"trainer_performance"`
}

// Composer computes grouped and joined report views.
type Composer struct {
	store       Store
	concurrency int
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithConcurrency bounds how many store queries run at once. Values below 1 mean sequential.
func WithConcurrency(n int) ComposerOption {
	return func(c *Composer) {
		if n < 1 {
			n = 1
		}
		c.concurrency = n
	}
}

// NewComposer constructs a Composer.
func NewComposer(store Store, opts ...ComposerOption) *Composer {
	c := &Composer{store: store, concurrency: 4}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ComputeReports builds every report view as of now. Either the full bundle is returned or
// the first store error, in which case no partial data is returned.
func (c *Composer) ComputeReports(ctx context.Context, now time.Time) (Reports, error) {
	out := Reports{
		ClassUtilization: PlaceholderClassUtilization,
		RevenueGrowth:    PlaceholderRevenueGrowth,
	}
	month := CalendarMonth(now)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	g.Go(func() (err error) {
		out.MonthlyRevenue, err = c.store.SumPayments(gctx, month)
		return err
	})
	g.Go(func() (err error) {
		out.MemberGrowth, err = c.store.CountMembersStarted(gctx, month)
		return err
	})
	g.Go(func() error {
		avg, err := c.avgAttendance(gctx, month)
		out.AvgAttendance = avg
		return err
	})
	g.Go(func() (err error) {
		out.MonthlyPayments, err = c.monthlyPayments(gctx, now)
		return err
	})
	g.Go(func() (err error) {
		out.MembershipStats, err = c.membershipStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.ClassPopularity, err = c.classPopularity(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TrainerPerformance, err = c.trainerPerformance(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return Reports{}, err
	}
	return out, nil
}

func (c *Composer) avgAttendance(ctx context.Context, month DateRange) (int64, error) {
	members, err := c.store.CountMembers(ctx)
	if err != nil {
		return 0, err
	}
	attended, err := c.store.CountAttendance(ctx, month)
	if err != nil {
		return 0, err
	}
	return percent(attended, members), nil
}

func (c *Composer) monthlyPayments(ctx context.Context, now time.Time) ([]MonthlyPayment, error) {
	window := TrailingWindow(now, TrailingMonths)
	rows, err := c.store.MonthlyPayments(ctx, window)
	if err != nil {
		return nil, err
	}

	first := window.From.Format("2006-01")
	last := now.Format("2006-01")
	out := make([]MonthlyPayment, 0, len(rows))
	for _, row := range rows {
		if row.Count == 0 || row.Month < first || row.Month > last {
			continue
		}
		out = append(out, MonthlyPayment{Month: row.Month, TotalAmount: row.Amount, PaymentCount: row.Count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

func (c *Composer) membershipStats(ctx context.Context) ([]MembershipStat, error) {
	rows, err := c.store.MembershipCounts(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, row := range rows {
		total += row.Count
	}
	out := make([]MembershipStat, 0, len(rows))
	if total == 0 {
		return out, nil
	}
	for _, row := range rows {
		if row.Count == 0 {
			continue
		}
		out = append(out, MembershipStat{
			Type:       row.Type,
			Count:      row.Count,
			Percentage: roundTenth(float64(row.Count) * 100 / float64(total)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

func (c *Composer) classPopularity(ctx context.Context) ([]ClassPopularity, error) {
	rows, err := c.store.ClassAttendance(ctx)
	if err != nil {
		return nil, err
	}

	sorted := make([]ClassAttendance, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Attendance != sorted[j].Attendance {
			return sorted[i].Attendance > sorted[j].Attendance
		}
		return sorted[i].ClassID < sorted[j].ClassID
	})
	if len(sorted) > ClassPopularityLimit {
		sorted = sorted[:ClassPopularityLimit]
	}

	out := make([]ClassPopularity, 0, len(sorted))
	for _, row := range sorted {
		out = append(out, ClassPopularity{ClassName: row.ClassName, Time: row.Time, AttendanceCount: row.Attendance})
	}
	return out, nil
}

func (c *Composer) trainerPerformance(ctx context.Context) ([]TrainerPerformance, error) {
	loads, err := c.store.TrainerLoads(ctx)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		id  int64
		row TrainerPerformance
	}
	items := make([]ranked, 0, len(loads))
	for _, load := range loads {
		var avg int64
		if load.AttendedClasses > 0 {
			avg = int64(math.RoundToEven(float64(load.AttendanceTotal) / float64(load.AttendedClasses)))
		}
		items = append(items, ranked{id: load.TrainerID, row: TrainerPerformance{
			Name:          load.Name,
			Specialty:     load.Specialty,
			Classes:       load.Classes,
			AvgAttendance: avg,
		}})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.row.Classes != b.row.Classes {
			return a.row.Classes > b.row.Classes
		}
		if a.row.AvgAttendance != b.row.AvgAttendance {
			return a.row.AvgAttendance > b.row.AvgAttendance
		}
		return a.id < b.id
	})

	out := make([]TrainerPerformance, 0, len(items))
	for _, item := range items {
		out = append(out, item.row)
	}
	return out, nil
}
