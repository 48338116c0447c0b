package analytics_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Priyanshux26/Gym-management-system/internal/analytics"
	"github.com/Priyanshux26/Gym-management-system/internal/domain"
	"github.com/Priyanshux26/Gym-management-system/internal/persistence/memory"
)

func TestComputeReportsEmptyStore(t *testing.T) {
	reports, err := analytics.NewComposer(memory.NewStore()).ComputeReports(context.Background(), now)
	require.NoError(t, err)

	require.Zero(t, reports.MonthlyRevenue)
	require.Zero(t, reports.MemberGrowth)
	require.Zero(t, reports.AvgAttendance)
	require.Equal(t, int64(analytics.PlaceholderClassUtilization), reports.ClassUtilization)
	require.Equal(t, int64(analytics.PlaceholderRevenueGrowth), reports.RevenueGrowth)
	require.Empty(t, reports.MonthlyPayments)
	require.Empty(t, reports.MembershipStats)
	require.Empty(t, reports.ClassPopularity)
	require.Empty(t, reports.TrainerPerformance)
}

func TestComputeReportsMonthlyScalars(t *testing.T) {
	store := memory.NewStore()
	a := addMember(t, store, "gold", date(2024, time.June, 2))
	b := addMember(t, store, "gold", date(2024, time.April, 2))
	c := addClass(t, store, "Yoga", "07:00", nil)

	addPayment(t, store, a.ID, 40, date(2024, time.June, 2))
	addPayment(t, store, b.ID, 60, date(2024, time.May, 30))
	attend(t, store, a.ID, c.ID, date(2024, time.June, 3), 2)
	attend(t, store, b.ID, c.ID, date(2024, time.June, 10), 1)
	attend(t, store, b.ID, c.ID, date(2024, time.May, 10), 4)

	reports, err := analytics.NewComposer(store).ComputeReports(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, 40.0, reports.MonthlyRevenue)
	require.Equal(t, int64(1), reports.MemberGrowth)
	require.Equal(t, int64(150), reports.AvgAttendance)
}

func TestMonthlyPaymentsTrailingWindow(t *testing.T) {
	store := memory.NewStore()
	m := addMember(t, store, "gold", date(2023, time.January, 1))

	addPayment(t, store, m.ID, 999, date(2023, time.December, 31))
	addPayment(t, store, m.ID, 10, date(2024, time.January, 1))
	addPayment(t, store, m.ID, 15, date(2024, time.March, 10))
	addPayment(t, store, m.ID, 5, date(2024, time.March, 20))
	addPayment(t, store, m.ID, 7, date(2024, time.June, 15))
	addPayment(t, store, m.ID, 500, date(2024, time.June, 20))

	reports, err := analytics.NewComposer(store).ComputeReports(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, []analytics.MonthlyPayment{
		{Month: "2024-06", TotalAmount: 7, PaymentCount: 1},
		{Month: "2024-03", TotalAmount: 20, PaymentCount: 2},
		{Month: "2024-01", TotalAmount: 10, PaymentCount: 1},
	}, reports.MonthlyPayments)
}

func TestMonthlyPaymentsWindowCrossesYear(t *testing.T) {
	store := memory.NewStore()
	m := addMember(t, store, "gold", date(2023, time.January, 1))
	addPayment(t, store, m.ID, 1, date(2023, time.September, 30))
	addPayment(t, store, m.ID, 2, date(2023, time.October, 1))
	addPayment(t, store, m.ID, 3, date(2024, time.March, 1))

	reports, err := analytics.NewComposer(store).ComputeReports(context.Background(), date(2024, time.March, 1))
	require.NoError(t, err)
	require.Len(t, reports.MonthlyPayments, 2)
	require.Equal(t, "2024-03", reports.MonthlyPayments[0].Month)
	require.Equal(t, "2023-10", reports.MonthlyPayments[1].Month)
}

func TestMembershipStatsSingleType(t *testing.T) {
	store := memory.NewStore()
	for i := 0; i < 3; i++ {
		addMember(t, store, "gold", date(2024, time.January, 1))
	}

	reports, err := analytics.NewComposer(store).ComputeReports(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, []analytics.MembershipStat{{Type: "gold", Count: 3, Percentage: 100.0}}, reports.MembershipStats)
}

func TestMembershipStatsSumToHundred(t *testing.T) {
	store := memory.NewStore()
	for typ, n := range map[string]int{"gold": 2, "silver": 3, "basic": 2, "vip": 1} {
		for i := 0; i < n; i++ {
			addMember(t, store, typ, date(2024, time.January, 1))
		}
	}

	reports, err := analytics.NewComposer(store).ComputeReports(context.Background(), now)
	require.NoError(t, err)

	var sum float64
	for _, stat := range reports.MembershipStats {
		sum += stat.Percentage
	}
	require.InDelta(t, 100.0, sum, 0.05*float64(len(reports.MembershipStats)))

	require.Equal(t, []analytics.MembershipStat{
		{Type: "silver", Count: 3, Percentage: 37.5},
		{Type: "basic", Count: 2, Percentage: 25},
		{Type: "gold", Count: 2, Percentage: 25},
		{Type: "vip", Count: 1, Percentage: 12.5},
	}, reports.MembershipStats)
}

func TestClassPopularityCappedAndOrdered(t *testing.T) {
	store := memory.NewStore()
	m := addMember(t, store, "gold", date(2024, time.January, 1))
	for i := 0; i < 12; i++ {
		c := addClass(t, store, fmt.Sprintf("class-%02d", i), "09:00", nil)
		attend(t, store, m.ID, c.ID, date(2024, time.June, 1), i%4)
	}

	reports, err := analytics.NewComposer(store).ComputeReports(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, reports.ClassPopularity, analytics.ClassPopularityLimit)
	for i := 1; i < len(reports.ClassPopularity); i++ {
		require.GreaterOrEqual(t, reports.ClassPopularity[i-1].AttendanceCount, reports.ClassPopularity[i].AttendanceCount)
	}
	require.Equal(t, "class-03", reports.ClassPopularity[0].ClassName)
	require.Equal(t, "class-07", reports.ClassPopularity[1].ClassName)
	require.Equal(t, "class-00", reports.ClassPopularity[9].ClassName)
	require.Zero(t, reports.ClassPopularity[9].AttendanceCount)
}

func TestClassPopularityIncludesUnattendedClasses(t *testing.T) {
	store := memory.NewStore()
	addClass(t, store, "Pilates", "10:00", nil)

	reports, err := analytics.NewComposer(store).ComputeReports(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, []analytics.ClassPopularity{{ClassName: "Pilates", Time: "10:00"}}, reports.ClassPopularity)
}

func TestTrainerPerformance(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := addMember(t, store, "gold", date(2024, time.January, 1))

	idle, err := store.CreateTrainer(ctx, domain.Trainer{Name: "Idle", Specialty: "rest"})
	require.NoError(t, err)
	busy, err := store.CreateTrainer(ctx, domain.Trainer{Name: "Busy", Specialty: "hiit"})
	require.NoError(t, err)
	solo, err := store.CreateTrainer(ctx, domain.Trainer{Name: "Solo", Specialty: "yoga"})
	require.NoError(t, err)

	c1 := addClass(t, store, "HIIT AM", "06:00", &busy.ID)
	addClass(t, store, "HIIT Noon", "12:00", &busy.ID)
	c3 := addClass(t, store, "HIIT PM", "18:00", &busy.ID)
	c4 := addClass(t, store, "Yoga", "08:00", &solo.ID)
	attend(t, store, m.ID, c1.ID, date(2024, time.June, 1), 3)
	attend(t, store, m.ID, c3.ID, date(2024, time.June, 1), 2)
	attend(t, store, m.ID, c4.ID, date(2024, time.June, 1), 4)

	reports, err := analytics.NewComposer(store).ComputeReports(ctx, now)
	require.NoError(t, err)
	require.Equal(t, []analytics.TrainerPerformance{
		{Name: busy.Name, Specialty: "hiit", Classes: 3, AvgAttendance: 2},
		{Name: solo.Name, Specialty: "yoga", Classes: 1, AvgAttendance: 4},
		{Name: idle.Name, Specialty: "rest", Classes: 0, AvgAttendance: 0},
	}, reports.TrainerPerformance)
}

func TestTrainerWithoutClasses(t *testing.T) {
	store := memory.NewStore()
	_, err := store.CreateTrainer(context.Background(), domain.Trainer{Name: "New", Specialty: "boxing"})
	require.NoError(t, err)

	reports, err := analytics.NewComposer(store, analytics.WithConcurrency(1)).ComputeReports(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, reports.TrainerPerformance, 1)
	require.Zero(t, reports.TrainerPerformance[0].Classes)
	require.Zero(t, reports.TrainerPerformance[0].AvgAttendance)
}

func TestComputeReportsReturnsNoPartialData(t *testing.T) {
	store := memory.NewStore()
	addMember(t, store, "gold", date(2024, time.January, 1))
	cause := domain.QueryFailed("trainer_loads", errors.New("relation \"trainers\" does not exist"))

	reports, err := analytics.NewComposer(&failingStore{Store: store, err: cause}).ComputeReports(context.Background(), now)
	require.ErrorIs(t, err, domain.ErrQueryFailure)
	require.Equal(t, analytics.Reports{}, reports)
}
