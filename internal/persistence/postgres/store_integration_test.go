//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/Priyanshux26/Gym-management-system/internal/analytics"
	"github.com/Priyanshux26/Gym-management-system/internal/domain"
)

func TestStoreAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	store := startStore(t, ctx)

	now := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }

	gold, err := store.CreateMember(ctx, domain.Member{Name: "Ana", MembershipType: "gold", StartDate: day(time.June, 1)})
	require.NoError(t, err)
	_, err = store.CreateMember(ctx, domain.Member{Name: "Ben", MembershipType: "basic", StartDate: day(time.March, 3)})
	require.NoError(t, err)

	trainer, err := store.CreateTrainer(ctx, domain.Trainer{Name: "Sam", Specialty: "yoga"})
	require.NoError(t, err)
	yoga, err := store.CreateClass(ctx, domain.Class{Name: "Yoga", TrainerID: &trainer.ID, Time: "07:00"})
	require.NoError(t, err)
	_, err = store.CreateClass(ctx, domain.Class{Name: "Open gym", Time: "12:00"})
	require.NoError(t, err)

	_, err = store.CreatePayment(ctx, domain.Payment{MemberID: gold.ID, Amount: 50, PaymentDate: day(time.June, 15)})
	require.NoError(t, err)
	_, err = store.CreatePayment(ctx, domain.Payment{MemberID: gold.ID, Amount: 30, PaymentDate: day(time.April, 2)})
	require.NoError(t, err)
	_, err = store.CreateAttendance(ctx, domain.Attendance{MemberID: gold.ID, ClassID: yoga.ID, Date: day(time.June, 15)})
	require.NoError(t, err)

	_, err = store.CreatePayment(ctx, domain.Payment{MemberID: 9999, Amount: 1, PaymentDate: day(time.June, 15)})
	require.ErrorIs(t, err, domain.ErrInvalidReference)

	metrics, err := analytics.NewAggregator(store).ComputeMetrics(ctx, now)
	require.NoError(t, err)
	require.Equal(t, analytics.Metrics{
		TotalRevenue:        80,
		TotalMembers:        2,
		NewMembersThisMonth: 1,
		TotalClasses:        2,
		TotalTrainers:       1,
		TodayAttendance:     1,
		TodayPayments:       50,
		AttendanceRate:      50,
	}, metrics)

	reports, err := analytics.NewComposer(store).ComputeReports(ctx, now)
	require.NoError(t, err)
	require.Equal(t, []analytics.MonthlyPayment{
		{Month: "2024-06", TotalAmount: 50, PaymentCount: 1},
		{Month: "2024-04", TotalAmount: 30, PaymentCount: 1},
	}, reports.MonthlyPayments)
	require.Equal(t, []analytics.TrainerPerformance{{Name: "Sam", Specialty: "yoga", Classes: 1, AvgAttendance: 1}}, reports.TrainerPerformance)
	require.Len(t, reports.ClassPopularity, 2)
	require.Equal(t, "Yoga", reports.ClassPopularity[0].ClassName)

	claimed, err := store.ClaimOutbox(ctx, 100, time.Minute)
	require.NoError(t, err)
	require.Len(t, claimed, 8)
	again, err := store.ClaimOutbox(ctx, 100, time.Minute)
	require.NoError(t, err)
	require.Empty(t, again)

	ids := make([]int64, 0, len(claimed))
	for _, msg := range claimed {
		ids = append(ids, msg.EventID)
	}
	require.NoError(t, store.MarkPublished(ctx, ids))
}

func TestUsersAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	store := startStore(t, ctx)

	created, err := store.UpsertUser(ctx, domain.User{Username: "Front", PasswordHash: "h1", Role: "receptionist"})
	require.NoError(t, err)
	updated, err := store.UpsertUser(ctx, domain.User{Username: "front", PasswordHash: "h2", Role: "admin"})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)

	found, err := store.FindUserByUsername(ctx, "FRONT")
	require.NoError(t, err)
	require.Equal(t, "h2", found.PasswordHash)

	_, err = store.FindUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func startStore(t *testing.T, ctx context.Context) *Store {
	t.Helper()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("gym"),
		postgrescontainer.WithUsername("gym"),
		postgrescontainer.WithPassword("gym"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	store, err := Open(ctx, connStr, 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	require.NoError(t, store.Migrate(ctx))
	return store
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
