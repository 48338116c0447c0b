package memory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Priyanshux26/Gym-management-system/internal/domain"
)

func TestCreateRejectsMissingReferences(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.CreatePayment(ctx, domain.Payment{MemberID: 404, Amount: 10})
	require.ErrorIs(t, err, domain.ErrInvalidReference)
	require.ErrorIs(t, err, domain.ErrQueryFailure)

	missing := int64(9)
	_, err = store.CreateClass(ctx, domain.Class{Name: "Spin", Time: "07:00", TrainerID: &missing})
	require.ErrorIs(t, err, domain.ErrInvalidReference)

	m, err := store.CreateMember(ctx, domain.Member{Name: "Ana", MembershipType: "gold"})
	require.NoError(t, err)
	_, err = store.CreateAttendance(ctx, domain.Attendance{MemberID: m.ID, ClassID: 77})
	require.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	day := func(d int) time.Time { return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC) }

	for _, d := range []int{3, 9, 1, 9} {
		_, err := store.CreateMember(ctx, domain.Member{Name: "m", MembershipType: "basic", StartDate: day(d)})
		require.NoError(t, err)
	}

	recent, err := store.RecentMembers(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	require.Equal(t, day(9), recent[0].StartDate)
	require.Greater(t, recent[0].ID, recent[1].ID)
	require.Equal(t, day(3), recent[2].StartDate)
}

func TestUpsertUserKeepsID(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	first, err := store.UpsertUser(ctx, domain.User{Username: "Admin", PasswordHash: "a", Role: "admin"})
	require.NoError(t, err)
	second, err := store.UpsertUser(ctx, domain.User{Username: "admin", PasswordHash: "b", Role: "admin"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	found, err := store.FindUserByUsername(ctx, "ADMIN")
	require.NoError(t, err)
	require.Equal(t, "b", found.PasswordHash)

	_, err = store.FindUserByUsername(ctx, "ghost")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestOutboxLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	m, err := store.CreateMember(ctx, domain.Member{Name: "Ana", MembershipType: "gold", StartDate: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = store.CreatePayment(ctx, domain.Payment{MemberID: m.ID, Amount: 25, PaymentDate: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.Equal(t, 2, store.PendingOutbox())

	claimed, err := store.ClaimOutbox(ctx, 10, time.Minute)
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	require.Equal(t, domain.EventMemberJoined, claimed[0].EventType)
	require.Equal(t, "member:1:member.joined", claimed[0].DedupeKey)

	var payload domain.PaymentRecorded
	require.NoError(t, json.Unmarshal(claimed[1].Payload, &payload))
	require.Equal(t, "2024-05-02", payload.PaymentDate)

	again, err := store.ClaimOutbox(ctx, 10, time.Minute)
	require.NoError(t, err)
	require.Empty(t, again, "leased messages must not be claimed twice")

	require.NoError(t, store.MarkPublished(ctx, []int64{claimed[0].EventID}))
	require.NoError(t, store.MarkFailed(ctx, []int64{claimed[1].EventID}, "broker down", 1))
	require.Zero(t, store.PendingOutbox())

	again, err = store.ClaimOutbox(ctx, 10, 0)
	require.NoError(t, err)
	require.Empty(t, again)

	requeued, err := store.RequeueParked(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 1, requeued)
	require.Equal(t, 1, store.PendingOutbox())
}
