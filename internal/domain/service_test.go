package domain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.June, 15, 23, 30, 0, 0, time.FixedZone("UTC+2", 2*3600))

func TestRegisterMemberNormalizes(t *testing.T) {
	repo := &recordingRepo{}
	svc := NewService(repo)

	_, err := svc.RegisterMember(context.Background(), Member{
		Name:           "  Ana ",
		MembershipType: " Gold ",
		StartDate:      time.Date(2024, time.June, 15, 22, 0, 0, 0, now.Location()),
	}, now)
	require.NoError(t, err)
	require.Equal(t, "Ana", repo.member.Name)
	require.Equal(t, "gold", repo.member.MembershipType)
	require.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), repo.member.StartDate)
}

func TestRegisterMemberRejectsFutureStart(t *testing.T) {
	svc := NewService(&recordingRepo{})
	_, err := svc.RegisterMember(context.Background(), Member{Name: "Ana", StartDate: time.Date(2024, time.June, 16, 0, 0, 0, 0, time.UTC)}, now)
	require.ErrorIs(t, err, ErrInvalidRecord)
}

func TestScheduleClassChecksTime(t *testing.T) {
	svc := NewService(&recordingRepo{})
	for _, value := range []string{"7am", "24:00", "", "07:5"} {
		_, err := svc.ScheduleClass(context.Background(), Class{Name: "Flow", Time: value})
		require.ErrorIs(t, err, ErrInvalidRecord, value)
	}
	_, err := svc.ScheduleClass(context.Background(), Class{Name: "Flow", Time: "07:30"})
	require.NoError(t, err)
}

func TestRecordPaymentRejectsNegativeAmount(t *testing.T) {
	repo := &recordingRepo{}
	svc := NewService(repo)

	_, err := svc.RecordPayment(context.Background(), Payment{MemberID: 1, Amount: -0.01})
	require.ErrorIs(t, err, ErrInvalidRecord)

	_, err = svc.RecordPayment(context.Background(), Payment{MemberID: 1, Amount: 0, PaymentDate: now})
	require.NoError(t, err)
	require.Equal(t, "2024-06-15", repo.payment.PaymentDate.Format(DateLayout))
}

func TestStoreErrorMatching(t *testing.T) {
	cause := context.DeadlineExceeded
	err := Unavailable("postgres.count_members", cause)
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, ErrQueryFailure)
	require.Equal(t, "store_unavailable", ErrorKind(err))

	err = InvalidReference("sqlite.create_payment", ErrUserNotFound)
	require.ErrorIs(t, err, ErrQueryFailure)
	require.ErrorIs(t, err, ErrInvalidReference)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.Equal(t, "invalid_reference", ErrorKind(err))

	require.Equal(t, "query_failure", ErrorKind(QueryFailed("op", context.Canceled)))
	require.Equal(t, "none", ErrorKind(nil))
}

func TestEventsCarryDates(t *testing.T) {
	trainer := int64(3)
	ev := ClassEvent(Class{ID: 9, Name: "Flow", TrainerID: &trainer, Time: "07:30"})
	require.Equal(t, EventClassScheduled, ev.Type)
	require.Equal(t, "class", ev.AggregateType)
	require.Equal(t, int64(9), ev.AggregateID)

	ev = AttendanceEvent(Attendance{ID: 4, MemberID: 1, ClassID: 9, Date: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)})
	require.Equal(t, "2024-06-01", ev.Payload.(AttendanceRecorded).Date)

	ev = MemberEvent(Member{ID: 1})
	require.Empty(t, ev.Payload.(MemberJoined).StartDate)
}

type recordingRepo struct {
	RecordRepository
	member  Member
	payment Payment
}

func (r *recordingRepo) CreateMember(_ context.Context, m Member) (Member, error) {
	r.member = m
	return m, nil
}

func (r *recordingRepo) CreateClass(_ context.Context, c Class) (Class, error) {
	return c, nil
}

func (r *recordingRepo) CreatePayment(_ context.Context, p Payment) (Payment, error) {
	r.payment = p
	return p, nil
}
