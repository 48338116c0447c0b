package analytics

import (
	"context"
	"time"
)

// DateRange is the half-open calendar interval [From, To). A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the calendar date d falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !d.Before(r.To) {
		return false
	}
	return true
}

// MonthlyTotal is a store-side payment aggregate for one calendar month.
type MonthlyTotal struct {
	Month  string // YYYY-MM
	Amount float64
	Count  int64
}

// TypeCount is the number of members holding a membership type.
type TypeCount struct {
	Type  string
	Count int64
}

// ClassAttendance is a class left-joined with its attendance row count.
type ClassAttendance struct {
	ClassID    int64
	ClassName  string
	Time       string
	Attendance int64
}

// TrainerLoad summarises the classes a trainer leads.
// AttendedClasses counts the classes having at least one attendance row and
// AttendanceTotal sums the attendance rows over those classes.
type TrainerLoad struct {
	TrainerID       int64
	Name            string
	Specialty       string
	Classes         int64
	AttendedClasses int64
	AttendanceTotal int64
}

// Store is the read-only query surface the aggregator and composer depend on.
// Implementations must bind every parameter and must not retain state between calls.
type Store interface {
	CountMembers(ctx context.Context) (int64, error)
	CountMembersStarted(ctx context.Context, r DateRange) (int64, error)
	CountClasses(ctx context.Context) (int64, error)
	CountTrainers(ctx context.Context) (int64, error)
	CountAttendance(ctx context.Context, r DateRange) (int64, error)
	SumPayments(ctx context.Context, r DateRange) (float64, error)
	MonthlyPayments(ctx context.Context, r DateRange) ([]MonthlyTotal, error)
	MembershipCounts(ctx context.Context) ([]TypeCount, error)
	ClassAttendance(ctx context.Context) ([]ClassAttendance, error)
	TrainerLoads(ctx context.Context) ([]TrainerLoad, error)
}
