// Package domain defines the gym back-office records and the workflows that create them.
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RecordRepository captures persistence operations for back-office records.
type RecordRepository interface {
	ListMembers(ctx context.Context) ([]Member, error)
	CreateMember(ctx context.Context, m Member) (Member, error)
	RecentMembers(ctx context.Context, limit int) ([]Member, error)

	ListTrainers(ctx context.Context) ([]Trainer, error)
	CreateTrainer(ctx context.Context, t Trainer) (Trainer, error)

	ListClasses(ctx context.Context) ([]Class, error)
	CreateClass(ctx context.Context, c Class) (Class, error)
	ClassesByTime(ctx context.Context) ([]Class, error)

	ListPayments(ctx context.Context) ([]Payment, error)
	CreatePayment(ctx context.Context, p Payment) (Payment, error)
	RecentPayments(ctx context.Context, limit int) ([]Payment, error)

	ListAttendance(ctx context.Context) ([]Attendance, error)
	CreateAttendance(ctx context.Context, a Attendance) (Attendance, error)
	RecentAttendance(ctx context.Context, limit int) ([]Attendance, error)
}

// UserRepository stores staff accounts.
type UserRepository interface {
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	UpsertUser(ctx context.Context, u User) (User, error)
}

// Service orchestrates record workflows.
type Service struct {
	repo RecordRepository
}

// NewService constructs a Service.
func NewService(repo RecordRepository) *Service {
	return &Service{repo: repo}
}

// ListMembers returns every member.
func (s *Service) ListMembers(ctx context.Context) ([]Member, error) {
	return s.repo.ListMembers(ctx)
}

// RegisterMember stores a new member. A start date after now is rejected.
func (s *Service) RegisterMember(ctx context.Context, m Member, now time.Time) (Member, error) {
	m.Name = strings.TrimSpace(m.Name)
	m.MembershipType = strings.ToLower(strings.TrimSpace(m.MembershipType))
	m.StartDate = Date(m.StartDate)
	if m.StartDate.After(Date(now)) {
		return Member{}, fmt.Errorf("%w: start_date %s is in the future", ErrInvalidRecord, m.StartDate.Format(DateLayout))
	}
	return s.repo.CreateMember(ctx, m)
}

// RecentMembers returns the newest members by start date.
func (s *Service) RecentMembers(ctx context.Context, limit int) ([]Member, error) {
	return s.repo.RecentMembers(ctx, limit)
}

// ListTrainers returns every trainer.
func (s *Service) ListTrainers(ctx context.Context) ([]Trainer, error) {
	return s.repo.ListTrainers(ctx)
}

// AddTrainer stores a new trainer.
func (s *Service) AddTrainer(ctx context.Context, t Trainer) (Trainer, error) {
	t.Name = strings.TrimSpace(t.Name)
	t.Specialty = strings.TrimSpace(t.Specialty)
	return s.repo.CreateTrainer(ctx, t)
}

// ListClasses returns every class.
func (s *Service) ListClasses(ctx context.Context) ([]Class, error) {
	return s.repo.ListClasses(ctx)
}

// ScheduleClass stores a new class.
func (s *Service) ScheduleClass(ctx context.Context, c Class) (Class, error) {
	c.Name = strings.TrimSpace(c.Name)
	if _, err := time.Parse("15:04", c.Time); err != nil {
		return Class{}, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidRecord, c.Time)
	}
	return s.repo.CreateClass(ctx, c)
}

// TodaysClasses returns the class timetable ordered by time of day.
func (s *Service) TodaysClasses(ctx context.Context) ([]Class, error) {
	return s.repo.ClassesByTime(ctx)
}

// ListPayments returns every payment.
func (s *Service) ListPayments(ctx context.Context) ([]Payment, error) {
	return s.repo.ListPayments(ctx)
}

// RecordPayment stores a payment. Amounts must be non-negative.
func (s *Service) RecordPayment(ctx context.Context, p Payment) (Payment, error) {
	if p.Amount < 0 {
		return Payment{}, fmt.Errorf("%w: amount must be >= 0", ErrInvalidRecord)
	}
	p.PaymentDate = Date(p.PaymentDate)
	return s.repo.CreatePayment(ctx, p)
}

// RecentPayments returns the newest payments by payment date.
func (s *Service) RecentPayments(ctx context.Context, limit int) ([]Payment, error) {
	return s.repo.RecentPayments(ctx, limit)
}

// ListAttendance returns every attendance row.
func (s *Service) ListAttendance(ctx context.Context) ([]Attendance, error) {
	return s.repo.ListAttendance(ctx)
}

// RecordAttendance stores an attendance row.
func (s *Service) RecordAttendance(ctx context.Context, a Attendance) (Attendance, error) {
	a.Date = Date(a.Date)
	return s.repo.CreateAttendance(ctx, a)
}

// RecentAttendance returns the newest attendance rows by date.
func (s *Service) RecentAttendance(ctx context.Context, limit int) ([]Attendance, error) {
	return s.repo.RecentAttendance(ctx, limit)
}
