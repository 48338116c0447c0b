// Package memory provides an in-process store for local development and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Priyanshux26/Gym-management-system/internal/analytics"
	"github.com/Priyanshux26/Gym-management-system/internal/domain"
	"github.com/Priyanshux26/Gym-management-system/internal/outbox"
	"github.com/Priyanshux26/Gym-management-system/internal/persistence"
)

// Store keeps every table in memory behind a RWMutex.
type Store struct {
	mu         sync.RWMutex
	nextID     int64
	members    []domain.Member
	trainers   []domain.Trainer
	classes    []domain.Class
	payments   []domain.Payment
	attendance []domain.Attendance
	users      map[string]domain.User
	outbox     []outboxRow
}

type outboxRow struct {
	msg         outbox.Message
	claimedAt   time.Time
	publishedAt time.Time
	parked      bool
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{users: make(map[string]domain.User)}
}

// Migrate is a no-op kept for parity with the SQL stores.
func (s *Store) Migrate(context.Context) error { return nil }

// Close is a no-op kept for parity with the SQL stores.
func (s *Store) Close() {}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) enqueue(ev domain.Event) error {
	body, err := json.Marshal(ev.Payload)
	if err != nil {
		return domain.QueryFailed("memory.outbox", err)
	}
	s.outbox = append(s.outbox, outboxRow{msg: outbox.Message{
		EventID:       s.id(),
		EventType:     ev.Type,
		AggregateType: ev.AggregateType,
		AggregateID:   ev.AggregateID,
		DedupeKey:     persistence.DedupeKey(ev.AggregateType, ev.AggregateID, ev.Type),
		Payload:       body,
		CreatedAt:     time.Now().UTC(),
	}})
	return nil
}

// CreateMember implements domain.RecordRepository.
func (s *Store) CreateMember(_ context.Context, m domain.Member) (domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id()
	s.members = append(s.members, m)
	return m, s.enqueue(domain.MemberEvent(m))
}

// ListMembers implements domain.RecordRepository.
func (s *Store) ListMembers(context.Context) ([]domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Member(nil), s.members...), nil
}

// RecentMembers implements domain.RecordRepository.
func (s *Store) RecentMembers(_ context.Context, limit int) ([]domain.Member, error) {
	s.mu.RLock()
	out := append([]domain.Member(nil), s.members...)
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return head(out, limit), nil
}

// CreateTrainer implements domain.RecordRepository.
func (s *Store) CreateTrainer(_ context.Context, t domain.Trainer) (domain.Trainer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	s.trainers = append(s.trainers, t)
	return t, s.enqueue(domain.TrainerEvent(t))
}

// ListTrainers implements domain.RecordRepository.
func (s *Store) ListTrainers(context.Context) ([]domain.Trainer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Trainer(nil), s.trainers...), nil
}

// CreateClass implements domain.RecordRepository.
func (s *Store) CreateClass(_ context.Context, c domain.Class) (domain.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.TrainerID != nil && !s.hasTrainer(*c.TrainerID) {
		return domain.Class{}, domain.InvalidReference("memory.create_class", fmt.Errorf("trainer %d", *c.TrainerID))
	}
	c.ID = s.id()
	s.classes = append(s.classes, c)
	return c, s.enqueue(domain.ClassEvent(c))
}

// ListClasses implements domain.RecordRepository.
func (s *Store) ListClasses(context.Context) ([]domain.Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Class(nil), s.classes...), nil
}

// ClassesByTime implements domain.RecordRepository.
func (s *Store) ClassesByTime(context.Context) ([]domain.Class, error) {
	s.mu.RLock()
	out := append([]domain.Class(nil), s.classes...)
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

// CreatePayment implements domain.RecordRepository.
func (s *Store) CreatePayment(_ context.Context, p domain.Payment) (domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasMember(p.MemberID) {
		return domain.Payment{}, domain.InvalidReference("memory.create_payment", fmt.Errorf("member %d", p.MemberID))
	}
	p.ID = s.id()
	s.payments = append(s.payments, p)
	return p, s.enqueue(domain.PaymentEvent(p))
}

// ListPayments implements domain.RecordRepository.
func (s *Store) ListPayments(context.Context) ([]domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Payment(nil), s.payments...), nil
}

// RecentPayments implements domain.RecordRepository.
func (s *Store) RecentPayments(_ context.Context, limit int) ([]domain.Payment, error) {
	s.mu.RLock()
	out := append([]domain.Payment(nil), s.payments...)
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PaymentDate.Equal(out[j].PaymentDate) {
			return out[i].PaymentDate.After(out[j].PaymentDate)
		}
		return out[i].ID > out[j].ID
	})
	return head(out, limit), nil
}

// CreateAttendance implements domain.RecordRepository.
func (s *Store) CreateAttendance(_ context.Context, a domain.Attendance) (domain.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasMember(a.MemberID) {
		return domain.Attendance{}, domain.InvalidReference("memory.create_attendance", fmt.Errorf("member %d", a.MemberID))
	}
	if !s.hasClass(a.ClassID) {
		return domain.Attendance{}, domain.InvalidReference("memory.create_attendance", fmt.Errorf("class %d", a.ClassID))
	}
	a.ID = s.id()
	s.attendance = append(s.attendance, a)
	return a, s.enqueue(domain.AttendanceEvent(a))
}

// ListAttendance implements domain.RecordRepository.
func (s *Store) ListAttendance(context.Context) ([]domain.Attendance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Attendance(nil), s.attendance...), nil
}

// RecentAttendance implements domain.RecordRepository.
func (s *Store) RecentAttendance(_ context.Context, limit int) ([]domain.Attendance, error) {
	s.mu.RLock()
	out := append([]domain.Attendance(nil), s.attendance...)
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return head(out, limit), nil
}

// FindUserByUsername implements domain.UserRepository.
func (s *Store) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.ToLower(username)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// UpsertUser implements domain.UserRepository.
func (s *Store) UpsertUser(_ context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(u.Username)
	if existing, ok := s.users[key]; ok {
		u.ID = existing.ID
	} else {
		u.ID = s.id()
	}
	s.users[key] = u
	return u, nil
}

func (s *Store) hasMember(id int64) bool {
	for _, m := range s.members {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) hasTrainer(id int64) bool {
	for _, t := range s.trainers {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) hasClass(id int64) bool {
	for _, c := range s.classes {
		if c.ID == id {
			return true
		}
	}
	return false
}

func head[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

var _ analytics.Store = (*Store)(nil)
var _ domain.RecordRepository = (*Store)(nil)
var _ domain.UserRepository = (*Store)(nil)
var _ outbox.Source = (*Store)(nil)
var _ outbox.Requeuer = (*Store)(nil)
