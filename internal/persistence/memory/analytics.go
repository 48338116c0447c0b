package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Priyanshux26/Gym-management-system/internal/analytics"
	"github.com/Priyanshux26/Gym-management-system/internal/outbox"
)

// CountMembers implements analytics.Store.
func (s *Store) CountMembers(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.members)), nil
}

// CountMembersStarted implements analytics.Store.
func (s *Store) CountMembersStarted(_ context.Context, r analytics.DateRange) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, m := range s.members {
		if r.Contains(m.StartDate) {
			n++
		}
	}
	return n, nil
}

// CountClasses implements analytics.Store.
func (s *Store) CountClasses(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.classes)), nil
}

// CountTrainers implements analytics.Store.
func (s *Store) CountTrainers(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.trainers)), nil
}

// CountAttendance implements analytics.Store.
func (s *Store) CountAttendance(_ context.Context, r analytics.DateRange) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, a := range s.attendance {
		if r.Contains(a.Date) {
			n++
		}
	}
	return n, nil
}

// SumPayments implements analytics.Store.
func (s *Store) SumPayments(_ context.Context, r analytics.DateRange) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum float64
	for _, p := range s.payments {
		if r.Contains(p.PaymentDate) {
			sum += p.Amount
		}
	}
	return sum, nil
}

// MonthlyPayments implements analytics.Store.
func (s *Store) MonthlyPayments(_ context.Context, r analytics.DateRange) ([]analytics.MonthlyTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byMonth := make(map[string]*analytics.MonthlyTotal)
	for _, p := range s.payments {
		if !r.Contains(p.PaymentDate) {
			continue
		}
		key := p.PaymentDate.Format("2006-01")
		row, ok := byMonth[key]
		if !ok {
			row = &analytics.MonthlyTotal{Month: key}
			byMonth[key] = row
		}
		row.Amount += p.Amount
		row.Count++
	}
	out := make([]analytics.MonthlyTotal, 0, len(byMonth))
	for _, row := range byMonth {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

// MembershipCounts implements analytics.Store.
func (s *Store) MembershipCounts(context.Context) ([]analytics.TypeCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int64)
	for _, m := range s.members {
		counts[m.MembershipType]++
	}
	out := make([]analytics.TypeCount, 0, len(counts))
	for typ, n := range counts {
		out = append(out, analytics.TypeCount{Type: typ, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

// ClassAttendance implements analytics.Store.
func (s *Store) ClassAttendance(context.Context) ([]analytics.ClassAttendance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	perClass := s.attendanceByClass()
	out := make([]analytics.ClassAttendance, 0, len(s.classes))
	for _, c := range s.classes {
		out = append(out, analytics.ClassAttendance{
			ClassID:    c.ID,
			ClassName:  c.Name,
			Time:       c.Time,
			Attendance: perClass[c.ID],
		})
	}
	return out, nil
}

// TrainerLoads implements analytics.Store.
func (s *Store) TrainerLoads(context.Context) ([]analytics.TrainerLoad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	perClass := s.attendanceByClass()
	out := make([]analytics.TrainerLoad, 0, len(s.trainers))
	for _, t := range s.trainers {
		load := analytics.TrainerLoad{TrainerID: t.ID, Name: t.Name, Specialty: t.Specialty}
		for _, c := range s.classes {
			if c.TrainerID == nil || *c.TrainerID != t.ID {
				continue
			}
			load.Classes++
			if n := perClass[c.ID]; n > 0 {
				load.AttendedClasses++
				load.AttendanceTotal += n
			}
		}
		out = append(out, load)
	}
	return out, nil
}

func (s *Store) attendanceByClass() map[int64]int64 {
	counts := make(map[int64]int64, len(s.classes))
	for _, a := range s.attendance {
		counts[a.ClassID]++
	}
	return counts
}

// ClaimOutbox implements outbox.Source.
func (s *Store) ClaimOutbox(_ context.Context, limit int, leaseFor time.Duration) ([]outbox.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var out []outbox.Message
	for i := range s.outbox {
		if len(out) >= limit {
			break
		}
		row := &s.outbox[i]
		if row.parked || !row.publishedAt.IsZero() {
			continue
		}
		if !row.claimedAt.IsZero() && now.Sub(row.claimedAt) < leaseFor {
			continue
		}
		row.claimedAt = now
		out = append(out, row.msg)
	}
	return out, nil
}

// MarkPublished implements outbox.Source.
func (s *Store) MarkPublished(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.eachOutbox(ids, func(row *outboxRow) {
		row.publishedAt = now
	})
	return nil
}

// MarkFailed implements outbox.Source.
func (s *Store) MarkFailed(_ context.Context, ids []int64, _ string, maxAttempts int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eachOutbox(ids, func(row *outboxRow) {
		row.msg.Attempts++
		row.claimedAt = time.Time{}
		if maxAttempts > 0 && row.msg.Attempts >= maxAttempts {
			row.parked = true
		}
	})
	return nil
}

// RequeueParked implements outbox.Requeuer.
func (s *Store) RequeueParked(_ context.Context, limit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.outbox {
		if limit > 0 && n >= limit {
			break
		}
		row := &s.outbox[i]
		if !row.parked || !row.publishedAt.IsZero() {
			continue
		}
		row.parked = false
		row.claimedAt = time.Time{}
		row.msg.Attempts = 0
		n++
	}
	return n, nil
}

// PendingOutbox returns the number of undelivered, unparked events.
func (s *Store) PendingOutbox() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, row := range s.outbox {
		if row.publishedAt.IsZero() && !row.parked {
			n++
		}
	}
	return n
}

func (s *Store) eachOutbox(ids []int64, fn func(*outboxRow)) {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	for i := range s.outbox {
		if _, ok := want[s.outbox[i].msg.EventID]; ok {
			fn(&s.outbox[i])
		}
	}
}
