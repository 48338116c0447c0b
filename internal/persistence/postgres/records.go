package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Priyanshux26/Gym-management-system/internal/domain"
	"github.com/Priyanshux26/Gym-management-system/internal/persistence"
)

// insertWithEvent runs insert and writes the event it returns to the outbox inside one transaction.
func (s *Store) insertWithEvent(ctx context.Context, op string, insert func(context.Context, pgx.Tx) (domain.Event, error)) error {
	return s.withConn(ctx, op, func(ctx context.Context, conn *pgxpool.Conn) (err error) {
		tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer func() {
			if err != nil {
				tx.Rollback(ctx)
			}
		}()

		event, err := insert(ctx, tx)
		if err != nil {
			return err
		}
		if err = insertOutbox(ctx, tx, event); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
}

func insertOutbox(ctx context.Context, tx pgx.Tx, event domain.Event) error {
	body, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	const stmt = `INSERT INTO outbox (event_type, aggregate_type, aggregate_id, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5)`

	_, err = tx.Exec(ctx, stmt,
		event.Type,
		event.AggregateType,
		event.AggregateID,
		body,
		persistence.DedupeKey(event.AggregateType, event.AggregateID, event.Type),
	)
	return err
}

// CreateMember implements domain.RecordRepository.
func (s *Store) CreateMember(ctx context.Context, m domain.Member) (domain.Member, error) {
	err := s.insertWithEvent(ctx, "create_member", func(ctx context.Context, tx pgx.Tx) (domain.Event, error) {
		const stmt = `INSERT INTO members (name, contact, email, membership_type, start_date)
            VALUES ($1,$2,$3,$4,$5::date) RETURNING id`
		if err := tx.QueryRow(ctx, stmt, m.Name, m.Contact, m.Email, m.MembershipType, m.StartDate).Scan(&m.ID); err != nil {
			return domain.Event{}, err
		}
		return domain.MemberEvent(m), nil
	})
	if err != nil {
		return domain.Member{}, err
	}
	return m, nil
}

// ListMembers implements domain.RecordRepository.
func (s *Store) ListMembers(ctx context.Context) ([]domain.Member, error) {
	return s.queryMembers(ctx, "list_members", `SELECT id, name, contact, email, membership_type, start_date FROM members ORDER BY id`)
}

// RecentMembers implements domain.RecordRepository.
func (s *Store) RecentMembers(ctx context.Context, limit int) ([]domain.Member, error) {
	return s.queryMembers(ctx, "recent_members", `SELECT id, name, contact, email, membership_type, start_date
        FROM members ORDER BY start_date DESC, id DESC LIMIT $1`, limit)
}

func (s *Store) queryMembers(ctx context.Context, op, query string, args ...any) ([]domain.Member, error) {
	var out []domain.Member
	err := s.withConn(ctx, op, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var m domain.Member
			if err := rows.Scan(&m.ID, &m.Name, &m.Contact, &m.Email, &m.MembershipType, &m.StartDate); err != nil {
				return err
			}
			out = append(out, m)
		}
		return rows.Err()
	})
	return out, err
}

// CreateTrainer implements domain.RecordRepository.
func (s *Store) CreateTrainer(ctx context.Context, t domain.Trainer) (domain.Trainer, error) {
	err := s.insertWithEvent(ctx, "create_trainer", func(ctx context.Context, tx pgx.Tx) (domain.Event, error) {
		const stmt = `INSERT INTO trainers (name, specialty, contact) VALUES ($1,$2,$3) RETURNING id`
		if err := tx.QueryRow(ctx, stmt, t.Name, t.Specialty, t.Contact).Scan(&t.ID); err != nil {
			return domain.Event{}, err
		}
		return domain.TrainerEvent(t), nil
	})
	if err != nil {
		return domain.Trainer{}, err
	}
	return t, nil
}

// ListTrainers implements domain.RecordRepository.
func (s *Store) ListTrainers(ctx context.Context) ([]domain.Trainer, error) {
	var out []domain.Trainer
	err := s.withConn(ctx, "list_trainers", func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `SELECT id, name, specialty, contact FROM trainers ORDER BY id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var t domain.Trainer
			if err := rows.Scan(&t.ID, &t.Name, &t.Specialty, &t.Contact); err != nil {
				return err
			}
			out = append(out, t)
		}
		return rows.Err()
	})
	return out, err
}

// CreateClass implements domain.RecordRepository.
func (s *Store) CreateClass(ctx context.Context, c domain.Class) (domain.Class, error) {
	err := s.insertWithEvent(ctx, "create_class", func(ctx context.Context, tx pgx.Tx) (domain.Event, error) {
		const stmt = `INSERT INTO classes (name, trainer_id, time) VALUES ($1,$2,$3) RETURNING id`
		if err := tx.QueryRow(ctx, stmt, c.Name, c.TrainerID, c.Time).Scan(&c.ID); err != nil {
			return domain.Event{}, err
		}
		return domain.ClassEvent(c), nil
	})
	if err != nil {
		return domain.Class{}, err
	}
	return c, nil
}

// ListClasses implements domain.RecordRepository.
func (s *Store) ListClasses(ctx context.Context) ([]domain.Class, error) {
	return s.queryClasses(ctx, "list_classes", `SELECT id, name, trainer_id, time FROM classes ORDER BY id`)
}

// ClassesByTime implements domain.RecordRepository.
func (s *Store) ClassesByTime(ctx context.Context) ([]domain.Class, error) {
	return s.queryClasses(ctx, "classes_by_time", `SELECT id, name, trainer_id, time FROM classes ORDER BY time, id`)
}

func (s *Store) queryClasses(ctx context.Context, op, query string) ([]domain.Class, error) {
	var out []domain.Class
	err := s.withConn(ctx, op, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var c domain.Class
			if err := rows.Scan(&c.ID, &c.Name, &c.TrainerID, &c.Time); err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	return out, err
}

// CreatePayment implements domain.RecordRepository.
func (s *Store) CreatePayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	err := s.insertWithEvent(ctx, "create_payment", func(ctx context.Context, tx pgx.Tx) (domain.Event, error) {
		const stmt = `INSERT INTO payments (member_id, amount, payment_date) VALUES ($1,$2,$3::date) RETURNING id`
		if err := tx.QueryRow(ctx, stmt, p.MemberID, p.Amount, p.PaymentDate).Scan(&p.ID); err != nil {
			return domain.Event{}, err
		}
		return domain.PaymentEvent(p), nil
	})
	if err != nil {
		return domain.Payment{}, err
	}
	return p, nil
}

// ListPayments implements domain.RecordRepository.
func (s *Store) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return s.queryPayments(ctx, "list_payments", `SELECT id, member_id, amount, payment_date FROM payments ORDER BY id`)
}

// RecentPayments implements domain.RecordRepository.
func (s *Store) RecentPayments(ctx context.Context, limit int) ([]domain.Payment, error) {
	return s.queryPayments(ctx, "recent_payments", `SELECT id, member_id, amount, payment_date
        FROM payments ORDER BY payment_date DESC, id DESC LIMIT $1`, limit)
}

func (s *Store) queryPayments(ctx context.Context, op, query string, args ...any) ([]domain.Payment, error) {
	var out []domain.Payment
	err := s.withConn(ctx, op, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p domain.Payment
			if err := rows.Scan(&p.ID, &p.MemberID, &p.Amount, &p.PaymentDate); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	return out, err
}

// CreateAttendance implements domain.RecordRepository.
func (s *Store) CreateAttendance(ctx context.Context, a domain.Attendance) (domain.Attendance, error) {
	err := s.insertWithEvent(ctx, "create_attendance", func(ctx context.Context, tx pgx.Tx) (domain.Event, error) {
		const stmt = `INSERT INTO attendance (member_id, class_id, date) VALUES ($1,$2,$3::date) RETURNING id`
		if err := tx.QueryRow(ctx, stmt, a.MemberID, a.ClassID, a.Date).Scan(&a.ID); err != nil {
			return domain.Event{}, err
		}
		return domain.AttendanceEvent(a), nil
	})
	if err != nil {
		return domain.Attendance{}, err
	}
	return a, nil
}

// ListAttendance implements domain.RecordRepository.
func (s *Store) ListAttendance(ctx context.Context) ([]domain.Attendance, error) {
	return s.queryAttendance(ctx, "list_attendance", `SELECT id, member_id, class_id, date FROM attendance ORDER BY id`)
}

// RecentAttendance implements domain.RecordRepository.
func (s *Store) RecentAttendance(ctx context.Context, limit int) ([]domain.Attendance, error) {
	return s.queryAttendance(ctx, "recent_attendance", `SELECT id, member_id, class_id, date
        FROM attendance ORDER BY date DESC, id DESC LIMIT $1`, limit)
}

func (s *Store) queryAttendance(ctx context.Context, op, query string, args ...any) ([]domain.Attendance, error) {
	var out []domain.Attendance
	err := s.withConn(ctx, op, func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var a domain.Attendance
			if err := rows.Scan(&a.ID, &a.MemberID, &a.ClassID, &a.Date); err != nil {
				return err
			}
			out = append(out, a)
		}
		return rows.Err()
	})
	return out, err
}
