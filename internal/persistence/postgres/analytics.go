package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Priyanshux26/Gym-management-system/internal/analytics"
	"github.com/Priyanshux26/Gym-management-system/internal/persistence"
)

func asDate(t time.Time) any { return t }

func (s *Store) scalar(ctx context.Context, op, query string, args []any, dest any) error {
	return s.withConn(ctx, op, func(ctx context.Context, conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(dest)
	})
}

// CountMembers implements analytics.Store.
func (s *Store) CountMembers(ctx context.Context) (int64, error) {
	var n int64
	err := s.scalar(ctx, "count_members", `SELECT COUNT(*) FROM members`, nil, &n)
	return n, err
}

// CountMembersStarted implements analytics.Store.
func (s *Store) CountMembersStarted(ctx context.Context, r analytics.DateRange) (int64, error) {
	args := persistence.NumberedArgs()
	query := `SELECT COUNT(*) FROM members` + persistence.RangeWhere("start_date", r, args, asDate, "::date")
	var n int64
	err := s.scalar(ctx, "count_members_started", query, args.Values(), &n)
	return n, err
}

// CountClasses implements analytics.Store.
func (s *Store) CountClasses(ctx context.Context) (int64, error) {
	var n int64
	err := s.scalar(ctx, "count_classes", `SELECT COUNT(*) FROM classes`, nil, &n)
	return n, err
}

// CountTrainers implements analytics.Store.
func (s *Store) CountTrainers(ctx context.Context) (int64, error) {
	var n int64
	err := s.scalar(ctx, "count_trainers", `SELECT COUNT(*) FROM trainers`, nil, &n)
	return n, err
}

// CountAttendance implements analytics.Store.
func (s *Store) CountAttendance(ctx context.Context, r analytics.DateRange) (int64, error) {
	args := persistence.NumberedArgs()
	query := `SELECT COUNT(*) FROM attendance` + persistence.RangeWhere("date", r, args, asDate, "::date")
	var n int64
	err := s.scalar(ctx, "count_attendance", query, args.Values(), &n)
	return n, err
}

// SumPayments implements analytics.Store. An empty set sums to 0.
func (s *Store) SumPayments(ctx context.Context, r analytics.DateRange) (float64, error) {
	args := persistence.NumberedArgs()
	query := `SELECT COALESCE(SUM(amount), 0)::float8 FROM payments` + persistence.RangeWhere("payment_date", r, args, asDate, "::date")
	var sum float64
	err := s.scalar(ctx, "sum_payments", query, args.Values(), &sum)
	return sum, err
}

// MonthlyPayments implements analytics.Store.
func (s *Store) MonthlyPayments(ctx context.Context, r analytics.DateRange) ([]analytics.MonthlyTotal, error) {
	args := persistence.NumberedArgs()
	query := `SELECT to_char(payment_date, 'YYYY-MM') AS month, COALESCE(SUM(amount), 0)::float8, COUNT(*)
        FROM payments` + persistence.RangeWhere("payment_date", r, args, asDate, "::date") + `
        GROUP BY month
        ORDER BY month DESC`

	var out []analytics.MonthlyTotal
	err := s.withConn(ctx, "monthly_payments", func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, args.Values()...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var row analytics.MonthlyTotal
			if err := rows.Scan(&row.Month, &row.Amount, &row.Count); err != nil {
				return err
			}
			out = append(out, row)
		}
		return rows.Err()
	})
	return out, err
}

// MembershipCounts implements analytics.Store.
func (s *Store) MembershipCounts(ctx context.Context) ([]analytics.TypeCount, error) {
	const query = `SELECT membership_type, COUNT(*) FROM members GROUP BY membership_type ORDER BY membership_type`

	var out []analytics.TypeCount
	err := s.withConn(ctx, "membership_counts", func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var row analytics.TypeCount
			if err := rows.Scan(&row.Type, &row.Count); err != nil {
				return err
			}
			out = append(out, row)
		}
		return rows.Err()
	})
	return out, err
}

// ClassAttendance implements analytics.Store.
func (s *Store) ClassAttendance(ctx context.Context) ([]analytics.ClassAttendance, error) {
	const query = `SELECT c.id, c.name, c.time, COUNT(a.id)
        FROM classes c
        LEFT JOIN attendance a ON a.class_id = c.id
        GROUP BY c.id, c.name, c.time
        ORDER BY COUNT(a.id) DESC, c.id`

	var out []analytics.ClassAttendance
	err := s.withConn(ctx, "class_attendance", func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var row analytics.ClassAttendance
			if err := rows.Scan(&row.ClassID, &row.ClassName, &row.Time, &row.Attendance); err != nil {
				return err
			}
			out = append(out, row)
		}
		return rows.Err()
	})
	return out, err
}

// TrainerLoads implements analytics.Store.
func (s *Store) TrainerLoads(ctx context.Context) ([]analytics.TrainerLoad, error) {
	const query = `SELECT t.id, t.name, t.specialty,
            COUNT(c.id),
            COUNT(c.id) FILTER (WHERE ca.attended > 0),
            COALESCE(SUM(ca.attended), 0)::bigint
        FROM trainers t
        LEFT JOIN classes c ON c.trainer_id = t.id
        LEFT JOIN (
            SELECT class_id, COUNT(*) AS attended FROM attendance GROUP BY class_id
        ) ca ON ca.class_id = c.id
        GROUP BY t.id, t.name, t.specialty
        ORDER BY t.id`

	var out []analytics.TrainerLoad
	err := s.withConn(ctx, "trainer_loads", func(ctx context.Context, conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var row analytics.TrainerLoad
			if err := rows.Scan(&row.TrainerID, &row.Name, &row.Specialty, &row.Classes, &row.AttendedClasses, &row.AttendanceTotal); err != nil {
				return err
			}
			out = append(out, row)
		}
		return rows.Err()
	})
	return out, err
}
