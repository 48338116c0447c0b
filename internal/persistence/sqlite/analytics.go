package sqlite

import (
	"context"
	"database/sql"

	"github.com/Priyanshux26/Gym-management-system/internal/analytics"
	"github.com/Priyanshux26/Gym-management-system/internal/persistence"
)

func (s *Store) scalar(ctx context.Context, op, query string, args []any, dest any) error {
	return s.withConn(ctx, op, func(ctx context.Context, conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, query, args...).Scan(dest)
	})
}

func (s *Store) count(ctx context.Context, op, table, column string, r analytics.DateRange) (int64, error) {
	args := persistence.PositionalArgs()
	query := "SELECT COUNT(*) FROM " + table
	if column != "" {
		query += persistence.RangeWhere(column, r, args, asDate, "")
	}
	var n int64
	err := s.scalar(ctx, op, query, args.Values(), &n)
	return n, err
}

// CountMembers implements analytics.Store.
func (s *Store) CountMembers(ctx context.Context) (int64, error) {
	return s.count(ctx, "count_members", "members", "", analytics.DateRange{})
}

// CountMembersStarted implements analytics.Store.
func (s *Store) CountMembersStarted(ctx context.Context, r analytics.DateRange) (int64, error) {
	return s.count(ctx, "count_members_started", "members", "start_date", r)
}

// CountClasses implements analytics.Store.
func (s *Store) CountClasses(ctx context.Context) (int64, error) {
	return s.count(ctx, "count_classes", "classes", "", analytics.DateRange{})
}

// CountTrainers implements analytics.Store.
func (s *Store) CountTrainers(ctx context.Context) (int64, error) {
	return s.count(ctx, "count_trainers", "trainers", "", analytics.DateRange{})
}

// CountAttendance implements analytics.Store.
func (s *Store) CountAttendance(ctx context.Context, r analytics.DateRange) (int64, error) {
	return s.count(ctx, "count_attendance", "attendance", "date", r)
}

// SumPayments implements analytics.Store. An empty set sums to 0.
func (s *Store) SumPayments(ctx context.Context, r analytics.DateRange) (float64, error) {
	args := persistence.PositionalArgs()
	query := `SELECT COALESCE(SUM(amount), 0.0) FROM payments` + persistence.RangeWhere("payment_date", r, args, asDate, "")
	var sum float64
	err := s.scalar(ctx, "sum_payments", query, args.Values(), &sum)
	return sum, err
}

// MonthlyPayments implements analytics.Store.
func (s *Store) MonthlyPayments(ctx context.Context, r analytics.DateRange) ([]analytics.MonthlyTotal, error) {
	args := persistence.PositionalArgs()
	query := `SELECT substr(payment_date, 1, 7) AS month, COALESCE(SUM(amount), 0.0), COUNT(*)
        FROM payments` + persistence.RangeWhere("payment_date", r, args, asDate, "") + `
        GROUP BY month
        ORDER BY month DESC`

	var out []analytics.MonthlyTotal
	err := s.withConn(ctx, "monthly_payments", func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args.Values()...)
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
	err := s.withConn(ctx, "membership_counts", func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query)
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
	const query = `SELECT c.id, c.name, c.time, COUNT(a.id) AS attended
        FROM classes c
        LEFT JOIN attendance a ON a.class_id = c.id
        GROUP BY c.id, c.name, c.time
        ORDER BY attended DESC, c.id`

	var out []analytics.ClassAttendance
	err := s.withConn(ctx, "class_attendance", func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query)
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
            COALESCE(SUM(CASE WHEN ca.attended > 0 THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(ca.attended), 0)
        FROM trainers t
        LEFT JOIN classes c ON c.trainer_id = t.id
        LEFT JOIN (
            SELECT class_id, COUNT(*) AS attended FROM attendance GROUP BY class_id
        ) ca ON ca.class_id = c.id
        GROUP BY t.id, t.name, t.specialty
        ORDER BY t.id`

	var out []analytics.TrainerLoad
	err := s.withConn(ctx, "trainer_loads", func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query)
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
